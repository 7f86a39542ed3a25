package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGenerate(t *testing.T) {
	id := Generate()
	if len(id) != 32 {
		t.Fatalf("expected 32 hex chars, got %q", id)
	}
	if id == Generate() {
		t.Fatalf("expected distinct ids")
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := NewContext(context.Background(), "abc")
	if FromContext(ctx) != "abc" {
		t.Fatalf("expected abc, got %q", FromContext(ctx))
	}
	if FromContext(context.Background()) != "" {
		t.Fatalf("expected empty id on bare context")
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = FromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Header, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if seen != "req-1" || w.Header().Get(Header) != "req-1" {
		t.Fatalf("expected request id to be propagated, got ctx=%q header=%q", seen, w.Header().Get(Header))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get(Header) == "" {
		t.Fatalf("expected generated request id")
	}
}
