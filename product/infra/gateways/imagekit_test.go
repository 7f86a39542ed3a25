package gateways

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/giovaniif/fusion-store/infra"
	"github.com/giovaniif/fusion-store/product/protocols"
)

func TestImageKitUpload(t *testing.T) {
	var gotUser, gotPass, gotFolder, gotName, gotUnique, gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotFolder = r.FormValue("folder")
		gotName = r.FormValue("fileName")
		gotUnique = r.FormValue("useUniqueFileName")
		file, _, err := r.FormFile("file")
		if err == nil {
			raw, _ := io.ReadAll(file)
			gotContent = string(raw)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fileId":"f1","url":"https://ik.io/a.png","thumbnailUrl":"https://ik.io/tr/a.png"}`))
	}))
	defer srv.Close()

	gateway := NewImageKitGatewayHttp(srv.Client(), srv.URL, "private_key")
	image, err := gateway.Upload(context.Background(), protocols.Asset{
		FileName: "a.png",
		Folder:   "/products",
		Content:  []byte("png-bytes"),
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if image.Id != "f1" || image.URL != "https://ik.io/a.png" || image.Thumbnail != "https://ik.io/tr/a.png" {
		t.Fatalf("unexpected image %+v", image)
	}
	if gotUser != "private_key" || gotPass != "" {
		t.Fatalf("expected basic auth with private key, got %q:%q", gotUser, gotPass)
	}
	if gotFolder != "/products" || gotName != "a.png" || gotUnique != "true" || gotContent != "png-bytes" {
		t.Fatalf("unexpected form: folder=%q name=%q unique=%q content=%q", gotFolder, gotName, gotUnique, gotContent)
	}
}

func TestImageKitUploadThumbnailDefaultsToURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"fileId":"f2","url":"https://ik.io/b.png"}`))
	}))
	defer srv.Close()

	image, err := NewImageKitGatewayHttp(srv.Client(), srv.URL, "k").Upload(context.Background(), protocols.Asset{FileName: "b.png"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if image.Thumbnail != "https://ik.io/b.png" {
		t.Fatalf("expected thumbnail to default to url, got %q", image.Thumbnail)
	}
}

func TestImageKitUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad key"}`))
	}))
	defer srv.Close()

	_, err := NewImageKitGatewayHttp(srv.Client(), srv.URL, "k").Upload(context.Background(), protocols.Asset{FileName: "c.png"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if infra.StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", infra.StatusCode(err))
	}
}

func TestDisabledUploader(t *testing.T) {
	_, err := DisabledUploader{}.Upload(context.Background(), protocols.Asset{FileName: "a.png"})
	if !errors.Is(err, ErrUploadsDisabled) {
		t.Fatalf("expected ErrUploadsDisabled, got %v", err)
	}
}
