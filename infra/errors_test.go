package infra

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"not found", NewNotFoundError("missing"), http.StatusNotFound},
		{"unauthorized", NewUnauthorizedError("who"), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("no"), http.StatusForbidden},
		{"conflict", NewConflictError("taken"), http.StatusConflict},
		{"internal", NewInternalError("boom", errors.New("cause")), http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("add item: %w", NewValidationError("bad")), http.StatusBadRequest},
		{"timeout", NewTimeoutError("product"), http.StatusGatewayTimeout},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"network", NewNetworkError("product"), http.StatusInternalServerError},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusCode(tc.err); got != tc.expected {
				t.Fatalf("expected status %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewNotFoundError("Product not found"))
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found, got %s", KindOf(err))
	}
	if !IsKind(err, KindNotFound) {
		t.Fatalf("expected IsKind to match not_found")
	}
	if KindOf(errors.New("x")) != KindInternal {
		t.Fatalf("expected internal for unclassified errors")
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError("failed to load cart", cause)
	if err.Error() != "failed to load cart: connection refused" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected error to unwrap to cause")
	}

	v := NewValidationError("Validation failed", []string{"title"})
	if v.Details == nil {
		t.Fatalf("expected details to be kept")
	}
}

func TestIsRetriable(t *testing.T) {
	if !IsRetriable(NewTimeoutError("x")) || !IsRetriable(NewNetworkError("x")) {
		t.Fatalf("expected timeout and network errors to be retriable")
	}
	if IsRetriable(errors.New("x")) || IsRetriable(nil) {
		t.Fatalf("expected other errors not to be retriable")
	}
}
