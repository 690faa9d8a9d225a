package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	e := NewTransport(cause)
	if !e.Transport() {
		t.Fatalf("expected transport error")
	}
	if e.Validation() {
		t.Fatalf("transport error must not be a validation error")
	}
	if !errors.Is(e, cause) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
}

func TestServiceError(t *testing.T) {
	e := NewService(http.StatusInternalServerError, "boom", nil)
	if e.Transport() {
		t.Fatalf("service error must carry its status")
	}
	if got := e.Error(); got != "shop: status 500: boom" {
		t.Fatalf("unexpected error string: %q", got)
	}
}

func TestValidationError(t *testing.T) {
	e := NewService(http.StatusUnprocessableEntity, "", map[string][]string{
		"name": {"required"},
	})
	if !e.Validation() {
		t.Fatalf("expected validation error for status 422")
	}
	if got := e.Fields["name"][0]; got != "required" {
		t.Fatalf("unexpected field message: %q", got)
	}
}

func TestFromUnwrapsChain(t *testing.T) {
	inner := NewService(http.StatusBadRequest, "no stock", nil)
	wrapped := fmt.Errorf("mutation failed: %w", inner)
	e, ok := From(wrapped)
	if !ok {
		t.Fatalf("expected to extract *Error from chain")
	}
	if e.Status != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", e.Status)
	}
	if _, ok := From(errors.New("plain")); ok {
		t.Fatalf("plain error must not convert")
	}
}

func TestServerMessageFallback(t *testing.T) {
	if got := ServerMessage(NewService(500, "server says", nil), "fallback"); got != "server says" {
		t.Fatalf("expected server message, got %q", got)
	}
	if got := ServerMessage(NewService(500, "", nil), "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := ServerMessage(errors.New("plain"), "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for plain error, got %q", got)
	}
}
