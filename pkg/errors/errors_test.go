package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code          Code
		status        int
		fallback      string
		exposeMessage bool
		exposeDetails bool
	}{
		{CodeValidation, http.StatusBadRequest, "validation failed", true, true},
		{CodeNotFound, http.StatusNotFound, "resource not found", true, false},
		{CodeRateLimit, http.StatusTooManyRequests, "rate limit exceeded", true, false},
		{CodeUnsupportedMedia, http.StatusUnsupportedMediaType, "unsupported media type", true, true},
		{CodeUpstream, http.StatusBadGateway, "upstream request failed", true, false},
		{CodeInternal, http.StatusInternalServerError, "internal server error", false, false},
		{CodeDependency, http.StatusServiceUnavailable, "dependency unavailable", false, true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.Fallback != tt.fallback {
			t.Fatalf("code %s expected fallback %q got %q", tt.code, tt.fallback, meta.Fallback)
		}
		if meta.ExposeMessage != tt.exposeMessage || meta.ExposeDetails != tt.exposeDetails {
			t.Fatalf("code %s unexpected exposure %+v", tt.code, meta)
		}
	}
}

func TestPublicMessageHidesInternalText(t *testing.T) {
	if got := New(CodeInternal, "dial tcp 10.0.0.1").PublicMessage(); got != "internal server error" {
		t.Fatalf("internal message leaked: %q", got)
	}
	if got := New(CodeNotFound, "").PublicMessage(); got != "resource not found" {
		t.Fatalf("empty message should fall back, got %q", got)
	}
	if got := New(CodeUpstream, "Failed to fetch image: 404").PublicMessage(); got != "Failed to fetch image: 404" {
		t.Fatalf("upstream message should be exposed, got %q", got)
	}
	if New(CodeNotFound, "x").WithDetails("d").PublicDetails() != nil {
		t.Fatalf("not found details must stay private")
	}
}

func TestStatusOfUntypedIsInternal(t *testing.T) {
	if got := StatusOf(stdErrors.New("plain")); got != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", got)
	}
	if got := StatusOf(fmt.Errorf("wrapped: %w", New(CodeRateLimit, "slow down"))); got != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", got)
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "foo"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestHTTPStatusOverride(t *testing.T) {
	err := New(CodeUpstream, "image fetch failed")
	if got := err.HTTPStatus(); got != http.StatusBadGateway {
		t.Fatalf("expected default 502, got %d", got)
	}
	err.WithStatus(http.StatusNotFound)
	if got := err.HTTPStatus(); got != http.StatusNotFound {
		t.Fatalf("expected passthrough 404, got %d", got)
	}
	err.WithStatus(200)
	if got := err.HTTPStatus(); got != http.StatusBadGateway {
		t.Fatalf("non-error status must be ignored, got %d", got)
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "no car"))
	typed := As(err)
	if typed == nil || typed.Code() != CodeNotFound {
		t.Fatalf("expected typed not found error, got %v", typed)
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatalf("plain errors should not be typed")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("dial tcp: refused")
	err := Wrap(CodeUpstream, cause, "fetch image").WithStatus(http.StatusServiceUnavailable)

	dump := Dump(err)
	if dump.Code != CodeUpstream {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if dump.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d", dump.Status)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", dump.Chain)
	}
}
