package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDHonorsWellFormedInboundID(t *testing.T) {
	inbound := uuid.NewString()
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", inbound)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen != inbound {
		t.Fatalf("expected inbound id %q in context, got %q", inbound, seen)
	}
	if got := rr.Header().Get("X-Request-Id"); got != inbound {
		t.Fatalf("expected inbound id echoed, got %q", got)
	}
}

func TestRequestIDReplacesMalformedInboundID(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", "not-a-uuid; drop table")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	got := rr.Header().Get("X-Request-Id")
	if got == "not-a-uuid; drop table" {
		t.Fatal("malformed inbound id must not be propagated")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected a generated uuid, got %q", got)
	}
}
