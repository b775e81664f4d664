package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDGenerated(t *testing.T) {
	var gotID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/getPreferences", nil))

	if gotID == "" {
		t.Fatal("expected a generated request ID in context")
	}
	if header := rec.Header().Get(RequestIDHeader); header != gotID {
		t.Errorf("response header %q does not match context ID %q", header, gotID)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	var gotID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/getPreferences", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if gotID != "req-123" {
		t.Errorf("expected caller-supplied ID to propagate, got %q", gotID)
	}
	if header := rec.Header().Get(RequestIDHeader); header != "req-123" {
		t.Errorf("unexpected response header %q", header)
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	if id := GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()); id != "" {
		t.Errorf("expected empty ID without middleware, got %q", id)
	}
}
