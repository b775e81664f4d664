package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) Ping(context.Context) error {
	return m.err
}

func TestHealthz(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		store      HealthChecker
		cache      HealthChecker
		wantStatus int
	}{
		{
			name:       "all healthy",
			store:      &mockHealthChecker{},
			cache:      &mockHealthChecker{},
			wantStatus: http.StatusOK,
		},
		{
			name:       "cache not configured",
			store:      &mockHealthChecker{},
			cache:      nil,
			wantStatus: http.StatusOK,
		},
		{
			name:       "store unhealthy",
			store:      &mockHealthChecker{err: errors.New("table missing")},
			cache:      &mockHealthChecker{},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "cache unhealthy",
			store:      &mockHealthChecker{},
			cache:      &mockHealthChecker{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.store, tt.cache)

			rec := httptest.NewRecorder()
			h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}

			var response HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(response.Checks) != 2 {
				t.Errorf("expected dynamodb and redis checks, got %v", response.Checks)
			}
		})
	}
}
