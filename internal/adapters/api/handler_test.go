package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/poyrazK/pdnsadmin/internal/infrastructure/metrics"
)

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]HealthChecker
		wantCode   int
		wantStatus string
	}{
		{
			name:       "all up",
			checks:     map[string]HealthChecker{"database": HealthFunc(func(context.Context) error { return nil })},
			wantCode:   http.StatusOK,
			wantStatus: "UP",
		},
		{
			name: "redis down",
			checks: map[string]HealthChecker{
				"database": HealthFunc(func(context.Context) error { return nil }),
				"redis":    HealthFunc(func(context.Context) error { return errors.New("connection refused") }),
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "DEGRADED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			NewOpsHandler(tt.checks, nil).RegisterRoutes(mux)

			req := httptest.NewRequest("GET", "/health", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("Expected status %d, got %d", tt.wantCode, w.Code)
			}
			var resp struct {
				Status  string            `json:"status"`
				Details map[string]string `json:"details"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("Expected status %s, got %s", tt.wantStatus, resp.Status)
			}
			if len(resp.Details) != len(tt.checks) {
				t.Errorf("Expected %d details, got %v", len(tt.checks), resp.Details)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.OperationsTotal.WithLabelValues("add_record", "ok").Inc()

	mux := http.NewServeMux()
	NewOpsHandler(nil, nil).RegisterRoutes(mux)
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "pdnsadmin_operations_total") {
		t.Error("Expected pdnsadmin metrics in the output")
	}
}
