package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		label      string
		statusCode int
	}{
		{
			name:       "uses the chi route pattern",
			method:     http.MethodPost,
			path:       "/api/v1/journal-entries/01ARZ3NDEKTSV4RRFFQ69G5FAV/post",
			label:      "/api/v1/journal-entries/{id}/post",
			statusCode: http.StatusConflict,
		},
		{
			name:       "keeps static routes as-is",
			method:     http.MethodGet,
			path:       "/health",
			label:      "/health",
			statusCode: http.StatusOK,
		},
		{
			name:       "normalizes unmatched ids",
			method:     http.MethodGet,
			path:       "/api/v1/unknown/01ARZ3NDEKTSV4RRFFQ69G5FAV",
			label:      "/api/v1/unknown/:id",
			statusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			httpRequestsTotal.Reset()
			httpRequestDuration.Reset()
			httpRequestsInFlight.Set(0)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			r := chi.NewRouter()
			r.Use(Metrics)
			r.Get("/health", next)
			r.Post("/api/v1/journal-entries/{id}/post", next)
			r.NotFound(next)

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			counter := httpRequestsTotal.WithLabelValues(tc.method, tc.label, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "ulid segment",
			input:    "/api/v1/accounts/01ARZ3NDEKTSV4RRFFQ69G5FAV",
			expected: "/api/v1/accounts/:id",
		},
		{
			name:     "ulid segment with suffix",
			input:    "/api/v1/journal-entries/01ARZ3NDEKTSV4RRFFQ69G5FAV/reverse",
			expected: "/api/v1/journal-entries/:id/reverse",
		},
		{
			name:     "uuid segment",
			input:    "/api/v1/closing/period-lock/123e4567-e89b-12d3-a456-426614174000",
			expected: "/api/v1/closing/period-lock/:id",
		},
		{
			name:     "non-matching path",
			input:    "/api/v1/trial-balance",
			expected: "/api/v1/trial-balance",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
