package logging

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

// TestLoggingMiddlewareSkipsProbes verifies that /health and /metrics endpoints are not logged
func TestLoggingMiddlewareSkipsProbes(t *testing.T) {
	var logOutput strings.Builder
	logger := slog.New(slog.NewTextHandler(&logOutput, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	mw := LoggingMiddleware(logger)

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	handler := mw(nextHandler)

	t.Run("/health is not logged", func(t *testing.T) {
		logOutput.Reset()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "test-123"))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if status := rr.Code; status != http.StatusOK {
			t.Errorf("expected status 200, got %d", status)
		}
		if logs := logOutput.String(); logs != "" {
			t.Errorf("expected no logs for /health, got: %s", logs)
		}
	})

	t.Run("/metrics is not logged", func(t *testing.T) {
		logOutput.Reset()
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if logs := logOutput.String(); logs != "" {
			t.Errorf("expected no logs for /metrics, got: %s", logs)
		}
	})

	t.Run("regular paths are logged", func(t *testing.T) {
		logOutput.Reset()
		req := httptest.NewRequest(http.MethodGet, "/medicines", nil)
		req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "test-789"))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		logs := logOutput.String()
		if logs == "" {
			t.Fatal("expected logs for regular path, got empty output")
		}
		if !strings.Contains(logs, "HTTP request") {
			t.Errorf("log should contain 'HTTP request', got: %s", logs)
		}
		if !strings.Contains(logs, "/medicines") {
			t.Errorf("log should contain path, got: %s", logs)
		}
		if !strings.Contains(logs, "test-789") {
			t.Errorf("log should contain request id, got: %s", logs)
		}
	})

	t.Run("missing request ID falls back to unknown", func(t *testing.T) {
		logOutput.Reset()
		req := httptest.NewRequest(http.MethodGet, "/medicines", nil)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if logs := logOutput.String(); !strings.Contains(logs, "unknown") {
			t.Errorf("log should fall back to unknown request id, got: %s", logs)
		}
	})
}

// TestLoggingMiddlewareCapturesStatus verifies status codes and byte counts reach the log
func TestLoggingMiddlewareCapturesStatus(t *testing.T) {
	var logOutput strings.Builder
	logger := slog.New(slog.NewTextHandler(&logOutput, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/medicines/nothing", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	logs := logOutput.String()
	if !strings.Contains(logs, "status_code=404") {
		t.Errorf("log should contain status_code=404, got: %s", logs)
	}
	if !strings.Contains(logs, "bytes_written=7") {
		t.Errorf("log should contain bytes_written=7, got: %s", logs)
	}
}
