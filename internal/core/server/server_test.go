package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mohammed-shakir/preheat-window/internal/core/health"
	"github.com/mohammed-shakir/preheat-window/internal/metrics"
)

func TestNewRouter_ProbesAndMetrics(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mp := metrics.Init(metrics.Config{Enabled: true})
	r := NewRouter(log, Deps{
		Metrics: mp,
		Ready: map[string]health.Checker{
			"redis": func(context.Context) error { return errors.New("down") },
		},
	})

	cases := []struct {
		path string
		code int
		body string
	}{
		{"/healthz", http.StatusOK, "ok"},
		{"/readyz", http.StatusServiceUnavailable, "not_ready"},
		{"/metrics", http.StatusOK, "preheat_build_info"},
		{"/preheat", http.StatusNotFound, ""},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rr.Code != tc.code {
			t.Fatalf("%s status=%d want %d", tc.path, rr.Code, tc.code)
		}
		if !strings.Contains(rr.Body.String(), tc.body) {
			t.Fatalf("%s body missing %q", tc.path, tc.body)
		}
	}
}

func TestNewRouter_MetricsDisabled(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter(log, Deps{Metrics: metrics.Init(metrics.Config{})})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d want 404", rr.Code)
	}
}
