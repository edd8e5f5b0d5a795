package trace

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	applog "hoffman/internal/log"
)

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var seen string
	h := NewMiddleware(nil, nil).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panel", nil))

	if !strings.HasPrefix(seen, "req_") || len(seen) != len("req_")+16 {
		t.Fatalf("unexpected request id %q", seen)
	}
	if rec.Header().Get("X-Request-ID") != seen {
		t.Errorf("response header = %q, want %q", rec.Header().Get("X-Request-ID"), seen)
	}
}

func TestMiddlewareKeepsIncomingRequestID(t *testing.T) {
	var seen string
	h := NewMiddleware(nil, nil).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromRequest(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "abc123" {
		t.Errorf("request id = %q, want abc123", seen)
	}
}

func TestMiddlewareRecordsMetricsAndLogs(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	var buf bytes.Buffer
	cfg := applog.DefaultConfig()
	cfg.Format = applog.FormatJSON
	cfg.Writer = &buf
	logger := applog.New(cfg)

	h := applog.Middleware(logger)(NewMiddleware(func(*http.Request) string { return "10.0.0.9" }, metrics).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.WriteHeader(http.StatusOK)
		}),
	))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/config", nil))

	if got := testutil.ToFloat64(metrics.Requests.WithLabelValues("POST", "422")); got != 1 {
		t.Errorf("requests_total{POST,422} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.InFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["level"] != "WARN" || entry[applog.FieldClientIP] != "10.0.0.9" || entry[applog.FieldPath] != "/config" {
		t.Errorf("unexpected log entry %v", entry)
	}
}
