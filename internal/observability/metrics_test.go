package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDefaultMetricsConfig(t *testing.T) {
	cfg := DefaultMetricsConfig()

	if !cfg.Enabled {
		t.Error("expected Enabled=true by default")
	}
	if cfg.Namespace != "appshell" {
		t.Errorf("expected namespace 'appshell', got %q", cfg.Namespace)
	}
	if cfg.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", cfg.Version)
	}
}

func TestMetricsConfigFromEnv(t *testing.T) {
	t.Setenv("APPSHELL_METRICS_ENABLED", "false")
	t.Setenv("APP_VERSION", "v2.0.0")

	cfg := MetricsConfigFromEnv()
	if cfg.Enabled {
		t.Error("expected metrics disabled")
	}
	if cfg.Version != "v2.0.0" {
		t.Errorf("expected version v2.0.0, got %q", cfg.Version)
	}
}

func TestRecordHTTPRequestExposition(t *testing.T) {
	m := NewMetrics(MetricsConfig{Namespace: "test", Version: "1.0.0"})

	m.RecordHTTPRequest(http.MethodGet, "/healthz", http.StatusOK, 5*time.Millisecond)
	m.RecordHTTPRequest(http.MethodGet, "/healthz", http.StatusOK, 7*time.Millisecond)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	m.Handler().ServeHTTP(rr, req)

	body := rr.Body.String()
	if !strings.Contains(body, `test_info{version="1.0.0"} 1`) {
		t.Fatalf("missing info metric:\n%s", body)
	}
	if !strings.Contains(body, `test_http_requests_total{method="GET",path="/healthz",status="200"} 2`) {
		t.Fatalf("missing request counter:\n%s", body)
	}
	if !strings.Contains(body, `test_http_request_duration_seconds_count{method="GET",path="/healthz"} 2`) {
		t.Fatalf("missing duration count:\n%s", body)
	}
}

func TestMetricsHandlerRejectsNonGet(t *testing.T) {
	m := NewMetrics(DefaultMetricsConfig())

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/metrics", nil)
	m.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestNormalizePathCollapsesAssetSubpaths(t *testing.T) {
	m := NewMetrics(MetricsConfig{
		Namespace:        "test",
		CollapsePrefixes: []string{"/assets"},
	})

	m.RecordHTTPRequest(http.MethodGet, "/assets/app-8f3a9c.js", http.StatusOK, time.Millisecond)
	m.RecordHTTPRequest(http.MethodGet, "/assets/app-11d2b0.css", http.StatusOK, time.Millisecond)
	m.RecordHTTPRequest(http.MethodGet, "/healthz", http.StatusOK, time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	if !strings.Contains(body, `path="/assets/*",status="200"} 2`) {
		t.Fatalf("expected hashed asset paths collapsed:\n%s", body)
	}
	if strings.Contains(body, "app-8f3a9c.js") {
		t.Fatalf("expected asset filename absent from labels:\n%s", body)
	}
	if !strings.Contains(body, `path="/healthz"`) {
		t.Fatalf("expected /healthz label intact:\n%s", body)
	}
}

func TestAssetServeCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Namespace: "test"})

	m.RecordAssetServe("hit")
	m.RecordAssetServe("hit")
	m.RecordAssetServe("index_fallback")
	m.RecordAssetServe("miss")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	if !strings.Contains(body, `test_asset_requests_total{outcome="hit"} 2`) {
		t.Fatalf("missing hit counter:\n%s", body)
	}
	if !strings.Contains(body, `test_asset_requests_total{outcome="index_fallback"} 1`) {
		t.Fatalf("missing fallback counter:\n%s", body)
	}
	if !strings.Contains(body, `test_asset_requests_total{outcome="miss"} 1`) {
		t.Fatalf("missing miss counter:\n%s", body)
	}
	if !strings.Contains(body, "test_uptime_seconds") {
		t.Fatalf("missing uptime gauge:\n%s", body)
	}
}

func TestRateLimitCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Namespace: "test"})

	m.RecordRateLimitAllowed()
	m.RecordRateLimitAllowed()
	m.RecordRateLimitRejected()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	if !strings.Contains(body, `test_rate_limit_requests_total{status="allowed"} 2`) {
		t.Fatalf("missing allowed counter:\n%s", body)
	}
	if !strings.Contains(body, `test_rate_limit_requests_total{status="rejected"} 1`) {
		t.Fatalf("missing rejected counter:\n%s", body)
	}
}

func TestMetricsMiddlewareRecordsStatus(t *testing.T) {
	m := NewMetrics(MetricsConfig{Namespace: "test"})
	handler := MetricsMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))

	out := httptest.NewRecorder()
	m.Handler().ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(out.Body.String(), `path="/missing",status="404"} 1`) {
		t.Fatalf("expected 404 recorded:\n%s", out.Body.String())
	}
}

func TestMetricsMiddlewareSkipsMetricsEndpoint(t *testing.T) {
	m := NewMetrics(MetricsConfig{Namespace: "test"})
	handler := MetricsMiddleware(m)(m.Handler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if strings.Contains(rr.Body.String(), `path="/metrics"`) {
		t.Fatalf("expected /metrics excluded from its own counters")
	}
}

func TestDurationCollectorQuantiles(t *testing.T) {
	d := newDurationCollector(10)
	for _, ms := range []int{10, 20, 30, 40, 50} {
		d.add(time.Duration(ms) * time.Millisecond)
	}

	if got := d.quantile(0.5); got < 0.029 || got > 0.031 {
		t.Fatalf("expected median near 30ms, got %f", got)
	}
	if got := d.count(); got != 5 {
		t.Fatalf("expected 5 samples, got %d", got)
	}

	// Window slides once full.
	for i := 0; i < 10; i++ {
		d.add(time.Millisecond)
	}
	if got := d.count(); got != 10 {
		t.Fatalf("expected window capped at 10, got %d", got)
	}
}
