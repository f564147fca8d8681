package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHTTPMetricsRecordsRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/api/v1/products/{baseID}/variants", 200, 15*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/products/{baseID}/variants", 404, 5*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	got, err := fetchCounterValue(mfs, "salespulse_http_requests_total", "status", "404")
	if err != nil {
		t.Fatalf("fetch requests: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected first 404 series to count 1, got %f", got)
	}
	if _, err := fetchCounterValue(mfs, "salespulse_http_requests_total", "route", "unknown"); err != nil {
		t.Fatalf("expected empty route to be labeled unknown: %v", err)
	}

	var nilMetrics *HTTPMetrics
	nilMetrics.ObserveRequest("GET", "/", 200, time.Millisecond)
}
