package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCronJobMetricsSplitsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	m.ObserveRun("cache-warm-products", 2*time.Second, nil)
	m.ObserveRun("cache-warm-campaigns", time.Second, errors.New("upstream down"))
	m.IncSkipped()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	runs := findMetricFamily(mfs, "salespulse_job_runs_total")
	if runs == nil || len(runs.GetMetric()) != 2 {
		t.Fatalf("expected one success and one failure series, got %v", runs)
	}
	for _, metric := range runs.GetMetric() {
		labels := metric.GetLabel()
		switch {
		case matchesLabel(labels, "job", "cache-warm-products"):
			if !matchesLabel(labels, "outcome", OutcomeSuccess) {
				t.Fatalf("products should have succeeded: %v", labels)
			}
		case matchesLabel(labels, "job", "cache-warm-campaigns"):
			if !matchesLabel(labels, "outcome", OutcomeFailure) {
				t.Fatalf("campaigns should have failed: %v", labels)
			}
		}
	}

	last := findMetricFamily(mfs, "salespulse_job_last_success_timestamp_seconds")
	if last == nil || len(last.GetMetric()) != 1 || last.GetMetric()[0].GetGauge().GetValue() <= 0 {
		t.Fatalf("expected a last-success timestamp only for the successful job, got %v", last)
	}

	if got, err := fetchHistogramSum(mfs, "salespulse_job_duration_seconds", "job", "cache-warm-products"); err != nil || got != 2 {
		t.Fatalf("expected 2s duration sum, got %v err=%v", got, err)
	}

	skipped := findMetricFamily(mfs, "salespulse_cron_cycles_skipped_total")
	if skipped == nil || skipped.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected one skipped cycle, got %v", skipped)
	}
}

func TestCronJobMetricsNilSafe(t *testing.T) {
	var m *CronJobMetrics
	m.ObserveRun("job", time.Second, nil)
	m.IncSkipped()
	NewCronJobMetrics(nil).ObserveRun("job", time.Second, errors.New("x"))
}
