package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"
)

// FetchMetrics tracks spreadsheet fetch attempts and cache lookups per dataset.
type FetchMetrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

func NewFetchMetrics(reg prometheus.Registerer) *FetchMetrics {
	if reg == nil {
		return &FetchMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "fetch_attempts_total",
		Help:      "Spreadsheet fetch attempts by dataset, endpoint and outcome.",
	}, []string{"dataset", "endpoint", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of spreadsheet fetch attempts in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"dataset", "endpoint"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "cache_lookups_total",
		Help:      "Dataset cache lookups by result.",
	}, []string{"dataset", "result"})
	reg.MustRegister(attempts, duration, cache)
	return &FetchMetrics{
		attempts: attempts,
		duration: duration,
		cache:    cache,
	}
}

// ObserveAttempt records one fetch attempt against the primary or fallback endpoint.
func (f *FetchMetrics) ObserveAttempt(dataset, endpoint string, elapsed time.Duration, err error) {
	if f == nil || f.attempts == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	f.attempts.WithLabelValues(normalizeLabel(dataset), normalizeLabel(endpoint), outcome).Inc()
	f.duration.WithLabelValues(normalizeLabel(dataset), normalizeLabel(endpoint)).Observe(elapsed.Seconds())
}

func (f *FetchMetrics) ObserveCache(dataset, result string) {
	if f == nil || f.cache == nil {
		return
	}
	f.cache.WithLabelValues(normalizeLabel(dataset), normalizeLabel(result)).Inc()
}
