// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeTimeout     = "timeout"
	OutcomeDecodeError = "decode_error"
	OutcomeError       = "error"
	OutcomeCanceled    = "canceled"
)

// Cover cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

var (
	registerOnce sync.Once

	operationStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookmeta",
		Name:      "operations_started_total",
		Help:      "Total number of operations started by type",
	}, []string{"type"})
	operationCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookmeta",
		Name:      "operations_completed_total",
		Help:      "Total number of operations successfully completed by type",
	}, []string{"type"})
	operationCanceled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookmeta",
		Name:      "operations_canceled_total",
		Help:      "Total number of operations canceled by type",
	}, []string{"type"})
	operationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookmeta",
		Name:      "operation_duration_seconds",
		Help:      "Histogram of operation durations in seconds by type",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10), // ~50ms up to several seconds
	}, []string{"type"})

	fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookmeta",
		Name:      "fetches_total",
		Help:      "Lookup requests by outcome",
	}, []string{"outcome"})
	fetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bookmeta",
		Name:      "fetch_duration_seconds",
		Help:      "Histogram of lookup request durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.02, 2, 10),
	})
	recordsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookmeta",
		Name:      "records_emitted_total",
		Help:      "Metadata records pushed to callers by source",
	}, []string{"source"})
	coverCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookmeta",
		Name:      "cover_cache_lookups_total",
		Help:      "Cover cache lookups by result",
	}, []string{"result"})
	coverDownloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookmeta",
		Name:      "cover_downloads_total",
		Help:      "Cover image downloads by result",
	}, []string{"result"})

	memoryAllocGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bookmeta",
		Name:      "process_memory_alloc_bytes",
		Help:      "Current process memory allocation (runtime.Alloc)",
	})
	goroutinesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bookmeta",
		Name:      "process_goroutines",
		Help:      "Number of currently running goroutines",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(operationStarted, operationCompleted, operationCanceled, operationDuration,
			fetches, fetchDuration, recordsEmitted, coverCacheLookups, coverDownloads,
			memoryAllocGauge, goroutinesGauge)
	})
}

// Operation lifecycle helpers
func IncOperationStarted(opType string)   { operationStarted.WithLabelValues(opType).Inc() }
func IncOperationCompleted(opType string) { operationCompleted.WithLabelValues(opType).Inc() }
func IncOperationCanceled(opType string)  { operationCanceled.WithLabelValues(opType).Inc() }
func ObserveOperationDuration(opType string, d time.Duration) {
	operationDuration.WithLabelValues(opType).Observe(d.Seconds())
}

// Lookup helpers
func IncFetch(outcome string)             { fetches.WithLabelValues(outcome).Inc() }
func ObserveFetchDuration(d time.Duration) { fetchDuration.Observe(d.Seconds()) }
func IncRecordsEmitted(source string)     { recordsEmitted.WithLabelValues(source).Inc() }
func IncCoverCache(result string)         { coverCacheLookups.WithLabelValues(result).Inc() }

func IncCoverDownload(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	coverDownloads.WithLabelValues(result).Inc()
}

// SampleRuntime refreshes the process gauges.
func SampleRuntime() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	memoryAllocGauge.Set(float64(ms.Alloc))
	goroutinesGauge.Set(float64(runtime.NumGoroutine()))
}
