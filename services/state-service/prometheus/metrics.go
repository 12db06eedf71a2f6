package prometheus

import (
	"slices"
	"sync"
	"time"

	"github.com/greentill2020-cloud/greentillcmsProd/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// OtherKey labels every key that is not one of the known collections
const OtherKey = "other"

var (
	// StateOperationsCounter counts reads and writes by key and outcome
	StateOperationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "state_operations_total",
			Help: "Total number of state store operations",
		},
		[]string{"operation", "key", "result"},
	)

	// StoreOperationDuration records backend latency in seconds
	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "state_store_operation_duration_seconds",
			Help:    "Duration of state store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// DocumentBytes records the size of written documents
	DocumentBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "state_document_bytes",
			Help:    "Size of documents written to the state store",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"key"},
	)

	initOnce sync.Once
)

// InitMetrics registers the state service collectors with the default registry
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(StateOperationsCounter, StoreOperationDuration, DocumentBytes)
	})
}

// TrackStoreOperation returns a function that records the duration of a backend call
func TrackStoreOperation(operation string) func(startTime time.Time) {
	return func(startTime time.Time) {
		StoreOperationDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}
}

// KeyLabel keeps the known collection keys and folds anything else into OtherKey
func KeyLabel(key string) string {
	if slices.Contains(storage.Keys, key) {
		return key
	}
	return OtherKey
}

// RecordOperation increments the operation counter
func RecordOperation(operation, key, result string) {
	StateOperationsCounter.WithLabelValues(operation, KeyLabel(key), result).Inc()
}

// RecordDocumentSize observes the size of a written document
func RecordDocumentSize(key string, size int) {
	DocumentBytes.WithLabelValues(KeyLabel(key)).Observe(float64(size))
}
