package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LoginCounter counts login attempts
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "console_login_total",
			Help: "Total number of login attempts",
		},
	)

	// AuthErrorCounter counts failed logins by reason
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"},
	)

	// SalesCounter counts completed sales by sync outcome
	SalesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_sales_total",
			Help: "Total number of completed sales",
		},
		[]string{"result"}, // "synced", "not_synced"
	)

	// SaleAmount records sale totals
	SaleAmount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "console_sale_amount",
			Help:    "Sale totals",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)

	// CarbonOffsetCounter accumulates offset contributions from sales
	CarbonOffsetCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "console_carbon_offset_total",
			Help: "Sum of carbon offset contributions",
		},
	)

	// FeatureToggleCounter counts engagement feature changes
	FeatureToggleCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_feature_toggles_total",
			Help: "Total number of engagement feature toggles",
		},
		[]string{"kind", "value"}, // kind is "license" or "activation"
	)

	// TicketOperationCounter counts support ticket operations
	TicketOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_ticket_operations_total",
			Help: "Total number of support ticket operations",
		},
		[]string{"operation"},
	)

	// StorageOperationDuration records storage round trips in seconds
	StorageOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_storage_operation_duration_seconds",
			Help:    "Duration of storage operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	initOnce sync.Once
)

// InitMetrics registers the console collectors with the default registry
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			LoginCounter,
			AuthErrorCounter,
			SalesCounter,
			SaleAmount,
			CarbonOffsetCounter,
			FeatureToggleCounter,
			TicketOperationCounter,
			StorageOperationDuration,
		)
	})
}

// RecordAuthError increments the auth error counter for errorType
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordSale tracks a sale's outcome, total and offset
func RecordSale(synced bool, total, offset float64) {
	result := "synced"
	if !synced {
		result = "not_synced"
	}
	SalesCounter.WithLabelValues(result).Inc()
	SaleAmount.Observe(total)
	CarbonOffsetCounter.Add(offset)
}

// RecordFeatureToggle tracks a license or activation change
func RecordFeatureToggle(license, value bool) {
	kind := "activation"
	if license {
		kind = "license"
	}
	v := "off"
	if value {
		v = "on"
	}
	FeatureToggleCounter.WithLabelValues(kind, v).Inc()
}

// RecordTicketOperation increments the ticket counter
func RecordTicketOperation(operation string) {
	TicketOperationCounter.WithLabelValues(operation).Inc()
}

// TrackStorageOperation returns a function that records the duration of a storage call
func TrackStorageOperation(operation string) func(startTime time.Time) {
	return func(startTime time.Time) {
		StorageOperationDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}
}
