package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal tracks zone, record and supermaster operations by outcome
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdnsadmin_operations_total",
		Help: "Total number of management operations by result",
	}, []string{"operation", "result"})

	// OperationDuration tracks operation processing time
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pdnsadmin_operation_duration_seconds",
		Help:    "Histogram of management operation duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// SerialUpdates tracks SOA serial bumps and compare-and-swap retries
	SerialUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdnsadmin_soa_serial_updates_total",
		Help: "Total number of SOA serial update attempts by outcome",
	}, []string{"outcome"})

	// DNSSECCalls tracks calls made to the DNSSEC provider
	DNSSECCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdnsadmin_dnssec_calls_total",
		Help: "Total number of DNSSEC provider calls",
	}, []string{"call", "result"})

	// Notifications tracks zone change events published to listeners
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pdnsadmin_notifications_total",
		Help: "Total number of zone change notifications",
	}, []string{"result"})

	// DBConnectionsActive tracks open database connections
	DBConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pdnsadmin_db_connections_active",
		Help: "Number of active database connections",
	})
)

// Result labels an error for the operation counters.
func Result(err error, soft bool) string {
	switch {
	case err == nil:
		return "ok"
	case soft:
		return "refused"
	}
	return "error"
}
