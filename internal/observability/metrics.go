package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	operationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "healthtrack",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Store operations by name and outcome.",
	}, []string{"operation", "outcome"})
	registeredUsersGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "healthtrack",
		Subsystem: "store",
		Name:      "registered_users",
		Help:      "Number of users currently held in the registry.",
	})
	snapshotPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "healthtrack",
		Subsystem: "persistence",
		Name:      "last_snapshot_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent registry snapshot written to disk.",
	})
	snapshotFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "healthtrack",
		Subsystem: "persistence",
		Name:      "snapshot_failures_total",
		Help:      "Registry snapshot writes that failed.",
	})
)

func init() {
	prometheus.MustRegister(operationsTotal, registeredUsersGauge, snapshotPersistGauge, snapshotFailures)
}

// RecordOperation counts one store operation with its outcome label.
func RecordOperation(operation, outcome string) {
	operationsTotal.WithLabelValues(operation, outcome).Inc()
}

// SetRegisteredUsers updates the registry size gauge.
func SetRegisteredUsers(n int) {
	registeredUsersGauge.Set(float64(n))
}

// RecordSnapshotPersisted updates the persistence watermark gauge.
func RecordSnapshotPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	snapshotPersistGauge.Set(float64(ts.Unix()))
}

// RecordSnapshotFailure counts a failed snapshot write.
func RecordSnapshotFailure() {
	snapshotFailures.Inc()
}
