package nexusauth

import "sync/atomic"

// MetricID indexes the controller's lock-free counters.
type MetricID uint8

const (
	// MetricLoginSuccess counts gateway logins that completed a session.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts wrong-credential and server-side
	// validation failures.
	MetricLoginFailure
	// MetricLoginBlocked counts submits short-circuited by local
	// validation before any gateway call.
	MetricLoginBlocked
	// MetricLoginRejected counts submits refused while another attempt was
	// in flight.
	MetricLoginRejected
	// MetricConnectionError counts transport-fault login outcomes.
	MetricConnectionError
	// MetricSessionSaved counts records written to the store.
	MetricSessionSaved
	// MetricSessionRestored counts controllers that started logged in from
	// a persisted record.
	MetricSessionRestored
	// MetricSessionExpired counts expiry-triggered logouts.
	MetricSessionExpired
	// MetricLogout counts manual logouts.
	MetricLogout
	// MetricStorageFault counts store operations that failed and were
	// recovered silently (never surfaced to the user path).
	MetricStorageFault

	metricCount
)

// Metrics is a fixed set of atomic counters. All methods are safe for
// concurrent use and nil-receiver tolerant so instrumentation can never
// take down a login.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func newMetrics() *Metrics { return &Metrics{} }

func (m *Metrics) inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// Get returns the current value of one counter.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || id >= metricCount {
		return 0
	}
	return m.counters[id].Load()
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot map[MetricID]uint64

// Snapshot copies all counters. Values are read individually, so the map
// is consistent per counter, not across counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := make(MetricsSnapshot, metricCount)
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap[id] = m.counters[id].Load()
	}
	return snap
}
