package shopAuth

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one in-process counter.
type MetricID uint16

const (
	MetricOTPSent MetricID = iota
	MetricOTPVerifySuccess
	MetricOTPVerifyFailure
	MetricOTPLockout
	MetricOTPSpamLock
	MetricOTPCooldownHit
	MetricOTPDeliveryFailure
	MetricRegisterRequest
	MetricRegisterSuccess
	MetricRegisterDuplicate
	MetricLoginSuccess
	MetricLoginFailure
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricLogout
	MetricPasswordResetRequest
	MetricPasswordResetSuccess
	MetricPasswordResetReuseRejected
	MetricAuthenticateSuccess
	MetricAuthenticateFailure
	MetricRoleDenied
	MetricShopCreated
	MetricPaymentLinked
	MetricAuthenticateLatency
	metricIDCount
)

// latencyBounds are the inclusive upper bounds of the Authenticate latency
// buckets; a final overflow bucket follows the last bound.
var latencyBounds = [...]time.Duration{
	5 * time.Millisecond,
	10 * time.Millisecond,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
}

const latencyBucketCount = len(latencyBounds) + 1

// counter sits alone on a cache line so hot counters on different cores do
// not contend.
type counter struct {
	atomic.Uint64
	_ [56]byte
}

// Metrics holds lock-free counters and the Authenticate latency histogram.
// A nil or disabled Metrics ignores updates.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]counter
	latency       [latencyBucketCount]atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of all counters. Histograms holds
// per-bucket (non-cumulative) counts keyed by histogram metric.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics returns a Metrics configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool { return m != nil && m.enabled }

func (m *Metrics) LatencyEnabled() bool { return m != nil && m.enableLatency }

// Inc adds one to a counter. Histogram ids are ignored.
func (m *Metrics) Inc(id MetricID) {
	if !m.Enabled() || id >= metricIDCount || id == MetricAuthenticateLatency {
		return
	}
	m.counters[id].Add(1)
}

// Observe records d. MetricAuthenticateLatency is the only histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if !m.LatencyEnabled() || id != MetricAuthenticateLatency {
		return
	}
	m.latency[latencyBucket(d)].Add(1)
}

// Value returns a counter's current value.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Counters:   map[MetricID]uint64{},
		Histograms: map[MetricID][]uint64{},
	}
	if !m.Enabled() {
		return s
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if id == MetricAuthenticateLatency {
			continue
		}
		s.Counters[id] = m.counters[id].Load()
	}
	if m.enableLatency {
		buckets := make([]uint64, latencyBucketCount)
		for i := range buckets {
			buckets[i] = m.latency[i].Load()
		}
		s.Histograms[MetricAuthenticateLatency] = buckets
	}
	return s
}

func latencyBucket(d time.Duration) int {
	for i, bound := range latencyBounds {
		if d <= bound {
			return i
		}
	}
	return len(latencyBounds)
}
