package cache

import (
	"sync/atomic"
	"time"
)

// Metrics counts cache traffic per layer. All fields are updated atomically.
type Metrics struct {
	L1Hits int64 `json:"l1_hits"`
	L2Hits int64 `json:"l2_hits"`
	Misses int64 `json:"misses"`
	Errors int64 `json:"errors"`

	Sets          int64 `json:"sets"`
	Invalidations int64 `json:"invalidations"`
	StartTime     int64 `json:"start_time"`
}

func NewMetrics() *Metrics {
	return &Metrics{StartTime: time.Now().Unix()}
}

func (m *Metrics) recordL1Hit() { atomic.AddInt64(&m.L1Hits, 1) }
func (m *Metrics) recordL2Hit() { atomic.AddInt64(&m.L2Hits, 1) }
func (m *Metrics) recordMiss() { atomic.AddInt64(&m.Misses, 1) }
func (m *Metrics) recordError() { atomic.AddInt64(&m.Errors, 1) }
func (m *Metrics) recordSet() { atomic.AddInt64(&m.Sets, 1) }
func (m *Metrics) recordInvalidation() { atomic.AddInt64(&m.Invalidations, 1) }

// Snapshot returns a consistent-enough copy for reporting.
func (m *Metrics) Snapshot() Metrics {
	return Metrics{
		L1Hits:        atomic.LoadInt64(&m.L1Hits),
		L2Hits:        atomic.LoadInt64(&m.L2Hits),
		Misses:        atomic.LoadInt64(&m.Misses),
		Errors:        atomic.LoadInt64(&m.Errors),
		Sets:          atomic.LoadInt64(&m.Sets),
		Invalidations: atomic.LoadInt64(&m.Invalidations),
		StartTime:     m.StartTime,
	}
}

// HitRate is the share of lookups served by either layer, in percent.
func (m *Metrics) HitRate() float64 {
	s := m.Snapshot()
	hits := s.L1Hits + s.L2Hits
	total := hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total) * 100.0
}
