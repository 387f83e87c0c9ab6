package transport

import "sync/atomic"

// Stats collects per-listener DNS query statistics. All methods are safe
// for concurrent use.
type Stats struct {
	queriesTotal   atomic.Uint64
	queriesUDP     atomic.Uint64
	queriesTCP     atomic.Uint64
	responsesErr   atomic.Uint64
	truncatedTotal atomic.Uint64
	latencyTotalNs atomic.Uint64
}

// NewStats creates a new statistics collector.
func NewStats() *Stats {
	return &Stats{}
}

// RecordQuery records a processed query for the given transport: "udp" counts
// as UDP, "tcp" and "tls" as TCP, and any other value only in the total.
func (s *Stats) RecordQuery(proto string) {
	s.queriesTotal.Add(1)
	switch proto {
	case "udp":
		s.queriesUDP.Add(1)
	case "tcp", "tls":
		s.queriesTCP.Add(1)
	}
}

// RecordError records a transport- or codec-level error response.
func (s *Stats) RecordError() { s.responsesErr.Add(1) }

// RecordTruncated records a UDP response that was truncated to fit the
// peer's advertised payload size.
func (s *Stats) RecordTruncated() { s.truncatedTotal.Add(1) }

// RecordLatency records handler latency in nanoseconds.
func (s *Stats) RecordLatency(ns int64) {
	if ns > 0 {
		s.latencyTotalNs.Add(uint64(ns))
	}
}

// Snapshot is a point-in-time view of Stats.
type Snapshot struct {
	QueriesTotal   uint64
	QueriesUDP     uint64
	QueriesTCP     uint64
	ResponsesErr   uint64
	TruncatedTotal uint64
	AvgLatencyMs   float64
}

// Snapshot returns the current statistics.
func (s *Stats) Snapshot() Snapshot {
	total := s.queriesTotal.Load()
	latencyNs := s.latencyTotalNs.Load()

	avgLatencyMs := 0.0
	if total > 0 {
		avgLatencyMs = float64(latencyNs) / float64(total) / 1e6
	}

	return Snapshot{
		QueriesTotal:   total,
		QueriesUDP:     s.queriesUDP.Load(),
		QueriesTCP:     s.queriesTCP.Load(),
		ResponsesErr:   s.responsesErr.Load(),
		TruncatedTotal: s.truncatedTotal.Load(),
		AvgLatencyMs:   avgLatencyMs,
	}
}
