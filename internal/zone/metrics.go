package zone

import "time"

// Metrics receives per-run counters from the service. The
// observability package provides the Prometheus implementation.
type Metrics interface {
	ZoneOutcome(outcome string, n int)
	RunObserved(d time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ZoneOutcome(string, int) {}

func (nopMetrics) RunObserved(time.Duration) {}
