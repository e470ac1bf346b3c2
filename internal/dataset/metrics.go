package dataset

// Metrics receives import counters. The observability package
// provides the Prometheus implementation.
type Metrics interface {
	PointsImported(n int)
}

type nopMetrics struct{}

func (nopMetrics) PointsImported(int) {}
