package rebuild

// Metrics receives measurements from the assembly pipeline.
// Implementations must be safe for concurrent use.
type Metrics interface {
	// AreaDiscarded counts an area that contributed nothing,
	// labeled by cause.
	AreaDiscarded(cause string)

	// RepairAttempted counts a make-valid run and whether it
	// produced usable polygons.
	RepairAttempted(strategy string, usable bool)
}

type nopMetrics struct{}

func (nopMetrics) AreaDiscarded(string) {}

func (nopMetrics) RepairAttempted(string, bool) {}
