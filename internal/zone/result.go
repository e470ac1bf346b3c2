package zone

import (
	"time"

	"github.com/google/uuid"
)

// RebuildResult summarizes one rebuild run over a dataset. Every
// zone key lands in exactly one of Writes, Absent, or Fails.
type RebuildResult struct {
	DatasetID  uuid.UUID
	Writes     []Write
	Absent     []string
	Fails      []Failure
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r *RebuildResult) TotalZones() int {
	return len(r.Writes) + len(r.Absent) + len(r.Fails)
}

func (r *RebuildResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Write records a zone geometry that was stored.
type Write struct {
	Key   string
	Parts int
}

// Failure records a zone that could not be rebuilt or stored. The
// underlying error is logged by the service, not serialized.
type Failure struct {
	Key string
	err error
}
