package rebuild

import (
	"errors"
	"fmt"
)

// EmptyGroupError reports an area group that produced no rings
// after sentinel splitting. Per-area and non-fatal: the area
// contributes nothing to its zone.
type EmptyGroupError struct{}

func (e *EmptyGroupError) Error() string {
	return "no rings after splitting"
}

// DegenerateRingError reports a ring that cannot close into a
// simple linear ring. Ring 0 is the exterior. Per-area and
// non-fatal.
type DegenerateRingError struct {
	Ring   int
	Points int
}

func (e *DegenerateRingError) Error() string {
	return fmt.Sprintf("ring %d: %d distinct points, need at least 3", e.Ring, e.Points)
}

// InvalidGeometryError reports a polygon that failed the
// validity check and whose single repair attempt produced
// nothing usable. Reason is the validity diagnostic from the
// geometry engine.
type InvalidGeometryError struct {
	Reason string
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid geometry not repairable: %s", e.Reason)
}

// NoGeometryError reports a zone none of whose areas contributed
// a usable polygon. Absent geometry is a valid outcome for a
// zone, never a pipeline failure; callers detect it with
// errors.As and skip or flag the zone.
type NoGeometryError struct {
	ZoneKey string
}

func (e *NoGeometryError) Error() string {
	return fmt.Sprintf("zone %s: no usable geometry", e.ZoneKey)
}

// IsNoGeometry reports whether err signals the absent-geometry
// outcome.
func IsNoGeometry(err error) bool {
	var ngErr *NoGeometryError
	return errors.As(err, &ngErr)
}

// discardCause maps a per-area failure to its metrics label.
func discardCause(err error) string {
	var (
		emptyErr      *EmptyGroupError
		degenerateErr *DegenerateRingError
		invalidErr    *InvalidGeometryError
	)

	switch {
	case errors.As(err, &emptyErr):
		return "empty_group"
	case errors.As(err, &degenerateErr):
		return "degenerate_ring"
	case errors.As(err, &invalidErr):
		return "repair_unusable"
	default:
		return "internal"
	}
}
