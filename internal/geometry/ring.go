package geometry

import (
	"fmt"
	"strings"
)

// Ring is an ordered trace of points bounding one area or hole.
// Rings may arrive open (last point not equal to the first).
type Ring []Point

// Closed reports whether the last point equals the first.
func (r Ring) Closed() bool {
	if len(r) < 2 {
		return false
	}

	return r[0] == r[len(r)-1]
}

// Close returns the ring with the first point appended when it
// is open. Closed rings are returned as-is.
func (r Ring) Close() Ring {
	if len(r) == 0 || r.Closed() {
		return r
	}

	closed := make(Ring, len(r), len(r)+1)
	copy(closed, r)

	return append(closed, r[0])
}

// Distinct returns the number of distinct points in the ring. A
// closing duplicate of the first point counts once.
func (r Ring) Distinct() int {
	seen := make(map[Point]struct{}, len(r))
	for _, p := range r {
		seen[p] = struct{}{}
	}

	return len(seen)
}

// SignedArea computes the shoelace area of the ring. A positive
// result means counter-clockwise winding. Works on open and
// closed rings alike.
func (r Ring) SignedArea() float64 {
	if len(r) < 3 {
		return 0
	}

	var sum float64
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}

	return sum / 2
}

// CounterClockwise reports whether the ring winds counter-clockwise.
func (r Ring) CounterClockwise() bool {
	return r.SignedArea() > 0
}

// Reverse returns a copy of the ring with the point order reversed.
func (r Ring) Reverse() Ring {
	rev := make(Ring, len(r))
	for i, p := range r {
		rev[len(r)-1-i] = p
	}

	return rev
}

// Orient returns the ring wound in the requested direction,
// reversing the point order when it differs. Input traversal
// direction is never guaranteed, so callers normalize exteriors
// counter-clockwise and holes clockwise before constructing
// polygons.
func (r Ring) Orient(ccw bool) Ring {
	if len(r) < 3 || r.CounterClockwise() == ccw {
		return r
	}

	return r.Reverse()
}

func (r Ring) String() string {
	if len(r) == 0 {
		return ""
	}

	var ss []string
	for _, p := range r {
		ss = append(ss, p.String())
	}

	return fmt.Sprintf("(%s)", strings.Join(ss, ","))
}
