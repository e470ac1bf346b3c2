package geometry

import "fmt"

// Point is a single planar (x, y) coordinate. No coordinate
// reference system is implied.
type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// IsSentinel reports whether this point is the exact (0, 0)
// value legacy territory tables use to terminate a ring trace.
// A genuine data point at (0, 0) is indistinguishable from a
// separator.
func (p Point) IsSentinel() bool {
	return p.X == 0 && p.Y == 0
}

func (p Point) String() string {
	return fmt.Sprintf("(%v,%v)", p.X, p.Y)
}
