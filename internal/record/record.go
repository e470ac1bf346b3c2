package record

import (
	"strings"

	"github.com/mkrassel/territory-app/internal/geometry"
)

// Coordinate is one row of a legacy territory table: a single
// boundary point tagged with the identifiers needed to place it
// within a zone and an area, and the sequence number that
// recovers the original tracing order.
type Coordinate struct {
	CustomerID string
	ZoneID     string
	SuffixID   string
	AreaNumber int
	SeqNo      int
	X          float64
	Y          float64
}

// ZoneKey returns the composite key this record belongs to.
func (c Coordinate) ZoneKey() string {
	return ZoneKey(c.ZoneID, c.SuffixID)
}

// Point returns the records coordinate pair as a geometry point.
func (c Coordinate) Point() geometry.Point {
	return geometry.Point{X: c.X, Y: c.Y}
}

// ZoneKey combines a zone identifier with its optional suffix.
// A suffix whose trimmed, upper-cased form is empty, "NONE",
// "NULL", or "NAN" is treated as absent and the zone identifier
// stands alone. Any other suffix is appended with an underscore,
// keeping its verbatim casing.
func ZoneKey(zoneID, suffixID string) string {
	switch strings.ToUpper(strings.TrimSpace(suffixID)) {
	case "", "NONE", "NULL", "NAN":
		return zoneID
	}

	return zoneID + "_" + suffixID
}
