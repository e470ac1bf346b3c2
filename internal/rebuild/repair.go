package rebuild

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geos"
)

// Strategy selects the make-valid procedure applied to invalid
// polygons. It is fixed at configuration time from the deployed
// engine's capabilities, never chosen per call.
type Strategy string

const (
	// RepairStructural rebuilds valid area by noding the input
	// and unioning the resulting faces, discarding rings that
	// collapse. The preferred strategy on modern engines.
	RepairStructural Strategy = "structural"

	// RepairLegacy is the engine's original linework repair. It
	// keeps every input vertex and tends to shatter bowties into
	// multipolygon parts.
	RepairLegacy Strategy = "legacy"
)

// ParseStrategy maps a configuration value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case RepairStructural:
		return RepairStructural, nil
	case RepairLegacy:
		return RepairLegacy, nil
	}

	return "", fmt.Errorf("unknown repair strategy %q", s)
}

// makeValid runs the configured repair once. The result may be a
// polygon, a multipolygon, or a heterogeneous collection with
// point and line fragments left over from resolved
// intersections. The caller owns the returned geometry.
func (a *Assembler) makeValid(g *geos.Geom) *geos.Geom {
	if a.strategy == RepairLegacy {
		return g.MakeValid()
	}

	return g.MakeValidWithParams(geos.MakeValidStructure, geos.MakeValidDiscardCollapsed)
}

// extractPolygons filters a repair result down to its polygonal
// content: a match over the closed set of geometry types keeping
// only non-empty polygon and multipolygon members, one
// collection level deep. Point and line fragments and empty
// members are dropped. Multipolygons contribute their member
// polygons individually so the zone-level combination never
// nests.
func extractPolygons(g *geos.Geom) ([]*geom.Polygon, error) {
	switch g.TypeID() {
	case geos.TypeIDPolygon, geos.TypeIDMultiPolygon:
		return polygonalMembers(g)
	case geos.TypeIDGeometryCollection:
		var polys []*geom.Polygon
		n := g.NumGeometries()
		for i := 0; i < n; i++ {
			member := g.Geometry(i)
			switch member.TypeID() {
			case geos.TypeIDPolygon, geos.TypeIDMultiPolygon:
				ps, err := polygonalMembers(member)
				if err != nil {
					return nil, err
				}
				polys = append(polys, ps...)
			}
		}
		return polys, nil
	default:
		// point and line results carry no area.
		return nil, nil
	}
}

// polygonalMembers converts a GEOS polygon or multipolygon into
// go-geom polygons, skipping empties.
func polygonalMembers(g *geos.Geom) ([]*geom.Polygon, error) {
	if g.IsEmpty() {
		return nil, nil
	}

	switch g.TypeID() {
	case geos.TypeIDPolygon:
		p, err := toGeomPolygon(g)
		if err != nil {
			return nil, err
		}
		return []*geom.Polygon{p}, nil
	case geos.TypeIDMultiPolygon:
		mp, err := toGeomMultiPolygon(g)
		if err != nil {
			return nil, err
		}
		polys := make([]*geom.Polygon, 0, mp.NumPolygons())
		for i := 0; i < mp.NumPolygons(); i++ {
			polys = append(polys, mp.Polygon(i))
		}
		return polys, nil
	}

	return nil, nil
}
