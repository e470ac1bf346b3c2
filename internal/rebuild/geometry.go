package rebuild

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// Geometry is the rebuilt shape of one zone. Exactly one case is
// set: Polygon when a single area survived, MultiPolygon when
// two or more did. A single-area zone is deliberately not
// wrapped in a one-member multipolygon; many GIS consumers treat
// the two differently. The zero value carries no geometry; the
// assembler signals absence with NoGeometryError instead of
// returning it.
type Geometry struct {
	Polygon      *geom.Polygon
	MultiPolygon *geom.MultiPolygon
}

// SinglePolygon wraps one polygon as a zone geometry.
func SinglePolygon(p *geom.Polygon) Geometry {
	return Geometry{Polygon: p}
}

// CombinePolygons folds the polygons collected across a zones
// areas into a zone geometry: one polygon stays a polygon, more
// become a multipolygon in collection order.
func CombinePolygons(ps []*geom.Polygon) (Geometry, error) {
	switch len(ps) {
	case 0:
		return Geometry{}, errors.New("no polygons to combine")
	case 1:
		return SinglePolygon(ps[0]), nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for _, p := range ps {
		if err := mp.Push(p); err != nil {
			return Geometry{}, fmt.Errorf("combine polygons: %w", err)
		}
	}

	return Geometry{MultiPolygon: mp}, nil
}

// FromGeom wraps a decoded geometry value, rejecting anything
// that is not a polygon or multipolygon.
func FromGeom(t geom.T) (Geometry, error) {
	switch g := t.(type) {
	case *geom.Polygon:
		return Geometry{Polygon: g}, nil
	case *geom.MultiPolygon:
		return Geometry{MultiPolygon: g}, nil
	}

	return Geometry{}, fmt.Errorf("unsupported geometry type %T", t)
}

// Geom returns the underlying geometry value, nil when empty.
func (g Geometry) Geom() geom.T {
	switch {
	case g.Polygon != nil:
		return g.Polygon
	case g.MultiPolygon != nil:
		return g.MultiPolygon
	}

	return nil
}

// WKB encodes the geometry as little-endian well-known binary,
// the form zones are stored and shipped in.
func (g Geometry) WKB() ([]byte, error) {
	t := g.Geom()
	if t == nil {
		return nil, errors.New("empty geometry")
	}

	return wkbMarshal(t)
}

// WKT encodes the geometry as well-known text.
func (g Geometry) WKT() (string, error) {
	t := g.Geom()
	if t == nil {
		return "", errors.New("empty geometry")
	}

	return wkt.Marshal(t)
}

// Multi reports whether the zone rebuilt into multiple parts.
func (g Geometry) Multi() bool {
	return g.MultiPolygon != nil
}

// Empty reports whether no case is set.
func (g Geometry) Empty() bool {
	return g.Polygon == nil && g.MultiPolygon == nil
}

// Parts returns the number of polygon parts.
func (g Geometry) Parts() int {
	switch {
	case g.Polygon != nil:
		return 1
	case g.MultiPolygon != nil:
		return g.MultiPolygon.NumPolygons()
	}

	return 0
}
