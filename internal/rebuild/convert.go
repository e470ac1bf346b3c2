package rebuild

import (
	"encoding/binary"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geos"
)

// The GEOS engine works on C-allocated geometry; rebuilt results
// cross back into Go as go-geom values via well-known binary so
// nothing downstream holds engine memory.

func wkbMarshal(t geom.T) ([]byte, error) {
	return wkb.Marshal(t, binary.LittleEndian)
}

func toGeomPolygon(g *geos.Geom) (*geom.Polygon, error) {
	t, err := wkb.Unmarshal(g.ToWKB())
	if err != nil {
		return nil, fmt.Errorf("decode polygon wkb: %w", err)
	}

	p, ok := t.(*geom.Polygon)
	if !ok {
		return nil, fmt.Errorf("decoded %T, want *geom.Polygon", t)
	}

	return p, nil
}

func toGeomMultiPolygon(g *geos.Geom) (*geom.MultiPolygon, error) {
	t, err := wkb.Unmarshal(g.ToWKB())
	if err != nil {
		return nil, fmt.Errorf("decode multipolygon wkb: %w", err)
	}

	mp, ok := t.(*geom.MultiPolygon)
	if !ok {
		return nil, fmt.Errorf("decoded %T, want *geom.MultiPolygon", t)
	}

	return mp, nil
}
