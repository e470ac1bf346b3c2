package rebuild

import (
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geos"

	"github.com/mkrassel/territory-app/internal/geometry"
	"github.com/mkrassel/territory-app/internal/record"
)

// Assembler rebuilds zone geometry from flat coordinate records.
// It holds no state between zones; every call works purely on
// its inputs plus diagnostic logging, so one Assembler may be
// shared across goroutines. Geometry engine calls serialize on
// the underlying GEOS context.
type Assembler struct {
	ctx      *geos.Context
	strategy Strategy
	logger   *log.Logger
	metrics  Metrics
}

// NewAssembler creates an Assembler using the given repair
// strategy. An empty strategy means RepairStructural. A nil
// logger discards diagnostics; nil metrics disables measurement.
func NewAssembler(strategy Strategy, logger *log.Logger, metrics Metrics) *Assembler {
	if strategy == "" {
		strategy = RepairStructural
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &Assembler{
		ctx:      geos.NewContext(),
		strategy: strategy,
		logger:   logger,
		metrics:  metrics,
	}
}

// Strategy returns the repair strategy the Assembler was
// configured with.
func (a *Assembler) Strategy() Strategy {
	return a.strategy
}

// AssembleZone rebuilds the geometry for one composite zone key.
// All records must share that key; the caller filters before
// invoking. Records are grouped by area number and each group is
// sorted by sequence number, re-imposing the boundary-tracing
// order whether or not the input arrived sorted. Area groups are
// visited in ascending area-number order so repeated runs over
// the same records produce equal geometry.
//
// A failing area is logged and contributes nothing; it never
// aborts its sibling areas. When no area contributes, the error
// is a NoGeometryError and the caller treats the zone as having
// no geometry.
func (a *Assembler) AssembleZone(zoneKey string, records []record.Coordinate) (Geometry, error) {
	var polygons []*geom.Polygon

	for _, area := range groupAreas(records) {
		polys, err := a.buildArea(area)
		if err != nil {
			a.metrics.AreaDiscarded(discardCause(err))
			a.logger.Printf("zone %s: area %d contributes nothing: %v", zoneKey, area.number, err)
			continue
		}

		polygons = append(polygons, polys...)
	}

	if len(polygons) == 0 {
		return Geometry{}, &NoGeometryError{ZoneKey: zoneKey}
	}

	g, err := CombinePolygons(polygons)
	if err != nil {
		return Geometry{}, fmt.Errorf("zone %s: %w", zoneKey, err)
	}

	return g, nil
}

// buildArea runs the ring splitter and polygon builder for one
// area group. Engine panics are converted to per-area errors so
// a single malformed area cannot take down a batch.
func (a *Assembler) buildArea(g areaGroup) (polys []*geom.Polygon, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("geometry engine: %v", r)
		}
	}()

	points := make([]geometry.Point, len(g.records))
	for i, rec := range g.records {
		points[i] = rec.Point()
	}

	rings := geometry.SplitRings(points)
	if len(rings) == 0 {
		return nil, &EmptyGroupError{}
	}

	return a.BuildAreaPolygon(rings)
}

// BuildAreaPolygon constructs the polygon for one areas ring
// set. The first ring is the exterior boundary and the rest are
// holes. Winding is normalized before construction: exterior
// counter-clockwise, holes clockwise. A polygon that fails the
// validity check gets exactly one repair attempt with the
// configured strategy; repair can shatter an area into several
// parts, so the result is a polygon slice rather than a single
// value. An error means the area contributes nothing.
func (a *Assembler) BuildAreaPolygon(rings geometry.AreaRings) ([]*geom.Polygon, error) {
	if len(rings) == 0 {
		return nil, &EmptyGroupError{}
	}

	for i, r := range rings {
		if d := r.Distinct(); d < 3 {
			return nil, &DegenerateRingError{Ring: i, Points: d}
		}
	}

	poly := a.ctx.NewPolygon(polygonCoords(rings))
	defer poly.Destroy()

	if poly.IsValid() {
		if poly.IsEmpty() {
			return nil, fmt.Errorf("constructed polygon is empty")
		}

		p, err := toGeomPolygon(poly)
		if err != nil {
			return nil, err
		}

		return []*geom.Polygon{p}, nil
	}

	reason := poly.IsValidReason()
	a.logger.Printf("invalid polygon (%s), repairing with %s strategy", reason, a.strategy)

	repaired := a.makeValid(poly)
	defer repaired.Destroy()

	polys, err := extractPolygons(repaired)
	if err != nil {
		return nil, err
	}

	a.metrics.RepairAttempted(string(a.strategy), len(polys) > 0)

	if len(polys) == 0 {
		return nil, &InvalidGeometryError{Reason: reason}
	}

	return polys, nil
}

// Valid reports whether the zone geometry is topologically
// valid. Freshly assembled geometry is valid by construction;
// geometry decoded from storage can be checked before use.
func (a *Assembler) Valid(g Geometry) (bool, error) {
	t := g.Geom()
	if t == nil {
		return false, nil
	}

	data, err := wkbMarshal(t)
	if err != nil {
		return false, err
	}

	gg, err := a.ctx.NewGeomFromWKB(data)
	if err != nil {
		return false, fmt.Errorf("decode zone geometry: %w", err)
	}
	defer gg.Destroy()

	return gg.IsValid(), nil
}

// Contains reports whether the zone geometry contains the point
// (x, y).
func (a *Assembler) Contains(g Geometry, x, y float64) (bool, error) {
	t := g.Geom()
	if t == nil {
		return false, nil
	}

	data, err := wkbMarshal(t)
	if err != nil {
		return false, err
	}

	gg, err := a.ctx.NewGeomFromWKB(data)
	if err != nil {
		return false, fmt.Errorf("decode zone geometry: %w", err)
	}
	defer gg.Destroy()

	pt := a.ctx.NewPoint([]float64{x, y})
	defer pt.Destroy()

	return gg.Contains(pt), nil
}

// polygonCoords lays the normalized, closed rings out in the
// nested coordinate form the engine constructor takes.
func polygonCoords(rings geometry.AreaRings) [][][]float64 {
	coordss := make([][][]float64, 0, len(rings))
	coordss = append(coordss, ringCoords(rings.Exterior().Orient(true).Close()))
	for _, h := range rings.Holes() {
		coordss = append(coordss, ringCoords(h.Orient(false).Close()))
	}

	return coordss
}

func ringCoords(r geometry.Ring) [][]float64 {
	cs := make([][]float64, len(r))
	for i, p := range r {
		cs[i] = []float64{p.X, p.Y}
	}

	return cs
}

type areaGroup struct {
	number  int
	records []record.Coordinate
}

// groupAreas partitions records by area number and sorts each
// group by sequence number. Groups come back in ascending
// area-number order; group identity, not input position, is the
// partition key.
func groupAreas(records []record.Coordinate) []areaGroup {
	byArea := make(map[int][]record.Coordinate)
	for _, r := range records {
		byArea[r.AreaNumber] = append(byArea[r.AreaNumber], r)
	}

	numbers := make([]int, 0, len(byArea))
	for n := range byArea {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	groups := make([]areaGroup, 0, len(numbers))
	for _, n := range numbers {
		recs := byArea[n]
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].SeqNo < recs[j].SeqNo
		})
		groups = append(groups, areaGroup{number: n, records: recs})
	}

	return groups
}
