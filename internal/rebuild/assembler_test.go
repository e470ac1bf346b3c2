package rebuild

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mkrassel/territory-app/internal/geometry"
	"github.com/mkrassel/territory-app/internal/record"
)

// areaRecords builds the records for one area, assigning
// ascending sequence numbers.
func areaRecords(zoneID string, area int, pts ...geometry.Point) []record.Coordinate {
	recs := make([]record.Coordinate, len(pts))
	for i, p := range pts {
		recs[i] = record.Coordinate{
			ZoneID:     zoneID,
			AreaNumber: area,
			SeqNo:      i + 1,
			X:          p.X,
			Y:          p.Y,
		}
	}

	return recs
}

func TestAssembleZoneSingleArea(t *testing.T) {
	a := NewAssembler("", nil, nil)

	recs := areaRecords("Z1", 1,
		geometry.Point{X: 1, Y: 1},
		geometry.Point{X: 9, Y: 1},
		geometry.Point{X: 9, Y: 9},
		geometry.Point{X: 1, Y: 9},
	)

	g, err := a.AssembleZone("Z1", recs)
	if err != nil {
		t.Fatalf("AssembleZone() error = %v", err)
	}

	if g.Multi() {
		t.Fatal("single-area zone came back as a multipolygon")
	}
	if g.Parts() != 1 {
		t.Fatalf("Parts() = %d, want 1", g.Parts())
	}
	if got := g.Polygon.Area(); got != 64 {
		t.Errorf("Area() = %v, want 64", got)
	}
}

func TestAssembleZoneExteriorAndHole(t *testing.T) {
	a := NewAssembler("", nil, nil)

	// outer square, sentinel separator, inner square.
	recs := areaRecords("Z1", 1,
		geometry.Point{X: 1, Y: 1},
		geometry.Point{X: 9, Y: 1},
		geometry.Point{X: 9, Y: 9},
		geometry.Point{X: 1, Y: 9},
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 3, Y: 3},
		geometry.Point{X: 3, Y: 5},
		geometry.Point{X: 5, Y: 5},
		geometry.Point{X: 5, Y: 3},
	)

	g, err := a.AssembleZone("Z1", recs)
	if err != nil {
		t.Fatalf("AssembleZone() error = %v", err)
	}
	if g.Multi() {
		t.Fatal("zone with one area came back as a multipolygon")
	}

	p := g.Polygon
	if n := p.NumLinearRings(); n != 2 {
		t.Fatalf("NumLinearRings() = %d, want 2 (exterior plus one hole)", n)
	}
	if got := p.Area(); got != 60 {
		t.Errorf("Area() = %v, want 60 (64 outer minus 4 hole)", got)
	}

	if sa := flatSignedArea(p.LinearRing(0).FlatCoords()); sa <= 0 {
		t.Errorf("exterior ring signed area = %v, want counter-clockwise (positive)", sa)
	}
	if sa := flatSignedArea(p.LinearRing(1).FlatCoords()); sa >= 0 {
		t.Errorf("hole ring signed area = %v, want clockwise (negative)", sa)
	}
}

func TestAssembleZoneOrientationNormalized(t *testing.T) {
	a := NewAssembler("", nil, nil)

	ccw := []geometry.Point{{X: 1, Y: 1}, {X: 7, Y: 1}, {X: 7, Y: 7}, {X: 1, Y: 7}}
	cw := []geometry.Point{{X: 1, Y: 7}, {X: 7, Y: 7}, {X: 7, Y: 1}, {X: 1, Y: 1}}

	fromCCW, err := a.AssembleZone("Z1", areaRecords("Z1", 1, ccw...))
	if err != nil {
		t.Fatalf("AssembleZone(ccw) error = %v", err)
	}
	fromCW, err := a.AssembleZone("Z1", areaRecords("Z1", 1, cw...))
	if err != nil {
		t.Fatalf("AssembleZone(cw) error = %v", err)
	}

	ccwExt := fromCCW.Polygon.LinearRing(0).FlatCoords()
	cwExt := fromCW.Polygon.LinearRing(0).FlatCoords()

	if flatSignedArea(ccwExt) <= 0 || flatSignedArea(cwExt) <= 0 {
		t.Error("exterior rings are not both counter-clockwise")
	}
	if !reflect.DeepEqual(cwExt, ccwExt) {
		t.Errorf("normalized exteriors differ:\n cw input: %v\nccw input: %v", cwExt, ccwExt)
	}
}

func TestAssembleZoneMultipleAreas(t *testing.T) {
	a := NewAssembler("", nil, nil)

	recs := append(
		areaRecords("Z1", 1,
			geometry.Point{X: 1, Y: 1},
			geometry.Point{X: 3, Y: 1},
			geometry.Point{X: 3, Y: 3},
			geometry.Point{X: 1, Y: 3},
		),
		areaRecords("Z1", 2,
			geometry.Point{X: 10, Y: 10},
			geometry.Point{X: 12, Y: 10},
			geometry.Point{X: 12, Y: 12},
			geometry.Point{X: 10, Y: 12},
		)...,
	)

	g, err := a.AssembleZone("Z1", recs)
	if err != nil {
		t.Fatalf("AssembleZone() error = %v", err)
	}

	if !g.Multi() {
		t.Fatal("two-area zone did not come back as a multipolygon")
	}
	if g.Parts() != 2 {
		t.Errorf("Parts() = %d, want 2", g.Parts())
	}
	if got := g.MultiPolygon.Area(); got != 8 {
		t.Errorf("Area() = %v, want 8", got)
	}
}

func TestAssembleZoneAbsentOutcomes(t *testing.T) {
	a := NewAssembler("", nil, nil)

	tests := []struct {
		name string
		recs []record.Coordinate
	}{
		{
			name: "no records",
			recs: nil,
		},
		{
			name: "fewer than three distinct points",
			recs: areaRecords("Z1", 1,
				geometry.Point{X: 1, Y: 1},
				geometry.Point{X: 2, Y: 2},
				geometry.Point{X: 1, Y: 1},
			),
		},
		{
			name: "only sentinels",
			recs: areaRecords("Z1", 1,
				geometry.Point{X: 0, Y: 0},
				geometry.Point{X: 0, Y: 0},
			),
		},
		{
			name: "collinear ring repairs to nothing",
			recs: areaRecords("Z1", 1,
				geometry.Point{X: 1, Y: 1},
				geometry.Point{X: 2, Y: 2},
				geometry.Point{X: 3, Y: 3},
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := a.AssembleZone("Z1", tt.recs)
			if err == nil {
				t.Fatalf("AssembleZone() = %v, want absent", g)
			}
			if !IsNoGeometry(err) {
				t.Fatalf("AssembleZone() error = %v, want NoGeometryError", err)
			}
		})
	}
}

func TestAssembleZoneSkipsBadAreaKeepsSiblings(t *testing.T) {
	m := &captureMetrics{}
	a := NewAssembler(RepairStructural, nil, m)

	recs := append(
		// degenerate: two distinct points only.
		areaRecords("Z1", 1,
			geometry.Point{X: 1, Y: 1},
			geometry.Point{X: 2, Y: 2},
		),
		areaRecords("Z1", 2,
			geometry.Point{X: 5, Y: 5},
			geometry.Point{X: 8, Y: 5},
			geometry.Point{X: 8, Y: 8},
			geometry.Point{X: 5, Y: 8},
		)...,
	)

	g, err := a.AssembleZone("Z1", recs)
	if err != nil {
		t.Fatalf("AssembleZone() error = %v", err)
	}
	if g.Multi() || g.Parts() != 1 {
		t.Errorf("surviving area should yield a single polygon, got parts=%d multi=%v", g.Parts(), g.Multi())
	}

	if got := m.discards["degenerate_ring"]; got != 1 {
		t.Errorf("degenerate_ring discards = %d, want 1", got)
	}
}

func TestAssembleZoneBowtieRepair(t *testing.T) {
	bowtie := []geometry.Point{{X: 1, Y: 1}, {X: 5, Y: 5}, {X: 1, Y: 5}, {X: 5, Y: 1}}

	for _, strategy := range []Strategy{RepairStructural, RepairLegacy} {
		t.Run(string(strategy), func(t *testing.T) {
			a := NewAssembler(strategy, nil, nil)

			g, err := a.AssembleZone("Z1", areaRecords("Z1", 1, bowtie...))
			if err != nil {
				if !IsNoGeometry(err) {
					t.Fatalf("AssembleZone() error = %v, want geometry or absent", err)
				}
				return
			}

			if g.Parts() < 1 {
				t.Error("repair returned geometry with no parts")
			}
			if g.Geom().Empty() {
				t.Error("repair returned empty geometry")
			}
		})
	}
}

func TestAssembleZoneDeterministic(t *testing.T) {
	a := NewAssembler("", nil, nil)

	ordered := append(
		areaRecords("Z1", 1,
			geometry.Point{X: 1, Y: 1},
			geometry.Point{X: 4, Y: 1},
			geometry.Point{X: 4, Y: 4},
			geometry.Point{X: 1, Y: 4},
		),
		areaRecords("Z1", 7,
			geometry.Point{X: 10, Y: 10},
			geometry.Point{X: 14, Y: 10},
			geometry.Point{X: 14, Y: 14},
		)...,
	)

	// same rows, reversed arrival order.
	reversed := make([]record.Coordinate, len(ordered))
	for i, r := range ordered {
		reversed[len(ordered)-1-i] = r
	}

	want, err := a.AssembleZone("Z1", ordered)
	if err != nil {
		t.Fatalf("AssembleZone(ordered) error = %v", err)
	}

	got, err := a.AssembleZone("Z1", reversed)
	if err != nil {
		t.Fatalf("AssembleZone(reversed) error = %v", err)
	}

	if !reflect.DeepEqual(got.Geom().FlatCoords(), want.Geom().FlatCoords()) {
		t.Error("reordered input produced different geometry")
	}
	if got.Multi() != want.Multi() {
		t.Error("reordered input produced a different geometry case")
	}
}

func TestBuildAreaPolygonErrors(t *testing.T) {
	a := NewAssembler("", nil, nil)

	_, err := a.BuildAreaPolygon(nil)
	var emptyErr *EmptyGroupError
	if !errors.As(err, &emptyErr) {
		t.Errorf("BuildAreaPolygon(nil) error = %v, want EmptyGroupError", err)
	}

	_, err = a.BuildAreaPolygon(geometry.AreaRings{
		geometry.Ring{{X: 1, Y: 1}, {X: 2, Y: 2}},
	})
	var degErr *DegenerateRingError
	if !errors.As(err, &degErr) {
		t.Fatalf("BuildAreaPolygon(degenerate) error = %v, want DegenerateRingError", err)
	}
	if degErr.Ring != 0 || degErr.Points != 2 {
		t.Errorf("DegenerateRingError = %+v, want Ring 0 Points 2", degErr)
	}
}

func TestAssemblerValid(t *testing.T) {
	a := NewAssembler("", nil, nil)

	g, err := a.AssembleZone("Z1", areaRecords("Z1", 1,
		geometry.Point{X: 1, Y: 1},
		geometry.Point{X: 9, Y: 1},
		geometry.Point{X: 9, Y: 9},
		geometry.Point{X: 1, Y: 9},
	))
	if err != nil {
		t.Fatalf("AssembleZone() error = %v", err)
	}

	valid, err := a.Valid(g)
	if err != nil {
		t.Fatalf("Valid() error = %v", err)
	}
	if !valid {
		t.Error("Valid() = false for assembled geometry, want true")
	}

	if valid, err := a.Valid(Geometry{}); err != nil || valid {
		t.Errorf("Valid(zero) = %v, %v; want false, nil", valid, err)
	}
}

func TestAssemblerContains(t *testing.T) {
	a := NewAssembler("", nil, nil)

	g, err := a.AssembleZone("Z1", areaRecords("Z1", 1,
		geometry.Point{X: 1, Y: 1},
		geometry.Point{X: 9, Y: 1},
		geometry.Point{X: 9, Y: 9},
		geometry.Point{X: 1, Y: 9},
	))
	if err != nil {
		t.Fatalf("AssembleZone() error = %v", err)
	}

	inside, err := a.Contains(g, 5, 5)
	if err != nil {
		t.Fatalf("Contains(5,5) error = %v", err)
	}
	if !inside {
		t.Error("Contains(5,5) = false, want true")
	}

	outside, err := a.Contains(g, 20, 20)
	if err != nil {
		t.Fatalf("Contains(20,20) error = %v", err)
	}
	if outside {
		t.Error("Contains(20,20) = true, want false")
	}
}

// captureMetrics records pipeline measurements for assertions.
type captureMetrics struct {
	discards map[string]int
	repairs  int
}

func (m *captureMetrics) AreaDiscarded(cause string) {
	if m.discards == nil {
		m.discards = make(map[string]int)
	}
	m.discards[cause]++
}

func (m *captureMetrics) RepairAttempted(string, bool) {
	m.repairs++
}

// flatSignedArea computes the shoelace area over a stride-2 flat
// coordinate slice.
func flatSignedArea(fc []float64) float64 {
	var sum float64
	n := len(fc) / 2
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += fc[2*i]*fc[2*j+1] - fc[2*j]*fc[2*i+1]
	}

	return sum / 2
}
