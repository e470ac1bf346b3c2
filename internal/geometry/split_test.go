package geometry

import (
	"reflect"
	"testing"
)

func TestSplitRings(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   AreaRings
	}{
		{
			name:   "no sentinels yields one ring equal to the input",
			points: []Point{{1, 1}, {2, 2}, {3, 3}},
			want:   AreaRings{Ring{{1, 1}, {2, 2}, {3, 3}}},
		},
		{
			name:   "sentinel splits the sequence in two",
			points: []Point{{1, 1}, {2, 2}, {0, 0}, {3, 3}, {4, 4}},
			want:   AreaRings{Ring{{1, 1}, {2, 2}}, Ring{{3, 3}, {4, 4}}},
		},
		{
			name:   "leading trailing and consecutive sentinels produce no empty rings",
			points: []Point{{0, 0}, {0, 0}, {1, 1}, {2, 2}, {0, 0}, {0, 0}},
			want:   AreaRings{Ring{{1, 1}, {2, 2}}},
		},
		{
			name:   "trailing points without a final sentinel form a ring",
			points: []Point{{1, 1}, {0, 0}, {2, 2}},
			want:   AreaRings{Ring{{1, 1}}, Ring{{2, 2}}},
		},
		{
			name:   "empty input yields nil",
			points: nil,
			want:   nil,
		},
		{
			name:   "only sentinels yields nil",
			points: []Point{{0, 0}, {0, 0}},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRings(tt.points)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitRings(%v) = %v, want %v", tt.points, got, tt.want)
			}
		})
	}
}

func TestSplitRingsDoesNotAliasInput(t *testing.T) {
	points := []Point{{1, 1}, {2, 2}, {3, 3}}

	rings := SplitRings(points)
	points[0] = Point{9, 9}

	if rings[0][0] != (Point{1, 1}) {
		t.Errorf("ring mutated by input edit: got %v, want (1,1)", rings[0][0])
	}
}
