package record

import (
	"reflect"
	"testing"
)

func TestGroupByZone(t *testing.T) {
	records := []Coordinate{
		{ZoneID: "Z2", SuffixID: "A", AreaNumber: 1, SeqNo: 1},
		{ZoneID: "Z1", SuffixID: "None", AreaNumber: 1, SeqNo: 2},
		{ZoneID: "Z1", SuffixID: "NONE", AreaNumber: 1, SeqNo: 1},
		{ZoneID: "Z2", SuffixID: "A", AreaNumber: 2, SeqNo: 1},
	}

	groups := GroupByZone(records)

	if len(groups) != 2 {
		t.Fatalf("GroupByZone() returned %d groups, want 2", len(groups))
	}

	// ascending key order, regardless of input order.
	if groups[0].Key != "Z1" || groups[1].Key != "Z2_A" {
		t.Errorf("group keys = [%s, %s], want [Z1, Z2_A]", groups[0].Key, groups[1].Key)
	}

	// differing placeholder spellings land in the same group,
	// input order preserved within it.
	z1Seqs := []int{groups[0].Records[0].SeqNo, groups[0].Records[1].SeqNo}
	if !reflect.DeepEqual(z1Seqs, []int{2, 1}) {
		t.Errorf("Z1 record order = %v, want [2 1]", z1Seqs)
	}

	if len(groups[1].Records) != 2 {
		t.Errorf("Z2_A group has %d records, want 2", len(groups[1].Records))
	}
}

func TestGroupByZoneDeterministic(t *testing.T) {
	records := []Coordinate{
		{ZoneID: "Z3"}, {ZoneID: "Z1"}, {ZoneID: "Z9"}, {ZoneID: "Z4"}, {ZoneID: "Z2"},
	}

	first := GroupByZone(records)
	for i := 0; i < 10; i++ {
		again := GroupByZone(records)
		if !reflect.DeepEqual(again, first) {
			t.Fatalf("run %d produced different grouping", i)
		}
	}
}
