package record

import "sort"

// ZoneGroup holds every record sharing one composite zone key.
type ZoneGroup struct {
	Key     string
	Records []Coordinate
}

// GroupByZone partitions records by composite zone key. Groups
// come back in ascending key order so repeated runs over the
// same table visit zones deterministically; record order within
// a group matches input order (the rebuild core re-sorts by
// sequence number itself).
func GroupByZone(records []Coordinate) []ZoneGroup {
	byKey := make(map[string][]Coordinate)
	for _, r := range records {
		k := r.ZoneKey()
		byKey[k] = append(byKey[k], r)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]ZoneGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, ZoneGroup{Key: k, Records: byKey[k]})
	}

	return groups
}
