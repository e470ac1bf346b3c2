package geometry

// SplitRings partitions an ordered point sequence into rings
// using the exact (0, 0) sentinel as a terminator. A sentinel
// closes out the ring being accumulated and is a no-op when no
// points have accumulated, so leading and consecutive sentinels
// never produce empty rings. Trailing points without a final
// sentinel still form a ring. Returns nil when the sequence is
// empty or holds only sentinels.
//
// The sentinel test is exact equality, so a legitimate data
// point at (0, 0) always reads as a separator. The ambiguity is
// a property of the source encoding and is preserved here.
func SplitRings(points []Point) AreaRings {
	var rings AreaRings
	var current Ring

	for _, p := range points {
		if p.IsSentinel() {
			if len(current) > 0 {
				rings = append(rings, current)
				current = nil
			}
			continue
		}

		current = append(current, p)
	}

	if len(current) > 0 {
		rings = append(rings, current)
	}

	return rings
}
