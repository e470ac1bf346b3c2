package geometry

// AreaRings is the ordered ring set recovered for one area
// number. The first ring traces the exterior boundary and every
// subsequent ring is a hole. Hole order is preserved but carries
// no meaning.
type AreaRings []Ring

func (a AreaRings) Exterior() Ring {
	if len(a) == 0 {
		return nil
	}

	return a[0]
}

func (a AreaRings) Holes() []Ring {
	if len(a) < 2 {
		return nil
	}

	holes := make([]Ring, len(a)-1)
	copy(holes, a[1:])

	return holes
}
