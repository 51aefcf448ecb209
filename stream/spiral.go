package stream

// offset is a chunk-grid displacement from the focal chunk.
type offset struct {
	dx, dz int32
}

// spiralOffsets returns every (dx, dz) within radius chunks of the origin,
// ordered by increasing distance from the centre (spec §4.8 step 2:
// "spiral outward from (fx, fz)"), so that closer chunks are always
// dispatched first within a tick's budget.
func spiralOffsets(radius int) []offset {
	r := int32(radius)
	out := make([]offset, 0, (2*radius+1)*(2*radius+1))
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			if dx*dx+dz*dz > r*r {
				continue
			}
			out = append(out, offset{dx: dx, dz: dz})
		}
	}
	// Stable sort by squared distance gives a spiral-equivalent ordering:
	// every slot at a given ring is dispatched before any slot in a
	// farther ring, which is the only ordering guarantee spec §4.8
	// actually depends on ("closer chunks are prioritized").
	insertionSortByDistance(out)
	return out
}

func insertionSortByDistance(s []offset) {
	dist := func(o offset) int64 { return int64(o.dx)*int64(o.dx) + int64(o.dz)*int64(o.dz) }
	for i := 1; i < len(s); i++ {
		v := s[i]
		vd := dist(v)
		j := i - 1
		for j >= 0 && dist(s[j]) > vd {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}
