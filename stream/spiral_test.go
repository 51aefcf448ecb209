package stream

import "testing"

func TestSpiralOffsetsOrderedByDistance(t *testing.T) {
	offsets := spiralOffsets(4)

	dist := func(o offset) int64 { return int64(o.dx)*int64(o.dx) + int64(o.dz)*int64(o.dz) }
	for i := 1; i < len(offsets); i++ {
		if dist(offsets[i]) < dist(offsets[i-1]) {
			t.Fatalf("offsets not monotonic by distance at index %d: %+v then %+v", i, offsets[i-1], offsets[i])
		}
	}
	if offsets[0] != (offset{0, 0}) {
		t.Fatalf("first offset = %+v, want the origin", offsets[0])
	}
}

func TestSpiralOffsetsStaysWithinRadius(t *testing.T) {
	const radius = 3
	offsets := spiralOffsets(radius)
	for _, o := range offsets {
		if o.dx*o.dx+o.dz*o.dz > int32(radius*radius) {
			t.Fatalf("offset %+v exceeds radius %d", o, radius)
		}
	}
}

func TestSpiralOffsetsCoverEveryPointInRadius(t *testing.T) {
	const radius = 2
	offsets := spiralOffsets(radius)
	seen := make(map[offset]bool, len(offsets))
	for _, o := range offsets {
		seen[o] = true
	}
	for dx := int32(-radius); dx <= radius; dx++ {
		for dz := int32(-radius); dz <= radius; dz++ {
			if dx*dx+dz*dz > radius*radius {
				continue
			}
			if !seen[offset{dx, dz}] {
				t.Fatalf("missing offset (%d,%d) within radius %d", dx, dz, radius)
			}
		}
	}
}
