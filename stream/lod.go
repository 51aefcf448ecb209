package stream

import "github.com/ashgrove-voxel/worldcore/mesh"

// lodFor applies spec §4.8 step 5's hysteresis rule on top of
// mesh.SelectLOD: "do not upgrade unless the chunk would still be in the
// higher LOD at distance + 2". Downgrades (losing detail as a chunk moves
// away) apply immediately since only upgrades are named as thrash-prone.
func lodFor(dist int, current int) int {
	target := mesh.SelectLOD(dist)
	if target >= current {
		// Same tier, or a loss of detail: nothing to guard against.
		return target
	}
	// target < current is a gain in detail (lower tier number means a
	// higher-detail mesh); only take it if the chunk would still qualify
	// two chunks farther out.
	if mesh.SelectLOD(dist+2) == target {
		return target
	}
	return current
}
