package mesh

import "github.com/ashgrove-voxel/worldcore/world"

// Build dispatches to the mesher for the given LOD tier. Meshing never
// fails (spec §4.6 "Failure semantics"): an unrecognised tier falls back
// to LOD3, the cheapest representation, rather than panicking.
func Build(lod int, acc world.Accessor, pos world.ChunkPos) RawMeshResult {
	switch lod {
	case LOD0:
		return BuildLOD0(acc, pos)
	case LOD1:
		return BuildLOD1(acc, pos)
	case LOD2:
		return BuildLOD2(acc, pos)
	default:
		return BuildLOD3(acc, pos)
	}
}
