package mesh

import "github.com/ashgrove-voxel/worldcore/world"

// BuildLOD2 emits one quad per surface column: a heightmap-style mesh with
// no interior geometry (spec §4.6 "LOD 2"). Every column's quad lands at
// its own surface height, so the tier still reads as rolling terrain from
// a distance.
func BuildLOD2(acc world.Accessor, pos world.ChunkPos) RawMeshResult {
	v, i := newFloatBuilder(), newIndexBuilder()
	baseX, baseZ := pos.X*world.ChunkSize, pos.Z*world.ChunkSize

	for lx := int32(0); lx < world.ChunkSize; lx++ {
		for lz := int32(0); lz < world.ChunkSize; lz++ {
			wx, wz := baseX+lx, baseZ+lz
			top, id := columnSurface(acc, wx, wz)
			if top < 0 {
				continue
			}
			emitColumnQuad(v, i, float32(lx), float32(top+1), float32(lz), 1, id)
		}
	}

	return RawMeshResult{Opaque: MeshData{Vertices: v.data, Indices: i.data}}
}

// BuildLOD3 emits a single quad for the whole chunk, at the dominant (most
// common) surface elevation across its columns (spec §4.6 "LOD 3").
func BuildLOD3(acc world.Accessor, pos world.ChunkPos) RawMeshResult {
	v, i := newFloatBuilder(), newIndexBuilder()
	baseX, baseZ := pos.X*world.ChunkSize, pos.Z*world.ChunkSize

	counts := make(map[int32]int)
	idAtHeight := make(map[int32]uint8)
	for lx := int32(0); lx < world.ChunkSize; lx++ {
		for lz := int32(0); lz < world.ChunkSize; lz++ {
			top, id := columnSurface(acc, baseX+lx, baseZ+lz)
			if top < 0 {
				continue
			}
			counts[top]++
			idAtHeight[top] = id
		}
	}
	if len(counts) == 0 {
		return RawMeshResult{}
	}
	dominant, best := int32(0), -1
	for h, c := range counts {
		if c > best {
			dominant, best = h, c
		}
	}

	emitColumnQuad(v, i, 0, float32(dominant+1), 0, world.ChunkSize, idAtHeight[dominant])
	return RawMeshResult{Opaque: MeshData{Vertices: v.data, Indices: i.data}}
}

// columnSurface returns the topmost opaque block's Y (or -1 if the column
// has none) and its id, scanning down from the world ceiling.
func columnSurface(acc world.Accessor, x, z int32) (int32, uint8) {
	for y := int32(world.WorldHeight - 1); y >= 0; y-- {
		id := acc.GetBlock(x, y, z)
		if world.BlockProps(id).Opaque() {
			return y, id
		}
	}
	return -1, world.Air
}

// emitColumnQuad emits a single horizontal quad at height y with its
// minimum corner at chunk-local (x0, z0), extending size units along x and
// z: a unit square per column for LOD2, the whole chunk footprint for LOD3.
func emitColumnQuad(v *floatBuilder, i *indexBuilder, x0, y, z0, size float32, id uint8) {
	start := uint32(len(v.data) / VertexSize)
	corners := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for _, c := range corners {
		v.push(
			x0+c[0]*size, y, z0+c[1]*size,
			float32(LOD2), // face id is unused by the coarse tiers; the slot holds LOD2 for both LOD2 and LOD3 quads
			c[0], c[1],
			float32(id),
			1, 1, 1, 1, 1,
			0,
		)
	}
	i.push(start, start+1, start+2, start, start+2, start+3)
}
