package stream

import (
	"github.com/ashgrove-voxel/worldcore/mesh"
	"github.com/ashgrove-voxel/worldcore/world"
	"github.com/ashgrove-voxel/worldcore/worldgen"
)

// spawnSearchRadius bounds the spiral search in SpawnPoint, in chunks.
const spawnSearchRadius = 8

// ensureResidentSync loads or generates pos synchronously, bypassing the
// worker pools. It is only used before streaming has started (SpawnPoint
// at startup) where there is no tick loop yet to drive the async path.
func (m *Manager) ensureResidentSync(pos world.ChunkPos) *world.Chunk {
	if c, ok := m.residents.Get(pos); ok {
		return c
	}
	c, ok, err := m.store.Load(pos)
	if err != nil || !ok {
		c = worldgen.Generate(m.genCtx, pos)
	}
	c.Pos = pos
	c.LOD = mesh.LOD3
	m.residents.Insert(c)
	m.lightEngine.ComputeInitialSkyLight(pos)
	m.lightEngine.ComputeInitialBlockLight(pos)
	return c
}

// SpawnPoint implements spec §6's spawn_point(): spiral-search outward
// from the origin for the first grass column above sea level and below
// y=90, returning the block-top position plus a 1.62 eye-height offset.
// If nothing qualifies within the search radius, it falls back to
// (0.5, h(0,0)+1.62, 0.5) where h(0,0) is the surface height at the
// origin column.
func (m *Manager) SpawnPoint() (float64, float64, float64) {
	for _, off := range spiralOffsets(spawnSearchRadius) {
		pos := world.ChunkPos{X: off.dx, Z: off.dz}
		c := m.ensureResidentSync(pos)
		baseX, baseZ := pos.X*world.ChunkSize, pos.Z*world.ChunkSize

		for lx := uint8(0); lx < world.ChunkSize; lx++ {
			for lz := uint8(0); lz < world.ChunkSize; lz++ {
				for y := uint8(89); int32(y) >= world.SeaLevel; y-- {
					if c.GetBlock(lx, y, lz) == world.Grass {
						wx := baseX + int32(lx)
						wz := baseZ + int32(lz)
						return float64(wx) + 0.5, float64(y) + 1.62, float64(wz) + 0.5
					}
					if y == 0 {
						break
					}
				}
			}
		}
	}
	return 0.5, float64(m.surfaceHeight(0, 0)) + 1.62, 0.5
}

// surfaceHeight returns the y of the topmost non-air block at (x, z),
// generating the owning chunk synchronously if it is not yet resident.
func (m *Manager) surfaceHeight(x, z int32) int32 {
	m.ensureResidentSync(world.ChunkOf(x, z))
	for y := int32(world.WorldHeight - 1); y >= 0; y-- {
		if m.accessor.GetBlock(x, y, z) != world.Air {
			return y
		}
	}
	return 0
}
