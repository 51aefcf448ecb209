package worldgen

import "github.com/ashgrove-voxel/worldcore/world"

// fluidFillPass walks each column down from SEA_LEVEL, replacing air with
// water until a non-air, non-water block is met (spec §4.3 step 4). This
// produces seas and fills any cave mouths opened below sea level.
func fluidFillPass(_ *Context, _ world.ChunkPos, c *world.Chunk, _ *chunkRand) {
	for lx := uint8(0); lx < world.ChunkSize; lx++ {
		for lz := uint8(0); lz < world.ChunkSize; lz++ {
			for y := world.SeaLevel; y >= 0; y-- {
				b := c.GetBlock(lx, uint8(y), lz)
				if b == world.Air {
					c.SetBlock(lx, uint8(y), lz, world.WaterSource)
					continue
				}
				if b != world.WaterSource {
					break
				}
			}
		}
	}
}
