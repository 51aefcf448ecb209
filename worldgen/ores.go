package worldgen

import "github.com/ashgrove-voxel/worldcore/world"

// oreVeinsPass performs Attempts random starts per ore type within its Y
// range; from each start, a random walk of length VeinSize replaces stone
// with ore (spec §4.3 step 5). Uses the chunk-seeded RNG so placement is
// deterministic.
func oreVeinsPass(ctx *Context, _ world.ChunkPos, c *world.Chunk, r *chunkRand) {
	for _, ore := range ctx.Cfg.Ores {
		yRange := ore.MaxY - ore.MinY
		if yRange <= 0 {
			continue
		}
		for attempt := 0; attempt < ore.Attempts; attempt++ {
			x := uint8(r.Intn(world.ChunkSize))
			y := ore.MinY + r.Intn(yRange)
			z := uint8(r.Intn(world.ChunkSize))
			placeVein(c, r, x, y, z, ore.Block, ore.VeinSize)
		}
	}
}

// placeVein performs a random walk of length veinSize starting at
// (x, y, z), replacing stone with id at each step.
func placeVein(c *world.Chunk, r *chunkRand, x uint8, y int, z uint8, id uint8, veinSize int) {
	cx, cy, cz := int(x), y, int(z)
	for i := 0; i < veinSize; i++ {
		if cx >= 0 && cx < world.ChunkSize && cz >= 0 && cz < world.ChunkSize &&
			cy >= 0 && cy < world.WorldHeight {
			if c.GetBlock(uint8(cx), uint8(cy), uint8(cz)) == world.Stone {
				c.SetBlock(uint8(cx), uint8(cy), uint8(cz), id)
			}
		}
		switch r.Intn(6) {
		case 0:
			cx++
		case 1:
			cx--
		case 2:
			cy++
		case 3:
			cy--
		case 4:
			cz++
		case 5:
			cz--
		}
	}
}
