package worldgen

import "github.com/ashgrove-voxel/worldcore/world"

// decorationsPass places flowers, tall grass and shaded mushrooms on flat
// grass tops (slope <= 1), and sugar cane adjacent to water, using the
// chunk-seeded RNG (spec §4.3 step 7).
func decorationsPass(_ *Context, _ world.ChunkPos, c *world.Chunk, r *chunkRand) {
	for x := uint8(0); x < world.ChunkSize; x++ {
		for z := uint8(0); z < world.ChunkSize; z++ {
			top := surfaceTop(c, x, z)
			if top < 0 || top >= world.WorldHeight-1 {
				continue
			}
			if c.GetBlock(x, uint8(top), z) == world.Grass && flatNeighbourhood(c, x, z, top) {
				decorateGrassTop(c, r, x, z, top)
			}
			tryPlaceSugarCane(c, r, x, z, top)
		}
	}
}

// flatNeighbourhood reports whether every in-bounds 4-neighbour of (x, z)
// has a surface height within 1 of top.
func flatNeighbourhood(c *world.Chunk, x, z uint8, top int) bool {
	type off struct{ dx, dz int }
	for _, o := range []off{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx, nz := int(x)+o.dx, int(z)+o.dz
		if nx < 0 || nx >= world.ChunkSize || nz < 0 || nz >= world.ChunkSize {
			continue
		}
		nTop := surfaceTop(c, uint8(nx), uint8(nz))
		if nTop < 0 || abs(float64(nTop-top)) > 1 {
			return false
		}
	}
	return true
}

func decorateGrassTop(c *world.Chunk, r *chunkRand, x, z uint8, top int) {
	y := top + 1
	if y >= world.WorldHeight {
		return
	}
	switch {
	case r.Chance(0.04):
		c.SetBlock(x, uint8(y), z, world.Flower)
	case r.Chance(0.10):
		c.SetBlock(x, uint8(y), z, world.TallGrass)
	case isShaded(c, x, z, y) && r.Chance(0.01):
		c.SetBlock(x, uint8(y), z, world.Mushroom)
	}
}

// isShaded reports whether a tree canopy (log or leaves) overhangs (x, z)
// anywhere above y, the decorations pass runs after tree placement
// specifically so that mushrooms can be gated on this: they grow in the
// shade under a canopy, not on a grass top standing in open sky.
func isShaded(c *world.Chunk, x, z uint8, y int) bool {
	for cy := y + 1; cy < world.WorldHeight; cy++ {
		switch c.GetBlock(x, uint8(cy), z) {
		case world.Log, world.Leaves:
			return true
		}
	}
	return false
}

// tryPlaceSugarCane places a 1-3 tall sugar cane column on a sand/grass
// column directly adjacent to water.
func tryPlaceSugarCane(c *world.Chunk, r *chunkRand, x, z uint8, top int) {
	if top < 0 || top >= world.WorldHeight-1 {
		return
	}
	base := c.GetBlock(x, uint8(top), z)
	if base != world.Sand && base != world.Grass {
		return
	}
	if !adjacentToWater(c, x, z, top) {
		return
	}
	if !r.Chance(0.15) {
		return
	}
	height := 1 + r.Intn(3)
	for i := 0; i < height; i++ {
		y := top + 1 + i
		if y >= world.WorldHeight || c.GetBlock(x, uint8(y), z) != world.Air {
			break
		}
		c.SetBlock(x, uint8(y), z, world.SugarCane)
	}
}

func adjacentToWater(c *world.Chunk, x, z uint8, top int) bool {
	type off struct{ dx, dz int }
	for _, o := range []off{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx, nz := int(x)+o.dx, int(z)+o.dz
		if nx < 0 || nx >= world.ChunkSize || nz < 0 || nz >= world.ChunkSize {
			continue
		}
		if c.GetBlock(uint8(nx), uint8(top), uint8(nz)) == world.WaterSource {
			return true
		}
	}
	return false
}
