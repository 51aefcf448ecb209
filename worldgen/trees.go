package worldgen

import "github.com/ashgrove-voxel/worldcore/world"

const (
	minTrunkHeight = 4
	maxTrunkHeight = 6
	minTreesPatch  = 5
	maxTreesPatch  = 12
	patchSpread    = 4
)

// treesPass scatters 0-4 forest patches per chunk, each containing 5-12
// trees, gated by a low-frequency forest-density noise field (spec §4.3
// step 6). Every tree requires a grass column top with headroom for
// trunkHeight+3 and is kept at least TreeEdgeMargin cells from the chunk
// boundary so its canopy never needs a neighbour write.
func treesPass(ctx *Context, pos world.ChunkPos, c *world.Chunk, r *chunkRand) {
	baseX, baseZ := pos.X*world.ChunkSize, pos.Z*world.ChunkSize
	density := (ctx.forestDensity.Eval2(float64(baseX)*0.01, float64(baseZ)*0.01) + 1) / 2

	patches := int(density * 5)
	if patches > 4 {
		patches = 4
	}
	margin := ctx.Cfg.TreeEdgeMargin
	if margin < 2 {
		margin = 2
	}
	lo, hi := margin, world.ChunkSize-1-margin
	if hi <= lo {
		return
	}

	for p := 0; p < patches; p++ {
		cx := lo + r.Intn(hi-lo+1)
		cz := lo + r.Intn(hi-lo+1)
		count := minTreesPatch + r.Intn(maxTreesPatch-minTreesPatch+1)
		for t := 0; t < count; t++ {
			x := cx + r.Intn(2*patchSpread+1) - patchSpread
			z := cz + r.Intn(2*patchSpread+1) - patchSpread
			if x < lo || x > hi || z < lo || z > hi {
				continue
			}
			tryPlaceTree(c, r, uint8(x), uint8(z))
		}
	}
}

func tryPlaceTree(c *world.Chunk, r *chunkRand, x, z uint8) {
	top := surfaceTop(c, x, z)
	if top < 0 || c.GetBlock(x, uint8(top), z) != world.Grass {
		return
	}
	trunkHeight := minTrunkHeight + r.Intn(maxTrunkHeight-minTrunkHeight+1)
	baseY := top + 1
	if baseY+trunkHeight+3 >= world.WorldHeight {
		return
	}
	for y := baseY; y < baseY+trunkHeight+3; y++ {
		if c.GetBlock(x, uint8(y), z) != world.Air {
			return
		}
	}

	for i := 0; i < trunkHeight; i++ {
		c.SetBlock(x, uint8(baseY+i), z, world.Log)
	}

	top1 := baseY + trunkHeight - 3
	leafSquare(c, r, x, z, top1, 2, true)
	leafSquare(c, r, x, z, top1+1, 2, false)
	leafSquare(c, r, x, z, top1+2, 1, false)
	if int(x) >= 0 && int(z) >= 0 {
		setIfAir(c, x, uint8(top1+3), z, world.Leaves)
	}
}

// leafSquare paints a (2*radius+1)^2 square of leaves centred on (x,z) at
// height y, only over air, with optional random corner removal (the first
// canopy layer per spec §4.3 step 6). radius==1 also paints only the
// orthogonal cross, matching the "3x3 cross" canopy layer.
func leafSquare(c *world.Chunk, r *chunkRand, x, z uint8, y int, radius int, removeCorners bool) {
	if y < 0 || y >= world.WorldHeight {
		return
	}
	cx, cz := int(x), int(z)
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if radius == 1 && dx != 0 && dz != 0 {
				continue // cross layer: skip diagonals
			}
			if removeCorners && abs(float64(dx)) == float64(radius) && abs(float64(dz)) == float64(radius) {
				if r.Chance(0.5) {
					continue
				}
			}
			nx, nz := cx+dx, cz+dz
			if nx < 0 || nx >= world.ChunkSize || nz < 0 || nz >= world.ChunkSize {
				continue
			}
			setIfAir(c, uint8(nx), uint8(y), uint8(nz), world.Leaves)
		}
	}
}

func setIfAir(c *world.Chunk, x, y, z uint8, id uint8) {
	if c.GetBlock(x, y, z) == world.Air {
		c.SetBlock(x, y, z, id)
	}
}
