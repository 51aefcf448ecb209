package worldgen

import (
	"github.com/ashgrove-voxel/worldcore/world"
)

// surfacePaintPass lays bedrock, then paints each column's topsoil
// according to spec §4.3 step 2: stone mountain above MountainThreshold;
// sand/gravel near and below sea level driven by beach/erosion noise;
// otherwise grass-on-dirt, with dirt depth thinned near y=75 and y=85.
func surfacePaintPass(ctx *Context, pos world.ChunkPos, c *world.Chunk, _ *chunkRand) {
	cfg := ctx.Cfg
	baseX, baseZ := pos.X*world.ChunkSize, pos.Z*world.ChunkSize

	for lx := uint8(0); lx < world.ChunkSize; lx++ {
		for lz := uint8(0); lz < world.ChunkSize; lz++ {
			c.SetBlock(lx, 0, lz, world.Bedrock)

			top := surfaceTop(c, lx, lz)
			if top <= 0 {
				continue
			}
			wx, wz := baseX+int32(lx), baseZ+int32(lz)

			if top > int(cfg.MountainThreshold) {
				// Stone mountain: leave the stone exposed, nothing to paint.
				continue
			}

			beach := ctx.beach.Eval2(float64(wx)*0.05, float64(wz)*0.05)
			erosion := ctx.erosion.Eval2(float64(wx)*0.05, float64(wz)*0.05)

			nearSeaLevel := top >= world.SeaLevel-3 && top <= world.SeaLevel+2

			switch {
			case top <= world.SeaLevel && beach > cfg.BeachThreshold:
				c.SetBlock(lx, uint8(top), lz, world.Sand)
				fillBelow(c, lx, lz, top, world.Sand, 2)
			case top <= world.SeaLevel && erosion > cfg.ErosionThreshold:
				c.SetBlock(lx, uint8(top), lz, world.Gravel)
				fillBelow(c, lx, lz, top, world.Gravel, 2)
			case nearSeaLevel && beach > cfg.BeachThreshold*0.7:
				c.SetBlock(lx, uint8(top), lz, world.Sand)
				fillBelow(c, lx, lz, top, world.Sand, 1)
			default:
				dirtDepth := cfg.DirtDepth + roundHalfAway(erosion*2)
				if top > 75 {
					dirtDepth--
				}
				if top > 85 {
					dirtDepth--
				}
				if dirtDepth < 0 {
					dirtDepth = 0
				}
				c.SetBlock(lx, uint8(top), lz, world.Grass)
				fillBelow(c, lx, lz, top, world.Dirt, dirtDepth)
			}
		}
	}
}

// fillBelow overwrites up to depth stone cells directly below (and
// excluding) y with id, stopping early if a non-stone block is hit.
func fillBelow(c *world.Chunk, x, z uint8, y int, id uint8, depth int) {
	for i := 1; i <= depth; i++ {
		ny := y - i
		if ny < 1 {
			return
		}
		if c.GetBlock(x, uint8(ny), z) != world.Stone {
			return
		}
		c.SetBlock(x, uint8(ny), z, id)
	}
}

func roundHalfAway(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}
