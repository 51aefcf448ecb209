package worldgen

import (
	"github.com/ashgrove-voxel/worldcore/internal/mathutil"
	"github.com/ashgrove-voxel/worldcore/world"
)

// columnHeight computes the Infdev-style terrain height at a world (x, z)
// column, per spec §4.3 step 1:
//
//	rawLow  = C1*A/sLow  + oLow
//	rawHigh = max(rawLow, C2*A/sHigh + oHigh)
//	gated by a low-frequency selector noise; halved; negative-side
//	dampened by 0.8; + baseHeight; clamped into [1, WorldHeight-2].
func columnHeight(ctx *Context, wx, wz int32) int {
	cfg := ctx.Cfg
	fx, fz := float64(wx)*cfg.BroadScale, float64(wz)*cfg.BroadScale
	sx, sz := float64(wx)*cfg.SelectorScale, float64(wz)*cfg.SelectorScale

	c1 := ctx.heightLow.Eval2(fx, fz)
	c2 := ctx.heightHigh.Eval2(fx, fz)
	sel := ctx.selector.Eval2(sx, sz)

	rawLow := c1*cfg.AmplitudeA/cfg.LowScaleDiv + cfg.LowOffset
	rawHigh := c2*cfg.AmplitudeA/cfg.HighScaleDiv + cfg.HighOffset
	if rawHigh < rawLow {
		rawHigh = rawLow
	}

	var raw float64
	if sel > 0 {
		raw = rawHigh
	} else {
		raw = rawLow
	}
	raw /= 2
	if raw < 0 {
		raw *= cfg.NegativeDampening
	}
	h := int(raw + cfg.BaseHeight)
	return mathutil.Clamp(h, 1, world.WorldHeight-2)
}

// baseTerrainPass fills stone below the computed column height and leaves
// air above it (spec §4.3 step 1).
func baseTerrainPass(ctx *Context, pos world.ChunkPos, c *world.Chunk, _ *chunkRand) {
	baseX, baseZ := pos.X*world.ChunkSize, pos.Z*world.ChunkSize
	for lx := uint8(0); lx < world.ChunkSize; lx++ {
		for lz := uint8(0); lz < world.ChunkSize; lz++ {
			h := columnHeight(ctx, baseX+int32(lx), baseZ+int32(lz))
			for y := 0; y <= h; y++ {
				c.SetBlock(lx, uint8(y), lz, world.Stone)
			}
		}
	}
}
