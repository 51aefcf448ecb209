package worldgen

import "github.com/ashgrove-voxel/worldcore/world"

// caveCarvingPass carves air into stone from CaveMinY up to
// surfaceHeight-CaveSurfaceMargin, following the multi-field ("spaghetti +
// vertical shafts") design named in spec §4.3 step 3 and spec's Open
// Questions section, in preference to the simpler single-field "cheese"
// cave pass also found in the reference repo.
func caveCarvingPass(ctx *Context, pos world.ChunkPos, c *world.Chunk, _ *chunkRand) {
	cfg := ctx.Cfg
	baseX, baseZ := pos.X*world.ChunkSize, pos.Z*world.ChunkSize

	for lx := uint8(0); lx < world.ChunkSize; lx++ {
		for lz := uint8(0); lz < world.ChunkSize; lz++ {
			top := surfaceTop(c, lx, lz)
			if top < 0 {
				continue
			}
			maxY := top - cfg.CaveSurfaceMargin
			if maxY > world.WorldHeight-1 {
				maxY = world.WorldHeight - 1
			}
			wx, wz := baseX+int32(lx), baseZ+int32(lz)

			for y := cfg.CaveMinY; y <= maxY; y++ {
				if c.GetBlock(lx, uint8(y), lz) == world.Air {
					continue
				}
				if shouldCarve(ctx, wx, y, wz, float64(top)) {
					c.SetBlock(lx, uint8(y), lz, world.Air)
				}
			}
		}
	}
}

// shouldCarve evaluates the union of spec §4.3 step 3's cave systems at a
// single world block position.
func shouldCarve(ctx *Context, wx, y, wz int, surface float64) bool {
	cfg := ctx.Cfg
	depthFactor := 0.5 + (1-float64(y)/surface)*0.5
	if depthFactor < 0 {
		depthFactor = 0
	}

	fx, fz := float64(wx)*0.02, float64(wz)*0.02
	fy := float64(y) * 0.02 * 0.7 // oblate shape per spec: "y*0.7"

	// Primary spaghetti system.
	n1 := ctx.caveA.Eval3(fx, fy, fz)
	n2 := ctx.caveB.Eval3(fx, fy, fz)
	thresh := cfg.CaveThreshold * depthFactor
	if n1*n1+n2*n2 < thresh*thresh*0.25 {
		return true
	}

	// Secondary system at 0.65x frequency.
	fx2, fz2, fy2 := fx*0.65, fz*0.65, fy*0.65
	m1 := ctx.caveA.Eval3(fx2+100, fy2, fz2+100)
	m2 := ctx.caveB.Eval3(fx2+100, fy2, fz2+100)
	if m1*m1+m2*m2 < thresh*thresh*0.25 {
		return true
	}

	// Low-frequency room noise.
	room := ctx.roomNoise.Eval3(fx*0.3, fy*0.3, fz*0.3)
	if abs(room) < 0.06*depthFactor {
		return true
	}

	// Optional vertical shafts.
	if cfg.ShaftEnabled {
		shaft := ctx.shaftNoise.Eval2(float64(wx)*0.05, float64(wz)*0.05)
		if shaft > cfg.ShaftThreshold {
			return true
		}
	}

	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
