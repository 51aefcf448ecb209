package light

import "github.com/ashgrove-voxel/worldcore/world"

// Engine runs the lighting algorithms against a world.Accessor. It holds no
// state of its own: all light values live in the resident chunks reachable
// through acc.
type Engine struct {
	Accessor world.Accessor
}

// New returns a lighting Engine bound to acc.
func New(acc world.Accessor) *Engine {
	return &Engine{Accessor: acc}
}

// ComputeInitialSkyLight casts sky light down every column of the freshly
// generated chunk at pos: for each (x, z), walk down from the world
// ceiling setting 15 until the first opaque block, then BFS-flood outward
// from every seeded cell (spec §4.4, "Initial sky light for a fresh
// chunk"). It returns every chunk position touched, including neighbours
// the flood spilled into.
func (e *Engine) ComputeInitialSkyLight(pos world.ChunkPos) []world.ChunkPos {
	affected := newAffectedSet()
	baseX, baseZ := pos.X*world.ChunkSize, pos.Z*world.ChunkSize
	var seeds []node

	for lx := int32(0); lx < world.ChunkSize; lx++ {
		for lz := int32(0); lz < world.ChunkSize; lz++ {
			wx, wz := baseX+lx, baseZ+lz
			for y := int32(world.WorldHeight - 1); y >= 0; y-- {
				if world.BlockProps(e.Accessor.GetBlock(wx, y, wz)).Opaque() {
					break
				}
				e.Accessor.SetSkyLight(wx, y, wz, 15)
				seeds = append(seeds, node{wx, y, wz, 15})
			}
		}
	}
	affected.markPos(e.Accessor, baseX, baseZ)
	floodAdd(e.Accessor, skyChannel, seeds, affected)
	return affected.list
}

// ComputeInitialBlockLight seeds every emissive block in the chunk at pos
// and BFS-floods block light outward (spec §4.4, "Initial block light for
// a fresh chunk").
func (e *Engine) ComputeInitialBlockLight(pos world.ChunkPos) []world.ChunkPos {
	affected := newAffectedSet()
	baseX, baseZ := pos.X*world.ChunkSize, pos.Z*world.ChunkSize
	var seeds []node

	for lx := int32(0); lx < world.ChunkSize; lx++ {
		for lz := int32(0); lz < world.ChunkSize; lz++ {
			wx, wz := baseX+lx, baseZ+lz
			for y := int32(0); y < world.WorldHeight; y++ {
				em := world.Emission(e.Accessor.GetBlock(wx, y, wz))
				if em == 0 {
					continue
				}
				e.Accessor.SetBlockLight(wx, y, wz, em)
				seeds = append(seeds, node{wx, y, wz, em})
			}
		}
	}
	affected.markPos(e.Accessor, baseX, baseZ)
	floodAdd(e.Accessor, blockChannel, seeds, affected)
	return affected.list
}

// OnBlockChanged runs the incremental lighting update for a single block
// edit at bp, where oldID is being replaced by newID (spec §4.4,
// "Incremental update on block removal/placement"). Both the sky-light and
// block-light channels are updated independently: sky light reacts to an
// opacity change, block light reacts to an emission change or an opacity
// change that newly blocks an existing source. It returns the union of
// chunk positions touched by either channel, for the caller (the stream
// manager's edit path, spec §6) to schedule mesh rebuilds against.
func (e *Engine) OnBlockChanged(bp world.BlockPos, oldID, newID uint8) []world.ChunkPos {
	affected := newAffectedSet()
	x, y, z := bp.X, bp.Y, bp.Z

	oldOpaque := world.IsOpaque(oldID)
	newOpaque := world.IsOpaque(newID)

	switch {
	case oldOpaque && !newOpaque:
		e.exposeSkyLight(x, y, z, affected)
	case !oldOpaque && newOpaque:
		e.blockSkyLight(x, y, z, affected)
	}

	oldEm, newEm := world.Emission(oldID), world.Emission(newID)
	switch {
	case newEm > oldEm:
		e.Accessor.SetBlockLight(x, y, z, newEm)
		floodAdd(e.Accessor, blockChannel, []node{{x, y, z, newEm}}, affected)
	case newEm < oldEm || (oldOpaque != newOpaque && newOpaque):
		floodRemove(e.Accessor, blockChannel, []node{{x, y, z, e.Accessor.GetBlockLight(x, y, z)}}, affected)
	case !oldOpaque != !newOpaque && oldOpaque:
		// Became transparent: let existing neighbours re-flood through it.
		e.reseedFromNeighbours(blockChannel, x, y, z, affected)
	}

	affected.markPos(e.Accessor, x, z)
	return affected.list
}

// exposeSkyLight handles a block at (x, y, z) turning from opaque to
// transparent: the cell, and the open column below it down to the next
// opaque block if it is a sun column, receive sky light; everything else
// is reseeded from its brightest remaining neighbour.
func (e *Engine) exposeSkyLight(x, y, z int32, affected *affectedSet) {
	var seeds []node
	if isSunColumn(e.Accessor, x, y, z) {
		for cy := y; cy >= 0; cy-- {
			if world.BlockProps(e.Accessor.GetBlock(x, cy, z)).Opaque() {
				break
			}
			e.Accessor.SetSkyLight(x, cy, z, 15)
			seeds = append(seeds, node{x, cy, z, 15})
		}
	} else {
		e.reseedFromNeighbours(skyChannel, x, y, z, affected)
		return
	}
	floodAdd(e.Accessor, skyChannel, seeds, affected)
}

// blockSkyLight handles a block at (x, y, z) turning from transparent to
// opaque: whatever sky light it held is removed via the two-phase
// algorithm. If the column was a sun column before the placement (the
// newly placed block is the first opaque cell seen looking up), every
// cell below it down to the next opaque block was also sky-lit straight
// through at full strength and must be zeroed and seeded into the same
// removal pass, not just the placed cell itself (spec §4.4).
func (e *Engine) blockSkyLight(x, y, z int32, affected *affectedSet) {
	prior := e.Accessor.GetSkyLight(x, y, z)
	if prior == 0 {
		return
	}

	removed := []node{{x, y, z, prior}}
	if isSunColumn(e.Accessor, x, y, z) {
		for cy := y - 1; cy >= 0; cy-- {
			if world.BlockProps(e.Accessor.GetBlock(x, cy, z)).Opaque() {
				break
			}
			removed = append(removed, node{x, cy, z, e.Accessor.GetSkyLight(x, cy, z)})
		}
	}
	floodRemove(e.Accessor, skyChannel, removed, affected)
}

// reseedFromNeighbours recomputes (x, y, z)'s light on the given channel
// from its brightest neighbour and floods outward from there; used when a
// cell's own opacity changed but it is not a sun column, so there is no
// direct light source to seed from other than what its neighbours already
// carry.
func (e *Engine) reseedFromNeighbours(ch channel, x, y, z int32, affected *affectedSet) {
	best := uint8(0)
	for _, off := range neighbourOffsets {
		nx, ny, nz := x+off[0], y+off[1], z+off[2]
		if ny < 0 || ny >= world.WorldHeight {
			continue
		}
		if v := getLight(e.Accessor, ch, nx, ny, nz); v > best {
			best = v
		}
	}
	if best <= 1 {
		return
	}
	newLevel := best - 1
	if newLevel <= getLight(e.Accessor, ch, x, y, z) {
		return
	}
	setLight(e.Accessor, ch, x, y, z, newLevel)
	affected.markPos(e.Accessor, x, z)
	floodAdd(e.Accessor, ch, []node{{x, y, z, newLevel}}, affected)
}
