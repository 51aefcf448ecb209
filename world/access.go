package world

// Accessor is the minimal world-space (not chunk-local) block/light
// interface shared by the lighting propagator, the fluid simulator, the
// mesher's neighbour lookups, and the external collaborators named in spec
// §6 (get_block/set_block/get_sky_light/get_block_light). Defining it here,
// rather than in the stream package, lets every other component depend on
// world.Accessor without importing stream (which in turn depends on all of
// them): world sits at the bottom of the dependency graph, as it must since
// it owns the Chunk type itself.
type Accessor interface {
	GetBlock(x, y, z int32) uint8
	SetBlock(x, y, z int32, id uint8)
	GetSkyLight(x, y, z int32) uint8
	SetSkyLight(x, y, z int32, v uint8)
	GetBlockLight(x, y, z int32) uint8
	SetBlockLight(x, y, z int32, v uint8)
	// ChunkAt returns the resident chunk at pos, if any. Callers (light,
	// fluid, mesh) use this to mark a chunk dirty-for-mesh or
	// dirty-for-light without re-deriving the chunk position from a block
	// position they already have.
	ChunkAt(pos ChunkPos) (*Chunk, bool)
}

// ResidentAccessor implements Accessor directly on top of a ResidentSet.
// Out-of-bounds Y reads return Air and writes are ignored, per the spec §3
// invariant. A block position whose chunk is not currently resident reads
// as Air and ignores writes: the spec's "missing neighbours are treated as
// transparent/absent" rule for meshing (§4.6) is given the same treatment
// here for lighting and fluids, since none of those components have a
// resident chunk to write into anyway.
type ResidentAccessor struct {
	Set *ResidentSet
}

// NewResidentAccessor wraps rs as an Accessor.
func NewResidentAccessor(rs *ResidentSet) *ResidentAccessor {
	return &ResidentAccessor{Set: rs}
}

func (a *ResidentAccessor) chunkAndLocal(x, y, z int32) (*Chunk, uint8, uint8, uint8, bool) {
	if y < 0 || y >= WorldHeight {
		return nil, 0, 0, 0, false
	}
	pos := ChunkOf(x, z)
	c, ok := a.Set.Get(pos)
	if !ok {
		return nil, 0, 0, 0, false
	}
	return c, Local(x), uint8(y), Local(z), true
}

func (a *ResidentAccessor) GetBlock(x, y, z int32) uint8 {
	c, lx, ly, lz, ok := a.chunkAndLocal(x, y, z)
	if !ok {
		return Air
	}
	return c.GetBlock(lx, ly, lz)
}

func (a *ResidentAccessor) SetBlock(x, y, z int32, id uint8) {
	c, lx, ly, lz, ok := a.chunkAndLocal(x, y, z)
	if !ok {
		return
	}
	c.SetBlock(lx, ly, lz, id)
}

func (a *ResidentAccessor) GetSkyLight(x, y, z int32) uint8 {
	c, lx, ly, lz, ok := a.chunkAndLocal(x, y, z)
	if !ok {
		return 0
	}
	return c.GetSkyLight(lx, ly, lz)
}

func (a *ResidentAccessor) SetSkyLight(x, y, z int32, v uint8) {
	c, lx, ly, lz, ok := a.chunkAndLocal(x, y, z)
	if !ok {
		return
	}
	c.SetSkyLight(lx, ly, lz, v)
}

func (a *ResidentAccessor) GetBlockLight(x, y, z int32) uint8 {
	c, lx, ly, lz, ok := a.chunkAndLocal(x, y, z)
	if !ok {
		return 0
	}
	return c.GetBlockLight(lx, ly, lz)
}

func (a *ResidentAccessor) SetBlockLight(x, y, z int32, v uint8) {
	c, lx, ly, lz, ok := a.chunkAndLocal(x, y, z)
	if !ok {
		return
	}
	c.SetBlockLight(lx, ly, lz, v)
}

func (a *ResidentAccessor) ChunkAt(pos ChunkPos) (*Chunk, bool) {
	return a.Set.Get(pos)
}
