package world

import "sync"

// MeshHandle is an opaque reference to a GPU resource. The core never
// dereferences it; it is created and destroyed by the external renderer via
// the upload queue (spec §6) and merely stored here per LOD.
type MeshHandle any

// LODCount is the number of level-of-detail tiers a Chunk can hold a mesh
// handle for (spec §4.6).
const LODCount = 4

// Chunk is the 16x128x16 column of blocks and packed light described in
// spec §3. A Chunk is exclusively owned by the resident map: workers may
// only read a snapshot of it (via SnapshotBlocks/SnapshotLight) while it is
// being generated and before it is inserted into the resident map; once
// resident, all mutation happens on the stream manager's main thread (spec
// §5).
type Chunk struct {
	Pos ChunkPos

	mu     sync.RWMutex
	blocks [ChunkVolume]uint8
	// light packs two nibbles per byte: high nibble sky light, low nibble
	// block light, both in [0,15].
	light [ChunkVolume]uint8

	// DirtyMesh is set on any block mutation since the last successful mesh
	// build, for every LOD.
	DirtyMesh bool
	// DirtyLight is set whenever a lighting recompute is pending; while
	// true, Light is not guaranteed consistent with Blocks (spec §3
	// invariants).
	DirtyLight bool
	// Modified is true from the first unsaved mutation until a persistence
	// round-trip (save) completes.
	Modified bool

	// LOD is the level of detail currently assigned to this chunk by the
	// stream manager (0..3).
	LOD int
	// MeshHandles holds one opaque GPU handle per LOD slot. A nil entry
	// means no mesh has been uploaded for that LOD yet.
	MeshHandles [LODCount]MeshHandle
}

// NewChunk returns an empty (all-air, unlit) chunk at pos.
func NewChunk(pos ChunkPos) *Chunk {
	return &Chunk{Pos: pos}
}

// GetBlock returns the block id at the given chunk-local coordinate.
// Out-of-range y returns Air per spec §3; out-of-range x/z is a programmer
// error, since every caller in this module pre-masks to chunk-local space.
func (c *Chunk) GetBlock(x, y, z uint8) uint8 {
	if int(y) >= WorldHeight {
		return Air
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[Index(x, y, z)]
}

// SetBlock writes a block id at the given chunk-local coordinate.
// Out-of-range y writes are ignored per spec §3.
func (c *Chunk) SetBlock(x, y, z uint8, id uint8) {
	if int(y) >= WorldHeight {
		return
	}
	c.mu.Lock()
	c.blocks[Index(x, y, z)] = id
	c.mu.Unlock()
}

// GetSkyLight returns the sky light component (0..15) at the given
// coordinate.
func (c *Chunk) GetSkyLight(x, y, z uint8) uint8 {
	if int(y) >= WorldHeight {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.light[Index(x, y, z)] >> 4
}

// SetSkyLight writes the sky light component, preserving the block light
// nibble already stored (spec §4.2: "packed light accessors must preserve
// the other nibble").
func (c *Chunk) SetSkyLight(x, y, z uint8, v uint8) {
	if int(y) >= WorldHeight {
		return
	}
	c.mu.Lock()
	i := Index(x, y, z)
	c.light[i] = (v&0xF)<<4 | (c.light[i] & 0x0F)
	c.mu.Unlock()
}

// GetBlockLight returns the block light component (0..15) at the given
// coordinate.
func (c *Chunk) GetBlockLight(x, y, z uint8) uint8 {
	if int(y) >= WorldHeight {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.light[Index(x, y, z)] & 0x0F
}

// SetBlockLight writes the block light component, preserving the sky light
// nibble.
func (c *Chunk) SetBlockLight(x, y, z uint8, v uint8) {
	if int(y) >= WorldHeight {
		return
	}
	c.mu.Lock()
	i := Index(x, y, z)
	c.light[i] = (c.light[i] & 0xF0) | (v & 0x0F)
	c.mu.Unlock()
}

// SnapshotBlocks returns a copy of the full block array. Used by workers
// (mesher, persistence) that must not race with concurrent main-thread
// mutation; the copy is cheap (32KB) relative to the cost of a lock held for
// the duration of a mesh build.
func (c *Chunk) SnapshotBlocks() [ChunkVolume]uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks
}

// SnapshotLight returns a copy of the full packed light array.
func (c *Chunk) SnapshotLight() [ChunkVolume]uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.light
}

// FillBlocks overwrites the entire block array, used when deserialising a
// chunk from disk (spec §4.2).
func (c *Chunk) FillBlocks(b *[ChunkVolume]uint8) {
	c.mu.Lock()
	c.blocks = *b
	c.mu.Unlock()
}

// FillLight overwrites the entire packed light array.
func (c *Chunk) FillLight(l *[ChunkVolume]uint8) {
	c.mu.Lock()
	c.light = *l
	c.mu.Unlock()
}
