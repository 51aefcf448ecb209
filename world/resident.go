package world

import (
	"sync"

	"github.com/brentp/intintmap"
)

// ResidentSet is the resident chunk map described in spec §8: keyed
// exclusively on the packed 64-bit chunk key, guarded by a read-write lock
// per spec §5 ("Readers ... take shared locks; mutators ... take
// exclusive"). Lookups never allocate a ChunkPos merely to index the map
// (spec §9): the index itself is an intintmap.IntIntMap keyed on the packed
// int64 form of ChunkPos.Pack(), resolving to a dense slot in chunks.
//
// A *Chunk handle obtained under a read lock remains valid for the life of
// the caller even if the chunk is later removed: Remove only deletes the
// index entry and nils the slot, without waiting for other holders; it
// never mutates the Chunk itself.
type ResidentSet struct {
	mu     sync.RWMutex
	index  *intintmap.IntIntMap
	chunks []*Chunk
	free   []int64 // recycled slot indices
}

// NewResidentSet returns an empty resident set sized for an expected chunk
// count (a hint only; the underlying map grows as needed).
func NewResidentSet(sizeHint int) *ResidentSet {
	if sizeHint <= 0 {
		sizeHint = 1024
	}
	return &ResidentSet{
		index: intintmap.New(sizeHint, 0.75),
	}
}

// Get returns the chunk at pos, if resident.
func (r *ResidentSet) Get(pos ChunkPos) (*Chunk, bool) {
	return r.GetByKey(pos.Pack())
}

// GetByKey looks a chunk up directly by its packed key, avoiding a ChunkPos
// allocation on the hot path (get_block, is_loaded).
func (r *ResidentSet) GetByKey(key uint64) (*Chunk, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slot, ok := r.index.Get(int64(key))
	if !ok {
		return nil, false
	}
	c := r.chunks[slot]
	if c == nil {
		return nil, false
	}
	return c, true
}

// Insert adds a chunk to the resident set, replacing any existing entry at
// the same position.
func (r *ResidentSet) Insert(c *Chunk) {
	key := int64(c.Pos.Pack())
	r.mu.Lock()
	defer r.mu.Unlock()
	if slot, ok := r.index.Get(key); ok {
		r.chunks[slot] = c
		return
	}
	var slot int64
	if n := len(r.free); n > 0 {
		slot = r.free[n-1]
		r.free = r.free[:n-1]
		r.chunks[slot] = c
	} else {
		slot = int64(len(r.chunks))
		r.chunks = append(r.chunks, c)
	}
	r.index.Put(key, slot)
}

// Remove deletes a chunk from the resident set, returning it if present.
func (r *ResidentSet) Remove(pos ChunkPos) (*Chunk, bool) {
	key := int64(pos.Pack())
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.index.Get(key)
	if !ok {
		return nil, false
	}
	c := r.chunks[slot]
	r.chunks[slot] = nil
	r.free = append(r.free, slot)
	r.index.Del(key)
	return c, true
}

// Len returns the number of resident chunks.
func (r *ResidentSet) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index.Size()
}

// Each calls f for every resident chunk. f must not mutate the set.
func (r *ResidentSet) Each(f func(*Chunk)) {
	r.mu.RLock()
	keys := r.index.Keys()
	snapshot := make([]*Chunk, 0, len(keys))
	for _, k := range keys {
		slot, ok := r.index.Get(k)
		if !ok {
			continue
		}
		if c := r.chunks[slot]; c != nil {
			snapshot = append(snapshot, c)
		}
	}
	r.mu.RUnlock()
	for _, c := range snapshot {
		f(c)
	}
}

// Positions returns the packed keys of every resident chunk.
func (r *ResidentSet) Positions() []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := r.index.Keys()
	out := make([]uint64, len(keys))
	for i, k := range keys {
		out[i] = uint64(k)
	}
	return out
}
