package stream

import (
	"github.com/ashgrove-voxel/worldcore/mesh"
	"github.com/ashgrove-voxel/worldcore/world"
)

// jobKind tracks which single job may be in flight for a chunk at a time
// (spec §4.8 "Ordering guarantees": "only one of {load, generate, mesh,
// save} may be in flight at once; others wait or are dropped"). loading
// covers both the IO-pool load attempt and the gen-pool fallback it
// chains into, since from the resident map's point of view they are one
// logical job.
type jobKind int

const (
	jobNone jobKind = iota
	jobLoading
	jobMeshing
	jobSaving
)

// loadJob asks the io pool to load pos from disk, falling back to the gen
// pool on a miss. epoch is the generation epoch at dispatch time; a result
// whose epoch no longer matches the chunk's current epoch means the chunk
// was evicted while the job was in flight and must be discarded (spec §9
// "Cancellation ... per-chunk generation epoch").
type loadJob struct {
	pos   world.ChunkPos
	epoch uint64
}

type genJob struct {
	pos   world.ChunkPos
	epoch uint64
}

type meshJob struct {
	pos   world.ChunkPos
	lod   int
	epoch uint64
}

type saveJob struct {
	c *world.Chunk
}

// chunkResult is produced by either the io pool (on a load hit) or the gen
// pool (after a miss), unified since the stream manager treats the two as
// one outcome: a chunk ready to insert into the resident map.
type chunkResult struct {
	pos       world.ChunkPos
	epoch     uint64
	chunk     *world.Chunk
	generated bool
}

type meshResultMsg struct {
	pos    world.ChunkPos
	lod    int
	epoch  uint64
	result mesh.RawMeshResult
}

type saveResultMsg struct {
	pos world.ChunkPos
	err error
}
