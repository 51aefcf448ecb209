package stream

import (
	"math"

	"github.com/ashgrove-voxel/worldcore/mesh"
	"github.com/ashgrove-voxel/worldcore/world"
)

// Tick runs one iteration of the main-thread per-tick algorithm (spec
// §4.8 "Per-tick algorithm"): spiral dispatch of unresident slots, draining
// completed load/generate jobs into the resident map, draining meshes into
// the upload queue, an amortised LOD reassignment pass, eviction, and
// draining the fluid/lighting dirty sets produced since the last tick.
func (m *Manager) Tick() {
	focal := m.focalChunk()

	m.dispatchSpiralScan(focal)
	m.drainChunkResults(focal)
	m.drainAndUploadMeshes(m.cfg.UploadBudget)

	m.frame++
	if m.frame%uint64(m.cfg.LODReassignInterval) == 0 {
		m.reassignLODs(focal)
	}

	m.evictExcess(focal)
	m.drainSaveResults()

	m.drainFluidAndLightDirty()
}

func (m *Manager) focalChunk() world.ChunkPos {
	x, _, z := m.cfg.FocalPoint()
	return world.ChunkOf(int32(math.Floor(float64(x))), int32(math.Floor(float64(z))))
}

// chebyshevDist is the chunk-grid (Chebyshev) distance used throughout
// spec §4.8 for render/unload/LOD distance checks: a square ring. The
// spiral scan loads a disc (dx²+dz² <= render_radius²), which lies inside
// the square of the same radius.
func chebyshevDist(pos, focal world.ChunkPos) int {
	dx := int(pos.X - focal.X)
	dz := int(pos.Z - focal.Z)
	if dx < 0 {
		dx = -dx
	}
	if dz < 0 {
		dz = -dz
	}
	if dx > dz {
		return dx
	}
	return dz
}

// dispatchSpiralScan is spec §4.8 step 2: spiral outward from the focal
// chunk, dispatching a load-or-generate job for each unresident slot
// without one already in flight, up to a combined near+far budget per
// tick.
func (m *Manager) dispatchSpiralScan(focal world.ChunkPos) {
	budget := m.cfg.NearBudget + m.cfg.FarBudget
	dispatched := 0

	for _, off := range spiralOffsets(m.cfg.RenderRadius) {
		if dispatched >= budget {
			return
		}
		pos := world.ChunkPos{X: focal.X + off.dx, Z: focal.Z + off.dz}
		if _, ok := m.residents.Get(pos); ok {
			continue
		}

		m.mu.Lock()
		if m.inFlight[pos] != jobNone {
			m.mu.Unlock()
			continue
		}
		m.inFlight[pos] = jobLoading
		epoch := m.epochs[pos]
		m.mu.Unlock()

		select {
		case m.pools.loadJobs <- loadJob{pos: pos, epoch: epoch}:
			dispatched++
		default:
			m.mu.Lock()
			delete(m.inFlight, pos)
			m.mu.Unlock()
			m.recordCapacityPressure()
		}
	}
}

// drainChunkResults is spec §4.8 step 3: non-blocking, bounded drain of
// completed load/generate jobs.
func (m *Manager) drainChunkResults(focal world.ChunkPos) {
	for {
		select {
		case res := <-m.pools.chunkResults:
			m.handleChunkResult(res, focal)
		default:
			return
		}
	}
}

func (m *Manager) handleChunkResult(res chunkResult, focal world.ChunkPos) {
	m.mu.Lock()
	curEpoch := m.epochs[res.pos]
	delete(m.inFlight, res.pos)
	m.mu.Unlock()

	if res.epoch != curEpoch {
		// The chunk was evicted while this job was in flight; discard
		// the result without mutating shared state (spec §5 "Ordering").
		return
	}

	c := res.chunk
	c.Pos = res.pos
	m.residents.Insert(c)
	m.lightEngine.ComputeInitialSkyLight(res.pos)
	m.lightEngine.ComputeInitialBlockLight(res.pos)
	c.DirtyMesh = true
	c.LOD = mesh.SelectLOD(chebyshevDist(res.pos, focal))

	m.queueMesh(res.pos)
}

// reassignLODs is spec §4.8 step 5: recompute each resident chunk's LOD
// from its current distance, applying the hysteresis rule in lodFor, and
// queue a mesh rebuild for anything that changed.
func (m *Manager) reassignLODs(focal world.ChunkPos) {
	m.residents.Each(func(c *world.Chunk) {
		dist := chebyshevDist(c.Pos, focal)
		newLOD := lodFor(dist, c.LOD)
		if newLOD == c.LOD {
			return
		}
		c.LOD = newLOD
		m.queueMesh(c.Pos)
	})
}

// drainFluidAndLightDirty is spec §4.8 step 7: positions the fluid
// simulator changed since the last drain (and the light recomputes those
// changes require) are turned into mesh rebuilds, capped at
// cfg.DirtyMeshBudget per tick.
func (m *Manager) drainFluidAndLightDirty() {
	budget := m.cfg.DirtyMeshBudget
	queued := 0

	for _, lu := range m.fluidSim.DrainLightUpdates() {
		affected := m.lightEngine.OnBlockChanged(lu.Pos, lu.Old, lu.New)
		for _, cp := range affected {
			if queued >= budget {
				break
			}
			if m.queueMesh(cp) {
				queued++
			}
		}
	}
	for _, pos := range m.fluidSim.DrainDirtyChunks() {
		if queued >= budget {
			return
		}
		if m.queueMesh(pos) {
			queued++
		}
	}
}

// queueMesh submits a mesh job for pos at its chunk's current LOD,
// respecting the single-job-in-flight rule (spec §4.8 "Ordering
// guarantees"). It reports whether a job was actually dispatched, so
// callers that budget mesh rebuilds per tick can count only real work.
func (m *Manager) queueMesh(pos world.ChunkPos) bool {
	c, ok := m.residents.Get(pos)
	if !ok {
		return false
	}

	m.mu.Lock()
	if m.inFlight[pos] != jobNone {
		m.mu.Unlock()
		return false
	}
	m.inFlight[pos] = jobMeshing
	epoch := m.epochs[pos]
	m.mu.Unlock()

	select {
	case m.pools.meshJobs <- meshJob{pos: pos, lod: c.LOD, epoch: epoch}:
		return true
	default:
		m.mu.Lock()
		delete(m.inFlight, pos)
		m.mu.Unlock()
		m.recordCapacityPressure()
		return false
	}
}
