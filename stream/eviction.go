package stream

import "github.com/ashgrove-voxel/worldcore/world"

// evictExcess is spec §4.8 step 6: evict any resident chunk beyond
// unload_distance, and if the resident count still exceeds
// MaxLoadedChunks, evict the farthest remaining chunks until it no longer
// does.
func (m *Manager) evictExcess(focal world.ChunkPos) {
	unloadDist := m.cfg.unloadDistance()

	var all []candidate
	var beyondUnloadDist []world.ChunkPos
	m.residents.Each(func(c *world.Chunk) {
		dist := chebyshevDist(c.Pos, focal)
		all = append(all, candidate{pos: c.Pos, dist: dist})
		if dist > unloadDist {
			beyondUnloadDist = append(beyondUnloadDist, c.Pos)
		}
	})

	evicted := make(map[world.ChunkPos]struct{}, len(beyondUnloadDist))
	for _, pos := range beyondUnloadDist {
		evicted[pos] = struct{}{}
		m.evict(pos)
	}

	overCap := len(all) - len(evicted) - m.cfg.MaxLoadedChunks
	if overCap <= 0 {
		return
	}
	sortCandidatesByDistDesc(all)
	for _, cand := range all {
		if overCap <= 0 {
			return
		}
		if _, done := evicted[cand.pos]; done {
			continue
		}
		evicted[cand.pos] = struct{}{}
		m.evict(cand.pos)
		overCap--
	}
}

// candidate pairs a resident chunk's position with its Chebyshev distance
// from the focal point, for the farthest-first eviction ordering below.
type candidate struct {
	pos  world.ChunkPos
	dist int
}

func sortCandidatesByDistDesc(s []candidate) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j].dist < v.dist {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}

// evict begins removing pos from the resident set: immediately if
// unmodified, or via a save job first if modified (spec §4.8 step 6: "If
// modified, a save job must precede actual removal; the chunk is kept in
// a 'saving' state until the save completes").
func (m *Manager) evict(pos world.ChunkPos) {
	c, ok := m.residents.Get(pos)
	if !ok {
		return
	}

	m.mu.Lock()
	if m.inFlight[pos] != jobNone {
		m.mu.Unlock()
		return
	}

	if !c.Modified {
		m.mu.Unlock()
		m.removeResident(pos, c)
		return
	}

	m.inFlight[pos] = jobSaving
	m.pendingEviction[pos] = struct{}{}
	m.mu.Unlock()

	select {
	case m.pools.saveJobs <- saveJob{c: c}:
	default:
		m.mu.Lock()
		delete(m.inFlight, pos)
		delete(m.pendingEviction, pos)
		m.mu.Unlock()
		m.recordCapacityPressure()
	}
}

// removeResident deletes pos from the resident map, disposes any GPU
// handles it held, and bumps its generation epoch so any job still in
// flight for it (there should be none by construction, but a defensive
// bump costs nothing) is recognised as stale on completion.
func (m *Manager) removeResident(pos world.ChunkPos, c *world.Chunk) {
	m.residents.Remove(pos)
	disposeChunkMeshes(m.cfg, c)

	m.mu.Lock()
	m.epochs[pos]++
	delete(m.inFlight, pos)
	delete(m.pendingEviction, pos)
	m.mu.Unlock()
}

// drainSaveResults is the completion side of evict's save-before-remove
// rule, run once per tick as part of step 6.
func (m *Manager) drainSaveResults() {
	for {
		select {
		case res := <-m.pools.saveResults:
			m.handleSaveResult(res)
		default:
			return
		}
	}
}

func (m *Manager) handleSaveResult(res saveResultMsg) {
	c, ok := m.residents.Get(res.pos)

	m.mu.Lock()
	_, pendingEvict := m.pendingEviction[res.pos]
	delete(m.inFlight, res.pos)
	delete(m.pendingEviction, res.pos)
	m.mu.Unlock()

	if res.err != nil {
		// IoError policy (spec §7): surfaced, the chunk stays modified
		// and is retried at the next eviction attempt or at shutdown.
		m.log.Error("save chunk failed", "X", res.pos.X, "Z", res.pos.Z, "error", res.err)
		return
	}
	if !ok {
		return
	}
	c.Modified = false
	if pendingEvict {
		m.removeResident(res.pos, c)
	}
}
