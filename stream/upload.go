package stream

import (
	"github.com/ashgrove-voxel/worldcore/mesh"
	"github.com/ashgrove-voxel/worldcore/world"
)

// chunkMeshHandles is what a Chunk's MeshHandles slot actually holds once
// uploaded: the opaque-pass and transparent-pass GPU handles produced from
// one mesh.RawMeshResult (spec §4.6: "opaque and transparent geometry
// built as two independent streams"). MeshHandle is declared `any` in
// package world precisely so a component-specific pair like this can be
// stored in it without world needing to know about streams at all.
type chunkMeshHandles struct {
	Opaque, Transparent world.MeshHandle
}

// drainAndUploadMeshes is spec §4.8 step 4: drain completed mesh jobs and
// upload up to budget of them to the GPU via cfg.CreateMesh, replacing
// whatever handle previously occupied that chunk's LOD slot.
func (m *Manager) drainAndUploadMeshes(budget int) {
	uploaded := 0
	for uploaded < budget {
		select {
		case res := <-m.pools.meshResults:
			m.handleMeshResult(res)
			uploaded++
		default:
			return
		}
	}
}

func (m *Manager) handleMeshResult(res meshResultMsg) {
	m.mu.Lock()
	curEpoch := m.epochs[res.pos]
	delete(m.inFlight, res.pos)
	m.mu.Unlock()

	if res.epoch != curEpoch {
		return
	}
	c, ok := m.residents.Get(res.pos)
	if !ok {
		return
	}

	if old := c.MeshHandles[res.lod]; old != nil {
		if oldHandles, ok := old.(chunkMeshHandles); ok {
			m.cfg.DisposeMesh(oldHandles.Opaque)
			m.cfg.DisposeMesh(oldHandles.Transparent)
		}
	}

	var handles chunkMeshHandles
	if len(res.result.Opaque.Indices) > 0 {
		handles.Opaque = m.cfg.CreateMesh(res.result.Opaque.Vertices, res.result.Opaque.Indices, mesh.VertexSize)
	}
	if len(res.result.Transparent.Indices) > 0 {
		handles.Transparent = m.cfg.CreateMesh(res.result.Transparent.Vertices, res.result.Transparent.Indices, mesh.VertexSize)
	}
	c.MeshHandles[res.lod] = handles
	c.DirtyMesh = false
}

func disposeChunkMeshes(cfg Config, c *world.Chunk) {
	for lod, h := range c.MeshHandles {
		if h == nil {
			continue
		}
		if handles, ok := h.(chunkMeshHandles); ok {
			cfg.DisposeMesh(handles.Opaque)
			cfg.DisposeMesh(handles.Transparent)
		}
		c.MeshHandles[lod] = nil
	}
}

// Pass distinguishes which draw pass a handle returned by VisibleMeshes
// belongs to.
type Pass int

const (
	PassOpaque Pass = iota
	PassTransparent
)

// VisibleMesh is one entry of VisibleMeshes' result: a single GPU handle
// for one (chunk, LOD, pass) triple (spec §6 "iter_visible_meshes").
type VisibleMesh struct {
	Pos    world.ChunkPos
	LOD    int
	Pass   Pass
	Handle world.MeshHandle
}

// VisibleMeshes returns, for every resident chunk, one entry per pass of
// the mesh in its current LOD slot that holds a non-nil GPU handle;
// handles kept in a chunk's other LOD slots are not returned. The core does no
// frustum culling of its own — spec §6 names `camera` as an input to
// iter_visible_meshes, but culling against it is an external renderer
// concern; callers filter this slice against their own camera frustum.
func (m *Manager) VisibleMeshes() []VisibleMesh {
	var out []VisibleMesh
	m.residents.Each(func(c *world.Chunk) {
		h := c.MeshHandles[c.LOD]
		if h == nil {
			return
		}
		handles, ok := h.(chunkMeshHandles)
		if !ok {
			return
		}
		if handles.Opaque != nil {
			out = append(out, VisibleMesh{Pos: c.Pos, LOD: c.LOD, Pass: PassOpaque, Handle: handles.Opaque})
		}
		if handles.Transparent != nil {
			out = append(out, VisibleMesh{Pos: c.Pos, LOD: c.LOD, Pass: PassTransparent, Handle: handles.Transparent})
		}
	})
	return out
}
