// Package mesh implements the multi-LOD mesher (C6, spec §4.6): four tiers
// of detail selected by distance from the focal chunk, face-culled quad
// emission with ambient occlusion at the closest tier, and growable
// primitive vertex/index arrays feeding a bounded upload queue.
package mesh

import "github.com/ashgrove-voxel/worldcore/world"

// LOD tiers, in order of decreasing detail.
const (
	LOD0 = iota // per-face culled, AO, smooth per-vertex lighting
	LOD1        // same topology as LOD0, no AO, simpler lighting
	LOD2        // one quad per surface column (heightmap-style)
	LOD3        // one quad per chunk at the dominant surface elevation
)

// Distance thresholds (in chunks from the focal chunk) at which each LOD
// tier applies, per spec §4.6.
const (
	LOD0MaxDistance = 12
	LOD1MaxDistance = 14
	LOD2MaxDistance = 17
)

// SelectLOD returns the LOD tier for a chunk at the given distance (in
// chunks) from the focal point.
func SelectLOD(distance int) int {
	switch {
	case distance <= LOD0MaxDistance:
		return LOD0
	case distance <= LOD1MaxDistance:
		return LOD1
	case distance <= LOD2MaxDistance:
		return LOD2
	default:
		return LOD3
	}
}

// VertexSize is the number of float32 components packed per vertex:
// position (3), face id (1), UV (2), texture index (1), AO term (1),
// smooth sky light (1), smooth block light RGB (3) = 12 components,
// rounded up to 13 with one reserved float for a future shader attribute
// (spec §4.6 names "~13 floats per vertex" as acceptable).
const VertexSize = 13

// MeshData is one drawable primitive stream: a flat vertex float array and
// a flat triangle index array. It carries no stride field; every stream
// uses VertexSize floats per vertex. No GPU handles are attached here; the
// upload queue on the main thread owns that step.
type MeshData struct {
	Vertices []float32
	Indices  []uint32
}

// RawMeshResult is the work product of a meshing job (spec §4.6): opaque
// and transparent geometry built as two independent streams so the
// renderer can draw transparent geometry in a second, sorted pass.
type RawMeshResult struct {
	Opaque      MeshData
	Transparent MeshData
}

// faceOffsets is the 6-neighbourhood in face-emission order: +X,-X,+Y,-Y,+Z,-Z.
var faceOffsets = [6][3]int32{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// floatBuilder is a growable primitive float32 array: it starts at a fixed
// capacity and doubles on overflow, never boxing a vertex as an interface
// or struct pointer (spec §4.6: "Meshing must not allocate per-vertex
// boxed objects").
type floatBuilder struct {
	data []float32
}

func newFloatBuilder() *floatBuilder {
	return &floatBuilder{data: make([]float32, 0, 1024)}
}

func (b *floatBuilder) push(vs ...float32) {
	if len(b.data)+len(vs) > cap(b.data) {
		grown := make([]float32, len(b.data), 2*cap(b.data)+len(vs))
		copy(grown, b.data)
		b.data = grown
	}
	b.data = append(b.data, vs...)
}

// indexBuilder is the index-stream counterpart of floatBuilder.
type indexBuilder struct {
	data []uint32
}

func newIndexBuilder() *indexBuilder {
	return &indexBuilder{data: make([]uint32, 0, 1024)}
}

func (b *indexBuilder) push(vs ...uint32) {
	if len(b.data)+len(vs) > cap(b.data) {
		grown := make([]uint32, len(b.data), 2*cap(b.data)+len(vs))
		copy(grown, b.data)
		b.data = grown
	}
	b.data = append(b.data, vs...)
}

// neighbourAbsentIsTransparent reads a block from acc, treating an
// out-of-range or non-resident neighbour as Air (spec §4.6 "Failure
// semantics": missing neighbours are transparent/absent, so boundary faces
// are emitted rather than suppressed).
func neighbourAbsentIsTransparent(acc world.Accessor, x, y, z int32) uint8 {
	if y < 0 || y >= world.WorldHeight {
		return world.Air
	}
	return acc.GetBlock(x, y, z)
}
