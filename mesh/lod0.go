package mesh

import (
	"github.com/ashgrove-voxel/worldcore/world"
	"github.com/go-gl/mathgl/mgl32"
)

// faceAxes gives, for each entry of faceOffsets, the two in-plane unit
// axes (u, v) spanning the quad, and the cube-corner offset along the
// face's own normal (0 for the negative faces, 1 for the positive ones).
var faceAxes = [6]struct {
	u, v   mgl32.Vec3
	normal mgl32.Vec3
}{
	{u: mgl32.Vec3{0, 1, 0}, v: mgl32.Vec3{0, 0, 1}, normal: mgl32.Vec3{1, 0, 0}}, // +X
	{u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{0, 1, 0}, normal: mgl32.Vec3{0, 0, 0}}, // -X
	{u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, 1}, normal: mgl32.Vec3{0, 1, 0}}, // +Y
	{u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{1, 0, 0}, normal: mgl32.Vec3{0, 0, 0}}, // -Y
	{u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 1, 0}, normal: mgl32.Vec3{0, 0, 1}}, // +Z
	{u: mgl32.Vec3{0, 1, 0}, v: mgl32.Vec3{1, 0, 0}, normal: mgl32.Vec3{0, 0, 0}}, // -Z
}

var quadCorners = [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// BuildLOD0 meshes the chunk at pos with per-face culling, ambient
// occlusion and smooth per-vertex lighting (spec §4.6 "LOD 0 face
// emission"). acc is used for every neighbour lookup so faces on chunk
// boundaries see the real neighbouring chunk when resident.
func BuildLOD0(acc world.Accessor, pos world.ChunkPos) RawMeshResult {
	opaqueV, opaqueI := newFloatBuilder(), newIndexBuilder()
	transV, transI := newFloatBuilder(), newIndexBuilder()

	baseX, baseZ := pos.X*world.ChunkSize, pos.Z*world.ChunkSize

	for lx := int32(0); lx < world.ChunkSize; lx++ {
		for ly := int32(0); ly < world.WorldHeight; ly++ {
			for lz := int32(0); lz < world.ChunkSize; lz++ {
				wx, wy, wz := baseX+lx, ly, baseZ+lz
				id := acc.GetBlock(wx, wy, wz)
				if id == world.Air {
					continue
				}
				props := world.BlockProps(id)

				for fi, off := range faceOffsets {
					nx, ny, nz := wx+off[0], wy+off[1], wz+off[2]
					neighbour := neighbourAbsentIsTransparent(acc, nx, ny, nz)

					if props.Opaque() {
						if world.BlockProps(neighbour).Opaque() {
							continue
						}
						emitFace(opaqueV, opaqueI, acc, wx, wy, wz, fi, id)
					} else {
						if neighbour == id {
							continue // self-culling between identical transparent blocks
						}
						if world.BlockProps(neighbour).Opaque() {
							continue
						}
						emitFace(transV, transI, acc, wx, wy, wz, fi, id)
					}
				}
			}
		}
	}

	return RawMeshResult{
		Opaque:      MeshData{Vertices: opaqueV.data, Indices: opaqueI.data},
		Transparent: MeshData{Vertices: transV.data, Indices: transI.data},
	}
}

// emitFace builds one quad's 4 vertices (with AO) and 6 indices (two
// triangles) into the given builders.
func emitFace(vb *floatBuilder, ib *indexBuilder, acc world.Accessor, x, y, z int32, faceIndex int, id uint8) {
	axes := faceAxes[faceIndex]
	base := mgl32.Vec3{float32(x), float32(y), float32(z)}.Add(axes.normal)
	off := faceOffsets[faceIndex]
	cell := mgl32.Vec3{float32(x + off[0]), float32(y + off[1]), float32(z + off[2])}

	start := uint32(len(vb.data) / VertexSize)
	for _, corner := range quadCorners {
		du, dv := signed(corner[0]), signed(corner[1])
		pos := base.Add(axes.u.Mul(corner[0])).Add(axes.v.Mul(corner[1]))

		side1X, side1Y, side1Z := addAxis(cell, axes.u, du)
		side2X, side2Y, side2Z := addAxis(cell, axes.v, dv)
		cornerX, cornerY, cornerZ := addAxis2(cell, axes.u, du, axes.v, dv)

		s1 := world.BlockProps(neighbourAbsentIsTransparent(acc, int32(side1X), int32(side1Y), int32(side1Z))).Opaque()
		s2 := world.BlockProps(neighbourAbsentIsTransparent(acc, int32(side2X), int32(side2Y), int32(side2Z))).Opaque()
		cn := world.BlockProps(neighbourAbsentIsTransparent(acc, int32(cornerX), int32(cornerY), int32(cornerZ))).Opaque()
		ao := vertexAO(s1, s2, cn)

		sky, blockLight := sampleVertexLight(acc, cell, side1X, side1Y, side1Z, side2X, side2Y, side2Z, cornerX, cornerY, cornerZ)

		vb.push(
			pos.X(), pos.Y(), pos.Z(),
			float32(faceIndex),
			corner[0], corner[1],
			float32(id),
			float32(ao)/3,
			sky,
			blockLight, blockLight, blockLight,
			0,
		)
	}

	ib.push(start, start+1, start+2, start, start+2, start+3)
}

func signed(c float32) float32 {
	if c == 0 {
		return -1
	}
	return 1
}

func addAxis(base mgl32.Vec3, axis mgl32.Vec3, sign float32) (float32, float32, float32) {
	v := base.Add(axis.Mul(sign))
	return v.X(), v.Y(), v.Z()
}

func addAxis2(base mgl32.Vec3, u mgl32.Vec3, su float32, v mgl32.Vec3, sv float32) (float32, float32, float32) {
	r := base.Add(u.Mul(su)).Add(v.Mul(sv))
	return r.X(), r.Y(), r.Z()
}

// vertexAO is the standard 0..3 voxel ambient-occlusion term: a vertex
// wedged between two occluded side cells is fully occluded regardless of
// the corner cell.
func vertexAO(side1, side2, corner bool) int {
	if side1 && side2 {
		return 0
	}
	n := 0
	if side1 {
		n++
	}
	if side2 {
		n++
	}
	if corner {
		n++
	}
	return 3 - n
}

// sampleVertexLight averages sky and block light across the face cell and
// its three AO neighbours, giving the smooth per-vertex lighting spec
// §4.6 calls for.
func sampleVertexLight(acc world.Accessor, base mgl32.Vec3, x1, y1, z1, x2, y2, z2, x3, y3, z3 float32) (float32, float32) {
	cells := [4][3]int32{
		{int32(base.X()), int32(base.Y()), int32(base.Z())},
		{int32(x1), int32(y1), int32(z1)},
		{int32(x2), int32(y2), int32(z2)},
		{int32(x3), int32(y3), int32(z3)},
	}
	var sky, block float32
	for _, c := range cells {
		if c[1] < 0 || c[1] >= world.WorldHeight {
			continue
		}
		sky += float32(acc.GetSkyLight(c[0], c[1], c[2]))
		block += float32(acc.GetBlockLight(c[0], c[1], c[2]))
	}
	return sky / 4 / 15, block / 4 / 15
}
