package mesh

import (
	"github.com/ashgrove-voxel/worldcore/world"
	"github.com/go-gl/mathgl/mgl32"
)

// BuildLOD1 meshes the same per-voxel, per-face topology as BuildLOD0 but
// without ambient occlusion and with a flat (non-smoothed) light sample
// per face rather than per vertex (spec §4.6 "LOD 1").
func BuildLOD1(acc world.Accessor, pos world.ChunkPos) RawMeshResult {
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
						emitFlatFace(opaqueV, opaqueI, acc, wx, wy, wz, fi, id)
					} else {
						if neighbour == id || world.BlockProps(neighbour).Opaque() {
							continue
						}
						emitFlatFace(transV, transI, acc, wx, wy, wz, fi, id)
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

// emitFlatFace is emitFace without the AO sampling pass: every vertex of
// the quad shares the face cell's own light value and a full (1.0)
// occlusion term.
func emitFlatFace(vb *floatBuilder, ib *indexBuilder, acc world.Accessor, x, y, z int32, faceIndex int, id uint8) {
	off := faceOffsets[faceIndex]
	fx, fy, fz := x+off[0], y+off[1], z+off[2]
	var sky, block float32
	if fy >= 0 && fy < world.WorldHeight {
		sky = float32(acc.GetSkyLight(fx, fy, fz)) / 15
		block = float32(acc.GetBlockLight(fx, fy, fz)) / 15
	}

	axes := faceAxes[faceIndex]
	base := mgl32.Vec3{float32(x), float32(y), float32(z)}.Add(axes.normal)
	start := uint32(len(vb.data) / VertexSize)
	for _, corner := range quadCorners {
		pos := base.Add(axes.u.Mul(corner[0])).Add(axes.v.Mul(corner[1]))
		vb.push(
			pos.X(), pos.Y(), pos.Z(),
			float32(faceIndex),
			corner[0], corner[1],
			float32(id),
			1,
			sky,
			block, block, block,
			0,
		)
	}
	ib.push(start, start+1, start+2, start, start+2, start+3)
}
