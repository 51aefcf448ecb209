package mesh

import (
	"testing"

	"github.com/ashgrove-voxel/worldcore/world"
)

func newFlatWorld() *world.ResidentAccessor {
	rs := world.NewResidentSet(9)
	for cx := int32(-1); cx <= 1; cx++ {
		for cz := int32(-1); cz <= 1; cz++ {
			rs.Insert(world.NewChunk(world.ChunkPos{X: cx, Z: cz}))
		}
	}
	acc := world.NewResidentAccessor(rs)
	for x := int32(-16); x < 32; x++ {
		for z := int32(-16); z < 32; z++ {
			for y := int32(0); y < 4; y++ {
				acc.SetBlock(x, y, z, world.Stone)
			}
			acc.SetBlock(x, 4, z, world.Grass)
		}
	}
	return acc
}

func TestSelectLOD(t *testing.T) {
	cases := []struct {
		dist int
		want int
	}{
		{0, LOD0}, {12, LOD0}, {13, LOD1}, {14, LOD1}, {15, LOD2}, {17, LOD2}, {18, LOD3}, {100, LOD3},
	}
	for _, c := range cases {
		if got := SelectLOD(c.dist); got != c.want {
			t.Errorf("SelectLOD(%d) = %d, want %d", c.dist, got, c.want)
		}
	}
}

func TestBuildLOD0ProducesTopFaceOnFlatGround(t *testing.T) {
	acc := newFlatWorld()
	result := BuildLOD0(acc, world.ChunkPos{X: 0, Z: 0})

	if len(result.Opaque.Vertices) == 0 {
		t.Fatal("expected opaque vertices for a flat solid chunk")
	}
	if len(result.Opaque.Indices)%6 != 0 {
		t.Fatalf("index count %d is not a multiple of 6 (2 triangles per quad)", len(result.Opaque.Indices))
	}
	if len(result.Opaque.Vertices)%VertexSize != 0 {
		t.Fatalf("vertex float count %d is not a multiple of VertexSize %d", len(result.Opaque.Vertices), VertexSize)
	}
}

func TestBuildLOD0NoFacesInsideSolidInterior(t *testing.T) {
	acc := newFlatWorld()
	// y=1 is surrounded above and below by stone; no faces should be
	// emitted purely from the interior of the slab.
	result := BuildLOD0(acc, world.ChunkPos{X: 0, Z: 0})
	quads := len(result.Opaque.Indices) / 6
	if quads == 0 {
		t.Fatal("expected at least the top surface quads")
	}
	for i := 0; i+1 < len(result.Opaque.Vertices); i += VertexSize {
		if y := result.Opaque.Vertices[i+1]; y != 0 && y != 5 {
			t.Fatalf("vertex at y=%v: a face was emitted inside the solid slab", y)
		}
	}
}

func TestBuildLOD2OneQuadPerColumn(t *testing.T) {
	acc := newFlatWorld()
	result := BuildLOD2(acc, world.ChunkPos{X: 0, Z: 0})
	wantQuads := world.ChunkSize * world.ChunkSize
	gotQuads := len(result.Opaque.Indices) / 6
	if gotQuads != wantQuads {
		t.Fatalf("LOD2 quad count = %d, want %d", gotQuads, wantQuads)
	}
}

func TestBuildLOD3SingleQuad(t *testing.T) {
	acc := newFlatWorld()
	result := BuildLOD3(acc, world.ChunkPos{X: 0, Z: 0})
	if len(result.Opaque.Indices) != 6 {
		t.Fatalf("LOD3 index count = %d, want 6 (one quad)", len(result.Opaque.Indices))
	}
}

func TestBuildDispatchesByTier(t *testing.T) {
	acc := newFlatWorld()
	pos := world.ChunkPos{X: 0, Z: 0}
	if got := Build(LOD3, acc, pos); len(got.Opaque.Indices) != 6 {
		t.Fatalf("Build(LOD3, ...) index count = %d, want 6", len(got.Opaque.Indices))
	}
}

func TestVertexAO(t *testing.T) {
	if vertexAO(true, true, false) != 0 {
		t.Fatal("two occluded sides must fully occlude regardless of corner")
	}
	if vertexAO(false, false, false) != 3 {
		t.Fatal("no occluders must leave full brightness")
	}
	if vertexAO(false, false, true) != 2 {
		t.Fatal("a lone occluded corner should drop the AO term by one")
	}
}
