package worldgen

import (
	"crypto/sha256"
	"testing"

	"github.com/ashgrove-voxel/worldcore/world"
)

// TestGenerateDeterministic exercises spec §8 testable property 7: for a
// fixed seed, generate_chunk(cx, cz) must produce identical bytes across
// independent runs. (A literal golden SHA-256 digest as in spec §8
// end-to-end scenario 1 needs to be captured by actually executing the
// generator once and pinning the result; since this repository is built
// without running the Go toolchain, we pin cross-run determinism here
// instead of a magic hex string nobody has verified.)
func TestGenerateDeterministic(t *testing.T) {
	ctx := NewContext(DefaultConfig(42))
	pos := world.ChunkPos{X: 0, Z: 0}

	c1 := Generate(ctx, pos)
	c2 := Generate(ctx, pos)

	b1 := c1.SnapshotBlocks()
	b2 := c2.SnapshotBlocks()
	if sha256.Sum256(b1[:]) != sha256.Sum256(b2[:]) {
		t.Fatal("Generate produced different bytes for the same seed and position across two runs")
	}
}

func TestGenerateDifferentSeedsDiverge(t *testing.T) {
	pos := world.ChunkPos{X: 0, Z: 0}
	c1 := Generate(NewContext(DefaultConfig(42)), pos)
	c2 := Generate(NewContext(DefaultConfig(43)), pos)

	b1 := c1.SnapshotBlocks()
	b2 := c2.SnapshotBlocks()
	if b1 == b2 {
		t.Fatal("different seeds produced byte-identical chunks")
	}
}

// TestGenerateHeightWithinPlausibleRange mirrors spec §8 end-to-end
// scenario 1's height bound: at local (0,0) in chunk (0,0) with seed 42,
// the surface height should land in [40, 90].
func TestGenerateHeightWithinPlausibleRange(t *testing.T) {
	ctx := NewContext(DefaultConfig(42))
	c := Generate(ctx, world.ChunkPos{X: 0, Z: 0})
	h := surfaceTop(c, 0, 0)
	if h < 40 || h > 90 {
		t.Fatalf("surface height %d outside [40, 90]", h)
	}
}

func TestGenerateBedrockFloor(t *testing.T) {
	ctx := NewContext(DefaultConfig(7))
	c := Generate(ctx, world.ChunkPos{X: 2, Z: -3})
	for x := uint8(0); x < world.ChunkSize; x++ {
		for z := uint8(0); z < world.ChunkSize; z++ {
			if got := c.GetBlock(x, 0, z); got != world.Bedrock {
				t.Fatalf("y=0 at (%d,_,%d) = %d, want Bedrock", x, z, got)
			}
		}
	}
}

func TestGenerateNoPanicAcrossManyChunks(t *testing.T) {
	ctx := NewContext(DefaultConfig(1234))
	for cx := int32(-3); cx <= 3; cx++ {
		for cz := int32(-3); cz <= 3; cz++ {
			Generate(ctx, world.ChunkPos{X: cx, Z: cz})
		}
	}
}

func TestMushroomsOnlyPlacedInShade(t *testing.T) {
	c := world.NewChunk(world.ChunkPos{X: 0, Z: 0})
	c.SetBlock(0, 10, 0, world.Grass)
	c.SetBlock(1, 10, 0, world.Grass)
	c.SetBlock(1, 14, 0, world.Leaves)

	if isShaded(c, 0, 0, 11) {
		t.Fatal("open grass top reported as shaded")
	}
	if !isShaded(c, 1, 0, 11) {
		t.Fatal("grass top under leaves not reported as shaded")
	}

	r := newChunkRand(1, world.ChunkPos{X: 0, Z: 0})
	for i := 0; i < 10000; i++ {
		decorateGrassTop(c, r, 0, 0, 10)
	}
	if got := c.GetBlock(0, 11, 0); got == world.Mushroom {
		t.Fatal("mushroom placed on an unshaded grass top")
	}
}

func TestNewContextPanicsOnMissingOres(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a Config with nil Ores")
		}
	}()
	cfg := DefaultConfig(1)
	cfg.Ores = nil
	NewContext(cfg)
}
