package world

import "testing"

func TestChunkOutOfBoundsYReadsAir(t *testing.T) {
	c := NewChunk(ChunkPos{0, 0})
	if got := c.GetBlock(0, 200, 0); got != Air {
		t.Fatalf("out-of-bounds Y read = %d, want Air", got)
	}
}

func TestChunkOutOfBoundsYWriteIgnored(t *testing.T) {
	c := NewChunk(ChunkPos{0, 0})
	c.SetBlock(0, 200, 0, Stone)
	if got := c.GetBlock(0, 200, 0); got != Air {
		t.Fatalf("out-of-bounds Y write should be ignored, got %d", got)
	}
}

func TestChunkBlockRoundTrip(t *testing.T) {
	c := NewChunk(ChunkPos{0, 0})
	c.SetBlock(5, 64, 9, Stone)
	if got := c.GetBlock(5, 64, 9); got != Stone {
		t.Fatalf("GetBlock = %d, want Stone", got)
	}
	if got := c.GetBlock(5, 63, 9); got != Air {
		t.Fatalf("neighbouring cell should remain air, got %d", got)
	}
}

func TestChunkLightNibblesIndependent(t *testing.T) {
	c := NewChunk(ChunkPos{0, 0})
	c.SetSkyLight(1, 1, 1, 15)
	c.SetBlockLight(1, 1, 1, 7)
	if got := c.GetSkyLight(1, 1, 1); got != 15 {
		t.Fatalf("sky light = %d, want 15", got)
	}
	if got := c.GetBlockLight(1, 1, 1); got != 7 {
		t.Fatalf("block light = %d, want 7", got)
	}
	// Overwriting one nibble must not disturb the other.
	c.SetSkyLight(1, 1, 1, 3)
	if got := c.GetBlockLight(1, 1, 1); got != 7 {
		t.Fatalf("block light nibble was clobbered by sky light write: got %d", got)
	}
}

func TestChunkSnapshotAndFillRoundTrip(t *testing.T) {
	c := NewChunk(ChunkPos{0, 0})
	c.SetBlock(0, 0, 0, Bedrock)
	c.SetBlock(1, 64, 1, WaterSource)

	blocks := c.SnapshotBlocks()
	light := c.SnapshotLight()

	c2 := NewChunk(ChunkPos{0, 0})
	c2.FillBlocks(&blocks)
	c2.FillLight(&light)

	if got := c2.GetBlock(0, 0, 0); got != Bedrock {
		t.Fatalf("FillBlocks round trip: got %d, want Bedrock", got)
	}
	if got := c2.GetBlock(1, 64, 1); got != WaterSource {
		t.Fatalf("FillBlocks round trip: got %d, want WaterSource", got)
	}
}
