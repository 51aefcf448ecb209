package region

import (
	"path/filepath"
	"testing"

	"github.com/ashgrove-voxel/worldcore/world"
)

func TestOfRoundTripsWithinRegion(t *testing.T) {
	cases := []world.ChunkPos{
		{X: 0, Z: 0}, {X: 31, Z: 31}, {X: 32, Z: 0}, {X: -1, Z: -1}, {X: -33, Z: 5},
	}
	for _, cp := range cases {
		pos, slot := Of(cp)
		if slot < 0 || slot >= EntriesPerRegion {
			t.Fatalf("Of(%+v) slot %d out of range", cp, slot)
		}
		rx := pos.X*ChunksPerAxis + int32(slot%ChunksPerAxis)
		rz := pos.Z*ChunksPerAxis + int32(slot/ChunksPerAxis)
		if rx != cp.X || rz != cp.Z {
			t.Fatalf("Of(%+v) = (%+v, %d) does not reconstruct to the original position (%d,%d)", cp, pos, slot, rx, rz)
		}
	}
}

func TestChunkBlobRoundTrip(t *testing.T) {
	var blocks, light [world.ChunkVolume]byte
	blocks[0] = byte(world.Stone)
	blocks[100] = byte(world.Grass)
	light[0] = 0xF3

	raw := encodeChunkBlob(world.ChunkPos{X: 5, Z: -7}, &blocks, &light)
	pos, gotBlocks, gotLight, err := decodeChunkBlob(raw)
	if err != nil {
		t.Fatalf("decodeChunkBlob: %v", err)
	}
	if pos != (world.ChunkPos{X: 5, Z: -7}) {
		t.Fatalf("decoded position = %+v", pos)
	}
	if gotBlocks != blocks || gotLight != light {
		t.Fatal("decoded arrays do not match the originals")
	}
}

func TestChunkBlobRejectsBadMagic(t *testing.T) {
	var blocks, light [world.ChunkVolume]byte
	raw := encodeChunkBlob(world.ChunkPos{}, &blocks, &light)
	raw[0] ^= 0xFF
	if _, _, _, err := decodeChunkBlob(raw); err == nil {
		t.Fatal("expected an error for corrupted magic")
	}
}

func TestFileWriteThenReadChunk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.0.0.region")

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	c := world.NewChunk(world.ChunkPos{X: 3, Z: 4})
	c.SetBlock(1, 2, 3, world.IronOre)
	c.SetSkyLight(1, 2, 3, 12)

	if err := f.WriteChunk(c); err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}

	f2, err := Open(path)
	if err != nil {
		t.Fatalf("re-Open: %v", err)
	}
	got, ok, err := f2.ReadChunk(world.ChunkPos{X: 3, Z: 4})
	if err != nil {
		t.Fatalf("ReadChunk: %v", err)
	}
	if !ok {
		t.Fatal("expected chunk to be found")
	}
	if got.GetBlock(1, 2, 3) != world.IronOre {
		t.Fatalf("round-tripped block = %d, want IronOre", got.GetBlock(1, 2, 3))
	}
	if got.GetSkyLight(1, 2, 3) != 12 {
		t.Fatalf("round-tripped sky light = %d, want 12", got.GetSkyLight(1, 2, 3))
	}
}

func TestFileMissingChunkReadsAbsent(t *testing.T) {
	dir := t.TempDir()
	f, err := Open(filepath.Join(dir, "r.0.0.region"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, ok, err := f.ReadChunk(world.ChunkPos{X: 0, Z: 0})
	if err != nil {
		t.Fatalf("ReadChunk on empty file: %v", err)
	}
	if ok {
		t.Fatal("expected no chunk in a fresh region file")
	}
}

func TestStoreLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	pos := world.ChunkPos{X: 40, Z: -9}
	c := world.NewChunk(pos)
	c.SetBlock(0, 0, 0, world.Bedrock)

	if err := store.Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := store.Load(pos)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got.GetBlock(0, 0, 0) != world.Bedrock {
		t.Fatalf("loaded block = %d, want Bedrock", got.GetBlock(0, 0, 0))
	}
}

func TestGeneratorLockFreshThenMismatch(t *testing.T) {
	dir := t.TempDir()
	if err := OpenGeneratorLock(dir, 42); err != nil {
		t.Fatalf("fresh save should not error: %v", err)
	}
	if err := OpenGeneratorLock(dir, 42); err != nil {
		t.Fatalf("re-opening with the same seed should not error: %v", err)
	}
	if err := OpenGeneratorLock(dir, 99); err == nil {
		t.Fatal("expected a seed mismatch error")
	}
}
