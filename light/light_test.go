package light

import (
	"testing"

	"github.com/ashgrove-voxel/worldcore/world"
)

func newTestAccessor() (*world.ResidentAccessor, *world.ResidentSet) {
	rs := world.NewResidentSet(4)
	for cx := int32(-1); cx <= 1; cx++ {
		for cz := int32(-1); cz <= 1; cz++ {
			rs.Insert(world.NewChunk(world.ChunkPos{X: cx, Z: cz}))
		}
	}
	return world.NewResidentAccessor(rs), rs
}

func fillSolidBelow(acc world.Accessor, y int32) {
	for x := int32(-16); x < 16; x++ {
		for z := int32(-16); z < 16; z++ {
			for cy := int32(0); cy < y; cy++ {
				acc.SetBlock(x, cy, z, world.Stone)
			}
		}
	}
}

func TestComputeInitialSkyLightOpenColumnIsFull(t *testing.T) {
	acc, _ := newTestAccessor()
	fillSolidBelow(acc, 10)

	e := New(acc)
	e.ComputeInitialSkyLight(world.ChunkPos{X: 0, Z: 0})

	if got := acc.GetSkyLight(0, 50, 0); got != 15 {
		t.Fatalf("open-sky column sky light = %d, want 15", got)
	}
	if got := acc.GetSkyLight(0, 10, 0); got != 15 {
		t.Fatalf("sky light just above the solid floor = %d, want 15", got)
	}
	if got := acc.GetSkyLight(0, 9, 0); got != 0 {
		t.Fatalf("sky light underneath the solid floor = %d, want 0", got)
	}
}

func TestComputeInitialBlockLightSpreadsFromLava(t *testing.T) {
	acc, _ := newTestAccessor()
	acc.SetBlock(0, 20, 0, world.LavaSource)

	e := New(acc)
	e.ComputeInitialBlockLight(world.ChunkPos{X: 0, Z: 0})

	if got := acc.GetBlockLight(0, 20, 0); got != 15 {
		t.Fatalf("lava cell block light = %d, want 15", got)
	}
	if got := acc.GetBlockLight(1, 20, 0); got != 14 {
		t.Fatalf("adjacent cell block light = %d, want 14", got)
	}
}

func TestOnBlockChangedRemovingRoofExposesSkyLight(t *testing.T) {
	acc, _ := newTestAccessor()
	acc.SetBlock(0, 30, 0, world.Stone)

	e := New(acc)
	e.OnBlockChanged(world.BlockPos{X: 0, Y: 30, Z: 0}, world.Air, world.Stone)
	if got := acc.GetSkyLight(0, 30, 0); got != 0 {
		t.Fatalf("sky light under a freshly placed roof = %d, want 0", got)
	}

	acc.SetBlock(0, 30, 0, world.Air)
	e.OnBlockChanged(world.BlockPos{X: 0, Y: 30, Z: 0}, world.Stone, world.Air)
	if got := acc.GetSkyLight(0, 30, 0); got != 15 {
		t.Fatalf("sky light after removing the roof = %d, want 15", got)
	}
}

func TestOnBlockChangedPlacingRoofDarkensColumnBelow(t *testing.T) {
	acc, _ := newTestAccessor()
	fillSolidBelow(acc, 10)

	e := New(acc)
	e.ComputeInitialSkyLight(world.ChunkPos{X: 0, Z: 0})
	if got := acc.GetSkyLight(5, 30, 5); got != 15 {
		t.Fatalf("precondition: open column sky light = %d, want 15", got)
	}
	if got := acc.GetSkyLight(5, 29, 5); got != 15 {
		t.Fatalf("precondition: open column sky light one below = %d, want 15", got)
	}

	acc.SetBlock(5, 30, 5, world.Stone)
	e.OnBlockChanged(world.BlockPos{X: 5, Y: 30, Z: 5}, world.Air, world.Stone)

	if got := acc.GetSkyLight(5, 30, 5); got != 0 {
		t.Fatalf("sky light at the freshly placed block = %d, want 0", got)
	}
	if got := acc.GetSkyLight(5, 29, 5); got >= 15 {
		t.Fatalf("sky light in the column below the new roof = %d, want < 15", got)
	}
}

func TestOnBlockChangedRemovingLightSourceDarkensArea(t *testing.T) {
	acc, _ := newTestAccessor()
	acc.SetBlock(0, 20, 0, world.LavaSource)
	e := New(acc)
	e.ComputeInitialBlockLight(world.ChunkPos{X: 0, Z: 0})

	if got := acc.GetBlockLight(1, 20, 0); got != 14 {
		t.Fatalf("precondition: adjacent block light = %d, want 14", got)
	}

	acc.SetBlock(0, 20, 0, world.Air)
	e.OnBlockChanged(world.BlockPos{X: 0, Y: 20, Z: 0}, world.LavaSource, world.Air)

	if got := acc.GetBlockLight(0, 20, 0); got != 0 {
		t.Fatalf("block light at removed source = %d, want 0", got)
	}
	if got := acc.GetBlockLight(1, 20, 0); got != 0 {
		t.Fatalf("block light adjacent to removed source = %d, want 0", got)
	}
}

func TestOnBlockChangedKeepsSecondSourceAlive(t *testing.T) {
	acc, _ := newTestAccessor()
	acc.SetBlock(-2, 20, 0, world.LavaSource)
	acc.SetBlock(2, 20, 0, world.LavaSource)
	e := New(acc)
	e.ComputeInitialBlockLight(world.ChunkPos{X: 0, Z: 0})
	e.ComputeInitialBlockLight(world.ChunkPos{X: -1, Z: 0})

	acc.SetBlock(-2, 20, 0, world.Air)
	e.OnBlockChanged(world.BlockPos{X: -2, Y: 20, Z: 0}, world.LavaSource, world.Air)

	if got := acc.GetBlockLight(2, 20, 0); got != 15 {
		t.Fatalf("surviving source dimmed unexpectedly: block light = %d, want 15", got)
	}
	if got := acc.GetBlockLight(0, 20, 0); got == 0 {
		t.Fatalf("midpoint between the two sources went fully dark; the surviving source should still reach it")
	}
}
