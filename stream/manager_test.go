package stream

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ashgrove-voxel/worldcore/world"
)

type fakeGPU struct {
	mu       sync.Mutex
	created  int64
	disposed int64
	live     map[world.MeshHandle]struct{}
}

func newFakeGPU() *fakeGPU {
	return &fakeGPU{live: make(map[world.MeshHandle]struct{})}
}

func (g *fakeGPU) create(v []float32, idx []uint32, stride int) world.MeshHandle {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created++
	h := new(int)
	*h = int(g.created)
	g.live[h] = struct{}{}
	return h
}

func (g *fakeGPU) dispose(h world.MeshHandle) {
	if h == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disposed++
	delete(g.live, h)
}

func newTestManager(t *testing.T, focalX, focalZ int32) (*Manager, *fakeGPU) {
	t.Helper()
	gpu := newFakeGPU()
	dir := filepath.Join(t.TempDir(), "save")

	cfg := Config{
		Seed:         7,
		SaveDir:      dir,
		RenderRadius: 2,
		IOWorkers:    2,
		GenWorkers:   2,
		MeshWorkers:  2,
		FocalPoint: func() (float32, float32, float32) {
			return float32(focalX * world.ChunkSize), 80, float32(focalZ * world.ChunkSize)
		},
		CreateMesh:  gpu.create,
		DisposeMesh: gpu.dispose,
	}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	})
	return m, gpu
}

func tickUntil(m *Manager, cond func() bool, maxIterations int) bool {
	for i := 0; i < maxIterations; i++ {
		m.Tick()
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func TestManagerStreamsLoadsAndMeshesChunks(t *testing.T) {
	m, _ := newTestManager(t, 0, 0)

	if !tickUntil(m, func() bool { return m.ResidentCount() > 0 }, 200) {
		t.Fatal("no chunk became resident within the iteration budget")
	}
	if !tickUntil(m, func() bool { return len(m.VisibleMeshes()) > 0 }, 200) {
		t.Fatal("no mesh was uploaded within the iteration budget")
	}
	if !m.IsLoaded(0, 0) {
		t.Fatal("focal chunk (0,0) should be resident")
	}
}

func TestManagerSetBlockSchedulesMeshRebuild(t *testing.T) {
	m, gpu := newTestManager(t, 0, 0)

	if !tickUntil(m, func() bool { return len(m.VisibleMeshes()) > 0 }, 200) {
		t.Fatal("setup: no initial mesh uploaded")
	}
	gpu.mu.Lock()
	before := gpu.created
	gpu.mu.Unlock()

	m.SetBlock(0, 70, 0, world.Stone)

	if !tickUntil(m, func() bool {
		gpu.mu.Lock()
		defer gpu.mu.Unlock()
		return gpu.created > before
	}, 200) {
		t.Fatal("SetBlock did not trigger a mesh rebuild")
	}
}

func TestManagerIsLoadedFalseForUnrequestedChunk(t *testing.T) {
	m, _ := newTestManager(t, 0, 0)
	if m.IsLoaded(500, 500) {
		t.Fatal("a chunk never streamed in should not report loaded")
	}
}

func TestManagerEvictsChunksOutsideUnloadDistance(t *testing.T) {
	m, _ := newTestManager(t, 0, 0)
	if !tickUntil(m, func() bool { return m.ResidentCount() > 0 }, 200) {
		t.Fatal("setup: nothing became resident")
	}
	before := m.ResidentCount()

	// Move the focal point far away; everything previously resident is now
	// beyond unload_distance and should be evicted over subsequent ticks.
	m.cfg.FocalPoint = func() (float32, float32, float32) { return 100000, 80, 100000 }

	beyondUnload := func() int {
		n := 0
		focal := m.focalChunk()
		m.residents.Each(func(c *world.Chunk) {
			if chebyshevDist(c.Pos, focal) > m.cfg.unloadDistance() {
				n++
			}
		})
		return n
	}
	tickUntil(m, func() bool { return beyondUnload() == 0 }, 400)
	if got := beyondUnload(); got != 0 {
		t.Fatalf("resident chunks beyond unload distance after moving away = %d (resident before the move: %d), want 0", got, before)
	}
}

func TestManagerSpawnPointFindsGrassOrFallsBack(t *testing.T) {
	m, _ := newTestManager(t, 0, 0)
	x, y, z := m.SpawnPoint()
	if y < 0 || y > float64(world.WorldHeight) {
		t.Fatalf("spawn y = %v out of world bounds", y)
	}
	_ = x
	_ = z
}

func TestManagerShutdownJoinsPoolsWithoutPanicking(t *testing.T) {
	gpu := newFakeGPU()
	dir := filepath.Join(t.TempDir(), "save")
	cfg := Config{
		Seed:        1,
		SaveDir:     dir,
		CreateMesh:  gpu.create,
		DisposeMesh: gpu.dispose,
	}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m.Tick()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestNewManagerRejectsConflictingSeed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "save")
	gpu := newFakeGPU()
	cfg := Config{Seed: 1, SaveDir: dir, CreateMesh: gpu.create, DisposeMesh: gpu.dispose}

	m1, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("first NewManager: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m1.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	cfg.Seed = 2
	if _, err := NewManager(cfg); err == nil {
		t.Fatal("expected a seed-mismatch error opening the same save directory with a different seed")
	}
}
