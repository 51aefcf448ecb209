// Package stream implements the stream manager (C8, spec §4.8): the
// central coordinator owning the resident chunk map, the io/gen/mesh
// worker pools, the upload queue, eviction, and the player edit path. It
// is the one package that imports every other component package, sitting
// at the top of the dependency graph the way server.Server sits atop
// server/world in the teacher.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ashgrove-voxel/worldcore/fluid"
	"github.com/ashgrove-voxel/worldcore/light"
	"github.com/ashgrove-voxel/worldcore/region"
	"github.com/ashgrove-voxel/worldcore/world"
	"github.com/ashgrove-voxel/worldcore/worldgen"
)

// Manager is the stream manager described in spec §4.8. Main-thread
// methods (Tick, SetBlock, the Get* accessors) are not safe to call
// concurrently with each other; they are all meant to run on the single
// orchestrating goroutine spec §5 describes. FluidTick is likewise
// main-thread-only, driven by the external 20 Hz clock_tick signal (spec
// §6). Worker-pool goroutines only ever touch chunks through
// world.Accessor, never the Manager's own bookkeeping.
type Manager struct {
	cfg Config
	log *slog.Logger

	residents *world.ResidentSet
	accessor  world.Accessor

	lightEngine *light.Engine
	fluidSim    *fluid.Simulator
	store       *region.Store
	genCtx      *worldgen.Context
	pools       *pools

	// mu guards epochs, inFlight and pendingEviction: bookkeeping about
	// jobs in flight, not the resident chunks themselves (those are
	// guarded by ResidentSet's own lock, per spec §5's "shared-resource
	// policy").
	mu              sync.Mutex
	epochs          map[world.ChunkPos]uint64
	inFlight        map[world.ChunkPos]jobKind
	pendingEviction map[world.ChunkPos]struct{}

	frame uint64

	capacityPressure    atomic.Uint64
	lastPressureLogNano atomic.Int64

	shuttingDown atomic.Bool
}

// NewManager builds a Manager from cfg: it opens (or creates) the
// generator lock in cfg.SaveDir, then starts the three worker pools. An
// error here is fatal to startup (spec §7 "SeedMismatch": "refused to
// open with conflicting seed").
func NewManager(cfg Config) (*Manager, error) {
	cfg = cfg.New()

	if err := region.OpenGeneratorLock(cfg.SaveDir, int64(cfg.Seed)); err != nil {
		return nil, fmt.Errorf("stream: open save directory: %w", err)
	}

	residents := world.NewResidentSet(cfg.MaxLoadedChunks)
	accessor := world.NewResidentAccessor(residents)
	store := region.NewStore(cfg.SaveDir)
	genCtx := worldgen.NewContext(worldgen.DefaultConfig(cfg.Seed))

	p := newPools(cfg, store, genCtx)
	p.sharedAccessor = accessor
	p.start(cfg.IOWorkers, cfg.GenWorkers, cfg.MeshWorkers)

	return &Manager{
		cfg:             cfg,
		log:             cfg.Log,
		residents:       residents,
		accessor:        accessor,
		lightEngine:     light.New(accessor),
		fluidSim:        fluid.NewSimulator(accessor),
		store:           store,
		genCtx:          genCtx,
		pools:           p,
		epochs:          make(map[world.ChunkPos]uint64),
		inFlight:        make(map[world.ChunkPos]jobKind),
		pendingEviction: make(map[world.ChunkPos]struct{}),
	}, nil
}

// GetBlock returns the block id at a world position (spec §6 "get_block").
func (m *Manager) GetBlock(x, y, z int32) uint8 { return m.accessor.GetBlock(x, y, z) }

// GetSkyLight returns the sky light component at a world position.
func (m *Manager) GetSkyLight(x, y, z int32) uint8 { return m.accessor.GetSkyLight(x, y, z) }

// GetBlockLight returns the block light component at a world position.
func (m *Manager) GetBlockLight(x, y, z int32) uint8 { return m.accessor.GetBlockLight(x, y, z) }

// IsLoaded reports whether the chunk at (cx, cz) is currently resident
// (spec §6 "is_loaded").
func (m *Manager) IsLoaded(cx, cz int32) bool {
	_, ok := m.residents.Get(world.ChunkPos{X: cx, Z: cz})
	return ok
}

// ResidentCount returns the number of currently resident chunks.
func (m *Manager) ResidentCount() int { return m.residents.Len() }

// SetBlock is the external edit path (spec §4.8 "Edit path"): it updates
// the block, runs the incremental lighting algorithm, notifies the fluid
// simulator, and schedules mesh rebuilds for the owning chunk and every
// chunk the lighting update touched.
func (m *Manager) SetBlock(x, y, z int32, id uint8) {
	old := m.accessor.GetBlock(x, y, z)
	if old == id {
		return
	}
	m.accessor.SetBlock(x, y, z, id)

	pos := world.ChunkOf(x, z)
	if c, ok := m.residents.Get(pos); ok {
		c.Modified = true
		c.DirtyMesh = true
	}

	affected := m.lightEngine.OnBlockChanged(world.BlockPos{X: x, Y: y, Z: z}, old, id)
	m.fluidSim.OnBlockChanged(x, y, z)

	m.queueMesh(pos)
	for _, cp := range affected {
		m.queueMesh(cp)
	}
}

// FluidTick advances the fluid simulator by one simulation tick, driven
// by the external 20 Hz clock_tick signal (spec §6). The chunks and
// positions it dirties are picked up by the next Tick's step 7.
func (m *Manager) FluidTick() {
	m.fluidSim.Step()
}

func (m *Manager) recordCapacityPressure() {
	count := m.capacityPressure.Add(1)
	now := time.Now().UnixNano()
	last := m.lastPressureLogNano.Load()
	if last != 0 && time.Duration(now-last) < time.Minute {
		return
	}
	if !m.lastPressureLogNano.CompareAndSwap(last, now) {
		return
	}
	m.log.Warn("stream manager under capacity pressure: dropping newest low-priority work",
		"dropped_total", count, "error", ErrCapacityPressure)
}

// SaveAll drains in-flight saves and force-saves every remaining modified
// resident chunk, without touching the worker pools: an operator-triggered
// checkpoint (console "save") that the stream keeps running after.
func (m *Manager) SaveAll(ctx context.Context) error {
	m.waitInFlightSaves(ctx)

	var awaiting int
	m.residents.Each(func(c *world.Chunk) {
		if !c.Modified {
			return
		}
		select {
		case m.pools.saveJobs <- saveJob{c: c}:
			awaiting++
		case <-ctx.Done():
		}
	})
	for i := 0; i < awaiting; i++ {
		select {
		case res := <-m.pools.saveResults:
			m.handleSaveResult(res)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Shutdown force-saves every remaining modified chunk via SaveAll, then
// cancels and joins the worker pools: generation and meshing jobs in
// flight are abandoned (their results, if any, are never drained once the
// pool context is cancelled), matching spec §4.8's "Shutdown" policy.
func (m *Manager) Shutdown(ctx context.Context) error {
	if !m.shuttingDown.CompareAndSwap(false, true) {
		return ErrShuttingDown
	}
	if err := m.SaveAll(ctx); err != nil {
		return err
	}
	return m.pools.shutdown()
}

func (m *Manager) waitInFlightSaves(ctx context.Context) {
	m.mu.Lock()
	n := 0
	for _, k := range m.inFlight {
		if k == jobSaving {
			n++
		}
	}
	m.mu.Unlock()

	for i := 0; i < n; i++ {
		select {
		case res := <-m.pools.saveResults:
			m.handleSaveResult(res)
		case <-ctx.Done():
			return
		}
	}
}
