package fluid

import "github.com/ashgrove-voxel/worldcore/world"

var horizontalOffsets = [4][2]int32{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Simulator runs the water/lava cellular automaton against a
// world.Accessor. It holds no block data of its own; everything lives in
// the resident chunks reachable through Accessor. Tick is advanced
// explicitly by the stream manager at 20 Hz (spec §4.5).
type Simulator struct {
	Accessor world.Accessor
	Tick     uint64

	scheduler *Scheduler

	dirtyChunks  map[world.ChunkPos]struct{}
	lightUpdates map[world.BlockPos]LightUpdate
}

// LightUpdate records a fluid-driven block replacement that the stream
// manager must feed into the lighting engine's incremental update (spec
// §4.5 "Output": "positions needing a light recompute"), since the
// simulator itself holds no reference to the lighting engine (spec §9,
// "the world does not hold a reference to the simulator" generalised: the
// fluid simulator must not call back into lighting directly either).
type LightUpdate struct {
	Pos      world.BlockPos
	Old, New uint8
}

// NewSimulator returns a Simulator bound to acc, starting at tick 0.
func NewSimulator(acc world.Accessor) *Simulator {
	return &Simulator{
		Accessor:     acc,
		scheduler:    NewScheduler(),
		dirtyChunks:  make(map[world.ChunkPos]struct{}),
		lightUpdates: make(map[world.BlockPos]LightUpdate),
	}
}

// Schedule queues (x, y, z) for reconsideration at the appropriate delay
// for whatever fluid currently occupies it (or a default water delay if it
// does not hold a fluid, matching the spec's "schedule neighbours"
// language for block-change notifications).
func (s *Simulator) Schedule(x, y, z int32) {
	id := s.Accessor.GetBlock(x, y, z)
	delay := uint64(WaterDelay)
	if IsLava(id) {
		delay = Delay(id, y)
	}
	s.scheduler.Schedule(x, y, z, s.Tick+delay)
}

// OnBlockChanged is the fluid simulator's half of the stream manager's
// edit path (spec §4.5 "Block-change notifications"): an external edit at
// (x, y, z) schedules that cell and its six neighbours.
func (s *Simulator) OnBlockChanged(x, y, z int32) {
	id := s.Accessor.GetBlock(x, y, z)
	delay := uint64(WaterDelay)
	if IsLava(id) {
		delay = Delay(id, y)
	}
	s.scheduler.ScheduleNeighbours(x, y, z, s.Tick+delay)
	if id == world.LavaSource || IsLava(id) {
		s.igniteNeighbours(x, y, z)
	}
}

// Step drains due scheduler entries and processes each one, then advances
// the tick counter.
func (s *Simulator) Step() {
	due := s.scheduler.DrainDue(s.Tick)
	for _, bp := range due {
		s.updateCell(bp.X, bp.Y, bp.Z)
	}
	s.Tick++
}

// DrainDirtyChunks returns and clears the set of chunk positions whose
// blocks changed since the last drain (spec §4.5 "Output").
func (s *Simulator) DrainDirtyChunks() []world.ChunkPos {
	out := make([]world.ChunkPos, 0, len(s.dirtyChunks))
	for p := range s.dirtyChunks {
		out = append(out, p)
	}
	s.dirtyChunks = make(map[world.ChunkPos]struct{})
	return out
}

// DrainLightUpdates returns and clears the set of positions where block
// light must be re-evaluated after lava creation or removal.
func (s *Simulator) DrainLightUpdates() []LightUpdate {
	out := make([]LightUpdate, 0, len(s.lightUpdates))
	for _, u := range s.lightUpdates {
		out = append(out, u)
	}
	s.lightUpdates = make(map[world.BlockPos]LightUpdate)
	return out
}

func (s *Simulator) markDirty(x, y, z int32) {
	s.dirtyChunks[world.ChunkOf(x, z)] = struct{}{}
	_ = y
}

func (s *Simulator) markLightUpdate(x, y, z int32, oldID, newID uint8) {
	pos := world.BlockPos{X: x, Y: y, Z: z}
	s.lightUpdates[pos] = LightUpdate{Pos: pos, Old: oldID, New: newID}
}

// updateCell runs the per-cell update of spec §4.5's "Per-cell update".
func (s *Simulator) updateCell(x, y, z int32) {
	id := s.Accessor.GetBlock(x, y, z)
	if !IsFluid(id) {
		return
	}

	if IsSource(id) {
		s.spread(x, y, z, id, 0)
		return
	}

	level := s.effectiveLevel(x, y, z, id)
	cur := Level(id)
	species := speciesOf(id)

	switch {
	case level == 0:
		s.setBlock(x, y, z, sourceOf(species))
		s.spread(x, y, z, sourceOf(species), 0)
	case level >= 8:
		s.setBlock(x, y, z, world.Air)
		s.scheduleSelfAndNeighbours(x, y, z)
	case level != cur:
		s.setBlock(x, y, z, flowingID(species, level))
		s.spread(x, y, z, flowingID(species, level), level)
	}
}

func speciesOf(id uint8) uint8 {
	if IsWater(id) {
		return world.WaterSource
	}
	return world.LavaSource
}

func sourceOf(species uint8) uint8 {
	return species
}

// effectiveLevel implements spec §4.5's flowing-cell level rule: water
// above forces level 1; two or more adjacent horizontal sources turn a
// water cell into a source (signalled by returning 0, the source level);
// otherwise the level is the minimum adjacent flowing level plus one, or 8
// (meaning "remove") if there is no feeder.
func (s *Simulator) effectiveLevel(x, y, z int32, id uint8) uint8 {
	species := speciesOf(id)

	above := s.Accessor.GetBlock(x, y+1, z)
	if species == world.WaterSource && above == world.WaterSource {
		return 1
	}

	if species == world.WaterSource {
		sourceNeighbours := 0
		for _, off := range horizontalOffsets {
			if s.Accessor.GetBlock(x+off[0], y, z+off[1]) == world.WaterSource {
				sourceNeighbours++
			}
		}
		if sourceNeighbours >= 2 {
			return 0
		}
	}

	best := uint8(8)
	feeder := false
	for _, off := range horizontalOffsets {
		nid := s.Accessor.GetBlock(x+off[0], y, z+off[1])
		if speciesOf(nid) != species || !IsFluid(nid) {
			continue
		}
		nl := Level(nid)
		candidate := nl + 1
		if nl == 0 {
			candidate = 1
		}
		if candidate < best {
			best = candidate
			feeder = true
		}
	}
	if above != world.Air && IsFluid(above) && speciesOf(above) == species {
		feeder = true
		best = 1
	}
	if !feeder {
		return 8
	}
	return best
}

func (s *Simulator) scheduleSelfAndNeighbours(x, y, z int32) {
	s.scheduler.ScheduleNeighbours(x, y, z, s.Tick+1)
}

func (s *Simulator) setBlock(x, y, z int32, id uint8) {
	old := s.Accessor.GetBlock(x, y, z)
	s.Accessor.SetBlock(x, y, z, id)
	s.markDirty(x, y, z)
	if IsLava(old) || IsLava(id) {
		s.markLightUpdate(x, y, z, old, id)
	}
}

// spread implements spec §4.5's "Spread from (x, y, z, level)": downward
// first, with fluid-interaction products, then edge-seeking horizontal
// spread bounded by the species' max spread level.
func (s *Simulator) spread(x, y, z int32, id uint8, level uint8) {
	species := speciesOf(id)
	if level >= MaxSpread(species, y) {
		return
	}
	s.spreadDown(x, y, z, species)
	s.spreadHorizontal(x, y, z, species, level)
}

func (s *Simulator) spreadDown(x, y, z int32, species uint8) {
	below := s.Accessor.GetBlock(x, y-1, z)
	switch {
	case CanReplace(below):
		s.setBlock(x, y-1, z, flowingID(species, 1))
		s.scheduler.Schedule(x, y-1, z, s.Tick+Delay(species, y-1))
	case speciesOf(below) != species && IsFluid(below):
		s.interact(x, y-1, z, species, below)
	}
}

// interact applies spec §4.5's water/lava interaction rule: water into a
// lava source makes obsidian, water into flowing lava makes cobblestone,
// lava into water also makes cobblestone.
func (s *Simulator) interact(x, y, z int32, incoming, existing uint8) {
	var product uint8
	switch {
	case incoming == world.WaterSource && IsSource(existing) && speciesOf(existing) == world.LavaSource:
		product = world.Obsidian
	case incoming == world.WaterSource && speciesOf(existing) == world.LavaSource:
		product = world.Cobblestone
	case incoming == world.LavaSource && speciesOf(existing) == world.WaterSource:
		product = world.Cobblestone
	default:
		return
	}
	s.setBlock(x, y, z, product)
	s.markLightUpdate(x, y, z, existing, product)
}

// spreadHorizontal gates spread by the edge-seeking heuristic: directions
// whose path reaches a drop within FlowSearchDepth are preferred; if none
// do, all four directions are allowed.
func (s *Simulator) spreadHorizontal(x, y, z int32, species uint8, level uint8) {
	max := MaxSpread(species, y)
	if level+1 > max {
		return
	}
	next := flowingID(species, level+1)

	preferred, dist := s.preferredDirections(x, y, z)
	dirs := preferred
	if len(dirs) == 0 {
		dirs = []int{0, 1, 2, 3}
	}
	_ = dist

	for _, di := range dirs {
		off := horizontalOffsets[di]
		nx, nz := x+off[0], z+off[1]
		target := s.Accessor.GetBlock(nx, y, nz)
		if target == world.Air {
			s.setBlock(nx, y, nz, next)
			// Re-check next tick, not a full Delay later: a freshly placed
			// flowing cell may already have two source neighbours (it's
			// about to collapse into a source itself) and must not sit
			// idle for a whole delay cycle before that's noticed.
			s.scheduler.Schedule(nx, y, nz, s.Tick+1)
			continue
		}
		if speciesOf(target) == species && IsFluid(target) && Level(target) > level+1 {
			s.setBlock(nx, y, nz, next)
			s.scheduler.Schedule(nx, y, nz, s.Tick+1)
		}
	}
}

// preferredDirections looks up to FlowSearchDepth cells along each
// horizontal direction for a cell with a replaceable block beneath it (a
// drop-off), returning the directions that find one at the shortest
// distance, and that distance.
func (s *Simulator) preferredDirections(x, y, z int32) ([]int, int) {
	best := FlowSearchDepth + 1
	var dirs []int
	for di, off := range horizontalOffsets {
		for d := 1; d <= FlowSearchDepth; d++ {
			px, pz := x+off[0]*int32(d), z+off[1]*int32(d)
			if !CanReplace(s.Accessor.GetBlock(px, y, pz)) {
				break
			}
			if CanReplace(s.Accessor.GetBlock(px, y-1, pz)) {
				if d < best {
					best = d
					dirs = []int{di}
				} else if d == best {
					dirs = append(dirs, di)
				}
				break
			}
		}
	}
	return dirs, best
}

func (s *Simulator) igniteNeighbours(x, y, z int32) {
	for _, bp := range []world.BlockPos{
		{X: x + 1, Y: y, Z: z}, {X: x - 1, Y: y, Z: z},
		{X: x, Y: y + 1, Z: z}, {X: x, Y: y - 1, Z: z},
		{X: x, Y: y, Z: z + 1}, {X: x, Y: y, Z: z - 1},
	} {
		id := s.Accessor.GetBlock(bp.X, bp.Y, bp.Z)
		if !isFlammable(id) {
			continue
		}
		if ignitionRoll(s.Tick, bp.X, bp.Y, bp.Z) {
			s.setBlock(bp.X, bp.Y, bp.Z, world.Air)
		}
	}
}

func isFlammable(id uint8) bool {
	return id == world.Log || id == world.Leaves
}
