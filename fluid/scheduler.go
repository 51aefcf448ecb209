package fluid

import "github.com/ashgrove-voxel/worldcore/world"

// Scheduler is the delayed-tick queue described in spec §4.5: a mapping
// from a packed world position to the tick at which that cell should next
// be reconsidered. Scheduling an earlier tick for a position already
// queued shortens its delay; scheduling a later one is ignored.
type Scheduler struct {
	due   map[int64]uint64
	order []int64
}

// NewScheduler returns an empty fluid scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{due: make(map[int64]uint64)}
}

// packKey folds a block position into a single int64: 21 bits each for x
// and z (±1,048,575 blocks, far beyond any practical render distance) and
// 8 bits for y (0..127 fits WorldHeight). This is a scheduler-local
// encoding, unrelated to world.ChunkPos.Pack.
func packKey(x, y, z int32) int64 {
	return int64(x&0x1FFFFF)<<29 | int64(z&0x1FFFFF)<<8 | int64(y&0xFF)
}

func unpackKey(key int64) world.BlockPos {
	x := int32(key>>29) << 11 >> 11 // sign-extend 21 bits
	z := int32(key>>8) << 11 >> 11
	y := int32(key & 0xFF)
	return world.BlockPos{X: x, Y: y, Z: z}
}

// Schedule queues (x, y, z) for reconsideration no later than tick. If the
// position is already queued for an earlier tick, this call is a no-op.
func (s *Scheduler) Schedule(x, y, z int32, tick uint64) {
	key := packKey(x, y, z)
	if cur, ok := s.due[key]; ok {
		if tick < cur {
			s.due[key] = tick
		}
		return
	}
	s.due[key] = tick
	s.order = append(s.order, key)
}

// ScheduleNeighbours queues (x, y, z) and its six axis neighbours, used for
// block-change notifications (spec §4.5: "a broken dam drains on its own
// time").
func (s *Scheduler) ScheduleNeighbours(x, y, z int32, tick uint64) {
	s.Schedule(x, y, z, tick)
	s.Schedule(x+1, y, z, tick)
	s.Schedule(x-1, y, z, tick)
	s.Schedule(x, y+1, z, tick)
	s.Schedule(x, y-1, z, tick)
	s.Schedule(x, y, z+1, tick)
	s.Schedule(x, y, z-1, tick)
}

// DrainDue removes and returns up to MaxUpdatesPerTick positions whose
// scheduled tick has arrived, preserving insertion order among them;
// not-yet-due positions remain queued.
func (s *Scheduler) DrainDue(currentTick uint64) []world.BlockPos {
	var out []world.BlockPos
	kept := make([]int64, 0, len(s.order))
	for _, key := range s.order {
		tick, ok := s.due[key]
		if !ok {
			continue
		}
		if len(out) < MaxUpdatesPerTick && tick <= currentTick {
			out = append(out, unpackKey(key))
			delete(s.due, key)
			continue
		}
		kept = append(kept, key)
	}
	s.order = kept
	return out
}

// Len reports how many positions are currently queued, due or not.
func (s *Scheduler) Len() int {
	return len(s.due)
}
