// Package light implements the sky- and block-light propagator (C4, spec
// §4.4): a column cast plus BFS flood fill for initial lighting, and a
// two-phase BFS remove-then-repropagate algorithm for incremental updates
// on block edits. Both channels are 4-bit (0..15) and packed into the same
// byte per world.Chunk (see world.Chunk's light field).
package light

import "github.com/ashgrove-voxel/worldcore/world"

// channel distinguishes the sky-light and block-light propagation rules:
// sky light propagates straight down through air with no decrement and has
// sun-column semantics; block light always decrements by at least 1 and has
// no special direction.
type channel int

const (
	skyChannel channel = iota
	blockChannel
)

func getLight(acc world.Accessor, ch channel, x, y, z int32) uint8 {
	if ch == skyChannel {
		return acc.GetSkyLight(x, y, z)
	}
	return acc.GetBlockLight(x, y, z)
}

func setLight(acc world.Accessor, ch channel, x, y, z int32, v uint8) {
	if ch == skyChannel {
		acc.SetSkyLight(x, y, z, v)
		return
	}
	acc.SetBlockLight(x, y, z, v)
}

// node is one entry of a light BFS queue.
type node struct {
	x, y, z int32
	level   uint8
}

var neighbourOffsets = [6][3]int32{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

const down = 3 // index into neighbourOffsets for (0,-1,0)

// affectedSet accumulates the chunk positions touched by a propagation run,
// deduplicated, for the stream manager to schedule mesh rebuilds against
// (spec §4.4 "Return").
type affectedSet struct {
	seen map[world.ChunkPos]struct{}
	list []world.ChunkPos
}

func newAffectedSet() *affectedSet {
	return &affectedSet{seen: make(map[world.ChunkPos]struct{})}
}

func (a *affectedSet) markPos(acc world.Accessor, x, z int32) {
	pos := world.ChunkOf(x, z)
	if _, ok := a.seen[pos]; ok {
		return
	}
	if c, ok := acc.ChunkAt(pos); ok {
		c.DirtyMesh = true
	}
	a.seen[pos] = struct{}{}
	a.list = append(a.list, pos)
}

// floodAdd propagates light outward from the seed queue, writing a cell
// only when the newly computed level exceeds what is already there (spec
// §4.4: "Write only if new > current"). Sky light propagating straight
// down from a 15-valued cell with zero attenuation below keeps the 15
// (spec §4.4); every other move costs 1 plus the target's attenuation.
func floodAdd(acc world.Accessor, ch channel, seeds []node, affected *affectedSet) {
	queue := append([]node(nil), seeds...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		for i, off := range neighbourOffsets {
			nx, ny, nz := n.x+off[0], n.y+off[1], n.z+off[2]
			if ny < 0 || ny >= world.WorldHeight {
				continue
			}
			targetID := acc.GetBlock(nx, ny, nz)
			tProps := world.BlockProps(targetID)
			if tProps.Opaque() {
				continue
			}

			var newLevel int
			if ch == skyChannel && i == down && n.level == 15 && tProps.Attenuation == 0 {
				newLevel = 15
			} else {
				newLevel = int(n.level) - 1 - int(tProps.Attenuation)
			}
			if newLevel <= 0 {
				continue
			}
			cur := int(getLight(acc, ch, nx, ny, nz))
			if newLevel <= cur {
				continue
			}
			setLight(acc, ch, nx, ny, nz, uint8(newLevel))
			affected.markPos(acc, nx, nz)
			queue = append(queue, node{nx, ny, nz, uint8(newLevel)})
		}
	}
}

// floodRemove implements the two-phase removal algorithm (spec §4.4,
// "Incremental update on block placement"): BFS-removes neighbours whose
// light was strictly fed by the removed cells (light < the removed level),
// zeroing them and recursing, while collecting any neighbour whose light is
// >= the removed level as a re-propagation seed (it has another source).
// The collected seeds are then re-flooded with floodAdd.
func floodRemove(acc world.Accessor, ch channel, removed []node, affected *affectedSet) {
	queue := append([]node(nil), removed...)
	var reseed []node

	for _, r := range removed {
		setLight(acc, ch, r.x, r.y, r.z, 0)
		affected.markPos(acc, r.x, r.z)
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		for _, off := range neighbourOffsets {
			nx, ny, nz := n.x+off[0], n.y+off[1], n.z+off[2]
			if ny < 0 || ny >= world.WorldHeight {
				continue
			}
			cur := getLight(acc, ch, nx, ny, nz)
			if cur == 0 {
				continue
			}
			if int(cur) < int(n.level) {
				setLight(acc, ch, nx, ny, nz, 0)
				affected.markPos(acc, nx, nz)
				queue = append(queue, node{nx, ny, nz, cur})
			} else {
				reseed = append(reseed, node{nx, ny, nz, cur})
			}
		}
	}

	floodAdd(acc, ch, reseed, affected)
}

// isSunColumn reports whether every cell above (x, y, z) up to the world
// ceiling is non-opaque, i.e. (x, y+1, z) sees open sky.
func isSunColumn(acc world.Accessor, x, y, z int32) bool {
	for cy := y + 1; cy < world.WorldHeight; cy++ {
		if world.BlockProps(acc.GetBlock(x, cy, z)).Opaque() {
			return false
		}
	}
	return true
}
