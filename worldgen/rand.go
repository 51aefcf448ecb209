package worldgen

import (
	"math/rand/v2"

	"github.com/ashgrove-voxel/worldcore/noise"
	"github.com/ashgrove-voxel/worldcore/world"
)

// chunkRand wraps the chunk-seeded RNG stream (noise.ChunkRand) used by the
// ore, tree and decoration passes (spec §4.3 steps 5-7), which must be
// deterministic given (seed, cx, cz) but need not be shared across passes.
type chunkRand struct {
	*rand.Rand
}

func newChunkRand(seed uint64, pos world.ChunkPos) *chunkRand {
	return &chunkRand{Rand: noise.ChunkRand(seed, pos.X, pos.Z)}
}

// Intn returns a uniform random int in [0, n).
func (r *chunkRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.IntN(n)
}

// Chance returns true with probability p (0..1).
func (r *chunkRand) Chance(p float64) bool {
	return r.Float64() < p
}
