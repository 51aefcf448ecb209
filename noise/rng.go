// Package noise provides the deterministic noise primitives used by the
// generation pipeline (spec §4.1, C1): improved Perlin noise in 2D and 3D,
// octave fBm, combined/domain-warped noise, and chunk-seeded RNG streams.
// Every type here is immutable after construction and safe for concurrent
// evaluation, since generation passes run embarrassingly parallel across
// chunks (spec §4.3).
package noise

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// DeriveSeed returns a reproducible per-chunk seed derived from a world
// seed and chunk coordinates, used wherever generation needs a
// chunk-local RNG stream (ore veins, tree placement, decorations; spec
// §4.3 steps 5-7). xxhash gives a fast, well-mixed 64-bit digest so nearby
// chunks don't produce correlated streams.
func DeriveSeed(seed uint64, cx, cz int32) uint64 {
	var buf [20]byte
	putUint64(buf[0:8], seed)
	putUint32(buf[8:12], uint32(cx))
	putUint32(buf[12:16], uint32(cz))
	// A constant trailer keeps the hash from degenerating when seed and
	// coordinates happen to be zero.
	putUint32(buf[16:20], 0x5bd1e995)
	return xxhash.Sum64(buf[:])
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func putUint32(b []byte, v uint32) {
	for i := 0; i < 4; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// ChunkRand returns a deterministic RNG stream for a given chunk, seeded
// via DeriveSeed. The stream is reproducible across runs and machines: it
// only depends on integer math.
func ChunkRand(seed uint64, cx, cz int32) *rand.Rand {
	s := DeriveSeed(seed, cx, cz)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
