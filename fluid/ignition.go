package fluid

import (
	"github.com/segmentio/fasthash/fnv1a"
)

// ignitionChance is lava's roughly-25% chance of igniting a flammable
// neighbour (spec §4.5 "Lava ignition").
const ignitionChance = 0.25

// ignitionRoll deterministically decides, given the current tick and a
// block position, whether lava ignites a flammable neighbour there. Using
// a position+tick hash instead of a stateful RNG keeps the simulator
// reproducible across runs with the same tick sequence (spec §4.5:
// "Deterministic given tick").
func ignitionRoll(tick uint64, x, y, z int32) bool {
	h := fnv1a.HashUint64(tick)
	h = fnv1a.AddUint64(h, uint64(uint32(x)))
	h = fnv1a.AddUint64(h, uint64(uint32(y)))
	h = fnv1a.AddUint64(h, uint64(uint32(z)))
	const bucket = 1 << 20
	return h%bucket < uint64(float64(bucket)*ignitionChance)
}
