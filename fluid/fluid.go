// Package fluid implements the delayed-tick cellular-automaton fluid
// simulator (C5, spec §4.5): water and lava flow, edge-seeking spread,
// water/lava interaction products, and lava ignition.
package fluid

import "github.com/ashgrove-voxel/worldcore/world"

const (
	// WaterDelay is the scheduling delay, in simulation ticks, before a
	// scheduled water cell is reconsidered.
	WaterDelay = 5
	// LavaSurfaceDelay is the delay for lava cells at or above sea level.
	LavaSurfaceDelay = 30
	// LavaUndergroundDelay is the delay for lava cells below sea level.
	LavaUndergroundDelay = 10

	// MaxUpdatesPerTick bounds how many scheduled cells are drained and
	// processed in a single simulation tick.
	MaxUpdatesPerTick = 512

	// FlowSearchDepth bounds how far the edge-seeking heuristic looks
	// along each horizontal direction for a drop-off. The spec names the
	// constant without pinning a value; 4 mirrors the search depth
	// typical of this style of block-flow heuristic.
	FlowSearchDepth = 4

	waterMaxSpread           = 7
	lavaSurfaceMaxSpread     = 3
	lavaUndergroundMaxSpread = 7
)

// IsWater reports whether id is a water source or flowing-water id.
func IsWater(id uint8) bool {
	return id >= world.WaterSource && id <= world.WaterFlow7
}

// IsLava reports whether id is a lava source or flowing-lava id.
func IsLava(id uint8) bool {
	return id >= world.LavaSource && id <= world.LavaFlow7
}

// IsFluid reports whether id belongs to either fluid.
func IsFluid(id uint8) bool {
	return IsWater(id) || IsLava(id)
}

// IsSource reports whether id is a source block of either fluid.
func IsSource(id uint8) bool {
	return id == world.WaterSource || id == world.LavaSource
}

// Level returns the flow level of a fluid id: 0 for a source, 1..7 for a
// flowing cell. The result is meaningless for non-fluid ids.
func Level(id uint8) uint8 {
	switch {
	case id == world.WaterSource || id == world.LavaSource:
		return 0
	case IsWater(id):
		return id - world.WaterSource
	case IsLava(id):
		return id - world.LavaSource
	default:
		return 0
	}
}

// flowingID returns the flowing-fluid id for the same species as source at
// the given level (1..7).
func flowingID(species uint8, level uint8) uint8 {
	if IsWater(species) {
		return world.WaterSource + level
	}
	return world.LavaSource + level
}

// CanReplace reports whether a fluid may overwrite id: air and any other
// non-solid block (spec §4.5: "true for air and most non-solid blocks").
func CanReplace(id uint8) bool {
	if id == world.Air {
		return true
	}
	return !world.BlockProps(id).Solid
}

// MaxSpread returns the maximum flow level a fluid of this species may
// reach at the given world height, per spec §4.5's water/lava-surface/
// lava-underground distinction.
func MaxSpread(species uint8, y int32) uint8 {
	if IsWater(species) {
		return waterMaxSpread
	}
	if y >= world.SeaLevel {
		return lavaSurfaceMaxSpread
	}
	return lavaUndergroundMaxSpread
}

// Delay returns the scheduling delay, in ticks, for a fluid cell of this
// species at the given world height.
func Delay(species uint8, y int32) uint64 {
	if IsWater(species) {
		return WaterDelay
	}
	if y >= world.SeaLevel {
		return LavaSurfaceDelay
	}
	return LavaUndergroundDelay
}
