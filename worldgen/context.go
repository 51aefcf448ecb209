// Package worldgen implements the generation pipeline (C3, spec §4.3): an
// ordered, fixed list of passes that each read and write only their target
// chunk, so that generation is embarrassingly parallel across chunks. The
// Context owns the seed, configuration and shared noise fields; it does not
// reference back to anything it produces (spec §9, "acyclic").
package worldgen

import (
	"fmt"

	"github.com/ashgrove-voxel/worldcore/noise"
	"github.com/ashgrove-voxel/worldcore/world"
)

// OreSpec describes one vein type placed by the ore pass (spec §4.3 step
// 5).
type OreSpec struct {
	Block    uint8
	Attempts int
	VeinSize int
	MinY     int
	MaxY     int
}

// Config holds the tunable constants of the generation pipeline. The
// Infdev-style base terrain constants are part of the spec (§4.3 step 1)
// and reproduce the visual character of the reference terrain; they are not
// meant to be freely re-tuned.
type Config struct {
	Seed uint64

	// Base terrain (step 1).
	BaseHeight        float64
	BroadScale        float64 // ~0.013
	SelectorScale     float64 // ~0.005
	AmplitudeA        float64 // ~260
	LowScaleDiv       float64 // sLow ~6
	LowOffset         float64 // oLow ~-4
	HighScaleDiv      float64 // sHigh ~5
	HighOffset        float64 // oHigh ~6
	NegativeDampening float64 // 0.8

	// Surface paint (step 2).
	MountainThreshold float64
	DirtDepth         int
	BeachThreshold    float64 // ~0.06
	ErosionThreshold  float64 // ~0.09

	// Cave carving (step 3).
	CaveMinY          int
	CaveSurfaceMargin int
	CaveThreshold     float64
	ShaftEnabled      bool
	ShaftThreshold    float64

	// Trees (step 6).
	TreeEdgeMargin int

	// Ore veins (step 5).
	Ores []OreSpec
}

// DefaultConfig returns the constants named in spec §4.3, sufficient to
// reproduce the reference terrain's visual character.
func DefaultConfig(seed uint64) Config {
	return Config{
		Seed:              seed,
		BaseHeight:        64,
		BroadScale:        0.013,
		SelectorScale:     0.005,
		AmplitudeA:        260,
		LowScaleDiv:       6,
		LowOffset:         -4,
		HighScaleDiv:      5,
		HighOffset:        6,
		NegativeDampening: 0.8,
		MountainThreshold: 90,
		DirtDepth:         3,
		BeachThreshold:    0.06,
		ErosionThreshold:  0.09,
		CaveMinY:          5,
		CaveSurfaceMargin: 4,
		CaveThreshold:     0.085,
		ShaftEnabled:      true,
		ShaftThreshold:    0.93,
		TreeEdgeMargin:    2,
		Ores: []OreSpec{
			{Block: world.CoalOre, Attempts: 20, VeinSize: 16, MinY: 0, MaxY: 128},
			{Block: world.IronOre, Attempts: 20, VeinSize: 8, MinY: 0, MaxY: 64},
			{Block: world.GoldOre, Attempts: 2, VeinSize: 8, MinY: 0, MaxY: 32},
			{Block: world.DiamondOre, Attempts: 1, VeinSize: 7, MinY: 0, MaxY: 16},
		},
	}
}

// Context holds everything a pass needs beyond the target chunk: the seed,
// config and the shared, immutable noise fields every pass reads from.
// Building a Context is the one place a malformed configuration fails
// fatally (spec §4.3 "Failure model") — noise.NewOctave already panics on a
// degenerate amplitude sum, so a bad Config surfaces here rather than deep
// inside a pass.
type Context struct {
	Cfg Config

	heightLow, heightHigh *noise.Combined
	selector              *noise.Octave
	beach, erosion        *noise.Octave
	caveA, caveB, caveC   *noise.Octave
	roomNoise             *noise.Octave
	shaftNoise            *noise.Octave
	forestDensity         *noise.Octave
	flatness              *noise.Octave
}

// NewContext constructs the shared noise fields for a world seed and
// config. Safe to share across many concurrent Generate calls: every noise
// field is immutable once built.
func NewContext(cfg Config) *Context {
	if cfg.Ores == nil {
		panic(fmt.Errorf("worldgen: NewContext: config must specify at least a default ore list"))
	}
	s := cfg.Seed
	return &Context{
		Cfg: cfg,
		heightLow: noise.NewCombined(
			noise.NewOctave(s^0x1, 4, 2.0, 0.5),
			noise.NewOctave(s^0x2, 2, 2.0, 0.5),
		),
		heightHigh: noise.NewCombined(
			noise.NewOctave(s^0x3, 4, 2.0, 0.5),
			noise.NewOctave(s^0x4, 2, 2.0, 0.5),
		),
		selector:      noise.NewOctave(s^0x5, 2, 2.0, 0.5),
		beach:         noise.NewOctave(s^0x6, 3, 2.0, 0.5),
		erosion:       noise.NewOctave(s^0x7, 3, 2.0, 0.5),
		caveA:         noise.NewOctave(s^0x8, 1, 2.0, 0.5),
		caveB:         noise.NewOctave(s^0x9, 1, 2.0, 0.5),
		caveC:         noise.NewOctave(s^0xa, 1, 2.0, 0.5),
		roomNoise:     noise.NewOctave(s^0xb, 2, 2.0, 0.5),
		shaftNoise:    noise.NewOctave(s^0xc, 1, 2.0, 0.5),
		forestDensity: noise.NewOctave(s^0xd, 2, 2.0, 0.5),
		flatness:      noise.NewOctave(s^0xe, 2, 2.0, 0.5),
	}
}

// Pass is a single stage of the generation pipeline: it reads and writes
// only the chunk passed to it (spec §4.3: "no neighbour writes").
type Pass func(ctx *Context, pos world.ChunkPos, c *world.Chunk, r *chunkRand)

// pipeline is the fixed pass order named in spec §4.3.
var pipeline = []Pass{
	baseTerrainPass,
	surfacePaintPass,
	caveCarvingPass,
	fluidFillPass,
	oreVeinsPass,
	treesPass,
	decorationsPass,
}

// Generate runs the full ordered pipeline against a fresh chunk at pos,
// returning the filled chunk. Pass functions are total: Generate never
// returns an error (spec §4.3 "Failure model").
func Generate(ctx *Context, pos world.ChunkPos) *world.Chunk {
	c := world.NewChunk(pos)
	r := newChunkRand(ctx.Cfg.Seed, pos)
	for _, pass := range pipeline {
		pass(ctx, pos, c, r)
	}
	return c
}
