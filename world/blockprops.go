package world

// Props describes the lighting- and meshing-relevant properties of a block
// id: whether it is solid, whether light passes through it, how much extra
// light it eats per step beyond the usual -1 (spec §4.4), and how much
// light it emits (block light channel only).
type Props struct {
	Solid       bool
	Transparent bool
	Attenuation uint8
	Emission    uint8
}

// Opaque reports whether a block fully blocks light, per spec §4.4:
// "A block is opaque iff solid && !transparent".
func (p Props) Opaque() bool {
	return p.Solid && !p.Transparent
}

var defaultProps = Props{Solid: true, Transparent: false}

// props is the static table of block properties. Anything not listed falls
// back to defaultProps (solid, opaque, no emission) except for ids handled
// specially below (air, fluids, foliage).
var props = map[uint8]Props{
	Air:       {Solid: false, Transparent: true},
	Flower:    {Solid: false, Transparent: true},
	TallGrass: {Solid: false, Transparent: true},
	Mushroom:  {Solid: false, Transparent: true},
	SugarCane: {Solid: false, Transparent: true},
	Leaves:    {Solid: true, Transparent: true, Attenuation: 1},
}

func init() {
	// Water: transparent, attenuation 2, no emission (source + all 7 flow
	// levels of each fluid).
	for id := WaterSource; id <= WaterFlow7; id++ {
		props[id] = Props{Solid: true, Transparent: true, Attenuation: 2}
	}
	// Lava: opaque to sky light like any solid-ish fluid, but emits strong
	// block light, matching vanilla lava's role as a light source.
	for id := LavaSource; id <= LavaFlow7; id++ {
		props[id] = Props{Solid: true, Transparent: false, Emission: 15}
	}
}

// BlockProps returns the lighting/meshing properties of a block id.
func BlockProps(id uint8) Props {
	if p, ok := props[id]; ok {
		return p
	}
	return defaultProps
}

// IsOpaque is a convenience wrapper over BlockProps(id).Opaque().
func IsOpaque(id uint8) bool {
	return BlockProps(id).Opaque()
}

// Emission returns the block-light emission (0..15) of a block id.
func Emission(id uint8) uint8 {
	return BlockProps(id).Emission
}
