package noise

import "fmt"

// Octave sums several octaves of Perlin noise (fBm: fractal Brownian
// motion) with configurable lacunarity (frequency multiplier per octave)
// and persistence (amplitude multiplier per octave). The result is
// normalised by the theoretical maximum amplitude sum so the output always
// lies in [-1, 1] (spec §4.1).
type Octave struct {
	base        *Perlin
	octaves     int
	lacunarity  float64
	persistence float64
	maxAmp      float64
}

// NewOctave builds an octave noise field. It panics if the configuration is
// degenerate (octaves <= 0, or the amplitude sum would be zero) since a
// malformed generation configuration is a programmer error that must fail
// fatally at construction (spec §4.3 "Failure model").
func NewOctave(seed uint64, octaves int, lacunarity, persistence float64) *Octave {
	if octaves <= 0 {
		panic(fmt.Errorf("noise: NewOctave: octaves must be positive, got %d", octaves))
	}
	o := &Octave{
		base:        NewPerlin(seed),
		octaves:     octaves,
		lacunarity:  lacunarity,
		persistence: persistence,
	}
	amp := 1.0
	for i := 0; i < octaves; i++ {
		o.maxAmp += amp
		amp *= persistence
	}
	if o.maxAmp <= 0 {
		panic(fmt.Errorf("noise: NewOctave: degenerate amplitude sum (maxAmp=%v)", o.maxAmp))
	}
	return o
}

// Eval2 returns normalised octave noise at (x, y).
func (o *Octave) Eval2(x, y float64) float64 {
	var sum, amp, freq = 0.0, 1.0, 1.0
	for i := 0; i < o.octaves; i++ {
		sum += o.base.Eval2(x*freq, y*freq) * amp
		amp *= o.persistence
		freq *= o.lacunarity
	}
	return sum / o.maxAmp
}

// Eval3 returns normalised octave noise at (x, y, z).
func (o *Octave) Eval3(x, y, z float64) float64 {
	var sum, amp, freq = 0.0, 1.0, 1.0
	for i := 0; i < o.octaves; i++ {
		sum += o.base.Eval3(x*freq, y*freq, z*freq) * amp
		amp *= o.persistence
		freq *= o.lacunarity
	}
	return sum / o.maxAmp
}

// Combined implements domain-warped noise: n1(x + n2(x,z), z), used by the
// base terrain pass to give the Infdev-style height fields their
// characteristic warped look (spec §4.3 step 1).
type Combined struct {
	n1, n2 *Octave
}

// NewCombined builds a Combined noise field out of two independently seeded
// octave fields.
func NewCombined(n1, n2 *Octave) *Combined {
	return &Combined{n1: n1, n2: n2}
}

// Eval2 returns the domain-warped value at (x, z).
func (c *Combined) Eval2(x, z float64) float64 {
	warp := c.n2.Eval2(x, z)
	return c.n1.Eval2(x+warp, z)
}
