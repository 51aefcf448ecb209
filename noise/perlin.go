package noise

import (
	"math/rand/v2"

	"github.com/ashgrove-voxel/worldcore/internal/mathutil"
)

// Perlin is improved (Ken Perlin's 2002) gradient noise in 2D and 3D: a
// seed-shuffled permutation table, the 6t^5-15t^4+10t^3 fade curve, and
// trilinear interpolation of gradient dot products. A Perlin value is
// immutable after NewPerlin returns.
type Perlin struct {
	perm [512]uint8
}

// NewPerlin builds a Perlin noise generator whose permutation table is
// shuffled by a PRNG seeded with seed, so that the same seed always
// produces the same noise field.
func NewPerlin(seed uint64) *Perlin {
	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}
	r := rand.New(rand.NewPCG(seed, seed^0xff51afd7ed558ccd))
	for i := 255; i > 0; i-- {
		j := r.IntN(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	pn := &Perlin{}
	for i := 0; i < 512; i++ {
		pn.perm[i] = p[i&255]
	}
	return pn
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func grad2(hash uint8, x, y float64) float64 {
	switch hash & 3 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	default:
		return -x - y
	}
}

func grad3(hash uint8, x, y, z float64) float64 {
	h := hash & 15
	var u, v float64
	if h < 8 {
		u = x
	} else {
		u = y
	}
	if h < 4 {
		v = y
	} else if h == 12 || h == 14 {
		v = x
	} else {
		v = z
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// Eval2 returns 2D Perlin noise at (x, y), in roughly [-1, 1].
func (p *Perlin) Eval2(x, y float64) float64 {
	xi := int(floor(x)) & 255
	yi := int(floor(y)) & 255
	xf := x - floor(x)
	yf := y - floor(y)

	u := fade(xf)
	v := fade(yf)

	aa := p.perm[p.perm[xi]+uint8(yi)]
	ab := p.perm[p.perm[xi]+uint8(yi)+1]
	ba := p.perm[p.perm[xi+1]+uint8(yi)]
	bb := p.perm[p.perm[xi+1]+uint8(yi)+1]

	x1 := mathutil.Lerp(grad2(aa, xf, yf), grad2(ba, xf-1, yf), u)
	x2 := mathutil.Lerp(grad2(ab, xf, yf-1), grad2(bb, xf-1, yf-1), u)
	return mathutil.Lerp(x1, x2, v)
}

// Eval3 returns 3D Perlin noise at (x, y, z), in roughly [-1, 1].
func (p *Perlin) Eval3(x, y, z float64) float64 {
	xi := int(floor(x)) & 255
	yi := int(floor(y)) & 255
	zi := int(floor(z)) & 255
	xf := x - floor(x)
	yf := y - floor(y)
	zf := z - floor(z)

	u := fade(xf)
	v := fade(yf)
	w := fade(zf)

	a := p.perm[xi] + uint8(yi)
	aa := p.perm[a] + uint8(zi)
	ab := p.perm[a+1] + uint8(zi)
	b := p.perm[xi+1] + uint8(yi)
	ba := p.perm[b] + uint8(zi)
	bb := p.perm[b+1] + uint8(zi)

	g1 := mathutil.Lerp(grad3(p.perm[aa], xf, yf, zf), grad3(p.perm[ba], xf-1, yf, zf), u)
	g2 := mathutil.Lerp(grad3(p.perm[ab], xf, yf-1, zf), grad3(p.perm[bb], xf-1, yf-1, zf), u)
	g3 := mathutil.Lerp(grad3(p.perm[aa+1], xf, yf, zf-1), grad3(p.perm[ba+1], xf-1, yf, zf-1), u)
	g4 := mathutil.Lerp(grad3(p.perm[ab+1], xf, yf-1, zf-1), grad3(p.perm[bb+1], xf-1, yf-1, zf-1), u)

	y1 := mathutil.Lerp(g1, g2, v)
	y2 := mathutil.Lerp(g3, g4, v)
	return mathutil.Lerp(y1, y2, w)
}

func floor(x float64) float64 {
	i := int64(x)
	if x < 0 && float64(i) != x {
		i--
	}
	return float64(i)
}

