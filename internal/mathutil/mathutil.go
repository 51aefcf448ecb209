// Package mathutil holds small numeric helpers shared by the noise,
// worldgen, world and region packages. None of it is domain specific;
// it exists so that clamping, lerping and min/max logic isn't re-typed in
// every package that needs it.
package mathutil

import "golang.org/x/exp/constraints"

// Clamp restricts v to the inclusive range [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// FloorDiv performs a floor division, unlike Go's truncating integer
// division. FloorDiv(-1, 16) == -1, whereas -1/16 == 0.
func FloorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Mod returns the non-negative modulus of a by b, assuming b > 0.
func Mod(a, b int32) int32 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
