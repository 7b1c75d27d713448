// Package filter defines the continuous band-limiting kernels used by the
// resampler. Every kernel is a Func that returns its value and first
// derivative, so kernels can be tabulated for Hermite interpolation and
// combined with the product rule.
package filter

import (
	"math"
)

// Func evaluates a continuous function and its first derivative at x.
type Func func(x float64) (fx, dfx float64)

// Value returns f(x) without the derivative.
func (f Func) Value(x float64) float64 {
	v, _ := f(x)
	return v
}

// sincZeroThreshold is where sin(u)/u is replaced by its limit.
const sincZeroThreshold = 1e-10

// Sinc returns the ideal low-pass kernel c·sin(πcx)/(πcx) with cutoff c as a
// fraction of the input Nyquist frequency. Its integer samples sum to 1 for
// c = 1, and its area is 1 for any c.
func Sinc(cutoff float64) Func {
	scale := math.Pi * cutoff
	return func(x float64) (float64, float64) {
		u := x * scale
		if math.Abs(u) < sincZeroThreshold {
			return cutoff, 0
		}
		s, c := math.Sincos(u)
		fx := s / u
		// d/du sin(u)/u = (cos u - sin u / u) / u
		dfx := (c - fx) / u
		return cutoff * fx, cutoff * scale * dfx
	}
}

// Product returns f·g with derivative f'g + fg'.
func Product(f, g Func) Func {
	return func(x float64) (float64, float64) {
		fx, dfx := f(x)
		gx, dgx := g(x)
		return fx * gx, dfx*gx + fx*dgx
	}
}
