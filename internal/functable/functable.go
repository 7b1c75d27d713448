// Package functable tabulates a continuous kernel and its derivative on a
// uniform grid and evaluates it anywhere inside the grid by cubic Hermite
// interpolation, which keeps the result C¹ across cell boundaries.
package functable

import (
	"fmt"
	"math"

	"github.com/tphakala/go-pcm-resampler/internal/debuglog"
	"github.com/tphakala/go-pcm-resampler/internal/filter"
)

// Table holds length+1 samples of a function and its derivative at
// x_i = offset + i·multiplier. The domain [offset, offset+length·multiplier]
// is centered on zero.
type Table struct {
	length        int
	offset        float64
	multiplier    float64
	invMultiplier float64

	values      []float64
	derivatives []float64
}

// New samples fn on length+1 points spaced multiplier apart and centered on
// zero. length must be positive and even so that one sample falls on x = 0.
func New(length int, multiplier float64, fn filter.Func) (*Table, error) {
	if length <= 0 || length%2 != 0 {
		return nil, fmt.Errorf("table length must be positive and even, got %d", length)
	}
	if multiplier <= 0 || math.IsInf(multiplier, 0) || math.IsNaN(multiplier) {
		return nil, fmt.Errorf("table spacing must be positive and finite, got %g", multiplier)
	}

	t := &Table{
		length:        length,
		offset:        -float64(length) * multiplier / 2,
		multiplier:    multiplier,
		invMultiplier: 1 / multiplier,
		values:        make([]float64, length+1),
		derivatives:   make([]float64, length+1),
	}

	for i := range t.values {
		t.values[i], t.derivatives[i] = fn(t.x(i))
	}
	return t, nil
}

// ComposeMultiply replaces the tabulated function f with f·g, updating the
// derivatives by the product rule.
func (t *Table) ComposeMultiply(g filter.Func) {
	for i := range t.values {
		gx, dgx := g(t.x(i))
		fx, dfx := t.values[i], t.derivatives[i]
		t.values[i] = fx * gx
		t.derivatives[i] = dfx*gx + fx*dgx
	}
}

// Evaluate interpolates the tabulated function at x. Arguments outside the
// domain are logged and clamped to the nearest edge.
func (t *Table) Evaluate(x float64) float64 {
	pos := (x - t.offset) * t.invMultiplier

	if pos < 0 || pos > float64(t.length) || math.IsNaN(pos) {
		if pos < -domainSlack || pos > float64(t.length)+domainSlack || math.IsNaN(pos) {
			lo, hi := t.Domain()
			debuglog.Warnf("kernel argument %g outside [%g, %g]", x, lo, hi)
		}
		if pos > 0 {
			pos = float64(t.length)
		} else {
			pos = 0
		}
	}

	i := int(pos)
	if i >= t.length {
		i = t.length - 1
	}
	return t.hermite(i, pos-float64(i))
}

// hermite blends cell i at fraction s ∈ [0, 1].
func (t *Table) hermite(i int, s float64) float64 {
	s1 := s - 1
	h00 := s1 * s1 * (1 + 2*s)
	h01 := s * s * (3 - 2*s)
	h10 := s * s1 * s1
	h11 := s * s * s1

	return t.values[i]*h00 + t.values[i+1]*h01 +
		t.multiplier*(t.derivatives[i]*h10+t.derivatives[i+1]*h11)
}

// Domain returns the interval covered by the table.
func (t *Table) Domain() (lo, hi float64) {
	return t.offset, t.offset + float64(t.length)*t.multiplier
}

// Len returns the number of cells; the table stores Len()+1 samples.
func (t *Table) Len() int { return t.length }

// Sample returns the stored value and derivative at grid point i.
func (t *Table) Sample(i int) (fx, dfx float64) {
	return t.values[i], t.derivatives[i]
}

// MemoryUsage returns the approximate size of the tabulated data in bytes.
func (t *Table) MemoryUsage() int64 {
	return int64(len(t.values)+len(t.derivatives)) * bytesPerFloat64
}

func (t *Table) x(i int) float64 {
	return t.offset + float64(i)*t.multiplier
}

const (
	// domainSlack absorbs rounding in callers' phase arithmetic, in cells.
	domainSlack = 1e-6

	bytesPerFloat64 = 8
)
