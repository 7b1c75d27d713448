package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/tphakala/go-pcm-resampler/internal/filter"
	"github.com/tphakala/go-pcm-resampler/internal/functable"
)

// Method selects how the convolution kernel is evaluated.
type Method int

const (
	// MethodTable interpolates a precomputed kernel table.
	MethodTable Method = iota

	// MethodDirect evaluates the windowed sinc analytically for every tap.
	MethodDirect
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodTable:
		return "table"
	case MethodDirect:
		return "direct"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	return m == MethodTable || m == MethodDirect
}

// ParseMethod converts a method name to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "table", "functable":
		return MethodTable, nil
	case "direct", "ref", "reference":
		return MethodDirect, nil
	default:
		return 0, fmt.Errorf("unknown method %q", s)
	}
}

// KernelEvaluator returns the band-limiting kernel weight at x input
// samples from the output position. The engine only calls it with
// x in [-filterLength/2, filterLength/2].
type KernelEvaluator interface {
	Evaluate(x float64) float64

	// MemoryUsage reports the bytes held by the evaluator.
	MemoryUsage() int64
}

// KernelParams describes the windowed-sinc kernel for one configuration.
type KernelParams struct {
	FilterLength int
	InputRate    float64
	OutputRate   float64
	Window       filter.WindowSpec
}

// HalfWidth is the kernel support radius in input samples.
func (p KernelParams) HalfWidth() float64 {
	return float64(p.FilterLength) / latencyDivisor
}

// Cutoff is the low-pass corner as a fraction of the input Nyquist. It
// drops below one when downsampling so the output stays alias free.
func (p KernelParams) Cutoff() float64 {
	return math.Min(1, p.OutputRate/p.InputRate)
}

// Func returns the continuous kernel: the scaled sinc times the taper.
func (p KernelParams) Func() filter.Func {
	return filter.Product(filter.Sinc(p.Cutoff()), p.Window.Func(p.HalfWidth()))
}

// NewKernelEvaluator builds the evaluator for method m.
func NewKernelEvaluator(m Method, p KernelParams) (KernelEvaluator, error) {
	switch m {
	case MethodTable:
		return newTableKernel(p)
	case MethodDirect:
		return &directKernel{fn: p.Func(), halfWidth: p.HalfWidth()}, nil
	default:
		return nil, fmt.Errorf("%w: unknown method %d", ErrInvalidConfig, int(m))
	}
}

// newTableKernel tabulates the sinc at TableOversample cells per input
// sample and multiplies the taper in place.
func newTableKernel(p KernelParams) (*functable.Table, error) {
	t, err := functable.New(p.FilterLength*TableOversample, 1.0/TableOversample, filter.Sinc(p.Cutoff()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	t.ComposeMultiply(p.Window.Func(p.HalfWidth()))
	return t, nil
}

type directKernel struct {
	fn        filter.Func
	halfWidth float64
}

// Evaluate clamps x to the kernel support the same way the table does.
func (d *directKernel) Evaluate(x float64) float64 {
	x = math.Max(-d.halfWidth, math.Min(d.halfWidth, x))
	return d.fn.Value(x)
}

func (d *directKernel) MemoryUsage() int64 { return 0 }
