package filter

import (
	"fmt"
	"math"

	"github.com/tphakala/go-pcm-resampler/internal/mathutil"
)

// WindowKind selects the taper applied to the sinc kernel.
type WindowKind int

const (
	// WindowHanning is (1-u²)² with u = x/halfWidth, zero at both edges with
	// zero slope there.
	WindowHanning WindowKind = iota

	// WindowKaiser is I0(β·sqrt(1-u²))/I0(β).
	WindowKaiser

	// WindowGaussian is exp(-x²/2σ²). It does not reach zero at the edges.
	WindowGaussian
)

const (
	// DefaultKaiserAttenuation is used to derive β when none is given.
	DefaultKaiserAttenuation = 80.0

	// gaussianSigmaDivisor sets the default σ to halfWidth/2.
	gaussianSigmaDivisor = 2.0
)

func (k WindowKind) String() string {
	switch k {
	case WindowHanning:
		return "hanning"
	case WindowKaiser:
		return "kaiser"
	case WindowGaussian:
		return "gaussian"
	default:
		return fmt.Sprintf("window(%d)", int(k))
	}
}

// ParseWindowKind converts a window name into a WindowKind.
func ParseWindowKind(s string) (WindowKind, error) {
	switch s {
	case "hanning", "hann":
		return WindowHanning, nil
	case "kaiser":
		return WindowKaiser, nil
	case "gaussian", "gauss":
		return WindowGaussian, nil
	default:
		return 0, fmt.Errorf("unknown window %q", s)
	}
}

// WindowSpec selects a taper and its parameters. The zero value is the
// Hanning taper.
type WindowSpec struct {
	Kind WindowKind

	// Beta is the Kaiser shape parameter. When zero it is derived from
	// Attenuation (or DefaultKaiserAttenuation).
	Beta float64

	// Attenuation is the desired Kaiser stopband attenuation in dB.
	Attenuation float64

	// Sigma is the Gaussian width in input samples. Zero means halfWidth/2.
	Sigma float64
}

// Validate checks the window parameters.
func (w WindowSpec) Validate() error {
	switch w.Kind {
	case WindowHanning:
	case WindowKaiser:
		if w.Beta < 0 || w.Attenuation < 0 {
			return fmt.Errorf("kaiser window: beta and attenuation must not be negative")
		}
	case WindowGaussian:
		if w.Sigma < 0 {
			return fmt.Errorf("gaussian window: sigma must not be negative")
		}
	default:
		return fmt.Errorf("unknown window kind %d", int(w.Kind))
	}
	return nil
}

// KaiserBeta returns the β this window resolves to.
func (w WindowSpec) KaiserBeta() float64 {
	if w.Beta > 0 {
		return w.Beta
	}
	att := w.Attenuation
	if att == 0 {
		att = DefaultKaiserAttenuation
	}
	return mathutil.KaiserBeta(att)
}

// Func returns the taper spanning [-halfWidth, halfWidth].
func (w WindowSpec) Func(halfWidth float64) Func {
	switch w.Kind {
	case WindowKaiser:
		return Kaiser(halfWidth, w.KaiserBeta())
	case WindowGaussian:
		sigma := w.Sigma
		if sigma == 0 {
			sigma = halfWidth / gaussianSigmaDivisor
		}
		return Gaussian(sigma)
	default:
		return Hanning(halfWidth)
	}
}

// Hanning returns the (1-u²)² taper with u = x/width, zero outside
// (-width, width).
func Hanning(width float64) Func {
	return func(x float64) (float64, float64) {
		if x <= -width || x >= width {
			return 0, 0
		}
		u := x / width
		v := 1 - u*u
		return v * v, -4 * u * v / width
	}
}

// Kaiser returns the continuous Kaiser taper over (-width, width).
func Kaiser(width, beta float64) Func {
	return func(x float64) (float64, float64) {
		w, dw := mathutil.KaiserTaper(x/width, beta)
		return w, dw / width
	}
}

// Gaussian returns exp(-x²/2σ²).
func Gaussian(sigma float64) Func {
	inv := 1 / (sigma * sigma)
	return func(x float64) (float64, float64) {
		fx := math.Exp(-0.5 * x * x * inv)
		return fx, -x * inv * fx
	}
}
