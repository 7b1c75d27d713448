package filter

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	minMagnitude = 1e-10 // floor for MagnitudeDB
	dbMultiplier = 20.0

	defaultSpectrumSize = 1024
)

// SampleFIR samples kernel at the 2·halfWidth points x = k - frac for
// k = -halfWidth+1 .. halfWidth, the taps one output sample at fractional
// delay frac would use.
func SampleFIR(kernel Func, halfWidth int, frac float64) []float64 {
	taps := make([]float64, 2*halfWidth)
	for i := range taps {
		x := float64(i-halfWidth+1) - frac
		taps[i] = kernel.Value(x)
	}
	return taps
}

// DCGain returns the sum of taps.
func DCGain(taps []float64) float64 {
	if len(taps) == 0 {
		return 0
	}
	return f64.Sum(taps)
}

// Response is a magnitude response from DC to Nyquist.
type Response struct {
	// Frequencies in cycles per sample (0 to 0.5).
	Frequencies []float64

	// Magnitude is linear gain at each frequency.
	Magnitude []float64
}

// Spectrum computes the magnitude response of taps with a zero-padded real
// FFT of size n (rounded up to hold all taps; default 1024).
func Spectrum(taps []float64, n int) Response {
	if n <= 0 {
		n = defaultSpectrumSize
	}
	for n < len(taps) {
		n *= 2
	}

	padded := make([]float64, n)
	copy(padded, taps)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, padded)

	resp := Response{
		Frequencies: make([]float64, len(coeffs)),
		Magnitude:   make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		resp.Frequencies[i] = fft.Freq(i)
		resp.Magnitude[i] = cmplx.Abs(c)
	}
	return resp
}

// MagnitudeDB converts linear magnitude to decibels, flooring at -200 dB.
func MagnitudeDB(magnitude float64) float64 {
	return dbMultiplier * math.Log10(math.Max(magnitude, minMagnitude))
}

// PeakDB returns the largest magnitude in dB at or above frequency from.
func (r Response) PeakDB(from float64) float64 {
	peak := 0.0
	for i, f := range r.Frequencies {
		if f >= from {
			peak = math.Max(peak, r.Magnitude[i])
		}
	}
	return MagnitudeDB(peak)
}
