package testutil

import "math"

// Sine returns n samples of amp·sin(2π·freq·i/rate).
func Sine(n int, freq, rate, amp float64) []float64 {
	out := make([]float64, n)
	omega := 2 * math.Pi * freq / rate
	for i := range out {
		out[i] = amp * math.Sin(omega*float64(i))
	}
	return out
}

// Interleave merges equal-length channels into one interleaved slice.
func Interleave[T any](channels ...[]T) []T {
	if len(channels) == 0 {
		return nil
	}
	n := len(channels[0])
	out := make([]T, 0, n*len(channels))
	for i := range n {
		for _, ch := range channels {
			out = append(out, ch[i])
		}
	}
	return out
}

// Channel extracts channel ch from interleaved data with the given channel count.
func Channel[T any](data []T, channels, ch int) []T {
	out := make([]T, 0, len(data)/channels)
	for i := ch; i < len(data); i += channels {
		out = append(out, data[i])
	}
	return out
}

// ToInt16 scales values in [-1, 1] to int16 with rounding.
func ToInt16(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		out[i] = int16(math.Round(s * math.MaxInt16))
	}
	return out
}
