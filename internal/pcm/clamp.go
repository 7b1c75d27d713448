package pcm

import "math"

// ClampInt16 rounds v to the nearest integer (ties to even) and saturates
// it to the int16 range. NaN maps to zero.
func ClampInt16(v float64) int16 {
	switch {
	case math.IsNaN(v):
		return 0
	case v <= math.MinInt16:
		return math.MinInt16
	case v >= math.MaxInt16:
		return math.MaxInt16
	}
	return int16(math.RoundToEven(v))
}

// ClampInt32 rounds v to the nearest integer (ties to even) and saturates
// it to the int32 range. NaN maps to zero.
func ClampInt32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v <= math.MinInt32:
		return math.MinInt32
	case v >= math.MaxInt32:
		return math.MaxInt32
	}
	return int32(math.RoundToEven(v))
}
