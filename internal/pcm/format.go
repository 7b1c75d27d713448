// Package pcm describes interleaved PCM sample formats and converts frames
// between their native byte representation and float64 working values.
package pcm

import (
	"fmt"
	"strings"
)

// Format identifies the element type of an interleaved PCM stream.
// The zero value is FormatUnknown and is not a valid stream format.
type Format int

const (
	// FormatUnknown marks an unset format.
	FormatUnknown Format = iota

	// FormatS16 is signed 16-bit two's-complement.
	FormatS16

	// FormatS32 is signed 32-bit two's-complement.
	FormatS32

	// FormatF32 is IEEE-754 single precision float.
	FormatF32

	// FormatF64 is IEEE-754 double precision float.
	FormatF64
)

// Byte widths of the supported element types.
const (
	widthS16 = 2
	widthS32 = 4
	widthF32 = 4
	widthF64 = 8
)

// ByteWidth returns the size in bytes of a single sample of format f,
// or 0 for FormatUnknown.
func (f Format) ByteWidth() int {
	switch f {
	case FormatS16:
		return widthS16
	case FormatS32:
		return widthS32
	case FormatF32:
		return widthF32
	case FormatF64:
		return widthF64
	default:
		return 0
	}
}

// Valid reports whether f names a supported format.
func (f Format) Valid() bool {
	return f.ByteWidth() != 0
}

func (f Format) String() string {
	switch f {
	case FormatS16:
		return "s16"
	case FormatS32:
		return "s32"
	case FormatF32:
		return "f32"
	case FormatF64:
		return "f64"
	default:
		return "unknown"
	}
}

// ParseFormat converts a name such as "s16" or "f32" into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s16", "int16":
		return FormatS16, nil
	case "s32", "int32":
		return FormatS32, nil
	case "f32", "float32":
		return FormatF32, nil
	case "f64", "float64":
		return FormatF64, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown sample format %q", s)
	}
}
