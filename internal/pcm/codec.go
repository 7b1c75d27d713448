package pcm

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Sample is the set of Go element types that back a Format.
type Sample interface {
	int16 | int32 | float32 | float64
}

// Codec converts whole interleaved frames of one format and channel count.
// The per-format conversion is selected once in NewCodec so the hot path
// never switches on the format.
type Codec struct {
	format    Format
	channels  int
	frameSize int

	decode func(src []byte, dst []float64)
	encode func(dst []byte, src []float64)
}

// NewCodec returns a codec for frames of the given format and channel count.
func NewCodec(format Format, channels int) (*Codec, error) {
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}

	c := &Codec{
		format:    format,
		channels:  channels,
		frameSize: channels * format.ByteWidth(),
	}

	switch format {
	case FormatS16:
		bindCodec(c, elementCodec[int16]())
	case FormatS32:
		bindCodec(c, elementCodec[int32]())
	case FormatF32:
		bindCodec(c, elementCodec[float32]())
	case FormatF64:
		bindCodec(c, elementCodec[float64]())
	default:
		return nil, fmt.Errorf("unsupported sample format: %v", format)
	}

	return c, nil
}

// Format returns the codec's sample format.
func (c *Codec) Format() Format { return c.format }

// Channels returns the number of interleaved channels per frame.
func (c *Codec) Channels() int { return c.channels }

// FrameSize returns the size of one interleaved frame in bytes.
func (c *Codec) FrameSize() int { return c.frameSize }

// DecodeFrame reads one frame from src into dst, one value per channel.
// src must hold at least FrameSize bytes and dst at least Channels values.
func (c *Codec) DecodeFrame(src []byte, dst []float64) {
	c.decode(src, dst)
}

// EncodeFrame writes one frame of per-channel values into dst.
// Integer formats are rounded to nearest and saturated.
func (c *Codec) EncodeFrame(dst []byte, src []float64) {
	c.encode(dst, src)
}

// element holds the native byte accessors for a single sample type.
type element[T Sample] struct {
	width int
	get   func(b []byte) T
	put   func(b []byte, v T)
	from  func(v float64) T
}

func bindCodec[T Sample](c *Codec, e element[T]) {
	width := e.width
	c.decode = func(src []byte, dst []float64) {
		for ch := range c.channels {
			dst[ch] = float64(e.get(src[ch*width:]))
		}
	}
	c.encode = func(dst []byte, src []float64) {
		for ch := range c.channels {
			e.put(dst[ch*width:], e.from(src[ch]))
		}
	}
}

// elementCodec returns the byte accessors for T in host byte order.
// The type switch runs at instantiation time only.
func elementCodec[T Sample]() element[T] {
	var zero T
	var e any
	switch any(zero).(type) {
	case int16:
		e = element[int16]{
			width: widthS16,
			get:   func(b []byte) int16 { return int16(binary.NativeEndian.Uint16(b)) },
			put:   func(b []byte, v int16) { binary.NativeEndian.PutUint16(b, uint16(v)) },
			from:  ClampInt16,
		}
	case int32:
		e = element[int32]{
			width: widthS32,
			get:   func(b []byte) int32 { return int32(binary.NativeEndian.Uint32(b)) },
			put:   func(b []byte, v int32) { binary.NativeEndian.PutUint32(b, uint32(v)) },
			from:  ClampInt32,
		}
	case float32:
		e = element[float32]{
			width: widthF32,
			get:   func(b []byte) float32 { return math.Float32frombits(binary.NativeEndian.Uint32(b)) },
			put:   func(b []byte, v float32) { binary.NativeEndian.PutUint32(b, math.Float32bits(v)) },
			from:  func(v float64) float32 { return float32(v) },
		}
	case float64:
		e = element[float64]{
			width: widthF64,
			get:   func(b []byte) float64 { return math.Float64frombits(binary.NativeEndian.Uint64(b)) },
			put:   func(b []byte, v float64) { binary.NativeEndian.PutUint64(b, math.Float64bits(v)) },
			from:  func(v float64) float64 { return v },
		}
	}

	out, ok := e.(element[T])
	if !ok {
		panic("pcm: unsupported sample type")
	}
	return out
}

// FormatOf returns the Format backed by Go type T.
func FormatOf[T Sample]() Format {
	var zero T
	switch any(zero).(type) {
	case int16:
		return FormatS16
	case int32:
		return FormatS32
	case float32:
		return FormatF32
	case float64:
		return FormatF64
	default:
		return FormatUnknown
	}
}

// Bytes encodes samples into a freshly allocated host-order byte slice.
func Bytes[T Sample](samples []T) []byte {
	e := elementCodec[T]()
	out := make([]byte, len(samples)*e.width)
	for i, s := range samples {
		e.put(out[i*e.width:], s)
	}
	return out
}

// Samples decodes a host-order byte slice into samples of type T.
// Trailing bytes that do not form a whole sample are ignored.
func Samples[T Sample](b []byte) []T {
	e := elementCodec[T]()
	out := make([]T, len(b)/e.width)
	for i := range out {
		out[i] = e.get(b[i*e.width:])
	}
	return out
}
