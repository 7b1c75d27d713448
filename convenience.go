package resampler

import (
	"fmt"

	"github.com/tphakala/go-pcm-resampler/internal/pcm"
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes88 is the high-resolution 2x CD sample rate.
	RateHiRes88 = 88200

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000

	// RateSpeech is the speech recognition common sample rate.
	RateSpeech = 22050
)

// NewCDtoDAT creates a stereo resampler for CD (44.1kHz) to DAT (48kHz)
// conversion in the given format.
func NewCDtoDAT(format SampleFormat) (*Resampler, error) {
	return NewStereo(format, RateCD, RateDAT)
}

// NewDATtoCD creates a stereo resampler for DAT (48kHz) to CD (44.1kHz)
// conversion in the given format.
func NewDATtoCD(format SampleFormat) (*Resampler, error) {
	return NewStereo(format, RateDAT, RateCD)
}

// NewStereo creates a stereo resampler with default filter settings.
func NewStereo(format SampleFormat, inputRate, outputRate float64) (*Resampler, error) {
	return New(&Config{
		Format:     format,
		Channels:   stereoChannels,
		InputRate:  inputRate,
		OutputRate: outputRate,
	})
}

// ResampleBytes converts a complete interleaved stream in one call,
// including the drained filter tail.
func ResampleBytes(data []byte, format SampleFormat, channels int, inputRate, outputRate float64) ([]byte, error) {
	r, err := New(&Config{
		Format:     format,
		Channels:   channels,
		InputRate:  inputRate,
		OutputRate: outputRate,
	})
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return r.convertAll(data)
}

// convertAll feeds data, signals end of stream and drains all output.
func (r *Resampler) convertAll(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	if err := r.AddInput(data, nil); err != nil {
		return nil, err
	}
	if err := r.InputEOS(); err != nil {
		return nil, err
	}

	fs := r.FrameSize()
	out := make([]byte, 0, r.OutputSizeForInput(0)+(r.Latency()+1)*fs)
	buf := make([]byte, drainChunkFrames*fs)
	for {
		n, err := r.Output(buf)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return out, nil
		}
		out = append(out, buf[:n]...)
	}
}

// resampleSamples converts an interleaved sample slice of any supported
// element type.
func resampleSamples[T pcm.Sample](input []T, channels int, inputRate, outputRate float64) ([]T, error) {
	if channels > 0 && len(input)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples for %d channels", ErrMisaligned, len(input), channels)
	}
	out, err := ResampleBytes(pcm.Bytes(input), pcm.FormatOf[T](), channels, inputRate, outputRate)
	if err != nil {
		return nil, err
	}
	return pcm.Samples[T](out), nil
}

// ResampleInt16 converts interleaved 16-bit samples in one call.
func ResampleInt16(input []int16, channels int, inputRate, outputRate float64) ([]int16, error) {
	return resampleSamples(input, channels, inputRate, outputRate)
}

// ResampleInt32 converts interleaved 32-bit samples in one call.
func ResampleInt32(input []int32, channels int, inputRate, outputRate float64) ([]int32, error) {
	return resampleSamples(input, channels, inputRate, outputRate)
}

// ResampleFloat32 converts interleaved float32 samples in one call.
func ResampleFloat32(input []float32, channels int, inputRate, outputRate float64) ([]float32, error) {
	return resampleSamples(input, channels, inputRate, outputRate)
}

// ResampleFloat64 converts interleaved float64 samples in one call.
func ResampleFloat64(input []float64, channels int, inputRate, outputRate float64) ([]float64, error) {
	return resampleSamples(input, channels, inputRate, outputRate)
}

// ResampleMono is a convenience function for one-shot mono resampling.
func ResampleMono(input []float64, inputRate, outputRate float64) ([]float64, error) {
	return ResampleFloat64(input, monoChannels, inputRate, outputRate)
}

// ResampleStereo is a convenience function for one-shot stereo resampling
// of planar channels.
func ResampleStereo(left, right []float64, inputRate, outputRate float64) (leftOut, rightOut []float64, err error) {
	out, err := ResampleFloat64(InterleaveToStereo(left, right), stereoChannels, inputRate, outputRate)
	if err != nil {
		return nil, nil, err
	}
	leftOut, rightOut = DeinterleaveFromStereo(out)
	return leftOut, rightOut, nil
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
func InterleaveToStereo(left, right []float64) []float64 {
	n := min(len(left), len(right))
	result := make([]float64, n*stereoChannels)
	f64.Interleave2(result, left[:n], right[:n])
	return result
}

// InterleaveToStereoFloat32 is InterleaveToStereo for float32 samples.
func InterleaveToStereoFloat32(left, right []float32) []float32 {
	n := min(len(left), len(right))
	result := make([]float32, n*stereoChannels)
	f32.Interleave2(result, left[:n], right[:n])
	return result
}

// DeinterleaveFromStereo converts interleaved stereo to two mono channels.
// Input format: [L0, R0, L1, R1, L2, R2, ...]
func DeinterleaveFromStereo(interleaved []float64) (left, right []float64) {
	return deinterleave2(interleaved)
}

// DeinterleaveFromStereoFloat32 is DeinterleaveFromStereo for float32 samples.
func DeinterleaveFromStereoFloat32(interleaved []float32) (left, right []float32) {
	return deinterleave2(interleaved)
}

func deinterleave2[T float32 | float64](interleaved []T) (left, right []T) {
	n := len(interleaved) / stereoChannels
	left = make([]T, n)
	right = make([]T, n)
	for i := range n {
		left[i] = interleaved[i*stereoChannels]
		right[i] = interleaved[i*stereoChannels+1]
	}
	return left, right
}

// Sample is the set of element types with a matching SampleFormat.
type Sample = pcm.Sample

// EncodeSamples packs interleaved samples into host-order bytes suitable
// for AddInput.
func EncodeSamples[T Sample](samples []T) []byte {
	return pcm.Bytes(samples)
}

// DecodeSamples unpacks host-order bytes returned by Output.
func DecodeSamples[T Sample](data []byte) []T {
	return pcm.Samples[T](data)
}
