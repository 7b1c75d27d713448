package resampler

import "github.com/tphakala/go-pcm-resampler/internal/engine"

// Filter configuration.
const (
	// DefaultFilterLength is the tap count used when Config.FilterLength is zero.
	DefaultFilterLength = engine.DefaultFilterLength

	// MaxFilterLength is the largest supported tap count.
	MaxFilterLength = engine.MaxFilterLength

	// MaxChannels is the largest supported channel count.
	MaxChannels = engine.MaxChannels

	// TableOversample is the number of kernel table cells per input sample.
	TableOversample = engine.TableOversample
)

// Channel constants
const (
	monoChannels   = 1
	stereoChannels = 2
)

// Streaming constants
const (
	// drainChunkFrames is the output buffer size, in frames, used by the
	// one-shot helpers.
	drainChunkFrames = 4096
)
