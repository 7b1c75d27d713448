package engine

// Configuration limits.
const (
	// DefaultFilterLength is the number of taps used when none is set.
	DefaultFilterLength = 16

	// MinFilterLength and MaxFilterLength bound the tap count.
	MinFilterLength = 2
	MaxFilterLength = 1024

	// MaxChannels is the largest supported channel count.
	MaxChannels = 256

	// Supported output/input ratio range.
	minRatio = 1.0 / 256.0
	maxRatio = 256.0
)

// Kernel table layout.
const (
	// TableOversample is the number of kernel table cells per input sample.
	TableOversample = 16

	// latencyDivisor halves the filter length: the look-ahead of a
	// symmetric FIR.
	latencyDivisor = 2
)

// Phase bookkeeping.
const (
	// phaseTolerance is the relative slack allowed on the phase bound
	// before the engine declares its state inconsistent.
	phaseTolerance = 1e-9

	// halfStep is the phase window, in units of iInc, around the current
	// output position.
	halfStep = 0.5
)

// Size queries.
const (
	// sizeCorrectionFrames bounds the frame-by-frame adjustment of the
	// InputSizeForOutput estimate.
	sizeCorrectionFrames = 4
)

// Memory accounting.
const (
	bytesPerFloat64 = 8
)
