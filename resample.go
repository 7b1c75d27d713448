package resampler

import (
	"fmt"
	"math"

	"github.com/tphakala/go-pcm-resampler/internal/engine"
	"github.com/tphakala/go-pcm-resampler/internal/filter"
	"github.com/tphakala/go-pcm-resampler/internal/pcm"
	"github.com/tphakala/simd/cpu"
)

// SampleFormat is the PCM element type of interleaved frames.
type SampleFormat = pcm.Format

// Supported sample formats. Samples are host byte order; integers are
// signed two's complement.
const (
	FormatS16 = pcm.FormatS16
	FormatS32 = pcm.FormatS32
	FormatF32 = pcm.FormatF32
	FormatF64 = pcm.FormatF64
)

// Method selects how the band-limiting kernel is evaluated.
type Method = engine.Method

const (
	// MethodTable interpolates a precomputed kernel table (default).
	MethodTable = engine.MethodTable

	// MethodDirect evaluates the windowed sinc analytically per tap.
	MethodDirect = engine.MethodDirect
)

// Window describes the taper applied to the sinc.
type Window = filter.WindowSpec

// WindowKind enumerates the available tapers.
type WindowKind = filter.WindowKind

// Available tapers.
const (
	WindowHanning  = filter.WindowHanning
	WindowKaiser   = filter.WindowKaiser
	WindowGaussian = filter.WindowGaussian
)

// State is the lifecycle position of a Resampler.
type State = engine.State

// Resampler states.
const (
	StateUnconfigured = engine.StateUnconfigured
	StateConfigured   = engine.StateConfigured
	StateStreaming    = engine.StateStreaming
	StateDraining     = engine.StateDraining
	StateFlushed      = engine.StateFlushed
)

// Stats holds running counters of a Resampler.
type Stats = engine.Stats

// Errors returned by the resampler.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = engine.ErrInvalidConfig

	// ErrNotConfigured indicates output was requested before the format,
	// channel count and both rates were set.
	ErrNotConfigured = engine.ErrNotConfigured

	// ErrMisaligned indicates input that is not a whole number of frames.
	ErrMisaligned = engine.ErrMisaligned

	// ErrEndOfStream indicates input added after InputEOS.
	ErrEndOfStream = engine.ErrEndOfStream

	// ErrInconsistentState indicates corrupted phase bookkeeping. The
	// Resampler must be discarded.
	ErrInconsistentState = engine.ErrInconsistentState
)

// Config holds resampling configuration.
type Config struct {
	// Format is the sample type of input and output frames.
	Format SampleFormat

	// Channels is the number of interleaved channels.
	Channels int

	// InputRate is the sample rate of input audio in Hz.
	InputRate float64

	// OutputRate is the desired output sample rate in Hz.
	OutputRate float64

	// FilterLength is the number of taps. Zero selects DefaultFilterLength.
	// Longer filters give a sharper transition band at higher cost.
	FilterLength int

	// Method selects table or direct kernel evaluation.
	Method Method

	// Window selects the taper. The zero value is the Hanning taper.
	Window Window
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !c.Format.Valid() {
		return fmt.Errorf("%w: unsupported sample format %v", ErrInvalidConfig, c.Format)
	}

	if !(c.InputRate > 0) || !(c.OutputRate > 0) || math.IsInf(c.InputRate, 0) || math.IsInf(c.OutputRate, 0) {
		return fmt.Errorf("%w: sample rates must be positive and finite", ErrInvalidConfig)
	}

	if c.Channels < 1 {
		return fmt.Errorf("%w: channels must be at least 1", ErrInvalidConfig)
	}

	if c.FilterLength < 0 {
		return fmt.Errorf("%w: filter length must not be negative", ErrInvalidConfig)
	}

	return c.newEngine().Validate()
}

func (c *Config) filterLength() int {
	if c.FilterLength == 0 {
		return DefaultFilterLength
	}
	return c.FilterLength
}

func (c *Config) newEngine() *engine.Engine {
	e := engine.New()
	e.SetFormat(c.Format)
	e.SetChannels(c.Channels)
	e.SetInputRate(c.InputRate)
	e.SetOutputRate(c.OutputRate)
	e.SetFilterLength(c.filterLength())
	e.SetMethod(c.Method)
	e.SetWindow(c.Window)
	return e
}

// Resampler converts a stream of interleaved PCM frames between two
// sample rates. Input is queued without copying; output is produced on
// demand in whole frames.
//
// A Resampler is not safe for concurrent use.
type Resampler struct {
	config Config
	engine *engine.Engine
}

// New creates a new resampler with the specified configuration.
func New(config *Config) (*Resampler, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := *config
	c.FilterLength = c.filterLength()
	return &Resampler{config: c, engine: c.newEngine()}, nil
}

// Config returns the active configuration.
func (r *Resampler) Config() Config { return r.config }

// SetRates changes both sample rates. The phase restarts on the next
// Output; queued input is kept.
func (r *Resampler) SetRates(inputRate, outputRate float64) error {
	c := r.config
	c.InputRate = inputRate
	c.OutputRate = outputRate
	if err := c.Validate(); err != nil {
		return err
	}

	r.config = c
	r.engine.SetInputRate(inputRate)
	r.engine.SetOutputRate(outputRate)
	return nil
}

// AddInput queues whole frames of input. data is retained without copying
// until consumed or flushed, after which release (if non-nil) is called
// exactly once. On error data is not retained.
func (r *Resampler) AddInput(data []byte, release func()) error {
	return r.engine.AddInput(data, release)
}

// InputEOS signals the end of the stream. Output then drains the filter
// tail. Repeated calls are no-ops.
func (r *Resampler) InputEOS() error {
	return r.engine.InputEOS()
}

// InputFlush discards queued input and restarts the phase for a new stream.
func (r *Resampler) InputFlush() {
	r.engine.InputFlush()
}

// Output writes as many whole output frames into dst as the queued input
// allows and returns the number of bytes written. A short count with a
// nil error means more input is needed.
func (r *Resampler) Output(dst []byte) (int, error) {
	return r.engine.Output(dst)
}

// OutputSizeForInput estimates the output bytes produced by the queued
// input plus n more bytes.
func (r *Resampler) OutputSizeForInput(n int) int {
	return r.engine.OutputSizeForInput(n)
}

// InputSizeForOutput returns the smallest input size, in whole frames,
// for which OutputSizeForInput reports at least n bytes.
func (r *Resampler) InputSizeForOutput(n int) int {
	return r.engine.InputSizeForOutput(n)
}

// Latency returns the filter look-ahead in input frames.
func (r *Resampler) Latency() int {
	return r.engine.Latency()
}

// Ratio returns the resampling ratio (output rate / input rate).
func (r *Resampler) Ratio() float64 {
	return r.engine.Ratio()
}

// FrameSize returns the size of one interleaved frame in bytes.
func (r *Resampler) FrameSize() int {
	return r.engine.FrameSize()
}

// State returns the lifecycle state.
func (r *Resampler) State() State {
	return r.engine.State()
}

// Stats returns processing statistics.
func (r *Resampler) Stats() Stats {
	return r.engine.Stats()
}

// Reset discards queued input and statistics.
func (r *Resampler) Reset() {
	r.engine.Reset()
}

// Close releases all queued input.
func (r *Resampler) Close() error {
	return r.engine.Close()
}

// Info returns information about the resampler implementation.
type Info struct {
	// Algorithm describes the resampling algorithm in use.
	Algorithm string

	// FilterLength is the number of filter taps.
	FilterLength int

	// TableSize is the number of kernel table cells, zero for direct
	// evaluation.
	TableSize int

	// Latency is the processing latency in input frames.
	Latency int

	// MemoryUsage is the approximate memory usage in bytes.
	MemoryUsage int64

	// SIMDEnabled indicates if SIMD optimizations are active.
	SIMDEnabled bool

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

// Info returns information about the resampler.
func (r *Resampler) Info() Info {
	info := Info{
		Algorithm:    fmt.Sprintf("windowed-sinc (%v window, %v kernel)", r.config.Window.Kind, r.config.Method),
		FilterLength: r.config.FilterLength,
		Latency:      r.engine.Latency(),
		MemoryUsage:  r.engine.MemoryUsage(),
		SIMDType:     "none",
	}
	if r.config.Method == MethodTable {
		info.TableSize = r.config.FilterLength * TableOversample
	}
	if simd := cpu.Info(); simd != "" {
		info.SIMDEnabled = true
		info.SIMDType = simd
	}
	return info
}
