// Package engine implements the streaming windowed-sinc rate converter.
//
// An Engine accepts interleaved PCM chunks of any whole-frame size,
// queues them without copying and produces output on demand. Conversion
// follows a phase accumulator: each output frame is the convolution of a
// sliding window of filterLength input frames with the band-limiting
// kernel sampled at the current fractional phase.
//
// An Engine is not safe for concurrent use.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-pcm-resampler/internal/bufqueue"
	"github.com/tphakala/go-pcm-resampler/internal/debuglog"
	"github.com/tphakala/go-pcm-resampler/internal/filter"
	"github.com/tphakala/go-pcm-resampler/internal/pcm"
)

// Sentinel errors.
var (
	// ErrInvalidConfig reports a configuration that cannot be converted:
	// degenerate rates, unsupported format, channel count or filter length.
	ErrInvalidConfig = errors.New("invalid resampler configuration")

	// ErrNotConfigured is returned when format, channels and both rates
	// have not all been set.
	ErrNotConfigured = errors.New("resampler not configured")

	// ErrMisaligned is returned for input that is not a whole number of frames.
	ErrMisaligned = errors.New("input not aligned to frame size")

	// ErrEndOfStream is returned by AddInput after InputEOS.
	ErrEndOfStream = errors.New("input after end of stream")

	// ErrInconsistentState is returned once the phase bookkeeping has been
	// found corrupt. The engine stays unusable.
	ErrInconsistentState = errors.New("resampler state inconsistent")
)

// State is the stream lifecycle position.
type State int

// Engine states.
const (
	StateUnconfigured State = iota
	StateConfigured
	StateStreaming
	StateDraining
	StateFlushed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConfigured:
		return "configured"
	case StateStreaming:
		return "streaming"
	case StateDraining:
		return "draining"
	case StateFlushed:
		return "flushed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats holds running counters.
type Stats struct {
	// FramesIn counts frames accepted by AddInput.
	FramesIn int64

	// FramesOut counts frames written by Output.
	FramesOut int64

	// QueuedBytes is the current input queue depth.
	QueuedBytes int

	// QueueOffset is the number of bytes pulled from the queue since the
	// last flush.
	QueueOffset int64
}

// Engine converts interleaved PCM between two sample rates.
type Engine struct {
	// Configuration
	format       pcm.Format
	channels     int
	inputRate    float64
	outputRate   float64
	filterLength int
	method       Method
	window       filter.WindowSpec

	// Runtime, rebuilt by reinit
	codec   *pcm.Codec
	kernel  KernelEvaluator
	iStart  float64
	iInc    float64
	oInc    float64
	history [][]float64 // per channel, oldest frame first
	weights []float64
	raw     []byte // one encoded input frame
	frame   []float64
	acc     []float64

	queue       *bufqueue.Queue
	state       State
	needsReinit bool
	eos         bool
	padBytes    int // post-roll silence queued by InputEOS
	broken      bool

	// Statistics
	framesIn  int64
	framesOut int64
}

// New returns an unconfigured engine with the default filter length,
// table evaluation and Hanning taper.
func New() *Engine {
	return &Engine{
		filterLength: DefaultFilterLength,
		method:       MethodTable,
		queue:        bufqueue.NewQueue(),
		state:        StateUnconfigured,
		needsReinit:  true,
	}
}

// SetFormat sets the sample format.
func (e *Engine) SetFormat(f pcm.Format) {
	e.format = f
	e.configChanged()
}

// SetChannels sets the number of interleaved channels.
func (e *Engine) SetChannels(n int) {
	e.channels = n
	e.configChanged()
}

// SetInputRate sets the input sample rate in Hz.
func (e *Engine) SetInputRate(hz float64) {
	e.inputRate = hz
	e.configChanged()
}

// SetOutputRate sets the output sample rate in Hz.
func (e *Engine) SetOutputRate(hz float64) {
	e.outputRate = hz
	e.configChanged()
}

// SetFilterLength sets the number of taps.
func (e *Engine) SetFilterLength(taps int) {
	e.filterLength = taps
	e.configChanged()
}

// SetMethod selects the kernel evaluation strategy.
func (e *Engine) SetMethod(m Method) {
	e.method = m
	e.configChanged()
}

// SetWindow selects the taper applied to the sinc.
func (e *Engine) SetWindow(w filter.WindowSpec) {
	e.window = w
	e.configChanged()
}

// configChanged marks the runtime state stale and tracks whether the
// required settings are present.
func (e *Engine) configChanged() {
	e.needsReinit = true
	switch {
	case !e.hasConfig():
		e.state = StateUnconfigured
	case e.state == StateUnconfigured:
		e.state = StateConfigured
	}
}

func (e *Engine) hasConfig() bool {
	return e.format != pcm.FormatUnknown && e.channels != 0 && e.inputRate != 0 && e.outputRate != 0
}

// frameSize returns channels·byteWidth, or zero while the format or
// channel count is unusable.
func (e *Engine) frameSize() int {
	if !e.hasConfig() || e.channels < 1 || e.channels > MaxChannels {
		return 0
	}
	return e.channels * e.format.ByteWidth()
}

// Validate checks the current configuration.
func (e *Engine) Validate() error {
	if !e.hasConfig() {
		return ErrNotConfigured
	}
	if !e.format.Valid() {
		return fmt.Errorf("%w: unsupported format %v", ErrInvalidConfig, e.format)
	}
	if e.channels < 1 || e.channels > MaxChannels {
		return fmt.Errorf("%w: channels must be between 1 and %d, got %d", ErrInvalidConfig, MaxChannels, e.channels)
	}
	if !validRate(e.inputRate) || !validRate(e.outputRate) {
		return fmt.Errorf("%w: sample rates must be positive and finite: input=%g, output=%g",
			ErrInvalidConfig, e.inputRate, e.outputRate)
	}
	if ratio := e.outputRate / e.inputRate; ratio < minRatio || ratio > maxRatio {
		return fmt.Errorf("%w: ratio %g outside [%g, %g]", ErrInvalidConfig, ratio, minRatio, maxRatio)
	}
	if e.filterLength < MinFilterLength || e.filterLength > MaxFilterLength {
		return fmt.Errorf("%w: filter length must be between %d and %d, got %d",
			ErrInvalidConfig, MinFilterLength, MaxFilterLength, e.filterLength)
	}
	if !e.method.Valid() {
		return fmt.Errorf("%w: unknown method %d", ErrInvalidConfig, int(e.method))
	}
	if err := e.window.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func validRate(hz float64) bool {
	return hz > 0 && !math.IsInf(hz, 0) && !math.IsNaN(hz)
}

// AddInput queues data for conversion. The engine keeps data without
// copying until every frame in it has been consumed or flushed, then calls
// release (if non-nil) exactly once. The caller must not modify data
// before that. On error data is not retained and release is not called.
func (e *Engine) AddInput(data []byte, release func()) error {
	switch {
	case e.broken:
		return ErrInconsistentState
	case e.eos:
		return ErrEndOfStream
	}
	if err := e.Validate(); err != nil {
		return err
	}

	fs := e.frameSize()
	if len(data)%fs != 0 {
		return fmt.Errorf("%w: %d bytes with %d-byte frames", ErrMisaligned, len(data), fs)
	}
	if len(data) == 0 {
		if release != nil {
			release()
		}
		return nil
	}

	e.queue.Push(bufqueue.New(data, release))
	e.framesIn += int64(len(data) / fs)
	return nil
}

// InputEOS marks the end of the stream. It queues filterLength/2 frames of
// silence so the window can slide past the last real frame. A stream that
// never received a frame gets no padding and drains to nothing. Calls after
// the first are no-ops.
func (e *Engine) InputEOS() error {
	switch {
	case e.broken:
		return ErrInconsistentState
	case e.eos:
		debuglog.Debugf("end of stream already signalled")
		return nil
	}
	if err := e.Validate(); err != nil {
		return err
	}

	if e.queue.Depth() > 0 || e.queue.Offset() > 0 {
		e.padTail(e.padSize())
	}
	e.eos = true
	e.state = StateDraining
	debuglog.Debugf("draining, %d bytes queued", e.queue.Depth())
	return nil
}

// padSize is the post-roll silence for the current configuration in bytes.
func (e *Engine) padSize() int {
	return e.frameSize() * (e.filterLength / latencyDivisor)
}

// padTail grows the silence at the end of the queue to want bytes. The
// padding is always the tail because no input is accepted after EOS.
func (e *Engine) padTail(want int) {
	have := min(e.padBytes, e.queue.Depth())
	if want > have {
		e.queue.Push(bufqueue.Alloc(want - have))
		have = want
	}
	e.padBytes = have
}

// InputFlush discards queued input and restarts the phase. The engine is
// ready for a new stream afterwards.
func (e *Engine) InputFlush() {
	e.queue.Flush()
	for _, h := range e.history {
		clear(h)
	}
	e.needsReinit = true
	e.eos = false
	e.padBytes = 0
	if e.hasConfig() {
		e.state = StateConfigured
	}
}

// Reset flushes input and clears statistics. An inconsistent engine stays
// inconsistent.
func (e *Engine) Reset() {
	e.InputFlush()
	e.framesIn = 0
	e.framesOut = 0
}

// Close releases all queued input.
func (e *Engine) Close() error {
	e.queue.Flush()
	e.history = nil
	e.kernel = nil
	e.needsReinit = true
	return nil
}

// OutputSizeForInput returns how many output bytes the queued input plus
// n more bytes correspond to, rounded down to whole frames and capped at
// the largest whole-frame int. It is advisory: the first output of a
// stream lags by the filter delay.
func (e *Engine) OutputSizeForInput(n int) int {
	fs := e.frameSize()
	if fs == 0 || !validRate(e.inputRate) || !validRate(e.outputRate) || n < 0 {
		return 0
	}
	limit := maxFrameBytes(fs)
	out := math.Floor((float64(e.queue.Depth()) + float64(n)) * e.outputRate / e.inputRate)
	if out >= float64(limit) {
		return limit
	}
	size := int(out)
	return size - size%fs
}

// InputSizeForOutput returns the smallest whole-frame input size for which
// OutputSizeForInput reports at least n bytes. Requests beyond what any
// int-sized input can produce return the largest whole-frame int.
func (e *Engine) InputSizeForOutput(n int) int {
	fs := e.frameSize()
	if fs == 0 || !validRate(e.inputRate) || !validRate(e.outputRate) || n <= 0 {
		return 0
	}
	limit := maxFrameBytes(fs)
	if n > limit {
		return limit
	}

	// Whole output frames are needed, so solve for n rounded up to one.
	target := float64(n + (fs-n%fs)%fs)
	guess := math.Ceil(target*e.inputRate/e.outputRate) - float64(e.queue.Depth())
	if guess >= float64(limit) {
		return limit
	}
	need := max(int(guess), 0)
	if rem := need % fs; rem != 0 {
		need += fs - rem
	}

	// The estimate is off by rounding only; settle on the minimal size.
	for range sizeCorrectionFrames {
		if need >= limit || e.OutputSizeForInput(need) >= n {
			break
		}
		need += fs
	}
	for range sizeCorrectionFrames {
		if need < fs || e.OutputSizeForInput(need-fs) < n {
			break
		}
		need -= fs
	}
	return need
}

// maxFrameBytes is the largest multiple of fs an int can hold.
func maxFrameBytes(fs int) int {
	return math.MaxInt - math.MaxInt%fs
}

// Latency returns the filter look-ahead in input frames.
func (e *Engine) Latency() int {
	return e.filterLength / latencyDivisor
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Stats returns the running counters.
func (e *Engine) Stats() Stats {
	return Stats{
		FramesIn:    e.framesIn,
		FramesOut:   e.framesOut,
		QueuedBytes: e.queue.Depth(),
		QueueOffset: e.queue.Offset(),
	}
}

// Ratio returns outputRate/inputRate.
func (e *Engine) Ratio() float64 {
	return e.outputRate / e.inputRate
}

// Format returns the configured sample format.
func (e *Engine) Format() pcm.Format { return e.format }

// Channels returns the configured channel count.
func (e *Engine) Channels() int { return e.channels }

// FilterLength returns the configured tap count.
func (e *Engine) FilterLength() int { return e.filterLength }

// Method returns the kernel evaluation strategy.
func (e *Engine) Method() Method { return e.method }

// FrameSize returns the size of one interleaved frame in bytes.
func (e *Engine) FrameSize() int { return e.frameSize() }

// MemoryUsage estimates the bytes held by the kernel and window.
func (e *Engine) MemoryUsage() int64 {
	usage := int64(e.channels*e.filterLength+e.filterLength) * bytesPerFloat64
	switch {
	case e.kernel != nil:
		usage += e.kernel.MemoryUsage()
	case e.method == MethodTable:
		// Values and derivatives at every table point.
		usage += int64(e.filterLength*TableOversample+1) * 2 * bytesPerFloat64
	}
	return usage
}
