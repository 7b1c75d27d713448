package engine

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-pcm-resampler/internal/filter"
	"github.com/tphakala/go-pcm-resampler/internal/pcm"
	"github.com/tphakala/go-pcm-resampler/internal/testutil"
)

func newTestEngine(t testing.TB, format pcm.Format, channels int, in, out float64) *Engine {
	t.Helper()
	e := New()
	e.SetFormat(format)
	e.SetChannels(channels)
	e.SetInputRate(in)
	e.SetOutputRate(out)
	require.Equal(t, StateConfigured, e.State())
	return e
}

// drain calls Output with chunk-sized buffers until it returns nothing.
func drain(t testing.TB, e *Engine, chunk int) []byte {
	t.Helper()
	var out []byte
	buf := make([]byte, chunk)
	for {
		n, err := e.Output(buf)
		require.NoError(t, err)
		if n == 0 {
			return out
		}
		out = append(out, buf[:n]...)
	}
}

// convert runs a whole interleaved float64 signal through a fresh engine.
func convert(t testing.TB, method Method, channels, taps int, in, out float64, signal []float64) []float64 {
	t.Helper()
	e := newTestEngine(t, pcm.FormatF64, channels, in, out)
	e.SetMethod(method)
	e.SetFilterLength(taps)
	require.NoError(t, e.AddInput(pcm.Bytes(signal), nil))
	require.NoError(t, e.InputEOS())
	return pcm.Samples[float64](drain(t, e, 4096))
}

// =============================================================================
// Configuration and state machine
// =============================================================================

func TestEngine_StateProgression(t *testing.T) {
	e := New()
	assert.Equal(t, StateUnconfigured, e.State())

	e.SetFormat(pcm.FormatS16)
	e.SetChannels(2)
	e.SetInputRate(48000)
	assert.Equal(t, StateUnconfigured, e.State())

	e.SetOutputRate(44100)
	assert.Equal(t, StateConfigured, e.State())

	n, err := e.Output(make([]byte, 64))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, StateStreaming, e.State())

	require.NoError(t, e.InputEOS())
	assert.Equal(t, StateDraining, e.State())

	drain(t, e, 64)
	assert.Equal(t, StateFlushed, e.State())

	e.InputFlush()
	assert.Equal(t, StateConfigured, e.State())

	e.SetChannels(0)
	assert.Equal(t, StateUnconfigured, e.State())
}

func TestEngine_NotConfigured(t *testing.T) {
	e := New()
	e.SetFormat(pcm.FormatS16)

	n, err := e.Output(make([]byte, 16))
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, n)

	assert.ErrorIs(t, e.AddInput(make([]byte, 4), nil), ErrNotConfigured)
	assert.ErrorIs(t, e.InputEOS(), ErrNotConfigured)
	assert.Zero(t, e.OutputSizeForInput(4096))
	assert.Zero(t, e.InputSizeForOutput(4096))
}

func TestEngine_InvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		apply func(e *Engine)
	}{
		{"negative input rate", func(e *Engine) { e.SetInputRate(-48000) }},
		{"NaN output rate", func(e *Engine) { e.SetOutputRate(math.NaN()) }},
		{"infinite input rate", func(e *Engine) { e.SetInputRate(math.Inf(1)) }},
		{"ratio too large", func(e *Engine) { e.SetOutputRate(48000 * 1000) }},
		{"ratio too small", func(e *Engine) { e.SetOutputRate(48) }},
		{"too many channels", func(e *Engine) { e.SetChannels(MaxChannels + 1) }},
		{"negative channels", func(e *Engine) { e.SetChannels(-2) }},
		{"filter too short", func(e *Engine) { e.SetFilterLength(1) }},
		{"filter too long", func(e *Engine) { e.SetFilterLength(MaxFilterLength + 1) }},
		{"unknown format", func(e *Engine) { e.SetFormat(pcm.Format(42)) }},
		{"unknown method", func(e *Engine) { e.SetMethod(Method(9)) }},
		{"unknown window", func(e *Engine) { e.SetWindow(filter.WindowSpec{Kind: filter.WindowKind(9)}) }},
		{"negative sigma", func(e *Engine) {
			e.SetWindow(filter.WindowSpec{Kind: filter.WindowGaussian, Sigma: -1})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, pcm.FormatS16, 2, 48000, 44100)
			tt.apply(e)

			n, err := e.Output(make([]byte, 64))
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Zero(t, n)
			assert.ErrorIs(t, e.AddInput(make([]byte, 8), nil), ErrInvalidConfig)
		})
	}
}

func TestEngine_ZeroRateIsNotConfigured(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 1, 48000, 44100)
	e.SetInputRate(0)

	_, err := e.Output(make([]byte, 8))
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, e.OutputSizeForInput(1000))
}

func TestEngine_OutputBeforeInput(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 2, 48000, 44100)

	n, err := e.Output(make([]byte, 4096))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEngine_OutputSmallerThanFrame(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS32, 2, 44100, 44100)
	require.NoError(t, e.AddInput(make([]byte, 8*64), nil))

	n, err := e.Output(make([]byte, 7))
	require.NoError(t, err)
	assert.Zero(t, n)
}

// =============================================================================
// Input handling
// =============================================================================

func TestEngine_AddInputMisaligned(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 2, 48000, 44100)

	released := 0
	err := e.AddInput(make([]byte, 6), func() { released++ })
	assert.ErrorIs(t, err, ErrMisaligned)
	assert.Zero(t, released)
	assert.Zero(t, e.Stats().QueuedBytes)
}

func TestEngine_AddInputEmpty(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 2, 48000, 44100)

	released := 0
	require.NoError(t, e.AddInput(nil, func() { released++ }))
	assert.Equal(t, 1, released)
	assert.Zero(t, e.Stats().QueuedBytes)
}

func TestEngine_AddInputAfterEOS(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 2, 48000, 44100)
	require.NoError(t, e.InputEOS())

	assert.ErrorIs(t, e.AddInput(make([]byte, 4), nil), ErrEndOfStream)

	e.InputFlush()
	assert.NoError(t, e.AddInput(make([]byte, 4), nil))
}

func TestEngine_InputEOSTwice(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 2, 48000, 44100)
	require.NoError(t, e.AddInput(make([]byte, 400), nil))

	require.NoError(t, e.InputEOS())
	depth := e.Stats().QueuedBytes
	assert.Equal(t, 400+4*8, depth, "EOS pads filterLength/2 frames")

	require.NoError(t, e.InputEOS())
	assert.Equal(t, depth, e.Stats().QueuedBytes)

	out := drain(t, e, 256)
	assert.Equal(t, StateFlushed, e.State())

	require.NoError(t, e.InputEOS())
	assert.Equal(t, StateFlushed, e.State())
	assert.Zero(t, e.Stats().QueuedBytes)

	n, err := e.Output(make([]byte, 256))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NotEmpty(t, out)
}

func TestEngine_ReleaseCallbacks(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 2, 44100, 48000)

	released := make([]int, 5)
	for i := range released {
		require.NoError(t, e.AddInput(make([]byte, 4*100), func() { released[i]++ }))
	}
	require.NoError(t, e.InputEOS())

	drain(t, e, 333)
	assert.Equal(t, []int{1, 1, 1, 1, 1}, released)
}

func TestEngine_CloseReleasesQueuedInput(t *testing.T) {
	e := newTestEngine(t, pcm.FormatF32, 1, 44100, 48000)

	released := 0
	require.NoError(t, e.AddInput(make([]byte, 4*1000), func() { released++ }))

	_, err := e.Output(make([]byte, 4*10))
	require.NoError(t, err)
	assert.Zero(t, released, "input still partially queued")

	require.NoError(t, e.Close())
	assert.Equal(t, 1, released)
}

// =============================================================================
// Flush and reset
// =============================================================================

func TestEngine_InputFlushIdempotent(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 2, 48000, 44100)

	released := 0
	require.NoError(t, e.AddInput(make([]byte, 4096), func() { released++ }))
	_, err := e.Output(make([]byte, 1024))
	require.NoError(t, err)
	require.False(t, e.needsReinit)

	e.InputFlush()
	assert.Zero(t, e.Stats().QueuedBytes)
	assert.True(t, e.needsReinit)
	assert.Equal(t, 1, released)
	assert.Equal(t, StateConfigured, e.State())

	e.InputFlush()
	assert.Zero(t, e.Stats().QueuedBytes)
	assert.True(t, e.needsReinit)
	assert.Equal(t, 1, released)
	assert.Equal(t, StateConfigured, e.State())
	for _, h := range e.history {
		testutil.AssertAllZero(t, h)
	}
}

func TestEngine_FlushRestartsPhase(t *testing.T) {
	signal := testutil.Sine(2000, 440, 44100, 0.5)

	fresh := convert(t, MethodTable, 1, 16, 44100, 32000, signal)

	e := newTestEngine(t, pcm.FormatF64, 1, 44100, 32000)
	require.NoError(t, e.AddInput(pcm.Bytes(testutil.Sine(777, 1000, 44100, 0.9)), nil))
	_, err := e.Output(make([]byte, 8*100))
	require.NoError(t, err)

	e.InputFlush()
	require.NoError(t, e.AddInput(pcm.Bytes(signal), nil))
	require.NoError(t, e.InputEOS())
	again := pcm.Samples[float64](drain(t, e, 1000))

	assert.Equal(t, fresh, again)
}

func TestEngine_EmptyStreamDrainsToNothing(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 2, 48000, 44100)
	require.NoError(t, e.InputEOS())
	assert.Zero(t, e.Stats().QueuedBytes)

	assert.Empty(t, drain(t, e, 256))
	assert.Equal(t, StateFlushed, e.State())

	// A flushed-then-empty stream behaves the same.
	e.InputFlush()
	require.NoError(t, e.AddInput(make([]byte, 400), nil))
	e.InputFlush()
	require.NoError(t, e.InputEOS())
	assert.Empty(t, drain(t, e, 256))
}

func TestEngine_FilterLengthChangeAfterEOS(t *testing.T) {
	signal := testutil.Sine(100, 440, 48000, 0.5)

	for _, taps := range []int{16, 64} {
		e := newTestEngine(t, pcm.FormatF64, 1, 48000, 48000)
		require.NoError(t, e.AddInput(pcm.Bytes(signal), nil))
		require.NoError(t, e.InputEOS())
		e.SetFilterLength(taps)

		out := pcm.Samples[float64](drain(t, e, 256))
		require.Len(t, out, len(signal)+1, "taps=%d", taps)
		for i, v := range signal {
			assert.InDelta(t, v, out[i], 1e-12, "taps=%d frame %d", taps, i)
		}
	}
}

func TestEngine_ResetClearsStats(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 1, 48000, 48000)
	require.NoError(t, e.AddInput(make([]byte, 200), nil))
	require.NoError(t, e.InputEOS())
	drain(t, e, 64)

	st := e.Stats()
	assert.Equal(t, int64(100), st.FramesIn)
	assert.Equal(t, int64(101), st.FramesOut)
	assert.Equal(t, int64(2*(100+8)), st.QueueOffset)

	e.Reset()
	assert.Equal(t, Stats{}, e.Stats())
	assert.Equal(t, StateConfigured, e.State())
	assert.NoError(t, e.AddInput(make([]byte, 2), nil))
}

func TestEngine_InconsistentPhaseIsFatal(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 2, 48000, 44100)
	require.NoError(t, e.AddInput(make([]byte, 4096), nil))

	_, err := e.Output(make([]byte, 400))
	require.NoError(t, err)

	e.iStart = float64(e.filterLength) * e.iInc

	n, err := e.Output(make([]byte, 400))
	assert.ErrorIs(t, err, ErrInconsistentState)
	assert.Zero(t, n)

	_, err = e.Output(make([]byte, 400))
	assert.ErrorIs(t, err, ErrInconsistentState)
	assert.ErrorIs(t, e.AddInput(make([]byte, 4), nil), ErrInconsistentState)
	assert.ErrorIs(t, e.InputEOS(), ErrInconsistentState)

	e.Reset()
	_, err = e.Output(make([]byte, 400))
	assert.ErrorIs(t, err, ErrInconsistentState)
}

// =============================================================================
// Size queries
// =============================================================================

func TestEngine_OutputSizeForInputScenario(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 2, 48000, 44100)
	assert.Equal(t, 3760, e.OutputSizeForInput(4096))

	require.NoError(t, e.AddInput(make([]byte, 4096), nil))
	assert.Equal(t, 3760, e.OutputSizeForInput(0), "queued bytes count")
}

func TestEngine_OutputSizeMonotonic(t *testing.T) {
	rates := [][2]float64{
		{48000, 44100}, {44100, 48000}, {8000, 48000}, {96000, 22050},
		{44100, 44100}, {11025, 11024}, {192000, 8000},
	}
	formats := []pcm.Format{pcm.FormatS16, pcm.FormatS32, pcm.FormatF32, pcm.FormatF64}

	for _, r := range rates {
		for _, f := range formats {
			for _, ch := range []int{1, 2, 6} {
				e := newTestEngine(t, f, ch, r[0], r[1])
				require.NoError(t, e.AddInput(make([]byte, e.FrameSize()*3), nil))
				fs := e.FrameSize()

				prev := 0
				for n := 0; n < 20000; n += 7 {
					size := e.OutputSizeForInput(n)
					assert.GreaterOrEqual(t, size, prev, "%v %v x%d n=%d", r, f, ch, n)
					assert.Zero(t, size%fs, "%v %v x%d n=%d", r, f, ch, n)
					prev = size
				}
			}
		}
	}
}

func TestEngine_InputSizeForOutput(t *testing.T) {
	for _, r := range [][2]float64{{48000, 44100}, {44100, 48000}, {8000, 96000}, {96000, 8000}} {
		e := newTestEngine(t, pcm.FormatS16, 2, r[0], r[1])
		require.NoError(t, e.AddInput(make([]byte, 40), nil))
		fs := e.FrameSize()

		for n := 1; n < 5000; n += 13 {
			in := e.InputSizeForOutput(n)
			assert.Zero(t, in%fs)
			assert.GreaterOrEqual(t, e.OutputSizeForInput(in), n, "%v n=%d", r, n)
			if in > 0 {
				assert.Less(t, e.OutputSizeForInput(in-fs), n, "%v n=%d not minimal", r, n)
			}
		}
	}
}

func TestEngine_SizeQueriesNearIntLimit(t *testing.T) {
	up := newTestEngine(t, pcm.FormatS16, 2, 8000, 192000)
	limit := math.MaxInt - math.MaxInt%4

	assert.Equal(t, 24<<58, up.OutputSizeForInput(1<<58))
	prev := 0
	for shift := 12; shift >= 0; shift-- {
		size := up.OutputSizeForInput(math.MaxInt >> shift)
		assert.GreaterOrEqual(t, size, prev, "n=MaxInt>>%d", shift)
		assert.Zero(t, size%4)
		prev = size
	}
	assert.Equal(t, limit, up.OutputSizeForInput(math.MaxInt-2))
	assert.Equal(t, limit, up.OutputSizeForInput(math.MaxInt))

	down := newTestEngine(t, pcm.FormatS16, 2, 192000, 8000)
	assert.Equal(t, limit, down.InputSizeForOutput(1<<59), "no int input yields this much")
	assert.Equal(t, limit, down.InputSizeForOutput(math.MaxInt))

	in := down.InputSizeForOutput(1 << 50)
	assert.Zero(t, in%4)
	assert.GreaterOrEqual(t, down.OutputSizeForInput(in), 1<<50)
	assert.Less(t, in, limit)
}

func TestEngine_Latency(t *testing.T) {
	e := New()
	assert.Equal(t, DefaultFilterLength/2, e.Latency())

	e.SetFilterLength(64)
	assert.Equal(t, 32, e.Latency())
}

// =============================================================================
// Conversion
// =============================================================================

func TestEngine_OutputDoesNotAllocatePerFrame(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 2, 48000, 44100)
	chunk := make([]byte, 4*4096)
	dst := make([]byte, 4*4096)

	require.NoError(t, e.AddInput(chunk, nil))
	_, err := e.Output(dst)
	require.NoError(t, err)

	allocs := testing.AllocsPerRun(5, func() {
		_ = e.AddInput(chunk, nil)
		for {
			n, _ := e.Output(dst)
			if n < len(dst) {
				break
			}
		}
	})
	// The queued Buffer only, independent of the 4096 frames pulled.
	assert.LessOrEqual(t, allocs, 2.0)
}

func TestEngine_SilenceScenario(t *testing.T) {
	e := newTestEngine(t, pcm.FormatS16, 2, 48000, 44100)
	e.SetFilterLength(16)
	require.Equal(t, 3760, e.OutputSizeForInput(4096))

	require.NoError(t, e.AddInput(make([]byte, 4096), nil))
	require.NoError(t, e.InputEOS())

	out := drain(t, e, 1000)
	assert.Equal(t, 3760+4, len(out), "940 frames plus one from the padded tail")
	assert.Zero(t, len(out)%4)
	testutil.AssertAllZero(t, pcm.Samples[int16](out))

	st := e.Stats()
	assert.Equal(t, int64(1024), st.FramesIn)
	assert.Equal(t, int64(941), st.FramesOut)
	assert.Equal(t, StateFlushed, e.State())
}

func TestEngine_IdentityRateReproducesInput(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	signal := make([]float64, 1000)
	for i := range signal {
		signal[i] = rng.Float64()*2 - 1
	}

	for _, m := range []Method{MethodTable, MethodDirect} {
		out := convert(t, m, 1, 16, 48000, 48000, signal)
		require.Len(t, out, len(signal)+1, m.String())
		for i, v := range signal {
			assert.InDelta(t, v, out[i], 1e-9, "%v sample %d", m, i)
		}
		assert.InDelta(t, 0, out[len(signal)], 1e-9)
	}
}

func TestEngine_PassbandSine(t *testing.T) {
	const (
		freq = 1000.0
		amp  = 0.5
		taps = 32
	)

	for _, r := range [][2]float64{{44100, 48000}, {48000, 44100}, {22050, 44100}} {
		in, out := r[0], r[1]
		signal := testutil.Sine(8000, freq, in, amp)
		got := convert(t, MethodTable, 1, taps, in, out, signal)

		// Output frame k sits at input position k·in/out.
		step := in / out
		for k := taps; k < len(got)-2*taps; k++ {
			want := amp * math.Sin(2*math.Pi*freq*float64(k)*step/in)
			if !assert.InDelta(t, want, got[k], 0.01, "%v frame %d", r, k) {
				break
			}
		}
	}
}

func TestEngine_DownsampleAttenuatesAboveNyquist(t *testing.T) {
	const in, out = 48000.0, 16000.0

	// 14 kHz is above the 8 kHz output Nyquist and would alias to 2 kHz.
	signal := testutil.Sine(9600, 14000, in, 0.8)
	got := convert(t, MethodTable, 1, 64, in, out, signal)

	peak := 0.0
	for _, v := range got[64 : len(got)-64] {
		peak = math.Max(peak, math.Abs(v))
	}
	assert.Less(t, peak, 0.08, "alias should be strongly attenuated")
}

func TestEngine_MethodsEquivalent(t *testing.T) {
	left := testutil.Sine(3000, 440, 44100, 0.7)
	right := testutil.Sine(3000, 5000, 44100, 0.3)
	signal := testutil.Interleave(left, right)

	windows := []filter.WindowSpec{
		{Kind: filter.WindowHanning},
		{Kind: filter.WindowKaiser},
		{Kind: filter.WindowGaussian},
	}

	for _, r := range [][2]float64{{44100, 48000}, {44100, 32000}, {44100, 96000}} {
		for _, w := range windows {
			run := func(m Method) []float64 {
				e := newTestEngine(t, pcm.FormatF64, 2, r[0], r[1])
				e.SetMethod(m)
				e.SetWindow(w)
				require.NoError(t, e.AddInput(pcm.Bytes(signal), nil))
				require.NoError(t, e.InputEOS())
				return pcm.Samples[float64](drain(t, e, 8*2*500))
			}

			table := run(MethodTable)
			direct := run(MethodDirect)
			require.Len(t, table, len(direct))
			testutil.AssertNoNaNOrInf(t, table)
			for i := range table {
				if !assert.InDelta(t, direct[i], table[i], 1e-4, "%v %v sample %d", r, w.Kind, i) {
					break
				}
			}
		}
	}
}

func TestEngine_ChunkingDoesNotChangeOutput(t *testing.T) {
	signal := testutil.ToInt16(testutil.Interleave(
		testutil.Sine(5000, 300, 44100, 0.6),
		testutil.Sine(5000, 7000, 44100, 0.3),
	))
	raw := pcm.Bytes(signal)

	e := newTestEngine(t, pcm.FormatS16, 2, 44100, 48000)
	require.NoError(t, e.AddInput(raw, nil))
	require.NoError(t, e.InputEOS())
	whole := drain(t, e, 1<<16)

	rng := rand.New(rand.NewPCG(7, 9))
	e = newTestEngine(t, pcm.FormatS16, 2, 44100, 48000)
	var pieced []byte
	buf := make([]byte, 4*50)
	for rest := raw; len(rest) > 0; {
		n := min(len(rest), 4*(1+rng.IntN(300)))
		require.NoError(t, e.AddInput(rest[:n], nil))
		rest = rest[n:]

		for {
			size := 4 * (1 + rng.IntN(50))
			got, err := e.Output(buf[:size])
			require.NoError(t, err)
			pieced = append(pieced, buf[:got]...)
			if got < size {
				break
			}
		}
	}
	require.NoError(t, e.InputEOS())
	pieced = append(pieced, drain(t, e, 4*17)...)

	assert.Equal(t, whole, pieced)
}

func TestEngine_Int16Saturates(t *testing.T) {
	const frames = 4000
	signal := make([]int16, frames)
	for i := range signal {
		signal[i] = math.MaxInt16
	}

	e := newTestEngine(t, pcm.FormatS16, 1, 48000, 44100)
	require.NoError(t, e.AddInput(pcm.Bytes(signal), nil))
	require.NoError(t, e.InputEOS())
	out := pcm.Samples[int16](drain(t, e, 2*256))

	for i, v := range out[16 : len(out)-16] {
		assert.GreaterOrEqual(t, v, int16(32000), "frame %d wrapped", i+16)
	}
}

func TestEngine_AllFormats(t *testing.T) {
	src := testutil.Sine(2000, 500, 44100, 0.5)

	tests := []struct {
		format pcm.Format
		input  []byte
		decode func([]byte) []float64
	}{
		{pcm.FormatS16, pcm.Bytes(testutil.ToInt16(src)), func(b []byte) []float64 {
			s := pcm.Samples[int16](b)
			out := make([]float64, len(s))
			for i, v := range s {
				out[i] = float64(v) / math.MaxInt16
			}
			return out
		}},
		{pcm.FormatS32, pcm.Bytes(scaleInt32(src)), func(b []byte) []float64 {
			s := pcm.Samples[int32](b)
			out := make([]float64, len(s))
			for i, v := range s {
				out[i] = float64(v) / math.MaxInt32
			}
			return out
		}},
		{pcm.FormatF32, pcm.Bytes(toFloat32(src)), func(b []byte) []float64 {
			s := pcm.Samples[float32](b)
			out := make([]float64, len(s))
			for i, v := range s {
				out[i] = float64(v)
			}
			return out
		}},
		{pcm.FormatF64, pcm.Bytes(src), pcm.Samples[float64]},
	}

	want := convert(t, MethodTable, 1, 16, 44100, 48000, src)

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			e := newTestEngine(t, tt.format, 1, 44100, 48000)
			require.NoError(t, e.AddInput(tt.input, nil))
			require.NoError(t, e.InputEOS())
			got := tt.decode(drain(t, e, 1000))

			require.Len(t, got, len(want))
			for i := range got {
				if !assert.InDelta(t, want[i], got[i], 1e-3, "sample %d", i) {
					break
				}
			}
		})
	}
}

func scaleInt32(s []float64) []int32 {
	out := make([]int32, len(s))
	for i, v := range s {
		out[i] = int32(math.Round(v * math.MaxInt32))
	}
	return out
}

func toFloat32(s []float64) []float32 {
	out := make([]float32, len(s))
	for i, v := range s {
		out[i] = float32(v)
	}
	return out
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkEngine_Output(b *testing.B) {
	signal := pcm.Bytes(testutil.ToInt16(testutil.Interleave(
		testutil.Sine(48000, 440, 48000, 0.5),
		testutil.Sine(48000, 880, 48000, 0.5),
	)))
	out := make([]byte, 4*4096)

	for _, m := range []Method{MethodTable, MethodDirect} {
		b.Run(m.String(), func(b *testing.B) {
			e := newTestEngine(b, pcm.FormatS16, 2, 48000, 44100)
			e.SetMethod(m)
			b.SetBytes(int64(len(signal)))
			for b.Loop() {
				require.NoError(b, e.AddInput(signal, nil))
				for {
					n, err := e.Output(out)
					if err != nil {
						b.Fatal(err)
					}
					if n < len(out) {
						break
					}
				}
			}
		})
	}
}
