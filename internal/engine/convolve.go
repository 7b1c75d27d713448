package engine

import (
	"github.com/tphakala/go-pcm-resampler/internal/debuglog"
	"github.com/tphakala/go-pcm-resampler/internal/pcm"
	"github.com/tphakala/simd/f64"
)

// reinit rebuilds the kernel, phase increments and window for the current
// configuration and restarts the phase.
func (e *Engine) reinit() error {
	if err := e.Validate(); err != nil {
		return err
	}

	codec, err := pcm.NewCodec(e.format, e.channels)
	if err != nil {
		return err
	}
	kernel, err := NewKernelEvaluator(e.method, e.kernelParams())
	if err != nil {
		return err
	}

	e.codec = codec
	e.kernel = kernel
	e.iInc = e.outputRate / e.inputRate
	e.oInc = e.inputRate / e.outputRate
	e.iStart = -e.iInc * float64(e.filterLength)

	if len(e.history) != e.channels || len(e.weights) != e.filterLength {
		e.history = make([][]float64, e.channels)
		for ch := range e.history {
			e.history[ch] = make([]float64, e.filterLength)
		}
		e.weights = make([]float64, e.filterLength)
	} else {
		for _, h := range e.history {
			clear(h)
		}
	}
	e.raw = make([]byte, codec.FrameSize())
	e.frame = make([]float64, e.channels)
	e.acc = make([]float64, e.channels)

	// Real frames still queued after EOS need a tail sized for the new
	// window.
	if e.eos && e.padBytes > 0 && e.queue.Depth() > e.padBytes {
		e.padTail(e.padSize())
	}

	e.needsReinit = false
	if e.state == StateConfigured {
		e.state = StateStreaming
	}

	debuglog.Infof("configured %v x%d, %g -> %g Hz, %d taps, %v kernel, %v window",
		e.format, e.channels, e.inputRate, e.outputRate, e.filterLength, e.method, e.window.Kind)
	return nil
}

func (e *Engine) kernelParams() KernelParams {
	return KernelParams{
		FilterLength: e.filterLength,
		InputRate:    e.inputRate,
		OutputRate:   e.outputRate,
		Window:       e.window,
	}
}

// Output fills dst with as many whole output frames as the queued input
// allows and returns the number of bytes written. Running out of input is
// not an error: the call returns early and resumes where it stopped once
// more input is added.
func (e *Engine) Output(dst []byte) (int, error) {
	switch {
	case e.broken:
		return 0, ErrInconsistentState
	case e.state == StateUnconfigured:
		return 0, ErrNotConfigured
	}
	if e.needsReinit {
		if err := e.reinit(); err != nil {
			return 0, err
		}
	}

	fs := e.codec.FrameSize()
	lower := -halfStep * e.iInc
	upper := halfStep * e.iInc * (1 + phaseTolerance)
	span := float64(e.filterLength-1) * halfStep * e.iInc

	written := 0
	for written+fs <= len(dst) {
		midpoint := e.iStart + span
		if midpoint > upper {
			e.broken = true
			debuglog.Errorf("phase midpoint %g exceeds bound %g; engine disabled", midpoint, halfStep*e.iInc)
			e.framesOut += int64(written / fs)
			return written, ErrInconsistentState
		}

		for midpoint < lower {
			if !e.pullFrame() {
				e.underflow()
				e.framesOut += int64(written / fs)
				return written, nil
			}
			e.iStart += e.iInc
			midpoint += e.iInc
		}

		e.convolve(dst[written : written+fs])
		e.iStart--
		written += fs
	}

	e.framesOut += int64(written / fs)
	return written, nil
}

// pullFrame moves one frame from the queue into the tail of the window.
func (e *Engine) pullFrame() bool {
	if !e.queue.Read(e.raw) {
		return false
	}
	e.codec.DecodeFrame(e.raw, e.frame)

	last := e.filterLength - 1
	for ch, h := range e.history {
		copy(h, h[1:])
		h[last] = e.frame[ch]
	}
	if debuglog.Enabled(debuglog.LevelTrace) {
		debuglog.Tracef("pulled frame, phase %g", e.iStart)
	}
	return true
}

// convolve writes one output frame. Tap j of every channel sits at
// (iStart + j·iInc)·oInc input samples from the output position, so the
// weights are shared by all channels.
func (e *Engine) convolve(dst []byte) {
	for j := range e.weights {
		e.weights[j] = e.kernel.Evaluate((e.iStart + float64(j)*e.iInc) * e.oInc)
	}
	for ch, h := range e.history {
		e.acc[ch] = f64.DotProduct(e.weights, h)
	}
	e.codec.EncodeFrame(dst, e.acc)
}

func (e *Engine) underflow() {
	if e.eos && e.queue.Depth() == 0 {
		if e.state != StateFlushed {
			debuglog.Debugf("drained after %d output frames", e.framesOut)
		}
		e.state = StateFlushed
		return
	}
	if debuglog.Enabled(debuglog.LevelTrace) {
		debuglog.Tracef("underflow, %d bytes queued", e.queue.Depth())
	}
}
