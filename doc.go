// Package resampler converts streams of interleaved PCM audio between
// arbitrary sample rates in pure Go.
//
// Each output frame is a band-limited (windowed-sinc) reconstruction of
// the input at the output instant. A phase accumulator walks a sliding
// window of FilterLength input frames, and the kernel is evaluated at the
// fractional tap offsets either from a Hermite-interpolated table or
// analytically. When downsampling, the sinc cutoff follows the output
// Nyquist frequency.
//
// # Features
//
//   - Signed 16/32-bit integer and 32/64-bit float samples, host byte order
//   - Any channel count up to [MaxChannels]; channels are never mixed
//   - Streaming API: irregular input chunks, zero-copy queueing, output in
//     exactly the requested quantity
//   - Hanning, Kaiser and Gaussian tapers
//   - Table-accelerated or direct kernel evaluation with identical output
//     up to rounding
//   - Pure Go, SIMD dot products via github.com/tphakala/simd
//
// # Quick Start
//
// For one-shot conversion of a complete buffer:
//
//	out, err := resampler.ResampleInt16(samples, 2, 44100, 48000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For streaming:
//
//	r, err := resampler.New(&resampler.Config{
//	    Format:     resampler.FormatS16,
//	    Channels:   2,
//	    InputRate:  48000,
//	    OutputRate: 44100,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	buf := make([]byte, 4096)
//	for chunk := range chunks {
//	    if err := r.AddInput(chunk, nil); err != nil {
//	        log.Fatal(err)
//	    }
//	    for {
//	        n, err := r.Output(buf)
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        write(buf[:n])
//	        if n < len(buf) {
//	            break // needs more input
//	        }
//	    }
//	}
//
//	// Drain the filter tail.
//	r.InputEOS()
//	for n, _ := r.Output(buf); n > 0; n, _ = r.Output(buf) {
//	    write(buf[:n])
//	}
//
// Running out of input is not an error: [Resampler.Output] returns a short
// count and resumes exactly where it stopped when more input arrives.
// [Resampler.OutputSizeForInput] and [Resampler.InputSizeForOutput] help
// size buffers.
//
// # Lifecycle
//
// A Resampler moves through [StateConfigured], [StateStreaming] (first
// output), [StateDraining] ([Resampler.InputEOS]) and [StateFlushed] (tail
// fully emitted). [Resampler.InputFlush] discards queued input and returns
// to [StateConfigured] for a new stream.
//
// # Diagnostics
//
// Set RESAMPLER_DEBUG to a number from 0 (silent) to 5 (trace) to log
// reconfiguration, drain and kernel domain events to stderr. The default
// logs errors only. Logging never changes the output.
//
// # Thread Safety
//
// A Resampler must not be used from more than one goroutine at a time.
// Release callbacks run on the goroutine that consumed or flushed the
// input.
package resampler
