package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	resampler "github.com/tphakala/go-pcm-resampler"
	"github.com/tphakala/go-pcm-resampler/internal/engine"
	"github.com/tphakala/go-pcm-resampler/internal/filter"
	"github.com/tphakala/go-pcm-resampler/internal/pcm"
)

func main() {
	var (
		inputRate  = flag.Float64("input-rate", defaultInputRate, "Input sample rate in Hz")
		outputRate = flag.Float64("output-rate", defaultOutputRate, "Output sample rate in Hz")
		channels   = flag.Int("channels", defaultChannels, "Number of audio channels")
		format     = flag.String("format", "s16", "Sample format: s16, s32, f32, f64")
		taps       = flag.Int("taps", resampler.DefaultFilterLength, "Filter length in taps")
		method     = flag.String("method", "table", "Kernel evaluation: table, direct")
		window     = flag.String("window", "hanning", "Window: hanning, kaiser, gaussian")
		demo       = flag.Bool("demo", false, "Run a demonstration")
	)
	flag.Parse()

	if *demo {
		runDemo()
		return
	}

	f, err := pcm.ParseFormat(*format)
	if err != nil {
		log.Fatalf("Invalid format: %v", err)
	}
	m, err := engine.ParseMethod(*method)
	if err != nil {
		log.Fatalf("Invalid method: %v", err)
	}
	w, err := filter.ParseWindowKind(*window)
	if err != nil {
		log.Fatalf("Invalid window: %v", err)
	}

	config := resampler.Config{
		Format:       f,
		Channels:     *channels,
		InputRate:    *inputRate,
		OutputRate:   *outputRate,
		FilterLength: *taps,
		Method:       m,
		Window:       resampler.Window{Kind: w},
	}

	r, err := resampler.New(&config)
	if err != nil {
		log.Fatalf("Failed to create resampler: %v", err)
	}
	defer func() { _ = r.Close() }()

	printInfo(r, *inputRate, *outputRate)

	fmt.Println("\nProcessing test signal...")
	frames, err := streamTone(r, testSignalFrames, testChunkFrames)
	if err != nil {
		log.Fatalf("Processing failed: %v", err)
	}

	stats := r.Stats()
	fmt.Printf("Input frames:    %d\n", stats.FramesIn)
	fmt.Printf("Output frames:   %d\n", frames)
	fmt.Printf("Expected output: %d\n", int(math.Floor(float64(testSignalFrames)*r.Ratio()))+1)
}

func printInfo(r *resampler.Resampler, inputRate, outputRate float64) {
	info := r.Info()
	fmt.Printf("Resampler created:\n")
	fmt.Printf("  Algorithm: %s\n", info.Algorithm)
	fmt.Printf("  Ratio: %.6f (%g Hz -> %g Hz)\n", r.Ratio(), inputRate, outputRate)
	fmt.Printf("  Filter length: %d taps\n", info.FilterLength)
	fmt.Printf("  Table size: %d cells\n", info.TableSize)
	fmt.Printf("  Latency: %d frames\n", info.Latency)
	fmt.Printf("  Memory usage: %.2f KB\n", float64(info.MemoryUsage)/bytesPerKilobyte)
	fmt.Printf("  SIMD: %v (%s)\n", info.SIMDEnabled, info.SIMDType)
}

// streamTone feeds a 1 kHz tone through r in chunks of chunkFrames and
// drains the result. It returns the number of output frames.
func streamTone(r *resampler.Resampler, frames, chunkFrames int) (int, error) {
	cfg := r.Config()
	codec, err := pcm.NewCodec(cfg.Format, cfg.Channels)
	if err != nil {
		return 0, err
	}
	fs := codec.FrameSize()

	out := make([]byte, r.OutputSizeForInput(chunkFrames*fs)+fs)
	sample := make([]float64, cfg.Channels)
	omega := 2 * math.Pi * testSignalFrequency / cfg.InputRate
	total := 0

	drain := func() error {
		for {
			n, err := r.Output(out)
			if err != nil {
				return err
			}
			total += n / fs
			if n < len(out) {
				return nil
			}
		}
	}

	for pos := 0; pos < frames; pos += chunkFrames {
		count := min(chunkFrames, frames-pos)
		chunk := make([]byte, count*fs)
		for i := range count {
			v := testSignalLevel * math.Sin(omega*float64(pos+i))
			for ch := range sample {
				sample[ch] = v
			}
			codec.EncodeFrame(chunk[i*fs:], sample)
		}
		if err := r.AddInput(chunk, nil); err != nil {
			return total, err
		}
		if err := drain(); err != nil {
			return total, err
		}
	}

	if err := r.InputEOS(); err != nil {
		return total, err
	}
	return total, drain()
}

func runDemo() {
	fmt.Println("=== Go PCM Resampler Demo ===")

	fmt.Println("1. Comparing Filter Lengths")
	fmt.Println("---------------------------")

	testRatios := []struct {
		from, to float64
		name     string
	}{
		{sampleRateCD, sampleRateDAT, "CD to DAT"},
		{sampleRateDAT, sampleRateCD, "DAT to CD"},
		{sampleRateCD, sampleRate2xCD, "CD to 2x"},
		{sampleRateHiRes, sampleRateCD, "Hi-res to CD"},
	}

	lengths := []int{shortFilter, resampler.DefaultFilterLength, longFilter}

	for _, ratio := range testRatios {
		fmt.Printf("\n%s (%.0f Hz -> %.0f Hz, ratio: %.4f):\n",
			ratio.name, ratio.from, ratio.to, ratio.to/ratio.from)

		for _, taps := range lengths {
			r, err := resampler.New(&resampler.Config{
				Format:       resampler.FormatS16,
				Channels:     stereoChannels,
				InputRate:    ratio.from,
				OutputRate:   ratio.to,
				FilterLength: taps,
			})
			if err != nil {
				fmt.Printf("  %d taps: Error - %v\n", taps, err)
				continue
			}

			info := r.Info()
			fmt.Printf("  %4d taps: %d frames latency, %.1f KB memory\n",
				info.FilterLength, info.Latency, float64(info.MemoryUsage)/bytesPerKilobyte)
			_ = r.Close()
		}
	}

	fmt.Println("\n2. Kernel Evaluation")
	fmt.Println("--------------------")
	fmt.Println("Streaming 1 second of stereo audio (44.1kHz -> 48kHz):")

	for _, m := range []resampler.Method{resampler.MethodTable, resampler.MethodDirect} {
		r, err := resampler.New(&resampler.Config{
			Format:     resampler.FormatF32,
			Channels:   stereoChannels,
			InputRate:  sampleRateCD,
			OutputRate: sampleRateDAT,
			Method:     m,
		})
		if err != nil {
			continue
		}

		frames, err := streamTone(r, int(sampleRateCD), testChunkFrames)
		if err != nil {
			fmt.Printf("  %s: Error - %v\n", m, err)
		} else {
			fmt.Printf("  %s: %d -> %d frames\n", m, int(sampleRateCD), frames)
		}
		_ = r.Close()
	}

	fmt.Println("\n3. Multi-channel Processing")
	fmt.Println("---------------------------")

	for _, ch := range []int{monoChannels, stereoChannels, surround5_1, surround7_1} {
		r, err := resampler.New(&resampler.Config{
			Format:     resampler.FormatS16,
			Channels:   ch,
			InputRate:  sampleRateDAT,
			OutputRate: sampleRateCD,
		})
		if err != nil {
			fmt.Printf("  %d channels: Error - %v\n", ch, err)
			continue
		}

		fmt.Printf("  %d channels: %d byte frames, %.1f KB total memory\n",
			ch, r.FrameSize(), float64(r.Info().MemoryUsage)/bytesPerKilobyte)
		_ = r.Close()
	}

	fmt.Println("\n=== Demo Complete ===")
}
