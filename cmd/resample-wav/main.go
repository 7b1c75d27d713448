// Command resample-wav resamples WAV audio files to a target sample rate.
//
// Usage:
//
//	resample-wav -rate 48 input.wav output.wav
//	resample-wav -rate 16 -taps 64 speech.wav speech_16k.wav
//	resample-wav -rate 44.1 -window kaiser -atten 90 input.wav output.wav
//	resample-wav -rate 96 -method direct input.wav output.wav
//
// 16-bit files are converted as 16-bit PCM, 24- and 32-bit files as
// 32-bit PCM. Samples stay interleaved end to end.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	resampler "github.com/tphakala/go-pcm-resampler"
	"github.com/tphakala/go-pcm-resampler/internal/debuglog"
	"github.com/tphakala/go-pcm-resampler/internal/engine"
	"github.com/tphakala/go-pcm-resampler/internal/filter"
	"github.com/tphakala/go-pcm-resampler/internal/mathutil"
)

const (
	// Frames decoded per chunk.
	bufferFrames = 16384

	// Conversion constants
	kHzToHz          = 1000
	progressInterval = 10 // Print progress every N%
	percentScale     = 100

	// CLI defaults
	defaultRateKHz     = 48.0
	defaultAttenuation = filter.DefaultKaiserAttenuation
	minRequiredArgs    = 2

	// autoTransitionBW is the Kaiser transition width, as a fraction of the
	// lower sample rate, used when -taps is 0.
	autoTransitionBW = 0.05
)

// options holds the parsed command line.
type options struct {
	targetRate  int
	taps        int
	method      engine.Method
	window      filter.WindowSpec
	verbose     bool
	inputPath   string
	outputPath  string
	cpuprofile  string
	attenuation float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rateKHz := flag.Float64("rate", defaultRateKHz, "Target sample rate in kHz (e.g., 16, 32, 44.1, 48, 96)")
	taps := flag.Int("taps", 0, "Filter length in taps (0 = default, or estimated from -atten for kaiser)")
	method := flag.String("method", "table", "Kernel evaluation: table, direct")
	window := flag.String("window", "hanning", "Window: hanning, kaiser, gaussian")
	atten := flag.Float64("atten", defaultAttenuation, "Kaiser stopband attenuation in dB")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file (for PGO)")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -rate 48 input.wav output.wav      # Resample to 48kHz\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 16 speech.wav speech_16k.wav # Downsample for speech\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 96 music.wav music_hires.wav # Upsample to hi-res\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}

	m, err := engine.ParseMethod(*method)
	if err != nil {
		return err
	}
	kind, err := filter.ParseWindowKind(*window)
	if err != nil {
		return err
	}

	opts := options{
		targetRate:  int(*rateKHz * kHzToHz),
		taps:        *taps,
		method:      m,
		window:      filter.WindowSpec{Kind: kind, Attenuation: *atten},
		verbose:     *verbose,
		inputPath:   args[0],
		outputPath:  args[1],
		cpuprofile:  *cpuprofile,
		attenuation: *atten,
	}

	if opts.cpuprofile != "" {
		f, err := os.Create(opts.cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	if opts.verbose {
		// RESAMPLER_DEBUG may already ask for more.
		if debuglog.CurrentLevel() < debuglog.LevelInfo {
			debuglog.SetLevel(debuglog.LevelInfo)
		}
		log.Printf("Input: %s", opts.inputPath)
		log.Printf("Output: %s", opts.outputPath)
		log.Printf("Target rate: %d Hz", opts.targetRate)
		log.Printf("Kernel: %v, window: %v", opts.method, opts.window.Kind)
	}

	start := time.Now()
	stats, err := resampleWAV(opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Resampled %s -> %s\n", filepath.Base(opts.inputPath), filepath.Base(opts.outputPath))
	fmt.Printf("  %d Hz -> %d Hz (%d channels, %d-bit, %d taps)\n",
		stats.inputRate, stats.outputRate, stats.channels, stats.bitDepth, stats.taps)
	fmt.Printf("  %d frames -> %d frames\n", stats.inputFrames, stats.outputFrames)
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(stats.inputFrames)/float64(stats.inputRate)/elapsed.Seconds())

	return nil
}

type resampleStats struct {
	inputRate    int
	outputRate   int
	channels     int
	bitDepth     int
	taps         int
	inputFrames  int64
	outputFrames int64
}

// filterLength resolves -taps. Zero keeps the library default, except for
// the Kaiser window where the length is estimated from the attenuation.
func filterLength(opts options, inputRate int) int {
	if opts.taps > 0 {
		return opts.taps
	}
	if opts.window.Kind != filter.WindowKaiser {
		return resampler.DefaultFilterLength
	}

	// The transition band scales with the lower of the two rates, measured
	// in input samples.
	tbw := autoTransitionBW * float64(min(inputRate, opts.targetRate)) / float64(inputRate)
	return min(mathutil.EstimateTaps(opts.attenuation, tbw), resampler.MaxFilterLength)
}

// resampleWAV streams inputPath through the resampler into outputPath.
func resampleWAV(opts options) (stats *resampleStats, err error) {
	input, err := openWAVInput(opts.inputPath, opts.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	if input.rate == opts.targetRate {
		return nil, fmt.Errorf("input already at target rate %d Hz", opts.targetRate)
	}

	layout, err := layoutFor(input.bitDepth)
	if err != nil {
		return nil, err
	}

	taps := filterLength(opts, input.rate)
	r, err := resampler.New(&resampler.Config{
		Format:       layout.format,
		Channels:     input.channels,
		InputRate:    float64(input.rate),
		OutputRate:   float64(opts.targetRate),
		FilterLength: taps,
		Method:       opts.method,
		Window:       opts.window,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}
	defer func() { _ = r.Close() }()

	output, err := createWAVOutput(opts.outputPath, opts.targetRate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// Close output, capturing close errors on success path (important for WAV header updates)
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	stats = &resampleStats{
		inputRate:  input.rate,
		outputRate: opts.targetRate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
		taps:       taps,
	}

	p := newPipe(r, layout, input, output)
	progress := newProgressTracker(input.totalFrames, opts.verbose)

	for {
		frames, err := p.feed()
		if err != nil {
			return nil, err
		}
		if frames == 0 {
			break
		}
		stats.inputFrames += int64(frames)

		if err := p.drain(); err != nil {
			return nil, err
		}
		progress.reportIfNeeded(stats.inputFrames)
	}

	if err := r.InputEOS(); err != nil {
		return nil, err
	}
	if err := p.drain(); err != nil {
		return nil, err
	}

	stats.outputFrames = r.Stats().FramesOut
	return stats, nil
}
