// Command analyze-kernel prints the DC gain, stopband rejection and table
// interpolation error of the resampling kernel for a set of rate ratios.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/tphakala/go-pcm-resampler/internal/engine"
	"github.com/tphakala/go-pcm-resampler/internal/filter"
	"github.com/tphakala/go-pcm-resampler/internal/mathutil"
)

const (
	defaultTaps = engine.DefaultFilterLength

	// Fractional delays sampled per ratio.
	numPhases = 8

	// Points compared between table and direct evaluation.
	errorProbes = 4096

	spectrumSize = 4096

	// Stopband starts this far above the cutoff, as a fraction of the
	// cutoff frequency.
	stopbandMargin = 1.5
)

func main() {
	var (
		taps   = flag.Int("taps", defaultTaps, "Filter length in taps")
		window = flag.String("window", "hanning", "Window: hanning, kaiser, gaussian")
		atten  = flag.Float64("atten", 0, "Kaiser stopband attenuation in dB (0 = default)")
	)
	flag.Parse()

	kind, err := filter.ParseWindowKind(*window)
	if err != nil {
		log.Fatalf("Invalid window: %v", err)
	}
	spec := filter.WindowSpec{Kind: kind, Attenuation: *atten}

	fmt.Println("=== Analyzing Kernel ===")
	fmt.Printf("Taps: %d, window: %v", *taps, kind)
	if kind == filter.WindowKaiser {
		beta := spec.KaiserBeta()
		fmt.Printf(" (beta %.3f, ~%.0f dB)", beta, mathutil.KaiserAttenuation(beta))
	}
	fmt.Println()

	testRatios := []struct {
		in, out float64
		name    string
	}{
		{44100, 88200, "2x upsampling"},
		{88200, 44100, "2x downsampling"},
		{44100, 48000, "CD->DAT"},
		{48000, 44100, "DAT->CD"},
		{32000, 48000, "3:2 upsampling"},
	}

	for _, test := range testRatios {
		p := engine.KernelParams{
			FilterLength: *taps,
			InputRate:    test.in,
			OutputRate:   test.out,
			Window:       spec,
		}
		if err := analyze(test.name, p); err != nil {
			log.Fatalf("%s: %v", test.name, err)
		}
	}
}

func analyze(name string, p engine.KernelParams) error {
	table, err := engine.NewKernelEvaluator(engine.MethodTable, p)
	if err != nil {
		return err
	}
	direct, err := engine.NewKernelEvaluator(engine.MethodDirect, p)
	if err != nil {
		return err
	}

	cutoff := p.Cutoff()
	fmt.Printf("\n=== %s (ratio = %.6f, cutoff = %.4f) ===\n", name, p.OutputRate/p.InputRate, cutoff)
	fmt.Printf("  Table memory: %.1f KB\n", float64(table.MemoryUsage())/1024)

	// The kernel is in input samples; a sinc with cutoff c sums to c over
	// integer samples, so the expected DC gain of a phase is the cutoff.
	kernel := asFunc(table)
	halfWidth := p.FilterLength / 2

	fmt.Println("  DC gain per phase:")
	for i := range numPhases {
		frac := float64(i) / numPhases
		taps := filter.SampleFIR(kernel, halfWidth, frac)
		gain := filter.DCGain(taps)
		fmt.Printf("    frac %.3f: %.10f (normalized %.6f)\n", frac, gain, gain/cutoff)
	}

	taps := filter.SampleFIR(kernel, halfWidth, 0)
	resp := filter.Spectrum(taps, spectrumSize)
	stopband := math.Min(0.5, stopbandMargin*cutoff/2)
	fmt.Printf("  Peak above %.4f cycles/sample: %.1f dB\n", stopband, resp.PeakDB(stopband))

	maxErr := 0.0
	hw := p.HalfWidth()
	for i := range errorProbes + 1 {
		x := -hw + 2*hw*float64(i)/errorProbes
		maxErr = math.Max(maxErr, math.Abs(table.Evaluate(x)-direct.Evaluate(x)))
	}
	fmt.Printf("  Max table error: %.3e\n", maxErr)
	return nil
}

// asFunc adapts an evaluator to a filter.Func with no derivative.
func asFunc(e engine.KernelEvaluator) filter.Func {
	return func(x float64) (float64, float64) {
		return e.Evaluate(x), 0
	}
}
