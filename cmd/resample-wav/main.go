// Command resample-wav resamples WAV audio files to a target sample rate.
//
// Usage:
//
//	resample-wav -rate 48 input.wav output.wav
//	resample-wav -rate 16 -quality high input.wav output.wav
//	resample-wav -rate 47.9 -phases 512 input.wav output.wav   # Any target rate
//	resample-wav -rate 48 -parallel=false input.wav out.wav    # Disable parallel processing
//
// Parallel processing is enabled by default for stereo/multichannel files;
// every channel runs its own filter on its own goroutine.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	resampler "github.com/tphakala/go-arb-resampler"
)

const (
	// Buffer size for processing (number of samples per chunk)
	// Larger buffers reduce I/O overhead and improve cache utilization
	bufferSize = 65536

	// Output buffer margin to handle ratio variations
	outputBufferMargin = 1024

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	kHzToHz          = 1000
	maxInt16         = 32767.0
	maxInt24         = 8388607.0
	maxInt32         = 2147483647.0
	progressInterval = 10 // Print progress every N%

	// CLI defaults
	defaultRateKHz  = 48.0
	minRequiredArgs = 2
	percentScale    = 100

	// WAV audio format tag for integer PCM
	wavFormatPCM = 1
)

// options collects the command line settings that shape the resampler.
type options struct {
	targetRate int
	quality    resampler.QualityPreset
	phases     int
	window     resampler.Window
	parallel   bool
	verbose    bool
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Parse command line flags
	rateKHz := flag.Float64("rate", defaultRateKHz, "Target sample rate in kHz (e.g., 16, 32, 44.1, 47.9, 48, 96)")
	quality := flag.String("quality", "high", "Quality preset: quick, low, medium, high, veryhigh")
	phases := flag.Int("phases", 0, "Polyphase branches (0 = derived from quality)")
	window := flag.String("window", "kaiser", "Prototype window: kaiser, hamming, hann, blackman, rectangular")
	parallel := flag.Bool("parallel", true, "Enable parallel channel processing (faster for stereo/multichannel)")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file (for PGO)")
	flag.Parse()

	// Validate arguments before setting up profiling
	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -rate 48 input.wav output.wav      # Resample to 48kHz\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 16 speech.wav speech_16k.wav # Downsample for speech\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 96 music.wav music_hires.wav # Upsample to hi-res\n", os.Args[0])
		return errors.New("insufficient arguments")
	}

	preset, err := parseQuality(*quality)
	if err != nil {
		return err
	}
	win, err := resampler.ParseWindow(*window)
	if err != nil {
		return err
	}

	// Start CPU profiling if requested (for PGO)
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
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

	inputPath := args[0]
	outputPath := args[1]
	opts := options{
		targetRate: int(*rateKHz * kHzToHz),
		quality:    preset,
		phases:     *phases,
		window:     win,
		parallel:   *parallel,
		verbose:    *verbose,
	}

	if opts.verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		log.Printf("Target rate: %d Hz", opts.targetRate)
		log.Printf("Quality: %s, window: %s", opts.quality, opts.window)
		if resampler.SIMDAvailable() {
			log.Printf("SIMD: %s", resampler.SIMDInfo())
		}
		if opts.parallel {
			log.Printf("Parallel: enabled (concurrent channel processing)")
		} else {
			log.Printf("Parallel: disabled (sequential processing)")
		}
	}

	// Process the file
	start := time.Now()
	stats, err := resampleWAV(inputPath, outputPath, opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	// Print summary
	fmt.Printf("Resampled %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz -> %d Hz (%d channels, %d-bit)\n",
		stats.inputRate, stats.outputRate, stats.channels, stats.bitDepth)
	fmt.Printf("  %d samples -> %d samples\n", stats.inputSamples, stats.outputSamples)
	fmt.Printf("  Filter: %d taps in %d phases, latency %d samples\n",
		stats.info.FilterLength, stats.info.Phases, stats.info.Latency)
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(stats.inputSamples)/float64(stats.inputRate)/elapsed.Seconds())

	return nil
}

type resampleStats struct {
	inputRate     int
	outputRate    int
	channels      int
	bitDepth      int
	inputSamples  int64
	outputSamples int64
	info          resampler.Info
}

func resampleWAV(inputPath, outputPath string, opts options) (stats *resampleStats, err error) {
	// 1. Open and validate input
	input, err := openWAVInput(inputPath, opts.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	// Check if resampling is needed
	if input.rate == opts.targetRate {
		return nil, fmt.Errorf("input already at target rate %d Hz", opts.targetRate)
	}

	// 2. Create the multi-channel resampler
	r, err := newChannelResampler(input.channels, input.rate, opts)
	if err != nil {
		return nil, err
	}

	// 3. Create output writer
	output, err := createWAVOutput(
		outputPath, opts.targetRate, input.bitDepth, input.channels,
	)
	if err != nil {
		return nil, err
	}
	// Close output, capturing close errors on success path (important for WAV header updates)
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	// 4. Initialize processing buffers
	buffers := newResampleBuffers(
		input.channels, input.bitDepth,
		input.rate, opts.targetRate,
		input.format,
	)

	// 5. Initialize tracking
	stats = &resampleStats{
		inputRate:  input.rate,
		outputRate: opts.targetRate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
		info:       resampler.GetInfo(r),
	}
	progress := newProgressTracker(input.totalSamples, opts.verbose)

	// 6. Main processing loop
	for {
		// Read chunk
		n, err := input.decoder.PCMBuffer(buffers.intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		if n == 0 {
			break
		}

		// PCMBuffer counts interleaved values, not frames.
		frames := n / input.channels
		stats.inputSamples += int64(frames)

		deinterleaveInto(
			buffers.intBuffer.Data[:frames*input.channels],
			buffers.channelBufs,
			input.channels, frames,
			buffers.invMaxVal,
		)

		resampled, err := r.ProcessMulti(buffers.inputChannels(frames))
		if err != nil {
			return nil, fmt.Errorf("resampling failed: %w", err)
		}

		written, err := buffers.writeChannels(output, resampled)
		if err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}
		stats.outputSamples += int64(written)

		progress.reportIfNeeded(stats.inputSamples)
	}

	// 7. Flush remaining samples
	tail, err := r.FlushMulti()
	if err != nil {
		return nil, fmt.Errorf("failed to flush resampler: %w", err)
	}
	written, err := buffers.writeChannels(output, tail)
	if err != nil {
		return nil, fmt.Errorf("failed to write flushed data: %w", err)
	}
	stats.outputSamples += int64(written)

	return stats, nil
}
