package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	resampler "github.com/tphakala/go-arb-resampler"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file         *os.File
	decoder      *wav.Decoder
	rate         int
	channels     int
	bitDepth     int
	totalSamples int64
	format       *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	// Open input file
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	// Create WAV decoder
	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	// Read format info
	format := decoder.Format()
	inputRate := format.SampleRate
	channels := format.NumChannels
	bitDepth := int(decoder.BitDepth)

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", inputRate, channels, bitDepth)
	}

	// Get total duration for progress reporting
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}
	totalSamples := int64(duration.Seconds() * float64(inputRate))

	return &wavInputInfo{
		file:         inputFile,
		decoder:      decoder,
		rate:         inputRate,
		channels:     channels,
		bitDepth:     bitDepth,
		totalSamples: totalSamples,
		format:       format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// parseQuality maps a preset name to a quality preset.
func parseQuality(q string) (resampler.QualityPreset, error) {
	name := strings.ToLower(strings.TrimSpace(q))
	for _, p := range []resampler.QualityPreset{
		resampler.QualityQuick,
		resampler.QualityLow,
		resampler.QualityMedium,
		resampler.QualityHigh,
		resampler.QualityVeryHigh,
	} {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown quality %q", q)
}

// newChannelResampler creates one resampler covering every channel.
func newChannelResampler(numChannels, inputRate int, opts options) (resampler.Resampler, error) {
	r, err := resampler.New(&resampler.Config{
		InputRate:      float64(inputRate),
		OutputRate:     float64(opts.targetRate),
		Channels:       numChannels,
		Quality:        resampler.QualitySpec{Preset: opts.quality},
		Phases:         opts.phases,
		Window:         opts.window,
		EnableSIMD:     true,
		EnableParallel: opts.parallel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}
	return r, nil
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
}

// createWAVOutput creates output file and encoder.
func createWAVOutput(
	path string,
	sampleRate, bitDepth, channels int,
) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM),
	}, nil
}

// WriteBuffer writes interleaved PCM samples to the output file.
func (w *wavOutputWriter) WriteBuffer(buf *audio.IntBuffer) error {
	if len(buf.Data) == 0 {
		return nil
	}
	return w.encoder.Write(buf)
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// sampleWriter receives interleaved PCM blocks.
type sampleWriter interface {
	WriteBuffer(buf *audio.IntBuffer) error
}

// resampleBuffers holds all preallocated buffers for resampling.
type resampleBuffers struct {
	intBuffer   *audio.IntBuffer
	channelBufs [][]float64
	inputViews  [][]float64
	outputBuf   *audio.IntBuffer
	invMaxVal   float64
	maxVal      float64
}

// newResampleBuffers creates and preallocates all processing buffers.
func newResampleBuffers(
	channels, bitDepth int,
	inputRate, targetRate int,
	format *audio.Format,
) *resampleBuffers {
	// Preallocate buffers for reuse (reduces GC pressure)
	intBuffer := &audio.IntBuffer{
		Data:   make([]int, bufferSize*channels),
		Format: format,
	}

	channelBufs := make([][]float64, channels)
	for ch := range channels {
		channelBufs[ch] = make([]float64, bufferSize)
	}

	// Preallocate output buffer with estimated size (ratio * input + margin)
	estimatedOutputSize := int(float64(bufferSize)*float64(targetRate)/float64(inputRate)) + outputBufferMargin
	outputBuf := &audio.IntBuffer{
		Data: make([]int, 0, estimatedOutputSize*channels),
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  targetRate,
		},
		SourceBitDepth: bitDepth,
	}

	maxVal := getMaxValue(bitDepth)

	return &resampleBuffers{
		intBuffer:   intBuffer,
		channelBufs: channelBufs,
		inputViews:  make([][]float64, channels),
		outputBuf:   outputBuf,
		invMaxVal:   1.0 / maxVal,
		maxVal:      maxVal,
	}
}

// inputChannels returns the first frames samples of each channel buffer.
func (b *resampleBuffers) inputChannels(frames int) [][]float64 {
	for ch, buf := range b.channelBufs {
		b.inputViews[ch] = buf[:frames]
	}
	return b.inputViews
}

// writeChannels interleaves channels into the output buffer and writes it.
// Returns the number of frames written.
func (b *resampleBuffers) writeChannels(w sampleWriter, channels [][]float64) (int, error) {
	frames := padChannels(channels)
	if frames == 0 {
		return 0, nil
	}

	needed := frames * len(channels)
	if cap(b.outputBuf.Data) < needed {
		b.outputBuf.Data = make([]int, needed)
	}
	b.outputBuf.Data = b.outputBuf.Data[:needed]
	interleaveInto(channels, b.outputBuf.Data, b.maxVal)

	if err := w.WriteBuffer(b.outputBuf); err != nil {
		return 0, err
	}
	return frames, nil
}

// padChannels zero-pads shorter channels to the longest one and returns
// that length.
func padChannels(channels [][]float64) int {
	frames := 0
	for _, ch := range channels {
		frames = max(frames, len(ch))
	}
	for i, ch := range channels {
		if len(ch) < frames {
			padded := make([]float64, frames)
			copy(padded, ch)
			channels[i] = padded
		}
	}
	return frames
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// deinterleaveInto converts interleaved int samples into preallocated per-channel buffers.
func deinterleaveInto(data []int, channelBufs [][]float64, numChannels, frames int, invMaxVal float64) {
	for i := range frames {
		base := i * numChannels
		for ch := range numChannels {
			channelBufs[ch][i] = float64(data[base+ch]) * invMaxVal
		}
	}
}

// interleaveInto converts per-channel samples into dst, clamping to
// [-1, 1] before scaling. dst must hold frames*channels values.
func interleaveInto(channels [][]float64, dst []int, maxVal float64) {
	numChannels := len(channels)
	for ch, samples := range channels {
		for i, s := range samples {
			dst[i*numChannels+ch] = int(max(-1, min(1, s)) * maxVal)
		}
	}
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalSamples int64
	lastProgress int
	verbose      bool
}

// newProgressTracker creates a new progress tracker.
func newProgressTracker(totalSamples int64, verbose bool) *progressTracker {
	return &progressTracker{
		totalSamples: totalSamples,
		verbose:      verbose,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentSamples int64) {
	if !p.verbose || p.totalSamples == 0 {
		return
	}

	progress := int(float64(currentSamples) / float64(p.totalSamples) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}
