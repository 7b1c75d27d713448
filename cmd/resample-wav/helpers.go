package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	resampler "github.com/tphakala/go-pcm-resampler"
)

const (
	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32
	bitsPerByte     = 8

	// 24-bit samples travel through the resampler left-aligned in 32 bits.
	shift24 = 8

	// Byte sizes for PCM sample formats
	bytesPerSample16 = 2
	bytesPerSample24 = 3
	bytesPerSample32 = 4

	// WAV format constants
	wavHeaderSize      = 44 // Total WAV header size in bytes
	wavRiffHeaderSize  = 36 // RIFF header size (file size - 8 = riffHeaderSize + dataSize)
	wavPCMSubchunkSize = 16 // fmt subchunk size for PCM format
	wavFileSizeOffset  = 4  // Byte offset for file size field in header
	wavDataSizeOffset  = 40 // Byte offset for data size field in header
	uint32Size         = 4

	// I/O buffer sizes
	wavWriterBufferSize = 256 * 1024
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, format.NumChannels, bitDepth)
	}

	// Duration is only used for progress reporting.
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}

	return &wavInputInfo{
		file:        inputFile,
		decoder:     decoder,
		rate:        format.SampleRate,
		channels:    format.NumChannels,
		bitDepth:    bitDepth,
		totalFrames: int64(duration.Seconds() * float64(format.SampleRate)),
		format:      format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// sampleLayout maps a WAV bit depth onto a resampler sample format.
type sampleLayout struct {
	bitDepth int
	format   resampler.SampleFormat
	width    int
	shift    uint
}

func layoutFor(bitDepth int) (sampleLayout, error) {
	switch bitDepth {
	case bitsPerSample16:
		return sampleLayout{bitDepth: bitDepth, format: resampler.FormatS16, width: bytesPerSample16}, nil
	case bitsPerSample24:
		return sampleLayout{bitDepth: bitDepth, format: resampler.FormatS32, width: bytesPerSample32, shift: shift24}, nil
	case bitsPerSample32:
		return sampleLayout{bitDepth: bitDepth, format: resampler.FormatS32, width: bytesPerSample32}, nil
	default:
		return sampleLayout{}, fmt.Errorf("unsupported bit depth %d (want 16, 24 or 32)", bitDepth)
	}
}

// encode appends samples to dst in the resampler's host-order format.
func (l sampleLayout) encode(dst []byte, samples []int) []byte {
	n := len(samples) * l.width
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]

	if l.format == resampler.FormatS16 {
		for i, s := range samples {
			binary.NativeEndian.PutUint16(dst[i*bytesPerSample16:], uint16(int16(s)))
		}
		return dst
	}
	for i, s := range samples {
		binary.NativeEndian.PutUint32(dst[i*bytesPerSample32:], uint32(int32(s)<<l.shift))
	}
	return dst
}

// decode converts resampler output back to WAV-scaled integers.
func (l sampleLayout) decode(dst []int, src []byte) []int {
	n := len(src) / l.width
	if cap(dst) < n {
		dst = make([]int, n)
	}
	dst = dst[:n]

	if l.format == resampler.FormatS16 {
		for i := range dst {
			dst[i] = int(int16(binary.NativeEndian.Uint16(src[i*bytesPerSample16:])))
		}
		return dst
	}

	for i := range dst {
		v := int(int32(binary.NativeEndian.Uint32(src[i*bytesPerSample32:])))
		if l.shift > 0 {
			half := 1 << (l.shift - 1)
			v = min((v+half)>>l.shift, math.MaxInt32>>l.shift)
		}
		dst[i] = v
	}
	return dst
}

// pipe moves decoded WAV chunks through a resampler into the writer.
// Input buffers are recycled through a pool once the resampler releases
// them.
type pipe struct {
	r       *resampler.Resampler
	layout  sampleLayout
	input   *wavInputInfo
	output  *wavOutputWriter
	pool    sync.Pool
	intBuf  *audio.IntBuffer
	outRaw  []byte
	outInts []int
}

func newPipe(r *resampler.Resampler, layout sampleLayout, input *wavInputInfo, output *wavOutputWriter) *pipe {
	fs := r.FrameSize()
	p := &pipe{
		r:      r,
		layout: layout,
		input:  input,
		output: output,
		intBuf: &audio.IntBuffer{
			Data:   make([]int, bufferFrames*input.channels),
			Format: input.format,
		},
		// Whole frames, so a short count always means the input ran out.
		outRaw: make([]byte, r.OutputSizeForInput(bufferFrames*fs)+fs),
	}
	p.pool.New = func() any {
		b := make([]byte, 0, bufferFrames*fs)
		return &b
	}
	return p
}

// feed decodes the next chunk and queues it. It returns the number of
// frames queued, zero at end of file.
func (p *pipe) feed() (int, error) {
	p.intBuf.Data = p.intBuf.Data[:cap(p.intBuf.Data)]
	n, err := p.input.decoder.PCMBuffer(p.intBuf)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("failed to read audio data: %w", err)
	}

	// n counts interleaved samples; a trailing partial frame is dropped.
	frames := n / p.input.channels
	if frames == 0 {
		return 0, nil
	}

	bp, _ := p.pool.Get().(*[]byte)
	*bp = p.layout.encode(*bp, p.intBuf.Data[:frames*p.input.channels])
	if err := p.r.AddInput(*bp, func() { p.pool.Put(bp) }); err != nil {
		return 0, err
	}
	return frames, nil
}

// drain writes all output the queued input allows.
func (p *pipe) drain() error {
	for {
		n, err := p.r.Output(p.outRaw)
		if err != nil {
			return fmt.Errorf("resampling failed: %w", err)
		}
		if n > 0 {
			p.outInts = p.layout.decode(p.outInts, p.outRaw[:n])
			if err := p.output.WriteSamples(p.outInts); err != nil {
				return fmt.Errorf("failed to write audio data: %w", err)
			}
		}
		if n < len(p.outRaw) {
			return nil
		}
	}
}

// wavOutputWriter wraps output file and fast writer.
type wavOutputWriter struct {
	file   *os.File
	writer *fastWAVWriter
}

// createWAVOutput creates output file and writer.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	fastWriter, err := newFastWAVWriter(outputFile, sampleRate, bitDepth, channels)
	if err != nil {
		_ = outputFile.Close()
		return nil, fmt.Errorf("failed to create WAV writer: %w", err)
	}

	return &wavOutputWriter{file: outputFile, writer: fastWriter}, nil
}

// WriteSamples writes samples to the output file.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	return w.writer.WriteSamples(samples)
}

// Close closes the output writer and file.
func (w *wavOutputWriter) Close() error {
	if err := w.writer.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// fastWAVWriter writes little-endian PCM without per-sample allocations
// and patches the RIFF sizes on Close.
type fastWAVWriter struct {
	w          *bufio.Writer
	f          io.WriteSeeker
	sampleRate int
	bitDepth   int
	channels   int
	dataSize   uint32
	byteBuf    []byte
}

func newFastWAVWriter(f io.WriteSeeker, sampleRate, bitDepth, channels int) (*fastWAVWriter, error) {
	w := &fastWAVWriter{
		w:          bufio.NewWriterSize(f, wavWriterBufferSize),
		f:          f,
		sampleRate: sampleRate,
		bitDepth:   bitDepth,
		channels:   channels,
	}
	if err := w.writeHeader(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *fastWAVWriter) writeHeader() error {
	blockAlign := w.channels * (w.bitDepth / bitsPerByte)
	byteRate := w.sampleRate * blockAlign

	header := make([]byte, wavHeaderSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 0) // patched on Close
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], wavPCMSubchunkSize)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(w.channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(w.sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(w.bitDepth))

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], 0) // patched on Close

	_, err := w.w.Write(header)
	return err
}

// WriteSamples writes interleaved samples at the writer's bit depth.
func (w *fastWAVWriter) WriteSamples(samples []int) error {
	width := w.bitDepth / bitsPerByte
	needed := len(samples) * width
	if cap(w.byteBuf) < needed {
		w.byteBuf = make([]byte, needed)
	}
	buf := w.byteBuf[:needed]

	switch w.bitDepth {
	case bitsPerSample24:
		for i, s := range samples {
			buf[i*bytesPerSample24] = byte(s)
			buf[i*bytesPerSample24+1] = byte(s >> 8)
			buf[i*bytesPerSample24+2] = byte(s >> 16)
		}
	case bitsPerSample32:
		for i, s := range samples {
			binary.LittleEndian.PutUint32(buf[i*bytesPerSample32:], uint32(int32(s)))
		}
	default:
		for i, s := range samples {
			binary.LittleEndian.PutUint16(buf[i*bytesPerSample16:], uint16(int16(s)))
		}
	}

	written, err := w.w.Write(buf)
	w.dataSize += uint32(written)
	return err
}

// Close flushes the buffer and updates the WAV header with final sizes.
func (w *fastWAVWriter) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}

	sizeBytes := make([]byte, uint32Size)
	patches := []struct {
		offset int64
		value  uint32
	}{
		{wavFileSizeOffset, wavRiffHeaderSize + w.dataSize},
		{wavDataSizeOffset, w.dataSize},
	}
	for _, p := range patches {
		if _, err := w.f.Seek(p.offset, io.SeekStart); err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(sizeBytes, p.value)
		if _, err := w.f.Write(sizeBytes); err != nil {
			return err
		}
	}
	return nil
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	verbose      bool
}

func newProgressTracker(totalFrames int64, verbose bool) *progressTracker {
	return &progressTracker{totalFrames: totalFrames, verbose: verbose}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if !p.verbose || p.totalFrames == 0 {
		return
	}

	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}
