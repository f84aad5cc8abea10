package audio

import (
	"context"
	"fmt"
	"io"
)

const (
	// SampleRate is the only rate the recognizer is configured for.
	SampleRate = 16000
	// Channels is the required channel count.
	Channels = 1
	// BitsPerSample is the required sample width in bits.
	BitsPerSample = 16
	// DefaultChunkBytes is the number of PCM bytes handed to the recognizer per step.
	DefaultChunkBytes = 4000
)

// Format describes a PCM stream.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// Required is the PCM format every Source yields.
var Required = Format{SampleRate: SampleRate, Channels: Channels, BitsPerSample: BitsPerSample}

// BytesPerSecond returns the byte rate of the stream.
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.Channels * f.BitsPerSample / 8
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %d-bit", f.SampleRate, f.Channels, f.BitsPerSample)
}

// Source is a readable PCM stream that must be closed after use.
type Source interface {
	io.ReadCloser
	Format() Format
}

// Mode selects how an input file becomes PCM.
type Mode int

const (
	// ModeDirect reads a conforming wave file as-is.
	ModeDirect Mode = iota
	// ModeTranscode decodes any media through ffmpeg.
	ModeTranscode
)

func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeTranscode:
		return "transcode"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// OpenOptions configures Open.
type OpenOptions struct {
	// FFmpegBinary is the decoder used in transcoding mode. Defaults to "ffmpeg".
	FFmpegBinary string
}

// Open returns a PCM source for path using the requested mode.
func Open(ctx context.Context, mode Mode, path string, opts OpenOptions) (Source, error) {
	switch mode {
	case ModeDirect:
		return OpenWAV(path)
	case ModeTranscode:
		return Transcode(ctx, TranscodeOptions{Binary: opts.FFmpegBinary, Path: path})
	default:
		return nil, fmt.Errorf("audio: unknown mode %v", mode)
	}
}
