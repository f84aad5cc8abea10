package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"subgen/internal/services"
)

const wavFormatPCM = 1

// WAVSource streams the data chunk of a wave file.
type WAVSource struct {
	file   *os.File
	data   io.Reader
	format Format
	// DataSize is the declared size of the data chunk in bytes, or -1 when the
	// header does not declare one.
	DataSize int64
}

// OpenWAV opens path and positions the stream at the start of the PCM data.
// Files that are not RIFF/WAVE, not PCM, or not mono 16 kHz 16-bit are
// rejected with services.ErrFormat.
func OpenWAV(path string) (*WAVSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrFormat, "audio", "open wav", "", err)
	}
	src, err := readWAVHeader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return src, nil
}

func readWAVHeader(file *os.File) (*WAVSource, error) {
	var riff struct {
		ID   [4]byte
		Size uint32
		Wave [4]byte
	}
	if err := binary.Read(file, binary.LittleEndian, &riff); err != nil {
		return nil, formatError("read RIFF header", err)
	}
	if string(riff.ID[:]) != "RIFF" {
		return nil, formatError("not a RIFF file", nil)
	}
	if string(riff.Wave[:]) != "WAVE" {
		return nil, formatError("not a WAVE file", nil)
	}

	var format *Format
	for {
		var chunk struct {
			ID   [4]byte
			Size uint32
		}
		if err := binary.Read(file, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				if format == nil {
					return nil, formatError("missing fmt chunk", nil)
				}
				return nil, formatError("missing data chunk", nil)
			}
			return nil, formatError("read chunk header", err)
		}

		switch string(chunk.ID[:]) {
		case "fmt ":
			parsed, err := readFmtChunk(file, chunk.Size)
			if err != nil {
				return nil, err
			}
			format = &parsed
		case "data":
			if format == nil {
				return nil, formatError("data chunk before fmt chunk", nil)
			}
			src := &WAVSource{file: file, format: *format, DataSize: int64(chunk.Size)}
			// Streaming writers leave the size as 0 or 0xFFFFFFFF; read to EOF then.
			if chunk.Size == 0 || chunk.Size == ^uint32(0) {
				src.data = file
				src.DataSize = -1
			} else {
				src.data = io.LimitReader(file, int64(chunk.Size))
			}
			return src, nil
		default:
			skip := int64(chunk.Size)
			if chunk.Size%2 != 0 {
				skip++
			}
			if _, err := file.Seek(skip, io.SeekCurrent); err != nil {
				return nil, formatError(fmt.Sprintf("skip chunk %q", chunk.ID), err)
			}
		}
	}
}

func readFmtChunk(r io.ReadSeeker, size uint32) (Format, error) {
	if size < 16 {
		return Format{}, formatError(fmt.Sprintf("fmt chunk too short (%d bytes)", size), nil)
	}
	var fmtChunk struct {
		AudioFormat   uint16
		NumChannels   uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
	}
	if err := binary.Read(r, binary.LittleEndian, &fmtChunk); err != nil {
		return Format{}, formatError("read fmt chunk", err)
	}
	// Skip cbSize and any extension bytes.
	if extra := int64(size) - 16 + int64(size%2); extra > 0 {
		if _, err := r.Seek(extra, io.SeekCurrent); err != nil {
			return Format{}, formatError("skip fmt extension", err)
		}
	}

	if fmtChunk.AudioFormat != wavFormatPCM {
		return Format{}, formatError(fmt.Sprintf("unsupported audio format %d (only PCM supported)", fmtChunk.AudioFormat), nil)
	}
	if fmtChunk.NumChannels != Channels {
		return Format{}, formatError(fmt.Sprintf("unsupported channel count %d (only mono supported)", fmtChunk.NumChannels), nil)
	}
	if fmtChunk.BitsPerSample != BitsPerSample {
		return Format{}, formatError(fmt.Sprintf("unsupported sample width %d bits (only 16 supported)", fmtChunk.BitsPerSample), nil)
	}
	if fmtChunk.SampleRate != SampleRate {
		return Format{}, formatError(fmt.Sprintf("unsupported sample rate %d (only 16000 supported)", fmtChunk.SampleRate), nil)
	}
	return Format{
		SampleRate:    int(fmtChunk.SampleRate),
		Channels:      int(fmtChunk.NumChannels),
		BitsPerSample: int(fmtChunk.BitsPerSample),
	}, nil
}

func formatError(message string, err error) error {
	return services.Wrap(services.ErrFormat, "audio", "parse wav", message, err)
}

// Read reads PCM bytes from the data chunk.
func (s *WAVSource) Read(p []byte) (int, error) {
	return s.data.Read(p)
}

// Format returns the validated PCM format.
func (s *WAVSource) Format() Format {
	return s.format
}

// Close releases the file handle.
func (s *WAVSource) Close() error {
	return s.file.Close()
}
