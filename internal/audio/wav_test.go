package audio_test

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"subgen/internal/audio"
	"subgen/internal/services"
	"subgen/internal/testsupport"
)

func TestOpenWAVStreamsDataChunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speech.wav")
	pcm := testsupport.PCM(10000)
	spec := testsupport.ConformingWAV
	spec.ExtraChunk = true
	testsupport.WriteWAV(t, path, spec, pcm)

	src, err := audio.OpenWAV(path)
	if err != nil {
		t.Fatalf("OpenWAV failed: %v", err)
	}
	defer src.Close()

	if src.Format() != audio.Required {
		t.Fatalf("unexpected format: %v", src.Format())
	}
	if src.DataSize != int64(len(pcm)) {
		t.Fatalf("unexpected data size: %d", src.DataSize)
	}
	got, err := io.ReadAll(src)
	if err != nil {
		t.Fatalf("read pcm: %v", err)
	}
	if !bytes.Equal(got, pcm) {
		t.Fatalf("pcm mismatch: got %d bytes want %d", len(got), len(pcm))
	}
}

func TestOpenWAVRejectsNonConformingFormats(t *testing.T) {
	tests := []struct {
		name string
		spec testsupport.WAVSpec
	}{
		{"stereo", testsupport.WAVSpec{AudioFormat: 1, SampleRate: 16000, Channels: 2, BitsPerSample: 16}},
		{"8-bit", testsupport.WAVSpec{AudioFormat: 1, SampleRate: 16000, Channels: 1, BitsPerSample: 8}},
		{"44.1 kHz", testsupport.WAVSpec{AudioFormat: 1, SampleRate: 44100, Channels: 1, BitsPerSample: 16}},
		{"float", testsupport.WAVSpec{AudioFormat: 3, SampleRate: 16000, Channels: 1, BitsPerSample: 16}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.wav")
			testsupport.WriteWAV(t, path, tc.spec, testsupport.PCM(64))

			_, err := audio.OpenWAV(path)
			if !errors.Is(err, services.ErrFormat) {
				t.Fatalf("expected ErrFormat, got %v", err)
			}
		})
	}
}

func TestOpenWAVRejectsNonRIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	testsupport.WriteFile(t, path, []byte("ID3\x03\x00not a wave file at all"))

	if _, err := audio.OpenWAV(path); !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestOpenWAVMissingFile(t *testing.T) {
	_, err := audio.OpenWAV(filepath.Join(t.TempDir(), "absent.wav"))
	if !errors.Is(err, services.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestChunkerYieldsFixedSizeChunks(t *testing.T) {
	data := testsupport.PCM(10000)
	chunker := audio.NewChunker(bytes.NewReader(data), 4000)

	var sizes []int
	var total []byte
	for {
		chunk, err := chunker.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		sizes = append(sizes, len(chunk))
		total = append(total, chunk...)
	}

	want := []int{4000, 4000, 2000}
	if len(sizes) != len(want) {
		t.Fatalf("unexpected chunk count: %v", sizes)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("chunk %d: got %d bytes want %d", i, sizes[i], want[i])
		}
	}
	if !bytes.Equal(total, data) {
		t.Fatal("chunks do not reassemble the stream")
	}
	if chunker.Consumed != int64(len(data)) {
		t.Fatalf("unexpected consumed count: %d", chunker.Consumed)
	}
	if _, err := chunker.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after end, got %v", err)
	}
}

func TestChunkerEmptyStream(t *testing.T) {
	chunker := audio.NewChunker(bytes.NewReader(nil), 0)
	if _, err := chunker.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestChunkerPropagatesReadErrors(t *testing.T) {
	boom := errors.New("boom")
	chunker := audio.NewChunker(io.MultiReader(bytes.NewReader(testsupport.PCM(10)), errReader{boom}), 4000)
	if _, err := chunker.Next(); !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
