package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// WAVSpec describes the header written by WriteWAV.
type WAVSpec struct {
	AudioFormat   uint16
	SampleRate    uint32
	Channels      uint16
	BitsPerSample uint16
	// ExtraChunk inserts a LIST chunk between fmt and data.
	ExtraChunk bool
}

// ConformingWAV is 16 kHz mono 16-bit PCM.
var ConformingWAV = WAVSpec{AudioFormat: 1, SampleRate: 16000, Channels: 1, BitsPerSample: 16}

// WriteWAV writes pcm wrapped in a RIFF/WAVE header described by spec.
func WriteWAV(t testing.TB, path string, spec WAVSpec, pcm []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	blockAlign := spec.Channels * spec.BitsPerSample / 8
	byteRate := spec.SampleRate * uint32(blockAlign)

	var extra []byte
	if spec.ExtraChunk {
		// Odd-sized payload exercises the pad byte.
		payload := []byte("INFOabc")
		extra = append(extra, []byte("LIST")...)
		extra = binary.LittleEndian.AppendUint32(extra, uint32(len(payload)))
		extra = append(extra, payload...)
		extra = append(extra, 0)
	}

	buf := make([]byte, 0, 44+len(extra)+len(pcm))
	buf = append(buf, []byte("RIFF")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(extra)+len(pcm)))
	buf = append(buf, []byte("WAVE")...)
	buf = append(buf, []byte("fmt ")...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, spec.AudioFormat)
	buf = binary.LittleEndian.AppendUint16(buf, spec.Channels)
	buf = binary.LittleEndian.AppendUint32(buf, spec.SampleRate)
	buf = binary.LittleEndian.AppendUint32(buf, byteRate)
	buf = binary.LittleEndian.AppendUint16(buf, blockAlign)
	buf = binary.LittleEndian.AppendUint16(buf, spec.BitsPerSample)
	buf = append(buf, extra...)
	buf = append(buf, []byte("data")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pcm)))
	buf = append(buf, pcm...)

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// PCM returns n bytes of a repeating non-silent sample pattern.
func PCM(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i % 251)
	}
	return out
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
