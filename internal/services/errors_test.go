package services_test

import (
	"errors"
	"strings"
	"testing"

	"subgen/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrDecode, "audio", "ffmpeg", "exited", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrDecode) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"audio", "ffmpeg", "exited"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestRecoverableClassification(t *testing.T) {
	cases := []struct {
		err  error
		want bool
		kind string
	}{
		{services.Wrap(services.ErrFormat, "audio", "open", "stereo", nil), false, "format"},
		{services.Wrap(services.ErrDecode, "audio", "ffmpeg", "", nil), false, "decode"},
		{services.Wrap(services.ErrEmptyTranscript, "subtitles", "", "", nil), false, "empty_transcript"},
		{services.Wrap(services.ErrTranslation, "translate", "", "quota", nil), true, "translation"},
		{services.Wrap(services.ErrPersistence, "store", "append", "", nil), true, "persistence"},
		{errors.New("plain"), false, "unknown"},
	}
	for _, tc := range cases {
		if got := services.Recoverable(tc.err); got != tc.want {
			t.Errorf("Recoverable(%v) = %v, want %v", tc.err, got, tc.want)
		}
		if got := services.Kind(tc.err); got != tc.kind {
			t.Errorf("Kind(%v) = %q, want %q", tc.err, got, tc.kind)
		}
	}
	if !services.Recoverable(nil) {
		t.Fatal("nil error should be recoverable")
	}
}
