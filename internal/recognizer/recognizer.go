package recognizer

import (
	"context"
	"errors"
	"strings"
)

// ErrNativeUnavailable indicates the binary was built without the vosk tag.
var ErrNativeUnavailable = errors.New("recognizer: native vosk backend not compiled in (rebuild with -tags vosk)")

// Word is a recognized word with times in seconds from the start of the stream.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Conf  float64 `json:"conf"`
}

// Partial is a tentative hypothesis for the utterance in progress.
type Partial struct {
	Text string
}

// Final is a completed utterance.
type Final struct {
	Text  string
	Words []Word
}

// Empty reports whether the result carries neither words nor text.
func (f Final) Empty() bool {
	return len(f.Words) == 0 && strings.TrimSpace(f.Text) == ""
}

// Session is one recognition pass over a single PCM stream.
type Session interface {
	// Feed submits a chunk and reports whether an utterance boundary was crossed.
	Feed(ctx context.Context, chunk []byte) (bool, error)
	// Partial returns the latest tentative result.
	Partial() (Partial, error)
	// Final returns the utterance completed by the last Feed that returned true.
	Final() (Final, error)
	// Flush ends the stream and returns the trailing utterance, which may be empty.
	Flush(ctx context.Context) (Final, error)
	Close() error
}

// Engine creates sessions. It is constructed once per process.
type Engine interface {
	NewSession(ctx context.Context, sampleRate int) (Session, error)
	Close() error
}

// Checker is implemented by engines that can verify their backend is reachable.
type Checker interface {
	Check(ctx context.Context) error
}
