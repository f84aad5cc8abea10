package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFormat marks input audio that does not meet the required PCM format.
	ErrFormat = errors.New("audio format error")
	// ErrDecode marks a missing or failing external decoder process.
	ErrDecode = errors.New("audio decode error")
	// ErrEmptyTranscript marks a run where recognition produced no usable cues.
	ErrEmptyTranscript = errors.New("empty transcript")
	// ErrRecognizer marks a recognizer crash or protocol failure.
	ErrRecognizer = errors.New("recognizer error")
	// ErrTranslation marks a failed translation call.
	ErrTranslation = errors.New("translation error")
	// ErrPersistence marks a failed subtitle file write or record store append.
	ErrPersistence = errors.New("persistence error")
	// ErrConfiguration marks unusable settings.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrRecognizer
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Recoverable reports whether the run may continue after err. Translation and
// persistence failures degrade the run; everything else aborts it.
func Recoverable(err error) bool {
	if err == nil {
		return true
	}
	return errors.Is(err, ErrTranslation) || errors.Is(err, ErrPersistence)
}

// Kind returns a short label for the marker carried by err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrEmptyTranscript):
		return "empty_transcript"
	case errors.Is(err, ErrRecognizer):
		return "recognizer"
	case errors.Is(err, ErrTranslation):
		return "translation"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "unknown"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
