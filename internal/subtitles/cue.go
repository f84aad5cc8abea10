package subtitles

import "fmt"

// Mode selects cue granularity and the matching serialization.
type Mode int

const (
	// ModeWord emits one numbered cue per recognized word with HH:MM:SS,mmm times.
	ModeWord Mode = iota
	// ModeUtterance emits one unnumbered cue per utterance with S.sss times
	// derived from the audio consumed.
	ModeUtterance
)

func (m Mode) String() string {
	switch m {
	case ModeWord:
		return "word"
	case ModeUtterance:
		return "utterance"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Cue is one timed subtitle entry. Times are seconds from the start of the stream.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration returns End-Start.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}
