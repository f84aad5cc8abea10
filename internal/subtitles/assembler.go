package subtitles

import (
	"strings"

	"subgen/internal/recognizer"
	"subgen/internal/services"
)

// Assembler turns Final results, in arrival order, into a cue sequence.
type Assembler interface {
	// Consume records n PCM bytes fed to the recognizer.
	Consume(n int)
	// Add folds a Final result into the cue sequence.
	Add(final recognizer.Final)
	// Len returns the number of cues so far.
	Len() int
	// Document returns the assembled document, or services.ErrEmptyTranscript
	// when no cue was produced.
	Document() (Document, error)
}

// NewAssembler returns the assembler for mode. bytesPerSecond is only used in
// utterance mode.
func NewAssembler(mode Mode, bytesPerSecond int) Assembler {
	if mode == ModeUtterance {
		return NewUtteranceAssembler(bytesPerSecond)
	}
	return NewWordAssembler()
}

// WordAssembler emits one cue per word, timed by the recognizer's word
// timestamps. The index runs across the whole stream.
type WordAssembler struct {
	cues []Cue
}

// NewWordAssembler returns an empty word-granularity assembler.
func NewWordAssembler() *WordAssembler {
	return &WordAssembler{}
}

// Consume is a no-op; word cues carry their own timing.
func (a *WordAssembler) Consume(int) {}

func (a *WordAssembler) Add(final recognizer.Final) {
	for _, w := range final.Words {
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		start := max(w.Start, 0)
		end := max(w.End, start)
		a.cues = append(a.cues, Cue{Index: len(a.cues) + 1, Start: start, End: end, Text: text})
	}
}

func (a *WordAssembler) Len() int {
	return len(a.cues)
}

func (a *WordAssembler) Document() (Document, error) {
	return newDocument(ModeWord, a.cues)
}

// UtteranceAssembler emits one cue per non-empty Final. Cue times come from
// a running clock advanced by the audio bytes consumed since the previous
// Final, not from the recognizer's word timestamps.
type UtteranceAssembler struct {
	bytesPerSecond float64
	clock          float64
	pending        int64
	cues           []Cue
}

// NewUtteranceAssembler returns an assembler for PCM at bytesPerSecond.
func NewUtteranceAssembler(bytesPerSecond int) *UtteranceAssembler {
	if bytesPerSecond <= 0 {
		bytesPerSecond = 16000 * 2
	}
	return &UtteranceAssembler{bytesPerSecond: float64(bytesPerSecond)}
}

func (a *UtteranceAssembler) Consume(n int) {
	if n > 0 {
		a.pending += int64(n)
	}
}

// Add closes the current utterance. Empty results emit nothing but still
// move the clock past the audio they covered.
func (a *UtteranceAssembler) Add(final recognizer.Final) {
	start := a.clock
	end := start + float64(a.pending)/a.bytesPerSecond
	a.clock = end
	a.pending = 0

	text := utteranceText(final)
	if text == "" {
		return
	}
	a.cues = append(a.cues, Cue{Index: len(a.cues) + 1, Start: start, End: end, Text: text})
}

func (a *UtteranceAssembler) Len() int {
	return len(a.cues)
}

func (a *UtteranceAssembler) Document() (Document, error) {
	return newDocument(ModeUtterance, a.cues)
}

func utteranceText(final recognizer.Final) string {
	if text := strings.TrimSpace(final.Text); text != "" {
		return text
	}
	words := make([]string, 0, len(final.Words))
	for _, w := range final.Words {
		if t := strings.TrimSpace(w.Text); t != "" {
			words = append(words, t)
		}
	}
	return strings.Join(words, " ")
}

func newDocument(mode Mode, cues []Cue) (Document, error) {
	if len(cues) == 0 {
		return Document{}, services.Wrap(services.ErrEmptyTranscript, "assemble", mode.String(), "recognition produced no cues", nil)
	}
	out := make([]Cue, len(cues))
	copy(out, cues)
	return Document{Mode: mode, Cues: out}, nil
}
