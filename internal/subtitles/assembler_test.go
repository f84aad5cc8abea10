package subtitles_test

import (
	"errors"
	"testing"

	"subgen/internal/recognizer"
	"subgen/internal/services"
	"subgen/internal/subtitles"
)

func words(ws ...recognizer.Word) recognizer.Final {
	text := ""
	for i, w := range ws {
		if i > 0 {
			text += " "
		}
		text += w.Text
	}
	return recognizer.Final{Text: text, Words: ws}
}

func TestWordAssemblerSingleWord(t *testing.T) {
	a := subtitles.NewWordAssembler()
	a.Add(recognizer.Final{})
	a.Add(words(recognizer.Word{Text: "hello", Start: 0.5, End: 1.0}))

	doc, err := a.Document()
	if err != nil {
		t.Fatalf("Document returned error: %v", err)
	}
	want := "1\n00:00:00,500 --> 00:00:01,000\nhello\n\n"
	if got := doc.Render(); got != want {
		t.Fatalf("unexpected render:\n%q\nwant\n%q", got, want)
	}
}

func TestWordAssemblerIndexesAcrossUtterances(t *testing.T) {
	a := subtitles.NewWordAssembler()
	finals := []recognizer.Final{
		words(recognizer.Word{Text: "one", Start: 0.1, End: 0.3}, recognizer.Word{Text: "two", Start: 0.4, End: 0.6}),
		{},
		{Text: "   "},
		words(recognizer.Word{Text: "three", Start: 1.0, End: 1.2}),
		words(recognizer.Word{Text: "four", Start: 1.3, End: 1.5}, recognizer.Word{Text: "five", Start: 1.6, End: 1.9}),
	}
	totalWords := 0
	for _, f := range finals {
		totalWords += len(f.Words)
		a.Add(f)
	}

	doc, err := a.Document()
	if err != nil {
		t.Fatalf("Document returned error: %v", err)
	}
	if len(doc.Cues) != totalWords {
		t.Fatalf("expected %d cues, got %d", totalWords, len(doc.Cues))
	}
	for i, cue := range doc.Cues {
		if cue.Index != i+1 {
			t.Fatalf("cue %d has index %d", i, cue.Index)
		}
		if cue.Start > cue.End {
			t.Fatalf("cue %d starts after it ends: %+v", i, cue)
		}
	}
	if doc.Cues[2].Text != "three" {
		t.Fatalf("unexpected third cue: %+v", doc.Cues[2])
	}
}

func TestWordAssemblerClampsBadTimings(t *testing.T) {
	a := subtitles.NewWordAssembler()
	a.Add(words(recognizer.Word{Text: "odd", Start: -0.2, End: -0.5}))
	doc, err := a.Document()
	if err != nil {
		t.Fatalf("Document returned error: %v", err)
	}
	if cue := doc.Cues[0]; cue.Start != 0 || cue.End != 0 {
		t.Fatalf("expected clamped timing, got %+v", cue)
	}
}

func TestEmptyRunIsEmptyTranscript(t *testing.T) {
	for _, mode := range []subtitles.Mode{subtitles.ModeWord, subtitles.ModeUtterance} {
		a := subtitles.NewAssembler(mode, 32000)
		a.Consume(64000)
		a.Add(recognizer.Final{})
		if _, err := a.Document(); !errors.Is(err, services.ErrEmptyTranscript) {
			t.Fatalf("%v: expected ErrEmptyTranscript, got %v", mode, err)
		}
	}
}

func TestUtteranceAssemblerClockFromBytes(t *testing.T) {
	a := subtitles.NewUtteranceAssembler(32000)

	// 2 s of audio, then a final.
	for range 16 {
		a.Consume(4000)
	}
	a.Add(recognizer.Final{Text: "hello world"})

	// 1 s of audio that finalizes as silence: no cue, clock still moves.
	for range 8 {
		a.Consume(4000)
	}
	a.Add(recognizer.Final{})

	// 0.5 s of audio, trailing flush result.
	for range 4 {
		a.Consume(4000)
	}
	a.Add(recognizer.Final{Text: "goodbye"})

	doc, err := a.Document()
	if err != nil {
		t.Fatalf("Document returned error: %v", err)
	}
	want := "0.000 --> 2.000\nhello world\n\n3.000 --> 3.500\ngoodbye\n\n"
	if got := doc.Render(); got != want {
		t.Fatalf("unexpected render:\n%q\nwant\n%q", got, want)
	}
	if doc.Duration() != 3.5 {
		t.Fatalf("unexpected duration %v", doc.Duration())
	}
}

func TestUtteranceEndTimesNonDecreasing(t *testing.T) {
	a := subtitles.NewUtteranceAssembler(32000)
	sizes := []int{4000, 0, 1234, 4000, 8000, 0, 2}
	for _, n := range sizes {
		a.Consume(n)
		a.Add(recognizer.Final{Text: "utterance"})
	}
	doc, err := a.Document()
	if err != nil {
		t.Fatalf("Document returned error: %v", err)
	}
	prev := 0.0
	for _, cue := range doc.Cues {
		if cue.Start > cue.End {
			t.Fatalf("cue starts after it ends: %+v", cue)
		}
		if cue.End < prev {
			t.Fatalf("end time went backwards: %+v after %v", cue, prev)
		}
		prev = cue.End
	}
}

func TestUtteranceFallsBackToWordText(t *testing.T) {
	a := subtitles.NewUtteranceAssembler(32000)
	a.Consume(32000)
	a.Add(recognizer.Final{Words: []recognizer.Word{{Text: "only"}, {Text: "words"}}})
	doc, err := a.Document()
	if err != nil {
		t.Fatalf("Document returned error: %v", err)
	}
	if doc.Cues[0].Text != "only words" {
		t.Fatalf("unexpected text %q", doc.Cues[0].Text)
	}
}
