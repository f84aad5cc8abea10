package recognizer

import "testing"

func TestDecodeResult(t *testing.T) {
	partial, _, isFinal, err := decodeResult([]byte(`{"partial" : "hello wor"}`))
	if err != nil {
		t.Fatalf("decode partial: %v", err)
	}
	if isFinal || partial.Text != "hello wor" {
		t.Fatalf("unexpected partial decode: final=%v partial=%#v", isFinal, partial)
	}

	_, final, isFinal, err := decodeResult([]byte(`{
  "result" : [{"conf" : 1.0, "end" : 1.02, "start" : 0.54, "word" : "hello"},
              {"conf" : 0.87, "end" : 1.5, "start" : 1.02, "word" : "world"}],
  "text" : "hello world"
}`))
	if err != nil {
		t.Fatalf("decode final: %v", err)
	}
	if !isFinal || final.Text != "hello world" || len(final.Words) != 2 {
		t.Fatalf("unexpected final decode: %#v", final)
	}
	if w := final.Words[1]; w.Text != "world" || w.Start != 1.02 || w.End != 1.5 || w.Conf != 0.87 {
		t.Fatalf("unexpected word: %#v", w)
	}
}

func TestDecodeEmptyFinal(t *testing.T) {
	_, final, isFinal, err := decodeResult([]byte(`{"text" : ""}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !isFinal {
		t.Fatal("a message with text must count as final")
	}
	if !final.Empty() {
		t.Fatalf("expected empty final, got %#v", final)
	}
}

func TestDecodeFinalRejectsPartialAndGarbage(t *testing.T) {
	if _, err := decodeFinal([]byte(`{"partial" : "x"}`)); err == nil {
		t.Fatal("expected error for partial")
	}
	if _, err := decodeFinal([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid json")
	}
	if _, _, _, err := decodeResult([]byte(`{"other" : 1}`)); err == nil {
		t.Fatal("expected error for unknown shape")
	}
}

func TestFinalEmpty(t *testing.T) {
	if (Final{Text: "  "}).Empty() != true {
		t.Fatal("whitespace text should be empty")
	}
	if (Final{Text: "hi"}).Empty() {
		t.Fatal("text should not be empty")
	}
	if (Final{Words: []Word{{Text: "hi"}}}).Empty() {
		t.Fatal("words should not be empty")
	}
}
