package recognizer

import (
	"encoding/json"
	"fmt"
)

// voskResult mirrors the JSON emitted by Vosk for partial and final results.
// A final result always carries "text"; a partial carries "partial".
type voskResult struct {
	Text    *string `json:"text"`
	Partial *string `json:"partial"`
	Result  []Word  `json:"result"`
}

// decodeResult parses a Vosk result message. isFinal reports whether the
// message completed an utterance.
func decodeResult(data []byte) (partial Partial, final Final, isFinal bool, err error) {
	var raw voskResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return Partial{}, Final{}, false, fmt.Errorf("decode result %q: %w", truncate(data, 120), err)
	}
	if raw.Text != nil {
		return Partial{}, Final{Text: *raw.Text, Words: raw.Result}, true, nil
	}
	if raw.Partial != nil {
		return Partial{Text: *raw.Partial}, Final{}, false, nil
	}
	return Partial{}, Final{}, false, fmt.Errorf("unrecognized result %q", truncate(data, 120))
}

// decodeFinal parses a message that must be a final result.
func decodeFinal(data []byte) (Final, error) {
	_, final, isFinal, err := decodeResult(data)
	if err != nil {
		return Final{}, err
	}
	if !isFinal {
		return Final{}, fmt.Errorf("expected final result, got %q", truncate(data, 120))
	}
	return final, nil
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
