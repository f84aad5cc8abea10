package subtitles

import (
	"fmt"
	"strconv"
	"strings"
)

// Inspection summarizes a rendered subtitle document.
type Inspection struct {
	Mode   Mode
	Cues   int
	First  float64
	Last   float64
	Issues []string
	// Document holds the blocks that parsed cleanly.
	Document Document
}

// OK reports whether no issues were found.
func (i Inspection) OK() bool {
	return len(i.Issues) == 0
}

// Inspect parses rendered subtitle text, detecting its mode from the first
// block, and reports format issues: unparsable timestamps, cues ending
// before they start, index gaps in word mode, and timelines that go backwards.
func Inspect(content string) Inspection {
	var result Inspection
	content = strings.TrimSpace(strings.ReplaceAll(content, "\r\n", "\n"))
	if content == "" {
		result.Issues = append(result.Issues, "empty_subtitle_file")
		return result
	}

	blocks := splitBlocks(content)
	result.Mode = detectMode(blocks[0])
	result.Document.Mode = result.Mode
	prevEnd := -1.0
	for n, block := range blocks {
		lines := strings.Split(block, "\n")
		if result.Mode == ModeWord {
			if len(lines) < 3 {
				result.Issues = append(result.Issues, fmt.Sprintf("block %d: expected index, timing, and text lines", n+1))
				continue
			}
			index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
			if err != nil {
				result.Issues = append(result.Issues, fmt.Sprintf("block %d: invalid index %q", n+1, lines[0]))
			} else if index != result.Cues+1 {
				result.Issues = append(result.Issues, fmt.Sprintf("block %d: index %d, expected %d", n+1, index, result.Cues+1))
			}
			lines = lines[1:]
		} else if len(lines) < 2 {
			result.Issues = append(result.Issues, fmt.Sprintf("block %d: expected timing and text lines", n+1))
			continue
		}

		start, end, err := parseTimingLine(lines[0])
		result.Cues++
		if err != nil {
			result.Issues = append(result.Issues, fmt.Sprintf("block %d: %v", n+1, err))
			continue
		}
		cue := Cue{Index: result.Cues, Start: start, End: end, Text: strings.Join(lines[1:], " ")}
		result.Document.Cues = append(result.Document.Cues, cue)
		if cue.Duration() < 0 {
			result.Issues = append(result.Issues, fmt.Sprintf("block %d: ends before it starts", n+1))
		}
		if result.Mode == ModeUtterance && prevEnd >= 0 && end < prevEnd {
			result.Issues = append(result.Issues, fmt.Sprintf("block %d: end time goes backwards", n+1))
		}
		if result.Cues == 1 {
			result.First = start
		}
		result.Last = max(result.Last, end)
		prevEnd = end
	}
	return result
}

func splitBlocks(content string) []string {
	raw := strings.Split(content, "\n\n")
	blocks := make([]string, 0, len(raw))
	for _, block := range raw {
		if strings.TrimSpace(block) != "" {
			blocks = append(blocks, strings.Trim(block, "\n"))
		}
	}
	return blocks
}

func detectMode(block string) Mode {
	first, _, _ := strings.Cut(block, "\n")
	if strings.Contains(first, "-->") {
		return ModeUtterance
	}
	return ModeWord
}

func parseTimingLine(line string) (float64, float64, error) {
	startText, endText, ok := strings.Cut(line, "-->")
	if !ok {
		return 0, 0, fmt.Errorf("missing --> in %q", line)
	}
	start, err := ParseTimestamp(startText)
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(endText)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
