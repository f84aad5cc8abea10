package subtitles

import (
	"strconv"
	"strings"
)

// Document is an ordered cue sequence plus its serialization mode.
type Document struct {
	Mode Mode
	Cues []Cue
}

// Render serializes the document. Word mode writes numbered blocks:
//
//	1
//	00:00:00,500 --> 00:00:01,000
//	hello
//
// Utterance mode writes unnumbered blocks with seconds:
//
//	0.000 --> 2.250
//	hello world
func (d Document) Render() string {
	var b strings.Builder
	for _, cue := range d.Cues {
		switch d.Mode {
		case ModeUtterance:
			b.WriteString(FormatSeconds(cue.Start))
			b.WriteString(" --> ")
			b.WriteString(FormatSeconds(cue.End))
		default:
			b.WriteString(strconv.Itoa(cue.Index))
			b.WriteByte('\n')
			b.WriteString(FormatTimestamp(cue.Start))
			b.WriteString(" --> ")
			b.WriteString(FormatTimestamp(cue.End))
		}
		b.WriteByte('\n')
		b.WriteString(cue.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Text returns the cue texts joined by spaces.
func (d Document) Text() string {
	parts := make([]string, 0, len(d.Cues))
	for _, cue := range d.Cues {
		parts = append(parts, cue.Text)
	}
	return strings.Join(parts, " ")
}

// Duration returns the end time of the last cue.
func (d Document) Duration() float64 {
	if len(d.Cues) == 0 {
		return 0
	}
	return d.Cues[len(d.Cues)-1].End
}
