package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"subgen/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// badgeWidth fits the widest badge, "[ERROR]".
const badgeWidth = 7

type statusEntry struct {
	kind   statusKind
	label  string
	detail string
}

type statusSection struct {
	title   string
	entries []statusEntry
}

func (s *statusSection) add(kind statusKind, label, detail string) {
	s.entries = append(s.entries, statusEntry{kind: kind, label: label, detail: detail})
}

// renderStatus writes each section as a title followed by one line per
// entry. Labels are padded to the widest label in their section; info entries
// carry no badge.
func renderStatus(sections []statusSection, colorize bool) string {
	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteByte('\n')
		}
		title := section.title
		if colorize {
			title = ansiBold + title + ansiReset
		}
		b.WriteString(title)
		b.WriteByte('\n')

		width := 0
		for _, entry := range section.entries {
			width = max(width, len(entry.label))
		}
		for _, entry := range section.entries {
			line := fmt.Sprintf("  %s %-*s  %s", renderBadge(entry.kind, colorize), width, entry.label, entry.detail)
			b.WriteString(strings.TrimRight(line, " "))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderBadge(kind statusKind, colorize bool) string {
	if kind == statusInfo {
		return strings.Repeat(" ", badgeWidth)
	}
	badge := fmt.Sprintf("%-*s", badgeWidth, "["+statusKindLabel(kind)+"]")
	if colorize {
		return statusKindColor(kind) + badge + ansiReset
	}
	return badge
}

// checkKind maps a preflight result onto a badge. Optional failures are
// warnings.
func checkKind(result preflight.Result) statusKind {
	switch {
	case result.Passed:
		return statusOK
	case result.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return ""
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	default:
		return ansiRed
	}
}

func shouldColorize(writer io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
