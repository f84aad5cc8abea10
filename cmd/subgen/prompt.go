package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"subgen/internal/language"
)

// prompter reads answers line by line from the command's stdin.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// audioPath asks for an input file until a non-blank answer arrives.
func (p *prompter) audioPath(label string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", label)
		answer, err := p.readLine()
		if err != nil {
			fmt.Fprintln(p.out)
			if errors.Is(err, io.EOF) {
				return "", errors.New("no audio file path provided")
			}
			return "", fmt.Errorf("read audio file path: %w", err)
		}
		answer = strings.Trim(answer, `"'`)
		if answer != "" {
			return answer, nil
		}
	}
}

// chooseLanguage shows a numbered menu. A blank answer or end of input selects
// fallback; answers may be a menu number or a language code or name.
func (p *prompter) chooseLanguage(fallback language.Language) (language.Language, error) {
	options := language.All()
	fmt.Fprintln(p.out, "Select the subtitle translation language:")
	for i, lang := range options {
		marker := ""
		if lang == fallback {
			marker = " (default)"
		}
		name := lang.String()
		if native := lang.NativeName(); !strings.EqualFold(native, name) {
			name += " - " + native
		}
		fmt.Fprintf(p.out, "  %d) %s [%s]%s\n", i+1, name, lang.Code(), marker)
	}
	for {
		fmt.Fprintf(p.out, "Choice [%d]: ", indexOf(options, fallback)+1)
		answer, err := p.readLine()
		if err != nil {
			fmt.Fprintln(p.out)
			if errors.Is(err, io.EOF) {
				return fallback, nil
			}
			return fallback, fmt.Errorf("read language choice: %w", err)
		}
		if answer == "" {
			return fallback, nil
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil {
			if n >= 1 && n <= len(options) {
				return options[n-1], nil
			}
			fmt.Fprintf(p.out, "Enter a number between 1 and %d.\n", len(options))
			continue
		}
		lang, parseErr := language.Parse(answer)
		if parseErr != nil {
			fmt.Fprintln(p.out, parseErr)
			continue
		}
		return lang, nil
	}
}

func indexOf(options []language.Language, lang language.Language) int {
	for i, candidate := range options {
		if candidate == lang {
			return i
		}
	}
	return 0
}
