package language

import (
	"fmt"
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is one of the translation targets subgen supports.
type Language int

const (
	English Language = iota
	Spanish
	French
	German
	Italian
)

type entry struct {
	lang    Language
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{English, "en", "eng", "", "English", []string{"english"}},
	{Spanish, "es", "spa", "", "Spanish", []string{"spanish", "espanol", "español"}},
	{French, "fr", "fra", "fre", "French", []string{"french", "francais", "français"}},
	{German, "de", "deu", "ger", "German", []string{"german", "deutsch"}},
	{Italian, "it", "ita", "", "Italian", []string{"italian", "italiano"}},
}

// Index maps built at init time.
var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages)*2)
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

// All returns the supported languages in menu order.
func All() []Language {
	out := make([]Language, 0, len(languages))
	for _, e := range languages {
		out = append(out, e.lang)
	}
	return out
}

// Code returns the ISO 639-1 code sent to translation services.
func (l Language) Code() string {
	switch l {
	case English:
		return "en"
	case Spanish:
		return "es"
	case French:
		return "fr"
	case German:
		return "de"
	case Italian:
		return "it"
	}
	return ""
}

// String returns the English display name.
func (l Language) String() string {
	switch l {
	case English:
		return "English"
	case Spanish:
		return "Spanish"
	case French:
		return "French"
	case German:
		return "German"
	case Italian:
		return "Italian"
	}
	return fmt.Sprintf("Language(%d)", int(l))
}

// NativeName returns the language's name in its own language (e.g. "español").
func (l Language) NativeName() string {
	tag, err := xlanguage.Parse(l.Code())
	if err != nil {
		return l.String()
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return l.String()
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l.Code() != ""
}

// Parse resolves a code, word, or BCP 47 tag (e.g. "es", "spa", "Spanish",
// "de-AT") to a supported language.
func Parse(value string) (Language, error) {
	if e := lookup(value); e != nil {
		return e.lang, nil
	}
	trimmed := strings.TrimSpace(value)
	if trimmed != "" {
		if tag, err := xlanguage.Parse(trimmed); err == nil {
			base, _ := tag.Base()
			if e := lookup(base.String()); e != nil {
				return e.lang, nil
			}
		}
	}
	return English, fmt.Errorf("unsupported language %q (supported: %s)", value, strings.Join(codes(), ", "))
}

func codes() []string {
	out := make([]string, 0, len(languages))
	for _, e := range languages {
		out = append(out, e.code2)
	}
	return out
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if lang, err := Parse(code); err == nil {
		return lang.String()
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
