package language

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Language
	}{
		{"en", English},
		{"EN", English},
		{"es", Spanish},
		{"spa", Spanish},
		{"fra", French},
		{"fre", French},
		{"deu", German},
		{"ger", German},
		{"ita", Italian},
		{"english", English},
		{"French", French},
		{"GERMAN", German},
		{"español", Spanish},
		{" it ", Italian},
		// BCP 47 tags reduce to their base language
		{"de-AT", German},
		{"es-419", Spanish},
		{"en-GB", English},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseRejectsUnsupported(t *testing.T) {
	for _, input := range []string{"", "  ", "pt", "jpn", "klingon", "xx-YY"} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) expected error", input)
		}
	}
}

func TestCodesAndMenuOrder(t *testing.T) {
	all := All()
	want := []string{"en", "es", "fr", "de", "it"}
	if len(all) != len(want) {
		t.Fatalf("All() returned %d languages, want %d", len(all), len(want))
	}
	for i, lang := range all {
		if lang.Code() != want[i] {
			t.Errorf("All()[%d].Code() = %q, want %q", i, lang.Code(), want[i])
		}
		if !lang.Valid() {
			t.Errorf("%v should be valid", lang)
		}
	}
	if Language(42).Valid() {
		t.Error("out-of-range language should be invalid")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"spa", "Spanish"},
		{"de-CH", "German"},
		{"", "Unknown"},
		{"xyz", "XYZ"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNativeName(t *testing.T) {
	if got := Spanish.NativeName(); got != "español" {
		t.Errorf("Spanish.NativeName() = %q, want español", got)
	}
	if got := German.NativeName(); got != "Deutsch" {
		t.Errorf("German.NativeName() = %q, want Deutsch", got)
	}
}
