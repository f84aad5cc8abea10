package subtitles_test

import (
	"testing"

	"subgen/internal/subtitles"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{0.5, "00:00:00,500"},
		{75.25, "00:01:15,250"},
		{3725.004, "01:02:05,004"},
		{59.9996, "00:01:00,000"},
		{0.0004, "00:00:00,000"},
		{-3, "00:00:00,000"},
		{36000, "10:00:00,000"},
	}
	for _, tt := range tests {
		if got := subtitles.FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0.000"},
		{0.125, "0.125"},
		{2.5, "2.500"},
		{-1, "0.000"},
	}
	for _, tt := range tests {
		if got := subtitles.FormatSeconds(tt.seconds); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseTimestampAcceptsBothFormats(t *testing.T) {
	tests := []struct {
		value string
		want  float64
	}{
		{"00:01:15,250", 75.25},
		{"01:02:05.004", 3725.004},
		{"12.500", 12.5},
		{" 0.000 ", 0},
	}
	for _, tt := range tests {
		got, err := subtitles.ParseTimestamp(tt.value)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) returned error: %v", tt.value, err)
		}
		if got != tt.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
	for _, bad := range []string{"", "1:2", "00:61:00,000", "aa:bb:cc,ddd", "-1.0"} {
		if _, err := subtitles.ParseTimestamp(bad); err == nil {
			t.Errorf("ParseTimestamp(%q) expected error", bad)
		}
	}
}

func TestFormatTimestampParsesBack(t *testing.T) {
	for _, seconds := range []float64{0.001, 1.5, 61.061, 3599.999, 7322.25} {
		parsed, err := subtitles.ParseTimestamp(subtitles.FormatTimestamp(seconds))
		if err != nil {
			t.Fatalf("parse %v: %v", seconds, err)
		}
		if diff := parsed - seconds; diff > 0.0005 || diff < -0.0005 {
			t.Errorf("round trip of %v gave %v", seconds, parsed)
		}
	}
}
