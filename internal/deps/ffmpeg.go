package deps

import (
	"context"
	"strings"
)

// FFmpeg describes the decoder generate uses for arbitrary media.
func FFmpeg(binary string) Binary {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return Binary{
		Name:        "FFmpeg",
		Command:     binary,
		VersionArgs: []string{"-hide_banner", "-version"},
		Optional:    true,
		Purpose:     "decodes media for generate",
	}
}

// CheckFFmpeg probes the configured ffmpeg binary.
func CheckFFmpeg(ctx context.Context, binary string) Status {
	return Probe(ctx, FFmpeg(binary))
}
