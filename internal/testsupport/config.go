package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"subgen/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.Database = filepath.Join(base, "data", "subtitles.db")
	cfgVal.Recognizer.ModelPath = filepath.Join(base, "model")
	cfgVal.Translation.BaseURL = "http://127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRecognizerURL points the websocket recognizer at url.
func WithRecognizerURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Recognizer.Backend = "websocket"
		b.cfg.Recognizer.URL = url
	}
}

// WithTranslationURL points the translation provider at url.
func WithTranslationURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Translation.BaseURL = url
	}
}

// WithStubbedBinary writes an executable shell script named name with the given
// body and prepends its directory to PATH.
func WithStubbedBinary(name, body string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
			b.t.Fatalf("write stub %s: %v", name, err)
		}
		prependPath(b.t, binDir)
	}
}

// WithStubbedBinaries writes stub executables that exit successfully for the
// provided names and prepends them to PATH. If names is empty, ffmpeg is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg"}
		}
		for _, name := range names {
			WithStubbedBinary(name, "exit 0")(b)
		}
	}
}

func prependPath(t testing.TB, dir string) {
	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", dir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
