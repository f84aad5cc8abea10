package preflight

import (
	"context"
	"path/filepath"

	"subgen/internal/config"
	"subgen/internal/recognizer"
	"subgen/internal/translate"
)

// Names of the service checks; directory checks are named after the path role.
const (
	NameFFmpeg     = "FFmpeg"
	NameRecognizer = "Recognizer"
	NameTranslator = "Translator"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every preflight check for the given config. The engine and
// translator are the same instances a run would use; either may be nil when
// it could not be constructed, which is reported as a failed check.
func RunAll(ctx context.Context, cfg *config.Config, engine recognizer.Engine, tr translate.Translator) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	if dbDir := filepath.Dir(cfg.Paths.Database); dbDir != cfg.Paths.DataDir {
		results = append(results, CheckDirectoryAccess("Database directory", dbDir))
	}
	if cfg.Logging.File {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	results = append(results, CheckFFmpeg(ctx, cfg.FFmpegBinary()))
	results = append(results, CheckRecognizer(ctx, engine, recognizerEndpoint(cfg)))
	results = append(results, CheckTranslator(ctx, tr, cfg.Translation.Provider))
	return results
}

// Failed reports whether any required check did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}

func recognizerEndpoint(cfg *config.Config) string {
	if cfg.Recognizer.Backend == "native" {
		return cfg.Recognizer.ModelPath
	}
	return cfg.Recognizer.URL
}
