package main

import (
	"fmt"
	"io"

	"subgen/internal/language"
	"subgen/internal/pipeline"
)

func reportRun(out io.Writer, result *pipeline.Result, target language.Language, database string) {
	if result.OriginalPath != "" {
		fmt.Fprintf(out, "Subtitles saved to %s\n", result.OriginalPath)
	}
	if result.TranslatedPath != "" {
		if result.TranslationErr == nil {
			fmt.Fprintf(out, "Translated subtitles (%s) saved to %s\n", target, result.TranslatedPath)
		} else {
			fmt.Fprintf(out, "Translated subtitles file left empty at %s\n", result.TranslatedPath)
		}
	}
	if result.RecordID > 0 {
		fmt.Fprintf(out, "Record #%d saved to %s\n", result.RecordID, database)
	}
	if result.TranslationErr != nil {
		fmt.Fprintf(out, "Warning: translation to %s failed: %v\n", target, result.TranslationErr)
	}
	if result.PersistenceErr != nil {
		fmt.Fprintf(out, "Warning: not every output was saved: %v\n", result.PersistenceErr)
	}
}
