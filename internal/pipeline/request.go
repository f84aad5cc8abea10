package pipeline

import (
	"errors"
	"path/filepath"

	"subgen/internal/audio"
	"subgen/internal/fileutil"
	"subgen/internal/language"
	"subgen/internal/subtitles"
)

// Output labels used in subtitle file names.
const (
	LabelSubtitles     = "subtitles"
	LabelTranscription = "transcription"
)

// Request describes a single run.
type Request struct {
	// Path is the input audio file.
	Path string
	// Mode selects word-level or utterance-level cues.
	Mode subtitles.Mode
	// Source selects direct WAV reading or ffmpeg transcoding.
	Source audio.Mode
	// Target is the translation language.
	Target language.Language
	// OutputDir overrides the directory of the subtitle files. Empty means the
	// input file's directory.
	OutputDir string
	// Label names the output files: <stem>_<label>.srt and
	// <stem>_<label>_translated.srt. Empty means LabelSubtitles.
	Label string
}

// Result is the outcome of a run that produced a transcript.
type Result struct {
	RunID          string
	Document       subtitles.Document
	Translated     string
	OriginalPath   string
	TranslatedPath string
	RecordID       int64
	// TranslationErr is set when translation failed; the translated file is
	// then written empty.
	TranslationErr error
	// PersistenceErr joins every failed file write and record append.
	PersistenceErr error
}

// Err joins the recoverable failures of the run.
func (r *Result) Err() error {
	if r == nil {
		return nil
	}
	return errors.Join(r.TranslationErr, r.PersistenceErr)
}

// OutputPaths returns the original and translated subtitle paths for req.
func OutputPaths(req Request) (string, string) {
	label := req.Label
	if label == "" {
		label = LabelSubtitles
	}
	stem := fileutil.Stem(req.Path)
	if req.OutputDir != "" {
		stem = filepath.Join(req.OutputDir, filepath.Base(stem))
	}
	return stem + "_" + label + ".srt", stem + "_" + label + "_translated.srt"
}
