// Package subtitles assembles recognizer results into timed cues and
// serializes them.
//
// Two granularities are supported and kept distinct. Word mode emits one
// numbered cue per recognized word using the recognizer's own word times,
// rendered as HH:MM:SS,mmm. Utterance mode emits one unnumbered cue per
// completed utterance, timed by a clock that advances with the PCM bytes
// consumed, rendered as seconds with three decimals. Results without words or
// text never produce a cue, and a run that yields no cues is reported as
// services.ErrEmptyTranscript.
//
// Inspect re-parses rendered documents for the history --check command.
package subtitles
