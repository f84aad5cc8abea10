// Package pipeline runs one audio file through recognition, cue assembly,
// translation and persistence.
//
// A run has five stages (decode, recognize, assemble, translate, persist).
// Decode, recognize and assemble failures abort the run before anything is
// written. Translation and persistence failures degrade it: the Result carries
// the error and the caller decides how to report it.
package pipeline
