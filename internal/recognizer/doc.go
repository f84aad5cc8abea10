// Package recognizer adapts Vosk streaming speech recognition to a small
// session contract: feed PCM chunks, learn when an utterance boundary is
// crossed, read the completed utterance, and flush the trailing one at end of
// stream.
//
// Two engines speak the same Vosk JSON result schema. The websocket engine
// talks to a Vosk server; the native engine loads a model in-process and is
// only compiled with the vosk build tag. Engines are created once per process
// and hand out one Session per run.
package recognizer
