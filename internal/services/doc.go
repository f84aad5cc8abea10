// Package services defines shared utilities consumed by the pipeline stages and
// their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and input paths for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures as
//     fatal (format, decode, empty transcript) or recoverable (translation,
//     persistence).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
