// Package config loads, normalizes, and validates subgen configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a working-directory .env file, and
// honours environment fallbacks such as SUBGEN_TRANSLATE_API_KEY and
// OPENAI_API_KEY. The Config type centralizes every knob the pipeline and CLI
// need: the record store location, the ffmpeg binary, the recognizer endpoint,
// and translation provider credentials.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
