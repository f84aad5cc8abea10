// Package translate turns a finished subtitle document into another language.
//
// Two providers implement Translator: a LibreTranslate HTTP client and an
// OpenAI-compatible chat completion client. Both share the same retry policy
// for rate limits, server errors and timeouts, and both tag every failure with
// services.ErrTranslation so callers can degrade instead of aborting.
package translate
