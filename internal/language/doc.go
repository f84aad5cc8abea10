// Package language defines the fixed set of translation targets and resolves
// user input (ISO codes, English words, BCP 47 tags) to them.
package language
