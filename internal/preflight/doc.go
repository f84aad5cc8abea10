// Package preflight provides readiness checks for the directories, binaries
// and external services subgen depends on.
//
// The CLI "subgen status" command runs RunAll and renders each Result. The
// individual checks are exported so callers can probe a single dependency.
package preflight
