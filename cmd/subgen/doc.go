// Package main hosts the subgen CLI entrypoint and command graph.
//
// generate and transcribe run one audio file through the pipeline and report
// the written subtitle files. history lists and inspects stored records,
// status runs readiness checks, and config scaffolds or validates the
// configuration file. Command wiring lives here; behaviour lives in internal/.
package main
