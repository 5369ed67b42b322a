// Package workspace owns the output directory for the duration of a batch:
// it holds an advisory file lock so two runs never interleave artifacts, keeps
// a scratch subdirectory, and writes the batch manifest.
package workspace
