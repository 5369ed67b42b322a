// Package preflight provides readiness checks for the filesystem, external
// binaries, and LLM endpoints clipper depends on.
//
// These checks run in two contexts:
//   - "clipper run" calls RunAll before planning and refuses to start a
//     batch when a required check fails.
//   - "clipper backends --check" uses CheckLLM and CheckOpenAI to confirm
//     that configured summarization credentials actually work.
package preflight
