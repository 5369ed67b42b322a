// Package textutil provides caption text utilities: cleaning model output
// into a single burn-in line, word-boundary truncation, and title casing.
package textutil
