// Package language normalizes language hints for transcription backends.
//
// Hints arrive from configuration, ffprobe stream tags, and backend responses
// in mixed forms (ISO 639-1/639-2 codes, BCP 47 tags, English names); this
// package maps them onto ISO 639-1 codes using golang.org/x/text.
package language
