// Package ffmpeg builds and runs the ffmpeg invocations Clipper needs:
// cutting and reframing a segment, and compositing a title card onto a clip.
//
// Failures are returned as *Error with stderr classified into decode, encode,
// filter, or I/O causes. Callers inject a Runner so argument construction can
// be tested without the binary.
package ffmpeg
