// Package titlecard renders a caption as a PNG title card and burns it onto a
// clip.
//
// Text is rasterized in-process with golang.org/x/image and the Go fonts, so
// compositing only needs ffmpeg's overlay filter and not drawtext or libass.
package titlecard
