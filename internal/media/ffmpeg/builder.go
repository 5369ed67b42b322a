package ffmpeg

import (
	"fmt"
	"strconv"
)

// FrameSize derives output dimensions from an aspect ratio and a target
// height. Both dimensions are rounded to even numbers as H.264 requires.
func FrameSize(aspectWidth, aspectHeight, height int) (int, int) {
	if aspectWidth <= 0 || aspectHeight <= 0 || height <= 0 {
		return 0, 0
	}
	h := even(height)
	w := even(int(float64(h)*float64(aspectWidth)/float64(aspectHeight) + 0.5))
	return max(w, 2), max(h, 2)
}

func even(v int) int {
	if v%2 != 0 {
		v++
	}
	return v
}

// FitFilter scales the input to fit inside width x height while preserving
// its aspect ratio, then pads the remainder with black bars. It never crops.
func FitFilter(width, height int) string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black,setsar=1",
		width, height, width, height,
	)
}

// ClipArgs builds arguments that cut [start, start+duration) from source,
// reframe it, and encode H.264/AAC into an MP4 at dest.
func ClipArgs(source string, start, duration float64, width, height int, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(start),
		"-i", source,
		"-t", formatSeconds(duration),
		"-map", "0:v:0",
		"-map", "0:a:0?",
		"-vf", FitFilter(width, height),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "20",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "160k",
		"-movflags", "+faststart",
		dest,
	}
}

// OverlayFilter centers the overlay horizontally and anchors its top edge at
// fraction of the frame height.
func OverlayFilter(fraction float64) string {
	return "overlay=(W-w)/2:H*" + strconv.FormatFloat(fraction, 'f', -1, 64)
}

// OverlayArgs builds arguments that burn image onto clip and write dest,
// copying the audio stream untouched.
func OverlayArgs(clip, image string, fraction float64, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", clip,
		"-i", image,
		"-filter_complex", "[0:v][1:v]" + OverlayFilter(fraction) + "[v]",
		"-map", "[v]",
		"-map", "0:a?",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "20",
		"-pix_fmt", "yuv420p",
		"-c:a", "copy",
		"-movflags", "+faststart",
		dest,
	}
}

// ExtractAudioArgs writes the first audio stream of source as mono 16 kHz
// PCM, the input format speech-to-text backends expect.
func ExtractAudioArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
