package ffmpeg

import (
	"errors"
	"strings"
	"testing"
)

func TestFrameSize(t *testing.T) {
	tests := []struct {
		aw, ah, h    int
		wantW, wantH int
	}{
		{9, 16, 1920, 1080, 1920},
		{16, 9, 1080, 1920, 1080},
		{1, 1, 720, 720, 720},
		{4, 5, 1351, 1082, 1352},
		{0, 16, 1920, 0, 0},
	}
	for _, tt := range tests {
		w, h := FrameSize(tt.aw, tt.ah, tt.h)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("FrameSize(%d,%d,%d) = %dx%d, want %dx%d", tt.aw, tt.ah, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestClipArgsFitsWithoutCropping(t *testing.T) {
	args := strings.Join(ClipArgs("/in/video.mkv", 12.5, 30, 1080, 1920, "/out/clip.mp4"), " ")
	for _, want := range []string{
		"-ss 12.500 -i /in/video.mkv -t 30.000",
		"scale=1080:1920:force_original_aspect_ratio=decrease",
		"pad=1080:1920:(ow-iw)/2:(oh-ih)/2",
		"-c:v libx264",
		"-c:a aac",
	} {
		if !strings.Contains(args, want) {
			t.Fatalf("expected %q in %q", want, args)
		}
	}
	if strings.Contains(args, "crop") {
		t.Fatalf("clip args must not crop: %q", args)
	}
	if !strings.HasSuffix(args, "/out/clip.mp4") {
		t.Fatalf("expected destination last: %q", args)
	}
}

func TestOverlayArgs(t *testing.T) {
	args := strings.Join(OverlayArgs("clip.mp4", "title.png", 0.08, "tmp.mp4"), " ")
	if !strings.Contains(args, "[0:v][1:v]overlay=(W-w)/2:H*0.08[v]") {
		t.Fatalf("unexpected overlay filter: %q", args)
	}
	if !strings.Contains(args, "-c:a copy") {
		t.Fatalf("expected audio copy: %q", args)
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]Cause{
		"in.mp4: Invalid data found when processing input":             CauseDecode,
		"/out/clip.mp4: No such file or directory":                     CauseIO,
		"[AVFilterGraph] No such filter: 'drawtext'":                   CauseFilter,
		"Unknown encoder 'libx264'":                                    CauseEncode,
		"something unexpected happened":                                CauseUnknown,
		"moov atom not found\nError opening input files: Invalid data": CauseDecode,
	}
	for stderr, want := range tests {
		if got := Classify(stderr); got != want {
			t.Errorf("Classify(%q) = %q, want %q", stderr, got, want)
		}
	}
}

func TestErrorIncludesStderrTail(t *testing.T) {
	base := errors.New("exit status 1")
	err := &Error{Cause: CauseEncode, Stderr: "line one\n\nline two\nUnknown encoder 'libx264'\n", Err: base}
	msg := err.Error()
	if !strings.Contains(msg, "ffmpeg encode error") || !strings.Contains(msg, "line one | line two | Unknown encoder 'libx264'") {
		t.Fatalf("unexpected message %q", msg)
	}
	if !errors.Is(err, base) {
		t.Fatal("expected Unwrap to expose the exit error")
	}
}

func TestExtractAudioArgsMonoSixteenKHz(t *testing.T) {
	args := strings.Join(ExtractAudioArgs("in.mp4", "out.wav"), " ")
	if !strings.Contains(args, "-ac 1 -ar 16000 -c:a pcm_s16le out.wav") {
		t.Fatalf("unexpected extract args %q", args)
	}
}
