package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clipper/internal/media/ffmpeg"
	"clipper/internal/segment"
	"clipper/internal/services"
)

// Transcoder cuts one planned segment out of the source and reframes it.
type Transcoder interface {
	Transform(ctx context.Context, source string, plan segment.Plan, dest string) (string, error)
}

// Frame is the output geometry. Width and Height are derived from the aspect
// ratio and the configured output height.
type Frame struct {
	Width  int
	Height int
}

// NewFrame returns the even-sized frame for an aspect ratio at height pixels.
func NewFrame(aspectWidth, aspectHeight, height int) (Frame, error) {
	w, h := ffmpeg.FrameSize(aspectWidth, aspectHeight, height)
	if w == 0 || h == 0 {
		return Frame{}, fmt.Errorf("invalid output frame %d:%d at height %d", aspectWidth, aspectHeight, height)
	}
	return Frame{Width: w, Height: h}, nil
}

// FFmpeg letterboxes or pillarboxes segments into a fixed frame with ffmpeg.
type FFmpeg struct {
	runner ffmpeg.Runner
	frame  Frame
}

// NewFFmpeg returns a Transcoder that shells out through runner.
func NewFFmpeg(runner ffmpeg.Runner, frame Frame) *FFmpeg {
	return &FFmpeg{runner: runner, frame: frame}
}

// Frame reports the output geometry.
func (t *FFmpeg) Frame() Frame {
	return t.frame
}

// Transform writes the reframed segment to dest and returns dest. The output
// is written to a temporary sibling and renamed so a failed encode never
// leaves a truncated clip behind.
func (t *FFmpeg) Transform(ctx context.Context, source string, plan segment.Plan, dest string) (string, error) {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(dest) == "" {
		return "", services.Wrap(services.ErrValidation, "transcode", "prepare", "source and destination required", nil)
	}
	if plan.Duration <= 0 {
		return "", services.Wrap(services.ErrValidation, "transcode", "prepare", fmt.Sprintf("segment %d has no duration", plan.Index), nil)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "transcode", "prepare", "create output directory", err)
	}

	tmp := partialPath(dest)
	args := ffmpeg.ClipArgs(source, plan.Start, plan.Duration, t.frame.Width, t.frame.Height, tmp)
	if err := t.runner.Run(ctx, args); err != nil {
		_ = os.Remove(tmp)
		return "", services.Wrap(services.ErrExternalTool, "transcode", "ffmpeg", describe(err), err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return "", services.Wrap(services.ErrExternalTool, "transcode", "finalize", "move clip into place", err)
	}
	return dest, nil
}

func describe(err error) string {
	var ffErr *ffmpeg.Error
	if errors.As(err, &ffErr) {
		return string(ffErr.Cause) + " failure"
	}
	return "ffmpeg failed"
}

// partialPath keeps the container extension so ffmpeg can infer the muxer.
func partialPath(dest string) string {
	ext := filepath.Ext(dest)
	return strings.TrimSuffix(dest, ext) + ".partial" + ext
}
