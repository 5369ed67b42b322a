package titlecard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clipper/internal/media/ffmpeg"
	"clipper/internal/services"
)

// Compositor burns rendered title cards onto clips.
type Compositor struct {
	runner ffmpeg.Runner
}

// NewCompositor returns a Compositor that runs ffmpeg through runner.
func NewCompositor(runner ffmpeg.Runner) *Compositor {
	return &Compositor{runner: runner}
}

// Composite overlays image onto clip with its top edge at verticalFraction of
// the frame height. The clip file is replaced in place only once ffmpeg has
// written the complete output.
func (c *Compositor) Composite(ctx context.Context, clip, image string, verticalFraction float64) (string, error) {
	if verticalFraction < 0 || verticalFraction >= 1 {
		return "", services.Wrap(services.ErrValidation, "title", "composite", fmt.Sprintf("vertical position %.2f out of range", verticalFraction), nil)
	}
	if _, err := os.Stat(image); err != nil {
		return "", services.Wrap(services.ErrNotFound, "title", "composite", "title card missing", err)
	}

	ext := filepath.Ext(clip)
	tmp := strings.TrimSuffix(clip, ext) + ".titled" + ext
	if err := c.runner.Run(ctx, ffmpeg.OverlayArgs(clip, image, verticalFraction, tmp)); err != nil {
		_ = os.Remove(tmp)
		return "", services.Wrap(services.ErrExternalTool, "title", "composite", "ffmpeg overlay failed", err)
	}
	if err := os.Rename(tmp, clip); err != nil {
		_ = os.Remove(tmp)
		return "", services.Wrap(services.ErrExternalTool, "title", "composite", "replace clip", err)
	}
	return clip, nil
}

// Renderer pairs in-process card rendering with ffmpeg compositing.
type Renderer struct {
	*Compositor
}

// NewRenderer returns a Renderer that composites through runner.
func NewRenderer(runner ffmpeg.Runner) *Renderer {
	return &Renderer{Compositor: NewCompositor(runner)}
}

// Render draws text to a PNG at dest. See the package-level Render.
func (r *Renderer) Render(ctx context.Context, text, dest string, frameWidth int) (string, error) {
	return Render(ctx, text, dest, frameWidth)
}
