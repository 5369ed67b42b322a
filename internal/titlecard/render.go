package titlecard

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"clipper/internal/services"
)

const (
	// MaxLines caps how many wrapped lines a card may hold.
	MaxLines = 3

	textWidthRatio = 0.86
	fontSizeRatio  = 1.0 / 18
	paddingRatio   = 0.35
	lineSpacing    = 1.25
	ellipsis       = "…"
)

var (
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	backingColor = color.RGBA{R: 0, G: 0, B: 0, A: 170}
)

var (
	parseOnce  sync.Once
	parsedFont *opentype.Font
	parseErr   error
)

func loadFont() (*opentype.Font, error) {
	parseOnce.Do(func() {
		parsedFont, parseErr = opentype.Parse(gobold.TTF)
	})
	return parsedFont, parseErr
}

// Render draws text onto a transparent PNG as wide as the video frame and
// writes it to dest. Text is word-wrapped to at most MaxLines lines and sits
// on a translucent backing box.
func Render(ctx context.Context, text, dest string, frameWidth int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", services.Wrap(services.ErrTimeout, "title", "render", "cancelled before render", err)
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", services.Wrap(services.ErrValidation, "title", "render", "caption text is empty", nil)
	}
	if frameWidth < 64 {
		return "", services.Wrap(services.ErrValidation, "title", "render", fmt.Sprintf("frame width %d too small", frameWidth), nil)
	}

	face, err := newFace(float64(frameWidth) * fontSizeRatio)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "title", "render", "load font", err)
	}
	defer face.Close()

	maxWidth := fixed.I(int(float64(frameWidth) * textWidthRatio))
	lines := Wrap(face, text, maxWidth, MaxLines)
	img := compose(face, lines, frameWidth)

	if err := writePNG(img, dest); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "title", "render", "write png", err)
	}
	return dest, nil
}

func newFace(size float64) (font.Face, error) {
	f, err := loadFont()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// Wrap breaks text into lines no wider than maxWidth. Words that do not fit
// in maxLines lines are dropped and the last line ends with an ellipsis.
func Wrap(face font.Face, text string, maxWidth fixed.Int26_6, maxLines int) []string {
	words := strings.Fields(text)
	var lines []string
	var current string
	truncated := false
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current == "" || font.MeasureString(face, candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
		if len(lines) == maxLines {
			truncated = true
			current = ""
			break
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	for i, line := range lines {
		lines[i] = fitLine(face, line, maxWidth)
	}
	if truncated && len(lines) > 0 {
		last := len(lines) - 1
		lines[last] = withEllipsis(face, lines[last], maxWidth)
	}
	return lines
}

// fitLine shortens a single overlong word so it stays inside the card.
func fitLine(face font.Face, line string, maxWidth fixed.Int26_6) string {
	if font.MeasureString(face, line) <= maxWidth {
		return line
	}
	runes := []rune(line)
	for len(runes) > 1 && font.MeasureString(face, string(runes)+ellipsis) > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}

func withEllipsis(face font.Face, line string, maxWidth fixed.Int26_6) string {
	line = strings.TrimRight(line, " .,;:!?")
	for font.MeasureString(face, line+ellipsis) > maxWidth {
		idx := strings.LastIndex(line, " ")
		if idx <= 0 {
			break
		}
		line = line[:idx]
	}
	runes := []rune(line)
	for len(runes) > 1 && font.MeasureString(face, string(runes)+ellipsis) > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}

func compose(face font.Face, lines []string, frameWidth int) *image.RGBA {
	metrics := face.Metrics()
	lineHeight := int(float64(metrics.Height.Ceil()) * lineSpacing)
	padding := int(float64(lineHeight) * paddingRatio)
	height := lineHeight*len(lines) + padding*2

	widest := 0
	for _, line := range lines {
		widest = max(widest, font.MeasureString(face, line).Ceil())
	}
	boxWidth := min(widest+padding*2, frameWidth)
	boxLeft := (frameWidth - boxWidth) / 2

	img := image.NewRGBA(image.Rect(0, 0, frameWidth, height))
	box := image.Rect(boxLeft, 0, boxLeft+boxWidth, height)
	draw.Draw(img, box, image.NewUniform(backingColor), image.Point{}, draw.Src)

	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(textColor), Face: face}
	baseline := padding + metrics.Ascent.Ceil() + (lineHeight-metrics.Height.Ceil())/2
	for i, line := range lines {
		width := font.MeasureString(face, line).Ceil()
		drawer.Dot = fixed.P((frameWidth-width)/2, baseline+i*lineHeight)
		drawer.DrawString(line)
	}
	return img
}

func writePNG(img image.Image, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
