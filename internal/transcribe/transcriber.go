package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clipper/internal/language"
	"clipper/internal/media/ffmpeg"
	"clipper/internal/services"
	"clipper/internal/services/openai"
	"clipper/internal/services/whisperx"
)

// TimedSegment is a span of speech within the clip.
type TimedSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the speech-to-text result for one clip.
type Transcript struct {
	Text     string         `json:"text"`
	Language string         `json:"language,omitempty"`
	Segments []TimedSegment `json:"segments,omitempty"`
}

// Transcriber converts a clip's speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, clipPath, languageHint string) (Transcript, error)
}

// Options carries the settings needed to build any backend.
type Options struct {
	// WorkDir holds extracted audio and backend scratch output.
	WorkDir  string
	FFmpeg   ffmpeg.Runner
	WhisperX *whisperx.Service
	OpenAI   *openai.Client
}

// New builds the Transcriber for a selection.
func New(sel Selection, opts Options) Transcriber {
	switch sel.Backend {
	case BackendWhisperX:
		if opts.WhisperX != nil {
			return &whisperXBackend{svc: opts.WhisperX, workDir: opts.WorkDir}
		}
	case BackendOpenAI:
		if opts.OpenAI != nil && opts.FFmpeg != nil {
			return &openAIBackend{client: opts.OpenAI, ffmpeg: opts.FFmpeg, workDir: opts.WorkDir}
		}
	}
	return unavailable{}
}

type unavailable struct{}

func (unavailable) Transcribe(context.Context, string, string) (Transcript, error) {
	return Transcript{}, services.Wrap(services.ErrConfiguration, "transcribe", "select backend", "no transcription backend configured", nil)
}

type whisperXBackend struct {
	svc     *whisperx.Service
	workDir string
}

func (b *whisperXBackend) Transcribe(ctx context.Context, clipPath, languageHint string) (Transcript, error) {
	res, err := b.svc.Transcribe(ctx, clipPath, b.workDir, languageHint)
	if err != nil {
		return Transcript{}, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "transcription failed", err)
	}
	if res.JSONPath != "" {
		defer os.Remove(res.JSONPath)
	}
	out := Transcript{Text: strings.TrimSpace(res.Text), Language: res.Language}
	for _, seg := range res.Segments {
		out.Segments = append(out.Segments, TimedSegment{Start: seg.Start, End: seg.End, Text: strings.TrimSpace(seg.Text)})
	}
	return out, nil
}

type openAIBackend struct {
	client  *openai.Client
	ffmpeg  ffmpeg.Runner
	workDir string
}

func (b *openAIBackend) Transcribe(ctx context.Context, clipPath, languageHint string) (Transcript, error) {
	workDir := b.workDir
	if workDir == "" {
		workDir = filepath.Dir(clipPath)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Transcript{}, services.Wrap(services.ErrExternalTool, "transcribe", "prepare", "create work directory", err)
	}
	base := strings.TrimSuffix(filepath.Base(clipPath), filepath.Ext(clipPath))
	audioPath := filepath.Join(workDir, base+".wav")
	if err := b.ffmpeg.Run(ctx, ffmpeg.ExtractAudioArgs(clipPath, audioPath)); err != nil {
		return Transcript{}, services.Wrap(services.ErrExternalTool, "transcribe", "extract audio", "ffmpeg failed", err)
	}
	defer os.Remove(audioPath)

	res, err := b.client.Transcribe(ctx, audioPath, language.ToISO2(languageHint))
	if err != nil {
		marker := services.ErrExternalTool
		if status := openai.StatusCode(err); status == 429 || status >= 500 {
			marker = services.ErrTransient
		}
		return Transcript{}, services.Wrap(marker, "transcribe", "openai", fmt.Sprintf("model %s", b.client.TranscriptionModel()), err)
	}
	out := Transcript{Text: res.Text, Language: language.ToISO2(res.Language)}
	if out.Language == "" {
		out.Language = language.ToISO2(languageHint)
	}
	for _, seg := range res.Segments {
		out.Segments = append(out.Segments, TimedSegment{Start: seg.Start, End: seg.End, Text: strings.TrimSpace(seg.Text)})
	}
	return out, nil
}
