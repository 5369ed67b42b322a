package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"clipper/internal/config"
	"clipper/internal/summarize"
)

// EnrichmentConfig selects which optional stages run and how clips are framed.
type EnrichmentConfig struct {
	TargetAspectWidth   int
	TargetAspectHeight  int
	OutputHeight        int
	EnableTranscription bool
	EnableSummarization bool
	SummaryStyle        summarize.Style
	EnableSocialCaption bool
	EnableTitleOverlay  bool
	// TitlePosition is the card's top edge as a fraction of frame height.
	TitlePosition float64
	LanguageHint  string
}

// Validate rejects out-of-range values.
func (c EnrichmentConfig) Validate() error {
	var problems []string
	if c.TargetAspectWidth <= 0 || c.TargetAspectHeight <= 0 {
		problems = append(problems, fmt.Sprintf("aspect ratio %d:%d must be positive", c.TargetAspectWidth, c.TargetAspectHeight))
	}
	if c.OutputHeight < 2 {
		problems = append(problems, fmt.Sprintf("output height %d must be at least 2", c.OutputHeight))
	}
	switch c.SummaryStyle {
	case summarize.StyleConcise, summarize.StyleDetailed, summarize.StyleBullets:
	default:
		problems = append(problems, fmt.Sprintf("summary style %q is not one of concise, detailed, bullets", c.SummaryStyle))
	}
	if c.TitlePosition < 0 || c.TitlePosition >= 1 {
		problems = append(problems, fmt.Sprintf("title position %.2f must be in [0, 1)", c.TitlePosition))
	}
	if len(problems) > 0 {
		return errors.New("invalid enrichment config: " + strings.Join(problems, "; "))
	}
	return nil
}

// EnrichmentFromConfig converts the loaded configuration.
func EnrichmentFromConfig(cfg *config.Config) (EnrichmentConfig, error) {
	style, err := summarize.ParseStyle(cfg.Enrichment.SummaryStyle)
	if err != nil {
		return EnrichmentConfig{}, err
	}
	out := EnrichmentConfig{
		TargetAspectWidth:   cfg.Enrichment.AspectWidth,
		TargetAspectHeight:  cfg.Enrichment.AspectHeight,
		OutputHeight:        cfg.Enrichment.OutputHeight,
		EnableTranscription: cfg.Enrichment.Transcription,
		EnableSummarization: cfg.Enrichment.Summarization,
		SummaryStyle:        style,
		EnableSocialCaption: cfg.Enrichment.SocialCaption,
		EnableTitleOverlay:  cfg.Enrichment.TitleOverlay,
		TitlePosition:       cfg.Enrichment.TitlePosition,
		LanguageHint:        strings.TrimSpace(cfg.Enrichment.Language),
	}
	return out, out.Validate()
}

// Timeouts bound each external call made by a stage.
type Timeouts struct {
	Transcode  time.Duration
	Transcribe time.Duration
	Summarize  time.Duration
	Render     time.Duration
}

// DefaultTimeouts mirrors the configuration defaults.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Transcode:  600 * time.Second,
		Transcribe: 900 * time.Second,
		Summarize:  120 * time.Second,
		Render:     120 * time.Second,
	}
}

// TimeoutsFromConfig converts the [timeouts] section.
func TimeoutsFromConfig(cfg *config.Config) Timeouts {
	return Timeouts{
		Transcode:  seconds(cfg.Timeouts.TranscodeSeconds),
		Transcribe: seconds(cfg.Timeouts.TranscribeSeconds),
		Summarize:  seconds(cfg.Timeouts.SummarizeSeconds),
		Render:     seconds(cfg.Timeouts.RenderSeconds),
	}
}

func seconds(v int) time.Duration {
	return time.Duration(v) * time.Second
}

func (t Timeouts) withDefaults() Timeouts {
	def := DefaultTimeouts()
	if t.Transcode <= 0 {
		t.Transcode = def.Transcode
	}
	if t.Transcribe <= 0 {
		t.Transcribe = def.Transcribe
	}
	if t.Summarize <= 0 {
		t.Summarize = def.Summarize
	}
	if t.Render <= 0 {
		t.Render = def.Render
	}
	return t
}
