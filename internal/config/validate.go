package config

import (
	"errors"
	"fmt"
	"slices"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlanning(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateBackends(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlanning() error {
	p := c.Planning
	if p.Count < 1 || p.Count > MaxSegmentCount {
		return fmt.Errorf("planning.count must be between 1 and %d", MaxSegmentCount)
	}
	if p.MinSeconds <= 0 {
		return errors.New("planning.min_seconds must be positive")
	}
	if p.MaxSeconds < p.MinSeconds {
		return errors.New("planning.max_seconds must be greater than or equal to planning.min_seconds")
	}
	if p.MaxAttempts <= 0 {
		return errors.New("planning.max_attempts must be positive")
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	e := c.Enrichment
	if e.AspectWidth <= 0 || e.AspectHeight <= 0 {
		return errors.New("enrichment.aspect_width and enrichment.aspect_height must be positive")
	}
	if e.OutputHeight < 2 {
		return errors.New("enrichment.output_height must be at least 2")
	}
	switch e.SummaryStyle {
	case "concise", "detailed", "bullets":
	default:
		return fmt.Errorf("enrichment.summary_style %q is not one of concise, detailed, bullets", e.SummaryStyle)
	}
	if e.TitlePosition < 0 || e.TitlePosition >= 1 {
		return errors.New("enrichment.title_position must be within [0, 1)")
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers < 1 {
		return errors.New("batch.workers must be at least 1")
	}
	return ensurePositiveMap(map[string]int{
		"timeouts.transcode_seconds":  c.Timeouts.TranscodeSeconds,
		"timeouts.transcribe_seconds": c.Timeouts.TranscribeSeconds,
		"timeouts.summarize_seconds":  c.Timeouts.SummarizeSeconds,
		"timeouts.render_seconds":     c.Timeouts.RenderSeconds,
	})
}

func (c *Config) validateBackends() error {
	for _, name := range c.Transcription.Backends {
		if !slices.Contains(knownTranscriptionBackends, name) {
			return fmt.Errorf("transcription.backends: unknown backend %q", name)
		}
	}
	for _, name := range c.Summarization.Backends {
		if !slices.Contains(knownSummarizationBackends, name) {
			return fmt.Errorf("summarization.backends: unknown backend %q", name)
		}
	}
	switch c.Transcription.WhisperXVADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("transcription.whisperx_vad_method %q must be silero or pyannote", c.Transcription.WhisperXVADMethod)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
