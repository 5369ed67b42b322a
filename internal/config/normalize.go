package config

import (
	"fmt"
	"os"
	"strings"
)

var (
	knownTranscriptionBackends = []string{"whisperx", "openai"}
	knownSummarizationBackends = []string{"openrouter", "openai", "deepseek"}
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeEnrichment()
	c.normalizeTranscription()
	c.normalizeSummarization()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
}

func (c *Config) normalizeEnrichment() {
	c.Enrichment.SummaryStyle = NormalizeSummaryStyle(c.Enrichment.SummaryStyle)
	c.Enrichment.Language = strings.ToLower(strings.TrimSpace(c.Enrichment.Language))
	if c.Enrichment.OutputHeight <= 0 {
		c.Enrichment.OutputHeight = defaultOutputHeight
	}
}

// NormalizeSummaryStyle maps user-supplied style spellings onto canonical names.
// Unknown values are returned lowercased so validation can report them.
func NormalizeSummaryStyle(style string) string {
	style = strings.ToLower(strings.TrimSpace(style))
	switch style {
	case "":
		return defaultSummaryStyle
	case "bullet", "bullet-form", "bullet_form", "bulleted":
		return "bullets"
	default:
		return style
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Backends = normalizeBackendList(c.Transcription.Backends, DefaultTranscriptionBackends())
	c.Transcription.WhisperXModel = strings.TrimSpace(c.Transcription.WhisperXModel)
	c.Transcription.WhisperXVADMethod = strings.ToLower(strings.TrimSpace(c.Transcription.WhisperXVADMethod))
	if c.Transcription.WhisperXVADMethod == "" {
		c.Transcription.WhisperXVADMethod = defaultWhisperXVADMethod
	}
	c.Transcription.WhisperXHuggingFace = strings.TrimSpace(c.Transcription.WhisperXHuggingFace)
	if c.Transcription.WhisperXHuggingFace == "" {
		c.Transcription.WhisperXHuggingFace = firstEnv("HUGGING_FACE_HUB_TOKEN", "HF_TOKEN")
	}
	if v := firstEnv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD"); v == "0" || strings.EqualFold(v, "false") {
		c.Transcription.WhisperXWeightsOnlyLoad = true
	}
	c.Transcription.OpenAIAPIKey = strings.TrimSpace(c.Transcription.OpenAIAPIKey)
	if c.Transcription.OpenAIAPIKey == "" {
		c.Transcription.OpenAIAPIKey = firstEnv("OPENAI_API_KEY")
	}
	c.Transcription.OpenAIModel = strings.TrimSpace(c.Transcription.OpenAIModel)
	if c.Transcription.OpenAIModel == "" {
		c.Transcription.OpenAIModel = defaultOpenAITranscribe
	}
	c.Transcription.OpenAIBaseURL = strings.TrimSpace(c.Transcription.OpenAIBaseURL)
}

func (c *Config) normalizeSummarization() {
	s := &c.Summarization
	s.Backends = normalizeBackendList(s.Backends, DefaultSummarizationBackends())

	s.OpenRouterAPIKey = strings.TrimSpace(s.OpenRouterAPIKey)
	if s.OpenRouterAPIKey == "" {
		s.OpenRouterAPIKey = firstEnv("OPENROUTER_API_KEY")
	}
	s.OpenRouterBaseURL = defaultString(s.OpenRouterBaseURL, defaultOpenRouterBaseURL)
	s.OpenRouterModel = defaultString(s.OpenRouterModel, defaultOpenRouterModel)

	s.OpenAIAPIKey = strings.TrimSpace(s.OpenAIAPIKey)
	if s.OpenAIAPIKey == "" {
		s.OpenAIAPIKey = firstEnv("OPENAI_API_KEY")
	}
	s.OpenAIModel = defaultString(s.OpenAIModel, defaultOpenAIModel)
	s.OpenAIBaseURL = strings.TrimSpace(s.OpenAIBaseURL)

	s.DeepSeekAPIKey = strings.TrimSpace(s.DeepSeekAPIKey)
	if s.DeepSeekAPIKey == "" {
		s.DeepSeekAPIKey = firstEnv("DEEPSEEK_API_KEY")
	}
	s.DeepSeekBaseURL = defaultString(s.DeepSeekBaseURL, defaultDeepSeekBaseURL)
	s.DeepSeekModel = defaultString(s.DeepSeekModel, defaultDeepSeekModel)

	s.Referer = defaultString(s.Referer, defaultSummarizationReferer)
	s.Title = defaultString(s.Title, defaultSummarizationTitle)
	if s.TimeoutSeconds <= 0 {
		s.TimeoutSeconds = defaultSummarizeHTTPTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeBackendList lowercases and de-duplicates a priority list, keeping
// the first occurrence of each name. An explicitly empty list stays empty so
// operators can disable a capability entirely; a nil list takes the defaults.
func normalizeBackendList(values []string, fallback []string) []string {
	if values == nil {
		return append([]string(nil), fallback...)
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func defaultString(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
