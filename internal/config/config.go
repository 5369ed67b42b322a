package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains output and log directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Tools names the external binaries the pipeline shells out to.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Planning contains the default segment planning constraints.
type Planning struct {
	Count       int     `toml:"count"`
	MinSeconds  float64 `toml:"min_seconds"`
	MaxSeconds  float64 `toml:"max_seconds"`
	MaxAttempts int     `toml:"max_attempts"`
}

// Enrichment toggles the optional per-segment stages and sets the output frame.
type Enrichment struct {
	AspectWidth   int     `toml:"aspect_width"`
	AspectHeight  int     `toml:"aspect_height"`
	OutputHeight  int     `toml:"output_height"`
	Transcription bool    `toml:"transcription"`
	Summarization bool    `toml:"summarization"`
	SummaryStyle  string  `toml:"summary_style"`
	SocialCaption bool    `toml:"social_caption"`
	TitleOverlay  bool    `toml:"title_overlay"`
	TitlePosition float64 `toml:"title_position"`
	Language      string  `toml:"language"`
}

// Batch contains worker pool sizing.
type Batch struct {
	Workers int `toml:"workers"`
}

// Timeouts bound each external call. Values are seconds.
type Timeouts struct {
	TranscodeSeconds  int `toml:"transcode_seconds"`
	TranscribeSeconds int `toml:"transcribe_seconds"`
	SummarizeSeconds  int `toml:"summarize_seconds"`
	RenderSeconds     int `toml:"render_seconds"`
}

// Transcription contains speech-to-text backend configuration.
type Transcription struct {
	// Backends is the priority order; the first configured backend wins.
	Backends            []string `toml:"backends"`
	WhisperXEnabled     bool     `toml:"whisperx_enabled"`
	WhisperXModel       string   `toml:"whisperx_model"`
	WhisperXCUDAEnabled bool     `toml:"whisperx_cuda_enabled"`
	WhisperXVADMethod   string   `toml:"whisperx_vad_method"`
	WhisperXHuggingFace string   `toml:"whisperx_hf_token"`
	OpenAIAPIKey        string   `toml:"openai_api_key"`
	OpenAIModel         string   `toml:"openai_model"`
	OpenAIBaseURL       string   `toml:"openai_base_url"`

	// WhisperXWeightsOnlyLoad keeps torch's weights_only checkpoint loading.
	WhisperXWeightsOnlyLoad bool `toml:"whisperx_weights_only_load"`
}

// Summarization contains LLM backend configuration for summaries and captions.
type Summarization struct {
	// Backends is the priority order; the first configured backend wins.
	Backends          []string `toml:"backends"`
	OpenRouterAPIKey  string   `toml:"openrouter_api_key"`
	OpenRouterModel   string   `toml:"openrouter_model"`
	OpenRouterBaseURL string   `toml:"openrouter_base_url"`
	OpenAIAPIKey      string   `toml:"openai_api_key"`
	OpenAIModel       string   `toml:"openai_model"`
	OpenAIBaseURL     string   `toml:"openai_base_url"`
	DeepSeekAPIKey    string   `toml:"deepseek_api_key"`
	DeepSeekModel     string   `toml:"deepseek_model"`
	DeepSeekBaseURL   string   `toml:"deepseek_base_url"`
	Referer           string   `toml:"referer"`
	Title             string   `toml:"title"`
	TimeoutSeconds    int      `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Clipper.
//
// Configuration sections by subsystem:
//   - Paths: output and log directories
//   - Tools: ffmpeg/ffprobe binaries
//   - Planning: segment count and duration bounds
//   - Enrichment: optional stage toggles and output frame geometry
//   - Batch: worker pool size
//   - Timeouts: per external call deadlines
//   - Transcription: speech-to-text backends in priority order
//   - Summarization: LLM backends in priority order
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Tools         Tools         `toml:"tools"`
	Planning      Planning      `toml:"planning"`
	Enrichment    Enrichment    `toml:"enrichment"`
	Batch         Batch         `toml:"batch"`
	Timeouts      Timeouts      `toml:"timeouts"`
	Transcription Transcription `toml:"transcription"`
	Summarization Summarization `toml:"summarization"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/clipper/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipper.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for transcoding and compositing.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFmpeg); bin != "" {
		return bin
	}
	return defaultFFmpegBinary
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFprobe); bin != "" {
		return bin
	}
	return defaultFFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains connection settings for one chat-completion backend.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// OpenRouterLLM returns the OpenRouter summarization settings.
func (c *Config) OpenRouterLLM() LLMConfig {
	return c.llmConfig(c.Summarization.OpenRouterAPIKey, c.Summarization.OpenRouterBaseURL, c.Summarization.OpenRouterModel)
}

// OpenAILLM returns the OpenAI summarization settings.
func (c *Config) OpenAILLM() LLMConfig {
	return c.llmConfig(c.Summarization.OpenAIAPIKey, c.Summarization.OpenAIBaseURL, c.Summarization.OpenAIModel)
}

// DeepSeekLLM returns the DeepSeek summarization settings.
func (c *Config) DeepSeekLLM() LLMConfig {
	return c.llmConfig(c.Summarization.DeepSeekAPIKey, c.Summarization.DeepSeekBaseURL, c.Summarization.DeepSeekModel)
}

func (c *Config) llmConfig(apiKey, baseURL, model string) LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(apiKey),
		BaseURL:        strings.TrimSpace(baseURL),
		Model:          strings.TrimSpace(model),
		Referer:        strings.TrimSpace(c.Summarization.Referer),
		Title:          strings.TrimSpace(c.Summarization.Title),
		TimeoutSeconds: c.Summarization.TimeoutSeconds,
	}
}
