package whisperx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	langpkg "clipper/internal/language"
	"clipper/internal/media/ffmpeg"
)

// CommandRunner executes an external command and returns its combined error.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Service provides WhisperX transcription capabilities.
type Service struct {
	cfg           Config
	ffmpegBinary  string
	commandRunner CommandRunner
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config, ffmpegBinary string) *Service {
	if ffmpegBinary == "" {
		ffmpegBinary = FFmpegCommand
	}
	return &Service{cfg: cfg, ffmpegBinary: ffmpegBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.model()
}

// Available reports whether the uvx launcher is on PATH.
func Available() bool {
	_, err := exec.LookPath(UVXCommand)
	return err == nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if extra := s.cfg.extraEnv(); len(extra) > 0 {
		cmd.Env = append(os.Environ(), extra...)
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Result contains the outcome of a transcription.
type Result struct {
	Text     string
	Language string
	Segments []Segment
	JSONPath string
}

// Transcribe extracts the clip's audio into workDir and runs WhisperX on it.
// language is an optional hint; WhisperX detects the language when empty.
func (s *Service) Transcribe(ctx context.Context, clipPath, workDir, language string) (Result, error) {
	var result Result
	if strings.TrimSpace(clipPath) == "" {
		return result, errors.New("transcribe: clip path required")
	}
	if workDir == "" {
		workDir = filepath.Dir(clipPath)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return result, fmt.Errorf("transcribe: ensure work dir: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(clipPath), filepath.Ext(clipPath))
	audioPath := filepath.Join(workDir, baseName+".wav")
	if err := s.run(ctx, s.ffmpegBinary, ffmpeg.ExtractAudioArgs(clipPath, audioPath)...); err != nil {
		return result, fmt.Errorf("transcribe: extract audio: %w", err)
	}
	defer os.Remove(audioPath)

	if err := s.run(ctx, UVXCommand, s.buildArgs(audioPath, workDir, language)...); err != nil {
		return result, fmt.Errorf("whisperx: %w", err)
	}

	result.JSONPath = filepath.Join(workDir, baseName+".json")
	payload, err := loadPayload(result.JSONPath)
	if err != nil {
		return result, fmt.Errorf("whisperx: %w", err)
	}
	result.Segments = payload.Segments
	result.Text = joinSegmentText(payload.Segments)
	result.Language = langpkg.ToISO2(payload.Language)
	if result.Language == "" {
		result.Language = langpkg.ToISO2(language)
	}
	return result, nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 40)
	args = append(args, s.cfg.indexArgs()...)
	args = append(args,
		"whisperx",
		source,
		"--model", s.cfg.model(),
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
		"--chunk_size", ChunkSize,
		"--vad_onset", VADOnset,
		"--vad_offset", VADOffset,
		"--beam_size", BeamSize,
		"--temperature", Temperature,
	)
	args = append(args, s.cfg.vadArgs()...)
	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}
	return append(args, s.cfg.deviceArgs()...)
}

// Word represents a single word with timing from WhisperX output.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

type whisperXPayload struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
}

func loadPayload(jsonPath string) (whisperXPayload, error) {
	var payload whisperXPayload
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return payload, err
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload, nil
}

func joinSegmentText(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
