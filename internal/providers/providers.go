package providers

import (
	"fmt"
	"log/slog"

	"clipper/internal/config"
	"clipper/internal/logging"
	"clipper/internal/media/ffmpeg"
	"clipper/internal/pipeline"
	"clipper/internal/services/llm"
	"clipper/internal/services/openai"
	"clipper/internal/services/whisperx"
	"clipper/internal/summarize"
	"clipper/internal/titlecard"
	"clipper/internal/transcode"
	"clipper/internal/transcribe"
)

// Set is the resolved provider wiring for one process.
type Set struct {
	Providers     pipeline.Providers
	Frame         transcode.Frame
	Transcription transcribe.Selection
	Summarization summarize.Selection
}

// Options overrides environment probes in tests.
type Options struct {
	// WhisperXAvailable reports whether uvx can launch WhisperX. Defaults to
	// whisperx.Available.
	WhisperXAvailable func() bool
	// Runner replaces the ffmpeg process runner.
	Runner ffmpeg.Runner
}

// Selections resolves the transcription and summarization backends from the
// configured priority lists. It never performs network calls.
func Selections(cfg *config.Config, opts Options) (transcribe.Selection, summarize.Selection, error) {
	tPriority, err := transcribe.ParseBackends(cfg.Transcription.Backends)
	if err != nil {
		return transcribe.Selection{}, summarize.Selection{}, fmt.Errorf("transcription backends: %w", err)
	}
	sPriority, err := summarize.ParseBackends(cfg.Summarization.Backends)
	if err != nil {
		return transcribe.Selection{}, summarize.Selection{}, fmt.Errorf("summarization backends: %w", err)
	}

	available := opts.WhisperXAvailable
	if available == nil {
		available = whisperx.Available
	}
	whisperXAvailable := false
	if cfg.Transcription.WhisperXEnabled {
		whisperXAvailable = available()
	}

	tSel := transcribe.Select(tPriority, transcribe.Credentials{
		WhisperXEnabled:   cfg.Transcription.WhisperXEnabled,
		WhisperXAvailable: whisperXAvailable,
		OpenAIAPIKey:      cfg.Transcription.OpenAIAPIKey,
	})
	sSel := summarize.Select(sPriority, summarize.Credentials{
		OpenRouterAPIKey: cfg.Summarization.OpenRouterAPIKey,
		OpenAIAPIKey:     cfg.Summarization.OpenAIAPIKey,
		DeepSeekAPIKey:   cfg.Summarization.DeepSeekAPIKey,
	})
	return tSel, sSel, nil
}

// Build wires every stage provider from cfg. workDir receives scratch files
// such as extracted audio.
func Build(cfg *config.Config, workDir string, opts Options) (Set, error) {
	if cfg == nil {
		return Set{}, fmt.Errorf("providers: config required")
	}
	frame, err := transcode.NewFrame(cfg.Enrichment.AspectWidth, cfg.Enrichment.AspectHeight, cfg.Enrichment.OutputHeight)
	if err != nil {
		return Set{}, err
	}
	tSel, sSel, err := Selections(cfg, opts)
	if err != nil {
		return Set{}, err
	}

	runner := opts.Runner
	if runner == nil {
		runner = ffmpeg.NewRunner(cfg.FFmpegBinary())
	}

	transcriber := transcribe.New(tSel, transcribe.Options{
		WorkDir:  workDir,
		FFmpeg:   runner,
		WhisperX: whisperXService(cfg, tSel),
		OpenAI:   transcriptionClient(cfg, tSel),
	})
	summarizer := summarize.New(sSel, summarizeOptions(cfg, sSel))

	return Set{
		Providers: pipeline.Providers{
			Transcoder:  transcode.NewFFmpeg(runner, frame),
			Transcriber: transcriber,
			Summarizer:  summarizer,
			Renderer:    titlecard.NewRenderer(runner),
		},
		Frame:         frame,
		Transcription: tSel,
		Summarization: sSel,
	}, nil
}

// LogSelections records the backend choice once at startup.
func LogSelections(logger *slog.Logger, set Set) {
	if logger == nil {
		return
	}
	logger = logging.NewComponentLogger(logger, "providers")
	logger.Info("backends selected",
		logging.String(logging.FieldEventType, "backends_selected"),
		logging.String("transcriber", string(set.Transcription.Backend)),
		logging.String("summarizer", string(set.Summarization.Backend)),
		logging.Int("frame_width", set.Frame.Width),
		logging.Int("frame_height", set.Frame.Height),
	)
	for _, c := range set.Transcription.Candidates {
		if !c.Configured {
			logger.Debug("transcription backend unavailable", logging.String("backend", string(c.Backend)), logging.String("reason", c.Reason))
		}
	}
	for _, c := range set.Summarization.Candidates {
		if !c.Configured {
			logger.Debug("summarization backend unavailable", logging.String("backend", string(c.Backend)), logging.String("reason", c.Reason))
		}
	}
}

func whisperXService(cfg *config.Config, sel transcribe.Selection) *whisperx.Service {
	if sel.Backend != transcribe.BackendWhisperX {
		return nil
	}
	return whisperx.NewService(whisperx.Config{
		Model:       cfg.Transcription.WhisperXModel,
		CUDAEnabled: cfg.Transcription.WhisperXCUDAEnabled,
		VADMethod:   cfg.Transcription.WhisperXVADMethod,
		HFToken:     cfg.Transcription.WhisperXHuggingFace,

		WeightsOnlyLoad: cfg.Transcription.WhisperXWeightsOnlyLoad,
	}, cfg.FFmpegBinary())
}

func transcriptionClient(cfg *config.Config, sel transcribe.Selection) *openai.Client {
	if sel.Backend != transcribe.BackendOpenAI {
		return nil
	}
	return openai.NewClient(openai.Config{
		APIKey:             cfg.Transcription.OpenAIAPIKey,
		BaseURL:            cfg.Transcription.OpenAIBaseURL,
		TranscriptionModel: cfg.Transcription.OpenAIModel,
		TimeoutSeconds:     cfg.Timeouts.TranscribeSeconds,
	})
}

func summarizeOptions(cfg *config.Config, sel summarize.Selection) summarize.Options {
	var opts summarize.Options
	switch sel.Backend {
	case summarize.BackendOpenRouter:
		opts.OpenRouter = llmClient(cfg.OpenRouterLLM())
	case summarize.BackendDeepSeek:
		opts.DeepSeek = llmClient(cfg.DeepSeekLLM())
	case summarize.BackendOpenAI:
		lc := cfg.OpenAILLM()
		opts.OpenAI = openai.NewClient(openai.Config{
			APIKey:         lc.APIKey,
			BaseURL:        lc.BaseURL,
			ChatModel:      lc.Model,
			TimeoutSeconds: lc.TimeoutSeconds,
		})
	}
	return opts
}

func llmClient(lc config.LLMConfig) *llm.Client {
	return llm.NewClient(llm.Config{
		APIKey:         lc.APIKey,
		BaseURL:        lc.BaseURL,
		Model:          lc.Model,
		Referer:        lc.Referer,
		Title:          lc.Title,
		TimeoutSeconds: lc.TimeoutSeconds,
	})
}
