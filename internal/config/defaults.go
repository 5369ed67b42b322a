package config

const (
	defaultOutputDir            = "~/clips"
	defaultLogDir               = "~/.local/share/clipper/logs"
	defaultFFmpegBinary         = "ffmpeg"
	defaultFFprobeBinary        = "ffprobe"
	defaultPlanningCount        = 5
	defaultPlanningMinSeconds   = 15
	defaultPlanningMaxSeconds   = 60
	defaultPlanningMaxAttempts  = 50
	defaultAspectWidth          = 9
	defaultAspectHeight         = 16
	defaultOutputHeight         = 1920
	defaultSummaryStyle         = "concise"
	defaultTitlePosition        = 0.08
	defaultBatchWorkers         = 2
	defaultTranscodeTimeout     = 600
	defaultTranscribeTimeout    = 900
	defaultSummarizeTimeout     = 120
	defaultRenderTimeout        = 120
	defaultWhisperXVADMethod    = "silero"
	defaultOpenAITranscribe     = "whisper-1"
	defaultOpenRouterBaseURL    = "https://openrouter.ai/api/v1/chat/completions"
	defaultOpenRouterModel      = "google/gemini-3-flash-preview"
	defaultOpenAIModel          = "gpt-4.1-mini"
	defaultDeepSeekBaseURL      = "https://api.deepseek.com/chat/completions"
	defaultDeepSeekModel        = "deepseek-chat"
	defaultSummarizationReferer = "https://github.com/clipper/clipper"
	defaultSummarizationTitle   = "Clipper"
	defaultSummarizeHTTPTimeout = 60
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"

	// MaxSegmentCount is the upper bound on segments planned per batch.
	MaxSegmentCount = 20
)

// DefaultTranscriptionBackends is the default speech-to-text priority order.
func DefaultTranscriptionBackends() []string {
	return []string{"whisperx", "openai"}
}

// DefaultSummarizationBackends is the default LLM priority order.
func DefaultSummarizationBackends() []string {
	return []string{"openrouter", "openai", "deepseek"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Planning: Planning{
			Count:       defaultPlanningCount,
			MinSeconds:  defaultPlanningMinSeconds,
			MaxSeconds:  defaultPlanningMaxSeconds,
			MaxAttempts: defaultPlanningMaxAttempts,
		},
		Enrichment: Enrichment{
			AspectWidth:   defaultAspectWidth,
			AspectHeight:  defaultAspectHeight,
			OutputHeight:  defaultOutputHeight,
			Transcription: true,
			Summarization: true,
			SummaryStyle:  defaultSummaryStyle,
			SocialCaption: true,
			TitleOverlay:  true,
			TitlePosition: defaultTitlePosition,
		},
		Batch: Batch{
			Workers: defaultBatchWorkers,
		},
		Timeouts: Timeouts{
			TranscodeSeconds:  defaultTranscodeTimeout,
			TranscribeSeconds: defaultTranscribeTimeout,
			SummarizeSeconds:  defaultSummarizeTimeout,
			RenderSeconds:     defaultRenderTimeout,
		},
		Transcription: Transcription{
			Backends:          DefaultTranscriptionBackends(),
			WhisperXVADMethod: defaultWhisperXVADMethod,
			OpenAIModel:       defaultOpenAITranscribe,
		},
		Summarization: Summarization{
			Backends:          DefaultSummarizationBackends(),
			OpenRouterBaseURL: defaultOpenRouterBaseURL,
			OpenRouterModel:   defaultOpenRouterModel,
			OpenAIModel:       defaultOpenAIModel,
			DeepSeekBaseURL:   defaultDeepSeekBaseURL,
			DeepSeekModel:     defaultDeepSeekModel,
			Referer:           defaultSummarizationReferer,
			Title:             defaultSummarizationTitle,
			TimeoutSeconds:    defaultSummarizeHTTPTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
