package whisperx

// Config selects the WhisperX model and runtime. The zero value runs the
// default model on CPU with Silero VAD.
type Config struct {
	Model       string
	CUDAEnabled bool
	// VADMethod is VADMethodSilero or VADMethodPyannote.
	VADMethod string
	// HFToken is only passed when VADMethod is pyannote.
	HFToken string
	// WeightsOnlyLoad keeps torch.load's weights_only default. WhisperX and
	// pyannote checkpoints fail to load under it, so it is off unless set.
	WeightsOnlyLoad bool
}

const (
	DefaultModel      = "large-v3"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"

	UVXCommand    = "uvx"
	FFmpegCommand = "ffmpeg"
)

// Fixed decoding parameters. Clips are short, so the batch and chunk sizes
// stay small and sentence-level segments are kept for caption timing.
const (
	CUDAIndexURL      = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL      = "https://pypi.org/simple"
	BatchSize         = "4"
	ChunkSize         = "15"
	VADOnset          = "0.08"
	VADOffset         = "0.07"
	BeamSize          = "5"
	Temperature       = "0.0"
	SegmentResolution = "sentence"
	OutputFormat      = "json"
	CPUDevice         = "cpu"
	CUDADevice        = "cuda"
	CPUComputeType    = "float32"

	torchWeightsOnlyEnv = "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD"
)

func (c Config) model() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel
}

func (c Config) indexArgs() []string {
	if c.CUDAEnabled {
		return []string{"--index-url", CUDAIndexURL, "--extra-index-url", PypiIndexURL}
	}
	return []string{"--index-url", PypiIndexURL}
}

func (c Config) vadArgs() []string {
	method := c.VADMethod
	if method == "" {
		method = VADMethodSilero
	}
	args := []string{"--vad_method", method}
	if method == VADMethodPyannote && c.HFToken != "" {
		args = append(args, "--hf_token", c.HFToken)
	}
	return args
}

func (c Config) deviceArgs() []string {
	if c.CUDAEnabled {
		return []string{"--device", CUDADevice}
	}
	return []string{"--device", CPUDevice, "--compute_type", CPUComputeType}
}

// extraEnv lists the variables appended to the inherited environment of
// every WhisperX invocation.
func (c Config) extraEnv() []string {
	if c.WeightsOnlyLoad {
		return nil
	}
	return []string{torchWeightsOnlyEnv + "=1"}
}
