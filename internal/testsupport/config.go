package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"clipper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// WhisperX is disabled and every API key is empty unless an option sets one.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "clips")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Transcription.WhisperXEnabled = false

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	for _, dir := range []string{cfgVal.Paths.OutputDir, cfgVal.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return builder.cfg
}

// WithOpenRouterKey enables the OpenRouter summarization backend.
func WithOpenRouterKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Summarization.OpenRouterAPIKey = key
	}
}

// WithOpenAITranscription enables the OpenAI transcription backend.
func WithOpenAITranscription(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.OpenAIAPIKey = key
	}
}

// WithStubbedBinaries writes stub ffmpeg, ffprobe and uvx executables and
// points the config at them. The ffmpeg stub lists the libx264 and aac
// encoders when called with -encoders and otherwise exits 0.
func WithStubbedBinaries() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		stubs := map[string]string{
			"ffmpeg":  ffmpegStub,
			"ffprobe": "#!/bin/sh\nexit 0\n",
			"uvx":     "#!/bin/sh\nexit 0\n",
		}
		for name, script := range stubs {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.cfg.Tools.FFmpeg = filepath.Join(binDir, "ffmpeg")
		b.cfg.Tools.FFprobe = filepath.Join(binDir, "ffprobe")

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

const ffmpegStub = `#!/bin/sh
for arg in "$@"; do
  if [ "$arg" = "-encoders" ]; then
    echo "Encoders:"
    echo " V..... = Video"
    echo " ------"
    echo " V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC"
    echo " A....D aac                  AAC (Advanced Audio Coding)"
    exit 0
  fi
done
exit 0
`

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
