package providers

import (
	"context"
	"testing"

	"clipper/internal/config"
	"clipper/internal/media/ffmpeg"
	"clipper/internal/summarize"
	"clipper/internal/testsupport"
	"clipper/internal/transcribe"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Transcription.Backends = []string{"whisperx", "openai"}
	cfg.Summarization.Backends = []string{"openrouter", "openai", "deepseek"}
	return cfg
}

func noopRunner() ffmpeg.Runner {
	return ffmpeg.RunnerFunc(func(context.Context, []string) error { return nil })
}

func TestSelectionsFallThroughPriority(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transcription.WhisperXEnabled = true
	cfg.Transcription.OpenAIAPIKey = "sk-transcribe"
	cfg.Summarization.DeepSeekAPIKey = "ds-key"

	tSel, sSel, err := Selections(cfg, Options{WhisperXAvailable: func() bool { return false }})
	if err != nil {
		t.Fatalf("Selections: %v", err)
	}
	if tSel.Backend != transcribe.BackendOpenAI {
		t.Fatalf("expected openai transcription, got %s", tSel.Backend)
	}
	if len(tSel.Candidates) != 2 || tSel.Candidates[0].Reason != "uvx not found on PATH" {
		t.Fatalf("unexpected candidates %+v", tSel.Candidates)
	}
	if sSel.Backend != summarize.BackendDeepSeek {
		t.Fatalf("expected deepseek summarization, got %s", sSel.Backend)
	}
}

func TestSelectionsNoneConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.Transcription.WhisperXEnabled = false
	cfg.Transcription.OpenAIAPIKey = ""
	cfg.Summarization.OpenRouterAPIKey = ""
	cfg.Summarization.OpenAIAPIKey = ""
	cfg.Summarization.DeepSeekAPIKey = ""

	probed := false
	tSel, sSel, err := Selections(cfg, Options{WhisperXAvailable: func() bool { probed = true; return true }})
	if err != nil {
		t.Fatalf("Selections: %v", err)
	}
	if probed {
		t.Fatal("uvx should not be probed when whisperx is disabled")
	}
	if tSel.Backend != transcribe.BackendNone || sSel.Backend != summarize.BackendNone {
		t.Fatalf("expected none/none, got %s/%s", tSel.Backend, sSel.Backend)
	}
}

func TestSelectionsRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Summarization.Backends = []string{"mystery"}
	if _, _, err := Selections(cfg, Options{}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestBuildWiresEveryProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Enrichment.AspectWidth = 9
	cfg.Enrichment.AspectHeight = 16
	cfg.Enrichment.OutputHeight = 1920
	cfg.Summarization.OpenRouterAPIKey = "or-key"

	set, err := Build(cfg, t.TempDir(), Options{WhisperXAvailable: func() bool { return false }, Runner: noopRunner()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p := set.Providers
	if p.Transcoder == nil || p.Transcriber == nil || p.Summarizer == nil || p.Renderer == nil {
		t.Fatalf("expected every provider wired, got %+v", p)
	}
	if set.Frame.Width != 1080 || set.Frame.Height != 1920 {
		t.Fatalf("unexpected frame %+v", set.Frame)
	}
	if set.Summarization.Backend != summarize.BackendOpenRouter {
		t.Fatalf("expected openrouter, got %s", set.Summarization.Backend)
	}
}

func TestBuildRejectsBadFrame(t *testing.T) {
	cfg := testConfig(t)
	cfg.Enrichment.AspectWidth = 0
	if _, err := Build(cfg, t.TempDir(), Options{Runner: noopRunner()}); err == nil {
		t.Fatal("expected error for zero aspect width")
	}
}
