package whisperx

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestTranscribeRunsExtractThenWhisperX(t *testing.T) {
	workDir := t.TempDir()
	clip := filepath.Join(t.TempDir(), "segment_0_abcd1234.mp4")

	var commands []string
	var whisperArgs []string
	svc := NewService(Config{Model: "small", VADMethod: VADMethodSilero}, "/usr/bin/ffmpeg")
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		commands = append(commands, name)
		if name == UVXCommand {
			whisperArgs = args
			payload := `{"language":"en","segments":[{"text":" Hello there. ","start":0,"end":1.2},{"text":"General Kenobi.","start":1.3,"end":2.5}]}`
			return os.WriteFile(filepath.Join(workDir, "segment_0_abcd1234.json"), []byte(payload), 0o644)
		}
		return nil
	})

	result, err := svc.Transcribe(context.Background(), clip, workDir, "")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if !slices.Equal(commands, []string{"/usr/bin/ffmpeg", UVXCommand}) {
		t.Fatalf("unexpected command order: %v", commands)
	}
	if result.Text != "Hello there. General Kenobi." {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if result.Language != "en" {
		t.Fatalf("expected detected language en, got %q", result.Language)
	}
	if len(result.Segments) != 2 || result.Segments[1].End != 2.5 {
		t.Fatalf("unexpected segments: %+v", result.Segments)
	}
	joined := strings.Join(whisperArgs, " ")
	for _, want := range []string{"--model small", "--output_format json", "--vad_method silero", "--device cpu"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in args %q", want, joined)
		}
	}
	if strings.Contains(joined, "--language") {
		t.Fatalf("expected no language flag without a hint: %q", joined)
	}
}

func TestBuildArgsLanguageAndCUDA(t *testing.T) {
	svc := NewService(Config{CUDAEnabled: true, VADMethod: VADMethodPyannote, HFToken: "hf"}, "")
	args := strings.Join(svc.buildArgs("in.wav", "/tmp/out", "eng"), " ")
	for _, want := range []string{"--extra-index-url", "--language en", "--device cuda", "--hf_token hf", "--model " + DefaultModel} {
		if !strings.Contains(args, want) {
			t.Fatalf("expected %q in args %q", want, args)
		}
	}
}

func TestTranscribeMissingOutputFails(t *testing.T) {
	svc := NewService(Config{}, "")
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	if _, err := svc.Transcribe(context.Background(), filepath.Join(t.TempDir(), "clip.mp4"), t.TempDir(), "en"); err == nil {
		t.Fatal("expected error when whisperx writes no json")
	}
}

func TestExtraEnvDisablesWeightsOnlyLoadByDefault(t *testing.T) {
	if got := (Config{}).extraEnv(); !slices.Equal(got, []string{"TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1"}) {
		t.Fatalf("default extraEnv = %v", got)
	}
	if got := (Config{WeightsOnlyLoad: true}).extraEnv(); len(got) != 0 {
		t.Fatalf("weights-only extraEnv = %v, want none", got)
	}
}
