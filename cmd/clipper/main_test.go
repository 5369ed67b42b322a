package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipper/internal/segment"
)

type cliTestEnv struct {
	configPath string
	outputDir  string
}

func setupCLITestEnv(t *testing.T) cliTestEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	for _, key := range []string{"OPENAI_API_KEY", "OPENROUTER_API_KEY", "DEEPSEEK_API_KEY", "HF_TOKEN"} {
		t.Setenv(key, "")
	}
	outputDir := filepath.Join(base, "clips")
	configPath := filepath.Join(base, "clipper.toml")
	content := "[paths]\n" +
		"output_dir = " + quote(outputDir) + "\n" +
		"log_dir = " + quote(filepath.Join(base, "logs")) + "\n" +
		"[transcription]\nwhisperx_enabled = false\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cliTestEnv{configPath: configPath, outputDir: outputDir}
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	t.Setenv("OPENROUTER_API_KEY", "or-key")
	out, err := runCLI(t, "--config", env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "openrouter")
	requireContains(t, out, "none")
	if _, err := os.Stat(env.outputDir); err != nil {
		t.Fatalf("expected validate to create the output directory: %v", err)
	}

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err = runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestPlanCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, "--config", env.configPath, "plan", "--duration", "100", "--count", "5", "--min", "5", "--max", "20", "--seed", "7", "--json")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	var plans []segment.Plan
	if err := json.Unmarshal([]byte(out), &plans); err != nil {
		t.Fatalf("decode plan output: %v\n%s", err, out)
	}
	if len(plans) == 0 || len(plans) > 5 {
		t.Fatalf("expected 1..5 plans, got %d", len(plans))
	}
	if err := segment.Validate(plans, 100, 5, 20); err != nil {
		t.Fatalf("invalid plan: %v", err)
	}
}

func TestPlanCommandTooShort(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, "--config", env.configPath, "plan", "--duration", "2", "--count", "5", "--min", "5", "--max", "10")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "No segments fit")
}

func TestPlanCommandRejectsBadRequest(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := runCLI(t, "--config", env.configPath, "plan", "--duration", "100", "--count", "21"); err == nil {
		t.Fatal("expected error for count above the maximum")
	}
	if _, err := runCLI(t, "--config", env.configPath, "plan"); err == nil {
		t.Fatal("expected error without a video or duration")
	}
}

func TestBackendsCommandWithoutCredentials(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, "--config", env.configPath, "backends")
	if err != nil {
		t.Fatalf("backends: %v", err)
	}
	requireContains(t, out, "whisperx disabled")
	requireContains(t, out, "openrouter api key not set")
	requireContains(t, out, "no backend configured")
	requireContains(t, out, "Dependencies")
}
