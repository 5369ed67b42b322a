package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clipper/internal/services"
	"clipper/internal/services/llm"
)

type recordingCompleter struct {
	reply  string
	err    error
	calls  int
	system string
	user   string
	temp   float64
}

func (r *recordingCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	r.calls++
	r.system, r.user, r.temp = systemPrompt, userPrompt, temperature
	return r.reply, r.err
}

func TestParseStyle(t *testing.T) {
	tests := map[string]Style{
		"":          StyleConcise,
		"Concise":   StyleConcise,
		"detailed":  StyleDetailed,
		"bullet":    StyleBullets,
		" bullets ": StyleBullets,
	}
	for input, want := range tests {
		got, err := ParseStyle(input)
		if err != nil || got != want {
			t.Fatalf("ParseStyle(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	if _, err := ParseStyle("social_title"); err == nil {
		t.Fatal("expected social_title to be rejected as a user style")
	}
}

func TestSelect(t *testing.T) {
	priority := []Backend{BackendOpenRouter, BackendOpenAI, BackendDeepSeek}
	if got := Select(priority, Credentials{DeepSeekAPIKey: "d", OpenAIAPIKey: "o"}).Backend; got != BackendOpenAI {
		t.Fatalf("expected openai, got %s", got)
	}
	sel := Select(priority, Credentials{})
	if sel.Backend != BackendNone {
		t.Fatalf("expected none, got %s", sel.Backend)
	}
	if sel.Candidates[0].Reason != "openrouter api key not set" {
		t.Fatalf("unexpected reason %q", sel.Candidates[0].Reason)
	}
}

func TestNoneBackendFailsWithConfigurationError(t *testing.T) {
	_, err := New(Selection{Backend: BackendNone}, Options{}).Summarize(context.Background(), "text", StyleConcise)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestSummarizeUsesStylePrompt(t *testing.T) {
	completer := &recordingCompleter{reply: "  The host explains tides.  "}
	got, err := NewWithCompleter(BackendOpenRouter, completer).Summarize(context.Background(), "tides are caused by the moon", StyleDetailed)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if got != "The host explains tides." {
		t.Fatalf("unexpected summary %q", got)
	}
	if !strings.Contains(completer.user, "detailed summary") || !strings.HasSuffix(completer.user, "tides are caused by the moon") {
		t.Fatalf("unexpected user prompt %q", completer.user)
	}
}

func TestSummarizeBulletsNormalized(t *testing.T) {
	completer := &recordingCompleter{reply: "* first point\n\n• second point\n- third point"}
	got, err := NewWithCompleter(BackendOpenAI, completer).Summarize(context.Background(), "text", StyleBullets)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	want := "- first point\n- second point\n- third point"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSummarizeSocialTitleCleaned(t *testing.T) {
	completer := &recordingCompleter{reply: "```\nTitle: \"why the moon moves NASA oceans\"\n```"}
	got, err := NewWithCompleter(BackendDeepSeek, completer).Summarize(context.Background(), "summary", StyleSocialTitle)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if got != "Why The Moon Moves NASA Oceans" {
		t.Fatalf("unexpected caption %q", got)
	}
	if completer.temp <= prompts[StyleConcise].temperature {
		t.Fatalf("expected a warmer temperature for titles, got %v", completer.temp)
	}
}

func TestSummarizeEmptyInputSkipsBackend(t *testing.T) {
	completer := &recordingCompleter{reply: "unused"}
	_, err := NewWithCompleter(BackendOpenAI, completer).Summarize(context.Background(), "   ", StyleConcise)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("expected no backend call, got %d", completer.calls)
	}
}

func TestSummarizeErrorMarkers(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		marker error
	}{
		{"generic", errors.New("boom"), services.ErrExternalTool},
		{"deadline", context.DeadlineExceeded, services.ErrTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithCompleter(BackendOpenAI, &recordingCompleter{err: tt.err}).Summarize(context.Background(), "text", StyleConcise)
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v marker, got %v", tt.marker, err)
			}
		})
	}
}

func TestSummarizeBlankReplyFails(t *testing.T) {
	_, err := NewWithCompleter(BackendOpenAI, &recordingCompleter{reply: "\n\n"}).Summarize(context.Background(), "text", StyleSocialTitle)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestOpenRouterBackendThroughLLMClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "demo-model" {
			t.Fatalf("unexpected model %q", req.Model)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"finish_reason":"stop","message":{"role":"assistant","content":"A concise recap."}}]}`))
	}))
	defer server.Close()

	client := llm.NewClient(llm.Config{APIKey: "key", BaseURL: server.URL, Model: "demo-model"})
	summarizer := New(Selection{Backend: BackendOpenRouter}, Options{OpenRouter: client})
	got, err := summarizer.Summarize(context.Background(), "long transcript", StyleConcise)
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if got != "A concise recap." {
		t.Fatalf("unexpected summary %q", got)
	}
}
