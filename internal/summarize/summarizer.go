package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clipper/internal/services"
	"clipper/internal/services/llm"
	"clipper/internal/services/openai"
	"clipper/internal/textutil"
)

// maxInputRunes keeps prompts well inside small-model context windows.
const maxInputRunes = 12000

// Summarizer condenses text in a given style.
type Summarizer interface {
	Summarize(ctx context.Context, text string, style Style) (string, error)
}

// Completer is a chat completion call shared by every backend.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	return f(ctx, systemPrompt, userPrompt, temperature)
}

// Options carries the clients a Selection may resolve to.
type Options struct {
	OpenRouter *llm.Client
	DeepSeek   *llm.Client
	OpenAI     *openai.Client
}

// New builds the Summarizer for a selection.
func New(sel Selection, opts Options) Summarizer {
	switch sel.Backend {
	case BackendOpenRouter:
		if opts.OpenRouter != nil {
			return NewWithCompleter(BackendOpenRouter, CompleterFunc(opts.OpenRouter.CompleteText))
		}
	case BackendDeepSeek:
		if opts.DeepSeek != nil {
			return NewWithCompleter(BackendDeepSeek, CompleterFunc(opts.DeepSeek.CompleteText))
		}
	case BackendOpenAI:
		if opts.OpenAI != nil {
			return NewWithCompleter(BackendOpenAI, opts.OpenAI)
		}
	}
	return unavailable{}
}

// NewWithCompleter wraps a completion call with prompt construction and
// output cleanup.
func NewWithCompleter(backend Backend, completer Completer) Summarizer {
	return &chatSummarizer{backend: backend, completer: completer}
}

type unavailable struct{}

func (unavailable) Summarize(context.Context, string, Style) (string, error) {
	return "", services.Wrap(services.ErrConfiguration, "summarize", "select backend", "no summarization backend configured", nil)
}

type chatSummarizer struct {
	backend   Backend
	completer Completer
}

func (s *chatSummarizer) Summarize(ctx context.Context, text string, style Style) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", services.Wrap(services.ErrValidation, "summarize", string(style), "input text is empty", nil)
	}
	p, ok := promptFor(style)
	if !ok {
		return "", services.Wrap(services.ErrValidation, "summarize", string(style), "unsupported style", nil)
	}
	if runes := []rune(text); len(runes) > maxInputRunes {
		text = string(runes[:maxInputRunes])
	}

	raw, err := s.completer.Complete(ctx, p.system, buildUserPrompt(p, text), p.temperature)
	if err != nil {
		return "", services.Wrap(classify(err), "summarize", string(s.backend), fmt.Sprintf("%s completion failed", style), err)
	}
	out := finish(style, raw)
	if out == "" {
		return "", services.Wrap(services.ErrExternalTool, "summarize", string(s.backend), fmt.Sprintf("%s completion returned no usable text", style), nil)
	}
	return out, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return services.ErrTimeout
	}
	if status := openai.StatusCode(err); status == 429 || status >= 500 {
		return services.ErrTransient
	}
	return services.ErrExternalTool
}

func finish(style Style, raw string) string {
	raw = llm.StripCodeFence(raw)
	switch style {
	case StyleSocialTitle:
		return textutil.TitleCase(textutil.CleanCaption(raw))
	case StyleBullets:
		return normalizeBullets(raw)
	default:
		return strings.TrimSpace(raw)
	}
}

func normalizeBullets(raw string) string {
	var lines []string
	for line := range strings.SplitSeq(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "-*•"))
		if line == "" {
			continue
		}
		lines = append(lines, "- "+line)
	}
	return strings.Join(lines, "\n")
}
