package pipeline

import (
	"context"
	"errors"
	"os"
	"sync"

	"clipper/internal/segment"
	"clipper/internal/summarize"
	"clipper/internal/transcribe"
)

type fakeTranscoder struct {
	mu      sync.Mutex
	failFor map[int]error
	calls   []int
	hook    func(ctx context.Context)
}

func (f *fakeTranscoder) Transform(ctx context.Context, source string, plan segment.Plan, dest string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, plan.Index)
	err := f.failFor[plan.Index]
	f.mu.Unlock()
	if f.hook != nil {
		f.hook(ctx)
	}
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, []byte("clip"), 0o644); err != nil {
		return "", err
	}
	return dest, nil
}

func (f *fakeTranscoder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeTranscriber struct {
	mu    sync.Mutex
	text  string
	err   error
	panic bool
	block bool
	calls int
	hints []string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, clipPath, languageHint string) (transcribe.Transcript, error) {
	f.mu.Lock()
	f.calls++
	f.hints = append(f.hints, languageHint)
	f.mu.Unlock()
	if f.panic {
		panic("decoder exploded")
	}
	if f.block {
		<-ctx.Done()
		return transcribe.Transcript{}, ctx.Err()
	}
	if f.err != nil {
		return transcribe.Transcript{}, f.err
	}
	return transcribe.Transcript{Text: f.text, Language: "en"}, nil
}

type summarizeCall struct {
	text  string
	style summarize.Style
}

type fakeSummarizer struct {
	mu        sync.Mutex
	failStyle map[summarize.Style]bool
	calls     []summarizeCall
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string, style summarize.Style) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, summarizeCall{text: text, style: style})
	fail := f.failStyle[style]
	f.mu.Unlock()
	if fail {
		return "", errors.New("llm unavailable")
	}
	if style == summarize.StyleSocialTitle {
		return "Moon Moves Oceans", nil
	}
	return "Summary of: " + text, nil
}

func (f *fakeSummarizer) callsFor(style summarize.Style) []summarizeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []summarizeCall
	for _, c := range f.calls {
		if c.style == style {
			out = append(out, c)
		}
	}
	return out
}

type fakeRenderer struct {
	mu         sync.Mutex
	renders    []string
	composites int
	failRender bool
}

func (f *fakeRenderer) Render(ctx context.Context, text, dest string, frameWidth int) (string, error) {
	f.mu.Lock()
	f.renders = append(f.renders, text)
	f.mu.Unlock()
	if f.failRender {
		return "", errors.New("font missing")
	}
	return dest, os.WriteFile(dest, []byte("png"), 0o644)
}

func (f *fakeRenderer) Composite(ctx context.Context, clip, image string, verticalFraction float64) (string, error) {
	f.mu.Lock()
	f.composites++
	f.mu.Unlock()
	return clip, os.WriteFile(clip, []byte("titled"), 0o644)
}
