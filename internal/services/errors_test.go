package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"clipper/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "transcode", "ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcode", "ffmpeg", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestWrapTagsDeadlineAsTimeout(t *testing.T) {
	err := services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "", fmt.Errorf("run: %w", context.DeadlineExceeded))
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout marker, got %v", err)
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected original marker, got %v", err)
	}
	if got := services.Marker(err); got != "timeout" {
		t.Fatalf("unexpected marker label %q", got)
	}
}

func TestMarkerLabels(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrConfiguration, "summarize", "select", "no backend", nil), "configuration"},
		{services.Wrap(services.ErrValidation, "", "", "bad", nil), "validation"},
		{services.Wrap(services.ErrExternalTool, "", "", "bad", nil), "external_tool"},
		{errors.New("plain"), "error"},
	}
	for _, tt := range tests {
		if got := services.Marker(tt.err); got != tt.want {
			t.Fatalf("Marker(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestReasonCollapsesWhitespace(t *testing.T) {
	err := errors.New("ffmpeg:\n  invalid   data\tfound")
	if got := services.Reason(err); got != "ffmpeg: invalid data found" {
		t.Fatalf("unexpected reason %q", got)
	}
	if services.Reason(nil) != "" {
		t.Fatal("expected empty reason for nil error")
	}
}
