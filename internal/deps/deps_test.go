package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestCheckEncoders(t *testing.T) {
	listing := []byte(` V..... = Video
 A..... = Audio
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC
 A....D aac                  AAC (Advanced Audio Coding)
 V....D libsvtav1            SVT-AV1
`)
	run := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		if name != "ffmpeg" || strings.Join(args, " ") != "-hide_banner -encoders" {
			t.Fatalf("unexpected command %s %v", name, args)
		}
		return listing, nil
	}

	status := CheckEncoders(context.Background(), "ffmpeg", []string{"libx264", "aac"}, run)
	if !status.Available {
		t.Fatalf("expected encoders available, got %q", status.Detail)
	}

	status = CheckEncoders(context.Background(), "ffmpeg", []string{"libx264", "libfdk_aac"}, run)
	if status.Available || status.Detail != "missing libfdk_aac" {
		t.Fatalf("expected missing libfdk_aac, got %+v", status)
	}
}

func TestCheckEncodersCommandFailure(t *testing.T) {
	run := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("exec: not found")
	}
	status := CheckEncoders(context.Background(), "ffmpeg", []string{"aac"}, run)
	if status.Available || !strings.Contains(status.Detail, "not found") {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestCheckBinariesResolvesPathAndMarksOptional(t *testing.T) {
	orig := LookPath
	t.Cleanup(func() { LookPath = orig })
	LookPath = func(name string) (string, error) {
		if name == "ffmpeg" {
			return "/opt/bin/ffmpeg", nil
		}
		return "", errors.New("not found")
	}

	results := CheckBinaries([]Requirement{
		{Name: "FFmpeg", Command: "ffmpeg"},
		{Name: "uvx", Command: "uvx", Optional: true},
		{Name: "Blank", Command: "  "},
	})
	if results[0].Path != "/opt/bin/ffmpeg" {
		t.Fatalf("expected resolved path, got %#v", results[0])
	}
	if !strings.HasSuffix(results[1].Detail, "(optional)") {
		t.Fatalf("expected optional marker, got %q", results[1].Detail)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank detail %q", results[2].Detail)
	}
}
