package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Runner executes ffmpeg with the given arguments.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// ExecRunner runs the ffmpeg binary as a subprocess, capturing stderr for
// failure classification.
type ExecRunner struct {
	Binary string
}

// NewRunner returns a Runner for the given ffmpeg binary ("ffmpeg" if empty).
func NewRunner(binary string) *ExecRunner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &ExecRunner{Binary: binary}
}

// Run executes ffmpeg. A non-zero exit yields an *Error carrying the
// classified cause and captured stderr.
func (r *ExecRunner) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.Binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Join(ctxErr, err)
	}
	return &Error{Cause: Classify(stderr.String()), Stderr: stderr.String(), Err: err}
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, args []string) error

func (f RunnerFunc) Run(ctx context.Context, args []string) error {
	return f(ctx, args)
}
