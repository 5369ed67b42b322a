package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

const (
	// WorkDirName is the scratch subdirectory for title cards and audio.
	WorkDirName  = ".work"
	lockFileName = ".clipper.lock"
	// ManifestName is the batch result file written next to the clips.
	ManifestName = "manifest.json"
)

// ErrBusy is returned when another clipper process holds the output directory.
var ErrBusy = errors.New("output directory is in use by another clipper run")

// Workspace is an output directory held exclusively for one batch.
type Workspace struct {
	OutputDir string
	WorkDir   string
	lockPath  string
	lock      *flock.Flock
}

// Open creates the output and scratch directories and takes the directory
// lock without blocking.
func Open(outputDir string) (*Workspace, error) {
	outputDir = strings.TrimSpace(outputDir)
	if outputDir == "" {
		return nil, errors.New("output directory required")
	}
	workDir := filepath.Join(outputDir, WorkDirName)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}

	lockPath := filepath.Join(outputDir, lockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBusy, outputDir)
	}
	return &Workspace{OutputDir: outputDir, WorkDir: workDir, lockPath: lockPath, lock: lock}, nil
}

// WriteManifest writes v as indented JSON to manifest.json, replacing any
// previous manifest atomically.
func (w *Workspace) WriteManifest(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(w.OutputDir, ManifestName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// Close removes the scratch directory and releases the lock.
func (w *Workspace) Close() error {
	if w == nil || w.lock == nil {
		return nil
	}
	var errs []error
	if err := os.RemoveAll(w.WorkDir); err != nil {
		errs = append(errs, fmt.Errorf("remove work directory: %w", err))
	}
	if err := w.lock.Unlock(); err != nil {
		errs = append(errs, fmt.Errorf("release lock: %w", err))
	}
	_ = os.Remove(w.lockPath)
	w.lock = nil
	return errors.Join(errs...)
}
