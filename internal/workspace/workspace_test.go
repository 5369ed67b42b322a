package workspace

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenCreatesWorkDirAndLocks(t *testing.T) {
	out := filepath.Join(t.TempDir(), "clips")
	ws, err := Open(out)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if info, err := os.Stat(ws.WorkDir); err != nil || !info.IsDir() {
		t.Fatalf("expected work dir, got %v", err)
	}

	if _, err := Open(out); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for second open, got %v", err)
	}

	if err := ws.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if _, err := os.Stat(ws.WorkDir); !os.IsNotExist(err) {
		t.Fatal("expected work dir removed on close")
	}

	again, err := Open(out)
	if err != nil {
		t.Fatalf("expected reopen after close, got %v", err)
	}
	_ = again.Close()
}

func TestWriteManifest(t *testing.T) {
	ws, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer ws.Close()

	path, err := ws.WriteManifest(map[string]any{"batch_id": "abc", "status": "partial"})
	if err != nil {
		t.Fatalf("WriteManifest returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if decoded["status"] != "partial" || filepath.Base(path) != ManifestName {
		t.Fatalf("unexpected manifest %s: %v", path, decoded)
	}
}

func TestOpenRequiresDirectory(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty output dir")
	}
}
