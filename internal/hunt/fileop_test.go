package hunt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DerithAI/WOLF-AI/types"
)

func TestRunFileQueryPreview(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "den.txt")
	if err := os.WriteFile(path, []byte("the den is warm"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	out, err := runFileQuery(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "the den is warm" {
		t.Errorf("expected the file content, got %q", out)
	}
}

func TestRunFileQueryPreviewBounded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 4*filePreviewBytes)), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	out, err := runFileQuery(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != filePreviewBytes {
		t.Errorf("expected a %d byte preview, got %d", filePreviewBytes, len(out))
	}
}

func TestRunFileQueryDirectoryListing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "caves"), 0o755); err != nil {
		t.Fatalf("failed to make dir: %v", err)
	}

	out, err := runFileQuery(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "a.txt") {
		t.Errorf("expected the file entry in %q", out)
	}
	if !strings.Contains(out, "caves/") {
		t.Errorf("expected the directory entry marked in %q", out)
	}
}

func TestRunFileQueryDirectoryBounded(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < dirListLimit+10; i++ {
		name := filepath.Join(dir, fmt.Sprintf("entry_%02d.txt", i))
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}

	out, err := runFileQuery(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(strings.Split(out, "\n")); got != dirListLimit {
		t.Errorf("expected %d entries, got %d", dirListLimit, got)
	}
}

func TestRunFileQueryMissingPath(t *testing.T) {
	_, err := runFileQuery(filepath.Join(t.TempDir(), "nowhere"))
	if err == nil {
		t.Fatal("expected an error for a missing path")
	}
	var execErr *types.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected an ExecutionError, got %T", err)
	}
	if !strings.Contains(execErr.Detail, "path not found") {
		t.Errorf("unexpected detail %q", execErr.Detail)
	}
}
