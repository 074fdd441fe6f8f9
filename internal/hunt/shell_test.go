package hunt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DerithAI/WOLF-AI/types"
)

func TestRunShellCapturesOutput(t *testing.T) {
	out, err := runShell(context.Background(), "echo hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "hi") {
		t.Errorf("expected output to contain %q, got %q", "hi", out)
	}
}

func TestRunShellSeparatesStderr(t *testing.T) {
	out, err := runShell(context.Background(), "echo out; echo err 1>&2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "out") {
		t.Errorf("missing stdout in %q", out)
	}
	if !strings.Contains(out, stderrDivider) || !strings.Contains(out, "err") {
		t.Errorf("missing stderr section in %q", out)
	}
}

func TestRunShellNonZeroExit(t *testing.T) {
	_, err := runShell(context.Background(), "echo boom 1>&2; exit 3")
	if err == nil {
		t.Fatal("expected an error for a non-zero exit")
	}
	var execErr *types.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected an ExecutionError, got %T", err)
	}
	if execErr.Kind != "shell" {
		t.Errorf("expected shell kind, got %q", execErr.Kind)
	}
	if !strings.Contains(execErr.Detail, "boom") {
		t.Errorf("expected stderr in the detail, got %q", execErr.Detail)
	}
}

func TestRunShellDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := runShell(ctx, "sleep 5")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected a deadline error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("command outlived its deadline by too much: %s", elapsed)
	}
}

func TestJoinOutputTruncates(t *testing.T) {
	long := strings.Repeat("a", maxOutputSize+500)
	out := joinOutput(long, "")
	if !strings.HasSuffix(out, "...[truncated]") {
		t.Error("expected a truncation marker")
	}
	if len(out) > maxOutputSize+len("\n...[truncated]") {
		t.Errorf("output not capped: %d bytes", len(out))
	}
}
