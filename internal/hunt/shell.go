package hunt

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/DerithAI/WOLF-AI/types"
)

const (
	// maxOutputSize caps the result stored for a single attempt.
	maxOutputSize = 50000
	stderrDivider = "\n--- stderr ---\n"
)

// runShell executes the payload through `sh -c` and returns the combined
// stdout/stderr output. The context carries the per-attempt deadline; a
// deadline hit surfaces as the context error so the caller can classify
// it uniformly.
func runShell(ctx context.Context, command string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	output := joinOutput(stdout.String(), stderr.String())

	if ctx.Err() == context.DeadlineExceeded {
		return output, ctx.Err()
	}
	if runErr != nil {
		detail := runErr.Error()
		if tail := strings.TrimSpace(stderr.String()); tail != "" {
			detail += ": " + clip(tail, 200)
		}
		return output, &types.ExecutionError{Kind: "shell", Detail: detail, Err: runErr}
	}
	return output, nil
}

func joinOutput(stdout, stderr string) string {
	out := stdout
	if stderr != "" {
		out += stderrDivider + stderr
	}
	if len(out) > maxOutputSize {
		out = out[:maxOutputSize] + "\n...[truncated]"
	}
	return out
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
