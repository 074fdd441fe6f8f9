package hunt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DerithAI/WOLF-AI/types"
)

const (
	// filePreviewBytes bounds how much of a file a query returns.
	filePreviewBytes = 1000
	// dirListLimit bounds how many entries a directory query returns.
	dirListLimit = 20
)

// runFileQuery resolves the payload as a filesystem path. Files yield a
// bounded content preview, directories a bounded entry listing. A missing
// path is an execution failure so the retry policy applies.
func runFileQuery(path string) (string, error) {
	path = strings.TrimSpace(path)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &types.ExecutionError{Kind: "file", Detail: fmt.Sprintf("path not found: %s", path)}
		}
		return "", &types.ExecutionError{Kind: "file", Detail: err.Error(), Err: err}
	}

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return "", &types.ExecutionError{Kind: "file", Detail: err.Error(), Err: err}
		}
		if len(entries) > dirListLimit {
			entries = entries[:dirListLimit]
		}
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				name += "/"
			}
			names = append(names, name)
		}
		return strings.Join(names, "\n"), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", &types.ExecutionError{Kind: "file", Detail: err.Error(), Err: err}
	}
	defer func() { _ = f.Close() }()

	preview, err := io.ReadAll(io.LimitReader(f, filePreviewBytes))
	if err != nil {
		return "", &types.ExecutionError{Kind: "file", Detail: err.Error(), Err: err}
	}
	return string(preview), nil
}
