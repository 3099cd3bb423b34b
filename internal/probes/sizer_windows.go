//go:build windows

package probes

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

const sizerTool = "robocopy"

// measureFolder sizes a directory with a list-only robocopy pass. Robocopy
// exit codes below 8 are informational, not errors.
func measureFolder(ctx context.Context, path string) (FolderSizeRecord, error) {
	cmd := exec.CommandContext(ctx, sizerTool,
		path, path,
		"/L", "/E", "/XJ", "/BYTES",
		"/NFL", "/NDL", "/NP", "/NJH",
		"/R:0", "/W:0",
	)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() >= 8 {
			return FolderSizeRecord{}, fmt.Errorf("robocopy: %w", err)
		}
	}

	files, bytes, err := parseRobocopySummary(string(out))
	if err != nil {
		return FolderSizeRecord{}, err
	}
	return FolderSizeRecord{Path: path, SizeBytes: bytes, FileCount: files, Tool: sizerTool}, nil
}
