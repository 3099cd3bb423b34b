//go:build !windows

package probes

import (
	"context"
	"fmt"
	"os/exec"
)

const sizerTool = "du"

// measureFolder sizes a directory with du. Used on non-Windows hosts, mainly
// for development and tests.
func measureFolder(ctx context.Context, path string) (FolderSizeRecord, error) {
	cmd := exec.CommandContext(ctx, sizerTool, "-sk", path)
	out, err := cmd.Output()
	if err != nil {
		return FolderSizeRecord{}, fmt.Errorf("du: %w", err)
	}

	bytes, err := parseDuOutput(string(out))
	if err != nil {
		return FolderSizeRecord{}, err
	}
	return FolderSizeRecord{Path: path, SizeBytes: bytes, Tool: sizerTool}, nil
}
