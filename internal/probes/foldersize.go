package probes

import (
	"context"
	"fmt"
	"os/exec"
)

// FolderSizeRecord holds the measured size of one target directory.
type FolderSizeRecord struct {
	Path       string `json:"path"`
	SizeBytes  int64  `json:"sizeBytes"`
	FileCount  int64  `json:"fileCount,omitempty"`
	Tool       string `json:"tool"`
}

// folderSizeExecutor measures every configured target with the platform
// sizing tool. The tool is an external process, so the probe runs it under
// the probe context and treats a missing binary as a defined failure rather
// than a crash.
func folderSizeExecutor(cfg Config) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		records := make([]FolderSizeRecord, 0, len(cfg.FolderTargets))
		for _, target := range cfg.FolderTargets {
			rec, err := measureFolder(ctx, target)
			if err != nil {
				return nil, fmt.Errorf("measure %s: %w", target, err)
			}
			records = append(records, rec)
		}
		return records, nil
	}
}

// folderSizePrecondition declines the probe when there is nothing to measure
// or the sizing tool is not installed.
func folderSizePrecondition(cfg Config) (bool, string) {
	if len(cfg.FolderTargets) == 0 {
		return false, "no folder targets configured"
	}
	if _, err := exec.LookPath(sizerTool); err != nil {
		return false, fmt.Sprintf("%s not available on PATH", sizerTool)
	}
	return true, ""
}
