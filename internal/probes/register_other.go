//go:build !windows

package probes

import (
	"fmt"
	"time"

	"github.com/danzirulez/LogAnalyticsCollector/internal/engine"
	"github.com/danzirulez/LogAnalyticsCollector/internal/resolver"
)

// RegisterAll populates the registry with the reduced non-Windows probe set:
// firmware facts from SMBIOS and folder sizing. The WMI-backed probes exist
// only on Windows hosts.
func RegisterAll(reg *engine.Registry, cfg Config, _ resolver.Resolver) error {
	entries := []struct {
		descriptor engine.Descriptor
		executor   engine.Executor
	}{
		{engine.Descriptor{ID: "bios", Timeout: 10 * time.Second}, biosExecutor},
		{
			engine.Descriptor{
				ID:      "foldersize",
				Timeout: cfg.folderSizeTimeout(),
				Precondition: func() (bool, string) {
					return folderSizePrecondition(cfg)
				},
			},
			folderSizeExecutor(cfg),
		},
	}

	for _, e := range entries {
		if err := reg.Register(e.descriptor, e.executor); err != nil {
			return fmt.Errorf("register probe set: %w", err)
		}
	}
	return nil
}
