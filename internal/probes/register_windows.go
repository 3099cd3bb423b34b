//go:build windows

package probes

import (
	"fmt"
	"time"

	"github.com/danzirulez/LogAnalyticsCollector/internal/engine"
	"github.com/danzirulez/LogAnalyticsCollector/internal/resolver"
)

// RegisterAll populates the registry with the Windows probe set. Registration
// order is the order probes appear in the report.
func RegisterAll(reg *engine.Registry, cfg Config, res resolver.Resolver) error {
	entries := []struct {
		descriptor engine.Descriptor
		executor   engine.Executor
	}{
		{engine.Descriptor{ID: "bios"}, biosExecutor},
		{engine.Descriptor{ID: "drivers", Timeout: 30 * time.Second}, driversExecutor},
		{engine.Descriptor{ID: "battery"}, batteryExecutor},
		{engine.Descriptor{ID: "displays"}, displaysExecutor},
		{engine.Descriptor{ID: "security"}, securityExecutor},
		{engine.Descriptor{ID: "logons"}, logonsExecutor(res)},
		{engine.Descriptor{ID: "features", Timeout: 30 * time.Second}, featuresExecutor},
		{
			engine.Descriptor{ID: "dock", Precondition: vendorAgentGate(cfg)},
			dockExecutor,
		},
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

// vendorAgentGate declines the dock probe when a vendor management agent is
// required but not installed. No configured path means no gate.
func vendorAgentGate(cfg Config) engine.Precondition {
	if cfg.VendorAgentPath == "" {
		return nil
	}
	return func() (bool, string) {
		if !fileExists(cfg.VendorAgentPath) {
			return false, fmt.Sprintf("vendor agent not installed at %s", cfg.VendorAgentPath)
		}
		return true, ""
	}
}
