// Package probes contains the leaf-level fact gatherers registered with the
// engine: firmware, drivers, batteries, displays, security posture, logon
// activity, installed features, docking hardware, and folder sizing. Each
// probe queries exactly one data source and stays independent of the others;
// the engine owns isolation, timeouts, and aggregation.
package probes

import (
	"os"
	"time"
)

// Config selects what the platform probe set collects.
type Config struct {
	// FolderTargets lists directories whose sizes the foldersize probe
	// measures with the external sizing tool.
	FolderTargets []string

	// VendorAgentPath, when set, gates the dock probe on the vendor
	// management agent being installed at this path.
	VendorAgentPath string

	// FolderSizeTimeout bounds the external sizing tool. Directory walks can
	// legitimately take far longer than a WMI query.
	FolderSizeTimeout time.Duration
}

func (c Config) folderSizeTimeout() time.Duration {
	if c.FolderSizeTimeout > 0 {
		return c.FolderSizeTimeout
	}
	return 2 * time.Minute
}

// BIOSRecord holds firmware identity for the host.
type BIOSRecord struct {
	Manufacturer string `json:"manufacturer"`
	Name         string `json:"name,omitempty"`
	Version      string `json:"version"`
	SerialNumber string `json:"serialNumber"`
	ReleaseDate  string `json:"releaseDate,omitempty"`
}

// fileExists is the precondition primitive for vendor-agent gates.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
