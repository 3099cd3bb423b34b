//go:build !windows

package probes

import (
	"context"
	"strings"

	"github.com/siderolabs/go-smbios/smbios"
)

// biosExecutor reads firmware identity from the SMBIOS tables. Non-Windows
// hosts have no WMI, but the same facts live in DMI.
func biosExecutor(_ context.Context) (any, error) {
	s, err := smbios.New()
	if err != nil {
		return nil, err
	}

	return BIOSRecord{
		Manufacturer: strings.TrimSpace(s.BIOSInformation.Vendor),
		Version:      strings.TrimSpace(s.BIOSInformation.Version),
		SerialNumber: strings.TrimSpace(s.SystemInformation.SerialNumber),
		ReleaseDate:  strings.TrimSpace(s.BIOSInformation.ReleaseDate),
	}, nil
}
