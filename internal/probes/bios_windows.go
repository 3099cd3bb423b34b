//go:build windows

package probes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yusufpapurcu/wmi"
)

type win32BIOS struct {
	Manufacturer      string
	Name              string
	SMBIOSBIOSVersion string
	SerialNumber      string
	ReleaseDate       *time.Time
}

// biosExecutor queries Win32_BIOS.
func biosExecutor(_ context.Context) (any, error) {
	var rows []win32BIOS
	q := "SELECT Manufacturer, Name, SMBIOSBIOSVersion, SerialNumber, ReleaseDate FROM Win32_BIOS"
	if err := wmi.Query(q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("Win32_BIOS returned no rows")
	}

	b := rows[0]
	rec := BIOSRecord{
		Manufacturer: strings.TrimSpace(b.Manufacturer),
		Name:         strings.TrimSpace(b.Name),
		Version:      strings.TrimSpace(b.SMBIOSBIOSVersion),
		SerialNumber: strings.TrimSpace(b.SerialNumber),
	}
	if b.ReleaseDate != nil {
		rec.ReleaseDate = b.ReleaseDate.UTC().Format("2006-01-02")
	}
	return rec, nil
}
