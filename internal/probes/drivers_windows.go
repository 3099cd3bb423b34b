//go:build windows

package probes

import (
	"context"
	"strings"
	"time"

	"github.com/yusufpapurcu/wmi"
)

type win32PnPSignedDriver struct {
	DeviceName         string
	DriverProviderName string
	DriverVersion      string
	DriverDate         *time.Time
	DeviceClass        string
	IsSigned           bool
}

// DriverRecord describes one installed non-Microsoft driver.
type DriverRecord struct {
	DeviceName string `json:"deviceName"`
	Provider   string `json:"provider"`
	Version    string `json:"version"`
	Class      string `json:"class,omitempty"`
	Date       string `json:"date,omitempty"`
	Signed     bool   `json:"signed"`
}

// driversExecutor lists third-party signed drivers. A machine running only
// inbox Microsoft drivers legitimately yields zero rows.
func driversExecutor(_ context.Context) (any, error) {
	var rows []win32PnPSignedDriver
	q := "SELECT DeviceName, DriverProviderName, DriverVersion, DriverDate, DeviceClass, IsSigned FROM Win32_PnPSignedDriver"
	if err := wmi.Query(q, &rows); err != nil {
		return nil, err
	}

	records := make([]DriverRecord, 0, len(rows))
	for _, d := range rows {
		provider := strings.TrimSpace(d.DriverProviderName)
		if provider == "" || strings.EqualFold(provider, "Microsoft") {
			continue
		}
		rec := DriverRecord{
			DeviceName: strings.TrimSpace(d.DeviceName),
			Provider:   provider,
			Version:    strings.TrimSpace(d.DriverVersion),
			Class:      strings.TrimSpace(d.DeviceClass),
			Signed:     d.IsSigned,
		}
		if d.DriverDate != nil {
			rec.Date = d.DriverDate.UTC().Format("2006-01-02")
		}
		records = append(records, rec)
	}
	return records, nil
}
