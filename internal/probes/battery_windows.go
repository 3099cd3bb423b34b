//go:build windows

package probes

import (
	"context"
	"strings"

	"github.com/yusufpapurcu/wmi"
)

type win32Battery struct {
	Name                     string
	DeviceID                 string
	BatteryStatus            uint16
	EstimatedChargeRemaining uint16
	DesignCapacity           uint32
	FullChargeCapacity       uint32
}

// BatteryRecord describes one battery pack. Desktops report none, which is
// valid data rather than a failure.
type BatteryRecord struct {
	Name               string `json:"name"`
	DeviceID           string `json:"deviceId"`
	Status             string `json:"status"`
	ChargePercent      uint16 `json:"chargePercent"`
	DesignCapacity     uint32 `json:"designCapacity,omitempty"`
	FullChargeCapacity uint32 `json:"fullChargeCapacity,omitempty"`
	HealthPercent      uint32 `json:"healthPercent,omitempty"`
}

// batteryStatusNames translates Win32_Battery.BatteryStatus codes.
var batteryStatusNames = map[uint16]string{
	1:  "discharging",
	2:  "on ac",
	3:  "fully charged",
	4:  "low",
	5:  "critical",
	6:  "charging",
	7:  "charging high",
	8:  "charging low",
	9:  "charging critical",
	10: "undefined",
	11: "partially charged",
}

// batteryExecutor queries Win32_Battery.
func batteryExecutor(_ context.Context) (any, error) {
	var rows []win32Battery
	q := "SELECT Name, DeviceID, BatteryStatus, EstimatedChargeRemaining, DesignCapacity, FullChargeCapacity FROM Win32_Battery"
	if err := wmi.Query(q, &rows); err != nil {
		return nil, err
	}

	records := make([]BatteryRecord, len(rows))
	for i, b := range rows {
		status := batteryStatusNames[b.BatteryStatus]
		if status == "" {
			status = "unknown"
		}
		rec := BatteryRecord{
			Name:               strings.TrimSpace(b.Name),
			DeviceID:           strings.TrimSpace(b.DeviceID),
			Status:             status,
			ChargePercent:      b.EstimatedChargeRemaining,
			DesignCapacity:     b.DesignCapacity,
			FullChargeCapacity: b.FullChargeCapacity,
		}
		if b.DesignCapacity > 0 && b.FullChargeCapacity > 0 {
			rec.HealthPercent = b.FullChargeCapacity * 100 / b.DesignCapacity
		}
		records[i] = rec
	}
	return records, nil
}
