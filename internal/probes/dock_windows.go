//go:build windows

package probes

import (
	"context"
	"strings"

	"github.com/yusufpapurcu/wmi"
)

type win32SystemEnclosure struct {
	ChassisTypes []uint16
	Manufacturer string
	SerialNumber string
}

type win32PnPEntityDock struct {
	Name     string
	DeviceID string
	Status   string
}

// SMBIOS chassis type for a docking station.
const chassisDockingStation = 12

// DockRecord describes docking hardware attached to the host.
type DockRecord struct {
	Docked       bool     `json:"docked"`
	ChassisTypes []uint16 `json:"chassisTypes,omitempty"`
	Devices      []string `json:"devices,omitempty"`
}

// dockExecutor detects docking hardware from the system enclosure chassis
// types and dock-class PnP devices.
func dockExecutor(_ context.Context) (any, error) {
	var enclosures []win32SystemEnclosure
	if err := wmi.Query("SELECT ChassisTypes, Manufacturer, SerialNumber FROM Win32_SystemEnclosure", &enclosures); err != nil {
		return nil, err
	}

	rec := DockRecord{}
	for _, enc := range enclosures {
		rec.ChassisTypes = append(rec.ChassisTypes, enc.ChassisTypes...)
		for _, ct := range enc.ChassisTypes {
			if ct == chassisDockingStation {
				rec.Docked = true
			}
		}
	}

	var devices []win32PnPEntityDock
	q := "SELECT Name, DeviceID, Status FROM Win32_PnPEntity WHERE Name LIKE '%dock%'"
	if err := wmi.Query(q, &devices); err == nil {
		for _, d := range devices {
			name := strings.TrimSpace(d.Name)
			if name == "" {
				continue
			}
			rec.Devices = append(rec.Devices, name)
			if strings.EqualFold(d.Status, "OK") {
				rec.Docked = true
			}
		}
	}

	return rec, nil
}
