//go:build windows

package probes

import (
	"context"

	"github.com/yusufpapurcu/wmi"
)

type wmiMonitorID struct {
	ManufacturerName  []uint16
	UserFriendlyName  []uint16
	SerialNumberID    []uint16
	YearOfManufacture uint16
}

// displaysExecutor queries WmiMonitorID in the root\wmi namespace and decodes
// the EDID identification fields.
func displaysExecutor(_ context.Context) (any, error) {
	var rows []wmiMonitorID
	q := "SELECT ManufacturerName, UserFriendlyName, SerialNumberID, YearOfManufacture FROM WmiMonitorID"
	if err := wmi.QueryNamespace(q, &rows, `root\wmi`); err != nil {
		return nil, err
	}

	records := make([]DisplayRecord, len(rows))
	for i, m := range rows {
		code := decodeMonitorString(m.ManufacturerName)
		records[i] = DisplayRecord{
			Manufacturer:      vendorName(code),
			VendorCode:        code,
			Model:             decodeMonitorString(m.UserFriendlyName),
			SerialNumber:      decodeMonitorString(m.SerialNumberID),
			YearOfManufacture: int(m.YearOfManufacture),
		}
	}
	return records, nil
}
