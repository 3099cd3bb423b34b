//go:build windows

package probes

import (
	"context"
	"strings"

	"github.com/yusufpapurcu/wmi"
)

type win32OptionalFeature struct {
	Name         string
	Caption      string
	InstallState uint32
}

const featureInstalled = 1

// FeatureRecord describes one enabled optional OS feature.
type FeatureRecord struct {
	Name    string `json:"name"`
	Caption string `json:"caption,omitempty"`
}

// featuresExecutor lists enabled optional features from Win32_OptionalFeature.
func featuresExecutor(_ context.Context) (any, error) {
	var rows []win32OptionalFeature
	q := "SELECT Name, Caption, InstallState FROM Win32_OptionalFeature"
	if err := wmi.Query(q, &rows); err != nil {
		return nil, err
	}

	records := make([]FeatureRecord, 0, len(rows))
	for _, f := range rows {
		if f.InstallState != featureInstalled {
			continue
		}
		records = append(records, FeatureRecord{
			Name:    strings.TrimSpace(f.Name),
			Caption: strings.TrimSpace(f.Caption),
		})
	}
	return records, nil
}
