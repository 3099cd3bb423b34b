//go:build windows

package probes

import (
	"context"
	"strings"
	"time"

	"github.com/yusufpapurcu/wmi"

	"github.com/danzirulez/LogAnalyticsCollector/internal/resolver"
)

type win32UserProfile struct {
	SID         string
	LocalPath   string
	LastUseTime *time.Time
	Special     bool
	Loaded      bool
}

// LogonRecord describes one user profile on the host.
type LogonRecord struct {
	SID         string `json:"sid"`
	Account     string `json:"account"`
	ProfilePath string `json:"profilePath,omitempty"`
	LastUsed    string `json:"lastUsed,omitempty"`
	LoggedOn    bool   `json:"loggedOn"`
}

// logonsExecutor lists non-system user profiles from Win32_UserProfile.
// Account names come from the directory resolver; a failed lookup degrades to
// the raw SID, never to a probe failure.
func logonsExecutor(res resolver.Resolver) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		var rows []win32UserProfile
		q := "SELECT SID, LocalPath, LastUseTime, Special, Loaded FROM Win32_UserProfile"
		if err := wmi.Query(q, &rows); err != nil {
			return nil, err
		}

		records := make([]LogonRecord, 0, len(rows))
		for _, p := range rows {
			if p.Special {
				continue
			}
			rec := LogonRecord{
				SID:         p.SID,
				Account:     resolver.ResolveOrRaw(ctx, res, p.SID),
				ProfilePath: strings.TrimSpace(p.LocalPath),
				LoggedOn:    p.Loaded,
			}
			if p.LastUseTime != nil {
				rec.LastUsed = p.LastUseTime.UTC().Format(time.RFC3339)
			}
			records = append(records, rec)
		}
		return records, nil
	}
}
