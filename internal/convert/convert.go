// Package convert maps between the wire report and store records.
package convert

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/danzirulez/LogAnalyticsCollector/internal/engine"
	"github.com/danzirulez/LogAnalyticsCollector/internal/store"
)

// ReportToRecord converts a decoded report to a store record. The stored JSON
// is the re-serialized report, which preserves the registration-order results
// keys via the report's ordered results object.
func ReportToRecord(report *engine.Report) (*store.ReportRecord, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	collectedAt := report.CollectedAt
	if collectedAt.IsZero() {
		collectedAt = time.Now().UTC()
	}

	return &store.ReportRecord{
		Hostname:     report.Host.Hostname,
		Domain:       report.Host.Domain,
		RunID:        report.RunID,
		CollectedAt:  collectedAt,
		SuccessCount: report.Summary.Success,
		SkipCount:    report.Summary.Skipped,
		FailCount:    report.Summary.Failed,
		TimeoutCount: report.Summary.TimedOut,
		ReportJSON:   string(body),
	}, nil
}

// RecordToReport converts a store record back to a report value.
func RecordToReport(rec *store.ReportRecord) (*engine.Report, error) {
	var report engine.Report
	if err := json.Unmarshal([]byte(rec.ReportJSON), &report); err != nil {
		return nil, fmt.Errorf("unmarshal report JSON: %w", err)
	}
	return &report, nil
}

// Summary is the list-row wire shape: record metadata without the body.
type Summary struct {
	ID          int64          `json:"id"`
	Hostname    string         `json:"hostname"`
	Domain      string         `json:"domain,omitempty"`
	RunID       string         `json:"runId"`
	CollectedAt time.Time      `json:"collectedAt"`
	StoredAt    time.Time      `json:"storedAt"`
	Summary     engine.Summary `json:"summary"`
}

// RecordToSummary converts a store record to its list-row shape.
func RecordToSummary(rec *store.ReportRecord) Summary {
	return Summary{
		ID:          rec.ID,
		Hostname:    rec.Hostname,
		Domain:      rec.Domain,
		RunID:       rec.RunID,
		CollectedAt: rec.CollectedAt,
		StoredAt:    rec.StoredAt,
		Summary: engine.Summary{
			Success:  rec.SuccessCount,
			Skipped:  rec.SkipCount,
			Failed:   rec.FailCount,
			TimedOut: rec.TimeoutCount,
		},
	}
}
