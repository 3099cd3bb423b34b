package engine

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// maxDiagnosticLen bounds stored diagnostics so a misbehaving probe cannot
// bloat the report with a multi-megabyte error string.
const maxDiagnosticLen = 512

// rawResult is the coordinator's view of one finished probe execution, before
// normalization.
type rawResult struct {
	probeID    string
	status     Status
	payload    any
	diagnostic string
	duration   time.Duration
}

// Envelope is the normalized, serialization-safe wrapper stored in the report
// for one probe. Exactly one envelope exists per registered probe per run.
type Envelope struct {
	ProbeID    string          `json:"-"`
	Status     Status          `json:"status"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	NoData     bool            `json:"noData,omitempty"`
	Diagnostic string          `json:"diagnostic,omitempty"`
	DurationMs int64           `json:"durationMs"`
}

// normalize converts a raw outcome into an Envelope, enforcing the payload
// and diagnostic invariants regardless of what the probe produced.
func normalize(raw rawResult) Envelope {
	env := Envelope{
		ProbeID:    raw.probeID,
		Status:     raw.status,
		DurationMs: raw.duration.Milliseconds(),
	}

	if raw.status != StatusSuccess {
		env.Diagnostic = sanitizeDiagnostic(raw.diagnostic)
		if env.Diagnostic == "" {
			env.Diagnostic = raw.status.String()
		}
		return env
	}

	payload, err := json.Marshal(raw.payload)
	if err != nil {
		// The seam where undisciplined probe outputs are caught: anything that
		// cannot round-trip through JSON never reaches the report.
		env.Status = StatusFailed
		env.Diagnostic = sanitizeDiagnostic(fmt.Sprintf("payload rejected: %v", err))
		return env
	}

	if isEmptyJSON(payload) {
		// Zero rows is valid data (e.g. no non-Microsoft drivers installed),
		// distinguishable from failure by the explicit marker.
		env.NoData = true
		return env
	}

	env.Payload = payload
	return env
}

func isEmptyJSON(data []byte) bool {
	switch strings.TrimSpace(string(data)) {
	case "null", "[]", "{}", `""`:
		return true
	}
	return false
}

// sanitizeDiagnostic strips embedded control characters and truncates the
// result so diagnostics are safe to store and display.
func sanitizeDiagnostic(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > maxDiagnosticLen {
		cleaned = cleaned[:maxDiagnosticLen] + "..."
	}
	return cleaned
}
