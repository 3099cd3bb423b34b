package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/danzirulez/LogAnalyticsCollector/internal/codec"
)

// Orchestration invariant violations. These indicate a bug in the engine
// itself, not a runtime condition of the host, and abort the run.
var (
	ErrDuplicateEnvelope = errors.New("duplicate envelope for probe")
	ErrUnknownProbe      = errors.New("envelope for unregistered probe")
	ErrIncompleteRun     = errors.New("run finalized with missing envelopes")
	ErrRunFinalized      = errors.New("run already finalized")
)

// HostIdentity names the machine a report was collected on. Captured once per
// run.
type HostIdentity struct {
	Hostname string `json:"hostname"`
	Domain   string `json:"domain,omitempty"`
	User     string `json:"user,omitempty"`
}

// Summary holds per-status envelope counts so a caller can judge whether the
// data is trustworthy without iterating all envelopes.
type Summary struct {
	Success  int `json:"success"`
	Skipped  int `json:"skip"`
	Failed   int `json:"fail"`
	TimedOut int `json:"timeout"`
}

// Report is the aggregated, upload-ready result of one full collection run.
// Immutable once returned by the engine.
type Report struct {
	RunID       string        `json:"runId"`
	Host        HostIdentity  `json:"hostIdentity"`
	CollectedAt time.Time     `json:"collectedAt"`
	DurationMs  int64         `json:"durationMs"`
	Summary     Summary       `json:"summary"`
	Results     *codec.Object `json:"results"`
}

// Envelope returns the envelope recorded for a probe id.
func (r *Report) Envelope(probeID string) (Envelope, bool) {
	v, ok := r.Results.Get(probeID)
	if !ok {
		return Envelope{}, false
	}
	env, ok := v.(Envelope)
	if !ok {
		return Envelope{}, false
	}
	return env, true
}

type runState int

const (
	stateInitialized runState = iota
	stateCollecting
	stateFinalized
)

// aggregator fans envelopes into a report, enforcing the one-envelope-per-
// probe completeness guarantee. Callers serialize access; each envelope is
// handed over by exactly one coordinator worker.
type aggregator struct {
	expected []string
	seen     map[string]Envelope
	state    runState
}

func newAggregator(descriptors []Descriptor) *aggregator {
	expected := make([]string, len(descriptors))
	for i, d := range descriptors {
		expected[i] = d.ID
	}
	return &aggregator{
		expected: expected,
		seen:     make(map[string]Envelope, len(expected)),
	}
}

func (a *aggregator) add(env Envelope) error {
	if a.state == stateFinalized {
		return fmt.Errorf("%w: cannot add envelope for %q", ErrRunFinalized, env.ProbeID)
	}
	a.state = stateCollecting

	known := false
	for _, id := range a.expected {
		if id == env.ProbeID {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q", ErrUnknownProbe, env.ProbeID)
	}
	if _, dup := a.seen[env.ProbeID]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateEnvelope, env.ProbeID)
	}
	a.seen[env.ProbeID] = env
	return nil
}

// finalize seals the run and builds the immutable report. Results are keyed
// by probe id in registration order.
func (a *aggregator) finalize(runID string, host HostIdentity, startedAt time.Time) (*Report, error) {
	if a.state == stateFinalized {
		return nil, ErrRunFinalized
	}
	if len(a.seen) != len(a.expected) {
		var missing []string
		for _, id := range a.expected {
			if _, ok := a.seen[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrIncompleteRun, missing)
	}
	a.state = stateFinalized

	results := codec.NewObject()
	var summary Summary
	for _, id := range a.expected {
		env := a.seen[id]
		results.Set(id, env)
		switch env.Status {
		case StatusSuccess:
			summary.Success++
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
		case StatusTimedOut:
			summary.TimedOut++
		}
	}

	return &Report{
		RunID:       runID,
		Host:        host,
		CollectedAt: startedAt.UTC(),
		DurationMs:  time.Since(startedAt).Milliseconds(),
		Summary:     summary,
		Results:     results,
	}, nil
}
