// Package daemon runs the agent's scheduled collect-and-upload loop.
package daemon

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/danzirulez/LogAnalyticsCollector/internal/engine"
)

const (
	baseBackoff = 1 * time.Second
	maxBackoff  = 2 * time.Minute
)

// SendFunc uploads one finished report and returns the assigned record id.
type SendFunc func(ctx context.Context, report *engine.Report) (int64, error)

// Daemon periodically runs the engine and uploads the report. Each tick is a
// fresh run; nothing is shared between runs.
type Daemon struct {
	engine   *engine.Engine
	send     SendFunc
	interval time.Duration
}

// New creates a Daemon collecting every interval.
func New(eng *engine.Engine, send SendFunc, interval time.Duration) *Daemon {
	return &Daemon{engine: eng, send: send, interval: interval}
}

// Run performs an initial collect-and-upload, then loops until the context is
// cancelled. Upload failures back off exponentially instead of waiting the
// full interval, so a transient endpoint outage does not cost a whole cycle.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.collectAndSend(ctx); err != nil {
		return fmt.Errorf("initial report submit: %w", err)
	}
	log.Println("Initial report submitted; entering daemon mode")

	attempt := 0
	for {
		wait := d.interval
		if attempt > 0 {
			wait = calcBackoff(attempt)
			log.Printf("Upload failing (attempt %d); retrying in %s", attempt, wait)
		}

		select {
		case <-ctx.Done():
			log.Println("Daemon shutting down")
			return nil
		case <-time.After(wait):
		}

		if err := d.collectAndSend(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			attempt++
			log.Printf("Collection cycle failed: %v", err)
			continue
		}
		attempt = 0
	}
}

func (d *Daemon) collectAndSend(ctx context.Context) error {
	report, err := d.engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	log.Printf("Run %s complete: %d ok, %d skipped, %d failed, %d timed out",
		report.RunID, report.Summary.Success, report.Summary.Skipped,
		report.Summary.Failed, report.Summary.TimedOut)

	id, err := d.send(ctx, report)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	log.Printf("Report stored as record %d", id)
	return nil
}

func calcBackoff(attempt int) time.Duration {
	d := baseBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}
