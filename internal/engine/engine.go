// Package engine orchestrates endpoint fact probes: it registers independent
// probes, executes each under isolated failure handling with a bounded worker
// budget, normalizes their disparate outputs into a uniform envelope schema,
// and assembles the upload-ready report. No probe failure can abort a run;
// only orchestration invariant violations do.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// DefaultTimeout bounds probes that declare no timeout of their own.
const DefaultTimeout = 15 * time.Second

// Engine runs a populated registry and produces one Report per invocation.
// An Engine is safe for concurrent runs: each run owns its own report and
// worker budget.
type Engine struct {
	registry       *Registry
	maxConcurrency int64
	defaultTimeout time.Duration
	identity       HostIdentity
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxConcurrency bounds how many probes may execute at once. Values below
// one are ignored. One means strictly sequential execution.
func WithMaxConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrency = int64(n)
		}
	}
}

// WithDefaultTimeout overrides the timeout applied to probes that declare none.
func WithDefaultTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.defaultTimeout = d
		}
	}
}

// WithHostIdentity sets the machine identity stamped on every report.
func WithHostIdentity(h HostIdentity) Option {
	return func(e *Engine) {
		e.identity = h
	}
}

// New creates an Engine over a populated registry.
func New(registry *Registry, opts ...Option) *Engine {
	hostname, _ := os.Hostname()
	e := &Engine{
		registry:       registry,
		maxConcurrency: int64(runtime.NumCPU()),
		defaultTimeout: DefaultTimeout,
		identity:       HostIdentity{Hostname: hostname},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes every registered probe exactly once and returns the finalized
// report. Probe failures, timeouts, and panics are recorded as envelope data;
// the only error Run returns is an orchestration invariant violation. A
// cancelled run still finalizes, with unstarted probes recorded as skipped.
func (e *Engine) Run(ctx context.Context) (*Report, error) {
	startedAt := time.Now()
	descriptors := e.registry.All()
	agg := newAggregator(descriptors)
	sem := semaphore.NewWeighted(e.maxConcurrency)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		aggErr error
	)
	record := func(env Envelope) {
		mu.Lock()
		defer mu.Unlock()
		if err := agg.add(env); err != nil && aggErr == nil {
			aggErr = err
		}
	}

	for _, d := range descriptors {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Run cancelled before this probe started.
			record(normalize(rawResult{
				probeID:    d.ID,
				status:     StatusSkipped,
				diagnostic: "run cancelled",
			}))
			continue
		}
		wg.Add(1)
		go func(d Descriptor) {
			defer wg.Done()
			defer sem.Release(1)
			record(normalize(e.execute(ctx, d)))
		}(d)
	}
	wg.Wait()

	if aggErr != nil {
		return nil, fmt.Errorf("orchestration invariant violated: %w", aggErr)
	}
	return agg.finalize(uuid.NewString(), e.identity, startedAt)
}

// execute runs one probe under its bounded-time scope. Every outcome,
// including a panic inside the executor, becomes a rawResult.
func (e *Engine) execute(ctx context.Context, d Descriptor) rawResult {
	if ctx.Err() != nil {
		return rawResult{probeID: d.ID, status: StatusSkipped, diagnostic: "run cancelled"}
	}

	if d.Precondition != nil {
		if ok, reason := d.Precondition(); !ok {
			if reason == "" {
				reason = "precondition not met"
			}
			return rawResult{probeID: d.ID, status: StatusSkipped, diagnostic: reason}
		}
	}

	exec := e.registry.executor(d.ID)
	if exec == nil {
		return rawResult{probeID: d.ID, status: StatusFailed, diagnostic: "no executor registered"}
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		payload any
		err     error
	}
	// Buffered so a late executor return after timeout does not leak the
	// goroutine. The underlying query may keep running until it notices
	// the cancelled context.
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("probe panicked: %v", r)}
			}
		}()
		payload, err := exec(probeCtx)
		done <- outcome{payload: payload, err: err}
	}()

	select {
	case out := <-done:
		duration := time.Since(start)
		if out.err != nil {
			if errors.Is(out.err, context.DeadlineExceeded) && probeCtx.Err() == context.DeadlineExceeded {
				return rawResult{
					probeID:    d.ID,
					status:     StatusTimedOut,
					diagnostic: fmt.Sprintf("exceeded %s", timeout),
					duration:   duration,
				}
			}
			return rawResult{
				probeID:    d.ID,
				status:     StatusFailed,
				diagnostic: out.err.Error(),
				duration:   duration,
			}
		}
		return rawResult{probeID: d.ID, status: StatusSuccess, payload: out.payload, duration: duration}

	case <-probeCtx.Done():
		duration := time.Since(start)
		if errors.Is(probeCtx.Err(), context.DeadlineExceeded) {
			return rawResult{
				probeID:    d.ID,
				status:     StatusTimedOut,
				diagnostic: fmt.Sprintf("exceeded %s", timeout),
				duration:   duration,
			}
		}
		// Run cancelled while in flight: stop waiting and record the outcome.
		return rawResult{
			probeID:    d.ID,
			status:     StatusFailed,
			diagnostic: "run cancelled while in flight",
			duration:   duration,
		}
	}
}
