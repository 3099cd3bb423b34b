package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Precondition reports whether a probe is runnable on this host. When it
// returns false, the reason is recorded as the skip diagnostic and the
// executor is never invoked.
type Precondition func() (ok bool, reason string)

// Executor is the unit of work behind a registered probe. It queries one data
// source and returns a serialization-safe payload, or an error describing why
// the query failed. Executors must honor ctx cancellation and deadlines.
type Executor func(ctx context.Context) (any, error)

// Descriptor identifies a registered probe. Descriptors are created when the
// registry is populated at startup and are immutable afterwards.
type Descriptor struct {
	// ID is the stable key under which the probe's envelope appears in the
	// report. Unique within a registry.
	ID string

	// Precondition, when non-nil, is evaluated before each execution.
	Precondition Precondition

	// Timeout bounds a single execution. Zero means the engine default.
	Timeout time.Duration
}

// DuplicateProbeError is returned when a probe id is registered twice.
type DuplicateProbeError struct {
	ID string
}

func (e *DuplicateProbeError) Error() string {
	return fmt.Sprintf("probe %q already registered", e.ID)
}

// Registry is an append-only, ordered set of probes. It holds no execution
// state: populate it once at startup, then share it read-only across runs.
type Registry struct {
	order     []Descriptor
	executors map[string]Executor
}

func NewRegistry() *Registry {
	return &Registry{executors: make(map[string]Executor)}
}

// Register appends a probe. Registration order determines the order of the
// report's results member.
func (r *Registry) Register(d Descriptor, exec Executor) error {
	if d.ID == "" {
		return errors.New("probe id is required")
	}
	if exec == nil {
		return fmt.Errorf("probe %q: executor is required", d.ID)
	}
	if _, ok := r.executors[d.ID]; ok {
		return &DuplicateProbeError{ID: d.ID}
	}
	r.order = append(r.order, d)
	r.executors[d.ID] = exec
	return nil
}

// All returns the registered descriptors in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered probes.
func (r *Registry) Len() int { return len(r.order) }

func (r *Registry) executor(id string) Executor {
	return r.executors[id]
}
