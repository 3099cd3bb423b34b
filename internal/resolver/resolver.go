// Package resolver provides directory account-name resolution with a
// guaranteed degradation path: a lookup that fails for any reason yields the
// raw identifier instead of an error the caller has to handle.
package resolver

import (
	"context"
	"errors"
)

// ErrNotFound reports that the directory has no name for the identifier.
var ErrNotFound = errors.New("account not found")

// Resolver maps a stable identifier (a SID on Windows) to a display name.
type Resolver interface {
	Resolve(ctx context.Context, id string) (string, error)
}

// Func adapts a plain function to the Resolver interface.
type Func func(ctx context.Context, id string) (string, error)

func (f Func) Resolve(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}

// ResolveOrRaw resolves id through r, degrading to the raw identifier when r
// is nil, the lookup fails, or the directory has no match. It never returns
// an empty string for a non-empty id.
func ResolveOrRaw(ctx context.Context, r Resolver, id string) string {
	if r == nil {
		return id
	}
	name, err := r.Resolve(ctx, id)
	if err != nil || name == "" {
		return id
	}
	return name
}
