//go:build !windows

package resolver

import "context"

// New returns a Resolver that never resolves. Callers degrade to the raw
// identifier through ResolveOrRaw.
func New() Resolver {
	return Func(func(_ context.Context, _ string) (string, error) {
		return "", ErrNotFound
	})
}
