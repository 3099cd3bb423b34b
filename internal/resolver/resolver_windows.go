//go:build windows

package resolver

import (
	"context"
	"fmt"

	"golang.org/x/sys/windows"
)

// New returns a Resolver backed by the local security authority's SID lookup,
// which consults the domain controller for domain accounts.
func New() Resolver {
	return Func(func(_ context.Context, id string) (string, error) {
		sid, err := windows.StringToSid(id)
		if err != nil {
			return "", fmt.Errorf("%w: invalid sid %q", ErrNotFound, id)
		}
		account, domain, _, err := sid.LookupAccount("")
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		if domain != "" {
			return domain + `\` + account, nil
		}
		return account, nil
	})
}
