// Package winsvc integrates the agent and collector daemons with the
// Windows Service Control Manager. On other platforms every entry point is a
// stub so the CLI wiring stays platform-neutral.
package winsvc

import "context"

// RunFunc is the long-running body of a service. The context is cancelled
// when the SCM requests a stop.
type RunFunc func(ctx context.Context) error

// InstallOptions describes a service registration.
type InstallOptions struct {
	Name        string
	DisplayName string
	Description string
	ExePath     string
	Args        []string
}
