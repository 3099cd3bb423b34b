//go:build !windows

package winsvc

import "errors"

var errUnsupported = errors.New("windows services are not supported on this platform")

// InService always reports false off Windows.
func InService() bool { return false }

// RedirectLogToEventLog is a no-op off Windows.
func RedirectLogToEventLog(string) {}

// Run is unsupported off Windows.
func Run(string, RunFunc) error { return errUnsupported }

// Install is unsupported off Windows.
func Install(InstallOptions) error { return errUnsupported }

// Uninstall is unsupported off Windows.
func Uninstall(string) error { return errUnsupported }
