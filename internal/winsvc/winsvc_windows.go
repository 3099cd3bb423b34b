//go:build windows

package winsvc

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/eventlog"
	"golang.org/x/sys/windows/svc/mgr"
)

const stopGrace = 30 * time.Second

// InService reports whether the process was started by the SCM.
func InService() bool {
	ok, err := svc.IsWindowsService()
	return err == nil && ok
}

// RedirectLogToEventLog sends standard logger output to the named event log
// source. Failing to open the source leaves stderr logging in place. Event
// log entries carry their own timestamps, so log flags are cleared.
func RedirectLogToEventLog(source string) {
	elog, err := eventlog.Open(source)
	if err != nil {
		return
	}
	log.SetFlags(0)
	log.SetOutput(eventWriter{elog})
}

type eventWriter struct {
	elog *eventlog.Log
}

func (w eventWriter) Write(p []byte) (int, error) {
	if err := w.elog.Info(1, string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Run executes fn as the named Windows service and blocks until it stops.
func Run(name string, fn RunFunc) error {
	return svc.Run(name, &handler{name: name, fn: fn})
}

type handler struct {
	name string
	fn   RunFunc
}

func (h *handler) Execute(_ []string, req <-chan svc.ChangeRequest, status chan<- svc.Status) (bool, uint32) {
	status <- svc.Status{State: svc.StartPending}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.fn(ctx) }()

	status <- svc.Status{State: svc.Running, Accepts: svc.AcceptStop | svc.AcceptShutdown}

	for {
		select {
		case err := <-done:
			status <- svc.Status{State: svc.StopPending}
			if err != nil {
				log.Printf("Service %s stopped with error: %v", h.name, err)
				return false, 1
			}
			return false, 0

		case cr := <-req:
			switch cr.Cmd {
			case svc.Interrogate:
				status <- cr.CurrentStatus
			case svc.Stop, svc.Shutdown:
				status <- svc.Status{State: svc.StopPending}
				cancel()
				select {
				case <-done:
				case <-time.After(stopGrace):
					log.Printf("Service %s: timed out waiting for graceful shutdown", h.name)
				}
				return false, 0
			}
		}
	}
}

// Install registers the service with the SCM, sets a restart-on-failure
// recovery policy and creates the matching event log source.
func Install(opts InstallOptions) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connect to SCM: %w", err)
	}
	defer m.Disconnect()

	if s, err := m.OpenService(opts.Name); err == nil {
		s.Close()
		return fmt.Errorf("service %s already exists", opts.Name)
	}

	s, err := m.CreateService(opts.Name, opts.ExePath, mgr.Config{
		DisplayName: opts.DisplayName,
		Description: opts.Description,
		StartType:   mgr.StartAutomatic,
	}, opts.Args...)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	defer s.Close()

	_ = s.SetRecoveryActions([]mgr.RecoveryAction{
		{Type: mgr.ServiceRestart, Delay: 10 * time.Second},
		{Type: mgr.ServiceRestart, Delay: 30 * time.Second},
		{Type: mgr.NoAction},
	}, 86400)

	if err := eventlog.InstallAsEventCreate(opts.Name, eventlog.Error|eventlog.Warning|eventlog.Info); err != nil {
		// Non-fatal: the service itself is installed.
		log.Printf("Warning: could not install event log source: %v", err)
	}

	return nil
}

// Uninstall stops and removes the named service and its event log source.
func Uninstall(name string) error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("connect to SCM: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return fmt.Errorf("open service %s: %w", name, err)
	}
	defer s.Close()

	if status, err := s.Query(); err == nil && status.State != svc.Stopped {
		_, _ = s.Control(svc.Stop)
		for range 10 {
			time.Sleep(500 * time.Millisecond)
			if status, err = s.Query(); err != nil || status.State == svc.Stopped {
				break
			}
		}
	}

	if err := s.Delete(); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}

	_ = eventlog.Remove(name)
	return nil
}
