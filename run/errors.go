package run

import (
	"errors"
	"fmt"
)

// Run loop errors.
var (
	// ErrQuit signals that the application wants to exit normally. An
	// event handler may return it instead of the Quit control.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the loop is already running.
	ErrAlreadyRunning = errors.New("run loop already running")

	// ErrStopped indicates the loop already ran to completion. A Loop
	// cannot be restarted; build a new one.
	ErrStopped = errors.New("run loop already stopped")

	// ErrNoTasks indicates no Tasks source was registered.
	ErrNoTasks = errors.New("no tasks source configured")

	// ErrNoTimers indicates no Timers source was registered.
	ErrNoTimers = errors.New("no timers source configured")
)

// ConfigError reports the first invalid builder field, in call order.
// A ConfigError is fatal to startup; the window never appears.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// InitError reports a component that failed to initialize.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initialize %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// SourceError reports a poll source failure. Non-fatal failures reach
// the application as an event; a fatal-kind source's failure becomes
// the loop's exit error wrapped in this type.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("poll source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
