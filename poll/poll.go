// Package poll defines the event sources the run loop multiplexes.
// Each source produces zero or more terminal events per loop
// iteration; the loop queries every registered source exactly once per
// iteration, in registration order.
package poll

import (
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Source errors.
var (
	// ErrQueueFull indicates the task queue is at capacity.
	ErrQueueFull = errors.New("task queue full")

	// ErrNotRunning indicates the source has been closed.
	ErrNotRunning = errors.New("source not running")

	// ErrShutdownTimeout indicates workers did not stop in time.
	ErrShutdownTimeout = errors.New("shutdown timed out")

	// ErrInvalidInterval indicates a non-positive timer interval.
	ErrInvalidInterval = errors.New("timer interval must be positive")
)

// Source is one unit of event production owned by the run loop.
// Implementations are polled from the loop goroutine only; methods
// that accept work from other goroutines must synchronize internally.
type Source interface {
	// Poll reports whether events are ready, without blocking.
	Poll() (bool, error)

	// Read drains ready events in arrival order.
	Read() ([]tcell.Event, error)

	// SleepTime returns how long the loop may sleep before this
	// source next needs attention; ok is false when the source has no
	// deadline of its own.
	SleepTime() (d time.Duration, ok bool)

	// Close releases the source at loop termination.
	Close() error
}

// Waker wakes the run loop before its computed deadline. The loop
// passes its waker to every source that implements WakeSetter.
type Waker interface {
	Wake()
}

// WakeSetter is implemented by sources that receive work from other
// goroutines and want the loop to notice without waiting out the
// current sleep.
type WakeSetter interface {
	SetWaker(w Waker)
}

// FatalSource marks a source whose poll failure must terminate the
// loop instead of being surfaced as an error event.
type FatalSource interface {
	Source
	FatalKind() bool
}

// QuitSource marks a source able to deliver quit events. A run config
// needs at least one, or a window feed, for the loop to ever exit
// cleanly.
type QuitSource interface {
	Source
	QuitCapable() bool
}
