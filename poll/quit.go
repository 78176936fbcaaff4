package poll

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stormpane/event"
)

// Quit observes an external quit request: an OS signal, a window close
// or any other collaborator calling Signal. Each signal is delivered
// as one quit event; further signals while one is pending coalesce.
type Quit struct {
	mu      sync.Mutex
	pending bool
	waker   Waker
}

// NewQuit creates a quit source.
func NewQuit() *Quit {
	return &Quit{}
}

// Signal requests termination. Safe to call from any goroutine.
func (q *Quit) Signal() {
	q.mu.Lock()
	q.pending = true
	w := q.waker
	q.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}

func (q *Quit) Poll() (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending, nil
}

func (q *Quit) Read() ([]tcell.Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.pending {
		return nil, nil
	}
	q.pending = false
	return []tcell.Event{event.NewQuit()}, nil
}

func (q *Quit) SleepTime() (time.Duration, bool) {
	return 0, false
}

func (q *Quit) Close() error {
	return nil
}

// SetWaker wires the loop's waker so Signal wakes a sleeping loop.
func (q *Quit) SetWaker(w Waker) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.waker = w
}

// QuitCapable marks Quit as a terminating source.
func (q *Quit) QuitCapable() bool {
	return true
}
