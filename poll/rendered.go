package poll

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stormpane/event"
)

// Rendered reports presented frames back to the application. The run
// loop (or an asynchronous present callback) calls Notify after each
// frame; notifications between two polls coalesce into one event
// carrying the latest frame number.
type Rendered struct {
	mu      sync.Mutex
	frame   uint64
	pending bool
	waker   Waker
}

// NewRendered creates a rendered source.
func NewRendered() *Rendered {
	return &Rendered{}
}

// Notify records a presented frame. Safe to call from any goroutine.
func (r *Rendered) Notify(frame uint64) {
	r.mu.Lock()
	r.frame = frame
	r.pending = true
	w := r.waker
	r.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}

func (r *Rendered) Poll() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending, nil
}

func (r *Rendered) Read() ([]tcell.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.pending {
		return nil, nil
	}
	r.pending = false
	return []tcell.Event{event.NewFramePresented(r.frame)}, nil
}

func (r *Rendered) SleepTime() (time.Duration, bool) {
	return 0, false
}

func (r *Rendered) Close() error {
	return nil
}

// SetWaker wires the loop's waker for asynchronous present callbacks.
func (r *Rendered) SetWaker(w Waker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waker = w
}
