package window

import "sync"

// Host is the windowing collaborator: it delivers the native event
// stream and accepts the few window mutations the run loop applies
// (currently the title). Implementations must keep Events open until
// Close; the run loop drains it without blocking.
type Host interface {
	// Events returns the native event stream. The channel is owned by
	// the host and is never closed before Close returns.
	Events() <-chan Event

	// SetTitle updates the window title.
	SetTitle(title string)

	// Close releases the window. Events posted after Close are dropped.
	Close() error
}

// NullHost is an in-memory Host for tests and headless runs. Events
// are posted explicitly and buffered; posting to a full buffer drops
// the event rather than blocking the producer.
type NullHost struct {
	mu     sync.Mutex
	events chan Event
	title  string
	closed bool
}

// NewNullHost creates a null host with the given event buffer size.
func NewNullHost(buffer int) *NullHost {
	if buffer <= 0 {
		buffer = 64
	}
	return &NullHost{
		events: make(chan Event, buffer),
	}
}

// Post delivers a native event to the host's stream. Returns false if
// the event was dropped (buffer full or host closed).
func (h *NullHost) Post(ev Event) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	select {
	case h.events <- ev:
		return true
	default:
		return false
	}
}

func (h *NullHost) Events() <-chan Event {
	return h.events
}

func (h *NullHost) SetTitle(title string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.title = title
}

// Title returns the last title set through SetTitle.
func (h *NullHost) Title() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.title
}

func (h *NullHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}
