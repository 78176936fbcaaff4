package poll

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stormpane/event"
)

// TimerDef describes a timer to register with a Timers source.
type TimerDef struct {
	// Interval between firings. Must be positive.
	Interval time.Duration

	// Count limits the number of firings; 0 means unlimited.
	Count int

	// Payload is delivered with every firing.
	Payload any
}

// Handle identifies a registered timer.
type Handle uint64

type timerEntry struct {
	handle  Handle
	def     TimerDef
	next    time.Time
	fired   int
	expired bool
}

// Timers fires registered timers as timer-fired events. Deadlines are
// drift-free: each firing advances the schedule by the interval from
// the previous deadline, not from the observed firing time. An overdue
// timer catches up one firing per poll rather than bursting.
type Timers struct {
	mu         sync.Mutex
	entries    []*timerEntry
	nextHandle Handle
}

// NewTimers creates an empty timers source.
func NewTimers() *Timers {
	return &Timers{}
}

// Add registers a timer and returns its handle. The first firing is
// one interval from now.
func (ts *Timers) Add(def TimerDef) (Handle, error) {
	if def.Interval <= 0 {
		return 0, ErrInvalidInterval
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.nextHandle++
	entry := &timerEntry{
		handle: ts.nextHandle,
		def:    def,
		next:   time.Now().Add(def.Interval),
	}
	ts.entries = append(ts.entries, entry)
	return entry.handle, nil
}

// Cancel removes a timer. Returns false if the handle is unknown or
// the timer already expired.
func (ts *Timers) Cancel(h Handle) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for i, entry := range ts.entries {
		if entry.handle == h {
			ts.entries = append(ts.entries[:i], ts.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the number of registered timers.
func (ts *Timers) Active() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.entries)
}

func (ts *Timers) Poll() (bool, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := time.Now()
	for _, entry := range ts.entries {
		if !entry.next.After(now) {
			return true, nil
		}
	}
	return false, nil
}

func (ts *Timers) Read() ([]tcell.Event, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := time.Now()
	var evs []tcell.Event

	for _, entry := range ts.entries {
		if entry.next.After(now) {
			continue
		}
		entry.fired++
		entry.next = entry.next.Add(entry.def.Interval)
		evs = append(evs, event.NewTimerFired(uint64(entry.handle), entry.fired, entry.def.Payload))

		if entry.def.Count > 0 && entry.fired >= entry.def.Count {
			entry.expired = true
		}
	}

	if len(evs) > 0 {
		ts.removeExpired()
	}
	return evs, nil
}

func (ts *Timers) removeExpired() {
	kept := ts.entries[:0]
	for _, entry := range ts.entries {
		if !entry.expired {
			kept = append(kept, entry)
		}
	}
	ts.entries = kept
}

func (ts *Timers) SleepTime() (time.Duration, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if len(ts.entries) == 0 {
		return 0, false
	}

	now := time.Now()
	var d time.Duration
	first := true
	for _, entry := range ts.entries {
		until := entry.next.Sub(now)
		if until < 0 {
			until = 0
		}
		if first || until < d {
			d = until
			first = false
		}
	}
	return d, true
}

func (ts *Timers) Close() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.entries = nil
	return nil
}
