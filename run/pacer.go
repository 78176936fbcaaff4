package run

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stormpane/event"
)

// frameInterval is the steady redraw cadence. Explicit redraw
// requests coalesce onto it rather than forcing extra frames.
const frameInterval = time.Second / 60

// pacer schedules redraw and blink events. Owned by the loop
// goroutine, no locking. Redraws fire on a fixed cadence or when one
// was requested; blink toggles alternate strictly at the configured
// interval. Both may fire in the same iteration.
type pacer struct {
	redrawEvery time.Duration
	blinkEvery  time.Duration
	lastRedraw  time.Time
	lastBlink   time.Time
	pending     bool
	phase       bool
}

func newPacer(blink time.Duration) *pacer {
	return &pacer{
		redrawEvery: frameInterval,
		blinkEvery:  blink,
		phase:       true,
	}
}

func (p *pacer) start(now time.Time) {
	p.lastRedraw = now
	p.lastBlink = now
}

func (p *pacer) requestRedraw() {
	p.pending = true
}

// deadline returns the next instant the pacer needs to run.
func (p *pacer) deadline(now time.Time) time.Time {
	next := p.lastRedraw.Add(p.redrawEvery)
	if b := p.lastBlink.Add(p.blinkEvery); b.Before(next) {
		next = b
	}
	return next
}

// collect emits the pacer events due at now: at most one redraw
// request and at most one blink toggle.
func (p *pacer) collect(now time.Time) []tcell.Event {
	var evs []tcell.Event

	if p.pending || !now.Before(p.lastRedraw.Add(p.redrawEvery)) {
		evs = append(evs, event.NewRedrawRequest())
		p.lastRedraw = now
		p.pending = false
	}

	if !now.Before(p.lastBlink.Add(p.blinkEvery)) {
		p.phase = !p.phase
		// Advance by the interval to stay drift free; snap to now if
		// the loop stalled for more than a full interval.
		p.lastBlink = p.lastBlink.Add(p.blinkEvery)
		if now.Sub(p.lastBlink) >= p.blinkEvery {
			p.lastBlink = now
		}
		evs = append(evs, event.NewBlinkToggle(p.phase))
	}

	return evs
}

func (p *pacer) blinkState() (bool, time.Time) {
	return p.phase, p.lastBlink
}
