package run

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stormpane/grid"
	"github.com/dshills/stormpane/poll"
)

// MinFontSize is the smallest font size the loop will apply, in
// pixels. Requests below it are clamped.
const MinFontSize = 7.0

type cursorReq struct {
	col, row int
	visible  bool
}

// staged holds mutations requested by the application during a
// dispatch phase. They take effect at the start of the next one.
type staged struct {
	title  *string
	family *string
	size   *float64
	cursor *cursorReq
	events []tcell.Event
}

func (s *staged) empty() bool {
	return s.title == nil && s.family == nil && s.size == nil &&
		s.cursor == nil && len(s.events) == 0
}

// Context is the application's handle into the running loop. It is
// passed to every App callback and is only valid on the loop
// goroutine; reads are immediate, mutations are staged and applied at
// the start of the next dispatch phase. Spawn is the one exception:
// the task itself runs on a worker, but the call is still made from a
// callback.
type Context struct {
	loop   *Loop
	staged staged
}

func newContext(l *Loop) *Context {
	return &Context{loop: l}
}

// takeStaged returns the pending mutations and clears them.
func (c *Context) takeStaged() staged {
	st := c.staged
	c.staged = staged{}
	return st
}

// WindowTitle returns the current window title.
func (c *Context) WindowTitle() string { return c.loop.title }

// FontFamily returns the current font family.
func (c *Context) FontFamily() string { return c.loop.fontFamily }

// FontSize returns the current font size in pixels.
func (c *Context) FontSize() float64 { return c.loop.fontSize }

// FontAvailable reports whether the resolver knows the family.
func (c *Context) FontAvailable(family string) bool {
	return c.loop.fonts != nil && c.loop.fonts.Available(family)
}

// BlinkState returns the current blink phase and when it last flipped.
func (c *Context) BlinkState() (bool, time.Time) {
	return c.loop.pacer.blinkState()
}

// Metrics returns the render target's current cell grid metrics.
func (c *Context) Metrics() grid.Metrics {
	return c.loop.target.Metrics()
}

// Buffer returns the render target's cell buffer. Draw into it from
// App.Render; the following Present pushes the changes out.
func (c *Context) Buffer() *grid.Buffer {
	return c.loop.target.Buffer()
}

// Frames returns the number of frames presented so far.
func (c *Context) Frames() uint64 { return c.loop.frames }

// Logger returns the loop's logger.
func (c *Context) Logger() *Logger { return c.loop.log }

// SetWindowTitle stages a window title change.
func (c *Context) SetWindowTitle(title string) {
	c.staged.title = &title
}

// SetFontFamily stages a font family change. If the resolver cannot
// supply the family the fallback face is used and a warning logged.
func (c *Context) SetFontFamily(family string) {
	c.staged.family = &family
}

// SetFontSize stages a font size change. Values below MinFontSize are
// clamped. A size change reshapes the cell grid; the application sees
// a resize event when the grid dimensions change.
func (c *Context) SetFontSize(px float64) {
	if px < MinFontSize {
		px = MinFontSize
	}
	c.staged.size = &px
}

// SetCursor stages the cursor cell position and visibility.
func (c *Context) SetCursor(col, row int, visible bool) {
	c.staged.cursor = &cursorReq{col: col, row: row, visible: visible}
}

// RequestRedraw asks for a repaint. Multiple requests before the next
// frame coalesce into one.
func (c *Context) RequestRedraw() {
	c.loop.pacer.requestRedraw()
}

// QueueEvent schedules an event for dispatch at the start of the next
// dispatch phase.
func (c *Context) QueueEvent(ev tcell.Event) {
	if ev == nil {
		return
	}
	c.staged.events = append(c.staged.events, ev)
}

// Quit asks the loop to terminate once the current event finishes.
func (c *Context) Quit() {
	c.loop.pushControl(Quit)
}

// Spawn submits a task to the registered Tasks source. Returns
// ErrNoTasks when none is registered, or the source's error when its
// queue is full.
func (c *Context) Spawn(task poll.Task) error {
	if c.loop.tasks == nil {
		return ErrNoTasks
	}
	return c.loop.tasks.Spawn(task)
}

// AddTimer registers a timer with the registered Timers source.
func (c *Context) AddTimer(def poll.TimerDef) (poll.Handle, error) {
	if c.loop.timers == nil {
		return 0, ErrNoTimers
	}
	return c.loop.timers.Add(def)
}

// CancelTimer cancels a timer. Reports whether it was still active.
func (c *Context) CancelTimer(h poll.Handle) bool {
	if c.loop.timers == nil {
		return false
	}
	return c.loop.timers.Cancel(h)
}
