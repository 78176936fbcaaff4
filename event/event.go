// Package event defines the adapter-produced event kinds that extend
// the standard tcell event set. Each type embeds tcell.EventTime so it
// satisfies tcell.Event and can travel through the same dispatch path
// as key, mouse and resize events. Application handlers recognize them
// with an ordinary type switch.
package event

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Paste carries pasted text as a single event. Unlike bracketed paste
// in a real terminal, the whole payload arrives at once.
type Paste struct {
	tcell.EventTime
	text string
}

// NewPaste creates a paste event with the given text.
func NewPaste(text string) *Paste {
	ev := &Paste{text: text}
	ev.SetEventNow()
	return ev
}

// Text returns the pasted text.
func (p *Paste) Text() string { return p.text }

// RedrawRequest asks the rendering collaborator for a frame. The run
// loop emits at most one per wake regardless of how many causes
// accumulated since the last one.
type RedrawRequest struct {
	tcell.EventTime
}

// NewRedrawRequest creates a redraw request stamped with the current time.
func NewRedrawRequest() *RedrawRequest {
	ev := &RedrawRequest{}
	ev.SetEventNow()
	return ev
}

// BlinkToggle reports a cursor blink phase flip. Phase is the new
// phase after the flip; true means the cursor is visible.
type BlinkToggle struct {
	tcell.EventTime
	phase bool
}

// NewBlinkToggle creates a blink toggle carrying the new phase.
func NewBlinkToggle(phase bool) *BlinkToggle {
	ev := &BlinkToggle{phase: phase}
	ev.SetEventNow()
	return ev
}

// Phase returns the blink phase after the toggle.
func (b *BlinkToggle) Phase() bool { return b.phase }

// Quit reports a termination request from a quit source or a window
// close. With a quit source registered the application may veto it by
// answering anything but Quit.
type Quit struct {
	tcell.EventTime
}

// NewQuit creates a quit event.
func NewQuit() *Quit {
	ev := &Quit{}
	ev.SetEventNow()
	return ev
}

// FramePresented reports that the rendering collaborator finished
// presenting a frame. Frame is a monotonically increasing counter.
type FramePresented struct {
	tcell.EventTime
	frame uint64
}

// NewFramePresented creates a frame-presented event.
func NewFramePresented(frame uint64) *FramePresented {
	ev := &FramePresented{frame: frame}
	ev.SetEventNow()
	return ev
}

// Frame returns the presented frame number.
func (f *FramePresented) Frame() uint64 { return f.frame }

// TimerFired reports a due timer. Count is the number of times the
// timer has fired so far, starting at 1.
type TimerFired struct {
	tcell.EventTime
	handle  uint64
	count   int
	payload any
}

// NewTimerFired creates a timer event.
func NewTimerFired(handle uint64, count int, payload any) *TimerFired {
	ev := &TimerFired{handle: handle, count: count, payload: payload}
	ev.SetEventNow()
	return ev
}

// Handle returns the firing timer's handle.
func (t *TimerFired) Handle() uint64 { return t.handle }

// Count returns how many times the timer has fired.
func (t *TimerFired) Count() int { return t.count }

// Payload returns the value registered with the timer, or nil.
func (t *TimerFired) Payload() any { return t.payload }

// TaskDone reports a completed background task with its result or
// error. Exactly one of Result and Err is meaningful.
type TaskDone struct {
	tcell.EventTime
	result any
	err    error
}

// NewTaskDone creates a task completion event.
func NewTaskDone(result any, err error) *TaskDone {
	ev := &TaskDone{result: result, err: err}
	ev.SetEventNow()
	return ev
}

// Result returns the task's result value.
func (t *TaskDone) Result() any { return t.result }

// Err returns the task's error, or nil.
func (t *TaskDone) Err() error { return t.err }

// SourceError surfaces a poll source failure to the application. The
// loop keeps running; only the named source skipped its turn.
type SourceError struct {
	tcell.EventTime
	source string
	err    error
}

// NewSourceError creates a source error event.
func NewSourceError(source string, err error) *SourceError {
	ev := &SourceError{source: source, err: err}
	ev.SetEventNow()
	return ev
}

// Source returns the failing source's name.
func (s *SourceError) Source() string { return s.source }

// Err returns the underlying poll error.
func (s *SourceError) Err() error { return s.err }

func (s *SourceError) Error() string {
	return fmt.Sprintf("poll %s: %v", s.source, s.err)
}
