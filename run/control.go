package run

import "github.com/gdamore/tcell/v2"

type controlOp int

// Precedence order, lowest to highest. Or keeps the higher op.
const (
	opContinue controlOp = iota
	opUnchanged
	opChanged
	opEvent
	opQuit
)

// Control is an event handler's verdict. Zero value is Continue.
//
// Continue reports that the event was not consumed. Unchanged reports
// it was consumed without visible effect. Changed requests a redraw.
// Emit(ev) injects a follow-up event into the current dispatch phase.
// Quit asks the loop to terminate.
type Control struct {
	op controlOp
	ev tcell.Event
}

var (
	Continue  = Control{op: opContinue}
	Unchanged = Control{op: opUnchanged}
	Changed   = Control{op: opChanged}
	Quit      = Control{op: opQuit}
)

// Emit returns a control that dispatches ev after the current event.
func Emit(ev tcell.Event) Control {
	return Control{op: opEvent, ev: ev}
}

// Or combines two controls, keeping the one with higher precedence.
// Useful when an event fans out to several widgets and the strongest
// verdict should win.
func (c Control) Or(o Control) Control {
	if o.op > c.op {
		return o
	}
	return c
}

// Event returns the event carried by an Emit control, or nil.
func (c Control) Event() tcell.Event {
	return c.ev
}

func (c Control) String() string {
	switch c.op {
	case opContinue:
		return "Continue"
	case opUnchanged:
		return "Unchanged"
	case opChanged:
		return "Changed"
	case opEvent:
		return "Event"
	case opQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
