// Package translate maps native window events onto the terminal event
// model. One native event in, zero or one tcell events out; native
// concepts the terminal model cannot express (key releases, keypad
// origin, sub-cell pointer motion) are dropped silently.
package translate

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stormpane/event"
	"github.com/dshills/stormpane/grid"
	"github.com/dshills/stormpane/window"
)

// Translator converts window events to tcell events. It tracks the
// cell metrics for pixel-to-cell conversion, the pointer's current
// cell, and which buttons are held so motion becomes a drag.
//
// Not safe for concurrent use; the run loop owns it.
type Translator struct {
	metrics grid.Metrics

	lastCol, lastRow int
	held             [4]bool // indexed by window.Button
}

// New creates a translator with the given initial metrics.
func New(m grid.Metrics) *Translator {
	return &Translator{
		metrics: m,
		lastCol: -1,
		lastRow: -1,
	}
}

// SetMetrics updates the cell geometry used for mouse conversion and
// resize events. The run loop calls this whenever the rendering
// collaborator reports new metrics.
func (t *Translator) SetMetrics(m grid.Metrics) {
	t.metrics = m
}

// Metrics returns the current cell geometry.
func (t *Translator) Metrics() grid.Metrics {
	return t.metrics
}

// Translate converts one native event. Returns nil when the event has
// no terminal analogue.
func (t *Translator) Translate(ev window.Event) tcell.Event {
	switch ev.Type {
	case window.EventKey:
		return t.translateKey(ev)
	case window.EventText:
		return t.translateText(ev)
	case window.EventCursorMoved:
		return t.translateMotion(ev)
	case window.EventMouseButton:
		return t.translateButton(ev)
	case window.EventMouseWheel:
		return t.translateWheel(ev)
	case window.EventResized:
		return tcell.NewEventResize(t.metrics.Cols, t.metrics.Rows)
	case window.EventFocus:
		return tcell.NewEventFocus(ev.Focused)
	case window.EventPaste:
		if ev.Text == "" {
			return nil
		}
		return event.NewPaste(ev.Text)
	default:
		return nil
	}
}

// translateKey maps a keyboard event. Releases are dropped (tcell has
// no key-up) and auto-repeat is delivered as an ordinary press.
func (t *Translator) translateKey(ev window.Event) tcell.Event {
	if !ev.Pressed {
		return nil
	}

	mod := convertMod(ev.Mod)

	// Shift+Tab is its own key in the terminal model.
	if ev.Key == window.KeyTab && ev.Mod.Has(window.ModShift) {
		return tcell.NewEventKey(tcell.KeyBacktab, 0, mod&^tcell.ModShift)
	}

	if ev.Key == window.KeyRune {
		return t.translateRune(ev, mod)
	}

	key := convertKey(ev.Key)
	if key == tcell.KeyRune {
		return nil
	}
	return tcell.NewEventKey(key, keyRune(key), mod)
}

// translateRune maps a character key. Ctrl chords collapse onto the
// control key codes the terminal model uses.
func (t *Translator) translateRune(ev window.Event, mod tcell.ModMask) tcell.Event {
	r := ev.Rune
	if r == 0 {
		return nil
	}

	if ev.Mod.Has(window.ModCtrl) {
		if key, ok := ctrlKey(r); ok {
			return tcell.NewEventKey(key, rune(key), mod)
		}
	}
	return tcell.NewEventKey(tcell.KeyRune, r, mod)
}

// translateText maps committed input-method text. A single rune
// becomes a key event; longer commits arrive as one paste.
func (t *Translator) translateText(ev window.Event) tcell.Event {
	runes := []rune(ev.Text)
	switch len(runes) {
	case 0:
		return nil
	case 1:
		return tcell.NewEventKey(tcell.KeyRune, runes[0], tcell.ModNone)
	default:
		return event.NewPaste(ev.Text)
	}
}

// translateMotion maps pointer motion. Moves within the same cell are
// dropped; with a button held the motion is a drag.
func (t *Translator) translateMotion(ev window.Event) tcell.Event {
	col, row := t.metrics.CellAt(ev.X, ev.Y)
	if col == t.lastCol && row == t.lastRow {
		return nil
	}
	t.lastCol, t.lastRow = col, row
	return tcell.NewEventMouse(col, row, t.heldMask(), convertMod(ev.Mod))
}

func (t *Translator) translateButton(ev window.Event) tcell.Event {
	col, row := t.metrics.CellAt(ev.X, ev.Y)
	t.lastCol, t.lastRow = col, row

	if ev.Button <= window.ButtonNone || int(ev.Button) >= len(t.held) {
		return nil
	}
	t.held[ev.Button] = ev.Pressed

	mask := tcell.ButtonNone
	if ev.Pressed {
		mask = buttonMask(ev.Button)
	}
	return tcell.NewEventMouse(col, row, mask, convertMod(ev.Mod))
}

// translateWheel maps scroll motion at the pointer's current cell.
// Vertical wins when both axes moved.
func (t *Translator) translateWheel(ev window.Event) tcell.Event {
	var mask tcell.ButtonMask
	switch {
	case ev.WheelY > 0:
		mask = tcell.WheelUp
	case ev.WheelY < 0:
		mask = tcell.WheelDown
	case ev.WheelX > 0:
		mask = tcell.WheelRight
	case ev.WheelX < 0:
		mask = tcell.WheelLeft
	default:
		return nil
	}

	col, row := t.lastCol, t.lastRow
	if col < 0 || row < 0 {
		col, row = t.metrics.CellAt(ev.X, ev.Y)
	}
	return tcell.NewEventMouse(col, row, mask, convertMod(ev.Mod))
}

// heldMask returns the button mask for all currently held buttons.
func (t *Translator) heldMask() tcell.ButtonMask {
	mask := tcell.ButtonNone
	for b := window.ButtonLeft; b <= window.ButtonRight; b++ {
		if t.held[b] {
			mask |= buttonMask(b)
		}
	}
	return mask
}

// convertKey converts a named window key to tcell.Key.
func convertKey(k window.Key) tcell.Key {
	switch k {
	case window.KeyEnter:
		return tcell.KeyEnter
	case window.KeyTab:
		return tcell.KeyTab
	case window.KeyBackspace:
		return tcell.KeyBackspace2
	case window.KeyEscape:
		return tcell.KeyEscape
	case window.KeyUp:
		return tcell.KeyUp
	case window.KeyDown:
		return tcell.KeyDown
	case window.KeyLeft:
		return tcell.KeyLeft
	case window.KeyRight:
		return tcell.KeyRight
	case window.KeyHome:
		return tcell.KeyHome
	case window.KeyEnd:
		return tcell.KeyEnd
	case window.KeyPageUp:
		return tcell.KeyPgUp
	case window.KeyPageDown:
		return tcell.KeyPgDn
	case window.KeyInsert:
		return tcell.KeyInsert
	case window.KeyDelete:
		return tcell.KeyDelete
	case window.KeyF1:
		return tcell.KeyF1
	case window.KeyF2:
		return tcell.KeyF2
	case window.KeyF3:
		return tcell.KeyF3
	case window.KeyF4:
		return tcell.KeyF4
	case window.KeyF5:
		return tcell.KeyF5
	case window.KeyF6:
		return tcell.KeyF6
	case window.KeyF7:
		return tcell.KeyF7
	case window.KeyF8:
		return tcell.KeyF8
	case window.KeyF9:
		return tcell.KeyF9
	case window.KeyF10:
		return tcell.KeyF10
	case window.KeyF11:
		return tcell.KeyF11
	case window.KeyF12:
		return tcell.KeyF12
	default:
		return tcell.KeyRune
	}
}

// keyRune returns the legacy rune for control-range keys, matching
// what a real terminal would put in the event.
func keyRune(k tcell.Key) rune {
	if k < 0x80 {
		return rune(k)
	}
	return 0
}

// ctrlKey maps a ctrl-chorded rune to its terminal control key.
func ctrlKey(r rune) (tcell.Key, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return tcell.KeyCtrlA + tcell.Key(r-'a'), true
	case r >= 'A' && r <= 'Z':
		return tcell.KeyCtrlA + tcell.Key(r-'A'), true
	case r == ' ':
		return tcell.KeyCtrlSpace, true
	default:
		return tcell.KeyRune, false
	}
}

// convertMod converts a window modifier mask to tcell's.
func convertMod(m window.ModMask) tcell.ModMask {
	var result tcell.ModMask
	if m.Has(window.ModShift) {
		result |= tcell.ModShift
	}
	if m.Has(window.ModCtrl) {
		result |= tcell.ModCtrl
	}
	if m.Has(window.ModAlt) {
		result |= tcell.ModAlt
	}
	if m.Has(window.ModMeta) {
		result |= tcell.ModMeta
	}
	return result
}

// buttonMask converts a window button to tcell's button mask.
func buttonMask(b window.Button) tcell.ButtonMask {
	switch b {
	case window.ButtonLeft:
		return tcell.Button1
	case window.ButtonMiddle:
		return tcell.Button2
	case window.ButtonRight:
		return tcell.Button3
	default:
		return tcell.ButtonNone
	}
}
