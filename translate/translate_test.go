package translate

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/stormpane/event"
	"github.com/dshills/stormpane/grid"
	"github.com/dshills/stormpane/window"
)

func newTestTranslator() *Translator {
	// 100x37 cells of 8x16 pixels.
	return New(grid.NewMetrics(800, 600, 8, 16))
}

func keyEvent(t *testing.T, ev tcell.Event) *tcell.EventKey {
	t.Helper()
	ke, ok := ev.(*tcell.EventKey)
	if !ok {
		t.Fatalf("got %T, want *tcell.EventKey", ev)
	}
	return ke
}

func mouseEvent(t *testing.T, ev tcell.Event) *tcell.EventMouse {
	t.Helper()
	me, ok := ev.(*tcell.EventMouse)
	if !ok {
		t.Fatalf("got %T, want *tcell.EventMouse", ev)
	}
	return me
}

func TestTranslateRuneKey(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{
		Type: window.EventKey, Key: window.KeyRune, Rune: 'a', Pressed: true,
	})
	ke := keyEvent(t, ev)

	if ke.Key() != tcell.KeyRune {
		t.Errorf("Key() = %v, want KeyRune", ke.Key())
	}
	if ke.Rune() != 'a' {
		t.Errorf("Rune() = %q, want 'a'", ke.Rune())
	}
	if ke.Modifiers() != tcell.ModNone {
		t.Errorf("Modifiers() = %v, want none", ke.Modifiers())
	}
}

func TestTranslateKeyRelease(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{
		Type: window.EventKey, Key: window.KeyRune, Rune: 'a', Pressed: false,
	})
	if ev != nil {
		t.Errorf("release translated to %T, want nil", ev)
	}
}

func TestTranslateKeyRepeat(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{
		Type: window.EventKey, Key: window.KeyRune, Rune: 'a', Pressed: true, Repeat: true,
	})
	ke := keyEvent(t, ev)
	if ke.Rune() != 'a' {
		t.Errorf("auto-repeat dropped, want ordinary press")
	}
}

func TestTranslateNamedKeys(t *testing.T) {
	tests := []struct {
		name string
		key  window.Key
		want tcell.Key
	}{
		{"enter", window.KeyEnter, tcell.KeyEnter},
		{"tab", window.KeyTab, tcell.KeyTab},
		{"backspace", window.KeyBackspace, tcell.KeyBackspace2},
		{"escape", window.KeyEscape, tcell.KeyEscape},
		{"up", window.KeyUp, tcell.KeyUp},
		{"down", window.KeyDown, tcell.KeyDown},
		{"left", window.KeyLeft, tcell.KeyLeft},
		{"right", window.KeyRight, tcell.KeyRight},
		{"home", window.KeyHome, tcell.KeyHome},
		{"end", window.KeyEnd, tcell.KeyEnd},
		{"pgup", window.KeyPageUp, tcell.KeyPgUp},
		{"pgdn", window.KeyPageDown, tcell.KeyPgDn},
		{"insert", window.KeyInsert, tcell.KeyInsert},
		{"delete", window.KeyDelete, tcell.KeyDelete},
		{"f1", window.KeyF1, tcell.KeyF1},
		{"f12", window.KeyF12, tcell.KeyF12},
	}

	tr := newTestTranslator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tr.Translate(window.Event{
				Type: window.EventKey, Key: tt.key, Pressed: true,
			})
			ke := keyEvent(t, ev)
			if ke.Key() != tt.want {
				t.Errorf("Key() = %v, want %v", ke.Key(), tt.want)
			}
		})
	}
}

func TestTranslateShiftTab(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{
		Type: window.EventKey, Key: window.KeyTab, Mod: window.ModShift, Pressed: true,
	})
	ke := keyEvent(t, ev)

	if ke.Key() != tcell.KeyBacktab {
		t.Errorf("Key() = %v, want KeyBacktab", ke.Key())
	}
	if ke.Modifiers()&tcell.ModShift != 0 {
		t.Error("shift modifier survived the backtab translation")
	}
}

func TestTranslateShiftCtrlTab(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{
		Type: window.EventKey, Key: window.KeyTab,
		Mod: window.ModShift | window.ModCtrl, Pressed: true,
	})
	ke := keyEvent(t, ev)

	if ke.Key() != tcell.KeyBacktab {
		t.Errorf("Key() = %v, want KeyBacktab", ke.Key())
	}
	if ke.Modifiers() != tcell.ModCtrl {
		t.Errorf("Modifiers() = %v, want ctrl only", ke.Modifiers())
	}
}

func TestTranslateCtrlLetter(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want tcell.Key
	}{
		{"ctrl-a", 'a', tcell.KeyCtrlA},
		{"ctrl-q", 'q', tcell.KeyCtrlQ},
		{"ctrl-z", 'z', tcell.KeyCtrlZ},
		{"ctrl-shift-a", 'A', tcell.KeyCtrlA},
		{"ctrl-space", ' ', tcell.KeyCtrlSpace},
	}

	tr := newTestTranslator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tr.Translate(window.Event{
				Type: window.EventKey, Key: window.KeyRune, Rune: tt.r,
				Mod: window.ModCtrl, Pressed: true,
			})
			ke := keyEvent(t, ev)
			if ke.Key() != tt.want {
				t.Errorf("Key() = %v, want %v", ke.Key(), tt.want)
			}
			if ke.Modifiers()&tcell.ModCtrl == 0 {
				t.Error("ctrl modifier missing")
			}
		})
	}
}

func TestTranslateCtrlDigitStaysRune(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{
		Type: window.EventKey, Key: window.KeyRune, Rune: '1',
		Mod: window.ModCtrl, Pressed: true,
	})
	ke := keyEvent(t, ev)
	if ke.Key() != tcell.KeyRune || ke.Rune() != '1' {
		t.Errorf("got key %v rune %q, want rune '1'", ke.Key(), ke.Rune())
	}
}

func TestTranslateModifiers(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{
		Type: window.EventKey, Key: window.KeyUp,
		Mod: window.ModShift | window.ModAlt | window.ModMeta, Pressed: true,
	})
	ke := keyEvent(t, ev)

	want := tcell.ModShift | tcell.ModAlt | tcell.ModMeta
	if ke.Modifiers() != want {
		t.Errorf("Modifiers() = %v, want %v", ke.Modifiers(), want)
	}
}

func TestTranslateZeroRuneDropped(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{
		Type: window.EventKey, Key: window.KeyRune, Rune: 0, Pressed: true,
	})
	if ev != nil {
		t.Errorf("zero rune translated to %T, want nil", ev)
	}
}

func TestTranslateUnknownKeyDropped(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{
		Type: window.EventKey, Key: window.KeyNone, Pressed: true,
	})
	if ev != nil {
		t.Errorf("unknown key translated to %T, want nil", ev)
	}
}

func TestTranslateTextSingleRune(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{Type: window.EventText, Text: "x"})
	ke := keyEvent(t, ev)
	if ke.Key() != tcell.KeyRune || ke.Rune() != 'x' {
		t.Errorf("got key %v rune %q, want rune 'x'", ke.Key(), ke.Rune())
	}
}

func TestTranslateTextMultiRuneBecomesPaste(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{Type: window.EventText, Text: "hello"})
	p, ok := ev.(*event.Paste)
	if !ok {
		t.Fatalf("got %T, want *event.Paste", ev)
	}
	if p.Text() != "hello" {
		t.Errorf("Text() = %q, want %q", p.Text(), "hello")
	}
}

func TestTranslateTextEmptyDropped(t *testing.T) {
	tr := newTestTranslator()
	if ev := tr.Translate(window.Event{Type: window.EventText}); ev != nil {
		t.Errorf("empty text translated to %T, want nil", ev)
	}
}

func TestTranslateMotion(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{Type: window.EventCursorMoved, X: 20, Y: 40})
	me := mouseEvent(t, ev)

	x, y := me.Position()
	if x != 2 || y != 2 {
		t.Errorf("Position() = (%d, %d), want (2, 2)", x, y)
	}
	if me.Buttons() != tcell.ButtonNone {
		t.Errorf("Buttons() = %v, want none", me.Buttons())
	}
}

func TestTranslateMotionSameCellDropped(t *testing.T) {
	tr := newTestTranslator()

	if ev := tr.Translate(window.Event{Type: window.EventCursorMoved, X: 20, Y: 40}); ev == nil {
		t.Fatal("first motion dropped")
	}
	// Still inside cell (2, 2).
	if ev := tr.Translate(window.Event{Type: window.EventCursorMoved, X: 22, Y: 42}); ev != nil {
		t.Errorf("same-cell motion translated to %T, want nil", ev)
	}
	// Crossing into the next column reports again.
	if ev := tr.Translate(window.Event{Type: window.EventCursorMoved, X: 25, Y: 42}); ev == nil {
		t.Error("cell-crossing motion dropped")
	}
}

func TestTranslateButtonPressAndRelease(t *testing.T) {
	tr := newTestTranslator()

	press := mouseEvent(t, tr.Translate(window.Event{
		Type: window.EventMouseButton, Button: window.ButtonLeft,
		Pressed: true, X: 20, Y: 40,
	}))
	if press.Buttons() != tcell.Button1 {
		t.Errorf("press Buttons() = %v, want Button1", press.Buttons())
	}

	release := mouseEvent(t, tr.Translate(window.Event{
		Type: window.EventMouseButton, Button: window.ButtonLeft,
		Pressed: false, X: 20, Y: 40,
	}))
	if release.Buttons() != tcell.ButtonNone {
		t.Errorf("release Buttons() = %v, want none", release.Buttons())
	}
}

func TestTranslateButtons(t *testing.T) {
	tests := []struct {
		name   string
		button window.Button
		want   tcell.ButtonMask
	}{
		{"left", window.ButtonLeft, tcell.Button1},
		{"middle", window.ButtonMiddle, tcell.Button2},
		{"right", window.ButtonRight, tcell.Button3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator()
			me := mouseEvent(t, tr.Translate(window.Event{
				Type: window.EventMouseButton, Button: tt.button, Pressed: true,
			}))
			if me.Buttons() != tt.want {
				t.Errorf("Buttons() = %v, want %v", me.Buttons(), tt.want)
			}
		})
	}
}

func TestTranslateDrag(t *testing.T) {
	tr := newTestTranslator()

	tr.Translate(window.Event{
		Type: window.EventMouseButton, Button: window.ButtonLeft,
		Pressed: true, X: 20, Y: 40,
	})

	drag := mouseEvent(t, tr.Translate(window.Event{
		Type: window.EventCursorMoved, X: 60, Y: 40,
	}))
	if drag.Buttons() != tcell.Button1 {
		t.Errorf("drag Buttons() = %v, want Button1 held", drag.Buttons())
	}

	tr.Translate(window.Event{
		Type: window.EventMouseButton, Button: window.ButtonLeft,
		Pressed: false, X: 60, Y: 40,
	})

	move := mouseEvent(t, tr.Translate(window.Event{
		Type: window.EventCursorMoved, X: 100, Y: 40,
	}))
	if move.Buttons() != tcell.ButtonNone {
		t.Errorf("post-release motion Buttons() = %v, want none", move.Buttons())
	}
}

func TestTranslateWheel(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   tcell.ButtonMask
	}{
		{"up", 0, 1, tcell.WheelUp},
		{"down", 0, -1, tcell.WheelDown},
		{"right", 1, 0, tcell.WheelRight},
		{"left", -1, 0, tcell.WheelLeft},
		{"vertical wins", 1, 1, tcell.WheelUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator()
			me := mouseEvent(t, tr.Translate(window.Event{
				Type: window.EventMouseWheel, WheelX: tt.dx, WheelY: tt.dy,
			}))
			if me.Buttons() != tt.want {
				t.Errorf("Buttons() = %v, want %v", me.Buttons(), tt.want)
			}
		})
	}
}

func TestTranslateWheelZeroDropped(t *testing.T) {
	tr := newTestTranslator()
	if ev := tr.Translate(window.Event{Type: window.EventMouseWheel}); ev != nil {
		t.Errorf("zero wheel translated to %T, want nil", ev)
	}
}

func TestTranslateWheelUsesLastCell(t *testing.T) {
	tr := newTestTranslator()

	tr.Translate(window.Event{Type: window.EventCursorMoved, X: 100, Y: 100})
	me := mouseEvent(t, tr.Translate(window.Event{
		Type: window.EventMouseWheel, WheelY: 1,
	}))

	x, y := me.Position()
	if x != 12 || y != 6 {
		t.Errorf("Position() = (%d, %d), want pointer cell (12, 6)", x, y)
	}
}

func TestTranslateResize(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{Type: window.EventResized, Width: 1600, Height: 1200})
	re, ok := ev.(*tcell.EventResize)
	if !ok {
		t.Fatalf("got %T, want *tcell.EventResize", ev)
	}

	// The resize reports the translator's current cell grid; the run
	// loop updates metrics before translating.
	w, h := re.Size()
	if w != 100 || h != 37 {
		t.Errorf("Size() = (%d, %d), want (100, 37)", w, h)
	}

	tr.SetMetrics(grid.NewMetrics(1600, 1200, 8, 16))
	re, _ = tr.Translate(window.Event{Type: window.EventResized}).(*tcell.EventResize)
	w, h = re.Size()
	if w != 200 || h != 75 {
		t.Errorf("Size() after SetMetrics = (%d, %d), want (200, 75)", w, h)
	}
}

func TestTranslateFocus(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{Type: window.EventFocus, Focused: true})
	fe, ok := ev.(*tcell.EventFocus)
	if !ok {
		t.Fatalf("got %T, want *tcell.EventFocus", ev)
	}
	if !fe.Focused {
		t.Error("Focused = false, want true")
	}
}

func TestTranslatePaste(t *testing.T) {
	tr := newTestTranslator()

	ev := tr.Translate(window.Event{Type: window.EventPaste, Text: "clip"})
	p, ok := ev.(*event.Paste)
	if !ok {
		t.Fatalf("got %T, want *event.Paste", ev)
	}
	if p.Text() != "clip" {
		t.Errorf("Text() = %q, want %q", p.Text(), "clip")
	}

	if ev := tr.Translate(window.Event{Type: window.EventPaste}); ev != nil {
		t.Errorf("empty paste translated to %T, want nil", ev)
	}
}

func TestTranslateUnmappedTypesDropped(t *testing.T) {
	tr := newTestTranslator()

	for _, typ := range []window.EventType{
		window.EventNone,
		window.EventScaleChanged,
		window.EventCloseRequested,
	} {
		if ev := tr.Translate(window.Event{Type: typ, Scale: 2}); ev != nil {
			t.Errorf("%v translated to %T, want nil", typ, ev)
		}
	}
}
