// Package window defines the native windowing event vocabulary consumed
// by the input translator and the run loop. A windowing collaborator
// (GPU window, test harness) produces these events; the adapter never
// constructs them itself except in tests.
package window

// EventType identifies the kind of native window event.
type EventType int

const (
	// EventNone is an empty event.
	EventNone EventType = iota
	// EventKey is keyboard input (press, release, or auto-repeat).
	EventKey
	// EventText is committed text from an input method.
	EventText
	// EventCursorMoved is pointer motion in window pixel coordinates.
	EventCursorMoved
	// EventMouseButton is a mouse button press or release.
	EventMouseButton
	// EventMouseWheel is scroll wheel motion.
	EventMouseWheel
	// EventResized is a framebuffer size change in pixels.
	EventResized
	// EventScaleChanged is a monitor scale factor change.
	EventScaleChanged
	// EventFocus is window focus gained or lost.
	EventFocus
	// EventPaste is clipboard text delivered by the window system.
	EventPaste
	// EventCloseRequested is the user asking to close the window.
	EventCloseRequested
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventNone:
		return "none"
	case EventKey:
		return "key"
	case EventText:
		return "text"
	case EventCursorMoved:
		return "cursor-moved"
	case EventMouseButton:
		return "mouse-button"
	case EventMouseWheel:
		return "mouse-wheel"
	case EventResized:
		return "resized"
	case EventScaleChanged:
		return "scale-changed"
	case EventFocus:
		return "focus"
	case EventPaste:
		return "paste"
	case EventCloseRequested:
		return "close-requested"
	default:
		return "unknown"
	}
}

// Key identifies a named physical key. Character-producing keys use
// KeyRune with the Rune field set.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// ModMask is a bitmask of active keyboard modifiers.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// Button identifies a mouse button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Event is a single native window event. Only the fields relevant to
// the Type are set; the rest hold zero values.
type Event struct {
	Type EventType

	// Keyboard fields (EventKey).
	Key     Key
	Rune    rune
	Mod     ModMask
	Pressed bool // press vs release
	Repeat  bool // auto-repeat press
	Keypad  bool // numeric keypad origin

	// Pointer fields (EventCursorMoved, EventMouseButton, EventMouseWheel).
	// X and Y are window pixel coordinates.
	X, Y   float64
	Button Button
	// Wheel deltas in lines; positive Y scrolls up, positive X right.
	WheelX, WheelY float64

	// Window fields.
	Width, Height int     // EventResized, framebuffer pixels
	Scale         float64 // EventScaleChanged
	Focused       bool    // EventFocus

	// Text payload (EventText, EventPaste).
	Text string
}
