package terminal

// MouseButton identifies which mouse button an event refers to.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// String returns the button name.
func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "Left"
	case MouseMiddle:
		return "Middle"
	case MouseRight:
		return "Right"
	case MouseWheelUp:
		return "WheelUp"
	case MouseWheelDown:
		return "WheelDown"
	default:
		return "None"
	}
}

// Mouse is a decoded mouse event. Coordinates are zero-based cells.
type Mouse struct {
	Button MouseButton
	X, Y   int
	Press  bool
	Mods   Modifier
}

// IsMove reports whether this is pointer motion with no button held.
func (m Mouse) IsMove() bool {
	return m.Button == MouseNone && !m.Press
}

// IsWheel reports whether this is a scroll wheel event.
func (m Mouse) IsWheel() bool {
	return m.Button == MouseWheelUp || m.Button == MouseWheelDown
}
