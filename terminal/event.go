package terminal

// EventType distinguishes decoded input event categories. The zero
// value is EventNone so an unset Event decodes as no event, mirroring
// KeyNone.
type EventType uint8

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventPaste
)

// Event is a single decoded input event produced by the Parser.
// It is a plain value; Paste events carry the pasted text, which the
// parser copies out of its scratch buffer before emitting.
type Event struct {
	Type  EventType
	Key   Key
	Rune  rune
	Mods  Modifier
	Mouse Mouse
	Paste string
}

// KeyEvent builds a special-key event.
func KeyEvent(k Key, mods Modifier) Event {
	return Event{Type: EventKey, Key: k, Mods: mods}
}

// RuneEvent builds a character-key event.
func RuneEvent(r rune, mods Modifier) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r, Mods: mods}
}

// MouseEvent builds a mouse event.
func MouseEvent(m Mouse) Event {
	return Event{Type: EventMouse, Mouse: m}
}
