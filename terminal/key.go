// Package terminal decodes raw terminal input into structured events and
// manages the terminal session (raw mode, mouse reporting, bracketed
// paste). It has no opinion about widgets or dispatch; the runtime
// package consumes its events.
package terminal

import "fmt"

// Key identifies a keyboard key. Character keys use KeyRune with the
// character stored alongside the key in Event.Rune.
type Key uint16

const (
	// KeyNone means no key was decoded.
	KeyNone Key = iota

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Function keys
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

	// Ctrl-letter combinations that do not collide with Tab/Enter.
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlK
	KeyCtrlL
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ

	// KeyRune is used for character keys; the character lives in
	// Event.Rune.
	KeyRune
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyEscape:    "Escape",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackTab:   "BackTab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
	KeyRune:      "Rune",
}

// String returns a human-readable name for the key.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k >= KeyCtrlA && k <= KeyCtrlZ {
		return "Ctrl+" + string(ctrlLetter(k))
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsArrow returns true for the four directional keys.
func (k Key) IsArrow() bool {
	return k >= KeyUp && k <= KeyRight
}

// IsFunction returns true for F1-F12.
func (k Key) IsFunction() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsCtrlLetter returns true for the Ctrl-letter keys.
func (k Key) IsCtrlLetter() bool {
	return k >= KeyCtrlA && k <= KeyCtrlZ
}

// ctrlLetter returns the uppercase letter for a Ctrl-letter key.
func ctrlLetter(k Key) rune {
	letters := "ABCDEFGKLNOPQRSTUVWXYZ"
	return rune(letters[int(k-KeyCtrlA)])
}

// Modifier is a bitset of modifier keys held during an event.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// HasShift reports whether Shift is set.
func (m Modifier) HasShift() bool { return m&ModShift != 0 }

// HasCtrl reports whether Ctrl is set.
func (m Modifier) HasCtrl() bool { return m&ModCtrl != 0 }

// HasAlt reports whether Alt is set.
func (m Modifier) HasAlt() bool { return m&ModAlt != 0 }

// HasMeta reports whether Meta is set.
func (m Modifier) HasMeta() bool { return m&ModMeta != 0 }

// String returns a "Ctrl+Alt"-style rendering, or "None".
func (m Modifier) String() string {
	if m == ModNone {
		return "None"
	}
	out := ""
	add := func(s string) {
		if out != "" {
			out += "+"
		}
		out += s
	}
	if m.HasCtrl() {
		add("Ctrl")
	}
	if m.HasAlt() {
		add("Alt")
	}
	if m.HasShift() {
		add("Shift")
	}
	if m.HasMeta() {
		add("Meta")
	}
	return out
}
