package terminal

import (
	"time"
	"unicode/utf8"

	"github.com/odvcencio/fluffyui/clock"
)

// DefaultEscapeTimeout is how long the parser holds a lone ESC byte
// before deciding it was a standalone Escape key-press. Too short and
// fast-typed sequences fragment into spurious Escape events; too long
// and a real Escape press feels laggy.
const DefaultEscapeTimeout = 5 * time.Millisecond

// maxCSIParams bounds the CSI parameter buffer. Sequences that exceed
// it are malformed or unmodeled; the parser resets rather than growing.
const maxCSIParams = 32

type parseState uint8

const (
	stateIdle parseState = iota
	stateEscape
	stateCSI
	stateSS3
	statePaste
)

// Parser is a byte-oriented state machine turning raw terminal input
// into Events. It is not safe for concurrent use; the loop goroutine
// that reads the byte source owns it exclusively.
type Parser struct {
	clk           clock.Clock
	escapeTimeout time.Duration

	state  parseState
	escAt  time.Time
	params [maxCSIParams]byte
	nparam int

	// UTF-8 assembly for multibyte runes.
	utf8Buf  [utf8.UTFMax]byte
	utf8Len  int
	utf8Want int

	// Bracketed paste collection. pasteEnd tracks how much of the
	// closing CSI 201~ sequence has been matched.
	pasteBuf []byte
	pasteEnd int
}

// NewParser creates a parser using the shared clock. A zero
// escapeTimeout selects DefaultEscapeTimeout.
func NewParser(clk clock.Clock, escapeTimeout time.Duration) *Parser {
	if escapeTimeout <= 0 {
		escapeTimeout = DefaultEscapeTimeout
	}
	return &Parser{clk: clk, escapeTimeout: escapeTimeout}
}

// Feed consumes one byte and appends any decoded events to out.
func (p *Parser) Feed(b byte, out []Event) []Event {
	switch p.state {
	case stateIdle:
		return p.feedIdle(b, out)
	case stateEscape:
		return p.feedEscape(b, out)
	case stateCSI:
		return p.feedCSI(b, out)
	case stateSS3:
		return p.feedSS3(b, out)
	case statePaste:
		return p.feedPaste(b, out)
	}
	return out
}

// FeedBytes consumes a whole chunk.
func (p *Parser) FeedBytes(data []byte, out []Event) []Event {
	for _, b := range data {
		out = p.Feed(b, out)
	}
	return out
}

// FlushPending resolves a held Escape byte once the disambiguation
// timeout has elapsed with no continuation byte. It appends the Escape
// event to out and resets to idle.
func (p *Parser) FlushPending(now time.Time, out []Event) []Event {
	if p.state != stateEscape {
		return out
	}
	if now.Sub(p.escAt) < p.escapeTimeout {
		return out
	}
	p.state = stateIdle
	return append(out, KeyEvent(KeyEscape, ModNone))
}

// HasPendingEscape reports whether a lone ESC is being held for
// disambiguation.
func (p *Parser) HasPendingEscape() bool {
	return p.state == stateEscape
}

func (p *Parser) feedIdle(b byte, out []Event) []Event {
	switch {
	case b == 0x1b:
		p.state = stateEscape
		p.escAt = p.clk.Now()
		return out
	case b == 0x7f || b == 0x08:
		return append(out, KeyEvent(KeyBackspace, ModNone))
	case b == 0x09:
		return append(out, KeyEvent(KeyTab, ModNone))
	case b == 0x0d || b == 0x0a:
		return append(out, KeyEvent(KeyEnter, ModNone))
	case b >= 0x01 && b <= 0x1a:
		if k := ctrlKey(b); k != KeyNone {
			return append(out, KeyEvent(k, ModCtrl))
		}
		return out
	case b >= 0x20 && b <= 0x7e:
		return append(out, RuneEvent(rune(b), ModNone))
	case b >= 0x80:
		return p.feedUTF8(b, out)
	}
	return out
}

func (p *Parser) feedEscape(b byte, out []Event) []Event {
	switch b {
	case '[':
		p.state = stateCSI
		p.nparam = 0
		return out
	case 'O':
		p.state = stateSS3
		return out
	default:
		// Standalone Escape followed by an unrelated byte; sequences
		// never nest, so reprocess the byte from idle.
		p.state = stateIdle
		out = append(out, KeyEvent(KeyEscape, ModNone))
		return p.Feed(b, out)
	}
}

func (p *Parser) feedCSI(b byte, out []Event) []Event {
	if b >= 0x40 && b <= 0x7e {
		params := p.params[:p.nparam]
		p.state = stateIdle
		p.nparam = 0
		if b == '~' && paramsEqual(params, "200") {
			p.state = statePaste
			p.pasteBuf = p.pasteBuf[:0]
			p.pasteEnd = 0
			return out
		}
		if len(params) > 0 && params[0] == '<' && (b == 'M' || b == 'm') {
			if m, ok := decodeSGRMouse(params[1:], b); ok {
				return append(out, MouseEvent(m))
			}
			return out
		}
		if ev, ok := decodeCSI(params, b); ok {
			return append(out, ev)
		}
		// Unrecognized final byte or parameters; terminals emit plenty
		// of sequences this parser does not model. Consume silently.
		return out
	}
	if p.nparam >= maxCSIParams {
		// Oversized or malformed sequence; recover locally.
		p.state = stateIdle
		p.nparam = 0
		return out
	}
	p.params[p.nparam] = b
	p.nparam++
	return out
}

func (p *Parser) feedSS3(b byte, out []Event) []Event {
	p.state = stateIdle
	if k := ss3Key(b); k != KeyNone {
		return append(out, KeyEvent(k, ModNone))
	}
	return out
}

const pasteTerminator = "\x1b[201~"

func (p *Parser) feedPaste(b byte, out []Event) []Event {
	if b == pasteTerminator[p.pasteEnd] {
		p.pasteEnd++
		if p.pasteEnd == len(pasteTerminator) {
			text := string(p.pasteBuf)
			p.pasteBuf = p.pasteBuf[:0]
			p.pasteEnd = 0
			p.state = stateIdle
			return append(out, Event{Type: EventPaste, Paste: text})
		}
		return out
	}
	// A partial terminator match turned out to be paste content.
	if p.pasteEnd > 0 {
		p.pasteBuf = append(p.pasteBuf, pasteTerminator[:p.pasteEnd]...)
		p.pasteEnd = 0
		if b == pasteTerminator[0] {
			p.pasteEnd = 1
			return out
		}
	}
	p.pasteBuf = append(p.pasteBuf, b)
	return out
}

func (p *Parser) feedUTF8(b byte, out []Event) []Event {
	if p.utf8Want == 0 {
		switch {
		case b&0xe0 == 0xc0:
			p.utf8Want = 2
		case b&0xf0 == 0xe0:
			p.utf8Want = 3
		case b&0xf8 == 0xf0:
			p.utf8Want = 4
		default:
			return out // invalid start byte, drop
		}
		p.utf8Buf[0] = b
		p.utf8Len = 1
		return out
	}
	if b&0xc0 != 0x80 {
		// Broken continuation; drop the partial rune and retry.
		p.utf8Want = 0
		p.utf8Len = 0
		return p.feedIdle(b, out)
	}
	p.utf8Buf[p.utf8Len] = b
	p.utf8Len++
	if p.utf8Len < p.utf8Want {
		return out
	}
	r, _ := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
	p.utf8Want = 0
	p.utf8Len = 0
	if r == utf8.RuneError {
		return out
	}
	return append(out, RuneEvent(r, ModNone))
}

// ctrlKey maps a control byte 0x01-0x1A to its Ctrl-letter key.
// Bytes reused for Backspace/Tab/Enter return KeyNone.
func ctrlKey(b byte) Key {
	switch b {
	case 0x01:
		return KeyCtrlA
	case 0x02:
		return KeyCtrlB
	case 0x03:
		return KeyCtrlC
	case 0x04:
		return KeyCtrlD
	case 0x05:
		return KeyCtrlE
	case 0x06:
		return KeyCtrlF
	case 0x07:
		return KeyCtrlG
	case 0x0b:
		return KeyCtrlK
	case 0x0c:
		return KeyCtrlL
	case 0x0e:
		return KeyCtrlN
	case 0x0f:
		return KeyCtrlO
	case 0x10:
		return KeyCtrlP
	case 0x11:
		return KeyCtrlQ
	case 0x12:
		return KeyCtrlR
	case 0x13:
		return KeyCtrlS
	case 0x14:
		return KeyCtrlT
	case 0x15:
		return KeyCtrlU
	case 0x16:
		return KeyCtrlV
	case 0x17:
		return KeyCtrlW
	case 0x18:
		return KeyCtrlX
	case 0x19:
		return KeyCtrlY
	case 0x1a:
		return KeyCtrlZ
	}
	return KeyNone
}

// ss3Key maps the byte following ESC O.
func ss3Key(b byte) Key {
	switch b {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	case 'H':
		return KeyHome
	case 'F':
		return KeyEnd
	case 'P':
		return KeyF1
	case 'Q':
		return KeyF2
	case 'R':
		return KeyF3
	case 'S':
		return KeyF4
	}
	return KeyNone
}

// decodeCSI turns accumulated parameter bytes plus the final byte into
// a key event. Unrecognized combinations report ok=false and are
// consumed without emitting anything.
func decodeCSI(params []byte, final byte) (Event, bool) {
	nums, ok := splitParams(params)
	if !ok {
		return Event{}, false
	}
	mods := ModNone
	if len(nums) >= 2 && nums[1] > 0 {
		mods = csiModifier(nums[1])
	}

	switch final {
	case 'A':
		return KeyEvent(KeyUp, mods), true
	case 'B':
		return KeyEvent(KeyDown, mods), true
	case 'C':
		return KeyEvent(KeyRight, mods), true
	case 'D':
		return KeyEvent(KeyLeft, mods), true
	case 'H':
		return KeyEvent(KeyHome, mods), true
	case 'F':
		return KeyEvent(KeyEnd, mods), true
	case 'Z':
		return KeyEvent(KeyBackTab, ModShift), true
	case '~':
		if len(nums) == 0 {
			return Event{}, false
		}
		if k := tildeKey(nums[0]); k != KeyNone {
			return KeyEvent(k, mods), true
		}
		return Event{}, false
	}
	return Event{}, false
}

// tildeKey maps the numeric code of a "~"-terminated sequence.
func tildeKey(code int) Key {
	switch code {
	case 1, 7:
		return KeyHome
	case 2:
		return KeyInsert
	case 3:
		return KeyDelete
	case 4, 8:
		return KeyEnd
	case 5:
		return KeyPageUp
	case 6:
		return KeyPageDown
	case 11:
		return KeyF1
	case 12:
		return KeyF2
	case 13:
		return KeyF3
	case 14:
		return KeyF4
	case 15:
		return KeyF5
	case 17:
		return KeyF6
	case 18:
		return KeyF7
	case 19:
		return KeyF8
	case 20:
		return KeyF9
	case 21:
		return KeyF10
	case 23:
		return KeyF11
	case 24:
		return KeyF12
	}
	return KeyNone
}

// csiModifier decodes the xterm modifier parameter (value-1 is a
// bitmask: 1 shift, 2 alt, 4 ctrl, 8 meta).
func csiModifier(param int) Modifier {
	bits := param - 1
	if bits <= 0 {
		return ModNone
	}
	var m Modifier
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&2 != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	if bits&8 != 0 {
		m |= ModMeta
	}
	return m
}

// decodeSGRMouse decodes "btn;x;y" SGR parameters. final is 'M' for
// press/motion, 'm' for release. Coordinates arrive one-based.
func decodeSGRMouse(params []byte, final byte) (Mouse, bool) {
	nums, ok := splitParams(params)
	if !ok || len(nums) != 3 {
		return Mouse{}, false
	}
	btn, x, y := nums[0], nums[1], nums[2]

	m := Mouse{X: x - 1, Y: y - 1}
	if btn&4 != 0 {
		m.Mods |= ModShift
	}
	if btn&8 != 0 {
		m.Mods |= ModAlt
	}
	if btn&16 != 0 {
		m.Mods |= ModCtrl
	}

	switch {
	case btn&64 != 0:
		if btn&0x03 == 0 {
			m.Button = MouseWheelUp
		} else {
			m.Button = MouseWheelDown
		}
		m.Press = true
	case btn&32 != 0:
		// Motion. Button bits 3 mean no button held (plain move).
		if b := sgrButton(btn & 0x03); b != MouseNone {
			m.Button = b
			m.Press = final == 'M'
		}
	default:
		m.Button = sgrButton(btn & 0x03)
		m.Press = final == 'M'
	}
	return m, true
}

func sgrButton(bits int) MouseButton {
	switch bits {
	case 0:
		return MouseLeft
	case 1:
		return MouseMiddle
	case 2:
		return MouseRight
	}
	return MouseNone
}

// splitParams parses semicolon-separated decimal parameters. Empty
// fields decode as zero. Anything non-numeric fails the whole set.
func splitParams(params []byte) ([]int, bool) {
	if len(params) == 0 {
		return nil, true
	}
	nums := make([]int, 0, 4)
	val := 0
	seen := false
	for _, b := range params {
		switch {
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			if val > 9999 {
				return nil, false
			}
			seen = true
		case b == ';':
			nums = append(nums, val)
			val = 0
			seen = false
			if len(nums) > 4 {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	if seen || len(nums) > 0 {
		nums = append(nums, val)
	}
	return nums, true
}

// paramsEqual compares the raw parameter bytes to a literal.
func paramsEqual(params []byte, lit string) bool {
	return string(params) == lit
}
