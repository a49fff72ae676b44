// Package vt decodes the VT/ANSI control-sequence subset emitted by common
// shell programs and maintains the resulting screen buffer.
//
// The package is split in two: Decoder is a resumable byte-level state
// machine that turns raw pty output into calls on a Handler, and Screen is
// the Handler implementation that owns the scrollback, viewport, cursor and
// graphics state. Decoding never fails: malformed or unrecognized input is
// logged at debug level and skipped.
package vt

import (
	"unicode/utf8"

	"github.com/gogpu/term/internal/logx"
)

// Handler receives the actions decoded from a terminal byte stream.
type Handler interface {
	// Print places a decoded character at the cursor.
	Print(r rune)

	// Execute performs a C0 control function (newline, carriage return, ...).
	Execute(b byte)

	// CSI dispatches a complete control sequence. params holds the decoded
	// numeric parameters (possibly empty; defaults are the handler's
	// concern). private reports a leading private marker byte ('<'..'?').
	CSI(final byte, params []int, private bool)

	// Escape dispatches a non-CSI escape sequence final byte.
	Escape(b byte)

	// OSC delivers a complete operating-system-command payload.
	OSC(payload []byte)

	// DCS delivers a complete device-control-string payload.
	DCS(payload []byte)
}

type decodeState int

const (
	stateGround decodeState = iota
	stateEscape
	stateCSI
	stateOSC
	stateOSCEscape
	stateDCS
	stateDCSEscape
	stateCharset
)

const (
	// maxParams bounds the number of CSI parameters retained; extra
	// parameters are dropped.
	maxParams = 16

	// maxPayload bounds OSC/DCS payload accumulation so a hostile stream
	// cannot grow memory without terminating the string.
	maxPayload = 4096
)

// Decoder is a resumable terminal byte-stream decoder.
//
// All state, including partially received escape sequences and partially
// received UTF-8 characters, is retained between Write calls: feeding a
// byte stream in arbitrary chunks produces exactly the same Handler calls
// as feeding it in one piece.
//
// Decoder is not safe for concurrent use.
type Decoder struct {
	h Handler

	state decodeState

	params   []int
	param    int
	hasParam bool
	private  bool

	payload []byte

	utf8     [utf8.UTFMax]byte
	utf8Len  int
	utf8Need int
}

// NewDecoder creates a Decoder dispatching to h.
func NewDecoder(h Handler) *Decoder {
	return &Decoder{
		h:      h,
		params: make([]int, 0, maxParams),
	}
}

// Write feeds raw bytes to the decoder. It implements io.Writer and never
// returns an error: unrecognized input is logged and skipped.
func (d *Decoder) Write(p []byte) (int, error) {
	for _, b := range p {
		d.advance(b)
	}
	return len(p), nil
}

func (d *Decoder) advance(b byte) {
	switch d.state {
	case stateGround:
		d.ground(b)
	case stateEscape:
		d.escape(b)
	case stateCSI:
		d.csi(b)
	case stateOSC:
		d.str(b, stateOSCEscape)
	case stateOSCEscape:
		d.strEscape(b)
	case stateDCS:
		d.str(b, stateDCSEscape)
	case stateDCSEscape:
		d.strEscape(b)
	case stateCharset:
		// Charset designation: the byte after ESC ( ) * + names the set.
		// Character sets are not implemented; consume and move on.
		d.state = stateGround
	}
}

func (d *Decoder) ground(b byte) {
	if d.utf8Need > 0 {
		if b&0xC0 == 0x80 {
			d.utf8[d.utf8Len] = b
			d.utf8Len++
			if d.utf8Len == d.utf8Need {
				r, _ := utf8.DecodeRune(d.utf8[:d.utf8Len])
				d.utf8Len, d.utf8Need = 0, 0
				if r == utf8.RuneError {
					logx.Logger().Debug("vt: dropped malformed UTF-8 sequence")
					return
				}
				d.h.Print(r)
			}
			return
		}
		// The multi-byte sequence was cut short; drop it and reprocess b.
		logx.Logger().Debug("vt: dropped truncated UTF-8 sequence")
		d.utf8Len, d.utf8Need = 0, 0
	}

	switch {
	case b == 0x1B:
		d.state = stateEscape
	case b < 0x20:
		d.h.Execute(b)
	case b == 0x7F:
		// DEL is ignored on output.
	case b < 0x80:
		d.h.Print(rune(b))
	default:
		switch {
		case b&0xE0 == 0xC0:
			d.utf8Need = 2
		case b&0xF0 == 0xE0:
			d.utf8Need = 3
		case b&0xF8 == 0xF0:
			d.utf8Need = 4
		default:
			logx.Logger().Debug("vt: dropped invalid byte", "byte", b)
			return
		}
		d.utf8[0] = b
		d.utf8Len = 1
	}
}

func (d *Decoder) escape(b byte) {
	switch b {
	case '[':
		d.state = stateCSI
		d.params = d.params[:0]
		d.param = 0
		d.hasParam = false
		d.private = false
	case ']':
		d.state = stateOSC
		d.payload = d.payload[:0]
	case 'P':
		d.state = stateDCS
		d.payload = d.payload[:0]
	case '(', ')', '*', '+':
		d.state = stateCharset
	default:
		d.state = stateGround
		d.h.Escape(b)
	}
}

func (d *Decoder) csi(b byte) {
	switch {
	case b >= '0' && b <= '9':
		d.param = d.param*10 + int(b-'0')
		d.hasParam = true
	case b == ';':
		d.pushParam()
	case b >= '<' && b <= '?':
		d.private = true
	case b >= 0x20 && b <= 0x2F:
		// Intermediate bytes (e.g. CSI ? or CSI !) are not dispatched on.
	case b >= '@' && b <= '~':
		if d.hasParam {
			d.pushParam()
		}
		d.state = stateGround
		d.h.CSI(b, d.params, d.private)
	case b == 0x1B:
		// A new escape aborts the sequence in progress.
		logx.Logger().Debug("vt: control sequence aborted by ESC")
		d.state = stateEscape
	case b < 0x20:
		// C0 controls execute even inside a control sequence.
		d.h.Execute(b)
	default:
		logx.Logger().Debug("vt: dropped byte inside control sequence", "byte", b)
	}
}

func (d *Decoder) pushParam() {
	if len(d.params) < maxParams {
		d.params = append(d.params, d.param)
	}
	d.param = 0
	d.hasParam = true
}

// str accumulates OSC/DCS payload bytes until BEL or ESC \ terminates the
// string. escState is the state entered when ESC is seen.
func (d *Decoder) str(b byte, escState decodeState) {
	switch b {
	case 0x07:
		d.dispatchString()
		d.state = stateGround
	case 0x1B:
		d.state = escState
	default:
		if len(d.payload) < maxPayload {
			d.payload = append(d.payload, b)
		}
	}
}

func (d *Decoder) strEscape(b byte) {
	d.dispatchString()
	if b == '\\' {
		d.state = stateGround
		return
	}
	// Not a string terminator: the string is over and a new escape
	// sequence has begun with b.
	d.state = stateEscape
	d.escape(b)
}

func (d *Decoder) dispatchString() {
	switch d.state {
	case stateOSC, stateOSCEscape:
		d.h.OSC(d.payload)
	case stateDCS, stateDCSEscape:
		d.h.DCS(d.payload)
	}
	d.payload = d.payload[:0]
}
