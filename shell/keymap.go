package shell

// Key identifies a non-text key the UI forwards to the child.
type Key int

// Keys with dedicated encodings.
const (
	KeyEnter Key = iota
	KeyBackspace
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
)

// Encode returns the byte sequence a key sends to the child, or nil for
// unknown keys. Arrows use the cursor sequences every termcap expects.
func (k Key) Encode() []byte {
	switch k {
	case KeyEnter:
		return []byte{0x0D}
	case KeyBackspace:
		return []byte{0x08}
	case KeyTab:
		return []byte{0x09}
	case KeyEscape:
		return []byte{0x1B}
	case KeyUp:
		return []byte("\x1b[A")
	case KeyDown:
		return []byte("\x1b[B")
	case KeyRight:
		return []byte("\x1b[C")
	case KeyLeft:
		return []byte("\x1b[D")
	}
	return nil
}

// EncodeRune returns the bytes a printable rune sends: its UTF-8
// encoding. Control runes are not sent this way; use Key.
func EncodeRune(r rune) []byte {
	if r < 0x20 || r == 0x7F {
		return nil
	}
	return []byte(string(r))
}
