package vt

// Color identifies a cell color: one of the eight ANSI palette entries or
// the configured default. The zero value is ColorDefault so that a zero
// Cell carries default colors.
type Color uint8

const (
	// ColorDefault selects the configured default foreground or background
	// instead of a palette entry.
	ColorDefault Color = iota

	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// Palette returns the 0-7 ANSI palette index for c and whether c names a
// palette entry at all (false for ColorDefault).
func (c Color) Palette() (int, bool) {
	if c == ColorDefault {
		return 0, false
	}
	return int(c - ColorBlack), true
}

// Cell is one character cell of the screen buffer.
//
// The zero value is an empty cell: no rune, default colors, no attributes.
// Erasing a cell writes the zero value. Renderers skip empty cells.
type Cell struct {
	Rune      rune
	FG        Color
	BG        Color
	Bold      bool
	Underline bool
}

// IsEmpty reports whether the cell holds no printed character.
func (c Cell) IsEmpty() bool { return c.Rune == 0 }
