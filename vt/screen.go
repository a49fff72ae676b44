package vt

import (
	"strings"

	"github.com/gogpu/term/internal/logx"
)

// maxScrollStep caps how far a single Scroll call can move the viewport.
// Wheel events arrive one at a time; larger jumps come from repeated events.
const maxScrollStep = 5

// Screen is the terminal screen buffer: an append-only scrollback of rows,
// a viewport window into it, a cursor and the current graphics state.
//
// Rows are created lazily as output reaches them and are never removed, so
// everything ever printed stays reachable by scrolling back. Rows are also
// ragged: a row holds only as many cells as have been written to it.
//
// Screen implements Handler and is driven by a Decoder. It is not safe for
// concurrent use; all mutation is expected on one goroutine.
type Screen struct {
	rows   [][]Cell
	width  int
	height int

	// top is the index into rows of the first visible line.
	top int

	// curX, curY are the cursor position relative to the viewport.
	curX int
	curY int

	// pen is the graphics state set by SGR and stamped onto printed cells.
	// Its Rune field is unused.
	pen Cell
}

// NewScreen creates a screen buffer with a cols x rows viewport.
// Dimensions are clamped to at least 1x1.
func NewScreen(cols, rows int) *Screen {
	s := &Screen{}
	s.Resize(cols, rows)
	return s
}

// Size returns the viewport dimensions in cells.
func (s *Screen) Size() (cols, rows int) { return s.width, s.height }

// Cursor returns the cursor position relative to the viewport.
func (s *Screen) Cursor() (x, y int) { return s.curX, s.curY }

// Rows returns the total number of scrollback rows materialized so far.
func (s *Screen) Rows() int { return len(s.rows) }

// Top returns the scrollback index of the first visible row.
func (s *Screen) Top() int { return s.top }

// Resize changes the viewport dimensions, re-clamping the cursor and the
// viewport position. Existing content is untouched.
func (s *Screen) Resize(cols, rows int) {
	s.width = max(cols, 1)
	s.height = max(rows, 1)
	s.curX = min(s.curX, s.width-1)
	s.curY = min(s.curY, s.height-1)
	s.clampTop()
}

// Scroll moves the viewport by delta rows: positive scrolls back toward
// older lines, negative toward the most recent. A single call moves at
// most maxScrollStep rows, and the viewport never moves past either end
// of the scrollback.
func (s *Screen) Scroll(delta int) {
	delta = max(min(delta, maxScrollStep), -maxScrollStep)
	s.top -= delta
	s.clampTop()
}

func (s *Screen) clampTop() {
	maxTop := max(len(s.rows)-s.height, 0)
	s.top = max(min(s.top, maxTop), 0)
}

// CellAt returns the cell at the viewport-relative position, or the zero
// cell if the position is out of range or has never been written.
func (s *Screen) CellAt(row, col int) Cell {
	if row < 0 || row >= s.height || col < 0 || col >= s.width {
		return Cell{}
	}
	abs := s.top + row
	if abs >= len(s.rows) || col >= len(s.rows[abs]) {
		return Cell{}
	}
	return s.rows[abs][col]
}

// EachVisible walks the visible cells in row-major order, calling fn for
// every cell that has been materialized. Positions past the end of a ragged
// row are empty and are not reported.
func (s *Screen) EachVisible(fn func(row, col int, c Cell)) {
	for r := 0; r < s.height; r++ {
		abs := s.top + r
		if abs >= len(s.rows) {
			return
		}
		row := s.rows[abs]
		for c := 0; c < min(len(row), s.width); c++ {
			fn(r, c, row[c])
		}
	}
}

// String renders the viewport as text, one line per visible row with
// unwritten cells as spaces. Intended for tests and headless dumps.
func (s *Screen) String() string {
	var b strings.Builder
	for r := 0; r < s.height; r++ {
		line := make([]rune, s.width)
		for c := range line {
			line[c] = ' '
		}
		if abs := s.top + r; abs < len(s.rows) {
			for c, cell := range s.rows[abs] {
				if c >= s.width {
					break
				}
				if !cell.IsEmpty() {
					line[c] = cell.Rune
				}
			}
		}
		b.WriteString(strings.TrimRight(string(line), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// Print places r at the cursor with the current pen attributes and
// advances, wrapping at the right edge. Printing on the bottom row past
// the edge pushes the viewport down by one line.
func (s *Screen) Print(r rune) {
	abs := s.top + s.curY
	s.growRows(abs + 1)
	row := s.rows[abs]
	if s.curX >= len(row) {
		row = append(row, make([]Cell, s.curX-len(row)+1)...)
	}
	row[s.curX] = Cell{
		Rune:      r,
		FG:        s.pen.FG,
		BG:        s.pen.BG,
		Bold:      s.pen.Bold,
		Underline: s.pen.Underline,
	}
	s.rows[abs] = row
	s.curX++
	if s.curX >= s.width {
		s.lineFeed()
	}
}

// Execute performs a C0 control function.
func (s *Screen) Execute(b byte) {
	switch b {
	case '\n':
		s.lineFeed()
	case '\r':
		s.curX = 0
	case 0x08: // BS
		if s.curX > 0 {
			s.curX--
		}
	case 0x09: // HT: advance to the next tab stop, every 8 columns
		s.curX += 8 - s.curX%8
		if s.curX >= s.width {
			s.lineFeed()
		}
	case 0x07: // BEL: nothing to ring
	default:
		logx.Logger().Debug("vt: unhandled control byte", "byte", b)
	}
}

// lineFeed moves the cursor to the start of the next row, advancing the
// viewport when the cursor is already on the bottom row.
func (s *Screen) lineFeed() {
	s.curX = 0
	s.curY++
	if s.curY >= s.height {
		s.curY = s.height - 1
		s.top++
	}
}

func (s *Screen) growRows(n int) {
	for len(s.rows) < n {
		s.rows = append(s.rows, nil)
	}
}

// CSI dispatches a control sequence.
func (s *Screen) CSI(final byte, params []int, private bool) {
	if private {
		logx.Logger().Debug("vt: ignoring private control sequence",
			"final", string(final), "params", params)
		return
	}
	switch final {
	case 'A':
		s.curY = max(s.curY-param(params, 0, 1), 0)
	case 'B':
		s.curY = min(s.curY+param(params, 0, 1), s.height-1)
	case 'C':
		s.curX = min(s.curX+param(params, 0, 1), s.width-1)
	case 'D':
		s.curX = max(s.curX-param(params, 0, 1), 0)
	case 'H', 'f':
		row := param(params, 0, 1)
		col := param(params, 1, 1)
		s.curY = min(max(row-1, 0), s.height-1)
		s.curX = min(max(col-1, 0), s.width-1)
	case 'K':
		s.eraseLine(param(params, 0, 0))
	case 'J':
		s.eraseDisplay(param(params, 0, 0))
	case 'P':
		s.deleteChars(param(params, 0, 1))
	case 'm':
		s.setGraphics(params)
	case 'r':
		// Scroll regions are accepted but not enforced; output keeps the
		// whole viewport as its scroll area.
		logx.Logger().Debug("vt: scroll region ignored",
			"top", param(params, 0, 1), "bottom", param(params, 1, s.height))
	case 'h', 'l':
		logx.Logger().Debug("vt: unhandled mode change",
			"final", string(final), "params", params)
	default:
		logx.Logger().Debug("vt: unhandled control sequence",
			"final", string(final), "params", params)
	}
}

// param returns the i-th parameter, treating missing and zero values as def.
func param(params []int, i, def int) int {
	if i >= len(params) || params[i] == 0 {
		return def
	}
	return params[i]
}

// setGraphics applies SGR parameters to the pen. The pen affects cells
// printed afterwards; existing cells keep the attributes they were printed
// with.
func (s *Screen) setGraphics(params []int) {
	if len(params) == 0 {
		s.pen = Cell{}
		return
	}
	for _, p := range params {
		switch {
		case p == 0:
			s.pen = Cell{}
		case p == 1:
			s.pen.Bold = true
		case p == 4:
			s.pen.Underline = true
		case p >= 30 && p <= 37:
			s.pen.FG = ColorBlack + Color(p-30)
		case p >= 40 && p <= 47:
			s.pen.BG = ColorBlack + Color(p-40)
		default:
			logx.Logger().Debug("vt: unhandled SGR parameter", "param", p)
		}
	}
}

func (s *Screen) eraseLine(mode int) {
	abs := s.top + s.curY
	if abs >= len(s.rows) {
		return
	}
	row := s.rows[abs]
	switch mode {
	case 0: // cursor to end of line
		for i := s.curX; i < len(row); i++ {
			row[i] = Cell{}
		}
	case 1: // start of line through cursor
		for i := 0; i <= s.curX && i < len(row); i++ {
			row[i] = Cell{}
		}
	case 2: // entire line
		for i := range row {
			row[i] = Cell{}
		}
	default:
		logx.Logger().Debug("vt: unhandled erase-in-line mode", "mode", mode)
	}
}

// eraseDisplay erases over the entire scrollback, not just the viewport:
// erased history stays erased when scrolled back to.
func (s *Screen) eraseDisplay(mode int) {
	abs := s.top + s.curY
	switch mode {
	case 0: // cursor to end of display
		s.eraseLine(0)
		for r := abs + 1; r < len(s.rows); r++ {
			clearRow(s.rows[r])
		}
	case 1: // start of display through cursor
		for r := 0; r < abs && r < len(s.rows); r++ {
			clearRow(s.rows[r])
		}
		s.eraseLine(1)
	case 2: // everything
		for _, row := range s.rows {
			clearRow(row)
		}
	default:
		logx.Logger().Debug("vt: unhandled erase-in-display mode", "mode", mode)
	}
}

func clearRow(row []Cell) {
	for i := range row {
		row[i] = Cell{}
	}
}

// deleteChars removes n cells at the cursor, shifting the rest of the row
// left.
func (s *Screen) deleteChars(n int) {
	abs := s.top + s.curY
	if abs >= len(s.rows) {
		return
	}
	row := s.rows[abs]
	if s.curX >= len(row) {
		return
	}
	n = min(n, len(row)-s.curX)
	copy(row[s.curX:], row[s.curX+n:])
	s.rows[abs] = row[:len(row)-n]
}

// Escape handles non-CSI escape sequences. None affect the buffer.
func (s *Screen) Escape(b byte) {
	logx.Logger().Debug("vt: unhandled escape sequence", "final", string(b))
}

// OSC handles operating-system commands (window title and the like).
// None affect the buffer.
func (s *Screen) OSC(payload []byte) {
	logx.Logger().Debug("vt: ignored OSC", "len", len(payload))
}

// DCS handles device-control strings. None affect the buffer.
func (s *Screen) DCS(payload []byte) {
	logx.Logger().Debug("vt: ignored DCS", "len", len(payload))
}
