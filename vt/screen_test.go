package vt

import "testing"

func feed(t *testing.T, s *Screen, input string) {
	t.Helper()
	d := NewDecoder(s)
	if _, err := d.Write([]byte(input)); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestPrintAdvancesCursor(t *testing.T) {
	s := NewScreen(10, 4)
	feed(t, s, "hi")
	if x, y := s.Cursor(); x != 2 || y != 0 {
		t.Errorf("cursor = (%d,%d), want (2,0)", x, y)
	}
	if got := s.CellAt(0, 0).Rune; got != 'h' {
		t.Errorf("cell(0,0) = %q, want 'h'", got)
	}
	if got := s.CellAt(0, 1).Rune; got != 'i' {
		t.Errorf("cell(0,1) = %q, want 'i'", got)
	}
}

func TestPrintWrapsAtRightEdge(t *testing.T) {
	s := NewScreen(3, 4)
	feed(t, s, "abcd")
	if got := s.CellAt(1, 0).Rune; got != 'd' {
		t.Errorf("cell(1,0) = %q, want 'd'", got)
	}
	if x, y := s.Cursor(); x != 1 || y != 1 {
		t.Errorf("cursor = (%d,%d), want (1,1)", x, y)
	}
}

func TestPrintAtBottomAdvancesViewport(t *testing.T) {
	s := NewScreen(80, 3)
	feed(t, s, "1\n2\n3\n4")
	if s.Top() != 1 {
		t.Errorf("top = %d, want 1", s.Top())
	}
	// The viewport now shows rows 2, 3, 4.
	if got := s.CellAt(0, 0).Rune; got != '2' {
		t.Errorf("cell(0,0) = %q, want '2'", got)
	}
	if got := s.CellAt(2, 0).Rune; got != '4' {
		t.Errorf("cell(2,0) = %q, want '4'", got)
	}
}

func TestCarriageReturnAndBackspace(t *testing.T) {
	s := NewScreen(10, 2)
	feed(t, s, "abc\rX")
	if got := s.CellAt(0, 0).Rune; got != 'X' {
		t.Errorf("cell(0,0) = %q, want 'X'", got)
	}
	feed(t, s, "\x08\x08Y")
	// Cursor was at 1 after X; two backspaces floor at 0.
	if got := s.CellAt(0, 0).Rune; got != 'Y' {
		t.Errorf("cell(0,0) = %q, want 'Y'", got)
	}
	if x, _ := s.Cursor(); x != 1 {
		t.Errorf("cursor x = %d, want 1", x)
	}
}

func TestTabStops(t *testing.T) {
	s := NewScreen(20, 2)
	feed(t, s, "a\tb")
	if got := s.CellAt(0, 8).Rune; got != 'b' {
		t.Errorf("cell(0,8) = %q, want 'b'", got)
	}
	// A tab that runs off the right edge behaves like a newline.
	s = NewScreen(10, 3)
	feed(t, s, "12345678\tx")
	if got := s.CellAt(1, 0).Rune; got != 'x' {
		t.Errorf("cell(1,0) = %q, want 'x'", got)
	}
}

func TestCursorMovementClamped(t *testing.T) {
	s := NewScreen(10, 5)
	feed(t, s, "\x1b[3;4H")
	if x, y := s.Cursor(); x != 3 || y != 2 {
		t.Errorf("cursor = (%d,%d), want (3,2)", x, y)
	}
	feed(t, s, "\x1b[99A")
	if _, y := s.Cursor(); y != 0 {
		t.Errorf("cursor y after big up = %d, want 0", y)
	}
	feed(t, s, "\x1b[99B\x1b[99C")
	if x, y := s.Cursor(); x != 9 || y != 4 {
		t.Errorf("cursor = (%d,%d), want (9,4)", x, y)
	}
	feed(t, s, "\x1b[D")
	if x, _ := s.Cursor(); x != 8 {
		t.Errorf("cursor x after left = %d, want 8", x)
	}
	// Missing params default to 1, position params are 1-based.
	feed(t, s, "\x1b[H")
	if x, y := s.Cursor(); x != 0 || y != 0 {
		t.Errorf("cursor after CSI H = (%d,%d), want (0,0)", x, y)
	}
}

func TestSGRPenAppliesToPrintedCells(t *testing.T) {
	s := NewScreen(10, 2)
	feed(t, s, "\x1b[1;4;31;42mX")
	c := s.CellAt(0, 0)
	if !c.Bold || !c.Underline {
		t.Errorf("cell attrs = bold:%v underline:%v, want both true", c.Bold, c.Underline)
	}
	if c.FG != ColorRed || c.BG != ColorGreen {
		t.Errorf("cell colors = fg:%v bg:%v, want red/green", c.FG, c.BG)
	}

	feed(t, s, "\x1b[0mY")
	c = s.CellAt(0, 1)
	if c.Bold || c.Underline || c.FG != ColorDefault || c.BG != ColorDefault {
		t.Errorf("cell after reset = %+v, want zero attrs and default colors", c)
	}

	// An earlier cell keeps the attributes it was printed with.
	if c := s.CellAt(0, 0); !c.Bold {
		t.Error("reset changed an already printed cell")
	}
}

func TestSGREmptyParamsReset(t *testing.T) {
	s := NewScreen(10, 2)
	feed(t, s, "\x1b[31ma\x1b[mb")
	if c := s.CellAt(0, 1); c.FG != ColorDefault {
		t.Errorf("cell fg after CSI m = %v, want default", c.FG)
	}
}

func TestEraseInLine(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"0", "ab\n"},      // cursor to end
		{"1", "   de\n"},   // start through cursor
		{"2", "\n"},        // whole line
	}
	for _, tt := range tests {
		s := NewScreen(10, 1)
		feed(t, s, "abcde\x1b[3;3H\x1b["+tt.mode+"K")
		// Height 1, so H clamps to row 0, col 2.
		if got := s.String(); got != tt.want {
			t.Errorf("mode %s: viewport = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestEraseDisplayClearsEverything(t *testing.T) {
	s := NewScreen(5, 2)
	feed(t, s, "aaaa\nbbbb\ncccc\ndddd")
	feed(t, s, "\x1b[2J")
	// Every cell in the whole scrollback is back to the zero value,
	// including rows scrolled off above the viewport.
	for r, row := range s.rows {
		for c, cell := range row {
			if !cell.IsEmpty() {
				t.Errorf("scrollback cell (%d,%d) = %+v after full erase", r, c, cell)
			}
		}
	}
}

func TestEraseDisplayFromCursor(t *testing.T) {
	s := NewScreen(5, 3)
	feed(t, s, "1111\n2222\n3333\x1b[2;2H\x1b[0J")
	want := "1111\n2\n\n"
	if got := s.String(); got != want {
		t.Errorf("viewport = %q, want %q", got, want)
	}
}

func TestEraseDisplayToCursor(t *testing.T) {
	s := NewScreen(5, 3)
	feed(t, s, "1111\n2222\n3333\x1b[2;2H\x1b[1J")
	want := "\n  22\n3333\n"
	if got := s.String(); got != want {
		t.Errorf("viewport = %q, want %q", got, want)
	}
}

func TestDeleteCharacters(t *testing.T) {
	s := NewScreen(10, 1)
	feed(t, s, "abcdef\x1b[1;2H\x1b[2P")
	want := "adef\n"
	if got := s.String(); got != want {
		t.Errorf("viewport = %q, want %q", got, want)
	}
	// Deleting more than remains truncates at the cursor.
	feed(t, s, "\x1b[99P")
	if got := s.String(); got != "a\n" {
		t.Errorf("viewport = %q, want %q", got, "a\n")
	}
}

func TestScrollClamping(t *testing.T) {
	s := NewScreen(80, 3)
	for i := 0; i < 10; i++ {
		feed(t, s, "line\n")
	}
	// Scrolling back further than the history stops at row 0.
	for i := 0; i < 20; i++ {
		s.Scroll(maxScrollStep)
	}
	if s.Top() != 0 {
		t.Errorf("top after scrolling past start = %d, want 0", s.Top())
	}
	// Scrolling forward stops at rows-height.
	for i := 0; i < 20; i++ {
		s.Scroll(-maxScrollStep)
	}
	if want := s.Rows() - 3; s.Top() != want {
		t.Errorf("top after scrolling past end = %d, want %d", s.Top(), want)
	}
}

func TestScrollStepClamped(t *testing.T) {
	s := NewScreen(80, 3)
	for i := 0; i < 20; i++ {
		feed(t, s, "line\n")
	}
	top := s.Top()
	s.Scroll(100)
	if got := top - s.Top(); got != maxScrollStep {
		t.Errorf("single scroll moved %d rows, want %d", got, maxScrollStep)
	}
}

func TestResizeClampsCursorAndViewport(t *testing.T) {
	s := NewScreen(20, 10)
	feed(t, s, "\x1b[10;20H")
	s.Resize(5, 3)
	if x, y := s.Cursor(); x != 4 || y != 2 {
		t.Errorf("cursor after shrink = (%d,%d), want (4,2)", x, y)
	}
	if cols, rows := s.Size(); cols != 5 || rows != 3 {
		t.Errorf("size = (%d,%d), want (5,3)", cols, rows)
	}
}

func TestUnknownSequencesAreIgnored(t *testing.T) {
	s := NewScreen(10, 2)
	feed(t, s, "a\x1b[?25h\x1b[38;5;196m\x1b]0;title\x07b")
	if got := s.CellAt(0, 0).Rune; got != 'a' {
		t.Errorf("cell(0,0) = %q, want 'a'", got)
	}
	if got := s.CellAt(0, 1).Rune; got != 'b' {
		t.Errorf("cell(0,1) = %q, want 'b'", got)
	}
}
