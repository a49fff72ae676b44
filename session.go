package term

import (
	"fmt"

	"github.com/gogpu/term/font"
	"github.com/gogpu/term/shell"
	"github.com/gogpu/term/vt"
)

// Session ties a shell process to a screen buffer: pty output drains
// through the control-sequence decoder into the screen, input flows
// back through the pty. Rendering sits on top; a Session is fully
// usable headless.
//
// All methods except Wake and Done must be called from one goroutine,
// typically the render loop.
type Session struct {
	cfg  Config
	face *font.Face

	// ownFace is set when the session loaded the face and must close it.
	ownFace bool

	screen *vt.Screen
	dec    *vt.Decoder
	sh     *shell.Shell

	cell font.CellMetrics
}

// NewSession starts a shell session, loading the font named in the
// configuration.
func NewSession(cfg Config) (*Session, error) {
	if cfg.FontPath == "" {
		return nil, &ConfigError{Field: "FontPath", Reason: "required"}
	}
	face, err := font.Load(cfg.FontPath)
	if err != nil {
		return nil, err
	}
	s, err := NewSessionWithFace(face, cfg)
	if err != nil {
		face.Close()
		return nil, err
	}
	s.ownFace = true
	return s, nil
}

// NewSessionWithFace starts a shell session with a caller-provided
// face. The caller keeps ownership of the face.
func NewSessionWithFace(face *font.Face, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cell, err := face.Metrics(cfg.FontSize)
	if err != nil {
		return nil, fmt.Errorf("term: font metrics: %w", err)
	}

	screen := vt.NewScreen(cfg.Cols, cfg.Rows)
	sh, err := shell.Start(cfg.Shell, cfg.Cols, cfg.Rows)
	if err != nil {
		return nil, err
	}
	return &Session{
		cfg:    cfg,
		face:   face,
		screen: screen,
		dec:    vt.NewDecoder(screen),
		sh:     sh,
		cell:   cell,
	}, nil
}

// Screen returns the screen buffer frames are rendered from.
func (s *Session) Screen() *vt.Screen { return s.screen }

// Face returns the loaded font face.
func (s *Session) Face() *font.Face { return s.face }

// FontSize returns the configured glyph pixel size.
func (s *Session) FontSize() int { return s.cfg.FontSize }

// CellMetrics returns the character-cell geometry of the session font.
func (s *Session) CellMetrics() font.CellMetrics { return s.cell }

// Pump drains pending shell output into the screen and reports how
// many bytes were processed. Zero means nothing arrived since the last
// call; callers can skip the redraw.
func (s *Session) Pump() int {
	data := s.sh.Output().Drain()
	if len(data) == 0 {
		return 0
	}
	s.dec.Write(data)
	return len(data)
}

// Wake returns a channel that receives when shell output arrives, for
// render loops that sleep between frames.
func (s *Session) Wake() <-chan struct{} { return s.sh.Output().Wake() }

// Done is closed when the shell's output stream ends.
func (s *Session) Done() <-chan struct{} { return s.sh.Done() }

// SendKey forwards a non-text key to the shell.
func (s *Session) SendKey(k shell.Key) error {
	seq := k.Encode()
	if seq == nil {
		return nil
	}
	_, err := s.sh.Write(seq)
	return err
}

// SendText forwards typed text to the shell, skipping control runes.
func (s *Session) SendText(text string) error {
	for _, r := range text {
		seq := shell.EncodeRune(r)
		if seq == nil {
			continue
		}
		if _, err := s.sh.Write(seq); err != nil {
			return err
		}
	}
	return nil
}

// Scroll moves the viewport through the scrollback; positive is toward
// older lines.
func (s *Session) Scroll(delta int) { s.screen.Scroll(delta) }

// Resize changes the grid dimensions, updating both the screen and the
// pty.
func (s *Session) Resize(cols, rows int) error {
	s.screen.Resize(cols, rows)
	return s.sh.Resize(cols, rows)
}

// ResizePixels converts a window size to grid cells using the font's
// cell metrics and resizes. Sizes smaller than one cell clamp to 1x1.
func (s *Session) ResizePixels(width, height int) error {
	cols := max(width/s.cell.Width, 1)
	rows := max(height/s.cell.Height, 1)
	return s.Resize(cols, rows)
}

// Close shuts down the shell and releases session resources.
func (s *Session) Close() error {
	err := s.sh.Close()
	if s.ownFace {
		if cerr := s.face.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
