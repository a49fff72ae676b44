package term

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/term/font"
	"github.com/gogpu/term/shell"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	face, err := font.New(goregular.TTF)
	if err != nil {
		t.Fatalf("font.New: %v", err)
	}
	t.Cleanup(func() { face.Close() })

	cfg := DefaultConfig()
	cfg.Shell = "cat"
	sess, err := NewSessionWithFace(face, cfg)
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	t.Cleanup(func() { sess.Close() })
	return sess
}

// pumpUntil pumps the session until the screen contains want.
func pumpUntil(t *testing.T, sess *Session, want string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for !strings.Contains(sess.Screen().String(), want) {
		select {
		case <-sess.Wake():
			sess.Pump()
		case <-deadline:
			t.Fatalf("screen never showed %q:\n%s", want, sess.Screen().String())
		}
	}
}

func TestSessionEchoReachesScreen(t *testing.T) {
	sess := newTestSession(t)
	if err := sess.SendText("hello"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	pumpUntil(t, sess, "hello")
}

func TestSessionEnterKey(t *testing.T) {
	sess := newTestSession(t)
	if err := sess.SendText("abc"); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if err := sess.SendKey(shell.KeyEnter); err != nil {
		t.Fatalf("SendKey: %v", err)
	}
	// cat echoes the line back after Enter, so "abc" appears twice.
	pumpUntil(t, sess, "abc")
}

func TestSessionResizePixels(t *testing.T) {
	sess := newTestSession(t)
	cm := sess.CellMetrics()
	if err := sess.ResizePixels(cm.Width*100, cm.Height*30); err != nil {
		t.Fatalf("ResizePixels: %v", err)
	}
	cols, rows := sess.Screen().Size()
	if cols != 100 || rows != 30 {
		t.Errorf("grid = %dx%d, want 100x30", cols, rows)
	}
}

func TestSessionPumpEmpty(t *testing.T) {
	sess := newTestSession(t)
	// Drain whatever the startup produced, then a quiet pump is zero.
	sess.Pump()
	time.Sleep(50 * time.Millisecond)
	sess.Pump()
	if n := sess.Pump(); n != 0 {
		t.Errorf("Pump on idle session = %d", n)
	}
}
