// Package shell runs the child shell process on a pty and pumps its
// output to the terminal.
//
// A Shell owns the process and the pty pair. A reader goroutine drains
// the pty into an unbounded Queue; the render loop takes whatever has
// accumulated with Drain and feeds it to the control-sequence decoder.
// Input travels the other way through Write and the key helpers.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/creack/pty"

	"github.com/gogpu/term/internal/logx"
)

// readBufSize is the per-read buffer for draining the pty.
const readBufSize = 4096

// Shell is a child process attached to a pty.
type Shell struct {
	cmd *exec.Cmd
	pty *os.File

	out *Queue

	done chan struct{}
}

// Start launches the program on a new pty with the given initial grid
// size. TERM is set so the child emits sequences the decoder handles.
func Start(program string, cols, rows int) (*Shell, error) {
	if program == "" {
		program = os.Getenv("SHELL")
	}
	if program == "" {
		program = "/bin/sh"
	}

	cmd := exec.Command(program)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: uint16(cols),
		Rows: uint16(rows),
	})
	if err != nil {
		return nil, fmt.Errorf("shell: start %s: %w", program, err)
	}

	s := &Shell{
		cmd:  cmd,
		pty:  ptmx,
		out:  NewQueue(),
		done: make(chan struct{}),
	}
	go s.readLoop()
	logx.Logger().Info("shell: started", "program", program, "pid", cmd.Process.Pid)
	return s, nil
}

// readLoop drains the pty into the output queue until the child exits
// or the pty is closed.
func (s *Shell) readLoop() {
	defer close(s.done)
	buf := make([]byte, readBufSize)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.out.Push(chunk)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				logx.Logger().Debug("shell: pty read ended", "error", err)
			}
			return
		}
		if n == 0 {
			return
		}
	}
}

// Output returns the queue the pty output accumulates in.
func (s *Shell) Output() *Queue { return s.out }

// Done is closed when the child's output stream ends.
func (s *Shell) Done() <-chan struct{} { return s.done }

// Write sends bytes to the child's stdin.
func (s *Shell) Write(p []byte) (int, error) {
	return s.pty.Write(p)
}

// Resize tells the kernel and the child about a new grid size.
func (s *Shell) Resize(cols, rows int) error {
	err := pty.Setsize(s.pty, &pty.Winsize{
		Cols: uint16(cols),
		Rows: uint16(rows),
	})
	if err != nil {
		return fmt.Errorf("shell: resize to %dx%d: %w", cols, rows, err)
	}
	return nil
}

// Close terminates the child, waits for the reader to drain, and closes
// the pty.
func (s *Shell) Close() error {
	// Kill the child first: closing the master alone cannot unblock the
	// reader, whose in-flight read keeps the pty alive. Once the child
	// exits the slave side closes and the master read returns EIO, so
	// the reader goroutine is guaranteed to finish.
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	}
	<-s.done
	return s.pty.Close()
}
