package shell

import (
	"bytes"
	"testing"
	"time"
)

func TestShellEchoesInput(t *testing.T) {
	s, err := Start("cat", 80, 24)
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	defer s.Close()

	if _, err := s.Write([]byte("hello\r")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	deadline := time.After(5 * time.Second)
	var got []byte
	for !bytes.Contains(got, []byte("hello")) {
		select {
		case <-s.Output().Wake():
			got = append(got, s.Output().Drain()...)
		case <-deadline:
			t.Fatalf("no echo after 5s, got %q", got)
		}
	}
}

func TestShellResize(t *testing.T) {
	s, err := Start("cat", 80, 24)
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	defer s.Close()

	if err := s.Resize(120, 40); err != nil {
		t.Errorf("Resize: %v", err)
	}
}

func TestCloseReturnsWhileReaderBlocked(t *testing.T) {
	s, err := Start("cat", 80, 24)
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}

	// Make sure the reader is up and parked in its blocking read again
	// by waiting for an echo round trip.
	if _, err := s.Write([]byte("hello\r")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	deadline := time.After(5 * time.Second)
	var got []byte
	for !bytes.Contains(got, []byte("hello")) {
		select {
		case <-s.Output().Wake():
			got = append(got, s.Output().Drain()...)
		case <-deadline:
			t.Fatalf("no echo after 5s, got %q", got)
		}
	}

	closed := make(chan error, 1)
	go func() { closed <- s.Close() }()
	select {
	case err := <-closed:
		if err != nil {
			t.Errorf("Close: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return while the reader was blocked")
	}
}

func TestShellDoneAfterClose(t *testing.T) {
	s, err := Start("cat", 80, 24)
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	s.Close()

	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("Done not closed after Close")
	}
}
