package shell

import (
	"bytes"
	"sync"
	"testing"
)

func TestQueueDrainPreservesOrder(t *testing.T) {
	q := NewQueue()
	q.Push([]byte("hel"))
	q.Push([]byte("lo "))
	q.Push([]byte("world"))

	if got := q.Drain(); !bytes.Equal(got, []byte("hello world")) {
		t.Errorf("Drain = %q", got)
	}
	if got := q.Drain(); got != nil {
		t.Errorf("second Drain = %q, want nil", got)
	}
}

func TestQueueIgnoresEmptyChunks(t *testing.T) {
	q := NewQueue()
	q.Push(nil)
	q.Push([]byte{})
	if q.Len() != 0 {
		t.Errorf("Len = %d, want 0", q.Len())
	}
}

func TestQueueWake(t *testing.T) {
	q := NewQueue()
	select {
	case <-q.Wake():
		t.Fatal("wake fired on an empty queue")
	default:
	}

	q.Push([]byte("x"))
	q.Push([]byte("y")) // second push must not block on the full wake channel
	select {
	case <-q.Wake():
	default:
		t.Fatal("no wake after push")
	}
}

func TestQueueConcurrentPush(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Push([]byte("ab"))
			}
		}()
	}
	wg.Wait()

	var total int
	for {
		chunk := q.Drain()
		if chunk == nil {
			break
		}
		total += len(chunk)
	}
	if total != 8*100*2 {
		t.Errorf("drained %d bytes, want %d", total, 8*100*2)
	}
}

func TestKeyEncoding(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyEnter, "\r"},
		{KeyBackspace, "\x08"},
		{KeyTab, "\t"},
		{KeyUp, "\x1b[A"},
		{KeyDown, "\x1b[B"},
		{KeyRight, "\x1b[C"},
		{KeyLeft, "\x1b[D"},
	}
	for _, tt := range tests {
		if got := tt.key.Encode(); !bytes.Equal(got, []byte(tt.want)) {
			t.Errorf("Key(%d).Encode() = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestEncodeRune(t *testing.T) {
	if got := EncodeRune('é'); !bytes.Equal(got, []byte("é")) {
		t.Errorf("EncodeRune('é') = %q", got)
	}
	if EncodeRune(0x07) != nil {
		t.Error("EncodeRune encoded a control rune")
	}
}
