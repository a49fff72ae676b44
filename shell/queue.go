package shell

import "sync"

// Queue is an unbounded FIFO of output chunks bridging the pty reader
// goroutine and the render loop. The reader never blocks on a full
// buffer; the render loop takes everything pending at once.
type Queue struct {
	mu     sync.Mutex
	chunks [][]byte

	// wake is signalled (capacity 1, never blocking) when data arrives
	// while the queue was empty.
	wake chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Push appends a chunk. The caller must not reuse the slice.
func (q *Queue) Push(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	q.mu.Lock()
	q.chunks = append(q.chunks, chunk)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Drain removes and concatenates everything pending, preserving arrival
// order. Returns nil when the queue is empty.
func (q *Queue) Drain() []byte {
	q.mu.Lock()
	chunks := q.chunks
	q.chunks = nil
	q.mu.Unlock()

	if len(chunks) == 0 {
		return nil
	}
	if len(chunks) == 1 {
		return chunks[0]
	}
	var total int
	for _, c := range chunks {
		total += len(c)
	}
	out := make([]byte, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

// Len returns the number of buffered bytes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	var n int
	for _, c := range q.chunks {
		n += len(c)
	}
	return n
}

// Wake returns a channel that receives after data arrives, for render
// loops that sleep between frames.
func (q *Queue) Wake() <-chan struct{} { return q.wake }
