package queue

import (
	"sync"
)

// Queue holds rendered frames between the worker pool and the sequential
// writer. Renderers finish in arbitrary order; the writer drains strictly
// by index. Capacity bounds how many finished frames can pile up while
// the writer waits for an earlier index, which is what keeps export
// memory flat no matter how uneven the per-frame render times are.
type Queue struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	pending  map[int][]byte
	capacity int
	closed   bool

	puts       int
	takes      int
	maxPending int
}

// Stats is a snapshot of queue counters, mostly for debug logging and
// the bounded memory checks in tests.
type Stats struct {
	Puts       int
	Takes      int
	MaxPending int
}

func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	q := &Queue{
		pending:  make(map[int][]byte, capacity),
		capacity: capacity,
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Put inserts a rendered frame, blocking while the queue is full.
// Returns false if the queue was cancelled, in which case the frame is
// discarded and the caller should stop producing.
// Each index is inserted at most once; the claim counter upstream
// guarantees that, so Put never overwrites.
func (q *Queue) Put(idx int, buf []byte) bool {
	q.mu.Lock()
	for len(q.pending) >= q.capacity && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.pending[idx] = buf
	q.puts++
	if len(q.pending) > q.maxPending {
		q.maxPending = len(q.pending)
	}
	q.mu.Unlock()
	q.notEmpty.Broadcast()
	return true
}

// Take blocks until the exact index is present, removes it and hands the
// buffer to the caller. Returns false if the queue was cancelled first.
func (q *Queue) Take(idx int) ([]byte, bool) {
	q.mu.Lock()
	for {
		if q.closed {
			q.mu.Unlock()
			return nil, false
		}
		if buf, ok := q.pending[idx]; ok {
			delete(q.pending, idx)
			q.takes++
			q.mu.Unlock()
			q.notFull.Broadcast()
			return buf, true
		}
		q.notEmpty.Wait()
	}
}

// Cancel closes the queue and wakes every blocked producer and consumer
// so they can observe the cancellation instead of waiting for progress
// that will never come.
func (q *Queue) Cancel() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) Cap() int {
	return q.capacity
}

func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Puts:       q.puts,
		Takes:      q.takes,
		MaxPending: q.maxPending,
	}
}
