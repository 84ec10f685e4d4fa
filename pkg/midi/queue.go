package midi

import "sync/atomic"

// QueueCapacity is the number of messages the transport holds
const QueueCapacity = 256

const queueMask = QueueCapacity - 1

// Queue is a bounded single-producer single-consumer ring of messages.
// Push must only be called from one goroutine at a time and Pop from one
// (other) goroutine; neither side blocks. A full queue drops the message.
type Queue struct {
	// head is owned by the consumer, tail by the producer
	head atomic.Uint64
	_    [56]byte
	tail atomic.Uint64
	_    [56]byte

	accepted atomic.Uint64
	dropped  atomic.Uint64

	buf [QueueCapacity]Message
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends m, returning false (and counting a drop) when the queue is full
func (q *Queue) Push(m Message) bool {
	t := q.tail.Load()
	if t-q.head.Load() >= QueueCapacity {
		q.dropped.Add(1)
		return false
	}
	q.buf[t&queueMask] = m
	q.tail.Store(t + 1)
	q.accepted.Add(1)
	return true
}

// Pop removes the oldest message into m. It reports false when empty.
func (q *Queue) Pop(m *Message) bool {
	h := q.head.Load()
	if h == q.tail.Load() {
		return false
	}
	slot := &q.buf[h&queueMask]
	*m = *slot
	*slot = Message{}
	q.head.Store(h + 1)
	return true
}

// Drain pops every queued message in FIFO order and hands it to fn.
// It returns the number of messages drained.
func (q *Queue) Drain(fn func(Message)) int {
	var (
		m Message
		n int
	)
	for q.Pop(&m) {
		fn(m)
		n++
	}
	return n
}

// Len returns the number of queued messages
func (q *Queue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// Stats returns how many messages were accepted and dropped so far
func (q *Queue) Stats() (accepted, dropped uint64) {
	return q.accepted.Load(), q.dropped.Load()
}
