package midi

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Producer is the producer end of a Queue shared by several sources (the
// hardware port and the terminal keyboard). The mutex is only taken on
// the producer side; the consumer never waits on it.
type Producer struct {
	mu        sync.Mutex
	q         *Queue
	malformed atomic.Uint64
}

// NewProducer wraps q's producer end
func NewProducer(q *Queue) *Producer {
	return &Producer{q: q}
}

// Send queues a decoded message
func (p *Producer) Send(m Message) error {
	p.mu.Lock()
	ok := p.q.Push(m)
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrQueueFull, m)
	}
	return nil
}

// SendRaw decodes raw and queues the result
func (p *Producer) SendRaw(raw []byte) error {
	m, err := Decode(raw)
	if err != nil {
		p.malformed.Add(1)
		return err
	}
	return p.Send(m)
}

// Malformed returns how many raw messages failed to decode
func (p *Producer) Malformed() uint64 {
	return p.malformed.Load()
}

// Queue returns the underlying queue
func (p *Producer) Queue() *Queue {
	return p.q
}
