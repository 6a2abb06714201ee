package queue

import (
	"context"
	"fmt"
	"sync"
)

// memoryCapacity bounds each subject's buffer
const memoryCapacity = 1024

// MemoryPublisher implements Publisher using in-memory channels.
// Useful for tests and single-process setups without a broker.
type MemoryPublisher struct {
	channels map[string]chan []byte
	closed   bool
	mu       sync.Mutex
}

// NewMemoryPublisher creates a new in-memory publisher
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{
		channels: make(map[string]chan []byte),
	}
}

// channel returns the subject's channel, creating it on first use
func (q *MemoryPublisher) channel(subject string) (chan []byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, fmt.Errorf("memory publisher closed")
	}
	if ch, exists := q.channels[subject]; exists {
		return ch, nil
	}

	ch := make(chan []byte, memoryCapacity)
	q.channels[subject] = ch
	return ch, nil
}

// Publish buffers a copy of data under subject
func (q *MemoryPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	ch, err := q.channel(subject)
	if err != nil {
		return err
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	select {
	case ch <- dataCopy:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("channel full for subject: %s", subject)
	}
}

// Receive blocks until a message is available on subject or ctx is done
func (q *MemoryPublisher) Receive(ctx context.Context, subject string) ([]byte, error) {
	ch, err := q.channel(subject)
	if err != nil {
		return nil, err
	}

	select {
	case data := <-ch:
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pending returns the number of buffered messages for a subject
func (q *MemoryPublisher) Pending(subject string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if ch, exists := q.channels[subject]; exists {
		return len(ch)
	}
	return 0
}

// Close drops all buffered messages; later publishes fail
func (q *MemoryPublisher) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	for subject := range q.channels {
		delete(q.channels, subject)
	}
	return nil
}
