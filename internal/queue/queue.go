// Package queue publishes composed reports to a message broker. Only the
// publishing side is implemented; consumers are external.
package queue

import "context"

// Publisher delivers encoded reports to a subject (NATS subject, Redis
// stream suffix or Kafka topic)
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}

var (
	_ Publisher = (*MemoryPublisher)(nil)
	_ Publisher = (*NATSPublisher)(nil)
	_ Publisher = (*RedisPublisher)(nil)
	_ Publisher = (*KafkaPublisher)(nil)
)
