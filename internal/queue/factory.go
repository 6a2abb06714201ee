package queue

import (
	"fmt"
	"strings"

	"github.com/soltixdb/thermalreport/internal/config"
	"github.com/soltixdb/thermalreport/internal/utils"
)

// NewPublisher creates the report Publisher selected by cfg.Type.
// "none" (or empty) disables publishing and returns a nil Publisher.
func NewPublisher(cfg config.QueueConfig) (Publisher, error) {
	queueType := utils.QueueType(strings.ToLower(strings.TrimSpace(cfg.Type)))

	var (
		p   Publisher
		err error
	)
	switch queueType {
	case "", utils.QueueTypeNone:
		return nil, nil
	case utils.QueueTypeMemory:
		return NewMemoryPublisher(), nil
	case utils.QueueTypeNATS:
		p, err = newNATSPublisher(cfg.URL)
	case utils.QueueTypeRedis:
		p, err = newRedisPublisher(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
			MaxLen:   cfg.RedisMaxLen,
		})
	case utils.QueueTypeKafka:
		p, err = newKafkaPublisher(KafkaConfig{Brokers: cfg.KafkaBrokers})
	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: none, memory, nats, redis, kafka)", queueType)
	}
	if err != nil {
		return nil, fmt.Errorf("%s publisher: %w", queueType, err)
	}
	return p, nil
}
