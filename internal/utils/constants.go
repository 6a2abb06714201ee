package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// PublishTimeout bounds a single report publish call
	PublishTimeout = 5 * time.Second

	// SourceFetchTimeout is the default timeout for remote feed retrieval
	SourceFetchTimeout = 10 * time.Second

	// ShutdownTimeout is the graceful shutdown window for the HTTP server
	ShutdownTimeout = 10 * time.Second
)

// =============================================================================
// Analysis Constants
// =============================================================================

const (
	// DefaultCadence is assumed when a series has fewer than two samples
	DefaultCadence = 10 * time.Minute

	// DefaultThreshold is the default alert temperature in °C
	DefaultThreshold = 30.0

	// DefaultHotWindow is the default hot-window duration
	DefaultHotWindow = 2 * time.Hour

	// DefaultMaxGap is the default maximum spacing between samples
	DefaultMaxGap = 30 * time.Minute

	// DefaultMinOK and DefaultMaxOK bound plausible sensor temperatures
	DefaultMinOK = -20.0
	DefaultMaxOK = 60.0

	// MaxRowErrors caps the number of row-level parse errors kept for diagnostics
	MaxRowErrors = 100

	// MaxUploadSize is the maximum accepted upload body in bytes
	MaxUploadSize = 32 * 1024 * 1024
)

// =============================================================================
// Queue Type Constants
// =============================================================================

// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNone disables report publishing
	QueueTypeNone QueueType = "none"

	// QueueTypeNATS represents NATS JetStream queue
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (for testing)
	QueueTypeMemory QueueType = "memory"
)
