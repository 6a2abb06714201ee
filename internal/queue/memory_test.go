package queue

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryPublisher_PublishReceive(t *testing.T) {
	q := NewMemoryPublisher()
	defer func() { _ = q.Close() }()

	ctx := context.Background()
	payload := []byte(`{"id":"r1"}`)
	if err := q.Publish(ctx, "thermal.reports", payload); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	// Mutating the caller's slice must not affect the buffered copy
	payload[2] = 'X'

	if got := q.Pending("thermal.reports"); got != 1 {
		t.Fatalf("Expected 1 pending message, got %d", got)
	}

	data, err := q.Receive(ctx, "thermal.reports")
	if err != nil {
		t.Fatalf("Receive failed: %v", err)
	}
	if string(data) != `{"id":"r1"}` {
		t.Errorf("Unexpected payload %q", data)
	}
	if got := q.Pending("thermal.reports"); got != 0 {
		t.Errorf("Expected 0 pending messages, got %d", got)
	}
}

func TestMemoryPublisher_SubjectsAreIsolated(t *testing.T) {
	q := NewMemoryPublisher()
	defer func() { _ = q.Close() }()

	ctx := context.Background()
	_ = q.Publish(ctx, "a", []byte("1"))
	_ = q.Publish(ctx, "a", []byte("2"))
	_ = q.Publish(ctx, "b", []byte("3"))

	if q.Pending("a") != 2 || q.Pending("b") != 1 || q.Pending("c") != 0 {
		t.Errorf("Unexpected pending counts a=%d b=%d c=%d", q.Pending("a"), q.Pending("b"), q.Pending("c"))
	}
}

func TestMemoryPublisher_Full(t *testing.T) {
	q := NewMemoryPublisher()
	defer func() { _ = q.Close() }()

	ctx := context.Background()
	for i := 0; i < memoryCapacity; i++ {
		if err := q.Publish(ctx, "s", []byte{byte(i)}); err != nil {
			t.Fatalf("Publish %d failed: %v", i, err)
		}
	}
	if err := q.Publish(ctx, "s", []byte("overflow")); err == nil {
		t.Fatal("Expected error when channel is full")
	}
}

func TestMemoryPublisher_ReceiveHonoursContext(t *testing.T) {
	q := NewMemoryPublisher()
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := q.Receive(ctx, "empty"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
}

func TestMemoryPublisher_Closed(t *testing.T) {
	q := NewMemoryPublisher()
	_ = q.Publish(context.Background(), "s", []byte("x"))

	if err := q.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := q.Publish(context.Background(), "s", []byte("y")); err == nil {
		t.Fatal("Expected error publishing after close")
	}
	if q.Pending("s") != 0 {
		t.Error("Expected buffers to be dropped on close")
	}
}
