package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/asaase-aban/registry/common/logger"
)

// Queue interface for message passing. The registry publishes domain events
// (submission reviewed, land transferred) that in-process projectors consume.
type Queue interface {
	Publish(ctx context.Context, topic string, key string, message []byte) error
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error
	Close() error
}

// MessageHandler processes messages
type MessageHandler func(ctx context.Context, key string, value []byte) error

// MemoryQueue is an in-memory queue backed by buffered channels. Close drains
// subscribers before returning, so events published before shutdown are still
// projected.
type MemoryQueue struct {
	topics map[string]chan *Message
	mu     sync.Mutex
	subs   sync.WaitGroup
	closed bool
	log    *logger.Logger
}

// Message represents a queue message
type Message struct {
	Topic string
	Key   string
	Value []byte
}

// NewMemoryQueue creates a new in-memory queue
func NewMemoryQueue(log *logger.Logger) *MemoryQueue {
	return &MemoryQueue{
		topics: make(map[string]chan *Message),
		log:    log,
	}
}

func (q *MemoryQueue) topic(name string) (chan *Message, error) {
	if q.closed {
		return nil, fmt.Errorf("queue is closed")
	}
	ch, exists := q.topics[name]
	if !exists {
		ch = make(chan *Message, 1000)
		q.topics[name] = ch
	}
	return ch, nil
}

// Publish publishes a message to a topic
func (q *MemoryQueue) Publish(ctx context.Context, topic string, key string, message []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	ch, err := q.topic(topic)
	if err != nil {
		return err
	}

	msg := &Message{
		Topic: topic,
		Key:   key,
		Value: message,
	}

	select {
	case ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Channel full, log warning
		q.log.Warn("queue full", "topic", topic)
		return nil
	}
}

// Subscribe subscribes to a topic and processes messages on a goroutine.
// The goroutine stops when ctx is cancelled or when Close drains the topic.
func (q *MemoryQueue) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	q.mu.Lock()
	ch, err := q.topic(topic)
	if err != nil {
		q.mu.Unlock()
		return err
	}
	q.subs.Add(1)
	q.mu.Unlock()

	q.log.Info("subscribing to topic", "topic", topic)

	go func() {
		defer q.subs.Done()
		for {
			select {
			case <-ctx.Done():
				q.log.Info("subscription cancelled", "topic", topic)
				return
			case msg, ok := <-ch:
				if !ok {
					q.log.Info("topic drained", "topic", topic)
					return
				}
				if err := handler(ctx, msg.Key, msg.Value); err != nil {
					q.log.Error("message handler error", "topic", topic, "key", msg.Key, "error", err)
				}
			}
		}
	}()

	return nil
}

// Close closes all topics and waits for subscribers to drain the buffered
// messages. Publish and Subscribe fail after Close.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true

	for topic, ch := range q.topics {
		close(ch)
		q.log.Info("closed topic", "topic", topic)
	}
	q.mu.Unlock()

	q.subs.Wait()
	return nil
}
