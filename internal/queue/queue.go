package queue

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Publisher is the send-side interface the dispatcher uses for
// best-effort side-effect events. Publish failures are logged by the
// caller and never affect the recorded send outcome.
type Publisher interface {
	Publish(topic string, payload any) error
}

// Queue adds in-process subscription on top of Publisher. The AMQP
// implementation only publishes; consumption happens in cmd/worker.
type Queue interface {
	Publisher
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue delivers events to in-process subscribers with retry.
// Used in tests and single-binary deployments without a broker.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// jobPayload wraps an event with retry bookkeeping.
type jobPayload struct {
	payload    any
	retryCount int
	maxRetries int
}

// Publish delivers the payload to all subscribers of the topic.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := jobPayload{payload: payload, maxRetries: 3}
	for _, handler := range handlers {
		go q.processJob(topic, handler, job)
	}
	return nil
}

func (q *InMemoryQueue) processJob(topic string, handler func(payload any) error, job jobPayload) {
	for job.retryCount <= job.maxRetries {
		err := handler(job.payload)
		if err == nil {
			return
		}

		job.retryCount++
		log.Printf("[queue] %s handler failed (attempt %d/%d): %v", topic, job.retryCount, job.maxRetries, err)

		if job.retryCount > job.maxRetries {
			log.Printf("[queue] %s event dropped after %d attempts", topic, job.maxRetries)
			return
		}

		// Backoff grows with each retry.
		time.Sleep(time.Duration(job.retryCount*500) * time.Millisecond)
	}
}

func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

var _ Queue = (*InMemoryQueue)(nil)
