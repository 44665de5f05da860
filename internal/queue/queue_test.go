package queue

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestInMemoryQueuePublishDelivers(t *testing.T) {
	q := NewInMemoryQueue()

	received := make(chan any, 1)
	if err := q.Subscribe(TopicSendFinished, func(payload any) error {
		received <- payload
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	event := SendFinishedEvent{Status: "sent"}
	if err := q.Publish(TopicSendFinished, event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-received:
		if got.(SendFinishedEvent).Status != "sent" {
			t.Errorf("got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}
}

func TestInMemoryQueuePublishWithoutSubscribers(t *testing.T) {
	q := NewInMemoryQueue()
	if err := q.Publish("nobody-home", "payload"); err == nil {
		t.Error("expected an error when no subscriber exists")
	}
}

func TestInMemoryQueueRetriesFailedHandler(t *testing.T) {
	q := NewInMemoryQueue()

	var attempts int32
	done := make(chan struct{})
	q.Subscribe(TopicSendFinished, func(payload any) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	})

	if err := q.Publish(TopicSendFinished, SendFinishedEvent{}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-done:
		if got := atomic.LoadInt32(&attempts); got != 3 {
			t.Errorf("attempts = %d, want 3", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler never succeeded")
	}
}
