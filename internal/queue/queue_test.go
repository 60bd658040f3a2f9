package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	msgs, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}

	want := []Message{
		{Type: "attendance-photo", Body: json.RawMessage(`{"attendance_id":"ATT1"}`)},
		{Type: "attendance-photo", Body: json.RawMessage(`{"attendance_id":"ATT2"}`)},
	}
	for _, m := range want {
		if err := q.Publish(ctx, m); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}
	for i, w := range want {
		select {
		case got := <-msgs:
			if got.Type != w.Type || string(got.Body) != string(w.Body) {
				t.Errorf("message %d = %+v, want %+v", i, got, w)
			}
		case <-time.After(time.Second):
			t.Fatalf("message %d not delivered", i)
		}
	}

	cancel()
	select {
	case _, ok := <-msgs:
		if ok {
			t.Error("channel delivered a message after cancel")
		}
	case <-time.After(time.Second):
		t.Error("channel not closed after cancel")
	}
}

func TestInMemoryPublishRespectsContext(t *testing.T) {
	q := NewInMemory(1)
	if err := q.Publish(context.Background(), Message{Type: "x"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := q.Publish(ctx, Message{Type: "y"}); err == nil {
		t.Error("Publish() on a full queue should fail when the context expires")
	}
}
