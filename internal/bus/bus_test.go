package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := NewBus()
	ch, unsub := b.Subscribe("message.", 10)
	defer unsub()

	b.Publish(New("message.queued", "test"))

	select {
	case evt := <-ch:
		if evt.Kind != "message.queued" {
			t.Errorf("got kind %q, want message.queued", evt.Kind)
		}
		if evt.Timestamp.IsZero() {
			t.Error("New() did not stamp the event")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := NewBus()
	ch, unsub := b.Subscribe("composer.", 10)
	defer unsub()

	b.Publish(New("message.queued", nil))
	b.Publish(New("composer.attachment_staged", nil))

	select {
	case evt := <-ch:
		if evt.Kind != "composer.attachment_staged" {
			t.Errorf("got kind %q, want composer.attachment_staged", evt.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	// Ensure the message event was not delivered.
	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
		// Expected: no more events.
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus()
	ch, unsub := b.Subscribe("message.", 10)
	unsub()

	b.Publish(New("message.queued", nil))

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
		// Expected.
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := NewBus()
	ch, unsub := b.Subscribe("test.", 1)
	defer unsub()

	// Fill buffer.
	b.Publish(New("test.one", nil))
	// This should be dropped (non-blocking).
	b.Publish(New("test.two", nil))

	evt := <-ch
	if evt.Kind != "test.one" {
		t.Errorf("got %q, want test.one", evt.Kind)
	}
}
