package events

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, cancel := bus.Subscribe()
	defer cancel()

	bus.Publish(WindowOpened, "win_1")

	select {
	case evt := <-ch:
		if evt.Type != WindowOpened {
			t.Errorf("expected %s, got %s", WindowOpened, evt.Type)
		}
		if evt.Payload != "win_1" {
			t.Errorf("unexpected payload: %v", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, cancel := bus.Subscribe()
	cancel()
	cancel() // idempotent

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after cancel")
	}
	// Publishing after cancel must not panic.
	bus.Publish(WindowClosed, nil)
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	_, cancel := bus.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			bus.Publish(WindowMoved, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestCloseIdempotent(t *testing.T) {
	bus := NewBus()
	ch, _ := bus.Subscribe()
	bus.Close()
	bus.Close()

	if _, ok := <-ch; ok {
		t.Error("expected closed subscriber channel")
	}
	if sub, _ := bus.Subscribe(); sub == nil {
		t.Error("subscribe after close should return a closed channel, not nil")
	}
}
