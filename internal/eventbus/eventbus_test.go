package eventbus

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan DomainEvent, 1)
	b.Subscribe(EventDocumentChanged, func(e DomainEvent) {
		got <- e
	})

	b.Publish(DocumentChangedEvent{Path: "notes.md"})

	select {
	case e := <-got:
		ev, ok := e.(DocumentChangedEvent)
		require.True(t, ok, "unexpected event type %T", e)
		assert.Equal(t, "notes.md", ev.Path)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestSubscribeFiltersByType(t *testing.T) {
	b := New()
	defer b.Close()

	var calls atomic.Int32
	b.Subscribe(EventDocumentLoaded, func(DomainEvent) { calls.Add(1) })

	done := make(chan struct{})
	b.Subscribe(EventError, func(DomainEvent) { close(done) })

	b.Publish(ErrorEvent{Message: "boom"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("error event was not delivered")
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	defer b.Close()

	var calls atomic.Int32
	unsubscribe := b.Subscribe(EventOutlineVisibilityChanged, func(DomainEvent) { calls.Add(1) })
	unsubscribe()

	done := make(chan struct{})
	b.Subscribe(EventOutlineVisibilityChanged, func(DomainEvent) { close(done) })
	b.Publish(OutlineVisibilityChangedEvent{Visible: true})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber was not called")
	}
	// Handlers run concurrently; give a stray call a moment to land
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestHandlerPanicDoesNotStopBus(t *testing.T) {
	b := New()
	defer b.Close()

	b.Subscribe(EventError, func(DomainEvent) { panic("handler failure") })

	done := make(chan struct{})
	b.Subscribe(EventDocumentLoaded, func(DomainEvent) { close(done) })

	b.Publish(ErrorEvent{Message: "first"})
	b.Publish(DocumentLoadedEvent{})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bus stopped after handler panic")
	}
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	b := New()
	b.Close()
	b.Close()

	assert.NotPanics(t, func() {
		b.Publish(DocumentChangedEvent{Path: "late.md"})
	})
}
