package events

import (
	"sync"
	"testing"
	"time"

	"github.com/dohr-michael/banner/internal/composer"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	var mu sync.Mutex
	var received []Event

	bus.Subscribe(func(e Event) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	}, EventChatSwitched)

	bus.Publish(NewTypedEvent(SourceHost, ChatSwitchedPayload{
		Context: composer.Context{Characters: []composer.Character{{Name: "Seraphina"}}},
	}))
	bus.Publish(NewTypedEvent(SourceController, NoticePayload{Level: NoticeInfo, Message: "hi"}))

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].Type != EventChatSwitched {
		t.Errorf("expected chat.switched, got %s", received[0].Type)
	}
}

func TestBusSubscribeAll(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	var mu sync.Mutex
	count := 0

	bus.Subscribe(func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(NewTypedEvent(SourceHost, LayoutStatePayload{ChatDisplay: composer.DisplayFlat}))
	bus.Publish(NewTypedEvent(SourceController, NoticePayload{Level: NoticeError, Message: "x"}))

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	if count != 2 {
		t.Errorf("expected 2 events, got %d", count)
	}
}

func TestRingBuffer(t *testing.T) {
	rb := NewRingBuffer(3)

	for i := 0; i < 5; i++ {
		rb.Add(NewEvent(EventMessageAdded, SourceHost, map[string]any{"i": i}))
	}

	events := rb.Get(10)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
}

func TestSubscribeChan(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	ch, unsub := bus.SubscribeChan(8, EventStylesheetUpdated)
	defer unsub()

	bus.Publish(NewTypedEvent(SourceController, StylesheetUpdatedPayload{
		State: composer.RenderState{CSS: "/* x */", AnyBanner: true},
	}))

	select {
	case e := <-ch:
		if e.Type != EventStylesheetUpdated {
			t.Errorf("expected stylesheet.updated, got %s", e.Type)
		}
		p, ok := GetStylesheetUpdatedPayload(e)
		if !ok || !p.State.AnyBanner {
			t.Errorf("payload round trip failed: %+v ok=%v", p, ok)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestExtractPayloadNotice(t *testing.T) {
	e := NewTypedEvent(SourceController, NoticePayload{ID: "n1", Level: NoticeWarning, Message: "save failed"})
	p, ok := GetNoticePayload(e)
	if !ok {
		t.Fatal("extract failed")
	}
	if p.ID != "n1" || p.Level != NoticeWarning || p.Message != "save failed" {
		t.Errorf("payload = %+v", p)
	}
}
