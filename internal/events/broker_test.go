package events

import (
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishReload(7)

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: docs.reloaded") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"documents":7`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishDocsetAttached(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishDocsetAttached("apple")

	select {
	case msg := <-ch:
		if !strings.Contains(string(msg), "event: docset.attached") {
			t.Errorf("unexpected payload %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestCloseIdempotent(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	b.Close()
	b.Close()

	if _, ok := <-ch; ok {
		t.Error("client channel should be closed")
	}
	// Publish after close must not panic or block.
	b.PublishReload(1)
	if b.ClientCount() != 0 {
		t.Error("client count after close should be 0")
	}
}
