package timer

import (
	"testing"
	"time"
)

func TestServiceEveryRepeatsUntilCancelled(t *testing.T) {
	events := make(chan Event, 8)
	svc := NewService(events)
	id := svc.Every(5 * time.Millisecond)

	select {
	case e := <-events:
		if e.ID != id || !e.Repeating {
			t.Fatalf("expected repeating event for id %d, got %+v", id, e)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timed out waiting for first tick")
	}

	svc.Cancel(id)

	// drain anything already in flight, then confirm no more arrive.
	drain := time.After(50 * time.Millisecond)
draining:
	for {
		select {
		case <-events:
			continue
		case <-drain:
			break draining
		}
	}
	select {
	case e := <-events:
		t.Fatalf("expected no events after Cancel, got %+v", e)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestServiceAfterFiresOnceAndCleansUp(t *testing.T) {
	events := make(chan Event, 2)
	svc := NewService(events)
	id := svc.After(5 * time.Millisecond)

	select {
	case e := <-events:
		if e.ID != id || e.Repeating {
			t.Fatalf("expected one-shot event for id %d, got %+v", id, e)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timed out waiting for one-shot tick")
	}

	svc.mu.Lock()
	_, stillTracked := svc.timers[id]
	svc.mu.Unlock()
	if stillTracked {
		t.Fatalf("expected one-shot timer %d to be removed after firing", id)
	}
}

func TestServiceCancelAllStopsEverything(t *testing.T) {
	events := make(chan Event, 8)
	svc := NewService(events)
	svc.Every(5 * time.Millisecond)
	svc.Every(5 * time.Millisecond)
	svc.CancelAll()

	svc.mu.Lock()
	n := len(svc.timers)
	svc.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected no timers tracked after CancelAll, got %d", n)
	}
}
