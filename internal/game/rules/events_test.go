package rules

import (
	"testing"
)

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	spellCastCount := 0
	healCount := 0

	handle1 := bus.SubscribeTyped(EventSpellCast, func(e Event) {
		spellCastCount++
	})
	handle2 := bus.SubscribeTyped(EventHealed, func(e Event) {
		healCount++
	})

	bus.Publish(NewEvent(EventSpellCast, "", "card1", "player1"))
	if spellCastCount != 1 {
		t.Fatalf("expected spell cast count 1, got %d", spellCastCount)
	}
	if healCount != 0 {
		t.Fatalf("expected heal count 0, got %d", healCount)
	}

	bus.Unsubscribe(handle1)
	bus.Publish(NewEvent(EventSpellCast, "", "card1", "player1"))
	if spellCastCount != 1 {
		t.Fatalf("expected unsubscribed listener to stay at 1, got %d", spellCastCount)
	}

	bus.Unsubscribe(handle2)
	bus.Publish(NewEvent(EventHealed, "m1", "", "player1"))
	if healCount != 0 {
		t.Fatalf("expected heal count 0 after unsubscribe, got %d", healCount)
	}
}

func TestEventBusPublishBatchKeepsOrder(t *testing.T) {
	bus := NewEventBus()

	var seen []int
	bus.Subscribe(func(e Event) {
		seen = append(seen, e.Seq)
	})

	bus.PublishBatch([]Event{{Seq: 1}, {Seq: 2}, {Seq: 3}})

	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("expected events in publish order, got %v", seen)
	}
}

func TestSubscribeNilListener(t *testing.T) {
	bus := NewEventBus()
	if handle := bus.Subscribe(nil); handle != -1 {
		t.Fatalf("expected -1 for nil listener, got %d", handle)
	}
}
