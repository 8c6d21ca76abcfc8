package watchers

import (
	"testing"

	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
)

func TestSpellsCastWatcher(t *testing.T) {
	watcher := NewSpellsCastWatcher()

	if watcher.ConditionMet() {
		t.Fatal("watcher should not have condition met initially")
	}
	if watcher.GetCount("player1") != 0 {
		t.Fatalf("expected 0 spells cast, got %d", watcher.GetCount("player1"))
	}

	event := rules.NewEvent(rules.EventSpellCast, "", "c1", "player1")
	event.CardID = "fireball"
	watcher.Watch(event)

	if !watcher.ConditionMet() {
		t.Fatal("watcher should have condition met after spell cast")
	}
	if got := watcher.GetSpellsCast("player1"); len(got) != 1 || got[0] != "fireball" {
		t.Fatalf("expected [fireball], got %v", got)
	}

	watcher.Watch(rules.NewEvent(rules.EventSpellCast, "", "c2", "player1"))
	if watcher.GetCount("player1") != 2 {
		t.Fatalf("expected 2 spells cast, got %d", watcher.GetCount("player1"))
	}

	watcher.Watch(rules.NewEvent(rules.EventCardPlayed, "", "c3", "player1"))
	if watcher.GetCount("player1") != 2 {
		t.Fatalf("card_played must not count as a spell, got %d", watcher.GetCount("player1"))
	}

	watcher.Reset()
	if watcher.ConditionMet() {
		t.Fatal("watcher should not have condition met after reset")
	}
	if watcher.GetCount("player1") != 0 {
		t.Fatalf("expected 0 spells cast after reset, got %d", watcher.GetCount("player1"))
	}
}

func TestMinionsDiedWatcher(t *testing.T) {
	watcher := NewMinionsDiedWatcher()

	watcher.Watch(rules.NewEvent(rules.EventMinionDied, "c1", "", "player1"))
	watcher.Watch(rules.NewEvent(rules.EventMinionDied, "c2", "", "player2"))
	watcher.Watch(rules.NewEvent(rules.EventMinionDied, "c3", "", "player1"))

	if !watcher.ConditionMet() {
		t.Fatal("watcher should have condition met after a minion dies")
	}
	if watcher.GetAmountByController("player1") != 2 {
		t.Fatalf("expected 2 minions died for player1, got %d", watcher.GetAmountByController("player1"))
	}
	if watcher.GetTotalAmount() != 3 {
		t.Fatalf("expected 3 minions died, got %d", watcher.GetTotalAmount())
	}

	watcher.Reset()
	if watcher.GetTotalAmount() != 0 {
		t.Fatalf("expected 0 minions died after reset, got %d", watcher.GetTotalAmount())
	}
}

func TestCardsDrawnWatcher(t *testing.T) {
	watcher := NewCardsDrawnWatcher()

	watcher.Watch(rules.NewEvent(rules.EventCardDrawn, "c1", "", "player1"))
	watcher.Watch(rules.NewEvent(rules.EventCardDrawn, "c2", "", "player1"))
	watcher.Watch(rules.NewEvent(rules.EventCardBurned, "c3", "", "player1"))

	if watcher.GetCount("player1") != 3 {
		t.Fatalf("expected 3 cards drawn, got %d", watcher.GetCount("player1"))
	}
	if watcher.GetBurned("player1") != 1 {
		t.Fatalf("expected 1 card burned, got %d", watcher.GetBurned("player1"))
	}

	watcher.Reset()
	if watcher.GetCount("player1") != 0 {
		t.Fatalf("expected 0 cards drawn after reset, got %d", watcher.GetCount("player1"))
	}
}

func TestMinionsSummonedWatcher(t *testing.T) {
	watcher := NewMinionsSummonedWatcher()

	watcher.Watch(rules.NewEvent(rules.EventMinionSummoned, "c1", "c9", "player1"))
	watcher.Watch(rules.NewEvent(rules.EventMinionSummoned, "", "c9", "player1"))

	summoned := watcher.GetSummoned("player1")
	if len(summoned) != 1 {
		t.Fatalf("expected 1 minion summoned, got %d", len(summoned))
	}
	if summoned[0] != "c1" {
		t.Fatalf("expected c1, got %s", summoned[0])
	}
}

func TestDamageTakenWatcher(t *testing.T) {
	watcher := NewDamageTakenWatcher()

	hit := rules.NewEvent(rules.EventDamageTaken, state.HeroID("player2"), "c1", "player2")
	hit.Amount = 4
	watcher.Watch(hit)
	minion := rules.NewEvent(rules.EventDamageTaken, "c5", "c1", "player2")
	minion.Amount = 2
	watcher.Watch(minion)

	if watcher.GetHeroDamage("player2") != 4 {
		t.Fatalf("expected 4 hero damage, got %d", watcher.GetHeroDamage("player2"))
	}
	if watcher.GetMinionDamage("player2") != 2 {
		t.Fatalf("expected 2 minion damage, got %d", watcher.GetMinionDamage("player2"))
	}
	if watcher.GetHeroDamage("player1") != 0 {
		t.Fatalf("expected no damage for player1, got %d", watcher.GetHeroDamage("player1"))
	}
}

func TestWatcherCopy(t *testing.T) {
	watcher := NewSpellsCastWatcher()
	watcher.Watch(rules.NewEvent(rules.EventSpellCast, "", "spell1", "player1"))

	copy := watcher.Copy()
	copyWatcher, ok := copy.(*SpellsCastWatcher)
	if !ok {
		t.Fatal("copy should be *SpellsCastWatcher")
	}
	if copyWatcher.ConditionMet() != watcher.ConditionMet() {
		t.Fatal("copy should have same condition")
	}
	if copyWatcher.Key() != watcher.Key() {
		t.Fatal("copy should have same key")
	}

	copyWatcher.Watch(rules.NewEvent(rules.EventSpellCast, "", "spell2", "player1"))
	if watcher.GetCount("player1") != 1 {
		t.Fatal("modifying copy shouldn't affect original")
	}
	if copyWatcher.GetCount("player1") != 2 {
		t.Fatal("copy should have updated count")
	}
}
