package watchers

import (
	"sync"

	"github.com/cardforge/cardforge-server/internal/game/rules"
)

// Factory builds the watchers installed on every new match.
type Factory func() []Watcher

// DefaultFactory installs the statistics watchers.
func DefaultFactory() []Watcher {
	return []Watcher{
		NewSpellsCastWatcher(),
		NewMinionsDiedWatcher(),
		NewCardsDrawnWatcher(),
		NewMinionsSummonedWatcher(),
		NewDamageTakenWatcher(),
	}
}

// PlayerStats summarizes one player's match.
type PlayerStats struct {
	SpellsCast      int `json:"spells_cast"`
	MinionsSummoned int `json:"minions_summoned"`
	MinionsLost     int `json:"minions_lost"`
	CardsDrawn      int `json:"cards_drawn"`
	CardsBurned     int `json:"cards_burned"`
	HeroDamage      int `json:"hero_damage"`
	MinionDamage    int `json:"minion_damage"`
}

// Tracker routes bus events to a watcher set per match.
type Tracker struct {
	factory Factory

	mu      sync.RWMutex
	matches map[string]map[string]Watcher
}

// NewTracker creates a tracker. A nil factory uses DefaultFactory.
func NewTracker(factory Factory) *Tracker {
	if factory == nil {
		factory = DefaultFactory
	}
	return &Tracker{factory: factory, matches: make(map[string]map[string]Watcher)}
}

// Attach subscribes the tracker to bus and returns the subscription handle.
func (t *Tracker) Attach(bus *rules.EventBus) int {
	return bus.Subscribe(t.Watch)
}

// Watch feeds event to the watchers of its match.
func (t *Tracker) Watch(event rules.Event) {
	if event.MatchID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.matches[event.MatchID]
	if !ok {
		set = make(map[string]Watcher)
		for _, w := range t.factory() {
			set[w.Key()] = w
		}
		t.matches[event.MatchID] = set
	}
	for _, w := range set {
		w.Watch(event)
	}
}

// Watcher returns a copy of the watcher registered under key for a match.
func (t *Tracker) Watcher(matchID, key string) (Watcher, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	w, ok := t.matches[matchID][key]
	if !ok {
		return nil, false
	}
	return w.Copy(), true
}

// Stats summarizes a player's match from the default watchers.
func (t *Tracker) Stats(matchID, playerID string) PlayerStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var s PlayerStats
	for _, w := range t.matches[matchID] {
		switch w := w.(type) {
		case *SpellsCastWatcher:
			s.SpellsCast = w.GetCount(playerID)
		case *MinionsSummonedWatcher:
			s.MinionsSummoned = len(w.GetSummoned(playerID))
		case *MinionsDiedWatcher:
			s.MinionsLost = w.GetAmountByController(playerID)
		case *CardsDrawnWatcher:
			s.CardsDrawn = w.GetCount(playerID)
			s.CardsBurned = w.GetBurned(playerID)
		case *DamageTakenWatcher:
			s.HeroDamage = w.GetHeroDamage(playerID)
			s.MinionDamage = w.GetMinionDamage(playerID)
		}
	}
	return s
}

// Forget drops the watchers of a match.
func (t *Tracker) Forget(matchID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.matches, matchID)
}
