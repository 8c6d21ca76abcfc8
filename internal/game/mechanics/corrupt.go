package mechanics

import (
	"github.com/cardforge/cardforge-server/internal/game/state"
)

// Corruption records one upgraded hand card.
type Corruption struct {
	FromID string
	ToID   string
	CardID string
}

// Corrupt upgrades every corruptible card in the player's hand whose printed
// cost is strictly below paid. Each instance corrupts at most once; the
// upgraded card is a fresh instance in the same hand slot.
func Corrupt(ms *state.MatchState, defs Definitions, playerID string, paid int) []Corruption {
	p := ms.Player(playerID)
	if p == nil {
		return nil
	}
	var out []Corruption
	for _, id := range append([]string(nil), p.Hand...) {
		c := ms.Card(id)
		if c == nil || c.Corrupted || paid <= c.Cost {
			continue
		}
		def, ok := defs.Lookup(c.CardID)
		if !ok || def.CorruptsTo == "" {
			continue
		}
		upgraded, ok := defs.Lookup(def.CorruptsTo)
		if !ok {
			continue
		}
		next := ms.Replace(c, upgraded)
		next.Corrupted = true
		out = append(out, Corruption{FromID: c.ID, ToID: next.ID, CardID: upgraded.ID})
	}
	return out
}
