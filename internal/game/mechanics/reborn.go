package mechanics

import (
	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/state"
)

// CanReborn reports whether a dying instance comes back.
func CanReborn(c *state.CardInstance) bool {
	return c.HasKeyword(catalog.KeywordReborn) && !c.Silenced
}

// Rebirth summons a fresh copy of def for controller at pos with 1 health
// and without Reborn. The dead instance must already have left play.
func Rebirth(ms *state.MatchState, dead *state.CardInstance, def *catalog.Definition, pos int) *state.CardInstance {
	id, seq := ms.NewInstanceID()
	c := state.NewInstance(id, def, dead.Owner, seq)
	c.SetKeyword(catalog.KeywordReborn, false)
	c.Damage = c.MaxHealth() - 1
	c.SummoningSick = true
	ms.Cards[id] = c
	ms.Place(c, state.ZoneBattlefield, dead.Controller, pos)
	return c
}
