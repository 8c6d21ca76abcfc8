package mechanics

import (
	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/counters"
	"github.com/cardforge/cardforge-server/internal/game/state"
)

// MagneticHost returns the Mech a magnetic minion played at position would
// attach to: the minion currently in that slot, which becomes its right-hand
// neighbour. Dormant or dead Mechs do not accept attachments.
func MagneticHost(ms *state.MatchState, controller string, position int) *state.CardInstance {
	p := ms.Player(controller)
	if p == nil || position < 0 || position >= len(p.Battlefield) {
		return nil
	}
	host := ms.Card(p.Battlefield[position])
	if host == nil || host.Tribe != catalog.TribeMech || host.IsDormant() || !ms.Alive(host.ID) {
		return nil
	}
	return host
}

// Magnetize merges the incoming minion's stats, keywords and deathrattle into
// host.
func Magnetize(host, incoming *state.CardInstance, def *catalog.Definition) {
	host.Buffs.Add(counters.Buff{
		SourceID: incoming.ID,
		Attack:   incoming.BaseAttack + incoming.Buffs.Attack(),
		Health:   incoming.BaseHealth + incoming.Buffs.Health(),
	})
	for kw, on := range incoming.Keywords {
		if on && kw != catalog.KeywordMagnetic {
			host.SetKeyword(kw, true)
		}
	}
	host.ExtraDeathrattles = append(host.ExtraDeathrattles, def.Deathrattle...)
	host.Magnetized = append(host.Magnetized, def.ID)
}
