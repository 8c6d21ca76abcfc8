package mechanics

import "github.com/cardforge/cardforge-server/internal/game/state"

// ComboActive reports whether a card played now gets its combo bonus. It must
// be consulted before the play is counted.
func ComboActive(p *state.PlayerState) bool {
	return p.CardsPlayedThisTurn > 0
}
