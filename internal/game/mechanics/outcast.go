package mechanics

import "github.com/cardforge/cardforge-server/internal/game/state"

// OutcastActive reports whether a card at index of a hand of length is at
// either end. The index is taken before the card leaves the hand.
func OutcastActive(index, length int) bool {
	if length <= 0 || index < 0 || index >= length {
		return false
	}
	return index == 0 || index == length-1
}

// RefreshOutcastDiscounts recomputes positional discounts for every card in
// the player's hand. Call it after any hand mutation.
func RefreshOutcastDiscounts(ms *state.MatchState, p *state.PlayerState) {
	for i, id := range p.Hand {
		c := ms.Card(id)
		if c == nil {
			continue
		}
		c.OutcastDiscounted = c.OutcastDiscount > 0 && OutcastActive(i, len(p.Hand))
	}
}
