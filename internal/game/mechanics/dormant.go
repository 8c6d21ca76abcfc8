package mechanics

import (
	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/state"
)

// EnterDormant puts a freshly summoned instance to sleep if its definition
// says so.
func EnterDormant(c *state.CardInstance, def *catalog.Definition) bool {
	if def.Dormant == nil || def.Dormant.Turns <= 0 {
		return false
	}
	c.DormantTurns = def.Dormant.Turns
	return true
}

// IsDormant reports whether c is asleep.
func IsDormant(c *state.CardInstance) bool {
	return c != nil && c.IsDormant()
}

// TickDormant counts down one of the controller's turns and reports whether
// c awoke. An instance awakens once.
func TickDormant(c *state.CardInstance) bool {
	if !c.IsDormant() {
		return false
	}
	c.DormantTurns--
	if c.DormantTurns > 0 || c.Awakened {
		return false
	}
	c.Awakened = true
	c.SummoningSick = false
	return true
}
