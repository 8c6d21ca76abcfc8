package mechanics

import (
	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/state"
)

// FrenzyReady reports whether c should fire its frenzy effects now that it
// survived damage.
func FrenzyReady(c *state.CardInstance, def *catalog.Definition) bool {
	if c == nil || def == nil || len(def.Frenzy) == 0 {
		return false
	}
	return !c.FrenzyFired && !c.Silenced && c.Health() > 0 && !c.Doomed
}

// MarkFrenzy consumes the frenzy for the rest of this instance's life.
func MarkFrenzy(c *state.CardInstance) {
	c.FrenzyFired = true
}
