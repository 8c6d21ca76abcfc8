// Package mechanics implements the keyword bookkeeping applied while cards
// are played, damaged, killed or summoned. Processors only read and update
// state; the engine emits the events that describe what they did.
package mechanics

import (
	"github.com/cardforge/cardforge-server/internal/game/catalog"
)

// Definitions resolves definition ids.
type Definitions interface {
	Lookup(id string) (*catalog.Definition, bool)
}
