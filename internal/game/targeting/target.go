// Package targeting computes which characters a card, attack or effect may
// select and expands derived scopes into concrete target lists.
package targeting

import (
	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/state"
)

// Mode is the kind of selection being made.
type Mode string

const (
	ModeAttack    Mode = "attack"
	ModeSpell     Mode = "spell"
	ModeHeroPower Mode = "hero_power"
	ModeBattlecry Mode = "battlecry"
	ModeEffect    Mode = "effect"
)

// Picker supplies random indices.
type Picker interface {
	IntN(n int) int
}

// Context describes who is selecting and why.
type Context struct {
	Controller string
	SourceID   string
	TriggerID  string
	Mode       Mode
}

// Resolve expands spec into the characters an effect applies to. Chosen
// scopes resolve to the chosen id when it is still a live character.
// Populations are ordered active player first, hero before minions,
// minions left to right.
func Resolve(ms *state.MatchState, spec catalog.TargetSpec, ctx Context, chosen string, rng Picker) []string {
	if spec.Scope.Chosen() {
		if chosen == "" || !ms.Alive(chosen) || !matchesTribe(ms, chosen, spec.Tribe) {
			return nil
		}
		if c := ms.Card(chosen); c != nil && c.IsDormant() {
			return nil
		}
		return []string{chosen}
	}

	pool := population(ms, spec, ctx)
	if spec.Scope.Random() {
		if len(pool) == 0 {
			return nil
		}
		return []string{pool[rng.IntN(len(pool))]}
	}
	return pool
}

// population returns every live, non-dormant character in a derived scope.
func population(ms *state.MatchState, spec catalog.TargetSpec, ctx Context) []string {
	friendly := ctx.Controller
	enemy := ""
	if opp := ms.Opponent(friendly); opp != nil {
		enemy = opp.ID
	}

	var ids []string
	switch spec.Scope {
	case catalog.ScopeNone:
		return nil
	case catalog.ScopeSelf:
		ids = []string{selfID(ms, ctx)}
	case catalog.ScopeFriendlyHero:
		ids = []string{state.HeroID(friendly)}
	case catalog.ScopeEnemyHero:
		ids = []string{state.HeroID(enemy)}
	case catalog.ScopeTriggering:
		ids = []string{ctx.TriggerID}
	case catalog.ScopeAdjacent:
		if src := ms.Card(ctx.SourceID); src != nil {
			for _, m := range ms.Adjacent(src) {
				ids = append(ids, m.ID)
			}
		}
	case catalog.ScopeAllMinions:
		ids = sides(ms, false, friendly, enemy)
	case catalog.ScopeAllOtherMinions:
		for _, id := range sides(ms, false, friendly, enemy) {
			if id != ctx.SourceID {
				ids = append(ids, id)
			}
		}
	case catalog.ScopeAllEnemyMinions, catalog.ScopeRandomEnemyMinion:
		ids = sides(ms, false, enemy)
	case catalog.ScopeAllFriendlyMinions, catalog.ScopeRandomFriendlyMinion:
		ids = sides(ms, false, friendly)
	case catalog.ScopeAllEnemies, catalog.ScopeRandomEnemyCharacter:
		ids = sides(ms, true, enemy)
	case catalog.ScopeAllCharacters:
		ids = sides(ms, true, friendly, enemy)
	}

	out := ids[:0]
	for _, id := range ids {
		if id == "" || !ms.Alive(id) {
			continue
		}
		if c := ms.Card(id); c != nil && c.IsDormant() {
			continue
		}
		if !matchesTribe(ms, id, spec.Tribe) {
			continue
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// sides lists the characters of the given players in turn order.
func sides(ms *state.MatchState, heroes bool, playerIDs ...string) []string {
	want := make(map[string]bool, len(playerIDs))
	for _, pid := range playerIDs {
		want[pid] = true
	}
	var ids []string
	for _, p := range ms.TurnOrder() {
		if !want[p.ID] {
			continue
		}
		if heroes {
			ids = append(ids, state.HeroID(p.ID))
		}
		ids = append(ids, p.Battlefield...)
	}
	return ids
}

func selfID(ms *state.MatchState, ctx Context) string {
	if state.IsHero(ctx.SourceID) {
		return ctx.SourceID
	}
	if c := ms.Card(ctx.SourceID); c != nil && c.Zone == state.ZoneBattlefield {
		return c.ID
	}
	return state.HeroID(ctx.Controller)
}

func matchesTribe(ms *state.MatchState, id, tribe string) bool {
	if tribe == "" {
		return true
	}
	c := ms.Card(id)
	return c != nil && c.Tribe == tribe
}
