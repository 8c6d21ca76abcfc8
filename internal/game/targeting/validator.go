package targeting

import (
	"fmt"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/state"
)

// InvalidTargetError explains why a selected target was refused.
type InvalidTargetError struct {
	TargetID string
	Reason   string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target %s: %s", e.TargetID, e.Reason)
}

// LegalTargets returns the characters a player may choose for spec. Derived
// scopes have no legal choices.
func LegalTargets(ms *state.MatchState, spec catalog.TargetSpec, ctx Context) []string {
	if !spec.Scope.Chosen() {
		return nil
	}
	var out []string
	for _, id := range chosenPool(ms, spec.Scope, ctx.Controller) {
		if reason := refuse(ms, spec, ctx, id); reason == "" {
			out = append(out, id)
		}
	}
	return out
}

// Validate checks that targetID is a legal choice for spec.
func Validate(ms *state.MatchState, spec catalog.TargetSpec, ctx Context, targetID string) error {
	if targetID == "" {
		return &InvalidTargetError{Reason: "no target given"}
	}
	inScope := false
	for _, id := range chosenPool(ms, spec.Scope, ctx.Controller) {
		if id == targetID {
			inScope = true
			break
		}
	}
	if !inScope {
		return &InvalidTargetError{TargetID: targetID, Reason: fmt.Sprintf("not a valid %s", spec.Scope)}
	}
	if reason := refuse(ms, spec, ctx, targetID); reason != "" {
		return &InvalidTargetError{TargetID: targetID, Reason: reason}
	}
	return nil
}

// AttackTargets returns what an attacker controlled by controller may hit.
// A live, visible Taunt minion restricts the choice to Taunt minions.
func AttackTargets(ms *state.MatchState, controller string) []string {
	ctx := Context{Controller: controller, Mode: ModeAttack}
	spec := catalog.Target(catalog.ScopeEnemyCharacter)

	var all, taunts []string
	for _, id := range chosenPool(ms, spec.Scope, controller) {
		if refuse(ms, spec, ctx, id) != "" {
			continue
		}
		all = append(all, id)
		if c := ms.Card(id); c != nil && c.HasKeyword(catalog.KeywordTaunt) {
			taunts = append(taunts, id)
		}
	}
	if len(taunts) > 0 {
		return taunts
	}
	return all
}

// ValidateAttack checks that defenderID is a legal attack target.
func ValidateAttack(ms *state.MatchState, controller, defenderID string) error {
	for _, id := range AttackTargets(ms, controller) {
		if id == defenderID {
			return nil
		}
	}
	if c := ms.Card(defenderID); c != nil && c.Controller != controller && ms.Alive(defenderID) && !c.HasKeyword(catalog.KeywordTaunt) {
		return &InvalidTargetError{TargetID: defenderID, Reason: "a taunt minion must be attacked first"}
	}
	return &InvalidTargetError{TargetID: defenderID, Reason: "cannot be attacked"}
}

func chosenPool(ms *state.MatchState, scope catalog.Scope, controller string) []string {
	friendly := controller
	enemy := ""
	if opp := ms.Opponent(controller); opp != nil {
		enemy = opp.ID
	}
	switch scope {
	case catalog.ScopeAny:
		return sides(ms, true, friendly, enemy)
	case catalog.ScopeAnyMinion:
		return sides(ms, false, friendly, enemy)
	case catalog.ScopeEnemyMinion:
		return sides(ms, false, enemy)
	case catalog.ScopeFriendlyMinion:
		return sides(ms, false, friendly)
	case catalog.ScopeEnemyCharacter:
		return sides(ms, true, enemy)
	case catalog.ScopeFriendlyCharacter:
		return sides(ms, true, friendly)
	}
	return nil
}

// refuse returns why id cannot be chosen, or "" if it can.
func refuse(ms *state.MatchState, spec catalog.TargetSpec, ctx Context, id string) string {
	if !ms.Alive(id) {
		return "not a live character"
	}
	if id == ctx.SourceID && ctx.Mode != ModeEffect {
		return "cannot target itself"
	}
	if !matchesTribe(ms, id, spec.Tribe) {
		return "wrong tribe"
	}
	c := ms.Card(id)
	if c == nil {
		return ""
	}
	if c.IsDormant() {
		return "dormant"
	}
	if c.Controller != ctx.Controller && c.HasKeyword(catalog.KeywordStealth) {
		return "stealthed"
	}
	if c.HasKeyword(catalog.KeywordElusive) && (ctx.Mode == ModeSpell || ctx.Mode == ModeHeroPower) {
		return "elusive"
	}
	return ""
}
