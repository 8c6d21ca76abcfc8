package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scope names the population an effect or card selects from.
type Scope string

const (
	ScopeNone              Scope = ""
	ScopeSelf              Scope = "self"
	ScopeAny               Scope = "any"
	ScopeAnyMinion         Scope = "any_minion"
	ScopeEnemyMinion       Scope = "enemy_minion"
	ScopeFriendlyMinion    Scope = "friendly_minion"
	ScopeEnemyCharacter    Scope = "enemy_character"
	ScopeFriendlyCharacter Scope = "friendly_character"

	ScopeEnemyHero    Scope = "enemy_hero"
	ScopeFriendlyHero Scope = "friendly_hero"
	ScopeTriggering   Scope = "triggering"
	ScopeAdjacent     Scope = "adjacent"

	ScopeAllMinions         Scope = "all_minions"
	ScopeAllEnemyMinions    Scope = "all_enemy_minions"
	ScopeAllFriendlyMinions Scope = "all_friendly_minions"
	ScopeAllOtherMinions    Scope = "all_other_minions"
	ScopeAllEnemies         Scope = "all_enemies"
	ScopeAllCharacters      Scope = "all_characters"

	ScopeRandomEnemyMinion    Scope = "random_enemy_minion"
	ScopeRandomEnemyCharacter Scope = "random_enemy_character"
	ScopeRandomFriendlyMinion Scope = "random_friendly_minion"
)

var knownScopes = map[Scope]bool{
	ScopeNone: true, ScopeSelf: true, ScopeAny: true, ScopeAnyMinion: true,
	ScopeEnemyMinion: true, ScopeFriendlyMinion: true, ScopeEnemyCharacter: true,
	ScopeFriendlyCharacter: true, ScopeEnemyHero: true, ScopeFriendlyHero: true,
	ScopeTriggering: true, ScopeAdjacent: true, ScopeAllMinions: true,
	ScopeAllEnemyMinions: true, ScopeAllFriendlyMinions: true, ScopeAllOtherMinions: true,
	ScopeAllEnemies: true, ScopeAllCharacters: true, ScopeRandomEnemyMinion: true,
	ScopeRandomEnemyCharacter: true, ScopeRandomFriendlyMinion: true,
}

// Chosen reports whether the scope is picked by a player rather than derived.
func (s Scope) Chosen() bool {
	switch s {
	case ScopeAny, ScopeAnyMinion, ScopeEnemyMinion, ScopeFriendlyMinion,
		ScopeEnemyCharacter, ScopeFriendlyCharacter:
		return true
	}
	return false
}

// Random reports whether the scope is resolved by the random source.
func (s Scope) Random() bool {
	return strings.HasPrefix(string(s), "random_")
}

// MinionsOnly reports whether heroes are excluded from the scope.
func (s Scope) MinionsOnly() bool {
	switch s {
	case ScopeAnyMinion, ScopeEnemyMinion, ScopeFriendlyMinion, ScopeAllMinions,
		ScopeAllEnemyMinions, ScopeAllFriendlyMinions, ScopeAllOtherMinions,
		ScopeRandomEnemyMinion, ScopeRandomFriendlyMinion, ScopeAdjacent:
		return true
	}
	return false
}

// TargetSpec selects the characters an effect applies to. In card files it
// may be written as a bare scope string.
type TargetSpec struct {
	Scope Scope  `json:"scope" yaml:"scope"`
	Tribe string `json:"tribe,omitempty" yaml:"tribe,omitempty"`
}

// Target is shorthand for a TargetSpec with no tribe filter.
func Target(scope Scope) TargetSpec {
	return TargetSpec{Scope: scope}
}

// RequiresTarget reports whether a player must choose a target.
func (t TargetSpec) RequiresTarget() bool {
	return t.Scope.Chosen()
}

func (t TargetSpec) validate() error {
	if !knownScopes[t.Scope] {
		return fmt.Errorf("unknown target scope %q", string(t.Scope))
	}
	return nil
}

// UnmarshalJSON accepts either {"scope": ...} or a bare scope string.
func (t *TargetSpec) UnmarshalJSON(data []byte) error {
	var scope string
	if err := json.Unmarshal(data, &scope); err == nil {
		*t = TargetSpec{Scope: Scope(scope)}
		return nil
	}
	type plain TargetSpec
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = TargetSpec(p)
	return nil
}

// UnmarshalYAML accepts either a mapping or a bare scope scalar.
func (t *TargetSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*t = TargetSpec{Scope: Scope(node.Value)}
		return nil
	}
	type plain TargetSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = TargetSpec(p)
	return nil
}
