package targeting

import (
	"errors"
	"testing"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPicker int

func (p fixedPicker) IntN(n int) int { return int(p) % n }

func minion(id string, attack, health int, kws ...catalog.Keyword) *catalog.Definition {
	return &catalog.Definition{ID: id, Name: id, Type: catalog.TypeMinion, Attack: attack, Health: health, Keywords: kws}
}

func newBoard() *state.MatchState {
	ms := state.NewMatch("t1", [2]string{"alice", "bob"}, 30)
	ms.Phase = state.PhasePlaying
	return ms
}

func TestTauntRestrictsAttacks(t *testing.T) {
	ms := newBoard()
	plain := ms.CreateCard(minion("plain", 1, 1), "bob", state.ZoneBattlefield, -1)
	taunt := ms.CreateCard(minion("guard", 1, 3, catalog.KeywordTaunt), "bob", state.ZoneBattlefield, -1)

	assert.Equal(t, []string{taunt.ID}, AttackTargets(ms, "alice"))

	err := ValidateAttack(ms, "alice", plain.ID)
	var invalid *InvalidTargetError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Reason, "taunt")
	assert.Error(t, ValidateAttack(ms, "alice", state.HeroID("bob")))
	assert.NoError(t, ValidateAttack(ms, "alice", taunt.ID))

	taunt.SetKeyword(catalog.KeywordStealth, true)
	assert.ElementsMatch(t, []string{state.HeroID("bob"), plain.ID}, AttackTargets(ms, "alice"))
}

func TestStealthAndElusive(t *testing.T) {
	ms := newBoard()
	sneaky := ms.CreateCard(minion("sneaky", 1, 1, catalog.KeywordStealth), "bob", state.ZoneBattlefield, -1)
	faerie := ms.CreateCard(minion("faerie", 1, 1, catalog.KeywordElusive), "bob", state.ZoneBattlefield, -1)
	own := ms.CreateCard(minion("own", 1, 1, catalog.KeywordStealth), "alice", state.ZoneBattlefield, -1)

	spell := Context{Controller: "alice", Mode: ModeSpell}
	legal := LegalTargets(ms, catalog.Target(catalog.ScopeAnyMinion), spell)
	assert.Equal(t, []string{own.ID}, legal)

	battlecry := Context{Controller: "alice", Mode: ModeBattlecry}
	legal = LegalTargets(ms, catalog.Target(catalog.ScopeAnyMinion), battlecry)
	assert.Equal(t, []string{own.ID, faerie.ID}, legal)

	assert.Error(t, Validate(ms, catalog.Target(catalog.ScopeEnemyMinion), spell, sneaky.ID))
	assert.Error(t, Validate(ms, catalog.Target(catalog.ScopeEnemyMinion), spell, own.ID))
	assert.Error(t, Validate(ms, catalog.Target(catalog.ScopeEnemyMinion), spell, ""))
}

func TestDormantIsNeverSelected(t *testing.T) {
	ms := newBoard()
	sleeper := ms.CreateCard(minion("sleeper", 5, 5), "bob", state.ZoneBattlefield, -1)
	sleeper.DormantTurns = 2
	awake := ms.CreateCard(minion("awake", 1, 1), "bob", state.ZoneBattlefield, -1)

	ctx := Context{Controller: "alice", Mode: ModeEffect}
	assert.Equal(t, []string{awake.ID}, LegalTargets(ms, catalog.Target(catalog.ScopeEnemyMinion), ctx))
	assert.Equal(t, []string{awake.ID}, Resolve(ms, catalog.Target(catalog.ScopeAllEnemyMinions), ctx, "", nil))
	assert.Nil(t, Resolve(ms, catalog.Target(catalog.ScopeEnemyMinion), ctx, sleeper.ID, nil))
	assert.NotContains(t, AttackTargets(ms, "alice"), sleeper.ID)
}

func TestResolveOrdersActivePlayerFirst(t *testing.T) {
	ms := newBoard()
	ms.Active = 1
	a := ms.CreateCard(minion("a", 1, 1), "alice", state.ZoneBattlefield, -1)
	b := ms.CreateCard(minion("b", 1, 1), "bob", state.ZoneBattlefield, -1)

	ctx := Context{Controller: "alice", Mode: ModeEffect}
	got := Resolve(ms, catalog.Target(catalog.ScopeAllCharacters), ctx, "", nil)
	assert.Equal(t, []string{state.HeroID("bob"), b.ID, state.HeroID("alice"), a.ID}, got)

	got = Resolve(ms, catalog.Target(catalog.ScopeAllEnemies), ctx, "", nil)
	assert.Equal(t, []string{state.HeroID("bob"), b.ID}, got)
}

func TestResolveDerivedScopes(t *testing.T) {
	ms := newBoard()
	left := ms.CreateCard(minion("left", 1, 1), "alice", state.ZoneBattlefield, -1)
	src := ms.CreateCard(minion("src", 1, 1), "alice", state.ZoneBattlefield, -1)
	right := ms.CreateCard(minion("right", 1, 1), "alice", state.ZoneBattlefield, -1)
	enemy := ms.CreateCard(minion("enemy", 1, 1), "bob", state.ZoneBattlefield, -1)

	ctx := Context{Controller: "alice", SourceID: src.ID, TriggerID: enemy.ID, Mode: ModeEffect}
	assert.Equal(t, []string{left.ID, right.ID}, Resolve(ms, catalog.Target(catalog.ScopeAdjacent), ctx, "", nil))
	assert.Equal(t, []string{left.ID, right.ID, enemy.ID}, Resolve(ms, catalog.Target(catalog.ScopeAllOtherMinions), ctx, "", nil))
	assert.Equal(t, []string{src.ID}, Resolve(ms, catalog.Target(catalog.ScopeSelf), ctx, "", nil))
	assert.Equal(t, []string{enemy.ID}, Resolve(ms, catalog.Target(catalog.ScopeTriggering), ctx, "", nil))
	assert.Equal(t, []string{state.HeroID("bob")}, Resolve(ms, catalog.Target(catalog.ScopeEnemyHero), ctx, "", nil))
	assert.Nil(t, Resolve(ms, catalog.Target(catalog.ScopeNone), ctx, "", nil))

	spellCtx := Context{Controller: "alice", SourceID: "not-on-board", Mode: ModeEffect}
	assert.Equal(t, []string{state.HeroID("alice")}, Resolve(ms, catalog.Target(catalog.ScopeSelf), spellCtx, "", nil))
}

func TestResolveRandomUsesPicker(t *testing.T) {
	ms := newBoard()
	first := ms.CreateCard(minion("first", 1, 1), "bob", state.ZoneBattlefield, -1)
	second := ms.CreateCard(minion("second", 1, 1), "bob", state.ZoneBattlefield, -1)

	ctx := Context{Controller: "alice", Mode: ModeEffect}
	spec := catalog.Target(catalog.ScopeRandomEnemyMinion)
	assert.Equal(t, []string{first.ID}, Resolve(ms, spec, ctx, "", fixedPicker(0)))
	assert.Equal(t, []string{second.ID}, Resolve(ms, spec, ctx, "", fixedPicker(1)))

	second.Damage = 1
	first.Damage = 1
	assert.Nil(t, Resolve(ms, spec, ctx, "", fixedPicker(0)))
}

func TestTribeFilter(t *testing.T) {
	ms := newBoard()
	mech := minion("bot", 1, 1)
	mech.Tribe = catalog.TribeMech
	bot := ms.CreateCard(mech, "alice", state.ZoneBattlefield, -1)
	ms.CreateCard(minion("plain", 1, 1), "alice", state.ZoneBattlefield, -1)

	spec := catalog.TargetSpec{Scope: catalog.ScopeFriendlyMinion, Tribe: catalog.TribeMech}
	ctx := Context{Controller: "alice", Mode: ModeBattlecry}
	assert.Equal(t, []string{bot.ID}, LegalTargets(ms, spec, ctx))
}
