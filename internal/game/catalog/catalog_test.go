package catalog

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleCards = `
cards:
  - id: fireball
    name: Fireball
    type: spell
    cost: 4
    collectible: true
    spell:
      - kind: deal_damage
        target: any
        amount: 6
  - id: wisp
    name: Wisp
    type: minion
    cost: 0
    attack: 1
    health: 1
  - id: snake_trap_snake
    name: Snake
    type: minion
    cost: 0
    attack: 1
    health: 1
  - id: haunted_creeper
    name: Haunted Creeper
    type: minion
    cost: 2
    attack: 1
    health: 2
    collectible: true
    deathrattle:
      - kind: summon
        card: wisp
        count: 2
  - id: knife_juggler
    name: Knife Juggler
    type: minion
    cost: 2
    attack: 2
    health: 2
    triggers:
      - on: on_summon
        watch: friendly
        effects:
          - kind: deal_damage
            target: random_enemy_character
            amount: 1
`

func TestLoadYAML(t *testing.T) {
	cat, err := LoadYAML(strings.NewReader(sampleCards))
	require.NoError(t, err)
	assert.Equal(t, 5, cat.Len())

	fireball, ok := cat.Lookup("fireball")
	require.True(t, ok)
	require.Len(t, fireball.Spell, 1)
	dmg, ok := fireball.Spell[0].(DealDamage)
	require.True(t, ok, "expected DealDamage, got %T", fireball.Spell[0])
	assert.Equal(t, 6, dmg.Amount)
	assert.Equal(t, ScopeAny, dmg.Target.Scope)
	assert.True(t, dmg.Target.RequiresTarget())

	creeper, _ := cat.Lookup("haunted_creeper")
	require.Len(t, creeper.Deathrattle, 1)
	assert.Equal(t, Summon{CardID: "wisp", Count: 2}, creeper.Deathrattle[0])

	juggler, _ := cat.Lookup("knife_juggler")
	require.Len(t, juggler.Triggers, 1)
	assert.Equal(t, OnSummon, juggler.Triggers[0].On)
	assert.Equal(t, WatchFriendly, juggler.Triggers[0].Watch)

	assert.Equal(t, []string{"fireball", "haunted_creeper", "knife_juggler", "snake_trap_snake", "wisp"}, cat.IDs())
}

func TestLoadYAMLRejectsUnknownKind(t *testing.T) {
	src := `
cards:
  - id: mystery
    name: Mystery
    type: spell
    cost: 1
    spell:
      - kind: reverse_time
`
	_, err := LoadYAML(strings.NewReader(src))
	require.Error(t, err)

	var unknown *UnknownKindError
	require.True(t, errors.As(err, &unknown), "expected UnknownKindError, got %v", err)
	assert.Equal(t, Kind("reverse_time"), unknown.Kind)
}

func TestValidateRejectsDanglingReferences(t *testing.T) {
	_, err := New([]Definition{{
		ID:         "corruptible",
		Name:       "Corruptible",
		Type:       TypeSpell,
		Cost:       1,
		CorruptsTo: "missing",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	_, err = New([]Definition{{
		ID:     "summoner",
		Name:   "Summoner",
		Type:   TypeMinion,
		Cost:   3,
		Health: 3,
		Battlecry: Effects{
			Summon{CardID: "ghost"},
		},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestValidateRejectsDuplicatesAndBadTypes(t *testing.T) {
	_, err := New([]Definition{
		{ID: "a", Type: TypeSpell},
		{ID: "a", Type: TypeSpell},
	})
	require.Error(t, err)

	_, err = New([]Definition{{ID: "b", Type: CardType("land")}})
	require.Error(t, err)

	_, err = New([]Definition{{ID: "c", Type: TypeMinion, Health: 1, Keywords: []Keyword{"flying"}}})
	require.Error(t, err)
}

func TestEffectsJSONKeepsKindTag(t *testing.T) {
	effects := Effects{
		DealDamage{Target: Target(ScopeEnemyMinion), Amount: 2},
		GainArmor{Amount: 3},
		Discover{Tribe: "dragon"},
	}
	data, err := json.Marshal(effects)
	require.NoError(t, err)
	assert.Contains(t, string(data), `{"kind":"deal_damage","target":{"scope":"enemy_minion"},"amount":2}`)
	assert.Contains(t, string(data), `{"kind":"gain_armor","amount":3}`)

	var decoded Effects
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, effects, decoded)
}

func TestEffectsJSONRejectsUnknownKind(t *testing.T) {
	var decoded Effects
	err := json.Unmarshal([]byte(`[{"kind":"heal","target":"self","amount":1},{"kind":"explode"}]`), &decoded)
	require.Error(t, err)

	var unknown *UnknownKindError
	assert.True(t, errors.As(err, &unknown))
}

func TestEffectsYAMLEncode(t *testing.T) {
	effects := Effects{Draw{Count: 2}}
	out, err := yaml.Marshal(struct {
		Spell Effects `yaml:"spell"`
	}{Spell: effects})
	require.NoError(t, err)
	assert.Contains(t, string(out), "kind: draw")
	assert.Contains(t, string(out), "count: 2")

	var back struct {
		Spell Effects `yaml:"spell"`
	}
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, effects, back.Spell)
}

func TestDecodersCoverEveryKind(t *testing.T) {
	for _, kind := range Kinds() {
		_, ok := decoders[kind]
		assert.True(t, ok, "no decoder for %s", kind)
	}
	assert.Len(t, decoders, len(Kinds()))
}

func TestChosenTarget(t *testing.T) {
	spec, ok := ChosenTarget(
		Effects{Draw{Count: 1}},
		Effects{DealDamage{Target: Target(ScopeEnemyCharacter), Amount: 1}},
	)
	require.True(t, ok)
	assert.Equal(t, ScopeEnemyCharacter, spec.Scope)

	_, ok = ChosenTarget(Effects{DealDamage{Target: Target(ScopeAllEnemies), Amount: 1}})
	assert.False(t, ok)
}

func TestFilterOrdersByID(t *testing.T) {
	cat, err := LoadYAML(strings.NewReader(sampleCards))
	require.NoError(t, err)

	collectible := cat.Filter(func(d *Definition) bool { return d.Collectible })
	require.Len(t, collectible, 2)
	assert.Equal(t, "fireball", collectible[0].ID)
	assert.Equal(t, "haunted_creeper", collectible[1].ID)
}

func TestShippedCardFileLoads(t *testing.T) {
	cat, err := LoadFile("../../../cards/cards.yaml")
	require.NoError(t, err)
	assert.True(t, cat.Has(CoinID))

	hp, ok := cat.Lookup("fireblast")
	require.True(t, ok)
	assert.Equal(t, TypeHeroPower, hp.Type)
}
