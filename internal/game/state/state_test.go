package state

import (
	"testing"
	"time"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/counters"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	yeti = &catalog.Definition{ID: "yeti", Name: "Chillwind Yeti", Type: catalog.TypeMinion, Cost: 4, Attack: 4, Health: 5}
	wolf = &catalog.Definition{
		ID: "dire_wolf", Name: "Dire Wolf Alpha", Type: catalog.TypeMinion, Cost: 2, Attack: 2, Health: 2,
		Aura: &catalog.Aura{Attack: 1, Scope: catalog.AuraAdjacent},
	}
	raider = &catalog.Definition{
		ID: "raid_leader", Name: "Raid Leader", Type: catalog.TypeMinion, Cost: 3, Attack: 2, Health: 2,
		Aura: &catalog.Aura{Attack: 1, Scope: catalog.AuraOtherFriendly},
	}
	axe = &catalog.Definition{ID: "fiery_war_axe", Name: "Fiery War Axe", Type: catalog.TypeWeapon, Cost: 3, Attack: 3, Durability: 2}
)

func newTestMatch() *MatchState {
	ms := NewMatch("m1", [2]string{"alice", "bob"}, 30)
	ms.Phase = PhasePlaying
	return ms
}

func defaultLimits() Limits {
	return Limits{HandCap: 10, BoardCap: 7, MaxMana: 10}
}

func TestHeroIDs(t *testing.T) {
	id := HeroID("alice")
	assert.True(t, IsHero(id))
	assert.Equal(t, "alice", HeroOwner(id))
	assert.False(t, IsHero("some-card"))
}

func TestInstanceIDsAreDeterministic(t *testing.T) {
	a := newTestMatch()
	b := newTestMatch()
	idA, seqA := a.NewInstanceID()
	idB, seqB := b.NewInstanceID()
	assert.Equal(t, idA, idB)
	assert.Equal(t, seqA, seqB)

	next, seq := a.NewInstanceID()
	assert.NotEqual(t, idA, next)
	assert.Equal(t, seqA+1, seq)
}

func TestPlaceInsertsAtPosition(t *testing.T) {
	ms := newTestMatch()
	first := ms.CreateCard(yeti, "alice", ZoneBattlefield, -1)
	second := ms.CreateCard(yeti, "alice", ZoneBattlefield, -1)
	middle := ms.CreateCard(wolf, "alice", ZoneBattlefield, 1)

	assert.Equal(t, []string{first.ID, middle.ID, second.ID}, ms.Player("alice").Battlefield)
	assert.Equal(t, 1, ms.IndexOf(middle))

	adj := ms.Adjacent(middle)
	require.Len(t, adj, 2)
	assert.Equal(t, first.ID, adj[0].ID)
	assert.Equal(t, second.ID, adj[1].ID)
}

func TestMoveChangesController(t *testing.T) {
	ms := newTestMatch()
	c := ms.CreateCard(yeti, "alice", ZoneBattlefield, -1)
	ms.Move(c, ZoneBattlefield, "bob", -1)

	assert.Empty(t, ms.Player("alice").Battlefield)
	assert.Equal(t, []string{c.ID}, ms.Player("bob").Battlefield)
	assert.Equal(t, "bob", c.Controller)
	assert.Equal(t, "alice", c.Owner)
	assert.Empty(t, ms.CheckInvariants(defaultLimits()))
}

func TestReplaceKeepsSlot(t *testing.T) {
	ms := newTestMatch()
	left := ms.CreateCard(yeti, "alice", ZoneBattlefield, -1)
	old := ms.CreateCard(yeti, "alice", ZoneBattlefield, -1)
	right := ms.CreateCard(yeti, "alice", ZoneBattlefield, -1)

	repl := ms.Replace(old, wolf)
	assert.Nil(t, ms.Card(old.ID))
	assert.Equal(t, []string{left.ID, repl.ID, right.ID}, ms.Player("alice").Battlefield)
	assert.Equal(t, "dire_wolf", repl.CardID)
}

func TestAttackOfIncludesAuras(t *testing.T) {
	ms := newTestMatch()
	a := ms.CreateCard(yeti, "alice", ZoneBattlefield, -1)
	ms.CreateCard(wolf, "alice", ZoneBattlefield, -1)
	far := ms.CreateCard(yeti, "alice", ZoneBattlefield, -1)
	far2 := ms.CreateCard(yeti, "alice", ZoneBattlefield, -1)

	assert.Equal(t, 5, ms.AttackOf(a.ID))
	assert.Equal(t, 5, ms.AttackOf(far.ID))
	assert.Equal(t, 4, ms.AttackOf(far2.ID))

	ms.CreateCard(raider, "alice", ZoneBattlefield, -1)
	assert.Equal(t, 6, ms.AttackOf(a.ID))
	assert.Equal(t, 5, ms.AttackOf(far2.ID))

	ms.Card(ms.Player("alice").Battlefield[1]).Silenced = true
	assert.Equal(t, 5, ms.AttackOf(a.ID))
}

func TestHeroAttackUsesWeapon(t *testing.T) {
	ms := newTestMatch()
	assert.Equal(t, 0, ms.AttackOf(HeroID("alice")))
	ms.CreateCard(axe, "alice", ZoneWeapon, 0)
	assert.Equal(t, 3, ms.AttackOf(HeroID("alice")))
}

func TestClearBuffsKeepsDamageTaken(t *testing.T) {
	c := NewInstance("x", yeti, "alice", 0)
	c.Buffs.Add(counters.Buff{Attack: 2, Health: 2})
	c.Damage = 1
	require.Equal(t, 6, c.Health())

	c.ClearBuffs()
	assert.Equal(t, 5, c.Health())
	assert.Equal(t, 0, c.Damage)

	c.Buffs.Add(counters.Buff{Health: 2})
	c.Damage = 5
	c.ClearBuffs()
	assert.Equal(t, 2, c.Health())
}

func TestCurrentCostAppliesOutcastDiscount(t *testing.T) {
	c := NewInstance("x", yeti, "alice", 0)
	c.OutcastDiscount = 5
	assert.Equal(t, 4, c.CurrentCost())
	c.OutcastDiscounted = true
	assert.Equal(t, 0, c.CurrentCost())
}

func TestCheckInvariantsReportsProblems(t *testing.T) {
	ms := newTestMatch()
	c := ms.CreateCard(yeti, "alice", ZoneBattlefield, -1)
	require.Empty(t, ms.CheckInvariants(defaultLimits()))

	c.Damage = 5
	assert.Len(t, ms.CheckInvariants(defaultLimits()), 1)
	c.Damage = 0

	ms.Player("bob").Battlefield = append(ms.Player("bob").Battlefield, c.ID)
	assert.NotEmpty(t, ms.CheckInvariants(defaultLimits()))
	ms.Player("bob").Battlefield = nil

	ms.Player("alice").Mana.Current = 11
	ms.Player("alice").Mana.Max = 11
	assert.Len(t, ms.CheckInvariants(defaultLimits()), 1)
	ms.Player("alice").Mana = ms.Player("bob").Mana

	orphan := NewInstance("orphan", yeti, "alice", 99)
	ms.Cards[orphan.ID] = orphan
	assert.Len(t, ms.CheckInvariants(defaultLimits()), 1)
}

func TestDormantMinionIsNotDead(t *testing.T) {
	ms := newTestMatch()
	c := ms.CreateCard(yeti, "alice", ZoneBattlefield, -1)
	c.DormantTurns = 2
	c.Damage = 9
	assert.Empty(t, ms.CheckInvariants(defaultLimits()))
}

func TestCloneIsIndependent(t *testing.T) {
	ms := newTestMatch()
	c := ms.CreateCard(yeti, "alice", ZoneBattlefield, -1)
	ms.Log = append(ms.Log, rules.Event{Seq: 1, Type: rules.EventMinionSummoned, Data: map[string]string{"k": "v"}})

	cp := ms.Clone()
	cp.Card(c.ID).Damage = 3
	cp.Card(c.ID).Keywords[catalog.KeywordTaunt] = true
	cp.Player("alice").Battlefield[0] = "other"
	cp.Log[0].Data["k"] = "changed"

	assert.Equal(t, 0, c.Damage)
	assert.False(t, c.HasKeyword(catalog.KeywordTaunt))
	assert.Equal(t, c.ID, ms.Player("alice").Battlefield[0])
	assert.Equal(t, "v", ms.Log[0].Data["k"])
}

func TestSnapshotRoundTripKeepsChecksum(t *testing.T) {
	ms := newTestMatch()
	ms.CreateCard(yeti, "alice", ZoneHand, -1)
	ms.CreateCard(wolf, "bob", ZoneBattlefield, -1)
	ms.Log = append(ms.Log, rules.Event{Seq: 1, Type: rules.EventTurnStarted, Timestamp: time.Now()})

	before, err := ms.ComputeChecksum()
	require.NoError(t, err)

	data, err := Marshal(ms)
	require.NoError(t, err)
	back, err := Unmarshal(data)
	require.NoError(t, err)

	after, err := back.ComputeChecksum()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	back.Log[0].Timestamp = time.Now().Add(time.Hour)
	again, err := back.ComputeChecksum()
	require.NoError(t, err)
	assert.Equal(t, before.Hash, again.Hash)

	back.Player("alice").Hero.Health--
	changed, err := back.ComputeChecksum()
	require.NoError(t, err)
	assert.NotEqual(t, before.Hash, changed.Hash)
}

func TestUnmarshalRejectsUnknownVersion(t *testing.T) {
	_, err := Unmarshal([]byte(`{"version":99,"state":{}}`))
	assert.Error(t, err)
}
