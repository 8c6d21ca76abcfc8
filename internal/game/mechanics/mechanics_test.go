package mechanics

import (
	"testing"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type defMap map[string]*catalog.Definition

func (m defMap) Lookup(id string) (*catalog.Definition, bool) {
	def, ok := m[id]
	return def, ok
}

type seqPicker struct{ next int }

func (p *seqPicker) IntN(n int) int {
	v := p.next % n
	p.next++
	return v
}

func newMatch() *state.MatchState {
	ms := state.NewMatch("mech", [2]string{"alice", "bob"}, 30)
	ms.Phase = state.PhasePlaying
	return ms
}

func TestCombo(t *testing.T) {
	p := &state.PlayerState{}
	assert.False(t, ComboActive(p))
	p.CardsPlayedThisTurn = 1
	assert.True(t, ComboActive(p))
}

func TestOutcastActive(t *testing.T) {
	cases := []struct {
		index, length int
		want          bool
	}{
		{0, 1, true},
		{0, 4, true},
		{3, 4, true},
		{1, 4, false},
		{2, 4, false},
		{0, 0, false},
		{5, 4, false},
	}
	for _, tc := range cases {
		if got := OutcastActive(tc.index, tc.length); got != tc.want {
			t.Errorf("OutcastActive(%d, %d) = %v, want %v", tc.index, tc.length, got, tc.want)
		}
	}
}

func TestRefreshOutcastDiscountsFollowsPosition(t *testing.T) {
	ms := newMatch()
	discounted := &catalog.Definition{ID: "reckless", Type: catalog.TypeSpell, Cost: 3, OutcastDiscount: 2}
	filler := &catalog.Definition{ID: "filler", Type: catalog.TypeSpell, Cost: 1}

	a := ms.CreateCard(filler, "alice", state.ZoneHand, -1)
	d := ms.CreateCard(discounted, "alice", state.ZoneHand, -1)
	ms.CreateCard(filler, "alice", state.ZoneHand, -1)
	p := ms.Player("alice")

	RefreshOutcastDiscounts(ms, p)
	assert.False(t, d.OutcastDiscounted)
	assert.Equal(t, 3, d.CurrentCost())

	ms.Remove(a)
	RefreshOutcastDiscounts(ms, p)
	assert.True(t, d.OutcastDiscounted)
	assert.Equal(t, 1, d.CurrentCost())
}

func TestCorruptRequiresStrictlyHigherCost(t *testing.T) {
	defs := defMap{
		"clown":      {ID: "clown", Type: catalog.TypeMinion, Cost: 3, Attack: 2, Health: 2, CorruptsTo: "clown_plus"},
		"clown_plus": {ID: "clown_plus", Type: catalog.TypeMinion, Cost: 3, Attack: 4, Health: 4},
	}
	ms := newMatch()
	c := ms.CreateCard(defs["clown"], "alice", state.ZoneHand, -1)

	assert.Empty(t, Corrupt(ms, defs, "alice", 3))
	assert.NotNil(t, ms.Card(c.ID))

	got := Corrupt(ms, defs, "alice", 4)
	require.Len(t, got, 1)
	assert.Equal(t, c.ID, got[0].FromID)
	assert.Nil(t, ms.Card(c.ID))

	upgraded := ms.Card(got[0].ToID)
	require.NotNil(t, upgraded)
	assert.True(t, upgraded.Corrupted)
	assert.Equal(t, "clown_plus", upgraded.CardID)
	assert.Equal(t, []string{upgraded.ID}, ms.Player("alice").Hand)

	assert.Empty(t, Corrupt(ms, defs, "alice", 9))
}

func TestFrenzyFiresOncePerLife(t *testing.T) {
	def := &catalog.Definition{
		ID: "berserker", Type: catalog.TypeMinion, Attack: 2, Health: 4,
		Frenzy: catalog.Effects{catalog.Heal{Target: catalog.Target(catalog.ScopeFriendlyHero), Amount: 4}},
	}
	c := state.NewInstance("b", def, "alice", 0)
	c.Damage = 1
	require.True(t, FrenzyReady(c, def))
	MarkFrenzy(c)
	assert.False(t, FrenzyReady(c, def))

	fresh := state.NewInstance("b2", def, "alice", 1)
	fresh.Damage = 4
	assert.False(t, FrenzyReady(fresh, def))
}

func TestRebirthCreatesFreshOneHealthCopy(t *testing.T) {
	def := &catalog.Definition{ID: "phoenix", Type: catalog.TypeMinion, Attack: 3, Health: 4, Keywords: []catalog.Keyword{catalog.KeywordReborn}}
	ms := newMatch()
	dead := ms.CreateCard(def, "alice", state.ZoneBattlefield, -1)
	require.True(t, CanReborn(dead))

	dead.Damage = 4
	ms.Move(dead, state.ZoneGraveyard, "alice", -1)
	back := Rebirth(ms, dead, def, 0)

	assert.NotEqual(t, dead.ID, back.ID)
	assert.Equal(t, 1, back.Health())
	assert.False(t, CanReborn(back))
	assert.Equal(t, []string{back.ID}, ms.Player("alice").Battlefield)

	dead.Silenced = true
	assert.False(t, CanReborn(dead))
}

func TestDormantCountdown(t *testing.T) {
	def := &catalog.Definition{ID: "sleeper", Type: catalog.TypeMinion, Attack: 5, Health: 5, Dormant: &catalog.Dormancy{Turns: 2}}
	c := state.NewInstance("s", def, "alice", 0)
	require.True(t, EnterDormant(c, def))
	assert.True(t, IsDormant(c))

	assert.False(t, TickDormant(c))
	assert.True(t, TickDormant(c))
	assert.False(t, IsDormant(c))
	assert.False(t, TickDormant(c))

	plain := &catalog.Definition{ID: "plain", Type: catalog.TypeMinion, Attack: 1, Health: 1}
	assert.False(t, EnterDormant(state.NewInstance("p", plain, "alice", 1), plain))
}

func TestMagnetizeMergesIntoMech(t *testing.T) {
	mech := &catalog.Definition{ID: "bot", Type: catalog.TypeMinion, Tribe: catalog.TribeMech, Attack: 1, Health: 2}
	magnet := &catalog.Definition{
		ID: "magnet", Type: catalog.TypeMinion, Tribe: catalog.TribeMech, Attack: 2, Health: 3,
		Keywords:    []catalog.Keyword{catalog.KeywordMagnetic, catalog.KeywordTaunt},
		Deathrattle: catalog.Effects{catalog.Draw{Count: 1}},
	}
	plain := &catalog.Definition{ID: "plain", Type: catalog.TypeMinion, Attack: 1, Health: 1}

	ms := newMatch()
	other := ms.CreateCard(plain, "alice", state.ZoneBattlefield, -1)
	host := ms.CreateCard(mech, "alice", state.ZoneBattlefield, -1)

	assert.Nil(t, MagneticHost(ms, "alice", 0))
	assert.Nil(t, MagneticHost(ms, "alice", 2))
	require.Equal(t, host.ID, MagneticHost(ms, "alice", 1).ID)

	incoming := state.NewInstance("in", magnet, "alice", 9)
	Magnetize(host, incoming, magnet)

	assert.Equal(t, 3, ms.AttackOf(host.ID))
	assert.Equal(t, 5, host.Health())
	assert.True(t, host.HasKeyword(catalog.KeywordTaunt))
	assert.False(t, host.HasKeyword(catalog.KeywordMagnetic))
	assert.Len(t, host.ExtraDeathrattles, 1)
	assert.Equal(t, []string{"magnet"}, host.Magnetized)
	assert.Len(t, ms.Player("alice").Battlefield, 2)
	assert.Equal(t, 1, ms.AttackOf(other.ID))
}

func TestOfferAdaptationsAreDistinct(t *testing.T) {
	offered := OfferAdaptations(&seqPicker{}, 3, defMap{})
	require.Len(t, offered, 3)
	seen := map[string]bool{}
	for _, a := range offered {
		assert.False(t, seen[a.ID], "duplicate %s", a.ID)
		assert.NotEqual(t, "living_spores", a.ID)
		seen[a.ID] = true
	}

	all := OfferAdaptations(&seqPicker{}, 20, defMap{PlantCardID: {ID: PlantCardID}})
	assert.Len(t, all, len(Adaptations()))
}

func TestApplyAdaptation(t *testing.T) {
	def := &catalog.Definition{ID: "raptor", Type: catalog.TypeMinion, Attack: 2, Health: 2}
	c := state.NewInstance("r", def, "alice", 0)

	require.NoError(t, ApplyAdaptation(c, "volcanic_might"))
	assert.Equal(t, 3, c.Health())
	require.NoError(t, ApplyAdaptation(c, "massive"))
	assert.True(t, c.HasKeyword(catalog.KeywordTaunt))
	require.NoError(t, ApplyAdaptation(c, "living_spores"))
	assert.Len(t, c.ExtraDeathrattles, 1)

	assert.Error(t, ApplyAdaptation(c, "wings"))
	for _, a := range Adaptations() {
		_, ok := LookupAdaptation(a.ID)
		assert.True(t, ok)
	}
}
