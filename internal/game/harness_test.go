package game

import (
	"testing"
	"time"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/mana"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testEpoch = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func baseDefinitions() []catalog.Definition {
	return []catalog.Definition{
		{ID: "wisp", Name: "Wisp", Type: catalog.TypeMinion, Attack: 1, Health: 1, Collectible: true},
		{
			ID: catalog.CoinID, Name: "The Coin", Type: catalog.TypeSpell,
			Spell: catalog.Effects{catalog.GainMana{Amount: 1, Temporary: true}},
		},
	}
}

// harness drives a two-player match that starts on alice's first turn with
// full mana and five Wisps in each deck. Instances are looked up by id after
// every action because each action commits a fresh snapshot.
type harness struct {
	t      *testing.T
	engine *Engine
	ms     *state.MatchState
	events []rules.Event
}

func newTestEngine(t *testing.T, rng RandomSource, defs ...catalog.Definition) *Engine {
	t.Helper()
	cat, err := catalog.New(append(baseDefinitions(), defs...))
	require.NoError(t, err)
	e, err := NewEngine(cat, DefaultRules(),
		WithLogger(zaptest.NewLogger(t)),
		WithRandom(rng),
		WithClock(func() time.Time { return testEpoch }),
	)
	require.NoError(t, err)
	return e
}

func newHarness(t *testing.T, defs ...catalog.Definition) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		engine: newTestEngine(t, NewSeededRandom(7), defs...),
		ms:     state.NewMatch("test", [2]string{"alice", "bob"}, 30),
	}
	h.ms.Phase = state.PhasePlaying
	h.ms.Turn = 1
	for _, pl := range h.ms.Players {
		pl.Mana = mana.Pool{Current: 10, Max: 10}
		pl.Mulliganed = true
	}
	for i := 0; i < 5; i++ {
		h.put("alice", "wisp", state.ZoneDeck)
		h.put("bob", "wisp", state.ZoneDeck)
	}
	return h
}

// put creates an instance of cardID in playerID's zone and returns its id.
func (h *harness) put(playerID, cardID string, zone state.Zone) string {
	h.t.Helper()
	def, ok := h.engine.Catalog().Lookup(cardID)
	require.True(h.t, ok, "unknown card %s", cardID)
	return h.ms.CreateCard(def, playerID, zone, -1).ID
}

func (h *harness) act(playerID string, action Action) *Result {
	h.t.Helper()
	res, err := h.engine.ApplyAction(h.ms, playerID, action)
	require.NoError(h.t, err)
	h.ms = res.State
	h.events = res.Events
	return res
}

// reject applies an action that must be refused with reason.
func (h *harness) reject(playerID string, action Action, reason Reason) {
	h.t.Helper()
	before, err := h.ms.ComputeChecksum()
	require.NoError(h.t, err)

	_, err = h.engine.ApplyAction(h.ms, playerID, action)
	require.Error(h.t, err)
	require.Equal(h.t, reason, ReasonOf(err), "unexpected rejection: %v", err)

	after, err := h.ms.ComputeChecksum()
	require.NoError(h.t, err)
	require.Equal(h.t, before, after, "rejected action changed the state")
}

func (h *harness) endTurn() {
	h.t.Helper()
	h.act(h.ms.ActivePlayer().ID, EndTurn{})
}

func (h *harness) card(id string) *state.CardInstance {
	return h.ms.Card(id)
}

func (h *harness) player(id string) *state.PlayerState {
	return h.ms.Player(id)
}

func (h *harness) hero(id string) state.Hero {
	return h.ms.Player(id).Hero
}

// count returns how many events of type et the last action appended.
func (h *harness) count(et rules.EventType) int {
	n := 0
	for _, ev := range h.events {
		if ev.Type == et {
			n++
		}
	}
	return n
}

func (h *harness) find(et rules.EventType) (rules.Event, bool) {
	for _, ev := range h.events {
		if ev.Type == et {
			return ev, true
		}
	}
	return rules.Event{}, false
}

// sequence returns the types of the last action's events restricted to keep.
func (h *harness) sequence(keep ...rules.EventType) []rules.EventType {
	want := make(map[rules.EventType]bool, len(keep))
	for _, et := range keep {
		want[et] = true
	}
	var out []rules.EventType
	for _, ev := range h.events {
		if want[ev.Type] {
			out = append(out, ev.Type)
		}
	}
	return out
}

func minionDef(id string, attack, health int, kws ...catalog.Keyword) catalog.Definition {
	return catalog.Definition{ID: id, Name: id, Type: catalog.TypeMinion, Cost: 1, Attack: attack, Health: health, Keywords: kws}
}

func spellDef(id string, cost int, effects ...catalog.Effect) catalog.Definition {
	return catalog.Definition{ID: id, Name: id, Type: catalog.TypeSpell, Cost: cost, Spell: catalog.Effects(effects)}
}
