package game

import (
	"encoding/json"
	"testing"

	"github.com/cardforge/cardforge-server/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Action
	}{
		{"play", `{"type":"play_card","card_id":"c7","target_id":"hero:bob","position":2}`, PlayCard{CardID: "c7", TargetID: "hero:bob", Position: 2}},
		{"play appends by default", `{"type":"play_card","card_id":"c7"}`, PlayCard{CardID: "c7", Position: -1}},
		{"play leftmost", `{"type":"play_card","card_id":"c7","position":0}`, PlayCard{CardID: "c7", Position: 0}},
		{"attack", `{"type":"attack","attacker_id":"c1","defender_id":"c2"}`, Attack{AttackerID: "c1", DefenderID: "c2"}},
		{"hero power", `{"type":"use_hero_power"}`, UseHeroPower{}},
		{"choice", `{"type":"resolve_choice","option_id":"opt-1"}`, ResolveChoice{OptionID: "opt-1"}},
		{"end turn", `{"type":"end_turn","ignored":true}`, EndTurn{}},
		{"mulligan", `{"type":"mulligan","replace":["c1","c3"]}`, Mulligan{Replace: []string{"c1", "c3"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAction([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeActionErrors(t *testing.T) {
	for _, data := range []string{
		`{"type":"concede"}`,
		`{"card_id":"c1"}`,
		`not json`,
		`{"type":"attack","attacker_id":7}`,
	} {
		_, err := DecodeAction([]byte(data))
		if err == nil {
			t.Errorf("DecodeAction(%s) succeeded", data)
		}
	}
}

func TestEncodeActionTagsType(t *testing.T) {
	data, err := EncodeAction(Attack{AttackerID: "c1", DefenderID: "hero:bob"})
	require.NoError(t, err)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, map[string]string{"type": "attack", "attacker_id": "c1", "defender_id": "hero:bob"}, fields)

	data, err = EncodeAction(EndTurn{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"end_turn"}`, string(data))
}

func TestDecodedPlayWithoutPositionAppends(t *testing.T) {
	h := newHarness(t)
	first := h.put("alice", "wisp", state.ZoneBattlefield)
	id := h.put("alice", "wisp", state.ZoneHand)

	a, err := DecodeAction([]byte(`{"type":"play_card","card_id":"` + id + `"}`))
	require.NoError(t, err)
	h.act("alice", a)
	assert.Equal(t, []string{first, id}, h.player("alice").Battlefield)
}
