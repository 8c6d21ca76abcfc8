package choice

import (
	"encoding/json"
	"testing"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestOption(t *testing.T) {
	req := &Request{
		Kind:    KindDiscover,
		Options: []Option{{ID: "fireball"}, {ID: "frostbolt"}},
	}

	opt, ok := req.Option("frostbolt")
	require.True(t, ok)
	assert.Equal(t, "frostbolt", opt.ID)

	_, ok = req.Option("arcane_missiles")
	assert.False(t, ok)
}

func TestRequestCopyIsIndependent(t *testing.T) {
	req := &Request{
		Options: []Option{{ID: "a"}},
		Then:    catalog.Effects{catalog.Draw{Count: 1}},
	}
	cp := req.Copy()
	cp.Options[0].ID = "b"
	cp.Then[0] = catalog.GainArmor{Amount: 2}

	assert.Equal(t, "a", req.Options[0].ID)
	assert.Equal(t, catalog.Draw{Count: 1}, req.Then[0])
	assert.Nil(t, (*Request)(nil).Copy())
}

func TestRequestSurvivesJSON(t *testing.T) {
	req := &Request{
		ID:       "choice-7",
		Kind:     KindTarget,
		PlayerID: "alice",
		SourceID: "card-1",
		Options:  []Option{{ID: "m1", TargetID: "m1"}},
		Effect:   catalog.Effects{catalog.DealDamage{Target: catalog.Target(catalog.ScopeEnemyMinion), Amount: 2}},
		Then:     catalog.Effects{catalog.Draw{Count: 1}},
	}

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var back Request
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, req, &back)
}
