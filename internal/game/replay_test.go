package game

import (
	"testing"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// zeroRandom never reorders and always picks the first candidate, so a
// fresh engine reproduces a recorded match exactly.
type zeroRandom struct{}

func (zeroRandom) IntN(int) int                 { return 0 }
func (zeroRandom) Shuffle(int, func(i, j int)) {}

func recordMatch(t *testing.T, rr *ReplayRecorder) *Manager {
	t.Helper()
	m := NewManager(newTestEngine(t, zeroRandom{}), zaptest.NewLogger(t),
		WithReplayRecorder(rr),
		WithSynchronousObservers(),
	)
	res, err := m.Create("r1", testSetups())
	require.NoError(t, err)

	aliceHand := res.State.Player("alice").Hand
	_, err = m.Submit("r1", "alice", Mulligan{Replace: aliceHand[:1]})
	require.NoError(t, err)
	_, err = m.Submit("r1", "bob", Mulligan{})
	require.NoError(t, err)
	_, err = m.Submit("r1", "alice", EndTurn{})
	require.NoError(t, err)

	snap, err := m.Snapshot("r1")
	require.NoError(t, err)
	var coin string
	for _, id := range snap.Player("bob").Hand {
		if snap.Card(id).CardID == catalog.CoinID {
			coin = id
		}
	}
	require.NotEmpty(t, coin, "bob should hold The Coin")
	_, err = m.Submit("r1", "bob", PlayCard{CardID: coin, Position: -1})
	require.NoError(t, err)
	return m
}

func TestReplayRecordsEveryCommit(t *testing.T) {
	rr := NewReplayRecorder(zaptest.NewLogger(t), t.TempDir())
	recordMatch(t, rr)

	assert.True(t, rr.IsRecording("r1"))
	replay, ok := rr.GetReplay("r1")
	require.True(t, ok)
	require.Equal(t, 5, replay.Size())
	assert.Empty(t, replay.FrameAt(0).Action)
	assert.Equal(t, "alice", replay.FrameAt(1).PlayerID)

	a, err := DecodeAction(replay.FrameAt(4).Action)
	require.NoError(t, err)
	assert.Equal(t, ActionPlayCard, a.Type())

	_, err = replay.FrameAt(4).State()
	require.NoError(t, err)
	assert.Nil(t, replay.FrameAt(5))
	assert.Nil(t, replay.FrameAt(-1))
}

func TestReplayNavigation(t *testing.T) {
	rr := NewReplayRecorder(zaptest.NewLogger(t), t.TempDir())
	recordMatch(t, rr)
	replay, ok := rr.GetReplay("r1")
	require.True(t, ok)

	assert.Nil(t, replay.Previous())
	assert.Same(t, replay.FrameAt(0), replay.Next())
	assert.Same(t, replay.FrameAt(1), replay.Next())
	assert.Same(t, replay.FrameAt(1), replay.Previous())
	assert.Same(t, replay.FrameAt(4), replay.Skip(10))
	assert.Same(t, replay.FrameAt(0), replay.Skip(-10))

	replay.Start()
	for i := 0; i < replay.Size(); i++ {
		require.NotNil(t, replay.Next())
	}
	assert.Nil(t, replay.Next())
}

func TestReplaySaveLoadAndVerify(t *testing.T) {
	dir := t.TempDir()
	rr := NewReplayRecorder(zaptest.NewLogger(t), dir)
	recordMatch(t, rr)

	require.NoError(t, rr.SaveReplay("r1"))
	_, ok := rr.GetReplay("r1")
	assert.False(t, ok)
	assert.Error(t, rr.SaveReplay("r1"))

	loaded, err := rr.LoadReplay("r1")
	require.NoError(t, err)
	require.Equal(t, 5, loaded.Size())
	assert.Equal(t, "r1", loaded.MatchID)

	require.NoError(t, loaded.Verify(newTestEngine(t, zeroRandom{})))

	loaded.Frames[3].Checksum.Hash = "tampered"
	err = loaded.Verify(newTestEngine(t, zeroRandom{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame 3")

	_, err = LoadReplayFromFile(dir, "missing")
	assert.Error(t, err)
}

func TestReplayStopsWhenMatchEnds(t *testing.T) {
	rr := NewReplayRecorder(zaptest.NewLogger(t), t.TempDir())
	h := newHarness(t, minionDef("ogre", 3, 3))
	ogre := h.put("alice", "ogre", state.ZoneBattlefield)
	h.player("bob").Hero.Health = 3

	m := NewManager(h.engine, zaptest.NewLogger(t), WithReplayRecorder(rr))
	require.NoError(t, m.Restore(h.ms))
	rr.StartRecording("test")

	_, err := m.Submit("test", "alice", Attack{AttackerID: ogre, DefenderID: state.HeroID("bob")})
	require.NoError(t, err)
	assert.False(t, rr.IsRecording("test"))

	replay, ok := rr.GetReplay("test")
	require.True(t, ok)
	assert.Equal(t, 1, replay.Size())

	rr.ClearReplay("test")
	_, ok = rr.GetReplay("test")
	assert.False(t, ok)
}
