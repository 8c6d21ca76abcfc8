package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cardforge/cardforge-server/internal/game/rules"
)

// SnapshotVersion is bumped whenever the encoded layout changes.
const SnapshotVersion = 1

// Checksum is a deterministic digest of a snapshot. Two snapshots with the
// same checksum are interchangeable for replay and resume.
type Checksum struct {
	Hash    string `json:"hash"`
	Version int    `json:"version"`
}

type envelope struct {
	Version int         `json:"version"`
	State   *MatchState `json:"state"`
}

// Clone returns a deep, independent copy of the snapshot.
func (ms *MatchState) Clone() *MatchState {
	cp := *ms
	cp.Players = make([]*PlayerState, len(ms.Players))
	for i, p := range ms.Players {
		cp.Players[i] = p.clone()
	}
	cp.Cards = make(map[string]*CardInstance, len(ms.Cards))
	for id, c := range ms.Cards {
		cp.Cards[id] = c.Copy()
	}
	cp.Log = make([]rules.Event, len(ms.Log))
	for i, e := range ms.Log {
		cp.Log[i] = cloneEvent(e)
	}
	if ms.Queue != nil {
		cp.Queue = make([]rules.Activation, len(ms.Queue))
		for i, a := range ms.Queue {
			a.Effects = append(a.Effects[:0:0], a.Effects...)
			cp.Queue[i] = a
		}
	}
	cp.Pending = ms.Pending.Copy()
	return &cp
}

func (p *PlayerState) clone() *PlayerState {
	cp := *p
	cp.Deck = append([]string(nil), p.Deck...)
	cp.Hand = append([]string(nil), p.Hand...)
	cp.Battlefield = append([]string(nil), p.Battlefield...)
	cp.Graveyard = append([]string(nil), p.Graveyard...)
	cp.Secrets = append([]string(nil), p.Secrets...)
	return &cp
}

func cloneEvent(e rules.Event) rules.Event {
	if e.Data != nil {
		data := make(map[string]string, len(e.Data))
		for k, v := range e.Data {
			data[k] = v
		}
		e.Data = data
	}
	return e
}

// Marshal encodes the snapshot with its layout version.
func Marshal(ms *MatchState) ([]byte, error) {
	data, err := json.Marshal(envelope{Version: SnapshotVersion, State: ms})
	if err != nil {
		return nil, fmt.Errorf("encode match %s: %w", ms.ID, err)
	}
	return data, nil
}

// Unmarshal decodes a snapshot produced by Marshal.
func Unmarshal(data []byte) (*MatchState, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode match snapshot: %w", err)
	}
	if env.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", env.Version)
	}
	if env.State == nil {
		return nil, fmt.Errorf("snapshot has no state")
	}
	if env.State.Cards == nil {
		env.State.Cards = make(map[string]*CardInstance)
	}
	return env.State, nil
}

// ComputeChecksum digests the snapshot. Event timestamps are excluded;
// map keys are emitted sorted by encoding/json.
func (ms *MatchState) ComputeChecksum() (Checksum, error) {
	cp := ms.Clone()
	for i := range cp.Log {
		cp.Log[i].Timestamp = time.Time{}
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return Checksum{}, fmt.Errorf("checksum match %s: %w", ms.ID, err)
	}
	sum := sha256.Sum256(data)
	return Checksum{Hash: hex.EncodeToString(sum[:]), Version: SnapshotVersion}, nil
}
