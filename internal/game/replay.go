package game

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cardforge/cardforge-server/internal/game/state"
	"go.uber.org/zap"
)

const replayVersion = 1

// ReplayFrame is one committed snapshot and the action that produced it.
// The first frame of a match has no action.
type ReplayFrame struct {
	PlayerID string          `json:"player_id,omitempty"`
	Action   json.RawMessage `json:"action,omitempty"`
	Events   int             `json:"events"`
	Checksum state.Checksum  `json:"checksum"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// State decodes the frame's match state.
func (f *ReplayFrame) State() (*state.MatchState, error) {
	return state.Unmarshal(f.Snapshot)
}

// Replay is the sequence of snapshots of one match, playable back and forth.
type Replay struct {
	MatchID      string
	Frames       []*ReplayFrame
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay.
func NewReplay(matchID string) *Replay {
	return &Replay{
		MatchID: matchID,
		Frames:  make([]*ReplayFrame, 0),
	}
}

// newFrame snapshots ms after action.
func newFrame(ms *state.MatchState, playerID string, action Action, events int) (*ReplayFrame, error) {
	snap, err := state.Marshal(ms)
	if err != nil {
		return nil, err
	}
	sum, err := ms.ComputeChecksum()
	if err != nil {
		return nil, err
	}
	f := &ReplayFrame{PlayerID: playerID, Events: events, Checksum: sum, Snapshot: snap}
	if action != nil {
		if f.Action, err = EncodeAction(action); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Record appends a frame.
func (r *Replay) Record(frame *ReplayFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Frames = append(r.Frames, frame)
}

// Start rewinds to the first frame.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the current frame and advances.
func (r *Replay) Next() *ReplayFrame {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.Frames) {
		f := r.Frames[r.CurrentIndex]
		r.CurrentIndex++
		return f
	}
	return nil
}

// Previous steps back one frame and returns it.
func (r *Replay) Previous() *ReplayFrame {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.Frames[r.CurrentIndex]
	}
	return nil
}

// Skip moves by count frames, clamped to the recording.
func (r *Replay) Skip(count int) *ReplayFrame {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.CurrentIndex + count
	if idx >= len(r.Frames) {
		idx = len(r.Frames) - 1
	}
	if idx < 0 {
		idx = 0
	}
	r.CurrentIndex = idx
	if idx < len(r.Frames) {
		return r.Frames[idx]
	}
	return nil
}

// Size returns the number of frames.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.Frames)
}

// FrameAt returns the frame at index.
func (r *Replay) FrameAt(index int) *ReplayFrame {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.Frames) {
		return r.Frames[index]
	}
	return nil
}

// Verify re-applies every recorded action with engine and checks each
// resulting checksum. The engine must use the random source the match was
// played with, seeded the same way.
func (r *Replay) Verify(e *Engine) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.Frames) == 0 {
		return nil
	}
	ms, err := r.Frames[0].State()
	if err != nil {
		return fmt.Errorf("frame 0: %w", err)
	}
	for i, f := range r.Frames[1:] {
		a, err := DecodeAction(f.Action)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i+1, err)
		}
		res, err := e.ApplyAction(ms, f.PlayerID, a)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i+1, err)
		}
		sum, err := res.State.ComputeChecksum()
		if err != nil {
			return fmt.Errorf("frame %d: %w", i+1, err)
		}
		if sum != f.Checksum {
			return fmt.Errorf("frame %d: checksum %s, recorded %s", i+1, sum.Hash, f.Checksum.Hash)
		}
		ms = res.State
	}
	return nil
}

type replayFile struct {
	MatchID string         `json:"match_id"`
	Saved   time.Time      `json:"saved"`
	Version int            `json:"version"`
	Frames  []*ReplayFrame `json:"frames"`
}

// SaveToFile writes the replay as gzipped JSON to directory/<match>.replay.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", r.MatchID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	body := replayFile{MatchID: r.MatchID, Saved: time.Now(), Version: replayVersion, Frames: r.Frames}
	if err := json.NewEncoder(gz).Encode(&body); err != nil {
		gz.Close()
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, matchID string) (*Replay, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", matchID))
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	var body replayFile
	if err := json.NewDecoder(gz).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if body.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", body.Version)
	}
	replay := NewReplay(body.MatchID)
	replay.Frames = append(replay.Frames, body.Frames...)
	return replay, nil
}

// ReplayRecorder keeps replays of the matches a manager runs.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay
	enabled map[string]bool
	saveDir string
}

// NewReplayRecorder creates a recorder saving to saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		enabled: make(map[string]bool),
		saveDir: saveDir,
	}
}

// StartRecording begins recording a match.
func (rr *ReplayRecorder) StartRecording(matchID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.replays[matchID] = NewReplay(matchID)
	rr.enabled[matchID] = true
	rr.logger.Info("started replay recording", zap.String("match_id", matchID))
}

// StopRecording stops recording a match. Frames recorded so far are kept.
func (rr *ReplayRecorder) StopRecording(matchID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.enabled[matchID] = false
	rr.logger.Info("stopped replay recording", zap.String("match_id", matchID))
}

// Record snapshots ms after action if recording is enabled.
func (rr *ReplayRecorder) Record(ms *state.MatchState, playerID string, action Action, events int) {
	rr.mu.RLock()
	enabled := rr.enabled[ms.ID]
	replay := rr.replays[ms.ID]
	rr.mu.RUnlock()

	if !enabled || replay == nil {
		return
	}
	frame, err := newFrame(ms, playerID, action, events)
	if err != nil {
		rr.logger.Error("replay frame dropped", zap.String("match_id", ms.ID), zap.Error(err))
		return
	}
	replay.Record(frame)
	rr.logger.Debug("recorded replay frame",
		zap.String("match_id", ms.ID),
		zap.Int("frames", replay.Size()),
	)
}

// GetReplay returns the replay of a match.
func (rr *ReplayRecorder) GetReplay(matchID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	replay, ok := rr.replays[matchID]
	return replay, ok
}

// SaveReplay writes a replay to disk and drops it from memory.
func (rr *ReplayRecorder) SaveReplay(matchID string) error {
	rr.mu.Lock()
	replay, ok := rr.replays[matchID]
	if !ok {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for match %s", matchID)
	}
	delete(rr.replays, matchID)
	delete(rr.enabled, matchID)
	rr.mu.Unlock()

	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}
	rr.logger.Info("saved replay to disk",
		zap.String("match_id", matchID),
		zap.Int("frames", replay.Size()),
		zap.String("directory", rr.saveDir),
	)
	return nil
}

// LoadReplay reads a saved replay.
func (rr *ReplayRecorder) LoadReplay(matchID string) (*Replay, error) {
	replay, err := LoadReplayFromFile(rr.saveDir, matchID)
	if err != nil {
		return nil, err
	}
	rr.logger.Info("loaded replay from disk",
		zap.String("match_id", matchID),
		zap.Int("frames", replay.Size()),
	)
	return replay, nil
}

// ClearReplay drops a replay without saving it.
func (rr *ReplayRecorder) ClearReplay(matchID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	delete(rr.replays, matchID)
	delete(rr.enabled, matchID)
}

// IsRecording reports whether a match is being recorded.
func (rr *ReplayRecorder) IsRecording(matchID string) bool {
	rr.mu.RLock()
	defer rr.mu.RUnlock()

	return rr.enabled[matchID]
}
