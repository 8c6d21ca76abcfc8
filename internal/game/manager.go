package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notification is the delivery of one committed action to observers.
type Notification struct {
	MatchID   string            `json:"match_id"`
	PlayerID  string            `json:"player_id,omitempty"`
	Action    ActionType        `json:"action,omitempty"`
	Snapshot  *state.MatchState `json:"snapshot"`
	Events    []rules.Event     `json:"events"`
	Timestamp time.Time         `json:"timestamp"`
}

// Observer receives notifications. It must treat the snapshot as read-only.
type Observer func(Notification)

type managedMatch struct {
	mu    sync.Mutex
	state *state.MatchState

	// outbox holds notifications in commit order. draining is set while a
	// goroutine is delivering them.
	outMu    sync.Mutex
	outbox   []Notification
	draining bool
}

// Manager owns the current snapshot of every running match and serializes
// actions per match.
type Manager struct {
	engine   *Engine
	logger   *zap.Logger
	bus      *rules.EventBus
	recorder *ReplayRecorder

	mu         sync.RWMutex
	matches    map[string]*managedMatch
	observers  []Observer
	syncNotify bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithEventBus publishes every committed event on bus.
func WithEventBus(bus *rules.EventBus) ManagerOption {
	return func(m *Manager) { m.bus = bus }
}

// WithReplayRecorder records every match the manager creates.
func WithReplayRecorder(rr *ReplayRecorder) ManagerOption {
	return func(m *Manager) { m.recorder = rr }
}

// WithSynchronousObservers delivers notifications on a submitting goroutine
// instead of a background one. Once every Submit for a match has returned,
// all of its notifications have been delivered.
func WithSynchronousObservers() ManagerOption {
	return func(m *Manager) { m.syncNotify = true }
}

// NewManager creates a manager around engine.
func NewManager(engine *Engine, logger *zap.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		engine:  engine,
		logger:  logger,
		matches: make(map[string]*managedMatch),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Engine returns the engine the manager applies actions with.
func (m *Manager) Engine() *Engine {
	return m.engine
}

// Observe registers an observer for all matches.
func (m *Manager) Observe(o Observer) {
	if o == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Create starts a new match. An empty id generates one.
func (m *Manager) Create(matchID string, setups [2]PlayerSetup) (*Result, error) {
	if matchID == "" {
		matchID = uuid.NewString()
	}
	m.mu.Lock()
	if _, exists := m.matches[matchID]; exists {
		m.mu.Unlock()
		return nil, fmt.Errorf("match %s already exists", matchID)
	}
	mm := &managedMatch{}
	mm.mu.Lock()
	m.matches[matchID] = mm
	m.mu.Unlock()

	res, err := m.engine.NewMatch(matchID, setups)
	if err != nil {
		m.mu.Lock()
		delete(m.matches, matchID)
		m.mu.Unlock()
		mm.mu.Unlock()
		return nil, fmt.Errorf("create match %s: %w", matchID, err)
	}
	mm.state = res.State

	if m.recorder != nil {
		m.recorder.StartRecording(matchID)
		m.recorder.Record(res.State, "", nil, len(res.Events))
	}
	start := mm.post(Notification{MatchID: matchID, Snapshot: res.State.Clone(), Events: res.Events, Timestamp: time.Now()})
	mm.mu.Unlock()

	m.flush(mm, start)
	return res, nil
}

// Restore installs a snapshot, for example one loaded from storage.
func (m *Manager) Restore(ms *state.MatchState) error {
	if ms == nil || ms.ID == "" {
		return fmt.Errorf("restore: snapshot has no match id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.matches[ms.ID]; exists {
		return fmt.Errorf("match %s already exists", ms.ID)
	}
	m.matches[ms.ID] = &managedMatch{state: ms.Clone()}
	m.logger.Info("match restored", zap.String("match_id", ms.ID), zap.Int("turn", ms.Turn))
	return nil
}

// Submit applies an action to a match. Calls for the same match are
// serialized; the committed snapshot replaces the current one.
func (m *Manager) Submit(matchID, playerID string, action Action) (*Result, error) {
	mm, err := m.lookup(matchID)
	if err != nil {
		return nil, err
	}

	mm.mu.Lock()
	if mm.state == nil {
		mm.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	res, err := m.engine.ApplyAction(mm.state, playerID, action)
	if err != nil {
		mm.mu.Unlock()
		m.logger.Debug("action rejected",
			zap.String("match_id", matchID),
			zap.String("player_id", playerID),
			zap.Error(err),
		)
		return nil, err
	}
	mm.state = res.State
	if m.recorder != nil {
		m.recorder.Record(res.State, playerID, action, len(res.Events))
		if res.State.Phase == state.PhaseEnded {
			m.recorder.StopRecording(matchID)
		}
	}
	start := mm.post(Notification{
		MatchID:   matchID,
		PlayerID:  playerID,
		Action:    action.Type(),
		Snapshot:  res.State.Clone(),
		Events:    res.Events,
		Timestamp: time.Now(),
	})
	mm.mu.Unlock()

	m.flush(mm, start)
	return res, nil
}

// Snapshot returns a copy of the current state of a match.
func (m *Manager) Snapshot(matchID string) (*state.MatchState, error) {
	mm, err := m.lookup(matchID)
	if err != nil {
		return nil, err
	}
	mm.mu.Lock()
	defer mm.mu.Unlock()
	if mm.state == nil {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return mm.state.Clone(), nil
}

// Remove forgets a match.
func (m *Manager) Remove(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.matches, matchID)
}

// Matches returns the ids of all running matches.
func (m *Manager) Matches() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.matches))
	for id := range m.matches {
		ids = append(ids, id)
	}
	return ids
}

func (m *Manager) lookup(matchID string) (*managedMatch, error) {
	m.mu.RLock()
	mm, ok := m.matches[matchID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return mm, nil
}

// post queues n behind the notifications already committed for the match.
// It must be called with mm.mu held and reports whether the caller has to
// start delivery.
func (mm *managedMatch) post(n Notification) bool {
	mm.outMu.Lock()
	defer mm.outMu.Unlock()
	mm.outbox = append(mm.outbox, n)
	if mm.draining {
		return false
	}
	mm.draining = true
	return true
}

func (mm *managedMatch) next() (Notification, bool) {
	mm.outMu.Lock()
	defer mm.outMu.Unlock()
	if len(mm.outbox) == 0 {
		mm.draining = false
		mm.outbox = nil
		return Notification{}, false
	}
	n := mm.outbox[0]
	mm.outbox = mm.outbox[1:]
	return n, true
}

// flush delivers the match's queued notifications when start is set. Only
// one goroutine drains a match at a time, so observers see its commits in
// order.
func (m *Manager) flush(mm *managedMatch, start bool) {
	if !start {
		return
	}
	drain := func() {
		for {
			n, ok := mm.next()
			if !ok {
				return
			}
			m.notify(n)
		}
	}
	if m.syncNotify {
		drain()
		return
	}
	go drain()
}

// notify publishes on the bus, then hands the notification to observers.
// It runs outside the match lock, so observers may call back into the
// manager.
func (m *Manager) notify(n Notification) {
	if m.bus != nil {
		m.bus.PublishBatch(n.Events)
	}
	m.mu.RLock()
	observers := append([]Observer(nil), m.observers...)
	m.mu.RUnlock()

	for _, o := range observers {
		o(n)
	}
}
