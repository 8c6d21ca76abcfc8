package game

import (
	"fmt"
	"time"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"go.uber.org/zap"
)

// Engine resolves actions against match snapshots. It keeps no per-match
// state; everything a match needs lives in its MatchState.
type Engine struct {
	catalog    *catalog.Catalog
	rules      Rules
	logger     *zap.Logger
	rng        RandomSource
	clock      func() time.Time
	dispatcher *dispatcher
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRandom sets the random source.
func WithRandom(rng RandomSource) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithClock sets the clock used to stamp events.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// PlayerSetup describes one seat of a new match.
type PlayerSetup struct {
	PlayerID  string   `json:"player_id"`
	Deck      []string `json:"deck"`
	HeroPower string   `json:"hero_power,omitempty"`
}

// Result is a committed snapshot plus the events the action appended.
type Result struct {
	State  *state.MatchState `json:"state"`
	Events []rules.Event     `json:"events"`
}

// NewEngine builds an engine over an immutable catalog.
func NewEngine(cat *catalog.Catalog, r Rules, opts ...Option) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("engine requires a catalog")
	}
	d, err := newDispatcher(defaultHandlers())
	if err != nil {
		return nil, err
	}
	e := &Engine{
		catalog:    cat,
		rules:      r.withDefaults(),
		logger:     zap.NewNop(),
		rng:        NewSeededRandom(uint64(time.Now().UnixNano())),
		clock:      time.Now,
		dispatcher: d,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Rules returns the effective limits.
func (e *Engine) Rules() Rules {
	return e.rules
}

func (e *Engine) limits() state.Limits {
	return state.Limits{HandCap: e.rules.HandCap, BoardCap: e.rules.BoardCap, MaxMana: e.rules.MaxMana}
}

// NewMatch creates a match, shuffles both decks and deals starting hands.
// The match waits in the mulligan phase until both players answer.
func (e *Engine) NewMatch(id string, setups [2]PlayerSetup) (*Result, error) {
	if setups[0].PlayerID == "" || setups[1].PlayerID == "" || setups[0].PlayerID == setups[1].PlayerID {
		return nil, fmt.Errorf("match %s needs two distinct player ids", id)
	}
	ms := state.NewMatch(id, [2]string{setups[0].PlayerID, setups[1].PlayerID}, e.rules.StartingHealth)

	for _, setup := range setups {
		pl := ms.Player(setup.PlayerID)
		for _, cardID := range setup.Deck {
			def, ok := e.catalog.Lookup(cardID)
			if !ok {
				return nil, fmt.Errorf("deck of %s: unknown card %q", setup.PlayerID, cardID)
			}
			ms.CreateCard(def, setup.PlayerID, state.ZoneDeck, -1)
		}
		if setup.HeroPower != "" {
			if _, ok := e.catalog.Lookup(setup.HeroPower); !ok {
				return nil, fmt.Errorf("hero power of %s: unknown card %q", setup.PlayerID, setup.HeroPower)
			}
			pl.HeroPower.CardID = setup.HeroPower
		}
		e.rng.Shuffle(len(pl.Deck), func(i, j int) {
			pl.Deck[i], pl.Deck[j] = pl.Deck[j], pl.Deck[i]
		})
	}

	p := e.newPass(ms)
	p.emit(rules.Event{Type: rules.EventMatchStarted, Data: map[string]string{
		"first":  setups[0].PlayerID,
		"second": setups[1].PlayerID,
	}})
	p.draw(setups[0].PlayerID, e.rules.FirstHand)
	p.draw(setups[1].PlayerID, e.rules.SecondHand)
	ms.TriggerCursor = len(ms.Log)

	if err := p.check(); err != nil {
		return nil, err
	}
	e.logger.Info("match created",
		zap.String("match_id", id),
		zap.String("first", setups[0].PlayerID),
		zap.String("second", setups[1].PlayerID),
	)
	return &Result{State: ms, Events: append([]rules.Event(nil), ms.Log...)}, nil
}

// ApplyAction resolves one action against prev and returns the next snapshot.
// prev is never modified; a rejected action leaves no trace.
func (e *Engine) ApplyAction(prev *state.MatchState, playerID string, action Action) (*Result, error) {
	if prev == nil {
		return nil, fmt.Errorf("apply action: nil match state")
	}
	if action == nil {
		return nil, reject(ReasonInvalidAction, "no action")
	}
	if prev.Phase == state.PhaseEnded {
		return nil, reject(ReasonMatchOver, "match %s has ended", prev.ID)
	}
	if prev.Player(playerID) == nil {
		return nil, reject(ReasonUnknownPlayer, "player %s is not in match %s", playerID, prev.ID)
	}

	next := prev.Clone()
	start := len(next.Log)
	p := e.newPass(next)
	if err := p.apply(playerID, action); err != nil {
		return nil, err
	}
	if err := p.check(); err != nil {
		return nil, err
	}

	events := append([]rules.Event(nil), next.Log[start:]...)
	e.logger.Info("action committed",
		zap.String("match_id", next.ID),
		zap.String("player_id", playerID),
		zap.String("action", string(action.Type())),
		zap.Int("events", len(events)),
		zap.Int("turn", next.Turn),
	)
	return &Result{State: next, Events: events}, nil
}
