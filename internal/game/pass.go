package game

import (
	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"github.com/cardforge/cardforge-server/internal/game/targeting"
	"go.uber.org/zap"
)

// pass is one resolution of one action against a private copy of the
// match. Every mutation and every event goes through it.
type pass struct {
	e          *Engine
	ms         *state.MatchState
	logger     *zap.Logger
	iterations int
}

// frame is the context effects resolve in.
type frame struct {
	SourceID   string
	Controller string
	TargetID   string
	SubjectID  string
	Position   int
	Mode       targeting.Mode
	// Prompt lets a missing chosen target suspend into a target request.
	Prompt bool
}

func (e *Engine) newPass(ms *state.MatchState) *pass {
	return &pass{
		e:      e,
		ms:     ms,
		logger: e.logger.With(zap.String("match_id", ms.ID)),
	}
}

func (p *pass) def(cardID string) *catalog.Definition {
	def, _ := p.e.catalog.Lookup(cardID)
	return def
}

// emit appends an event to the match log.
func (p *pass) emit(ev rules.Event) rules.Event {
	ev.Seq = len(p.ms.Log) + 1
	ev.MatchID = p.ms.ID
	ev.Turn = p.ms.Turn
	ev.Timestamp = p.e.clock()
	p.ms.Log = append(p.ms.Log, ev)
	return ev
}

func (p *pass) apply(playerID string, action Action) error {
	ms := p.ms
	if ms.Phase == state.PhaseMulligan {
		m, ok := action.(Mulligan)
		if !ok {
			return reject(ReasonWrongPhase, "match is in the mulligan phase")
		}
		return p.mulligan(playerID, m)
	}
	if _, ok := action.(Mulligan); ok {
		return reject(ReasonWrongPhase, "mulligan is over")
	}

	if rc, ok := action.(ResolveChoice); ok {
		if ms.Pending == nil {
			return reject(ReasonNoChoicePending, "nothing to choose")
		}
		if ms.Pending.PlayerID != playerID {
			return reject(ReasonNotYourTurn, "choice belongs to %s", ms.Pending.PlayerID)
		}
		return p.resolveChoice(rc)
	}
	if ms.Pending != nil {
		return reject(ReasonChoicePending, "resolve the pending %s choice first", ms.Pending.Kind)
	}
	if ms.ActivePlayer().ID != playerID {
		return reject(ReasonNotYourTurn, "it is %s's turn", ms.ActivePlayer().ID)
	}

	switch a := action.(type) {
	case PlayCard:
		return p.playCard(playerID, a)
	case Attack:
		return p.attack(playerID, a)
	case UseHeroPower:
		return p.useHeroPower(playerID, a)
	case EndTurn:
		return p.endTurn()
	}
	return reject(ReasonInvalidAction, "unsupported action %s", action.Type())
}

// resolve runs effects in order. If one of them suspends on a choice, the
// rest are parked on the request.
func (p *pass) resolve(f frame, effects catalog.Effects) error {
	for i, eff := range effects {
		if p.ms.Phase == state.PhaseEnded {
			return nil
		}
		if p.ms.Pending != nil {
			p.ms.Pending.Then = append(p.ms.Pending.Then, effects[i:]...)
			return nil
		}
		if err := p.dispatch(f, eff); err != nil {
			return err
		}
	}
	return nil
}

// dispatch applies one effect, sweeps and checks invariants.
func (p *pass) dispatch(f frame, eff catalog.Effect) error {
	var bookmark *state.MatchState
	if !p.e.rules.StrictInvariants {
		bookmark = p.ms.Clone()
	}

	if !p.promptTarget(f, eff) {
		p.e.dispatcher.dispatch(p, f, eff)
	}
	p.sweep()

	problems := p.ms.CheckInvariants(p.e.limits())
	if len(problems) == 0 {
		return nil
	}
	if p.e.rules.StrictInvariants {
		return &InvariantViolation{MatchID: p.ms.ID, Problems: problems}
	}
	kind := ""
	if eff != nil {
		kind = string(eff.Kind())
	}
	p.logger.Error("invariant violation, effect dropped",
		zap.String("kind", kind),
		zap.String("source_id", f.SourceID),
		zap.Strings("problems", problems),
	)
	*p.ms = *bookmark
	return nil
}

// check runs the final invariant check of a pass.
func (p *pass) check() error {
	p.sweep()
	problems := p.ms.CheckInvariants(p.e.limits())
	if len(problems) == 0 {
		return nil
	}
	p.logger.Error("invariant violation", zap.Strings("problems", problems))
	return &InvariantViolation{MatchID: p.ms.ID, Problems: problems}
}

// settle drains the trigger queue until it is empty, a choice suspends it
// or the match ends.
func (p *pass) settle() error {
	for {
		if p.ms.Phase == state.PhaseEnded || p.ms.Pending != nil {
			return nil
		}
		p.sweep()
		p.collect()
		if len(p.ms.Queue) == 0 {
			p.ms.Queue = nil
			return nil
		}
		if p.iterations >= p.e.rules.MaxTriggerIterations {
			p.logger.Warn("trigger ceiling reached, dropping queue",
				zap.Int("iterations", p.iterations),
				zap.Int("queued", len(p.ms.Queue)),
			)
			p.ms.Queue = nil
			p.ms.TriggerCursor = len(p.ms.Log)
			return nil
		}
		p.iterations++

		next := p.ms.Queue[0]
		p.ms.Queue = p.ms.Queue[1:]
		if err := p.activate(next); err != nil {
			return err
		}
	}
}
