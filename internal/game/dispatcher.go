package game

import (
	"fmt"
	"strconv"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/choice"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/targeting"
	"go.uber.org/zap"
)

type handlerFunc func(p *pass, f frame, eff catalog.Effect)

// dispatcher routes effects to handlers through a closed registry.
type dispatcher struct {
	handlers map[catalog.Kind]handlerFunc
}

// handle adapts a typed handler to the registry signature.
func handle[T catalog.Effect](fn func(p *pass, f frame, eff T)) handlerFunc {
	return func(p *pass, f frame, eff catalog.Effect) {
		typed, ok := eff.(T)
		if !ok {
			p.skip(f, eff, "payload does not match its kind")
			return
		}
		fn(p, f, typed)
	}
}

// newDispatcher fails unless every effect kind has a handler.
func newDispatcher(registry map[catalog.Kind]handlerFunc) (*dispatcher, error) {
	var missing []catalog.Kind
	for _, kind := range catalog.Kinds() {
		if registry[kind] == nil {
			missing = append(missing, kind)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnregisteredKind, missing)
	}
	return &dispatcher{handlers: registry}, nil
}

func (d *dispatcher) dispatch(p *pass, f frame, eff catalog.Effect) {
	if eff == nil {
		p.skip(f, nil, "nil effect")
		return
	}
	fn := d.handlers[eff.Kind()]
	if fn == nil {
		p.skip(f, eff, "no handler registered")
		return
	}
	p.logger.Debug("dispatch effect",
		zap.String("kind", string(eff.Kind())),
		zap.String("source_id", f.SourceID),
		zap.String("target_id", f.TargetID),
	)
	fn(p, f, eff)
}

func (p *pass) skip(f frame, eff catalog.Effect, why string) {
	kind := ""
	if eff != nil {
		kind = string(eff.Kind())
	}
	p.logger.Warn("effect skipped",
		zap.String("kind", kind),
		zap.String("source_id", f.SourceID),
		zap.String("reason", why),
	)
	p.emit(rules.Event{
		Type:     rules.EventEffectSkipped,
		SourceID: f.SourceID,
		PlayerID: f.Controller,
		Data:     map[string]string{"kind": kind, "reason": why},
	})
}

func (p *pass) fizzle(f frame, eff catalog.Effect, why string) {
	p.emit(rules.Event{
		Type:     rules.EventEffectFizzled,
		SourceID: f.SourceID,
		PlayerID: f.Controller,
		Data:     map[string]string{"kind": string(eff.Kind()), "reason": why},
	})
}

func (f frame) context() targeting.Context {
	mode := f.Mode
	if mode == "" {
		mode = targeting.ModeEffect
	}
	return targeting.Context{
		Controller: f.Controller,
		SourceID:   f.SourceID,
		TriggerID:  f.SubjectID,
		Mode:       mode,
	}
}

// promptTarget handles a chosen-target effect that reached resolution
// without a target. It reports whether the effect was consumed.
func (p *pass) promptTarget(f frame, eff catalog.Effect) bool {
	t, ok := eff.(catalog.Targeted)
	if !ok || !t.TargetSpec().RequiresTarget() || f.TargetID != "" {
		return false
	}
	legal := targeting.LegalTargets(p.ms, t.TargetSpec(), f.context())
	if len(legal) == 0 {
		p.fizzle(f, eff, "no legal target")
		return true
	}
	if !f.Prompt {
		return false
	}

	opts := make([]choice.Option, 0, len(legal))
	for _, id := range legal {
		opts = append(opts, choice.Option{ID: id, Label: p.label(id), TargetID: id})
	}
	p.offer(&choice.Request{
		Kind:     choice.KindTarget,
		PlayerID: f.Controller,
		SourceID: f.SourceID,
		Subject:  f.SubjectID,
		Position: f.Position,
		Mode:     string(f.Mode),
		Options:  opts,
		Effect:   catalog.Effects{eff},
	})
	return true
}

// targets resolves spec in frame f. A chosen scope without a target in a
// non-prompting frame picks a random legal target.
func (p *pass) targets(f frame, spec catalog.TargetSpec) []string {
	chosen := f.TargetID
	if spec.Scope.Chosen() && chosen == "" {
		legal := targeting.LegalTargets(p.ms, spec, f.context())
		if len(legal) == 0 {
			return nil
		}
		chosen = legal[p.e.rng.IntN(len(legal))]
	}
	return targeting.Resolve(p.ms, spec, f.context(), chosen, p.e.rng)
}

func (p *pass) offer(req *choice.Request) {
	req.ID = "choice-" + strconv.Itoa(len(p.ms.Log)+1)
	p.ms.Pending = req
	p.emit(rules.Event{
		Type:     rules.EventChoiceOffered,
		SourceID: req.SourceID,
		PlayerID: req.PlayerID,
		Amount:   len(req.Options),
		Data:     map[string]string{"choice_id": req.ID, "kind": string(req.Kind)},
	})
}

func (p *pass) label(id string) string {
	if c := p.ms.Card(id); c != nil {
		if def := p.def(c.CardID); def != nil && def.Name != "" {
			return def.Name
		}
		return c.CardID
	}
	return id
}
