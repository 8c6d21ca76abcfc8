package game

import (
	"github.com/cardforge/cardforge-server/internal/game/choice"
	"github.com/cardforge/cardforge-server/internal/game/mechanics"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/targeting"
	"go.uber.org/zap"
)

// resolveChoice applies the selected option, then resumes the suspended
// frame and the trigger queue. An empty option declines the choice.
func (p *pass) resolveChoice(a ResolveChoice) error {
	ms := p.ms
	req := ms.Pending
	var opt choice.Option
	if a.OptionID != "" {
		var ok bool
		if opt, ok = req.Option(a.OptionID); !ok {
			return reject(ReasonInvalidChoice, "%s is not an option of %s", a.OptionID, req.ID)
		}
	}
	ms.Pending = nil
	p.emit(rules.Event{
		Type:     rules.EventChoiceResolved,
		SourceID: req.SourceID,
		TargetID: opt.TargetID,
		PlayerID: req.PlayerID,
		CardID:   opt.CardID,
		Data:     map[string]string{"choice_id": req.ID, "option": a.OptionID, "kind": string(req.Kind)},
	})

	f := frame{
		SourceID:   req.SourceID,
		Controller: req.PlayerID,
		TargetID:   req.TargetID,
		SubjectID:  req.Subject,
		Position:   req.Position,
		Mode:       targeting.Mode(req.Mode),
		Prompt:     true,
	}
	if a.OptionID == "" {
		p.emit(rules.Event{
			Type:     rules.EventEffectFizzled,
			SourceID: req.SourceID,
			PlayerID: req.PlayerID,
			Data:     map[string]string{"kind": string(req.Kind), "reason": "choice declined"},
		})
	} else if err := p.applyOption(f, req, opt); err != nil {
		return err
	}
	if req.Kind == choice.KindTarget && opt.TargetID != "" {
		f.TargetID = opt.TargetID
	}

	if err := p.resolve(f, req.Then); err != nil {
		return err
	}
	if err := p.settle(); err != nil {
		return err
	}
	return p.finishTurn()
}

func (p *pass) applyOption(f frame, req *choice.Request, opt choice.Option) error {
	switch req.Kind {
	case choice.KindDiscover:
		if def := p.def(opt.CardID); def != nil {
			p.addToHand(def, req.PlayerID, req.SourceID)
		}
	case choice.KindAdapt:
		c := p.ms.Card(opt.TargetID)
		if c == nil || !p.ms.Alive(c.ID) {
			p.emit(rules.Event{
				Type:     rules.EventEffectFizzled,
				SourceID: req.SourceID,
				PlayerID: req.PlayerID,
				Data:     map[string]string{"kind": string(req.Kind), "reason": "adapt target left play"},
			})
			return nil
		}
		if err := mechanics.ApplyAdaptation(c, opt.ID); err != nil {
			p.logger.Warn("adaptation skipped", zap.String("option", opt.ID), zap.Error(err))
			return nil
		}
		p.emit(rules.Event{
			Type:     rules.EventAdapted,
			SourceID: req.SourceID,
			TargetID: c.ID,
			PlayerID: c.Controller,
			Data:     map[string]string{"adaptation": opt.ID},
		})
	case choice.KindTarget:
		tf := f
		tf.TargetID = opt.TargetID
		tf.Prompt = false
		return p.resolve(tf, req.Effect)
	}
	return nil
}
