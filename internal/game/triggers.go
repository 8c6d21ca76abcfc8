package game

import (
	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/mechanics"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"github.com/cardforge/cardforge-server/internal/game/targeting"
)

// collect queues the activations caused by every event past the cursor.
func (p *pass) collect() {
	ms := p.ms
	for ms.TriggerCursor < len(ms.Log) {
		ev := ms.Log[ms.TriggerCursor]
		ms.TriggerCursor++
		acts := p.activationsFor(ev)
		rules.SortActivations(acts)
		ms.Queue = append(ms.Queue, acts...)
	}
}

func (p *pass) side(playerID string) int {
	if playerID == p.ms.ActivePlayer().ID {
		return 0
	}
	return 1
}

func (p *pass) activationsFor(ev rules.Event) []rules.Activation {
	ms := p.ms
	var acts []rules.Activation

	switch ev.Type {
	case rules.EventMinionDied:
		c := ms.Card(ev.TargetID)
		def := p.defOf(c)
		if def == nil || c.Silenced {
			break
		}
		effects := append(append(catalog.Effects(nil), def.Deathrattle...), c.ExtraDeathrattles...)
		if len(effects) > 0 {
			acts = append(acts, rules.Activation{
				Kind:       rules.ActivationDeathrattle,
				SourceID:   c.ID,
				Controller: ev.PlayerID,
				SubjectID:  c.ID,
				EventSeq:   ev.Seq,
				Position:   ev.Position,
				Order:      rules.Order{Side: p.side(ev.PlayerID), Zone: rules.RankBattlefield, Position: ev.Position, Created: c.Created},
				Effects:    effects,
			})
		}
	case rules.EventAwakened:
		c := ms.Card(ev.TargetID)
		def := p.defOf(c)
		if def == nil || def.Dormant == nil || len(def.Dormant.Awaken) == 0 {
			break
		}
		acts = append(acts, rules.Activation{
			Kind:       rules.ActivationAwaken,
			SourceID:   c.ID,
			Controller: c.Controller,
			SubjectID:  c.ID,
			EventSeq:   ev.Seq,
			Position:   ms.IndexOf(c),
			Order:      rules.Order{Side: p.side(c.Controller), Zone: rules.RankBattlefield, Position: ms.IndexOf(c), Created: c.Created},
			Effects:    def.Dormant.Awaken,
		})
	case rules.EventDamageTaken:
		c := ms.Card(ev.TargetID)
		def := p.defOf(c)
		if ev.Flag != rules.FlagSurvived || c == nil || c.Zone != state.ZoneBattlefield || !mechanics.FrenzyReady(c, def) {
			break
		}
		mechanics.MarkFrenzy(c)
		acts = append(acts, rules.Activation{
			Kind:       rules.ActivationFrenzy,
			SourceID:   c.ID,
			Controller: c.Controller,
			SubjectID:  c.ID,
			EventSeq:   ev.Seq,
			Position:   ms.IndexOf(c),
			Order:      rules.Order{Side: p.side(c.Controller), Zone: rules.RankBattlefield, Position: ms.IndexOf(c), Created: c.Created},
			Effects:    def.Frenzy,
		})
	}

	keys := rules.TriggerKeys(ev)
	if len(keys) == 0 {
		return acts
	}
	active := ms.ActivePlayer().ID
	for _, pl := range ms.TurnOrder() {
		side := p.side(pl.ID)
		for pos, id := range pl.Battlefield {
			acts = p.keyed(acts, ms.Card(id), ev, keys, rules.ActivationTrigger, rules.Order{Side: side, Zone: rules.RankBattlefield, Position: pos})
		}
		if pl.ID != active {
			for pos, id := range pl.Secrets {
				acts = p.keyed(acts, ms.Card(id), ev, keys, rules.ActivationSecret, rules.Order{Side: side, Zone: rules.RankSecret, Position: pos})
			}
		}
		if pl.Weapon != "" {
			acts = p.keyed(acts, ms.Card(pl.Weapon), ev, keys, rules.ActivationTrigger, rules.Order{Side: side, Zone: rules.RankWeapon})
		}
	}
	return acts
}

// keyed appends the triggers of c that react to ev.
func (p *pass) keyed(acts []rules.Activation, c *state.CardInstance, ev rules.Event, keys []catalog.TriggerKey, kind rules.ActivationKind, order rules.Order) []rules.Activation {
	def := p.defOf(c)
	if def == nil || c.Silenced || c.IsDormant() {
		return acts
	}
	order.Created = c.Created
	for _, trig := range def.Triggers {
		if !rules.HasKey(keys, trig.On) || !rules.Watches(trig.Watch, c.ID, c.Controller, ev) {
			continue
		}
		acts = append(acts, rules.Activation{
			Kind:       kind,
			SourceID:   c.ID,
			Controller: c.Controller,
			SubjectID:  ev.Subject(),
			EventSeq:   ev.Seq,
			Position:   order.Position,
			Order:      order,
			Effects:    trig.Effects,
		})
		if kind == rules.ActivationSecret {
			break
		}
	}
	return acts
}

func (p *pass) defOf(c *state.CardInstance) *catalog.Definition {
	if c == nil {
		return nil
	}
	return p.def(c.CardID)
}

// activate resolves one queued activation.
func (p *pass) activate(a rules.Activation) error {
	ms := p.ms
	src := ms.Card(a.SourceID)
	switch a.Kind {
	case rules.ActivationSecret:
		if src == nil || src.Zone != state.ZoneSecret {
			return nil
		}
		ms.Move(src, state.ZoneGraveyard, src.Owner, -1)
		p.emit(rules.Event{Type: rules.EventSecretRevealed, SourceID: src.ID, TargetID: a.SubjectID, PlayerID: a.Controller, CardID: src.CardID})
	case rules.ActivationFrenzy:
		p.emit(rules.Event{Type: rules.EventFrenzyTriggered, SourceID: a.SourceID, TargetID: a.SourceID, PlayerID: a.Controller})
	}
	f := frame{
		SourceID:   a.SourceID,
		Controller: a.Controller,
		SubjectID:  a.SubjectID,
		Position:   a.Position,
		Mode:       targeting.ModeEffect,
	}
	return p.resolve(f, a.Effects)
}
