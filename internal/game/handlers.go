package game

import (
	"strconv"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/choice"
	"github.com/cardforge/cardforge-server/internal/game/counters"
	"github.com/cardforge/cardforge-server/internal/game/mechanics"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
)

func defaultHandlers() map[catalog.Kind]handlerFunc {
	return map[catalog.Kind]handlerFunc{
		catalog.KindDealDamage:      handle(dealDamage),
		catalog.KindHeal:            handle(heal),
		catalog.KindDraw:            handle(draw),
		catalog.KindSummon:          handle(summon),
		catalog.KindBuff:            handle(buff),
		catalog.KindGrantKeyword:    handle(grantKeyword),
		catalog.KindDestroy:         handle(destroy),
		catalog.KindGainArmor:       handle(gainArmor),
		catalog.KindGainMana:        handle(gainMana),
		catalog.KindSilence:         handle(silence),
		catalog.KindFreeze:          handle(freeze),
		catalog.KindTransform:       handle(transform),
		catalog.KindDiscover:        handle(discover),
		catalog.KindAdapt:           handle(adapt),
		catalog.KindAddToHand:       handle(addToHand),
		catalog.KindShuffleIntoDeck: handle(shuffleIntoDeck),
		catalog.KindEquipWeapon:     handle(equipWeapon),
		catalog.KindDiscard:         handle(discard),
		catalog.KindTakeControl:     handle(takeControl),
		catalog.KindReturnToHand:    handle(returnToHand),
	}
}

// recipient is the controller, or the opponent when opponent is set.
func (p *pass) recipient(f frame, opponent bool) string {
	if !opponent {
		return f.Controller
	}
	if opp := p.ms.Opponent(f.Controller); opp != nil {
		return opp.ID
	}
	return ""
}

func count(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// minionTargets resolves spec to battlefield instances.
func (p *pass) minionTargets(f frame, spec catalog.TargetSpec) []*state.CardInstance {
	var out []*state.CardInstance
	for _, id := range p.targets(f, spec) {
		if c := p.ms.Card(id); c != nil && c.Zone == state.ZoneBattlefield {
			out = append(out, c)
		}
	}
	return out
}

func dealDamage(p *pass, f frame, eff catalog.DealDamage) {
	ids := p.targets(f, eff.Target)
	if len(ids) == 0 {
		p.fizzle(f, eff, "no target")
		return
	}
	for _, id := range ids {
		p.damage(f.SourceID, id, eff.Amount)
	}
}

func heal(p *pass, f frame, eff catalog.Heal) {
	ids := p.targets(f, eff.Target)
	if len(ids) == 0 {
		p.fizzle(f, eff, "no target")
		return
	}
	for _, id := range ids {
		p.heal(f.SourceID, id, eff.Amount)
	}
}

func draw(p *pass, f frame, eff catalog.Draw) {
	p.draw(p.recipient(f, eff.Opponent), count(eff.Count))
}

func summon(p *pass, f frame, eff catalog.Summon) {
	def := p.def(eff.CardID)
	if def == nil || def.Type != catalog.TypeMinion {
		p.skip(f, eff, "summon of a non-minion "+eff.CardID)
		return
	}
	owner := p.recipient(f, eff.Opponent)
	pos := p.summonPosition(f, owner)
	for i := 0; i < count(eff.Count); i++ {
		c := p.summon(def, owner, pos, f.SourceID)
		if c == nil {
			return
		}
		if pos >= 0 {
			pos = p.ms.IndexOf(c) + 1
		}
	}
}

// summonPosition is right of a source still on the board, the dying slot
// for a deathrattle, and the right end otherwise.
func (p *pass) summonPosition(f frame, owner string) int {
	src := p.ms.Card(f.SourceID)
	if src == nil || src.Type != catalog.TypeMinion {
		return -1
	}
	switch {
	case src.Zone == state.ZoneBattlefield && src.Controller == owner:
		return p.ms.IndexOf(src) + 1
	case src.Zone == state.ZoneGraveyard && f.Controller == owner:
		return f.Position
	}
	return -1
}

func buff(p *pass, f frame, eff catalog.Buff) {
	targets := p.minionTargets(f, eff.Target)
	if len(targets) == 0 {
		p.fizzle(f, eff, "no minion target")
		return
	}
	for _, c := range targets {
		b := counters.Buff{SourceID: f.SourceID, Attack: eff.Attack, Health: eff.Health, Temporary: eff.Temporary}
		c.Buffs.Add(b)
		ev := rules.Event{
			Type:     rules.EventBuffApplied,
			SourceID: f.SourceID,
			TargetID: c.ID,
			PlayerID: c.Controller,
			Amount:   eff.Attack,
			Data:     map[string]string{"health": strconv.Itoa(eff.Health)},
		}
		if eff.Temporary {
			ev.Flag = rules.FlagTemporary
			ev.Data["health"] = "0"
		}
		p.emit(ev)
	}
}

func grantKeyword(p *pass, f frame, eff catalog.GrantKeyword) {
	for _, c := range p.minionTargets(f, eff.Target) {
		c.SetKeyword(eff.Keyword, true)
		p.emit(rules.Event{
			Type:     rules.EventKeywordGranted,
			SourceID: f.SourceID,
			TargetID: c.ID,
			PlayerID: c.Controller,
			Data:     map[string]string{"keyword": string(eff.Keyword)},
		})
	}
}

func destroy(p *pass, f frame, eff catalog.Destroy) {
	for _, c := range p.minionTargets(f, eff.Target) {
		p.doom(f.SourceID, c)
	}
}

func gainArmor(p *pass, f frame, eff catalog.GainArmor) {
	p.gainArmor(f.SourceID, f.Controller, eff.Amount)
}

func gainMana(p *pass, f frame, eff catalog.GainMana) {
	pl := p.ms.Player(f.Controller)
	if pl == nil {
		return
	}
	var gained int
	if eff.Temporary {
		gained = pl.Mana.GainTemporary(eff.Amount, p.e.rules.MaxMana)
	} else {
		gained = pl.Mana.GainCrystals(eff.Amount, eff.Empty, p.e.rules.MaxMana)
	}
	if gained == 0 {
		p.capacity(f, "mana", f.Controller)
		return
	}
	ev := rules.Event{Type: rules.EventManaGained, SourceID: f.SourceID, PlayerID: pl.ID, Amount: gained}
	if eff.Temporary {
		ev.Flag = rules.FlagTemporary
	}
	p.emit(ev)
}

func silence(p *pass, f frame, eff catalog.Silence) {
	for _, c := range p.minionTargets(f, eff.Target) {
		c.Silenced = true
		c.ClearBuffs()
		c.Keywords = map[catalog.Keyword]bool{}
		c.ExtraDeathrattles = nil
		c.Frozen = false
		p.emit(rules.Event{Type: rules.EventSilenced, SourceID: f.SourceID, TargetID: c.ID, PlayerID: c.Controller})
	}
}

func freeze(p *pass, f frame, eff catalog.Freeze) {
	for _, id := range p.targets(f, eff.Target) {
		if state.IsHero(id) {
			pl := p.ms.Player(state.HeroOwner(id))
			pl.Hero.Frozen = true
			pl.Hero.FrozenTurn = p.ms.Turn
		} else if c := p.ms.Card(id); c != nil {
			c.Frozen = true
			c.FrozenTurn = p.ms.Turn
		}
		p.emit(rules.Event{Type: rules.EventFrozen, SourceID: f.SourceID, TargetID: id, PlayerID: p.ms.ControllerOf(id)})
	}
}

func transform(p *pass, f frame, eff catalog.Transform) {
	def := p.def(eff.CardID)
	if def == nil {
		p.skip(f, eff, "unknown card "+eff.CardID)
		return
	}
	for _, c := range p.minionTargets(f, eff.Target) {
		sick := c.SummoningSick
		next := p.ms.Replace(c, def)
		next.SummoningSick = sick
		p.emit(rules.Event{
			Type:     rules.EventTransformed,
			SourceID: f.SourceID,
			TargetID: next.ID,
			PlayerID: next.Controller,
			CardID:   def.ID,
			Data:     map[string]string{"from": c.ID},
		})
	}
}

func discover(p *pass, f frame, eff catalog.Discover) {
	pool := p.discoverPool(eff)
	n := eff.Options
	if n <= 0 {
		n = p.e.rules.DiscoverOptions
	}
	n = min(n, len(pool))
	if n == 0 {
		p.fizzle(f, eff, "empty discover pool")
		return
	}
	for i := 0; i < n; i++ {
		j := i + p.e.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	opts := make([]choice.Option, 0, n)
	for _, def := range pool[:n] {
		opts = append(opts, choice.Option{ID: def.ID, Label: def.Name, CardID: def.ID})
	}
	p.offer(&choice.Request{
		Kind:     choice.KindDiscover,
		PlayerID: f.Controller,
		SourceID: f.SourceID,
		TargetID: f.TargetID,
		Subject:  f.SubjectID,
		Position: f.Position,
		Mode:     string(f.Mode),
		Options:  opts,
	})
}

// discoverPool returns distinct candidate definitions in a stable order.
func (p *pass) discoverPool(eff catalog.Discover) []*catalog.Definition {
	if len(eff.Pool) > 0 {
		seen := make(map[string]bool, len(eff.Pool))
		var out []*catalog.Definition
		for _, id := range eff.Pool {
			if def := p.def(id); def != nil && !seen[id] {
				seen[id] = true
				out = append(out, def)
			}
		}
		return out
	}
	return p.e.catalog.Filter(func(def *catalog.Definition) bool {
		if !def.Collectible {
			return false
		}
		if eff.Type != "" && def.Type != eff.Type {
			return false
		}
		return eff.Tribe == "" || def.Tribe == eff.Tribe
	})
}

func adapt(p *pass, f frame, eff catalog.Adapt) {
	targets := p.minionTargets(f, eff.Target)
	if len(targets) == 0 {
		p.fizzle(f, eff, "no minion to adapt")
		return
	}
	c := targets[0]
	offered := mechanics.OfferAdaptations(p.e.rng, p.e.rules.AdaptOptions, p.e.catalog)
	opts := make([]choice.Option, 0, len(offered))
	for _, a := range offered {
		opts = append(opts, choice.Option{ID: a.ID, Label: a.Label, TargetID: c.ID})
	}
	p.offer(&choice.Request{
		Kind:     choice.KindAdapt,
		PlayerID: f.Controller,
		SourceID: f.SourceID,
		TargetID: f.TargetID,
		Subject:  f.SubjectID,
		Position: f.Position,
		Mode:     string(f.Mode),
		Options:  opts,
	})
}

func addToHand(p *pass, f frame, eff catalog.AddToHand) {
	def := p.def(eff.CardID)
	if def == nil {
		p.skip(f, eff, "unknown card "+eff.CardID)
		return
	}
	playerID := p.recipient(f, eff.Opponent)
	for i := 0; i < count(eff.Count); i++ {
		if p.addToHand(def, playerID, f.SourceID) == nil {
			return
		}
	}
}

func shuffleIntoDeck(p *pass, f frame, eff catalog.ShuffleIntoDeck) {
	def := p.def(eff.CardID)
	if def == nil {
		p.skip(f, eff, "unknown card "+eff.CardID)
		return
	}
	playerID := p.recipient(f, eff.Opponent)
	pl := p.ms.Player(playerID)
	for i := 0; i < count(eff.Count); i++ {
		pos := p.e.rng.IntN(len(pl.Deck) + 1)
		c := p.ms.CreateCard(def, playerID, state.ZoneDeck, pos)
		p.emit(rules.Event{Type: rules.EventCardShuffled, SourceID: f.SourceID, TargetID: c.ID, PlayerID: playerID, CardID: def.ID})
	}
}

func equipWeapon(p *pass, f frame, eff catalog.EquipWeapon) {
	def := p.def(eff.CardID)
	if def == nil || def.Type != catalog.TypeWeapon {
		p.skip(f, eff, "equip of a non-weapon "+eff.CardID)
		return
	}
	p.equip(p.newCard(def, f.Controller), f.Controller, f.SourceID)
}

func discard(p *pass, f frame, eff catalog.Discard) {
	pl := p.ms.Player(f.Controller)
	for i := 0; i < count(eff.Count) && len(pl.Hand) > 0; i++ {
		c := p.ms.Card(pl.Hand[p.e.rng.IntN(len(pl.Hand))])
		p.ms.Move(c, state.ZoneGraveyard, c.Owner, -1)
		p.emit(rules.Event{Type: rules.EventCardDiscarded, SourceID: f.SourceID, TargetID: c.ID, PlayerID: pl.ID, CardID: c.CardID})
	}
	mechanics.RefreshOutcastDiscounts(p.ms, pl)
}

func takeControl(p *pass, f frame, eff catalog.TakeControl) {
	pl := p.ms.Player(f.Controller)
	for _, c := range p.minionTargets(f, eff.Target) {
		if c.Controller == f.Controller {
			continue
		}
		if len(pl.Battlefield) >= p.e.rules.BoardCap {
			p.capacity(f, "battlefield", f.Controller)
			return
		}
		prev := c.Controller
		p.ms.Move(c, state.ZoneBattlefield, f.Controller, -1)
		c.AttacksThisTurn = 0
		if eff.UntilEndOfTurn {
			c.ControlReturnTo = prev
			c.SummoningSick = false
		} else {
			c.ControlReturnTo = ""
			c.SummoningSick = true
		}
		p.emit(rules.Event{
			Type:     rules.EventControlChanged,
			SourceID: f.SourceID,
			TargetID: c.ID,
			PlayerID: f.Controller,
			Data:     map[string]string{"from": prev},
		})
	}
}

func returnToHand(p *pass, f frame, eff catalog.ReturnToHand) {
	for _, c := range p.minionTargets(f, eff.Target) {
		owner := p.ms.Player(c.Owner)
		if len(owner.Hand) >= p.e.rules.HandCap {
			p.capacity(f, "hand", owner.ID)
			p.doom(f.SourceID, c)
			continue
		}
		def := p.def(c.CardID)
		if def == nil {
			continue
		}
		p.ms.Remove(c)
		fresh := state.NewInstance(c.ID, def, c.Owner, c.Created)
		p.ms.Cards[c.ID] = fresh
		p.ms.Place(fresh, state.ZoneHand, owner.ID, -1)
		p.emit(rules.Event{Type: rules.EventReturnedToHand, SourceID: f.SourceID, TargetID: c.ID, PlayerID: owner.ID, CardID: c.CardID})
		mechanics.RefreshOutcastDiscounts(p.ms, owner)
	}
}
