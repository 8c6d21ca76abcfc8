package game

import (
	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/mechanics"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"github.com/cardforge/cardforge-server/internal/game/targeting"
)

const heroPowerPrefix = "hero_power:"

// HeroPowerSource is the source id events carry for a player's hero power.
func HeroPowerSource(playerID string) string {
	return heroPowerPrefix + playerID
}

// checkTarget validates the chosen target shared by effects. A chosen scope
// with no legal candidates is allowed through and fizzles on resolution.
func (p *pass) checkTarget(effects catalog.Effects, ctx targeting.Context, targetID string) error {
	spec, ok := catalog.ChosenTarget(effects)
	if !ok {
		if targetID != "" {
			return reject(ReasonInvalidTarget, "card takes no target")
		}
		return nil
	}
	legal := targeting.LegalTargets(p.ms, spec, ctx)
	if len(legal) == 0 {
		if targetID != "" {
			return reject(ReasonInvalidTarget, "no legal targets for %s", spec.Scope)
		}
		return nil
	}
	if targetID == "" {
		return reject(ReasonTargetRequired, "choose one of %d targets", len(legal))
	}
	if err := targeting.Validate(p.ms, spec, ctx, targetID); err != nil {
		return &RejectionError{Reason: ReasonInvalidTarget, Detail: err.Error(), Err: err}
	}
	return nil
}

func (p *pass) playCard(playerID string, a PlayCard) error {
	ms := p.ms
	pl := ms.Player(playerID)
	c := ms.Card(a.CardID)
	if c == nil || c.Zone != state.ZoneHand || c.Controller != playerID {
		return reject(ReasonCardNotInHand, "%s is not in your hand", a.CardID)
	}
	def := p.def(c.CardID)
	if def == nil {
		return reject(ReasonInvalidAction, "card %s has no definition", c.CardID)
	}
	if def.Type == catalog.TypeHeroPower {
		return reject(ReasonInvalidAction, "hero powers are used, not played")
	}
	cost := c.CurrentCost()
	if !pl.Mana.CanSpend(cost) {
		return reject(ReasonInsufficientMana, "%s costs %d, %d available", def.ID, cost, pl.Mana.Current)
	}

	var host *state.CardInstance
	switch def.Type {
	case catalog.TypeMinion:
		if def.HasKeyword(catalog.KeywordMagnetic) {
			host = mechanics.MagneticHost(ms, playerID, a.Position)
		}
		if host == nil && len(pl.Battlefield) >= p.e.rules.BoardCap {
			return reject(ReasonBoardFull, "battlefield holds %d minions", len(pl.Battlefield))
		}
	case catalog.TypeSecret:
		for _, id := range pl.Secrets {
			if s := ms.Card(id); s != nil && s.CardID == def.ID {
				return reject(ReasonInvalidAction, "%s is already active", def.ID)
			}
		}
	}

	combo := len(def.Combo) > 0 && mechanics.ComboActive(pl)
	outcast := len(def.Outcast) > 0 && mechanics.OutcastActive(ms.IndexOf(c), len(pl.Hand))
	var effects catalog.Effects
	if host == nil {
		effects = append(effects, def.PlayEffects()...)
	}
	if combo {
		effects = append(effects, def.Combo...)
	}
	if outcast {
		effects = append(effects, def.Outcast...)
	}

	mode := targeting.ModeSpell
	switch def.Type {
	case catalog.TypeMinion, catalog.TypeWeapon, catalog.TypeHero:
		mode = targeting.ModeBattlecry
	}
	ctx := targeting.Context{Controller: playerID, SourceID: c.ID, Mode: mode}
	if err := p.checkTarget(effects, ctx, a.TargetID); err != nil {
		return err
	}

	pl.Mana.Spend(cost)
	if cost > 0 {
		p.emit(rules.Event{Type: rules.EventManaSpent, SourceID: c.ID, PlayerID: playerID, Amount: cost})
	}
	ms.Remove(c)
	pl.CardsPlayedThisTurn++
	p.emit(rules.Event{
		Type:     rules.EventCardPlayed,
		SourceID: c.ID,
		TargetID: a.TargetID,
		PlayerID: playerID,
		CardID:   def.ID,
		Amount:   cost,
	})
	if combo {
		p.emit(rules.Event{Type: rules.EventComboTriggered, SourceID: c.ID, PlayerID: playerID, CardID: def.ID})
	}
	if outcast {
		p.emit(rules.Event{Type: rules.EventOutcastTriggered, SourceID: c.ID, PlayerID: playerID, CardID: def.ID})
	}
	if def.Overload > 0 {
		pl.Mana.AddOverload(def.Overload)
		p.emit(rules.Event{Type: rules.EventOverloadLocked, SourceID: c.ID, PlayerID: playerID, Amount: def.Overload})
	}
	for _, cr := range mechanics.Corrupt(ms, p.e.catalog, playerID, cost) {
		p.emit(rules.Event{
			Type:     rules.EventCorrupted,
			SourceID: c.ID,
			TargetID: cr.ToID,
			PlayerID: playerID,
			CardID:   cr.CardID,
			Data:     map[string]string{"from": cr.FromID},
		})
	}
	mechanics.RefreshOutcastDiscounts(ms, pl)

	switch def.Type {
	case catalog.TypeMinion:
		if host != nil {
			mechanics.Magnetize(host, c, def)
			ms.Delete(c)
			p.emit(rules.Event{Type: rules.EventMagnetized, SourceID: c.ID, TargetID: host.ID, PlayerID: playerID, CardID: def.ID})
			break
		}
		ms.Place(c, state.ZoneBattlefield, playerID, a.Position)
		c.SummoningSick = true
		p.emitSummoned(c, c.ID, "")
	case catalog.TypeSpell:
		ms.Place(c, state.ZoneGraveyard, c.Owner, -1)
		p.emit(rules.Event{Type: rules.EventSpellCast, SourceID: c.ID, TargetID: a.TargetID, PlayerID: playerID, CardID: def.ID})
	case catalog.TypeSecret:
		ms.Place(c, state.ZoneSecret, playerID, -1)
		p.emit(rules.Event{Type: rules.EventSecretPlayed, SourceID: c.ID, PlayerID: playerID})
	case catalog.TypeWeapon:
		p.equip(c, playerID, c.ID)
	case catalog.TypeHero:
		ms.Place(c, state.ZoneGraveyard, c.Owner, -1)
		pl.Hero.CardID = def.ID
		if def.HeroPower != "" {
			pl.HeroPower = state.HeroPower{CardID: def.HeroPower}
		}
		p.emit(rules.Event{Type: rules.EventHeroReplaced, SourceID: c.ID, TargetID: state.HeroID(playerID), PlayerID: playerID, CardID: def.ID})
		p.gainArmor(c.ID, playerID, def.Armor)
	}

	f := frame{
		SourceID:   c.ID,
		Controller: playerID,
		TargetID:   a.TargetID,
		Position:   a.Position,
		Mode:       mode,
		Prompt:     true,
	}
	if err := p.resolve(f, effects); err != nil {
		return err
	}
	return p.settle()
}

func (p *pass) useHeroPower(playerID string, a UseHeroPower) error {
	pl := p.ms.Player(playerID)
	if pl.HeroPower.CardID == "" {
		return reject(ReasonInvalidAction, "no hero power")
	}
	if pl.HeroPower.Used {
		return reject(ReasonHeroPowerUsed, "hero power already used this turn")
	}
	def := p.def(pl.HeroPower.CardID)
	if def == nil {
		return reject(ReasonInvalidAction, "hero power %s has no definition", pl.HeroPower.CardID)
	}
	if !pl.Mana.CanSpend(def.Cost) {
		return reject(ReasonInsufficientMana, "hero power costs %d, %d available", def.Cost, pl.Mana.Current)
	}
	source := HeroPowerSource(playerID)
	ctx := targeting.Context{Controller: playerID, SourceID: source, Mode: targeting.ModeHeroPower}
	if err := p.checkTarget(def.Spell, ctx, a.TargetID); err != nil {
		return err
	}

	pl.Mana.Spend(def.Cost)
	pl.HeroPower.Used = true
	if def.Cost > 0 {
		p.emit(rules.Event{Type: rules.EventManaSpent, SourceID: source, PlayerID: playerID, Amount: def.Cost})
	}
	p.emit(rules.Event{Type: rules.EventHeroPowerUsed, SourceID: source, TargetID: a.TargetID, PlayerID: playerID, CardID: def.ID})

	f := frame{
		SourceID:   source,
		Controller: playerID,
		TargetID:   a.TargetID,
		Mode:       targeting.ModeHeroPower,
		Prompt:     true,
	}
	if err := p.resolve(f, def.Spell); err != nil {
		return err
	}
	return p.settle()
}
