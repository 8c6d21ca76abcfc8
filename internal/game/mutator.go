package game

import (
	"strconv"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/mechanics"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"go.uber.org/zap"
)

// damageSource returns the instance whose keywords shape damage from id.
// A hero deals damage through its weapon.
func (p *pass) damageSource(id string) *state.CardInstance {
	if state.IsHero(id) {
		if pl := p.ms.Player(state.HeroOwner(id)); pl != nil && pl.Weapon != "" {
			return p.ms.Card(pl.Weapon)
		}
		return nil
	}
	return p.ms.Card(id)
}

// damage applies one instance of damage to a hero or minion.
func (p *pass) damage(sourceID, targetID string, amount int) {
	if amount <= 0 {
		return
	}
	src := p.damageSource(sourceID)

	if state.IsHero(targetID) {
		pl := p.ms.Player(state.HeroOwner(targetID))
		if pl == nil || pl.Hero.Health <= 0 {
			return
		}
		absorbed := min(pl.Hero.Armor, amount)
		pl.Hero.Armor -= absorbed
		pl.Hero.Health -= amount - absorbed
		p.emit(rules.Event{
			Type:     rules.EventDamageTaken,
			SourceID: sourceID,
			TargetID: targetID,
			PlayerID: pl.ID,
			Amount:   amount,
			Flag:     survival(pl.Hero.Health),
			Data:     map[string]string{"armor": strconv.Itoa(absorbed)},
		})
		p.lifesteal(sourceID, src, amount)
		return
	}

	c := p.ms.Card(targetID)
	if c == nil || c.Zone != state.ZoneBattlefield {
		return
	}
	if c.IsDormant() {
		p.emit(rules.Event{Type: rules.EventDamagePrevented, SourceID: sourceID, TargetID: c.ID, PlayerID: c.Controller, Amount: amount, Flag: rules.FlagDormant})
		return
	}
	if c.HasKeyword(catalog.KeywordDivineShield) {
		c.SetKeyword(catalog.KeywordDivineShield, false)
		p.emit(rules.Event{Type: rules.EventDamagePrevented, SourceID: sourceID, TargetID: c.ID, PlayerID: c.Controller, Amount: amount, Flag: rules.FlagDivineShield})
		return
	}

	c.Damage += amount
	p.emit(rules.Event{
		Type:     rules.EventDamageTaken,
		SourceID: sourceID,
		TargetID: c.ID,
		PlayerID: c.Controller,
		CardID:   c.CardID,
		Amount:   amount,
		Flag:     survival(c.Health()),
	})
	if src != nil && src.HasKeyword(catalog.KeywordPoisonous) && c.Health() > 0 && !c.Doomed {
		p.doom(sourceID, c)
	}
	p.lifesteal(sourceID, src, amount)
}

func survival(health int) string {
	if health > 0 {
		return rules.FlagSurvived
	}
	return rules.FlagLethal
}

func (p *pass) lifesteal(sourceID string, src *state.CardInstance, amount int) {
	if src == nil || !src.HasKeyword(catalog.KeywordLifesteal) {
		return
	}
	p.heal(sourceID, state.HeroID(src.Controller), amount)
}

// heal restores health without exceeding the maximum. It returns the amount
// actually restored; nothing is emitted for an undamaged target.
func (p *pass) heal(sourceID, targetID string, amount int) int {
	if amount <= 0 {
		return 0
	}
	var healed int
	if state.IsHero(targetID) {
		pl := p.ms.Player(state.HeroOwner(targetID))
		if pl == nil || pl.Hero.Health <= 0 {
			return 0
		}
		healed = min(amount, pl.Hero.MaxHealth-pl.Hero.Health)
		if healed <= 0 {
			return 0
		}
		pl.Hero.Health += healed
	} else {
		c := p.ms.Card(targetID)
		if c == nil || !p.ms.Alive(c.ID) {
			return 0
		}
		healed = min(amount, c.Damage)
		if healed <= 0 {
			return 0
		}
		c.Damage -= healed
	}
	p.emit(rules.Event{
		Type:     rules.EventHealed,
		SourceID: sourceID,
		TargetID: targetID,
		PlayerID: p.ms.ControllerOf(targetID),
		Amount:   healed,
	})
	return healed
}

// draw moves cards from the top of the deck. An empty deck deals escalating
// fatigue damage and a full hand burns the drawn card.
func (p *pass) draw(playerID string, n int) {
	pl := p.ms.Player(playerID)
	if pl == nil {
		return
	}
	for i := 0; i < n; i++ {
		if len(pl.Deck) == 0 {
			pl.Fatigue++
			p.emit(rules.Event{Type: rules.EventFatigue, PlayerID: pl.ID, TargetID: state.HeroID(pl.ID), Amount: pl.Fatigue})
			p.damage("", state.HeroID(pl.ID), pl.Fatigue)
			continue
		}
		c := p.ms.Card(pl.Deck[0])
		if len(pl.Hand) >= p.e.rules.HandCap {
			p.ms.Move(c, state.ZoneGraveyard, c.Owner, -1)
			p.emit(rules.Event{Type: rules.EventCardBurned, TargetID: c.ID, PlayerID: pl.ID, CardID: c.CardID})
			continue
		}
		p.ms.Move(c, state.ZoneHand, pl.ID, -1)
		p.emit(rules.Event{Type: rules.EventCardDrawn, TargetID: c.ID, PlayerID: pl.ID, CardID: c.CardID})
	}
	mechanics.RefreshOutcastDiscounts(p.ms, pl)
}

// newCard allocates an instance that is not yet in any zone.
func (p *pass) newCard(def *catalog.Definition, owner string) *state.CardInstance {
	id, seq := p.ms.NewInstanceID()
	c := state.NewInstance(id, def, owner, seq)
	p.ms.Cards[id] = c
	return c
}

// summon puts a fresh minion onto owner's battlefield. A full board
// leaves the state unchanged.
func (p *pass) summon(def *catalog.Definition, owner string, pos int, sourceID string) *state.CardInstance {
	pl := p.ms.Player(owner)
	if pl == nil {
		return nil
	}
	if len(pl.Battlefield) >= p.e.rules.BoardCap {
		p.capacity(frame{SourceID: sourceID, Controller: owner}, "battlefield", owner)
		return nil
	}
	c := p.ms.CreateCard(def, owner, state.ZoneBattlefield, pos)
	c.SummoningSick = true
	p.emitSummoned(c, sourceID, "")
	return c
}

func (p *pass) emitSummoned(c *state.CardInstance, sourceID, flag string) {
	if def := p.def(c.CardID); def != nil && mechanics.EnterDormant(c, def) {
		flag = rules.FlagDormant
	}
	p.emit(rules.Event{
		Type:     rules.EventMinionSummoned,
		SourceID: sourceID,
		TargetID: c.ID,
		PlayerID: c.Controller,
		CardID:   c.CardID,
		Position: p.ms.IndexOf(c),
		Flag:     flag,
	})
}

// addToHand creates a card in playerID's hand. A full hand leaves the state
// unchanged.
func (p *pass) addToHand(def *catalog.Definition, playerID, sourceID string) *state.CardInstance {
	pl := p.ms.Player(playerID)
	if pl == nil {
		return nil
	}
	if len(pl.Hand) >= p.e.rules.HandCap {
		p.capacity(frame{SourceID: sourceID, Controller: playerID}, "hand", playerID)
		return nil
	}
	c := p.ms.CreateCard(def, playerID, state.ZoneHand, -1)
	p.emit(rules.Event{Type: rules.EventCardAddedToHand, SourceID: sourceID, TargetID: c.ID, PlayerID: playerID, CardID: def.ID})
	mechanics.RefreshOutcastDiscounts(p.ms, pl)
	return c
}

// equip makes w the controller's weapon, destroying the previous one.
func (p *pass) equip(w *state.CardInstance, controller, sourceID string) {
	pl := p.ms.Player(controller)
	if old := p.ms.Card(pl.Weapon); old != nil {
		p.ms.Move(old, state.ZoneGraveyard, old.Owner, -1)
		p.emit(rules.Event{Type: rules.EventWeaponDestroyed, TargetID: old.ID, PlayerID: controller, CardID: old.CardID})
	}
	p.ms.Move(w, state.ZoneWeapon, controller, 0)
	p.emit(rules.Event{
		Type:     rules.EventWeaponEquipped,
		SourceID: sourceID,
		TargetID: w.ID,
		PlayerID: controller,
		CardID:   w.CardID,
		Amount:   w.BaseAttack,
		Data:     map[string]string{"durability": strconv.Itoa(w.Durability)},
	})
}

func (p *pass) gainArmor(sourceID, playerID string, amount int) {
	pl := p.ms.Player(playerID)
	if pl == nil || amount <= 0 {
		return
	}
	pl.Hero.Armor += amount
	p.emit(rules.Event{Type: rules.EventArmorGained, SourceID: sourceID, TargetID: state.HeroID(playerID), PlayerID: playerID, Amount: amount})
}

// doom marks a minion for removal on the next sweep.
func (p *pass) doom(sourceID string, c *state.CardInstance) {
	if c.Doomed {
		return
	}
	c.Doomed = true
	p.emit(rules.Event{Type: rules.EventDestroyed, SourceID: sourceID, TargetID: c.ID, PlayerID: c.Controller, CardID: c.CardID})
}

func (p *pass) capacity(f frame, zone, playerID string) {
	p.emit(rules.Event{
		Type:     rules.EventCapacityExceeded,
		SourceID: f.SourceID,
		PlayerID: playerID,
		Data:     map[string]string{"zone": zone},
	})
}

// sweep removes dead minions and broken weapons, ends the match on hero
// death and clamps mana.
func (p *pass) sweep() {
	ms := p.ms
	var dead []*state.CardInstance
	for _, pl := range ms.TurnOrder() {
		for _, c := range ms.Minions(pl.ID) {
			if !c.IsDormant() && (c.Health() <= 0 || c.Doomed) {
				dead = append(dead, c)
			}
		}
	}
	for _, c := range dead {
		p.bury(c)
	}

	for _, pl := range ms.Players {
		if w := ms.Card(pl.Weapon); w != nil && w.Durability <= 0 {
			ms.Move(w, state.ZoneGraveyard, w.Owner, -1)
			p.emit(rules.Event{Type: rules.EventWeaponDestroyed, TargetID: w.ID, PlayerID: pl.ID, CardID: w.CardID})
		}
	}

	p.checkHeroes()

	for _, pl := range ms.Players {
		pl.Mana.Clamp(p.e.rules.MaxMana)
	}
}

// bury moves a dead minion to its owner's graveyard and brings back a
// Reborn copy in the same slot.
func (p *pass) bury(c *state.CardInstance) {
	ms := p.ms
	controller := c.Controller
	reborn := mechanics.CanReborn(c)
	idx := ms.Remove(c)
	c.Doomed = false

	var back *state.CardInstance
	if reborn {
		if def := p.def(c.CardID); def != nil {
			back = mechanics.Rebirth(ms, c, def, idx)
		}
	}
	ms.Place(c, state.ZoneGraveyard, c.Owner, -1)
	p.emit(rules.Event{
		Type:     rules.EventMinionDied,
		TargetID: c.ID,
		PlayerID: controller,
		CardID:   c.CardID,
		Position: idx,
	})
	if back != nil {
		p.emit(rules.Event{Type: rules.EventReborn, SourceID: c.ID, TargetID: back.ID, PlayerID: controller, CardID: back.CardID})
		p.emit(rules.Event{
			Type:     rules.EventMinionSummoned,
			SourceID: c.ID,
			TargetID: back.ID,
			PlayerID: controller,
			CardID:   back.CardID,
			Position: ms.IndexOf(back),
			Flag:     rules.FlagReborn,
		})
	}
}

func (p *pass) checkHeroes() {
	ms := p.ms
	if ms.Phase == state.PhaseEnded {
		return
	}
	var fallen []string
	for _, pl := range ms.Players {
		if pl.Hero.Health <= 0 {
			fallen = append(fallen, pl.ID)
		}
	}
	if len(fallen) == 0 {
		return
	}
	for _, id := range fallen {
		p.emit(rules.Event{Type: rules.EventHeroDied, TargetID: state.HeroID(id), PlayerID: id})
	}
	winner := state.WinnerDraw
	if len(fallen) == 1 {
		winner = ms.Opponent(fallen[0]).ID
	}
	ms.Winner = winner
	ms.Phase = state.PhaseEnded
	ms.TurnEnding = false
	ms.Queue = nil
	ms.Pending = nil
	p.emit(rules.Event{Type: rules.EventMatchEnded, Data: map[string]string{"winner": winner}})
	ms.TriggerCursor = len(ms.Log)
	p.logger.Info("match ended", zap.String("winner", winner), zap.Int("turn", ms.Turn))
}
