package game

import (
	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"github.com/cardforge/cardforge-server/internal/game/targeting"
)

func (p *pass) canAttack(playerID, attackerID, defenderID string) error {
	ms := p.ms
	if ms.AttackOf(attackerID) <= 0 {
		return reject(ReasonCannotAttack, "%s has no attack", attackerID)
	}

	if state.IsHero(attackerID) {
		if state.HeroOwner(attackerID) != playerID {
			return reject(ReasonCannotAttack, "%s is not your hero", attackerID)
		}
		hero := ms.Player(playerID).Hero
		if hero.Frozen {
			return reject(ReasonCannotAttack, "hero is frozen")
		}
		limit := 1
		if w := ms.Card(ms.Player(playerID).Weapon); w != nil && w.HasKeyword(catalog.KeywordWindfury) {
			limit = 2
		}
		if hero.AttacksThisTurn >= limit {
			return reject(ReasonCannotAttack, "hero already attacked")
		}
		return nil
	}

	c := ms.Card(attackerID)
	if c == nil || c.Zone != state.ZoneBattlefield || c.Controller != playerID {
		return reject(ReasonCannotAttack, "%s is not a minion you control", attackerID)
	}
	if c.IsDormant() {
		return reject(ReasonCannotAttack, "%s is dormant", attackerID)
	}
	if c.Frozen {
		return reject(ReasonCannotAttack, "%s is frozen", attackerID)
	}
	limit := 1
	if c.HasKeyword(catalog.KeywordWindfury) {
		limit = 2
	}
	if c.AttacksThisTurn >= limit {
		return reject(ReasonCannotAttack, "%s already attacked %d times", attackerID, c.AttacksThisTurn)
	}
	if c.SummoningSick && !c.HasKeyword(catalog.KeywordCharge) {
		if !c.HasKeyword(catalog.KeywordRush) {
			return reject(ReasonCannotAttack, "%s is summoning sick", attackerID)
		}
		if state.IsHero(defenderID) {
			return reject(ReasonCannotAttack, "%s has rush and cannot attack heroes this turn", attackerID)
		}
	}
	return nil
}

func (p *pass) attack(playerID string, a Attack) error {
	ms := p.ms
	if err := p.canAttack(playerID, a.AttackerID, a.DefenderID); err != nil {
		return err
	}
	if err := targeting.ValidateAttack(ms, playerID, a.DefenderID); err != nil {
		return &RejectionError{Reason: ReasonInvalidTarget, Detail: err.Error(), Err: err}
	}

	if state.IsHero(a.AttackerID) {
		ms.Player(playerID).Hero.AttacksThisTurn++
	} else {
		c := ms.Card(a.AttackerID)
		c.AttacksThisTurn++
		c.SetKeyword(catalog.KeywordStealth, false)
	}
	p.emit(rules.Event{
		Type:     rules.EventAttackDeclared,
		SourceID: a.AttackerID,
		TargetID: a.DefenderID,
		PlayerID: playerID,
	})

	// Both sides strike simultaneously; heroes never strike back.
	dealt := ms.AttackOf(a.AttackerID)
	returned := 0
	if !state.IsHero(a.DefenderID) {
		returned = ms.AttackOf(a.DefenderID)
	}
	p.damage(a.AttackerID, a.DefenderID, dealt)
	p.damage(a.DefenderID, a.AttackerID, returned)

	if state.IsHero(a.AttackerID) {
		if w := ms.Card(ms.Player(playerID).Weapon); w != nil {
			w.Durability--
		}
	}
	p.sweep()
	return p.settle()
}
