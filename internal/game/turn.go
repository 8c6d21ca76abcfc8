package game

import (
	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/mechanics"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
)

func (p *pass) startTurn() {
	ms := p.ms
	ms.Turn++
	pl := ms.ActivePlayer()
	if locked := pl.Mana.BeginTurn(p.e.rules.MaxMana); locked > 0 {
		p.emit(rules.Event{Type: rules.EventOverloadApplied, PlayerID: pl.ID, Amount: locked})
	}
	pl.CardsPlayedThisTurn = 0
	pl.HeroPower.Used = false
	pl.Hero.AttacksThisTurn = 0

	p.emit(rules.Event{Type: rules.EventTurnStarted, PlayerID: pl.ID, Amount: ms.Turn})
	for _, c := range ms.Minions(pl.ID) {
		c.AttacksThisTurn = 0
		c.SummoningSick = false
		if mechanics.TickDormant(c) {
			p.emit(rules.Event{Type: rules.EventAwakened, TargetID: c.ID, PlayerID: pl.ID, CardID: c.CardID})
		}
	}
	p.draw(pl.ID, 1)
}

func (p *pass) endTurn() error {
	ms := p.ms
	p.emit(rules.Event{Type: rules.EventTurnEnded, PlayerID: ms.ActivePlayer().ID, Amount: ms.Turn})
	ms.TurnEnding = true
	if err := p.settle(); err != nil {
		return err
	}
	return p.finishTurn()
}

// finishTurn completes an end of turn once its triggers have settled.
func (p *pass) finishTurn() error {
	ms := p.ms
	if !ms.TurnEnding || ms.Pending != nil || ms.Phase == state.PhaseEnded {
		return nil
	}
	ending := ms.ActivePlayer()

	for _, pl := range ms.Players {
		for _, c := range ms.Minions(pl.ID) {
			if n := c.ExpireTemporaryBuffs(); n > 0 {
				p.emit(rules.Event{Type: rules.EventBuffExpired, TargetID: c.ID, PlayerID: pl.ID, Amount: n})
			}
		}
	}

	for _, c := range ms.Minions(ending.ID) {
		if c.ControlReturnTo == "" {
			continue
		}
		owner := c.ControlReturnTo
		c.ControlReturnTo = ""
		if len(ms.Player(owner).Battlefield) >= p.e.rules.BoardCap {
			p.capacity(frame{SourceID: c.ID, Controller: owner}, "battlefield", owner)
			p.doom("", c)
			continue
		}
		ms.Move(c, state.ZoneBattlefield, owner, -1)
		p.emit(rules.Event{Type: rules.EventControlChanged, TargetID: c.ID, PlayerID: owner, Data: map[string]string{"from": ending.ID}})
	}

	if ending.Hero.Frozen && ending.Hero.FrozenTurn < ms.Turn {
		ending.Hero.Frozen = false
		p.emit(rules.Event{Type: rules.EventThawed, TargetID: state.HeroID(ending.ID), PlayerID: ending.ID})
	}
	for _, c := range ms.Minions(ending.ID) {
		if c.Frozen && c.FrozenTurn < ms.Turn {
			c.Frozen = false
			p.emit(rules.Event{Type: rules.EventThawed, TargetID: c.ID, PlayerID: ending.ID})
		}
	}

	ending.Mana.EndTurn()
	ms.TurnEnding = false
	ms.Active = 1 - ms.Active
	p.sweep()
	if ms.Phase == state.PhaseEnded {
		return nil
	}
	p.startTurn()
	return p.settle()
}

func (p *pass) mulligan(playerID string, m Mulligan) error {
	ms := p.ms
	pl := ms.Player(playerID)
	if pl.Mulliganed {
		return reject(ReasonInvalidAction, "%s already kept a hand", playerID)
	}
	seen := make(map[string]bool, len(m.Replace))
	for _, id := range m.Replace {
		c := ms.Card(id)
		if c == nil || c.Zone != state.ZoneHand || c.Controller != playerID || seen[id] {
			return reject(ReasonCardNotInHand, "%s is not in your hand", id)
		}
		seen[id] = true
	}

	returned := make([]*state.CardInstance, 0, len(m.Replace))
	for _, id := range m.Replace {
		c := ms.Card(id)
		ms.Remove(c)
		returned = append(returned, c)
	}
	p.draw(playerID, len(returned))
	for _, c := range returned {
		ms.Place(c, state.ZoneDeck, playerID, -1)
	}
	p.e.rng.Shuffle(len(pl.Deck), func(i, j int) {
		pl.Deck[i], pl.Deck[j] = pl.Deck[j], pl.Deck[i]
	})
	pl.Mulliganed = true
	p.emit(rules.Event{Type: rules.EventMulligan, PlayerID: playerID, Amount: len(returned)})

	for _, other := range ms.Players {
		if !other.Mulliganed {
			return nil
		}
	}
	return p.beginPlay()
}

// beginPlay leaves the mulligan phase and starts the first turn.
func (p *pass) beginPlay() error {
	ms := p.ms
	ms.Phase = state.PhasePlaying
	ms.Active = 0
	if coin, ok := p.e.catalog.Lookup(catalog.CoinID); ok {
		p.addToHand(coin, ms.Players[1].ID, "")
	}
	p.startTurn()
	return p.settle()
}
