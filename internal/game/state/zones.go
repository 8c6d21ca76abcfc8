package state

import (
	"github.com/cardforge/cardforge-server/internal/game/catalog"
)

func (p *PlayerState) zone(z Zone) *[]string {
	switch z {
	case ZoneDeck:
		return &p.Deck
	case ZoneHand:
		return &p.Hand
	case ZoneBattlefield:
		return &p.Battlefield
	case ZoneGraveyard:
		return &p.Graveyard
	case ZoneSecret:
		return &p.Secrets
	}
	return nil
}

// Zone returns a copy of the ids in zone z.
func (p *PlayerState) Zone(z Zone) []string {
	if z == ZoneWeapon {
		if p.Weapon == "" {
			return nil
		}
		return []string{p.Weapon}
	}
	slot := p.zone(z)
	if slot == nil {
		return nil
	}
	return append([]string(nil), (*slot)...)
}

// Place puts c into zone z of playerID at pos. A position outside the zone
// appends. The holder of the zone becomes the controller.
func (ms *MatchState) Place(c *CardInstance, z Zone, playerID string, pos int) {
	p := ms.Player(playerID)
	if p == nil {
		return
	}
	c.Zone = z
	c.Controller = playerID
	if z == ZoneWeapon {
		p.Weapon = c.ID
		return
	}
	slot := p.zone(z)
	if pos < 0 || pos > len(*slot) {
		pos = len(*slot)
	}
	*slot = append(*slot, "")
	copy((*slot)[pos+1:], (*slot)[pos:])
	(*slot)[pos] = c.ID
}

// Remove takes c out of its zone and returns its former index, or -1.
func (ms *MatchState) Remove(c *CardInstance) int {
	p := ms.Player(c.Controller)
	if p == nil {
		return -1
	}
	if c.Zone == ZoneWeapon {
		if p.Weapon == c.ID {
			p.Weapon = ""
			return 0
		}
		return -1
	}
	slot := p.zone(c.Zone)
	if slot == nil {
		return -1
	}
	for i, id := range *slot {
		if id == c.ID {
			*slot = append((*slot)[:i], (*slot)[i+1:]...)
			return i
		}
	}
	return -1
}

// Move relocates c to zone z of playerID at pos.
func (ms *MatchState) Move(c *CardInstance, z Zone, playerID string, pos int) {
	ms.Remove(c)
	ms.Place(c, z, playerID, pos)
}

// Delete removes c from its zone and from the card table.
func (ms *MatchState) Delete(c *CardInstance) int {
	idx := ms.Remove(c)
	delete(ms.Cards, c.ID)
	return idx
}

// Replace swaps old for a new instance of def in the same slot. The new
// instance keeps the controller and owner of old.
func (ms *MatchState) Replace(old *CardInstance, def *catalog.Definition) *CardInstance {
	zone, controller, owner := old.Zone, old.Controller, old.Owner
	idx := ms.Delete(old)
	id, seq := ms.NewInstanceID()
	c := NewInstance(id, def, owner, seq)
	ms.Cards[id] = c
	ms.Place(c, zone, controller, idx)
	return c
}

// IndexOf returns the position of c in its zone, or -1.
func (ms *MatchState) IndexOf(c *CardInstance) int {
	p := ms.Player(c.Controller)
	if p == nil {
		return -1
	}
	for i, id := range p.Zone(c.Zone) {
		if id == c.ID {
			return i
		}
	}
	return -1
}

// Minions returns playerID's battlefield instances left to right.
func (ms *MatchState) Minions(playerID string) []*CardInstance {
	p := ms.Player(playerID)
	if p == nil {
		return nil
	}
	out := make([]*CardInstance, 0, len(p.Battlefield))
	for _, id := range p.Battlefield {
		if c := ms.Cards[id]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Adjacent returns the minions directly left and right of c.
func (ms *MatchState) Adjacent(c *CardInstance) []*CardInstance {
	if c.Zone != ZoneBattlefield {
		return nil
	}
	board := ms.Minions(c.Controller)
	idx := ms.IndexOf(c)
	var out []*CardInstance
	if idx > 0 {
		out = append(out, board[idx-1])
	}
	if idx >= 0 && idx+1 < len(board) {
		out = append(out, board[idx+1])
	}
	return out
}

// Alive reports whether id names a character that can still be affected.
func (ms *MatchState) Alive(id string) bool {
	if IsHero(id) {
		p := ms.Player(HeroOwner(id))
		return p != nil && p.Hero.Health > 0
	}
	c := ms.Cards[id]
	return c != nil && c.Zone == ZoneBattlefield && c.Health() > 0 && !c.Doomed
}

// ControllerOf returns the controlling player of a card or hero id.
func (ms *MatchState) ControllerOf(id string) string {
	if IsHero(id) {
		return HeroOwner(id)
	}
	if c := ms.Cards[id]; c != nil {
		return c.Controller
	}
	return ""
}

// AttackOf returns the current attack of a character including auras and,
// for heroes, the equipped weapon.
func (ms *MatchState) AttackOf(id string) int {
	if IsHero(id) {
		p := ms.Player(HeroOwner(id))
		if p == nil || p.Weapon == "" {
			return 0
		}
		if w := ms.Cards[p.Weapon]; w != nil {
			return max(0, w.BaseAttack+w.Buffs.Attack())
		}
		return 0
	}
	c := ms.Cards[id]
	if c == nil {
		return 0
	}
	attack := c.BaseAttack + c.Buffs.Attack()
	if c.Zone == ZoneBattlefield {
		attack += ms.auraBonus(c)
	}
	return max(0, attack)
}

func (ms *MatchState) auraBonus(c *CardInstance) int {
	board := ms.Minions(c.Controller)
	idx := ms.IndexOf(c)
	bonus := 0
	for i, m := range board {
		if m.ID == c.ID || m.Aura == nil || m.Silenced || m.IsDormant() {
			continue
		}
		switch m.Aura.Scope {
		case catalog.AuraAdjacent:
			if i == idx-1 || i == idx+1 {
				bonus += m.Aura.Attack
			}
		case catalog.AuraOtherFriendly:
			bonus += m.Aura.Attack
		}
	}
	return bonus
}
