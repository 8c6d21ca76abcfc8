package state

import (
	"fmt"
)

// Limits are the capacities the invariant check enforces.
type Limits struct {
	HandCap  int
	BoardCap int
	MaxMana  int
}

// CheckInvariants returns every violated structural invariant. An empty result
// means the snapshot is consistent.
func (ms *MatchState) CheckInvariants(lim Limits) []string {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	seen := make(map[string]string, len(ms.Cards))
	track := func(p *PlayerState, z Zone, id string) {
		where := fmt.Sprintf("%s/%s", p.ID, z)
		if prev, dup := seen[id]; dup {
			report("instance %s listed in %s and %s", id, prev, where)
			return
		}
		seen[id] = where
		c := ms.Cards[id]
		if c == nil {
			report("instance %s in %s has no card record", id, where)
			return
		}
		if c.Zone != z {
			report("instance %s in %s records zone %s", id, where, c.Zone)
		}
		if c.Controller != p.ID {
			report("instance %s in %s records controller %s", id, where, c.Controller)
		}
	}

	for _, p := range ms.Players {
		for _, z := range []Zone{ZoneDeck, ZoneHand, ZoneBattlefield, ZoneGraveyard, ZoneSecret, ZoneWeapon} {
			for _, id := range p.Zone(z) {
				track(p, z, id)
			}
		}

		if len(p.Hand) > lim.HandCap {
			report("%s hand holds %d cards, cap %d", p.ID, len(p.Hand), lim.HandCap)
		}
		if len(p.Battlefield) > lim.BoardCap {
			report("%s battlefield holds %d minions, cap %d", p.ID, len(p.Battlefield), lim.BoardCap)
		}
		if !p.Mana.Valid(lim.MaxMana) {
			report("%s mana %d/%d outside 0..%d", p.ID, p.Mana.Current, p.Mana.Max, lim.MaxMana)
		}
		if p.Hero.Armor < 0 {
			report("%s hero has negative armor", p.ID)
		}
		if p.Hero.Health <= 0 && ms.Phase != PhaseEnded {
			report("%s hero is dead but the match continues", p.ID)
		}

		for _, id := range p.Battlefield {
			c := ms.Cards[id]
			if c == nil || c.IsDormant() {
				continue
			}
			if c.Health() <= 0 || c.Doomed {
				report("dead minion %s (%s) remains on the battlefield", id, c.CardID)
			}
		}
	}

	for id := range ms.Cards {
		if _, ok := seen[id]; !ok {
			report("instance %s is in no zone", id)
		}
	}
	return problems
}
