// Package counters tracks stat modifiers attached to card instances.
package counters

import "strconv"

// Buff is one attached stat modifier.
type Buff struct {
	SourceID  string `json:"source_id,omitempty"`
	Attack    int    `json:"attack,omitempty"`
	Health    int    `json:"health,omitempty"`
	Temporary bool   `json:"temporary,omitempty"`
}

// Name renders the buff the way it appears on a card, e.g. "+2/+1".
func (b Buff) Name() string {
	return formatBoost(b.Attack) + "/" + formatBoost(b.Health)
}

func formatBoost(value int) string {
	if value >= 0 {
		return "+" + strconv.Itoa(value)
	}
	return strconv.Itoa(value)
}

// Buffs is the ordered list of modifiers on one instance.
type Buffs []Buff

// Add appends a buff. Temporary buffs keep only their attack component.
func (bs *Buffs) Add(b Buff) {
	if b.Temporary {
		b.Health = 0
	}
	if b.Attack == 0 && b.Health == 0 {
		return
	}
	*bs = append(*bs, b)
}

// Attack returns the summed attack modifier.
func (bs Buffs) Attack() int {
	total := 0
	for _, b := range bs {
		total += b.Attack
	}
	return total
}

// Health returns the summed health modifier.
func (bs Buffs) Health() int {
	total := 0
	for _, b := range bs {
		total += b.Health
	}
	return total
}

// ExpireTemporary drops temporary buffs and returns how many were removed.
func (bs *Buffs) ExpireTemporary() int {
	kept := (*bs)[:0]
	removed := 0
	for _, b := range *bs {
		if b.Temporary {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	if len(kept) == 0 {
		*bs = nil
	} else {
		*bs = kept
	}
	return removed
}

// Copy returns an independent copy.
func (bs Buffs) Copy() Buffs {
	if bs == nil {
		return nil
	}
	return append(Buffs(nil), bs...)
}
