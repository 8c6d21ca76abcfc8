package mana

// MaxCrystals is the hard ceiling on mana crystals.
const MaxCrystals = 10

// Pool is a player's mana crystals. Max is the number of usable crystals
// this turn; Overloaded crystals are locked for the current turn and return
// at the start of the next one.
type Pool struct {
	Current         int `json:"current"`
	Max             int `json:"max"`
	Overloaded      int `json:"overloaded"`
	PendingOverload int `json:"pending_overload"`
	Temporary       int `json:"temporary,omitempty"`
}

// CanSpend reports whether amount can be paid from current mana.
func (p *Pool) CanSpend(amount int) bool {
	return amount <= 0 || p.Current >= amount
}

// Spend removes amount from current mana. It returns false without changing
// the pool if there is not enough.
func (p *Pool) Spend(amount int) bool {
	if amount <= 0 {
		return true
	}
	if p.Current < amount {
		return false
	}
	p.Current -= amount
	return true
}

// AddOverload locks amount crystals on the owner's next turn.
func (p *Pool) AddOverload(amount int) {
	if amount > 0 {
		p.PendingOverload += amount
	}
}

// BeginTurn grows the pool by one crystal, unlocks last turn's overload,
// locks the pending overload for this turn only and refills. It returns the
// number of crystals locked.
func (p *Pool) BeginTurn(ceiling int) int {
	if ceiling <= 0 || ceiling > MaxCrystals {
		ceiling = MaxCrystals
	}
	crystals := p.Max + p.Overloaded + 1
	if crystals > ceiling {
		crystals = ceiling
	}

	locked := p.PendingOverload
	if locked > crystals {
		locked = crystals
	}

	p.Overloaded = locked
	p.PendingOverload = 0
	p.Max = crystals - locked
	p.Current = p.Max
	return locked
}

// GainCrystals adds permanent crystals. Empty crystals raise the maximum
// without refilling current mana.
func (p *Pool) GainCrystals(amount int, empty bool, ceiling int) int {
	if amount <= 0 {
		return 0
	}
	if ceiling <= 0 || ceiling > MaxCrystals {
		ceiling = MaxCrystals
	}
	room := ceiling - p.Max - p.Overloaded
	if amount > room {
		amount = room
	}
	if amount <= 0 {
		return 0
	}
	p.Max += amount
	if !empty {
		p.Current += amount
	}
	return amount
}

// GainTemporary adds filled crystals that are removed at the end of the turn.
func (p *Pool) GainTemporary(amount int, ceiling int) int {
	gained := p.GainCrystals(amount, false, ceiling)
	p.Temporary += gained
	return gained
}

// EndTurn removes temporary crystals.
func (p *Pool) EndTurn() {
	if p.Temporary == 0 {
		return
	}
	p.Max -= p.Temporary
	if p.Max < 0 {
		p.Max = 0
	}
	p.Temporary = 0
	if p.Current > p.Max {
		p.Current = p.Max
	}
}

// Clamp forces the pool back into bounds and reports whether it changed.
func (p *Pool) Clamp(ceiling int) bool {
	if ceiling <= 0 || ceiling > MaxCrystals {
		ceiling = MaxCrystals
	}
	before := *p
	if p.Max < 0 {
		p.Max = 0
	}
	if p.Max > ceiling {
		p.Max = ceiling
	}
	if p.Current < 0 {
		p.Current = 0
	}
	if p.Current > p.Max {
		p.Current = p.Max
	}
	return before != *p
}

// Valid reports whether 0 <= current <= max <= ceiling.
func (p Pool) Valid(ceiling int) bool {
	if ceiling <= 0 || ceiling > MaxCrystals {
		ceiling = MaxCrystals
	}
	return p.Current >= 0 && p.Current <= p.Max && p.Max >= 0 && p.Max <= ceiling
}
