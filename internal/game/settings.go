package game

// Rules holds the tunable limits of a match.
type Rules struct {
	HandCap              int
	BoardCap             int
	MaxMana              int
	StartingHealth       int
	StrictInvariants     bool
	MaxTriggerIterations int
	DiscoverOptions      int
	AdaptOptions         int
	FirstHand            int
	SecondHand           int
}

// DefaultRules returns the standard limits with strict invariants enabled.
func DefaultRules() Rules {
	return Rules{
		HandCap:              10,
		BoardCap:             7,
		MaxMana:              10,
		StartingHealth:       30,
		StrictInvariants:     true,
		MaxTriggerIterations: 1000,
		DiscoverOptions:      3,
		AdaptOptions:         3,
		FirstHand:            3,
		SecondHand:           4,
	}
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.HandCap <= 0 {
		r.HandCap = d.HandCap
	}
	if r.BoardCap <= 0 {
		r.BoardCap = d.BoardCap
	}
	if r.MaxMana <= 0 {
		r.MaxMana = d.MaxMana
	}
	if r.StartingHealth <= 0 {
		r.StartingHealth = d.StartingHealth
	}
	if r.MaxTriggerIterations <= 0 {
		r.MaxTriggerIterations = d.MaxTriggerIterations
	}
	if r.DiscoverOptions <= 0 {
		r.DiscoverOptions = d.DiscoverOptions
	}
	if r.AdaptOptions <= 0 {
		r.AdaptOptions = d.AdaptOptions
	}
	if r.FirstHand <= 0 {
		r.FirstHand = d.FirstHand
	}
	if r.SecondHand <= 0 {
		r.SecondHand = d.SecondHand
	}
	return r
}
