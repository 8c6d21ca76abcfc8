// Package choice models a resolution suspended on a player decision.
//
// A Request is plain data: the offered options plus the effects that were
// still waiting to resolve when the choice was made. Storing it on the match
// state is all that is needed to resume, including across serialization.
package choice

import (
	"github.com/cardforge/cardforge-server/internal/game/catalog"
)

// Kind identifies what a pending choice decides.
type Kind string

const (
	KindDiscover Kind = "discover"
	KindAdapt    Kind = "adapt"
	KindTarget   Kind = "target"
)

// Option is one selectable branch.
type Option struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	CardID   string `json:"card_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`
}

// Request is the continuation of a suspended resolution.
type Request struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"kind"`
	PlayerID string   `json:"player_id"`
	SourceID string   `json:"source_id,omitempty"`
	TargetID string   `json:"target_id,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Position int      `json:"position"`
	// Mode is the targeting mode of the suspended frame.
	Mode     string   `json:"mode,omitempty"`
	Options  []Option `json:"options"`

	// Effect is applied with the chosen target when Kind is KindTarget.
	Effect catalog.Effects `json:"effect,omitempty"`
	// Then holds the remaining effects of the suspended frame.
	Then catalog.Effects `json:"then,omitempty"`
}

// Option returns the option with the given id.
func (r *Request) Option(id string) (Option, bool) {
	for _, opt := range r.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// Copy returns an independent copy of the request.
func (r *Request) Copy() *Request {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Options = append([]Option(nil), r.Options...)
	cp.Effect = append(catalog.Effects(nil), r.Effect...)
	cp.Then = append(catalog.Effects(nil), r.Then...)
	if len(cp.Effect) == 0 {
		cp.Effect = nil
	}
	if len(cp.Then) == 0 {
		cp.Then = nil
	}
	return &cp
}
