package rules

import (
	"sort"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
)

// ActivationKind tells the engine how to resolve a queued activation.
type ActivationKind string

const (
	ActivationTrigger     ActivationKind = "trigger"
	ActivationDeathrattle ActivationKind = "deathrattle"
	ActivationFrenzy      ActivationKind = "frenzy"
	ActivationSecret      ActivationKind = "secret"
	ActivationAwaken      ActivationKind = "awaken"
)

// Zone ranks used when ordering simultaneous activations of one side.
const (
	RankBattlefield = iota
	RankSecret
	RankWeapon
)

// Order positions an activation among others collected for the same event.
// Side 0 is the active player.
type Order struct {
	Side     int `json:"side"`
	Zone     int `json:"zone"`
	Position int `json:"position"`
	Created  int `json:"created"`
}

// Less orders by side, zone rank, board position, then creation sequence.
func (o Order) Less(other Order) bool {
	if o.Side != other.Side {
		return o.Side < other.Side
	}
	if o.Zone != other.Zone {
		return o.Zone < other.Zone
	}
	if o.Position != other.Position {
		return o.Position < other.Position
	}
	return o.Created < other.Created
}

// Activation is a triggered or death effect waiting in the resolution queue.
// Effects are captured when the activation is queued, so a source that has
// since left play still resolves what it had.
type Activation struct {
	Kind       ActivationKind  `json:"kind"`
	SourceID   string          `json:"source_id"`
	Controller string          `json:"controller"`
	SubjectID  string          `json:"subject_id,omitempty"`
	EventSeq   int             `json:"event_seq"`
	Position   int             `json:"position"`
	Order      Order           `json:"order"`
	Effects    catalog.Effects `json:"effects"`
}

// SortActivations orders activations collected for one event in place.
func SortActivations(acts []Activation) {
	sort.SliceStable(acts, func(i, j int) bool {
		return acts[i].Order.Less(acts[j].Order)
	})
}

// Watches reports whether a trigger owned by ownerID under controller reacts
// to the event. Non-self watches never react to the owner's own events.
func Watches(watch catalog.Watch, ownerID, controller string, e Event) bool {
	subject := e.Subject()
	if watch == catalog.WatchSelf {
		return subject == ownerID
	}
	if subject == ownerID {
		return false
	}
	switch watch {
	case catalog.WatchFriendly:
		return e.PlayerID == controller
	case catalog.WatchEnemy:
		return e.PlayerID != "" && e.PlayerID != controller
	}
	return true
}
