package game

import (
	"errors"
	"fmt"
	"strings"
)

// Reason is a machine-readable rejection code.
type Reason string

const (
	ReasonNotYourTurn      Reason = "not_your_turn"
	ReasonMatchOver        Reason = "match_over"
	ReasonWrongPhase       Reason = "wrong_phase"
	ReasonChoicePending    Reason = "choice_pending"
	ReasonNoChoicePending  Reason = "no_choice_pending"
	ReasonInvalidChoice    Reason = "invalid_choice"
	ReasonInsufficientMana Reason = "insufficient_mana"
	ReasonCardNotInHand    Reason = "card_not_in_hand"
	ReasonInvalidTarget    Reason = "invalid_target"
	ReasonTargetRequired   Reason = "target_required"
	ReasonBoardFull        Reason = "board_full"
	ReasonCannotAttack     Reason = "cannot_attack"
	ReasonHeroPowerUsed    Reason = "hero_power_used"
	ReasonUnknownPlayer    Reason = "unknown_player"
	ReasonInvalidAction    Reason = "invalid_action"
)

// ErrUnregisteredKind is returned when the dispatcher registry does not
// cover every effect kind.
var ErrUnregisteredKind = errors.New("effect kind has no registered handler")

// ErrMatchNotFound is returned by the manager for unknown match ids.
var ErrMatchNotFound = errors.New("match not found")

// RejectionError refuses an action before any state changed.
type RejectionError struct {
	Reason Reason
	Detail string
	Err    error
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("action rejected: %s", e.Reason)
	}
	return fmt.Sprintf("action rejected: %s: %s", e.Reason, e.Detail)
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

func reject(reason Reason, format string, args ...any) *RejectionError {
	return &RejectionError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the rejection reason from err, or "".
func ReasonOf(err error) Reason {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Reason
	}
	return ""
}

// InvariantViolation reports a snapshot that failed the post-mutation check.
// A correct handler set never produces one.
type InvariantViolation struct {
	MatchID  string
	Problems []string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("match %s violates invariants: %s", e.MatchID, strings.Join(e.Problems, "; "))
}
