package game

import (
	"encoding/json"
	"fmt"
)

// ActionType tags an action on the wire.
type ActionType string

const (
	ActionPlayCard      ActionType = "play_card"
	ActionAttack        ActionType = "attack"
	ActionUseHeroPower  ActionType = "use_hero_power"
	ActionResolveChoice ActionType = "resolve_choice"
	ActionEndTurn       ActionType = "end_turn"
	ActionMulligan      ActionType = "mulligan"
)

// Action is one player command. The set is closed.
type Action interface {
	Type() ActionType
	action()
}

// PlayCard plays a card from hand. Position is the battlefield slot for
// minions; a negative or out-of-range slot appends. A decoded play_card
// without a position appends.
type PlayCard struct {
	CardID   string `json:"card_id"`
	TargetID string `json:"target_id,omitempty"`
	Position int    `json:"position"`
}

func (a *PlayCard) UnmarshalJSON(data []byte) error {
	type body PlayCard
	v := body{Position: -1}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = PlayCard(v)
	return nil
}

// Attack declares an attack by a minion or the player's hero.
type Attack struct {
	AttackerID string `json:"attacker_id"`
	DefenderID string `json:"defender_id"`
}

// UseHeroPower activates the hero power.
type UseHeroPower struct {
	TargetID string `json:"target_id,omitempty"`
}

// ResolveChoice answers the pending choice. An empty OptionID declines it.
type ResolveChoice struct {
	OptionID string `json:"option_id"`
}

// EndTurn passes the turn.
type EndTurn struct{}

// Mulligan replaces the listed starting-hand cards.
type Mulligan struct {
	Replace []string `json:"replace"`
}

func (PlayCard) Type() ActionType      { return ActionPlayCard }
func (Attack) Type() ActionType        { return ActionAttack }
func (UseHeroPower) Type() ActionType  { return ActionUseHeroPower }
func (ResolveChoice) Type() ActionType { return ActionResolveChoice }
func (EndTurn) Type() ActionType       { return ActionEndTurn }
func (Mulligan) Type() ActionType      { return ActionMulligan }

func (PlayCard) action()      {}
func (Attack) action()        {}
func (UseHeroPower) action()  {}
func (ResolveChoice) action() {}
func (EndTurn) action()       {}
func (Mulligan) action()      {}

// EncodeAction wraps an action as {"type": ..., fields...}.
func EncodeAction(a Action) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", a.Type(), err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", a.Type(), err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, 1)
	}
	tag, _ := json.Marshal(a.Type())
	fields["type"] = tag
	return json.Marshal(fields)
}

// DecodeAction parses an action envelope.
func DecodeAction(data []byte) (Action, error) {
	var head struct {
		Type ActionType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	var (
		a   Action
		err error
	)
	switch head.Type {
	case ActionPlayCard:
		a, err = decodeActionAs[PlayCard](data)
	case ActionAttack:
		a, err = decodeActionAs[Attack](data)
	case ActionUseHeroPower:
		a, err = decodeActionAs[UseHeroPower](data)
	case ActionResolveChoice:
		a, err = decodeActionAs[ResolveChoice](data)
	case ActionEndTurn:
		a = EndTurn{}
	case ActionMulligan:
		a, err = decodeActionAs[Mulligan](data)
	default:
		return nil, fmt.Errorf("decode action: unknown type %q", head.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}
	return a, nil
}

func decodeActionAs[T Action](data []byte) (Action, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
