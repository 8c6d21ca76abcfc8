package rules

import (
	"time"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
)

// EventType indicates the category of a match event.
type EventType string

const (
	// Match lifecycle
	EventMatchStarted EventType = "match_started"
	EventMulligan     EventType = "mulligan"
	EventTurnStarted  EventType = "turn_started"
	EventTurnEnded    EventType = "turn_ended"
	EventMatchEnded   EventType = "match_ended"

	// Cards and zones
	EventCardDrawn       EventType = "card_drawn"
	EventCardBurned      EventType = "card_burned"
	EventFatigue         EventType = "fatigue"
	EventCardPlayed      EventType = "card_played"
	EventSpellCast       EventType = "spell_cast"
	EventSecretPlayed    EventType = "secret_played"
	EventSecretRevealed  EventType = "secret_revealed"
	EventCardAddedToHand EventType = "card_added_to_hand"
	EventCardShuffled    EventType = "card_shuffled"
	EventCardDiscarded   EventType = "card_discarded"
	EventReturnedToHand  EventType = "returned_to_hand"
	EventHeroReplaced    EventType = "hero_replaced"

	// Characters
	EventMinionSummoned  EventType = "minion_summoned"
	EventDamageTaken     EventType = "damage_taken"
	EventDamagePrevented EventType = "damage_prevented"
	EventHealed          EventType = "healed"
	EventMinionDied      EventType = "minion_died"
	EventHeroDied        EventType = "hero_died"
	EventDestroyed       EventType = "destroyed"
	EventArmorGained     EventType = "armor_gained"
	EventBuffApplied     EventType = "buff_applied"
	EventBuffExpired     EventType = "buff_expired"
	EventKeywordGranted  EventType = "keyword_granted"
	EventSilenced        EventType = "silenced"
	EventFrozen          EventType = "frozen"
	EventThawed          EventType = "thawed"
	EventTransformed     EventType = "transformed"
	EventControlChanged  EventType = "control_changed"
	EventAttackDeclared  EventType = "attack_declared"

	// Weapons and hero powers
	EventWeaponEquipped  EventType = "weapon_equipped"
	EventWeaponDestroyed EventType = "weapon_destroyed"
	EventHeroPowerUsed   EventType = "hero_power_used"

	// Mana
	EventManaSpent       EventType = "mana_spent"
	EventManaGained      EventType = "mana_gained"
	EventOverloadLocked  EventType = "overload_locked"
	EventOverloadApplied EventType = "overload_applied"

	// Keyword mechanics
	EventComboTriggered   EventType = "combo_triggered"
	EventOutcastTriggered EventType = "outcast_triggered"
	EventCorrupted        EventType = "corrupted"
	EventFrenzyTriggered  EventType = "frenzy_triggered"
	EventReborn           EventType = "reborn"
	EventAwakened         EventType = "awakened"
	EventMagnetized       EventType = "magnetized"
	EventAdapted          EventType = "adapted"

	// Choices
	EventChoiceOffered  EventType = "choice_offered"
	EventChoiceResolved EventType = "choice_resolved"

	// Resolution diagnostics
	EventEffectSkipped    EventType = "effect_skipped"
	EventEffectFizzled    EventType = "effect_fizzled"
	EventCapacityExceeded EventType = "capacity_exceeded"
)

// Flags carried on events.
const (
	FlagSurvived     = "survived"
	FlagLethal       = "lethal"
	FlagDivineShield = "divine_shield"
	FlagDormant      = "dormant"
	FlagReborn       = "reborn"
	FlagTemporary    = "temporary"
)

// Event is one completed mutation. The log of events is the only channel
// from the engine to observers and the input of the trigger engine.
type Event struct {
	Seq       int               `json:"seq"`
	MatchID   string            `json:"match_id,omitempty"`
	Turn      int               `json:"turn"`
	Type      EventType         `json:"type"`
	SourceID  string            `json:"source_id,omitempty"`
	TargetID  string            `json:"target_id,omitempty"`
	PlayerID  string            `json:"player_id,omitempty"`
	CardID    string            `json:"card_id,omitempty"`
	Amount    int               `json:"amount,omitempty"`
	Position  int               `json:"position,omitempty"`
	Flag      string            `json:"flag,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewEvent creates an event with the common identifying fields set.
func NewEvent(eventType EventType, targetID, sourceID, playerID string) Event {
	return Event{
		Type:     eventType,
		TargetID: targetID,
		SourceID: sourceID,
		PlayerID: playerID,
	}
}

// Subject returns the card or hero the event is about. Turn events have no
// subject.
func (e Event) Subject() string {
	switch e.Type {
	case EventCardPlayed, EventSpellCast, EventAttackDeclared:
		return e.SourceID
	}
	return e.TargetID
}

// TriggerKeys returns the trigger keys an event satisfies, in a fixed order.
func TriggerKeys(e Event) []catalog.TriggerKey {
	switch e.Type {
	case EventHealed:
		return []catalog.TriggerKey{catalog.OnHeal}
	case EventMinionSummoned:
		return []catalog.TriggerKey{catalog.OnSummon}
	case EventMinionDied:
		return []catalog.TriggerKey{catalog.OnMinionDeath}
	case EventTurnStarted:
		return []catalog.TriggerKey{catalog.StartOfTurn}
	case EventTurnEnded:
		return []catalog.TriggerKey{catalog.EndOfTurn}
	case EventSpellCast:
		return []catalog.TriggerKey{catalog.OnSpellCast}
	case EventAttackDeclared:
		return []catalog.TriggerKey{catalog.OnAttack}
	case EventCardPlayed:
		return []catalog.TriggerKey{catalog.OnCardPlayed}
	case EventDamageTaken:
		if e.Flag == FlagSurvived {
			return []catalog.TriggerKey{catalog.OnDamageTaken, catalog.OnSurviveDamage}
		}
		return []catalog.TriggerKey{catalog.OnDamageTaken}
	}
	return nil
}

// HasKey reports whether keys contains key.
func HasKey(keys []catalog.TriggerKey, key catalog.TriggerKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
