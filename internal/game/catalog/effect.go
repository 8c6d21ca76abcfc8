package catalog

import "fmt"

// Kind identifies an effect variant. The set is closed; every kind listed in
// Kinds has exactly one payload type below.
type Kind string

const (
	KindDealDamage      Kind = "deal_damage"
	KindHeal            Kind = "heal"
	KindDraw            Kind = "draw"
	KindSummon          Kind = "summon"
	KindBuff            Kind = "buff"
	KindGrantKeyword    Kind = "grant_keyword"
	KindDestroy         Kind = "destroy"
	KindGainArmor       Kind = "gain_armor"
	KindGainMana        Kind = "gain_mana"
	KindSilence         Kind = "silence"
	KindFreeze          Kind = "freeze"
	KindTransform       Kind = "transform"
	KindDiscover        Kind = "discover"
	KindAdapt           Kind = "adapt"
	KindAddToHand       Kind = "add_to_hand"
	KindShuffleIntoDeck Kind = "shuffle_into_deck"
	KindEquipWeapon     Kind = "equip_weapon"
	KindDiscard         Kind = "discard"
	KindTakeControl     Kind = "take_control"
	KindReturnToHand    Kind = "return_to_hand"
)

// Kinds returns every effect kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindDealDamage, KindHeal, KindDraw, KindSummon, KindBuff,
		KindGrantKeyword, KindDestroy, KindGainArmor, KindGainMana, KindSilence,
		KindFreeze, KindTransform, KindDiscover, KindAdapt, KindAddToHand,
		KindShuffleIntoDeck, KindEquipWeapon, KindDiscard, KindTakeControl, KindReturnToHand,
	}
}

// Effect is one effect descriptor attached to a card. Only types declared in
// this package implement it.
type Effect interface {
	Kind() Kind
	effect()
}

// Targeted is implemented by effects that act on a target specification.
type Targeted interface {
	Effect
	TargetSpec() TargetSpec
}

// DealDamage deals Amount damage to each resolved target.
type DealDamage struct {
	Target TargetSpec `json:"target" yaml:"target"`
	Amount int        `json:"amount" yaml:"amount"`
}

// Heal restores up to Amount health to each resolved target.
type Heal struct {
	Target TargetSpec `json:"target" yaml:"target"`
	Amount int        `json:"amount" yaml:"amount"`
}

// Draw draws Count cards for the controller, or for the opponent.
type Draw struct {
	Count    int  `json:"count" yaml:"count"`
	Opponent bool `json:"opponent,omitempty" yaml:"opponent,omitempty"`
}

// Summon puts Count fresh minions onto a battlefield.
type Summon struct {
	CardID   string `json:"card" yaml:"card"`
	Count    int    `json:"count,omitempty" yaml:"count,omitempty"`
	Opponent bool   `json:"opponent,omitempty" yaml:"opponent,omitempty"`
}

// Buff attaches a stat modifier. Temporary buffs carry attack only and expire
// at the end of the turn.
type Buff struct {
	Target    TargetSpec `json:"target" yaml:"target"`
	Attack    int        `json:"attack,omitempty" yaml:"attack,omitempty"`
	Health    int        `json:"health,omitempty" yaml:"health,omitempty"`
	Temporary bool       `json:"temporary,omitempty" yaml:"temporary,omitempty"`
}

// GrantKeyword adds a keyword to each resolved target.
type GrantKeyword struct {
	Target  TargetSpec `json:"target" yaml:"target"`
	Keyword Keyword    `json:"keyword" yaml:"keyword"`
}

// Destroy marks each resolved minion for removal on the next sweep.
type Destroy struct {
	Target TargetSpec `json:"target" yaml:"target"`
}

// GainArmor adds armor to the controller's hero.
type GainArmor struct {
	Amount int `json:"amount" yaml:"amount"`
}

// GainMana grants mana crystals. Temporary crystals are removed at the end of
// the turn; Empty crystals raise the maximum without refilling.
type GainMana struct {
	Amount    int  `json:"amount" yaml:"amount"`
	Empty     bool `json:"empty,omitempty" yaml:"empty,omitempty"`
	Temporary bool `json:"temporary,omitempty" yaml:"temporary,omitempty"`
}

// Silence strips buffs, keywords, triggers and deathrattles.
type Silence struct {
	Target TargetSpec `json:"target" yaml:"target"`
}

// Freeze freezes each resolved character.
type Freeze struct {
	Target TargetSpec `json:"target" yaml:"target"`
}

// Transform replaces each resolved minion with a fresh instance of CardID.
type Transform struct {
	Target TargetSpec `json:"target" yaml:"target"`
	CardID string     `json:"card" yaml:"card"`
}

// Discover offers Options distinct cards; the chosen one goes to hand. An
// empty Pool draws from collectible definitions matching Type and Tribe.
type Discover struct {
	Pool    []string `json:"pool,omitempty" yaml:"pool,omitempty"`
	Type    CardType `json:"type,omitempty" yaml:"type,omitempty"`
	Tribe   string   `json:"tribe,omitempty" yaml:"tribe,omitempty"`
	Options int      `json:"options,omitempty" yaml:"options,omitempty"`
}

// Adapt offers random adaptations for the resolved minion.
type Adapt struct {
	Target TargetSpec `json:"target" yaml:"target"`
}

// AddToHand creates Count instances of CardID in a hand.
type AddToHand struct {
	CardID   string `json:"card" yaml:"card"`
	Count    int    `json:"count,omitempty" yaml:"count,omitempty"`
	Opponent bool   `json:"opponent,omitempty" yaml:"opponent,omitempty"`
}

// ShuffleIntoDeck creates Count instances of CardID at random deck positions.
type ShuffleIntoDeck struct {
	CardID   string `json:"card" yaml:"card"`
	Count    int    `json:"count,omitempty" yaml:"count,omitempty"`
	Opponent bool   `json:"opponent,omitempty" yaml:"opponent,omitempty"`
}

// EquipWeapon equips a fresh instance of CardID, replacing any weapon.
type EquipWeapon struct {
	CardID string `json:"card" yaml:"card"`
}

// Discard discards Count random cards from the controller's hand.
type Discard struct {
	Count int `json:"count" yaml:"count"`
}

// TakeControl moves each resolved minion to the controller's battlefield.
type TakeControl struct {
	Target         TargetSpec `json:"target" yaml:"target"`
	UntilEndOfTurn bool       `json:"until_end_of_turn,omitempty" yaml:"until_end_of_turn,omitempty"`
}

// ReturnToHand returns each resolved minion to its owner's hand.
type ReturnToHand struct {
	Target TargetSpec `json:"target" yaml:"target"`
}

func (DealDamage) Kind() Kind      { return KindDealDamage }
func (Heal) Kind() Kind            { return KindHeal }
func (Draw) Kind() Kind            { return KindDraw }
func (Summon) Kind() Kind          { return KindSummon }
func (Buff) Kind() Kind            { return KindBuff }
func (GrantKeyword) Kind() Kind    { return KindGrantKeyword }
func (Destroy) Kind() Kind         { return KindDestroy }
func (GainArmor) Kind() Kind       { return KindGainArmor }
func (GainMana) Kind() Kind        { return KindGainMana }
func (Silence) Kind() Kind         { return KindSilence }
func (Freeze) Kind() Kind          { return KindFreeze }
func (Transform) Kind() Kind       { return KindTransform }
func (Discover) Kind() Kind        { return KindDiscover }
func (Adapt) Kind() Kind           { return KindAdapt }
func (AddToHand) Kind() Kind       { return KindAddToHand }
func (ShuffleIntoDeck) Kind() Kind { return KindShuffleIntoDeck }
func (EquipWeapon) Kind() Kind     { return KindEquipWeapon }
func (Discard) Kind() Kind         { return KindDiscard }
func (TakeControl) Kind() Kind     { return KindTakeControl }
func (ReturnToHand) Kind() Kind    { return KindReturnToHand }

func (DealDamage) effect()      {}
func (Heal) effect()            {}
func (Draw) effect()            {}
func (Summon) effect()          {}
func (Buff) effect()            {}
func (GrantKeyword) effect()    {}
func (Destroy) effect()         {}
func (GainArmor) effect()       {}
func (GainMana) effect()        {}
func (Silence) effect()         {}
func (Freeze) effect()          {}
func (Transform) effect()       {}
func (Discover) effect()        {}
func (Adapt) effect()           {}
func (AddToHand) effect()       {}
func (ShuffleIntoDeck) effect() {}
func (EquipWeapon) effect()     {}
func (Discard) effect()         {}
func (TakeControl) effect()     {}
func (ReturnToHand) effect()    {}

func (e DealDamage) TargetSpec() TargetSpec   { return e.Target }
func (e Heal) TargetSpec() TargetSpec         { return e.Target }
func (e Buff) TargetSpec() TargetSpec         { return e.Target }
func (e GrantKeyword) TargetSpec() TargetSpec { return e.Target }
func (e Destroy) TargetSpec() TargetSpec      { return e.Target }
func (e Silence) TargetSpec() TargetSpec      { return e.Target }
func (e Freeze) TargetSpec() TargetSpec       { return e.Target }
func (e Transform) TargetSpec() TargetSpec    { return e.Target }
func (e Adapt) TargetSpec() TargetSpec        { return e.Target }
func (e TakeControl) TargetSpec() TargetSpec  { return e.Target }
func (e ReturnToHand) TargetSpec() TargetSpec { return e.Target }

// referencedCards lists definition ids an effect points at, for validation.
func referencedCards(e Effect) []string {
	switch v := e.(type) {
	case Summon:
		return []string{v.CardID}
	case Transform:
		return []string{v.CardID}
	case AddToHand:
		return []string{v.CardID}
	case ShuffleIntoDeck:
		return []string{v.CardID}
	case EquipWeapon:
		return []string{v.CardID}
	case Discover:
		return v.Pool
	}
	return nil
}

// UnknownKindError is returned when a descriptor names a kind outside the closed set.
type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown effect kind %q", string(e.Kind))
}
