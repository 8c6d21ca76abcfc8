package catalog

// CardType classifies a definition.
type CardType string

const (
	TypeMinion    CardType = "minion"
	TypeSpell     CardType = "spell"
	TypeWeapon    CardType = "weapon"
	TypeHero      CardType = "hero"
	TypeSecret    CardType = "secret"
	TypeHeroPower CardType = "hero_power"
)

// Keyword is a static ability printed on a card.
type Keyword string

const (
	KeywordTaunt        Keyword = "taunt"
	KeywordDivineShield Keyword = "divine_shield"
	KeywordCharge       Keyword = "charge"
	KeywordRush         Keyword = "rush"
	KeywordWindfury     Keyword = "windfury"
	KeywordStealth      Keyword = "stealth"
	KeywordElusive      Keyword = "elusive"
	KeywordPoisonous    Keyword = "poisonous"
	KeywordLifesteal    Keyword = "lifesteal"
	KeywordReborn       Keyword = "reborn"
	KeywordMagnetic     Keyword = "magnetic"
)

var knownKeywords = map[Keyword]bool{
	KeywordTaunt: true, KeywordDivineShield: true, KeywordCharge: true,
	KeywordRush: true, KeywordWindfury: true, KeywordStealth: true,
	KeywordElusive: true, KeywordPoisonous: true, KeywordLifesteal: true,
	KeywordReborn: true, KeywordMagnetic: true,
}

// TribeMech is the tribe Magnetic minions attach to.
const TribeMech = "mech"

// TriggerKey names the event class a triggered ability listens for.
type TriggerKey string

const (
	OnHeal          TriggerKey = "on_heal"
	OnSummon        TriggerKey = "on_summon"
	OnMinionDeath   TriggerKey = "on_minion_death"
	StartOfTurn     TriggerKey = "start_of_turn"
	EndOfTurn       TriggerKey = "end_of_turn"
	OnSpellCast     TriggerKey = "on_spell_cast"
	OnDamageTaken   TriggerKey = "on_damage_taken"
	OnSurviveDamage TriggerKey = "on_survive_damage"
	OnAttack        TriggerKey = "on_attack"
	OnCardPlayed    TriggerKey = "on_card_played"
)

var knownTriggerKeys = map[TriggerKey]bool{
	OnHeal: true, OnSummon: true, OnMinionDeath: true, StartOfTurn: true,
	EndOfTurn: true, OnSpellCast: true, OnDamageTaken: true, OnSurviveDamage: true,
	OnAttack: true, OnCardPlayed: true,
}

// Watch restricts whose events a trigger reacts to.
type Watch string

const (
	WatchAny      Watch = ""
	WatchSelf     Watch = "self"
	WatchFriendly Watch = "friendly"
	WatchEnemy    Watch = "enemy"
)

// Trigger is a passive ability that fires when a matching event resolves.
type Trigger struct {
	On      TriggerKey `json:"on" yaml:"on"`
	Watch   Watch      `json:"watch,omitempty" yaml:"watch,omitempty"`
	Effects Effects    `json:"effects" yaml:"effects"`
}

// AuraScope selects which friendly minions an aura affects.
type AuraScope string

const (
	AuraAdjacent      AuraScope = "adjacent"
	AuraOtherFriendly AuraScope = "other_friendly"
)

// Aura grants attack to other minions while its source is in play.
type Aura struct {
	Attack int       `json:"attack" yaml:"attack"`
	Scope  AuraScope `json:"scope" yaml:"scope"`
}

// Dormancy keeps a minion inert for Turns of its controller's turns.
type Dormancy struct {
	Turns  int     `json:"turns" yaml:"turns"`
	Awaken Effects `json:"awaken,omitempty" yaml:"awaken,omitempty"`
}

// Definition is an immutable catalog entry.
type Definition struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Type        CardType  `json:"type" yaml:"type"`
	Cost        int       `json:"cost" yaml:"cost"`
	Attack      int       `json:"attack,omitempty" yaml:"attack,omitempty"`
	Health      int       `json:"health,omitempty" yaml:"health,omitempty"`
	Durability  int       `json:"durability,omitempty" yaml:"durability,omitempty"`
	Armor       int       `json:"armor,omitempty" yaml:"armor,omitempty"`
	Tribe       string    `json:"tribe,omitempty" yaml:"tribe,omitempty"`
	Collectible bool      `json:"collectible,omitempty" yaml:"collectible,omitempty"`
	Keywords    []Keyword `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	Battlecry   Effects `json:"battlecry,omitempty" yaml:"battlecry,omitempty"`
	Deathrattle Effects `json:"deathrattle,omitempty" yaml:"deathrattle,omitempty"`
	Spell       Effects `json:"spell,omitempty" yaml:"spell,omitempty"`
	Combo       Effects `json:"combo,omitempty" yaml:"combo,omitempty"`
	Outcast     Effects `json:"outcast,omitempty" yaml:"outcast,omitempty"`
	Frenzy      Effects `json:"frenzy,omitempty" yaml:"frenzy,omitempty"`

	Triggers []Trigger `json:"triggers,omitempty" yaml:"triggers,omitempty"`
	Aura     *Aura     `json:"aura,omitempty" yaml:"aura,omitempty"`
	Dormant  *Dormancy `json:"dormant,omitempty" yaml:"dormant,omitempty"`

	Overload        int    `json:"overload,omitempty" yaml:"overload,omitempty"`
	OutcastDiscount int    `json:"outcast_discount,omitempty" yaml:"outcast_discount,omitempty"`
	CorruptsTo      string `json:"corrupts_to,omitempty" yaml:"corrupts_to,omitempty"`
	HeroPower       string `json:"hero_power,omitempty" yaml:"hero_power,omitempty"`
}

// HasKeyword reports whether the printed keyword set contains k.
func (d *Definition) HasKeyword(k Keyword) bool {
	for _, kw := range d.Keywords {
		if kw == k {
			return true
		}
	}
	return false
}

// PlayEffects returns the effects resolved when the card is played. Which
// list applies depends on the card type.
func (d *Definition) PlayEffects() Effects {
	switch d.Type {
	case TypeSpell, TypeHeroPower:
		return d.Spell
	case TypeSecret:
		return nil
	}
	return d.Battlecry
}

// ChosenTarget returns the first player-chosen target spec among the given
// effect lists. A card shares one chosen target across all of them.
func ChosenTarget(lists ...Effects) (TargetSpec, bool) {
	for _, list := range lists {
		for _, eff := range list {
			t, ok := eff.(Targeted)
			if ok && t.TargetSpec().RequiresTarget() {
				return t.TargetSpec(), true
			}
		}
	}
	return TargetSpec{}, false
}

func (d *Definition) effectLists() []Effects {
	lists := []Effects{d.Battlecry, d.Deathrattle, d.Spell, d.Combo, d.Outcast, d.Frenzy}
	for _, t := range d.Triggers {
		lists = append(lists, t.Effects)
	}
	if d.Dormant != nil {
		lists = append(lists, d.Dormant.Awaken)
	}
	return lists
}
