// Package state holds the match snapshot the engine replaces on every action.
//
// Instances are referenced by id from exactly one zone slice of exactly one
// player; the Cards table owns the instance data. Cross references such as
// "returns to its owner" are ids, never shared pointers, so Clone produces a
// fully independent snapshot.
package state

import (
	"fmt"
	"strings"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/choice"
	"github.com/cardforge/cardforge-server/internal/game/counters"
	"github.com/cardforge/cardforge-server/internal/game/mana"
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/google/uuid"
)

// Zone is where an instance currently lives.
type Zone string

const (
	ZoneDeck        Zone = "deck"
	ZoneHand        Zone = "hand"
	ZoneBattlefield Zone = "battlefield"
	ZoneGraveyard   Zone = "graveyard"
	ZoneSecret      Zone = "secret"
	ZoneWeapon      Zone = "weapon"
)

// Phase is the coarse match phase.
type Phase string

const (
	PhaseMulligan Phase = "mulligan"
	PhasePlaying  Phase = "playing"
	PhaseEnded    Phase = "ended"
)

// WinnerDraw is recorded when both heroes die together.
const WinnerDraw = "draw"

const heroPrefix = "hero:"

var instanceNamespace = uuid.MustParse("6f1c2f4e-8d0b-4a8e-9a53-3c1f5e7b2d90")

// HeroID returns the target id of a player's hero.
func HeroID(playerID string) string {
	return heroPrefix + playerID
}

// IsHero reports whether id names a hero.
func IsHero(id string) bool {
	return strings.HasPrefix(id, heroPrefix)
}

// HeroOwner returns the player id behind a hero id.
func HeroOwner(id string) string {
	return strings.TrimPrefix(id, heroPrefix)
}

// CardInstance is a live occurrence of a definition.
type CardInstance struct {
	ID         string           `json:"id"`
	CardID     string           `json:"card_id"`
	Type       catalog.CardType `json:"type"`
	Owner      string           `json:"owner"`
	Controller string           `json:"controller"`
	Zone       Zone             `json:"zone"`
	Created    int              `json:"created"`
	Cost       int              `json:"cost"`
	Tribe      string           `json:"tribe,omitempty"`

	BaseAttack int `json:"base_attack"`
	BaseHealth int `json:"base_health"`
	Damage     int `json:"damage"`
	Durability int `json:"durability,omitempty"`

	Keywords map[catalog.Keyword]bool `json:"keywords,omitempty"`
	Buffs    counters.Buffs           `json:"buffs,omitempty"`
	Aura     *catalog.Aura            `json:"aura,omitempty"`

	SummoningSick   bool `json:"summoning_sick,omitempty"`
	AttacksThisTurn int  `json:"attacks_this_turn,omitempty"`
	Frozen          bool `json:"frozen,omitempty"`
	FrozenTurn      int  `json:"frozen_turn,omitempty"`
	Silenced        bool `json:"silenced,omitempty"`
	Doomed          bool `json:"doomed,omitempty"`

	Corrupted         bool            `json:"corrupted,omitempty"`
	OutcastDiscount   int             `json:"outcast_discount,omitempty"`
	OutcastDiscounted bool            `json:"outcast_discounted,omitempty"`
	FrenzyFired       bool            `json:"frenzy_fired,omitempty"`
	DormantTurns      int             `json:"dormant_turns,omitempty"`
	Awakened          bool            `json:"awakened,omitempty"`
	Magnetized        []string        `json:"magnetized,omitempty"`
	ExtraDeathrattles catalog.Effects `json:"extra_deathrattles,omitempty"`
	ControlReturnTo   string          `json:"control_return_to,omitempty"`
}

// NewInstance builds a fresh instance of def with printed stats.
func NewInstance(id string, def *catalog.Definition, owner string, created int) *CardInstance {
	c := &CardInstance{
		ID:              id,
		CardID:          def.ID,
		Type:            def.Type,
		Owner:           owner,
		Controller:      owner,
		Created:         created,
		Cost:            def.Cost,
		Tribe:           def.Tribe,
		BaseAttack:      def.Attack,
		BaseHealth:      def.Health,
		Durability:      def.Durability,
		OutcastDiscount: def.OutcastDiscount,
		Keywords:        make(map[catalog.Keyword]bool, len(def.Keywords)),
	}
	for _, kw := range def.Keywords {
		c.Keywords[kw] = true
	}
	if def.Aura != nil {
		aura := *def.Aura
		c.Aura = &aura
	}
	return c
}

// MaxHealth is printed health plus health buffs.
func (c *CardInstance) MaxHealth() int {
	return c.BaseHealth + c.Buffs.Health()
}

// Health is the current health.
func (c *CardInstance) Health() int {
	return c.MaxHealth() - c.Damage
}

// HasKeyword reports whether the instance currently has k.
func (c *CardInstance) HasKeyword(k catalog.Keyword) bool {
	return c.Keywords[k]
}

// SetKeyword adds or removes k.
func (c *CardInstance) SetKeyword(k catalog.Keyword, on bool) {
	if on {
		if c.Keywords == nil {
			c.Keywords = make(map[catalog.Keyword]bool)
		}
		c.Keywords[k] = true
		return
	}
	delete(c.Keywords, k)
}

// IsDormant reports whether the instance is still asleep.
func (c *CardInstance) IsDormant() bool {
	return c.DormantTurns > 0
}

// CurrentCost is the mana cost to play the instance right now.
func (c *CardInstance) CurrentCost() int {
	cost := c.Cost
	if c.OutcastDiscounted {
		cost -= c.OutcastDiscount
	}
	if cost < 0 {
		cost = 0
	}
	return cost
}

// ClearBuffs removes every buff. Health lost with a health buff never
// exceeds what the buff granted.
func (c *CardInstance) ClearBuffs() {
	before := c.Health()
	c.Buffs = nil
	c.clampDamage(before)
}

// ExpireTemporaryBuffs drops end-of-turn buffs and returns how many there were.
func (c *CardInstance) ExpireTemporaryBuffs() int {
	before := c.Health()
	removed := c.Buffs.ExpireTemporary()
	c.clampDamage(before)
	return removed
}

func (c *CardInstance) clampDamage(healthBefore int) {
	max := c.MaxHealth()
	if healthBefore > max {
		c.Damage = 0
		return
	}
	c.Damage = max - healthBefore
}

// Copy returns an independent copy.
func (c *CardInstance) Copy() *CardInstance {
	cp := *c
	if c.Keywords != nil {
		cp.Keywords = make(map[catalog.Keyword]bool, len(c.Keywords))
		for k, v := range c.Keywords {
			cp.Keywords[k] = v
		}
	}
	cp.Buffs = c.Buffs.Copy()
	if c.Aura != nil {
		aura := *c.Aura
		cp.Aura = &aura
	}
	cp.Magnetized = append([]string(nil), c.Magnetized...)
	if len(cp.Magnetized) == 0 {
		cp.Magnetized = nil
	}
	cp.ExtraDeathrattles = append(catalog.Effects(nil), c.ExtraDeathrattles...)
	if len(cp.ExtraDeathrattles) == 0 {
		cp.ExtraDeathrattles = nil
	}
	return &cp
}

// Hero is a player's hero character.
type Hero struct {
	CardID          string `json:"card_id,omitempty"`
	Health          int    `json:"health"`
	MaxHealth       int    `json:"max_health"`
	Armor           int    `json:"armor"`
	AttacksThisTurn int    `json:"attacks_this_turn,omitempty"`
	Frozen          bool   `json:"frozen,omitempty"`
	FrozenTurn      int    `json:"frozen_turn,omitempty"`
}

// HeroPower is the player's repeatable hero ability.
type HeroPower struct {
	CardID string `json:"card_id,omitempty"`
	Used   bool   `json:"used,omitempty"`
}

// PlayerState is one side of the match. Zone slices are ordered: deck top
// first, hand left to right, battlefield left to right.
type PlayerState struct {
	ID        string    `json:"id"`
	Mana      mana.Pool `json:"mana"`
	Hero      Hero      `json:"hero"`
	HeroPower HeroPower `json:"hero_power"`

	Deck        []string `json:"deck"`
	Hand        []string `json:"hand"`
	Battlefield []string `json:"battlefield"`
	Graveyard   []string `json:"graveyard"`
	Secrets     []string `json:"secrets"`
	Weapon      string   `json:"weapon,omitempty"`

	CardsPlayedThisTurn int  `json:"cards_played_this_turn"`
	Fatigue             int  `json:"fatigue"`
	Mulliganed          bool `json:"mulliganed,omitempty"`
}

// MatchState is a complete, self-contained match snapshot.
type MatchState struct {
	ID         string         `json:"id"`
	Players    []*PlayerState `json:"players"`
	Active     int            `json:"active"`
	Turn       int            `json:"turn"`
	Phase      Phase          `json:"phase"`
	Winner     string         `json:"winner,omitempty"`
	TurnEnding bool           `json:"turn_ending,omitempty"`

	Cards   map[string]*CardInstance `json:"cards"`
	NextSeq int                      `json:"next_seq"`

	Log           []rules.Event      `json:"log"`
	TriggerCursor int                `json:"trigger_cursor"`
	Queue         []rules.Activation `json:"queue,omitempty"`
	Pending       *choice.Request    `json:"pending,omitempty"`
}

// NewMatch creates an empty two-player match in the mulligan phase.
func NewMatch(id string, playerIDs [2]string, startingHealth int) *MatchState {
	ms := &MatchState{
		ID:      id,
		Phase:   PhaseMulligan,
		Cards:   make(map[string]*CardInstance),
		Players: make([]*PlayerState, 0, 2),
	}
	for _, pid := range playerIDs {
		ms.Players = append(ms.Players, &PlayerState{
			ID:   pid,
			Hero: Hero{Health: startingHealth, MaxHealth: startingHealth},
		})
	}
	return ms
}

// Player returns the player with id, or nil.
func (ms *MatchState) Player(id string) *PlayerState {
	for _, p := range ms.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlayerIndex returns the seat of id, or -1.
func (ms *MatchState) PlayerIndex(id string) int {
	for i, p := range ms.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ActivePlayer returns the player whose turn it is.
func (ms *MatchState) ActivePlayer() *PlayerState {
	return ms.Players[ms.Active]
}

// Opponent returns the other player.
func (ms *MatchState) Opponent(id string) *PlayerState {
	for _, p := range ms.Players {
		if p.ID != id {
			return p
		}
	}
	return nil
}

// Card returns the instance with id, or nil.
func (ms *MatchState) Card(id string) *CardInstance {
	return ms.Cards[id]
}

// TurnOrder returns the active player followed by the opponent.
func (ms *MatchState) TurnOrder() []*PlayerState {
	active := ms.ActivePlayer()
	return []*PlayerState{active, ms.Opponent(active.ID)}
}

// NewInstanceID allocates a deterministic instance id and its creation
// sequence number.
func (ms *MatchState) NewInstanceID() (string, int) {
	seq := ms.NextSeq
	ms.NextSeq++
	name := fmt.Sprintf("%s/%d", ms.ID, seq)
	return uuid.NewSHA1(instanceNamespace, []byte(name)).String(), seq
}

// CreateCard allocates an instance of def owned by owner and places it.
func (ms *MatchState) CreateCard(def *catalog.Definition, owner string, zone Zone, pos int) *CardInstance {
	id, seq := ms.NewInstanceID()
	c := NewInstance(id, def, owner, seq)
	ms.Cards[id] = c
	ms.Place(c, zone, owner, pos)
	return c
}
