package watchers

import (
	"github.com/cardforge/cardforge-server/internal/game/rules"
	"github.com/cardforge/cardforge-server/internal/game/state"
)

// Watcher accumulates facts about one match from its event stream.
type Watcher interface {
	Key() string
	Watch(event rules.Event)
	ConditionMet() bool
	Reset()
	Copy() Watcher
}

type baseWatcher struct {
	key       string
	condition bool
}

func (b *baseWatcher) Key() string        { return b.key }
func (b *baseWatcher) ConditionMet() bool { return b.condition }

func (b *baseWatcher) reset() {
	b.condition = false
}

// SpellsCastWatcher tracks spells cast by players.
type SpellsCastWatcher struct {
	baseWatcher
	spellsCast map[string][]string // playerID -> list of spell card ids
}

// NewSpellsCastWatcher creates a new spells cast watcher.
func NewSpellsCastWatcher() *SpellsCastWatcher {
	return &SpellsCastWatcher{
		baseWatcher: baseWatcher{key: "SpellsCastWatcher"},
		spellsCast:  make(map[string][]string),
	}
}

// Watch implements the Watcher interface.
func (w *SpellsCastWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventSpellCast || event.PlayerID == "" {
		return
	}
	spellID := event.CardID
	if spellID == "" {
		spellID = event.SourceID
	}
	w.spellsCast[event.PlayerID] = append(w.spellsCast[event.PlayerID], spellID)
	w.condition = true
}

// Reset clears the watcher's state.
func (w *SpellsCastWatcher) Reset() {
	w.reset()
	w.spellsCast = make(map[string][]string)
}

// GetSpellsCast returns the card ids of the spells a player cast.
func (w *SpellsCastWatcher) GetSpellsCast(playerID string) []string {
	return w.spellsCast[playerID]
}

// GetCount returns the number of spells cast by a player.
func (w *SpellsCastWatcher) GetCount(playerID string) int {
	return len(w.spellsCast[playerID])
}

// Copy creates a copy of this watcher.
func (w *SpellsCastWatcher) Copy() Watcher {
	copy := NewSpellsCastWatcher()
	copy.condition = w.condition
	for k, v := range w.spellsCast {
		copy.spellsCast[k] = append([]string(nil), v...)
	}
	return copy
}

// MinionsDiedWatcher tracks minions that left the battlefield for the graveyard.
type MinionsDiedWatcher struct {
	baseWatcher
	diedByController map[string]int
}

// NewMinionsDiedWatcher creates a new minions died watcher.
func NewMinionsDiedWatcher() *MinionsDiedWatcher {
	return &MinionsDiedWatcher{
		baseWatcher:      baseWatcher{key: "MinionsDiedWatcher"},
		diedByController: make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *MinionsDiedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventMinionDied || event.PlayerID == "" {
		return
	}
	w.diedByController[event.PlayerID]++
	w.condition = true
}

// Reset clears the watcher's state.
func (w *MinionsDiedWatcher) Reset() {
	w.reset()
	w.diedByController = make(map[string]int)
}

// GetAmountByController returns the number of minions that died under a
// player's control.
func (w *MinionsDiedWatcher) GetAmountByController(controllerID string) int {
	return w.diedByController[controllerID]
}

// GetTotalAmount returns the total number of minions that died.
func (w *MinionsDiedWatcher) GetTotalAmount() int {
	total := 0
	for _, count := range w.diedByController {
		total += count
	}
	return total
}

// Copy creates a copy of this watcher.
func (w *MinionsDiedWatcher) Copy() Watcher {
	copy := NewMinionsDiedWatcher()
	copy.condition = w.condition
	for k, v := range w.diedByController {
		copy.diedByController[k] = v
	}
	return copy
}

// CardsDrawnWatcher tracks cards drawn by players. Burned cards count as
// drawn.
type CardsDrawnWatcher struct {
	baseWatcher
	cardsDrawn map[string]int
	burned     map[string]int
}

// NewCardsDrawnWatcher creates a new cards drawn watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	return &CardsDrawnWatcher{
		baseWatcher: baseWatcher{key: "CardsDrawnWatcher"},
		cardsDrawn:  make(map[string]int),
		burned:      make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *CardsDrawnWatcher) Watch(event rules.Event) {
	if event.PlayerID == "" {
		return
	}
	switch event.Type {
	case rules.EventCardDrawn:
		w.cardsDrawn[event.PlayerID]++
	case rules.EventCardBurned:
		w.cardsDrawn[event.PlayerID]++
		w.burned[event.PlayerID]++
	default:
		return
	}
	w.condition = true
}

// Reset clears the watcher's state.
func (w *CardsDrawnWatcher) Reset() {
	w.reset()
	w.cardsDrawn = make(map[string]int)
	w.burned = make(map[string]int)
}

// GetCount returns the number of cards drawn by a player.
func (w *CardsDrawnWatcher) GetCount(playerID string) int {
	return w.cardsDrawn[playerID]
}

// GetBurned returns the number of drawn cards lost to a full hand.
func (w *CardsDrawnWatcher) GetBurned(playerID string) int {
	return w.burned[playerID]
}

// Copy creates a copy of this watcher.
func (w *CardsDrawnWatcher) Copy() Watcher {
	copy := NewCardsDrawnWatcher()
	copy.condition = w.condition
	for k, v := range w.cardsDrawn {
		copy.cardsDrawn[k] = v
	}
	for k, v := range w.burned {
		copy.burned[k] = v
	}
	return copy
}

// MinionsSummonedWatcher tracks minions that entered the battlefield.
type MinionsSummonedWatcher struct {
	baseWatcher
	summoned map[string][]string // controllerID -> instance ids
}

// NewMinionsSummonedWatcher creates a new minions summoned watcher.
func NewMinionsSummonedWatcher() *MinionsSummonedWatcher {
	return &MinionsSummonedWatcher{
		baseWatcher: baseWatcher{key: "MinionsSummonedWatcher"},
		summoned:    make(map[string][]string),
	}
}

// Watch implements the Watcher interface.
func (w *MinionsSummonedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventMinionSummoned || event.PlayerID == "" || event.TargetID == "" {
		return
	}
	w.summoned[event.PlayerID] = append(w.summoned[event.PlayerID], event.TargetID)
	w.condition = true
}

// Reset clears the watcher's state.
func (w *MinionsSummonedWatcher) Reset() {
	w.reset()
	w.summoned = make(map[string][]string)
}

// GetSummoned returns the instance ids summoned for a controller.
func (w *MinionsSummonedWatcher) GetSummoned(controllerID string) []string {
	return w.summoned[controllerID]
}

// Copy creates a copy of this watcher.
func (w *MinionsSummonedWatcher) Copy() Watcher {
	copy := NewMinionsSummonedWatcher()
	copy.condition = w.condition
	for k, v := range w.summoned {
		copy.summoned[k] = append([]string(nil), v...)
	}
	return copy
}

// DamageTakenWatcher totals the damage each side's hero and minions took.
type DamageTakenWatcher struct {
	baseWatcher
	hero    map[string]int
	minions map[string]int
}

// NewDamageTakenWatcher creates a new damage taken watcher.
func NewDamageTakenWatcher() *DamageTakenWatcher {
	return &DamageTakenWatcher{
		baseWatcher: baseWatcher{key: "DamageTakenWatcher"},
		hero:        make(map[string]int),
		minions:     make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *DamageTakenWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDamageTaken || event.PlayerID == "" {
		return
	}
	if state.IsHero(event.TargetID) {
		w.hero[event.PlayerID] += event.Amount
	} else {
		w.minions[event.PlayerID] += event.Amount
	}
	w.condition = true
}

// Reset clears the watcher's state.
func (w *DamageTakenWatcher) Reset() {
	w.reset()
	w.hero = make(map[string]int)
	w.minions = make(map[string]int)
}

// GetHeroDamage returns the damage a player's hero took, armor included.
func (w *DamageTakenWatcher) GetHeroDamage(playerID string) int {
	return w.hero[playerID]
}

// GetMinionDamage returns the damage a player's minions took.
func (w *DamageTakenWatcher) GetMinionDamage(playerID string) int {
	return w.minions[playerID]
}

// Copy creates a copy of this watcher.
func (w *DamageTakenWatcher) Copy() Watcher {
	copy := NewDamageTakenWatcher()
	copy.condition = w.condition
	for k, v := range w.hero {
		copy.hero[k] = v
	}
	for k, v := range w.minions {
		copy.minions[k] = v
	}
	return copy
}
