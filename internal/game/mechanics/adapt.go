package mechanics

import (
	"fmt"

	"github.com/cardforge/cardforge-server/internal/game/catalog"
	"github.com/cardforge/cardforge-server/internal/game/counters"
	"github.com/cardforge/cardforge-server/internal/game/state"
	"github.com/cardforge/cardforge-server/internal/game/targeting"
)

// PlantCardID is the token Living Spores summons.
const PlantCardID = "plant"

// Adaptation is one Adapt upgrade.
type Adaptation struct {
	ID    string
	Label string
}

var adaptations = []Adaptation{
	{ID: "crackling_shield", Label: "Divine Shield"},
	{ID: "flaming_claws", Label: "+3 Attack"},
	{ID: "living_spores", Label: "Deathrattle: Summon two 1/1 Plants"},
	{ID: "lightning_speed", Label: "Windfury"},
	{ID: "liquid_membrane", Label: "Can't be targeted by spells or Hero Powers"},
	{ID: "massive", Label: "Taunt"},
	{ID: "volcanic_might", Label: "+1/+1"},
	{ID: "rocky_carapace", Label: "+3 Health"},
	{ID: "shrouding_mist", Label: "Stealth"},
	{ID: "poison_spit", Label: "Poisonous"},
}

// Adaptations returns the full adaptation list in canonical order.
func Adaptations() []Adaptation {
	return append([]Adaptation(nil), adaptations...)
}

// LookupAdaptation finds an adaptation by id.
func LookupAdaptation(id string) (Adaptation, bool) {
	for _, a := range adaptations {
		if a.ID == id {
			return a, true
		}
	}
	return Adaptation{}, false
}

// OfferAdaptations draws n distinct adaptations. Living Spores is only
// offered when the plant token exists in defs.
func OfferAdaptations(rng targeting.Picker, n int, defs Definitions) []Adaptation {
	pool := make([]Adaptation, 0, len(adaptations))
	for _, a := range adaptations {
		if a.ID == "living_spores" {
			if _, ok := defs.Lookup(PlantCardID); !ok {
				continue
			}
		}
		pool = append(pool, a)
	}
	if n > len(pool) {
		n = len(pool)
	}
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// ApplyAdaptation mutates c with the adaptation id.
func ApplyAdaptation(c *state.CardInstance, id string) error {
	switch id {
	case "crackling_shield":
		c.SetKeyword(catalog.KeywordDivineShield, true)
	case "flaming_claws":
		c.Buffs.Add(counters.Buff{SourceID: id, Attack: 3})
	case "living_spores":
		c.ExtraDeathrattles = append(c.ExtraDeathrattles, catalog.Summon{CardID: PlantCardID, Count: 2})
	case "lightning_speed":
		c.SetKeyword(catalog.KeywordWindfury, true)
	case "liquid_membrane":
		c.SetKeyword(catalog.KeywordElusive, true)
	case "massive":
		c.SetKeyword(catalog.KeywordTaunt, true)
	case "volcanic_might":
		c.Buffs.Add(counters.Buff{SourceID: id, Attack: 1, Health: 1})
	case "rocky_carapace":
		c.Buffs.Add(counters.Buff{SourceID: id, Health: 3})
	case "shrouding_mist":
		c.SetKeyword(catalog.KeywordStealth, true)
	case "poison_spit":
		c.SetKeyword(catalog.KeywordPoisonous, true)
	default:
		return fmt.Errorf("unknown adaptation %q", id)
	}
	return nil
}
