// Package catalog holds the immutable card definitions the engine reads.
package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// CoinID is the definition granted to the second player when present.
const CoinID = "the_coin"

// Catalog is an id-indexed, read-only table of definitions. Callers must not
// modify the returned definitions.
type Catalog struct {
	defs map[string]*Definition
	ids  []string
}

// New builds a catalog and validates cross references between definitions.
func New(defs []Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]*Definition, len(defs))}
	for i := range defs {
		def := defs[i]
		if def.ID == "" {
			return nil, fmt.Errorf("definition %d has no id", i)
		}
		if _, dup := c.defs[def.ID]; dup {
			return nil, fmt.Errorf("duplicate definition id %q", def.ID)
		}
		c.defs[def.ID] = &def
		c.ids = append(c.ids, def.ID)
	}
	sort.Strings(c.ids)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Lookup returns the definition for id.
func (c *Catalog) Lookup(id string) (*Definition, bool) {
	def, ok := c.defs[id]
	return def, ok
}

// Has reports whether id is defined.
func (c *Catalog) Has(id string) bool {
	_, ok := c.defs[id]
	return ok
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// IDs returns all definition ids in sorted order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}

// Filter returns definitions accepted by keep, ordered by id.
func (c *Catalog) Filter(keep func(*Definition) bool) []*Definition {
	var out []*Definition
	for _, id := range c.ids {
		if def := c.defs[id]; keep(def) {
			out = append(out, def)
		}
	}
	return out
}

// Validate checks every definition and every id it references.
func (c *Catalog) Validate() error {
	var errs []error
	for _, id := range c.ids {
		if err := c.validateDefinition(c.defs[id]); err != nil {
			errs = append(errs, fmt.Errorf("card %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (c *Catalog) validateDefinition(def *Definition) error {
	switch def.Type {
	case TypeMinion, TypeSpell, TypeWeapon, TypeHero, TypeSecret, TypeHeroPower:
	default:
		return fmt.Errorf("unknown card type %q", string(def.Type))
	}
	if def.Cost < 0 || def.Attack < 0 || def.Health < 0 || def.Durability < 0 || def.Armor < 0 {
		return errors.New("negative stat")
	}
	if def.Overload < 0 || def.OutcastDiscount < 0 {
		return errors.New("negative overload or discount")
	}
	if def.Type == TypeMinion && def.Health == 0 && def.Dormant == nil {
		return errors.New("minion without health")
	}
	if def.Type == TypeWeapon && def.Durability == 0 {
		return errors.New("weapon without durability")
	}
	for _, kw := range def.Keywords {
		if !knownKeywords[kw] {
			return fmt.Errorf("unknown keyword %q", string(kw))
		}
	}
	if def.CorruptsTo != "" && !c.Has(def.CorruptsTo) {
		return fmt.Errorf("corrupts_to references unknown card %q", def.CorruptsTo)
	}
	if def.HeroPower != "" {
		hp, ok := c.Lookup(def.HeroPower)
		if !ok || hp.Type != TypeHeroPower {
			return fmt.Errorf("hero_power %q is not a hero power definition", def.HeroPower)
		}
	}
	if def.Aura != nil && def.Aura.Scope != AuraAdjacent && def.Aura.Scope != AuraOtherFriendly {
		return fmt.Errorf("unknown aura scope %q", string(def.Aura.Scope))
	}
	if def.Dormant != nil && def.Dormant.Turns <= 0 {
		return errors.New("dormant turns must be positive")
	}
	for _, t := range def.Triggers {
		if !knownTriggerKeys[t.On] {
			return fmt.Errorf("unknown trigger key %q", string(t.On))
		}
		switch t.Watch {
		case WatchAny, WatchSelf, WatchFriendly, WatchEnemy:
		default:
			return fmt.Errorf("unknown trigger watch %q", string(t.Watch))
		}
	}
	for _, list := range def.effectLists() {
		for _, eff := range list {
			if err := c.validateEffect(eff); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Catalog) validateEffect(eff Effect) error {
	if eff == nil {
		return errors.New("nil effect")
	}
	if _, ok := decoders[eff.Kind()]; !ok {
		return &UnknownKindError{Kind: eff.Kind()}
	}
	if t, ok := eff.(Targeted); ok {
		if err := t.TargetSpec().validate(); err != nil {
			return fmt.Errorf("%s: %w", eff.Kind(), err)
		}
	}
	if gk, ok := eff.(GrantKeyword); ok && !knownKeywords[gk.Keyword] {
		return fmt.Errorf("grant_keyword: unknown keyword %q", string(gk.Keyword))
	}
	for _, ref := range referencedCards(eff) {
		if !c.Has(ref) {
			return fmt.Errorf("%s references unknown card %q", eff.Kind(), ref)
		}
	}
	return nil
}
