// Package creature defines the creature record shared by the growth and
// battle engines, and the species catalog creatures are created from.
package creature

import (
	"github.com/cory-johannsen/biome/internal/game/area"
	"github.com/cory-johannsen/biome/internal/game/element"
)

// Default growth caps used when a species does not declare its own.
const (
	DefaultElementCap = 630
	DefaultHPCap      = 5110
)

// MaxMoves is the number of move slots a creature can hold.
const MaxMoves = 15

// Caps bounds the grown components of a creature.
type Caps struct {
	Element int `yaml:"element"`
	HP      int `yaml:"hp"`
}

// withDefaults fills zero caps with the default values.
func (c Caps) withDefaults() Caps {
	if c.Element <= 0 {
		c.Element = DefaultElementCap
	}
	if c.HP <= 0 {
		c.HP = DefaultHPCap
	}
	return c
}

// Creature is the persisted state of one creature.
//
// Invariant (after Repair): every Grown value is in [0, Caps.Element];
// GrownHP is in [0, Caps.HP]; CurrentHP is in [0, MaxHP()].
type Creature struct {
	SpeciesID string
	Name      string
	Attribute element.Attribute
	Base      element.Stats
	BaseHP    int
	// Grown holds time-accumulated stat growth keyed by element.
	Grown   map[element.Attribute]int
	GrownHP int
	// Counters tracks ticks spent toward the next elemental growth step.
	Counters  map[element.Attribute]int
	CurrentHP int
	Caps      Caps
	// Optimal is the single environment reading this creature thrives in.
	Optimal area.Sample
	// BestAreaID overrides the area derived from Optimal; empty means derive.
	BestAreaID string
	// WeakAttribute is the element this creature suffers in; empty means none.
	WeakAttribute element.Attribute
	Moves         []string
}

// MaxHP returns the creature's maximum HP.
//
// Postcondition: Returns BaseHP + GrownHP.
func (c *Creature) MaxHP() int { return c.BaseHP + c.GrownHP }

// Stat returns the effective value of stat k: base plus the grown value of
// the element that feeds it.
func (c *Creature) Stat(k element.StatKey) int {
	return c.Base.Get(k) + c.Grown[element.AttributeOf(k)]
}

// Effective returns all four effective stats.
func (c *Creature) Effective() element.Stats {
	return element.Stats{
		Attack:  c.Stat(element.Attack),
		Magic:   c.Stat(element.Magic),
		Counter: c.Stat(element.Counter),
		Recover: c.Stat(element.Recover),
	}
}

// ClampHP forces CurrentHP into [0, MaxHP()].
func (c *Creature) ClampHP() {
	if c.CurrentHP < 0 {
		c.CurrentHP = 0
	}
	if limit := c.MaxHP(); c.CurrentHP > limit {
		c.CurrentHP = limit
	}
}

// Repair initialises missing growth containers and clamps every grown value
// into its cap. It never fails.
//
// Postcondition: The Creature invariant holds.
func (c *Creature) Repair() {
	c.Caps = c.Caps.withDefaults()
	if c.Grown == nil {
		c.Grown = make(map[element.Attribute]int, len(element.Growable))
	}
	if c.Counters == nil {
		c.Counters = make(map[element.Attribute]int, len(element.Growable))
	}
	for k, v := range c.Grown {
		if !k.Grows() {
			delete(c.Grown, k)
			continue
		}
		c.Grown[k] = clamp(v, 0, c.Caps.Element)
	}
	for k, v := range c.Counters {
		if !k.Grows() || v < 0 {
			delete(c.Counters, k)
		}
	}
	for _, a := range element.Growable {
		if _, ok := c.Grown[a]; !ok {
			c.Grown[a] = 0
		}
	}
	if c.BaseHP < 0 {
		c.BaseHP = 0
	}
	c.GrownHP = clamp(c.GrownHP, 0, c.Caps.HP)
	if !c.Attribute.IsValid() {
		c.Attribute = element.Neutral
	}
	if c.WeakAttribute != "" && !c.WeakAttribute.IsValid() {
		c.WeakAttribute = ""
	}
	if len(c.Moves) > MaxMoves {
		c.Moves = c.Moves[:MaxMoves]
	}
	c.ClampHP()
}

// Clone returns a deep copy of c.
func (c *Creature) Clone() *Creature {
	cp := *c
	cp.Grown = copyMap(c.Grown)
	cp.Counters = copyMap(c.Counters)
	cp.Moves = append([]string(nil), c.Moves...)
	return &cp
}

func copyMap(m map[element.Attribute]int) map[element.Attribute]int {
	if m == nil {
		return nil
	}
	out := make(map[element.Attribute]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
