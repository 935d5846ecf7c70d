package growth

import (
	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/element"
	"github.com/cory-johannsen/biome/internal/game/rank"
)

// Delta records every change a single tick made to a creature, together with
// the resulting HP values.
type Delta struct {
	Rank rank.Rank
	// Attribute is the element the tick's counter step was keyed by.
	Attribute     element.Attribute
	Healed        int
	HPGrowth      int
	ElementGrowth int
	// Counter is the attribute's counter value after the tick.
	Counter   int
	Damage    int
	CurrentHP int
	MaxHP     int
}

// PreviewTick returns the Delta ApplyTick would produce for c under res.
//
// Postcondition: c is not modified.
func PreviewTick(c *creature.Creature, res rank.Result) Delta {
	return tick(c.Clone(), res)
}

// ApplyTick applies one tick under res to c and returns what changed.
//
// Postcondition: every grown value stays within its cap and c.CurrentHP is in
// [0, c.MaxHP()].
func ApplyTick(c *creature.Creature, res rank.Result) Delta {
	return tick(c, res)
}

func tick(c *creature.Creature, res rank.Result) Delta {
	c.Repair()
	p := ProfileFor(res.Rank)
	d := Delta{Rank: res.Rank, Attribute: res.AreaAttribute}

	if missing := c.MaxHP() - c.CurrentHP; missing > 0 && p.HealCap > 0 {
		d.Healed = min(p.HealCap, missing)
		c.CurrentHP += d.Healed
	}

	if room := c.Caps.HP - c.GrownHP; room > 0 && p.HPGrowth > 0 {
		d.HPGrowth = min(p.HPGrowth, room)
		c.GrownHP += d.HPGrowth
		c.CurrentHP += d.HPGrowth
	}

	if p.Interval > 0 && d.Attribute.Grows() {
		c.Counters[d.Attribute]++
		if c.Counters[d.Attribute] >= p.Interval {
			c.Counters[d.Attribute] = 0
			if room := c.Caps.Element - c.Grown[d.Attribute]; room > 0 {
				d.ElementGrowth = min(p.ElementGrowth, room)
				c.Grown[d.Attribute] += d.ElementGrowth
			}
		}
		d.Counter = c.Counters[d.Attribute]
	}

	if res.Rank == rank.Bad && p.Damage > 0 {
		d.Damage = min(p.Damage, max(c.CurrentHP, 0))
		c.CurrentHP -= p.Damage
	}

	c.ClampHP()
	d.CurrentHP = c.CurrentHP
	d.MaxHP = c.MaxHP()
	return d
}
