// Package growth applies rank-dependent healing, stat growth and damage to a
// creature once per elapsed tick.
package growth

import "github.com/cory-johannsen/biome/internal/game/rank"

// Profile is the per-tick growth table row for one rank.
type Profile struct {
	// HPGrowth is added to grown HP (and current HP) each tick.
	HPGrowth int
	// ElementGrowth is added to the tick's element when its counter fires.
	ElementGrowth int
	// Interval is the number of ticks between element growth steps; zero
	// disables element growth.
	Interval int
	// HealCap bounds how much current HP is restored each tick.
	HealCap int
	// Damage is subtracted from current HP after growth.
	Damage int
}

var profiles = map[rank.Rank]Profile{
	rank.SuperBest: {HPGrowth: 50, ElementGrowth: 20, Interval: 1, HealCap: 500},
	rank.Best:      {HPGrowth: 30, ElementGrowth: 10, Interval: 1, HealCap: 300},
	rank.Good:      {HPGrowth: 20, ElementGrowth: 10, Interval: 2, HealCap: 200},
	rank.Normal:    {HPGrowth: 10, ElementGrowth: 10, Interval: 3, HealCap: 100},
	rank.Bad:       {HPGrowth: 10, ElementGrowth: 10, Interval: 5, Damage: 10},
	rank.Neutral:   {},
}

// ProfileFor returns the growth profile for r. Unknown ranks get the
// neutral (no-op) profile.
func ProfileFor(r rank.Rank) Profile {
	return profiles[r]
}
