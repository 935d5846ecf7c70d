// Package rank evaluates how well an environment suits a creature.
package rank

import (
	"time"

	"github.com/cory-johannsen/biome/internal/game/area"
	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/element"
)

// Rank is the qualitative fitness of an environment for a creature.
type Rank int

const (
	Neutral Rank = iota
	SuperBest
	Best
	Good
	Normal
	Bad
)

// String returns a human-readable rank label.
func (r Rank) String() string {
	switch r {
	case Neutral:
		return "neutral"
	case SuperBest:
		return "superbest"
	case Best:
		return "best"
	case Good:
		return "good"
	case Normal:
		return "normal"
	case Bad:
		return "bad"
	default:
		return "unknown"
	}
}

// Result is the outcome of one rank evaluation.
type Result struct {
	Rank          Rank
	AreaID        string
	AreaName      string
	AreaAttribute element.Attribute
	IsSeaArea     bool
	// LightRequirementMet is false only when a land area's light gate failed.
	LightRequirementMet bool
}

// Evaluator ranks environment samples against creatures.
type Evaluator struct {
	areas *area.Catalog
}

// NewEvaluator creates an Evaluator backed by areas.
//
// Precondition: areas must be non-nil and validated.
func NewEvaluator(areas *area.Catalog) *Evaluator {
	return &Evaluator{areas: areas}
}

// Evaluate ranks env for c at time now.
//
// Precedence: neutral area → Neutral; failed land light gate → Bad;
// exact optimal coordinate → SuperBest; best area → Best; weak attribute → Bad;
// own attribute → Good; otherwise Normal.
//
// Postcondition: c's growth containers are repaired; the result depends only
// on c, env and now.Hour().
func (e *Evaluator) Evaluate(c *creature.Creature, env area.Sample, now time.Time) Result {
	c.Repair()

	a := e.areas.Lookup(env)
	res := Result{
		AreaID:              a.ID,
		AreaName:            a.Name,
		AreaAttribute:       a.Attribute,
		IsSeaArea:           a.Sea,
		LightRequirementMet: true,
	}

	if e.areas.IsNeutral(a.ID) {
		res.Rank = Neutral
		return res
	}

	if !a.Sea && env.LightOrDepth != Hour(now.Hour()).ExpectedLight() {
		res.LightRequirementMet = false
		res.Rank = Bad
		return res
	}

	switch {
	case matchesOptimal(env, c.Optimal):
		res.Rank = SuperBest
	case a.ID == e.bestAreaID(c):
		res.Rank = Best
	case c.WeakAttribute != "" && a.Attribute == c.WeakAttribute:
		res.Rank = Bad
	case a.Attribute == c.Attribute:
		res.Rank = Good
	default:
		res.Rank = Normal
	}
	return res
}

// bestAreaID returns c's explicit best area, or the area its optimal
// coordinate resolves to.
func (e *Evaluator) bestAreaID(c *creature.Creature) string {
	if c.BestAreaID != "" {
		return c.BestAreaID
	}
	return e.areas.ResolveSample(c.Optimal)
}

// matchesOptimal compares raw coordinates. Depth counts only at sea, where it
// must equal the optimal depth exactly, not merely share its bucket.
func matchesOptimal(env, opt area.Sample) bool {
	if env.Temperature != opt.Temperature || env.Humidity != opt.Humidity {
		return false
	}
	return !env.IsSea() || env.LightOrDepth == opt.LightOrDepth
}
