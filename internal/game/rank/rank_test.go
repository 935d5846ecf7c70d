package rank_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/biome/internal/content"
	"github.com/cory-johannsen/biome/internal/game/area"
	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/element"
	"github.com/cory-johannsen/biome/internal/game/rank"
)

var (
	midnight = time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	morning  = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	noon     = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func setup(t *testing.T, speciesID string) (*rank.Evaluator, *creature.Creature) {
	t.Helper()
	c := content.MustDefault()
	sp, ok := c.Species.Get(speciesID)
	require.True(t, ok)
	return rank.NewEvaluator(c.Areas), creature.New(sp)
}

func sample(temp, hum, lod float64) area.Sample {
	return area.Sample{Temperature: temp, Humidity: hum, LightOrDepth: lod}
}

func TestEvaluate_NeutralArea(t *testing.T) {
	ev, c := setup(t, "emberling")
	for _, light := range []float64{0, 50, 100} {
		res := ev.Evaluate(c, sample(0, 50, light), noon)
		assert.Equal(t, rank.Neutral, res.Rank)
		assert.Equal(t, "neutral", res.AreaID)
		assert.Equal(t, element.Neutral, res.AreaAttribute)
	}
	assert.Equal(t, rank.Neutral, ev.Evaluate(c, sample(5, 48, 0), noon).Rank, "neutral grid cell")
}

func TestEvaluate_LightMismatchForcesBad(t *testing.T) {
	ev, c := setup(t, "emberling")
	res := ev.Evaluate(c, sample(45, 50, 0), noon)
	assert.Equal(t, rank.Bad, res.Rank, "optimal coordinate but wrong light")
	assert.False(t, res.LightRequirementMet)

	res = ev.Evaluate(c, sample(45, 50, 50), morning)
	assert.Equal(t, rank.SuperBest, res.Rank)
	assert.True(t, res.LightRequirementMet)
}

func TestEvaluate_SuperBest(t *testing.T) {
	ev, c := setup(t, "emberling")
	res := ev.Evaluate(c, sample(45, 50, 100), noon)
	assert.Equal(t, rank.SuperBest, res.Rank)
	assert.Equal(t, "volcano", res.AreaID)
	assert.Equal(t, "Volcano", res.AreaName)
	assert.False(t, res.IsSeaArea)
}

func TestEvaluate_BestDerivedFromOptimal(t *testing.T) {
	ev, c := setup(t, "emberling")
	res := ev.Evaluate(c, sample(41, 48, 100), noon)
	assert.Equal(t, "volcano", res.AreaID)
	assert.Equal(t, rank.Best, res.Rank)
}

func TestEvaluate_ExplicitBestArea(t *testing.T) {
	ev, c := setup(t, "terrapod")
	require.Equal(t, "badlands", c.BestAreaID)
	assert.Equal(t, rank.Best, ev.Evaluate(c, sample(10, 0, 100), noon).Rank)

	c.BestAreaID = "desert"
	assert.Equal(t, rank.Best, ev.Evaluate(c, sample(35, 5, 100), noon).Rank)
	assert.Equal(t, rank.Good, ev.Evaluate(c, sample(10, 0, 100), noon).Rank,
		"badlands is no longer best but shares the creature's attribute")
}

func TestEvaluate_ElementalRelations(t *testing.T) {
	ev, c := setup(t, "emberling")

	res := ev.Evaluate(c, sample(5, 95, 0), midnight)
	assert.Equal(t, "marsh", res.AreaID)
	assert.Equal(t, rank.Bad, res.Rank, "storm is emberling's weakness")
	assert.True(t, res.LightRequirementMet)

	assert.Equal(t, rank.Good, ev.Evaluate(c, sample(35, 5, 0), midnight).Rank, "desert is volcano")
	assert.Equal(t, rank.Normal, ev.Evaluate(c, sample(5, 20, 0), midnight).Rank, "steppe is tornado")
}

func TestEvaluate_WeakCheckedBeforeGood(t *testing.T) {
	ev, c := setup(t, "emberling")
	c.WeakAttribute = element.Volcano
	assert.Equal(t, rank.Bad, ev.Evaluate(c, sample(35, 5, 0), midnight).Rank)
}

func TestEvaluate_SeaHasNoLightGate(t *testing.T) {
	ev, c := setup(t, "nimbusel")

	res := ev.Evaluate(c, sample(-5, 100, 50), midnight)
	assert.True(t, res.IsSeaArea)
	assert.True(t, res.LightRequirementMet)
	assert.Equal(t, rank.SuperBest, res.Rank)

	assert.Equal(t, rank.Best, ev.Evaluate(c, sample(-10, 100, 50), noon).Rank)
	assert.Equal(t, rank.Good, ev.Evaluate(c, sample(-10, 100, 0), noon).Rank)
	assert.Equal(t, rank.Bad, ev.Evaluate(c, sample(10, 100, 100), noon).Rank, "hydrothermal vents are volcano")
	assert.Equal(t, rank.Normal, ev.Evaluate(c, sample(-10, 100, 100), noon).Rank, "trench is earthquake")
}

func TestEvaluate_SuperBestNeedsExactDepth(t *testing.T) {
	ev, c := setup(t, "nimbusel")

	res := ev.Evaluate(c, sample(-5, 100, 37), midnight)
	assert.Equal(t, "sea_north_mid", res.AreaID, "37 still resolves to the mid bucket")
	assert.Equal(t, rank.Best, res.Rank, "same area, different raw depth")
	assert.Equal(t, rank.Best, ev.Evaluate(c, sample(-5, 100, 50.5), midnight).Rank)
	assert.Equal(t, rank.SuperBest, ev.Evaluate(c, sample(-5, 100, 50), noon).Rank)
}

func TestEvaluate_RepairsContainers(t *testing.T) {
	ev, c := setup(t, "emberling")
	c.Grown = nil
	c.Counters = nil
	ev.Evaluate(c, sample(45, 50, 100), noon)
	assert.NotNil(t, c.Grown)
	assert.NotNil(t, c.Counters)
}

func TestEvaluate_Deterministic(t *testing.T) {
	ev, c := setup(t, "zephyrkin")
	rapid.Check(t, func(rt *rapid.T) {
		env := sample(
			float64(rapid.IntRange(-60, 60).Draw(rt, "temperature")),
			float64(rapid.IntRange(0, 100).Draw(rt, "humidity")),
			rapid.SampledFrom([]float64{0, 50, 100}).Draw(rt, "light"),
		)
		now := time.Date(2026, 1, 1, rapid.IntRange(0, 23).Draw(rt, "hour"), 0, 0, 0, time.UTC)
		first := ev.Evaluate(c, env, now)
		assert.Equal(rt, first, ev.Evaluate(c, env, now))
		if first.Rank == rank.Neutral {
			assert.Equal(rt, "neutral", first.AreaID)
		}
	})
}

func TestRank_String(t *testing.T) {
	assert.Equal(t, "superbest", rank.SuperBest.String())
	assert.Equal(t, "unknown", rank.Rank(42).String())
}
