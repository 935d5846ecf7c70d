package enemy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/biome/internal/game/dice"
	"github.com/cory-johannsen/biome/internal/game/enemy"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

func TestRewardTable_Validate(t *testing.T) {
	assert.NoError(t, enemy.RewardTable{}.Validate())
	assert.NoError(t, enemy.RewardTable{{ItemID: "a", Chance: 0}, {ItemID: "b", Chance: 100}}.Validate())
	assert.Error(t, enemy.RewardTable{{ItemID: "", Chance: 10}}.Validate())
	assert.Error(t, enemy.RewardTable{{ItemID: "a", Chance: -1}}.Validate())
	assert.Error(t, enemy.RewardTable{{ItemID: "a", Chance: 101}}.Validate())
}

// TestRollRewards_CertainAndImpossible: 100% is always granted and 0% never,
// whatever the source draws.
func TestRollRewards_CertainAndImpossible(t *testing.T) {
	table := enemy.RewardTable{{ItemID: "always", Chance: 100}, {ItemID: "never", Chance: 0}}
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.IntRange(0, 99).Draw(rt, "draw")
		grants := enemy.RollRewards(table, dice.NewLoggedRoller(fixedSrc{val: v}, zap.NewNop()))
		require.Len(rt, grants, 1)
		assert.Equal(rt, "always", grants[0].ItemID)
		assert.NotEmpty(rt, grants[0].InstanceID)
	})
}

func TestRollRewards_IndependentEntries(t *testing.T) {
	table := enemy.RewardTable{
		{ItemID: "a", Chance: 30},
		{ItemID: "b", Chance: 60},
		{ItemID: "c", Chance: 90},
	}
	grants := enemy.RollRewards(table, dice.NewLoggedRoller(fixedSrc{val: 50}, nil))
	require.Len(t, grants, 2)
	assert.Equal(t, "b", grants[0].ItemID)
	assert.Equal(t, "c", grants[1].ItemID)
	assert.NotEqual(t, grants[0].InstanceID, grants[1].InstanceID)

	assert.Empty(t, enemy.RollRewards(table, dice.NewLoggedRoller(fixedSrc{val: 99}, nil)))
	assert.Len(t, enemy.RollRewards(table, dice.NewLoggedRoller(fixedSrc{val: 0}, nil)), 3)
}
