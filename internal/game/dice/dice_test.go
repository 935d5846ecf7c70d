package dice_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/biome/internal/game/dice"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(_ int) int { return f.val }

// TestPercentRoll_Success verifies the postcondition Success() == (Value < Chance).
func TestPercentRoll_Success(t *testing.T) {
	assert.True(t, dice.PercentRoll{Label: "x", Chance: 50, Value: 49}.Success())
	assert.False(t, dice.PercentRoll{Label: "x", Chance: 50, Value: 50}.Success())
}

// TestPercentRoll_Extremes verifies 100% always passes and 0% never passes.
func TestPercentRoll_Extremes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := rapid.IntRange(0, 99).Draw(rt, "value")
		src := fixedSrc{val: v}
		assert.True(rt, dice.RollPercent("always", 100, src).Success())
		assert.False(rt, dice.RollPercent("never", 0, src).Success())
	})
}

func TestPercentRoll_String(t *testing.T) {
	r := dice.PercentRoll{Label: "reward:herb", Chance: 50, Value: 37}
	assert.Equal(t, "reward:herb 37 < 50 → pass", r.String())
	r.Value = 80
	require.True(t, strings.HasSuffix(r.String(), "fail"))
}

func TestPercentRoll_String_PanicsOnEmptyLabel(t *testing.T) {
	r := dice.PercentRoll{Chance: 10, Value: 3}
	assert.Panics(t, func() { _ = r.String() })
}

// TestCryptoSource_Intn_InRange verifies every value returned by Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

// TestSeededSource_Reproducible verifies equal seeds yield equal sequences.
func TestSeededSource_Reproducible(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		n := rapid.IntRange(1, 1000).Draw(rt, "n")
		a := dice.NewSeededSource(seed)
		b := dice.NewSeededSource(seed)
		for i := 0; i < 20; i++ {
			va, vb := a.Intn(n), b.Intn(n)
			assert.Equal(rt, va, vb)
			assert.GreaterOrEqual(rt, va, 0)
			assert.Less(rt, va, n)
		}
	})
}

func TestSeededSource_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestRoller_PickAndPercent(t *testing.T) {
	r := dice.NewLoggedRoller(fixedSrc{val: 7}, zap.NewNop())
	assert.Equal(t, 7, r.Pick("opponent move", 15))
	assert.Equal(t, 7, r.Intn(15))

	roll := r.Percent("reward:gem", 8)
	assert.Equal(t, 7, roll.Value)
	assert.True(t, roll.Success(), fmt.Sprintf("roll %s", roll))
}

func TestRoller_NilLogger(t *testing.T) {
	r := dice.NewLoggedRoller(fixedSrc{val: 0}, nil)
	assert.NotPanics(t, func() { r.Percent("x", 1) })
}
