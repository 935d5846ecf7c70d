package element_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/biome/internal/game/element"
)

func TestStatKeyOf(t *testing.T) {
	cases := map[element.Attribute]element.StatKey{
		element.Volcano:    element.Magic,
		element.Tornado:    element.Counter,
		element.Earthquake: element.Attack,
		element.Storm:      element.Recover,
		element.Neutral:    element.Attack,
		"bogus":            element.Attack,
	}
	for attr, want := range cases {
		assert.Equal(t, want, element.StatKeyOf(attr), "attribute %q", attr)
	}
}

func TestAttributeOf_InvertsStatKeyOf(t *testing.T) {
	for _, a := range element.Growable {
		assert.Equal(t, a, element.AttributeOf(element.StatKeyOf(a)))
	}
}

func TestParse(t *testing.T) {
	a, err := element.Parse("")
	require.NoError(t, err)
	assert.Equal(t, element.Neutral, a)

	a, err = element.Parse("storm")
	require.NoError(t, err)
	assert.Equal(t, element.Storm, a)

	_, err = element.Parse("fire")
	assert.Error(t, err)
}

func TestGrows(t *testing.T) {
	assert.False(t, element.Neutral.Grows())
	assert.False(t, element.Attribute("x").Grows())
	for _, a := range element.Growable {
		assert.True(t, a.Grows())
	}
}

func TestStats_Get_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := element.Stats{
			Attack:  rapid.IntRange(0, 9999).Draw(rt, "attack"),
			Magic:   rapid.IntRange(0, 9999).Draw(rt, "magic"),
			Counter: rapid.IntRange(0, 9999).Draw(rt, "counter"),
			Recover: rapid.IntRange(0, 9999).Draw(rt, "recover"),
		}
		assert.Equal(rt, s.Attack, s.Get(element.Attack))
		assert.Equal(rt, s.Magic, s.Get(element.Magic))
		assert.Equal(rt, s.Counter, s.Get(element.Counter))
		assert.Equal(rt, s.Recover, s.Get(element.Recover))
		assert.NoError(rt, s.Validate())
	})
}
