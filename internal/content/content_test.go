package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/biome/internal/content"
)

func TestDefault_Loads(t *testing.T) {
	c, err := content.Default()
	require.NoError(t, err)
	assert.Len(t, c.Areas.SeaIDs(), 6)
	assert.NotEmpty(t, c.Skills.All())
	assert.NotEmpty(t, c.Species.All())
	assert.NotEmpty(t, c.Enemies.All())
	assert.Equal(t, "tackle", c.Skills.Default().ID)
}

// TestDefault_MovesKnown keeps the shipped content free of typos: every move
// id named by a species or enemy exists in the skill catalog.
func TestDefault_MovesKnown(t *testing.T) {
	c := content.MustDefault()
	for _, sp := range c.Species.All() {
		for _, id := range sp.Moves {
			_, ok := c.Skills.Get(id)
			assert.True(t, ok, "species %s move %s", sp.ID, id)
		}
	}
	for _, e := range c.Enemies.All() {
		for _, id := range e.Moves {
			_, ok := c.Skills.Get(id)
			assert.True(t, ok, "enemy %s move %s", e.ID, id)
		}
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{content.AreasFile, content.SkillsFile, content.SpeciesFile, content.EnemiesFile} {
		data, err := os.ReadFile(name)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	c, err := content.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, len(content.MustDefault().Enemies.All()), len(c.Enemies.All()))
}

func TestLoadDir_MissingFile(t *testing.T) {
	_, err := content.LoadDir(t.TempDir())
	assert.Error(t, err)
}

func TestLoadDir_BadBestArea(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{content.AreasFile, content.SkillsFile, content.EnemiesFile} {
		data, err := os.ReadFile(name)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	species := `
species:
  - id: lost
    name: Lost
    base_hp: 10
    best_area: atlantis
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, content.SpeciesFile), []byte(species), 0o644))
	_, err := content.LoadDir(dir)
	assert.Error(t, err)
}
