package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/biome/internal/content"
	"github.com/cory-johannsen/biome/internal/game/area"
	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/element"
	"github.com/cory-johannsen/biome/internal/game/enemy"
	"github.com/cory-johannsen/biome/internal/game/slot"
	"github.com/cory-johannsen/biome/internal/storage/sqlite"
)

func openRepo(t *testing.T) *sqlite.CreatureRepository {
	t.Helper()
	repo, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "biome.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func record(t *testing.T, id, species string) *slot.Record {
	t.Helper()
	sp, ok := content.MustDefault().Species.Get(species)
	require.True(t, ok)
	c := creature.New(sp)
	c.Grown[element.Earthquake] = 240
	c.Counters[element.Earthquake] = 1
	c.GrownHP = 55
	c.CurrentHP = 321
	return &slot.Record{
		SlotID:      id,
		Creature:    c,
		Environment: area.Sample{Temperature: 25, Humidity: 5, LightOrDepth: 100},
		UpdatedAt:   time.Date(2026, 3, 1, 9, 30, 0, 123, time.UTC),
	}
}

func TestLoad_Missing(t *testing.T) {
	repo := openRepo(t)
	_, err := repo.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, sqlite.ErrCreatureNotFound)
	assert.ErrorIs(t, err, slot.ErrRecordNotFound)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	rec := record(t, "alpha", "terrapod")
	rec.Items = []enemy.Grant{{ItemID: "herb", InstanceID: "i-1"}}
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Load(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, rec.Creature, got.Creature)
	assert.Equal(t, rec.Environment, got.Environment)
	assert.True(t, rec.UpdatedAt.Equal(got.UpdatedAt))
	assert.Equal(t, rec.Items, got.Items)
}

func TestSave_UpsertAppendsItems(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	rec := record(t, "beta", "emberling")
	rec.Items = []enemy.Grant{{ItemID: "herb", InstanceID: "i-1"}}
	require.NoError(t, repo.Save(ctx, rec))

	rec.Creature.CurrentHP = 0
	rec.Items = append(rec.Items, enemy.Grant{ItemID: "gem", InstanceID: "i-2"})
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Load(ctx, "beta")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Creature.CurrentHP)
	assert.Equal(t, rec.Items, got.Items)
}

func TestListAndDelete(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, record(t, "b", "nimbusel")))
	require.NoError(t, repo.Save(ctx, record(t, "a", "zephyrkin")))

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, repo.Delete(ctx, "a"))
	assert.ErrorIs(t, repo.Delete(ctx, "a"), sqlite.ErrCreatureNotFound)
	ids, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}

func TestReopen_PersistsAcrossHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "biome.db")
	ctx := context.Background()
	repo, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	rec := record(t, "gamma", "leviathan")
	require.NoError(t, repo.Save(ctx, rec))
	require.NoError(t, repo.Close())

	repo, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer repo.Close()
	got, err := repo.Load(ctx, "gamma")
	require.NoError(t, err)
	assert.Equal(t, rec.Creature, got.Creature)
}

func TestManager_UsesRepository(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	cat := content.MustDefault()
	m := slot.NewManager(repo, cat.Areas, time.Minute, nil)
	sp, _ := cat.Species.Get("emberling")

	s, err := m.Create(ctx, "mgr", sp)
	require.NoError(t, err)
	s.SetEnvironment(area.Sample{Temperature: 45, Humidity: 50, LightOrDepth: 100})
	s.Advance(3*time.Minute, time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	want := s.Creature()
	require.NoError(t, m.Close(ctx, "mgr"))

	again, err := m.Open(ctx, "mgr")
	require.NoError(t, err)
	assert.Equal(t, want, again.Creature())
}

func TestProperty_CurrentHPRoundTrips(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	rapid.Check(t, func(rt *rapid.T) {
		rec := record(t, "prop", "terrapod")
		rec.Creature.CurrentHP = rapid.IntRange(0, rec.Creature.MaxHP()).Draw(rt, "hp")
		rec.Environment.Temperature = rapid.Float64Range(-50, 50).Draw(rt, "temp")
		require.NoError(rt, repo.Save(ctx, rec))
		got, err := repo.Load(ctx, "prop")
		require.NoError(rt, err)
		assert.Equal(rt, rec.Creature.CurrentHP, got.Creature.CurrentHP)
		assert.Equal(rt, rec.Environment.Temperature, got.Environment.Temperature)
	})
}
