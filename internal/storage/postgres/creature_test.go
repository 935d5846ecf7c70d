package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/biome/internal/content"
	"github.com/cory-johannsen/biome/internal/game/area"
	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/element"
	"github.com/cory-johannsen/biome/internal/game/enemy"
	"github.com/cory-johannsen/biome/internal/game/slot"
	"github.com/cory-johannsen/biome/internal/storage/postgres"
	"github.com/cory-johannsen/biome/internal/testutil"
)

func uniqueSlotID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func makeRecord(t *testing.T, id string) *slot.Record {
	t.Helper()
	sp, ok := content.MustDefault().Species.Get("nimbusel")
	require.True(t, ok)
	c := creature.New(sp)
	c.Grown[element.Storm] = 120
	c.Counters[element.Storm] = 2
	c.GrownHP = 90
	c.CurrentHP = 300
	return &slot.Record{
		SlotID:      id,
		Creature:    c,
		Environment: area.Sample{Temperature: -5, Humidity: 100, LightOrDepth: 50},
		UpdatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestCreatureRepository(t *testing.T) {
	pool := testutil.NewMigratedPool(t)
	repo := postgres.NewCreatureRepository(pool)
	ctx := context.Background()

	t.Run("missing slot", func(t *testing.T) {
		_, err := repo.Load(ctx, "nope")
		assert.True(t, errors.Is(err, postgres.ErrCreatureNotFound))
		assert.True(t, errors.Is(err, slot.ErrRecordNotFound))
	})

	t.Run("round trip", func(t *testing.T) {
		rec := makeRecord(t, uniqueSlotID("rt"))
		require.NoError(t, repo.Save(ctx, rec))

		got, err := repo.Load(ctx, rec.SlotID)
		require.NoError(t, err)
		assert.Equal(t, rec.Creature, got.Creature)
		assert.Equal(t, rec.Environment, got.Environment)
		assert.WithinDuration(t, rec.UpdatedAt, got.UpdatedAt, time.Millisecond)
		assert.Empty(t, got.Items)
	})

	t.Run("upsert keeps items", func(t *testing.T) {
		rec := makeRecord(t, uniqueSlotID("up"))
		rec.Items = []enemy.Grant{{ItemID: "herb", InstanceID: uniqueSlotID("i1")}}
		require.NoError(t, repo.Save(ctx, rec))

		rec.Creature.CurrentHP = 10
		rec.Items = append(rec.Items, enemy.Grant{ItemID: "gem", InstanceID: uniqueSlotID("i2")})
		require.NoError(t, repo.Save(ctx, rec))

		got, err := repo.Load(ctx, rec.SlotID)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Creature.CurrentHP)
		assert.Equal(t, rec.Items, got.Items)
	})

	t.Run("list and delete", func(t *testing.T) {
		rec := makeRecord(t, uniqueSlotID("del"))
		require.NoError(t, repo.Save(ctx, rec))
		ids, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, rec.SlotID)

		require.NoError(t, repo.Delete(ctx, rec.SlotID))
		assert.ErrorIs(t, repo.Delete(ctx, rec.SlotID), postgres.ErrCreatureNotFound)
	})

	t.Run("manager integration", func(t *testing.T) {
		m := slot.NewManager(repo, content.MustDefault().Areas, time.Minute, nil)
		sp, _ := content.MustDefault().Species.Get("emberling")
		id := uniqueSlotID("mgr")
		s, err := m.Create(ctx, id, sp)
		require.NoError(t, err)
		s.SetEnvironment(area.Sample{Temperature: 45, Humidity: 50, LightOrDepth: 100})
		s.Advance(2*time.Minute, time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
		require.NoError(t, m.Close(ctx, id))

		again, err := m.Open(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, s.Creature(), again.Creature())
	})
}
