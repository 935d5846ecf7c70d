package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/biome/internal/config"
	"github.com/cory-johannsen/biome/internal/content"
	"github.com/cory-johannsen/biome/internal/game/area"
	"github.com/cory-johannsen/biome/internal/game/battle"
	"github.com/cory-johannsen/biome/internal/game/slot"
	"github.com/cory-johannsen/biome/internal/simulation"
)

func TestAutoPicks_SkipsSpent(t *testing.T) {
	snap := battle.Snapshot{
		Player: battle.SideView{Moves: make([]string, battle.MoveSlots)},
		Spent:  []int{0, 2, 3},
	}
	assert.Equal(t, []int{1, 4, 5}, autoPicks(snap))
}

func TestOpenStore_Drivers(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	store, release, err := openStore(ctx, config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}, logger)
	require.NoError(t, err)
	assert.IsType(t, &slot.MemoryStore{}, store)
	release()

	path := filepath.Join(t.TempDir(), "sim.db")
	store, release, err = openStore(ctx, config.Config{Storage: config.StorageConfig{Driver: config.DriverSQLite, SQLitePath: path}}, logger)
	require.NoError(t, err)
	assert.NotNil(t, store)
	release()

	_, _, err = openStore(ctx, config.Config{Storage: config.StorageConfig{Driver: "floppy"}}, logger)
	assert.Error(t, err)
}

func TestAdvance_FastForward(t *testing.T) {
	cat := content.MustDefault()
	mgr := slot.NewManager(slot.NewMemoryStore(), cat.Areas, time.Minute, nil)
	sp, _ := cat.Species.Get("emberling")
	s, err := mgr.Create(context.Background(), "ff", sp)
	require.NoError(t, err)
	s.SetEnvironment(area.Sample{Temperature: 45, Humidity: 50, LightOrDepth: 100})

	clock := simulation.NewSimClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	ticker := simulation.NewTicker(time.Second, time.Minute, clock, nil)
	ticker.Register(s.ID(), s)

	simCfg := config.SimulationConfig{StepInterval: time.Second, Step: time.Minute, TickLength: time.Minute}
	require.NoError(t, advance(context.Background(), ticker, simCfg, 5*time.Minute, false))
	assert.Equal(t, time.Date(2026, 1, 1, 12, 5, 0, 0, time.UTC), clock.Now())
	assert.Greater(t, s.Creature().GrownHP, 0)
}

func TestFight_AutopilotFinishes(t *testing.T) {
	cat := content.MustDefault()
	mgr := slot.NewManager(slot.NewMemoryStore(), cat.Areas, time.Minute, nil)
	sp, _ := cat.Species.Get("emberling")
	s, err := mgr.Create(context.Background(), "fight", sp)
	require.NoError(t, err)

	enemies := cat.Enemies.All()
	require.NotEmpty(t, enemies)
	cfg := config.Config{
		Simulation: config.SimulationConfig{Seed: 7},
		Battle:     config.BattleConfig{SelectionTimeout: 30},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, fight(ctx, cfg, cat, s, enemies[0].ID, true, zaptest.NewLogger(t)))
	assert.False(t, s.InBattle())

	err = fight(ctx, cfg, cat, s, enemies[0].ID+"x", true, zaptest.NewLogger(t))
	require.ErrorIs(t, err, battle.ErrUnknownEnemy)
	assert.Contains(t, err.Error(), "did you mean")
}

func TestUnknownIDFields(t *testing.T) {
	fields := unknownIDFields("emberlin", content.MustDefault().SpeciesIDs())
	require.Len(t, fields, 2)
	assert.Equal(t, "emberling", fields[1].String)
	assert.Len(t, unknownIDFields("zzzzzzzzzzzz", content.MustDefault().SpeciesIDs()), 1)
}
