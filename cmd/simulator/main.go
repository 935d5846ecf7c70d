// Package main runs one save slot through simulated time and, optionally,
// a battle against a catalog enemy.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/biome/internal/config"
	"github.com/cory-johannsen/biome/internal/content"
	"github.com/cory-johannsen/biome/internal/game/area"
	"github.com/cory-johannsen/biome/internal/game/battle"
	"github.com/cory-johannsen/biome/internal/game/dice"
	"github.com/cory-johannsen/biome/internal/game/growth"
	"github.com/cory-johannsen/biome/internal/game/slot"
	"github.com/cory-johannsen/biome/internal/observability"
	"github.com/cory-johannsen/biome/internal/simulation"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	slotID := flag.String("slot", "slot1", "save slot id")
	speciesID := flag.String("species", "emberling", "species for a new slot")
	temperature := flag.Float64("temperature", 0, "environment temperature")
	humidity := flag.Float64("humidity", 50, "environment humidity; 100 selects the sea")
	light := flag.Float64("light", 0, "environment light on land or depth at sea")
	duration := flag.Duration("duration", time.Hour, "simulated time to advance before any battle")
	realtime := flag.Bool("realtime", false, "advance on the wall clock instead of fast-forwarding")
	enemyID := flag.String("enemy", "", "enemy to battle after advancing; empty skips the battle")
	manual := flag.Bool("countdown", false, "let the selection countdown pick moves instead of the autopilot")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadContent(cfg.Simulation.ContentDir)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("areas", len(cat.Areas.All())),
		zap.Int("species", len(cat.Species.All())),
		zap.Int("enemies", len(cat.Enemies.All())),
	)

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStore()

	mgr := slot.NewManager(store, cat.Areas, cfg.Simulation.TickLength, logger)
	s, err := mgr.Open(ctx, *slotID)
	if errors.Is(err, slot.ErrSlotNotFound) {
		sp, ok := cat.Species.Get(*speciesID)
		if !ok {
			logger.Fatal("unknown species", unknownIDFields(*speciesID, cat.SpeciesIDs())...)
		}
		s, err = mgr.Create(ctx, *slotID, sp)
	}
	if err != nil {
		logger.Fatal("opening slot", zap.String("slot", *slotID), zap.Error(err))
	}
	s.SetEnvironment(area.Sample{Temperature: *temperature, Humidity: *humidity, LightOrDepth: *light})

	clock := simulation.NewSimClock(time.Now())
	ticker := simulation.NewTicker(cfg.Simulation.StepInterval, cfg.Simulation.Step, clock, logger)
	ticker.Register(s.ID(), s)
	ticker.SetObserver(func(id string, deltas []growth.Delta) {
		last := deltas[len(deltas)-1]
		fmt.Printf("[%s] %s  rank=%s ticks=%d hp=%d/%d\n",
			clock.Now().Format(time.Kitchen), id, last.Rank, len(deltas), last.CurrentHP, last.MaxHP)
	})

	if err := advance(ctx, ticker, cfg.Simulation, *duration, *realtime); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("advancing simulation", zap.Error(err))
	}

	if *enemyID != "" && ctx.Err() == nil {
		if err := fight(ctx, cfg, cat, s, *enemyID, !*manual, logger); err != nil {
			logger.Error("battle", zap.String("enemy", *enemyID), zap.Error(err))
		}
	}

	// Save on a fresh context so an interrupt still persists the slot.
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mgr.Close(saveCtx, s.ID()); err != nil {
		logger.Error("saving slot", zap.String("slot", s.ID()), zap.Error(err))
	}

	c := s.Creature()
	fmt.Printf("%s (%s) hp=%d/%d stats=%+v items=%d\n",
		c.Name, c.Attribute, c.CurrentHP, c.MaxHP(), c.Effective(), len(s.Items()))
	logger.Info("simulator finished", zap.Duration("elapsed", time.Since(start)))
}

func loadContent(dir string) (*content.Catalogs, error) {
	if dir == "" {
		return content.Default()
	}
	return content.LoadDir(dir)
}

// advance feeds total simulated time to the ticker. Fast-forward fires the
// ticker back to back; realtime fires it on the configured interval.
func advance(ctx context.Context, t *simulation.Ticker, cfg config.SimulationConfig, total time.Duration, realtime bool) error {
	fires := int(total / cfg.Step)
	if !realtime {
		for i := 0; i < fires; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			t.Fire()
		}
		return nil
	}
	runCtx, cancel := context.WithTimeout(ctx, time.Duration(fires)*cfg.StepInterval)
	defer cancel()
	err := t.Run(runCtx)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func fight(ctx context.Context, cfg config.Config, cat *content.Catalogs, s *slot.Slot, enemyID string, autopilot bool, logger *zap.Logger) error {
	src := dice.NewCryptoSource()
	if cfg.Simulation.Seed != 0 {
		src = dice.NewSeededSource(cfg.Simulation.Seed)
	}
	ctl := battle.NewController(cat.Skills, cat.Enemies, dice.NewLoggedRoller(src, logger), logger, cfg.Battle.SelectionTimeout)

	session, err := s.StartBattle(ctl, enemyID)
	if errors.Is(err, battle.ErrUnknownEnemy) {
		if hint, ok := content.Closest(enemyID, cat.EnemyIDs()); ok {
			return fmt.Errorf("%w (did you mean %q?)", err, hint)
		}
	}
	if err != nil {
		return err
	}
	runner := battle.NewRunner(session, battle.Pacing{
		Intro:         cfg.Battle.IntroDelay,
		Reveal:        cfg.Battle.RevealDelay,
		Resolve:       cfg.Battle.ResolveDelay,
		CountdownUnit: cfg.Battle.CountdownUnit,
	}, logger)

	cmds := make(chan battle.Command, 2)
	out := make(chan battle.Event, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range out {
			fmt.Println(ev)
			if autopilot && ev.Kind == battle.EventSelectionStart {
				cmds <- battle.Command{Kind: battle.CommandSelect, Indices: autoPicks(session.Snapshot())}
				cmds <- battle.Command{Kind: battle.CommandConfirm}
			}
		}
	}()

	res, runErr := runner.Run(ctx, cmds, out)
	close(out)
	<-done
	if runErr != nil {
		return runErr
	}
	fmt.Printf("battle %s: %s after %d rounds, hp %d vs %d, rewards %d\n",
		res.EnemyID, res.Outcome, res.Rounds, res.PlayerHP, res.EnemyHP, len(res.Rewards))
	_, err = s.CloseBattle()
	return err
}

// unknownIDFields describes an unrecognised id and the nearest known one.
func unknownIDFields(id string, known []string) []zap.Field {
	fields := []zap.Field{zap.String("id", id)}
	if hint, ok := content.Closest(id, known); ok {
		fields = append(fields, zap.String("did_you_mean", hint))
	}
	return fields
}

// autoPicks returns the first unspent move slots for the open round.
func autoPicks(snap battle.Snapshot) []int {
	spent := make(map[int]bool, len(snap.Spent))
	for _, i := range snap.Spent {
		spent[i] = true
	}
	picks := make([]int, 0, battle.MovesPerRound)
	for i := range snap.Player.Moves {
		if len(picks) == battle.MovesPerRound {
			break
		}
		if !spent[i] {
			picks = append(picks, i)
		}
	}
	return picks
}
