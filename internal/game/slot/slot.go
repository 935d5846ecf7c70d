// Package slot owns one creature per save slot and transfers it between the
// ambient growth engine and the battle engine.
package slot

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/biome/internal/game/area"
	"github.com/cory-johannsen/biome/internal/game/battle"
	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/enemy"
	"github.com/cory-johannsen/biome/internal/game/growth"
	"github.com/cory-johannsen/biome/internal/game/rank"
)

var (
	// ErrBattleActive is returned when an operation needs the slot to be out of battle.
	ErrBattleActive = errors.New("slot: battle in progress")
	// ErrNoBattle is returned by CloseBattle when no battle is open.
	ErrNoBattle = errors.New("slot: no battle in progress")
	// ErrSlotClosed is returned by StartBattle after the manager released the slot.
	ErrSlotClosed = errors.New("slot: closed")
)

// DefeatHPPercent is the share of max HP a creature keeps after losing a battle.
const DefeatHPPercent = 20

// Slot is the context object for one save slot. While a battle is open the
// battle session owns the creature's combat state and ambient growth is
// suspended. All methods are safe for concurrent use.
type Slot struct {
	mu        sync.Mutex
	id        string
	creature  *creature.Creature
	env       area.Sample
	items     []enemy.Grant
	acc       *growth.Accumulator
	evaluator *rank.Evaluator
	engine    *growth.Engine
	logger    *zap.Logger

	session  *battle.Session
	lastRank *rank.Rank
	released bool
}

func newSlot(rec *Record, evaluator *rank.Evaluator, engine *growth.Engine, tickLength time.Duration, logger *zap.Logger) *Slot {
	c := rec.Creature.Clone()
	c.Repair()
	return &Slot{
		id:        rec.SlotID,
		creature:  c,
		env:       rec.Environment,
		items:     append([]enemy.Grant(nil), rec.Items...),
		acc:       growth.NewAccumulator(tickLength),
		evaluator: evaluator,
		engine:    engine,
		logger:    logger.With(zap.String("slot", rec.SlotID)),
	}
}

// ID returns the slot id.
func (s *Slot) ID() string { return s.id }

// Creature returns a copy of the slot's creature.
func (s *Slot) Creature() *creature.Creature {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creature.Clone()
}

// Environment returns the slot's current environment sample.
func (s *Slot) Environment() area.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env
}

// SetEnvironment replaces the environment sample used for ambient growth.
func (s *Slot) SetEnvironment(env area.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.env = env
}

// Rank evaluates the current environment for the slot's creature at now.
func (s *Slot) Rank(now time.Time) rank.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluator.Evaluate(s.creature, s.env, now)
}

// Advance feeds elapsed time into the ambient growth accumulator, applying
// one tick per boundary crossed under the rank evaluated at now.
//
// Postcondition: Returns no deltas and accrues no time while a battle is open.
func (s *Slot) Advance(elapsed time.Duration, now time.Time) []growth.Delta {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return nil
	}
	res := s.evaluator.Evaluate(s.creature, s.env, now)
	if s.lastRank == nil || *s.lastRank != res.Rank {
		s.logger.Info("rank changed",
			zap.String("rank", res.Rank.String()),
			zap.String("area", res.AreaID),
			zap.Bool("light_met", res.LightRequirementMet),
		)
		r := res.Rank
		s.lastRank = &r
	}
	return s.engine.Accumulate(s.creature, s.acc, res, elapsed)
}

// Preview returns the delta the next tick would apply at now, without
// changing the creature.
func (s *Slot) Preview(now time.Time) growth.Delta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return growth.PreviewTick(s.creature, s.evaluator.Evaluate(s.creature, s.env, now))
}

// StartBattle opens a battle against enemyID and suspends ambient growth.
//
// Postcondition: Returns ErrBattleActive if a battle is already open and
// ErrSlotClosed once the manager has closed the slot; any error from ctl
// leaves the slot unchanged.
func (s *Slot) StartBattle(ctl *battle.Controller, enemyID string) (*battle.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil, ErrSlotClosed
	}
	if s.session != nil {
		return nil, ErrBattleActive
	}
	sess, err := ctl.Start(s.creature, enemyID)
	if err != nil {
		return nil, fmt.Errorf("starting battle in slot %q: %w", s.id, err)
	}
	s.session = sess
	s.acc.Suspend()
	return sess, nil
}

// release marks the slot closed so no battle can start, and returns its
// record. It fails with ErrBattleActive while a battle is open.
func (s *Slot) release(now time.Time) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return nil, ErrBattleActive
	}
	s.released = true
	return s.recordLocked(now), nil
}

// reopen undoes release.
func (s *Slot) reopen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = false
}

// Battle returns the open battle session, or nil.
func (s *Slot) Battle() *battle.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// InBattle reports whether a battle is open.
func (s *Slot) InBattle() bool { return s.Battle() != nil }

// CloseBattle closes the open battle, writes the creature's HP back, keeps
// any rewards and resumes ambient growth. A loss leaves the creature at DefeatHPPercent of
// its max HP and resets the environment to area.NeutralSample.
//
// Postcondition: Returns ErrNoBattle when no battle is open, or
// battle.ErrSessionActive, leaving the battle open, before its result.
func (s *Slot) CloseBattle() (*battle.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, ErrNoBattle
	}
	res, err := s.session.Close()
	if err != nil {
		return nil, err
	}

	s.creature.CurrentHP = res.PlayerHP
	if res.Outcome == battle.Lose {
		s.creature.CurrentHP = s.creature.MaxHP() * DefeatHPPercent / 100
		s.env = area.NeutralSample
	}
	s.creature.ClampHP()
	s.items = append(s.items, res.Rewards...)
	s.session = nil
	s.acc.Resume()

	s.logger.Info("battle closed",
		zap.String("enemy", res.EnemyID),
		zap.String("outcome", res.Outcome.String()),
		zap.Int("current_hp", s.creature.CurrentHP),
	)
	return res, nil
}

// Items returns every reward the slot has been granted, oldest first.
func (s *Slot) Items() []enemy.Grant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]enemy.Grant(nil), s.items...)
}

// Record returns a persistable snapshot of the slot.
func (s *Slot) Record(now time.Time) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordLocked(now)
}

func (s *Slot) recordLocked(now time.Time) *Record {
	return &Record{
		SlotID:      s.id,
		Creature:    s.creature.Clone(),
		Environment: s.env,
		Items:       append([]enemy.Grant(nil), s.items...),
		UpdatedAt:   now,
	}
}
