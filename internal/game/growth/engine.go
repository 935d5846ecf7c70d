package growth

import (
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/rank"
)

// Engine applies accumulated ticks to creatures and logs each delta.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an Engine. A nil logger is replaced by a no-op logger.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Accumulate advances acc by elapsed and applies one tick under res for every
// tick boundary crossed.
//
// Precondition: c and acc must be non-nil.
// Postcondition: Returns the applied deltas in order; empty when no boundary
// was crossed or acc is suspended.
func (e *Engine) Accumulate(c *creature.Creature, acc *Accumulator, res rank.Result, elapsed time.Duration) []Delta {
	n := acc.Advance(elapsed)
	if n == 0 {
		return nil
	}
	out := make([]Delta, 0, n)
	for i := 0; i < n; i++ {
		d := ApplyTick(c, res)
		e.logger.Debug("growth tick",
			zap.String("species", c.SpeciesID),
			zap.String("rank", d.Rank.String()),
			zap.String("area", res.AreaID),
			zap.Int("healed", d.Healed),
			zap.Int("hp_growth", d.HPGrowth),
			zap.Int("element_growth", d.ElementGrowth),
			zap.Int("damage", d.Damage),
			zap.Int("current_hp", d.CurrentHP),
			zap.Int("max_hp", d.MaxHP),
		)
		out = append(out, d)
	}
	return out
}
