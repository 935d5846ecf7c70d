// Package simulation drives ambient time forward for every open save slot.
package simulation

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/biome/internal/game/growth"
)

// Advancer consumes elapsed simulated time. *slot.Slot implements it.
type Advancer interface {
	Advance(elapsed time.Duration, now time.Time) []growth.Delta
}

// Observer is called after each advancer step with the deltas it produced.
type Observer func(id string, deltas []growth.Delta)

// Ticker advances every registered Advancer once per interval. Advancers are
// stepped sequentially in id order.
//
// Invariant: each Advancer is stepped at most once per fire.
type Ticker struct {
	interval time.Duration
	step     time.Duration
	clock    Clock
	logger   *zap.Logger

	mu        sync.Mutex
	advancers map[string]Advancer
	observer  Observer
}

// NewTicker returns a Ticker that fires every interval and feeds step of
// simulated time to each advancer. A nil clock reads the wall clock; a nil
// logger is replaced by a no-op logger.
//
// Precondition: interval > 0 and step > 0.
func NewTicker(interval, step time.Duration, clock Clock, logger *zap.Logger) *Ticker {
	if interval <= 0 || step <= 0 {
		panic("simulation.NewTicker: interval and step must be > 0")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ticker{
		interval:  interval,
		step:      step,
		clock:     clock,
		logger:    logger,
		advancers: make(map[string]Advancer),
	}
}

// Register adds a under id, replacing any existing advancer.
func (t *Ticker) Register(id string, a Advancer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advancers[id] = a
}

// Unregister removes the advancer for id.
func (t *Ticker) Unregister(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.advancers, id)
}

// SetObserver installs fn to receive each advancer's deltas. nil removes it.
func (t *Ticker) SetObserver(fn Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observer = fn
}

// Fire performs one step: the clock moves forward by step if it is a
// Stepper, then every advancer receives step at the resulting time.
//
// Postcondition: Returns the number of ticks applied across all advancers.
func (t *Ticker) Fire() int {
	now := t.clock.Now()
	if s, ok := t.clock.(Stepper); ok {
		now = s.Advance(t.step)
	}

	t.mu.Lock()
	ids := make([]string, 0, len(t.advancers))
	for id := range t.advancers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	advancers := make([]Advancer, len(ids))
	for i, id := range ids {
		advancers[i] = t.advancers[id]
	}
	observer := t.observer
	t.mu.Unlock()

	total := 0
	for i, a := range advancers {
		deltas := a.Advance(t.step, now)
		total += len(deltas)
		if observer != nil && len(deltas) > 0 {
			observer(ids[i], deltas)
		}
	}
	if total > 0 {
		t.logger.Debug("simulation step",
			zap.Time("now", now),
			zap.Int("advancers", len(advancers)),
			zap.Int("ticks", total),
		)
	}
	return total
}

// Run fires once per interval until ctx is cancelled.
//
// Postcondition: Returns ctx.Err().
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.Fire()
		}
	}
}

// Start runs the ticker in a new goroutine until ctx is cancelled.
func (t *Ticker) Start(ctx context.Context) {
	go func() { _ = t.Run(ctx) }()
}
