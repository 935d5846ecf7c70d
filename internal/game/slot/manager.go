package slot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/biome/internal/game/area"
	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/growth"
	"github.com/cory-johannsen/biome/internal/game/rank"
)

// ErrSlotNotFound is returned when a slot is neither open nor persisted.
var ErrSlotNotFound = errors.New("slot: not found")

// Manager tracks open save slots and persists them through a Store.
// All methods are safe for concurrent use.
type Manager struct {
	mu         sync.RWMutex
	slots      map[string]*Slot
	store      Store
	evaluator  *rank.Evaluator
	engine     *growth.Engine
	tickLength time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: store and areas must be non-nil. A nil logger is replaced by
// a no-op logger; a non-positive tickLength by growth.DefaultTickLength.
func NewManager(store Store, areas *area.Catalog, tickLength time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		slots:      make(map[string]*Slot),
		store:      store,
		evaluator:  rank.NewEvaluator(areas),
		engine:     growth.NewEngine(logger),
		tickLength: tickLength,
		now:        time.Now,
		logger:     logger,
	}
}

// Create opens a new slot holding a fresh creature of species sp in the
// neutral environment and persists it.
//
// Postcondition: Returns an error if id is already open.
func (m *Manager) Create(ctx context.Context, id string, sp *creature.Species) (*Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.slots[id]; exists {
		return nil, fmt.Errorf("slot %q already open", id)
	}
	rec := &Record{
		SlotID:      id,
		Creature:    creature.New(sp),
		Environment: area.NeutralSample,
		UpdatedAt:   m.now(),
	}
	if err := m.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("saving new slot %q: %w", id, err)
	}
	s := newSlot(rec, m.evaluator, m.engine, m.tickLength, m.logger)
	m.slots[id] = s
	m.logger.Info("slot created", zap.String("slot", id), zap.String("species", sp.ID))
	return s, nil
}

// Open returns the open slot id, loading it from the store if necessary.
//
// Postcondition: Returns an error wrapping ErrSlotNotFound when the store has
// no record for id.
func (m *Manager) Open(ctx context.Context, id string) (*Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.slots[id]; ok {
		return s, nil
	}
	rec, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrSlotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading slot %q: %w", id, err)
	}
	if rec.Creature == nil {
		return nil, fmt.Errorf("loading slot %q: record has no creature", id)
	}
	s := newSlot(rec, m.evaluator, m.engine, m.tickLength, m.logger)
	m.slots[id] = s
	m.logger.Info("slot opened", zap.String("slot", id))
	return s, nil
}

// Get returns the open slot id.
func (m *Manager) Get(id string) (*Slot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.slots[id]
	return s, ok
}

// All returns every open slot sorted by id.
func (m *Manager) All() []*Slot {
	m.mu.RLock()
	out := make([]*Slot, 0, len(m.slots))
	for _, s := range m.slots {
		out = append(out, s)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Save persists the open slot id.
func (m *Manager) Save(ctx context.Context, id string) error {
	s, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSlotNotFound, id)
	}
	if err := m.store.Save(ctx, s.Record(m.now())); err != nil {
		return fmt.Errorf("saving slot %q: %w", id, err)
	}
	return nil
}

// SaveAll persists every open slot, returning the first error.
func (m *Manager) SaveAll(ctx context.Context) error {
	for _, s := range m.All() {
		if err := m.Save(ctx, s.ID()); err != nil {
			return err
		}
	}
	return nil
}

// Close persists and releases the slot id. The slot is marked closed before
// saving, so a battle cannot open between the check and the removal.
//
// Postcondition: Returns ErrBattleActive, leaving the slot open, while a
// battle is open. On a save error the slot stays open and usable.
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSlotNotFound, id)
	}
	rec, err := s.release(m.now())
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, rec); err != nil {
		s.reopen()
		return fmt.Errorf("saving slot %q: %w", id, err)
	}
	delete(m.slots, id)
	m.logger.Info("slot closed", zap.String("slot", id))
	return nil
}
