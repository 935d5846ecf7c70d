package slot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cory-johannsen/biome/internal/game/area"
	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/enemy"
)

// ErrRecordNotFound is returned by a Store when no record exists for a slot.
var ErrRecordNotFound = errors.New("slot: record not found")

// Record is the persisted state of one save slot.
type Record struct {
	SlotID      string
	Creature    *creature.Creature
	Environment area.Sample
	// Items lists every reward granted to the slot, oldest first.
	Items     []enemy.Grant
	UpdatedAt time.Time
}

// Store persists slot records.
type Store interface {
	// Load returns the record for slotID, or an error wrapping
	// ErrRecordNotFound when none exists.
	Load(ctx context.Context, slotID string) (*Record, error)
	// Save inserts or replaces rec. Items already stored are kept.
	Save(ctx context.Context, rec *Record) error
}

// MemoryStore is an in-process Store. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, slotID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[slotID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return rec.clone(), nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.SlotID] = rec.clone()
	return nil
}

func (r *Record) clone() *Record {
	cp := *r
	if r.Creature != nil {
		cp.Creature = r.Creature.Clone()
	}
	cp.Items = append([]enemy.Grant(nil), r.Items...)
	return &cp
}
