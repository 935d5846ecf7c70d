// Package enemy provides scripted opponent definitions loaded from YAML.
package enemy

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/biome/internal/game/element"
)

// MoveSlots is the fixed length of every enemy move list.
const MoveSlots = 15

// Enemy defines a scripted opponent.
type Enemy struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	Attribute element.Attribute `yaml:"attribute"`
	BaseStats element.Stats     `yaml:"base_stats"`
	MaxHP     int               `yaml:"max_hp"`
	// Moves holds exactly MoveSlots skill ids; unknown ids resolve to the
	// default basic move at battle time.
	Moves   []string    `yaml:"moves"`
	Rewards RewardTable `yaml:"rewards"`
}

// Validate checks that the enemy satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Attribute is
// known, stats are non-negative, MaxHP >= 1, Moves has exactly MoveSlots
// entries, and the reward table is valid.
func (e *Enemy) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("enemy: id must not be empty")
	}
	if e.Name == "" {
		return fmt.Errorf("enemy %q: name must not be empty", e.ID)
	}
	if e.Attribute == "" {
		e.Attribute = element.Neutral
	}
	if !e.Attribute.IsValid() {
		return fmt.Errorf("enemy %q: unknown attribute %q", e.ID, e.Attribute)
	}
	if err := e.BaseStats.Validate(); err != nil {
		return fmt.Errorf("enemy %q: %w", e.ID, err)
	}
	if e.MaxHP < 1 {
		return fmt.Errorf("enemy %q: max_hp must be >= 1", e.ID)
	}
	if len(e.Moves) != MoveSlots {
		return fmt.Errorf("enemy %q: moves must have exactly %d slots, got %d", e.ID, MoveSlots, len(e.Moves))
	}
	if err := e.Rewards.Validate(); err != nil {
		return fmt.Errorf("enemy %q: %w", e.ID, err)
	}
	return nil
}

// Catalog holds all known enemies keyed by ID.
type Catalog struct {
	enemies map[string]*Enemy
}

// NewCatalog returns an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{enemies: make(map[string]*Enemy)}
}

// Register validates e and adds it to the catalog.
//
// Postcondition: Get(e.ID) returns e; returns error if e is invalid or e.ID already registered.
func (c *Catalog) Register(e *Enemy) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, exists := c.enemies[e.ID]; exists {
		return fmt.Errorf("enemy: ID %q already registered", e.ID)
	}
	c.enemies[e.ID] = e
	return nil
}

// Get returns the enemy for id and whether it was found.
func (c *Catalog) Get(id string) (*Enemy, bool) {
	e, ok := c.enemies[id]
	return e, ok
}

// All returns every enemy sorted by id.
func (c *Catalog) All() []*Enemy {
	out := make([]*Enemy, 0, len(c.enemies))
	for _, e := range c.enemies {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type yamlEnemyFile struct {
	Enemies []*Enemy `yaml:"enemies"`
}

// LoadCatalogFromBytes parses an enemy catalog from YAML bytes.
//
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFromBytes(data []byte) (*Catalog, error) {
	cat := NewCatalog()
	if err := cat.loadBytes(data); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) loadBytes(data []byte) error {
	var f yamlEnemyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing enemy YAML: %w", err)
	}
	for _, e := range f.Enemies {
		if err := c.Register(e); err != nil {
			return err
		}
	}
	return nil
}

// LoadCatalogFromDir reads all *.yaml files in dir into one Catalog.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all enemies or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadCatalogFromDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading enemy dir %q: %w", dir, err)
	}
	cat := NewCatalog()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		if err := cat.loadBytes(data); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
	}
	return cat, nil
}
