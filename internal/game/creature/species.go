package creature

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/biome/internal/game/area"
	"github.com/cory-johannsen/biome/internal/game/element"
)

// Coordinate is the YAML form of an optimal environment reading.
type Coordinate struct {
	Temperature  float64 `yaml:"temperature"`
	Humidity     float64 `yaml:"humidity"`
	LightOrDepth float64 `yaml:"light_or_depth"`
}

// Sample converts the coordinate to an area.Sample.
func (c Coordinate) Sample() area.Sample {
	return area.Sample{Temperature: c.Temperature, Humidity: c.Humidity, LightOrDepth: c.LightOrDepth}
}

// Species defines a reusable creature archetype loaded from YAML.
type Species struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	Attribute element.Attribute `yaml:"attribute"`
	BaseStats element.Stats     `yaml:"base_stats"`
	BaseHP    int               `yaml:"base_hp"`
	// Caps overrides the default growth caps; zero fields use the defaults.
	Caps     Caps              `yaml:"caps"`
	Optimal  Coordinate        `yaml:"optimal"`
	BestArea string            `yaml:"best_area"`
	Weak     element.Attribute `yaml:"weak"`
	Moves    []string          `yaml:"moves"`
}

// Validate checks that the species satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, attributes are
// known, stats are non-negative, BaseHP >= 1, and Moves has at most MaxMoves entries.
func (s *Species) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("species: id must not be empty")
	}
	if s.Name == "" {
		return fmt.Errorf("species %q: name must not be empty", s.ID)
	}
	if s.Attribute == "" {
		s.Attribute = element.Neutral
	}
	if !s.Attribute.IsValid() {
		return fmt.Errorf("species %q: unknown attribute %q", s.ID, s.Attribute)
	}
	if s.Weak != "" && !s.Weak.IsValid() {
		return fmt.Errorf("species %q: unknown weak attribute %q", s.ID, s.Weak)
	}
	if err := s.BaseStats.Validate(); err != nil {
		return fmt.Errorf("species %q: %w", s.ID, err)
	}
	if s.BaseHP < 1 {
		return fmt.Errorf("species %q: base_hp must be >= 1", s.ID)
	}
	if s.Caps.Element < 0 || s.Caps.HP < 0 {
		return fmt.Errorf("species %q: caps must be >= 0", s.ID)
	}
	if len(s.Moves) > MaxMoves {
		return fmt.Errorf("species %q: at most %d moves allowed, got %d", s.ID, MaxMoves, len(s.Moves))
	}
	return nil
}

// New creates a fresh creature of species s at full HP.
//
// Precondition: s must have passed Validate.
// Postcondition: The returned Creature satisfies its invariant with zero growth.
func New(s *Species) *Creature {
	c := &Creature{
		SpeciesID:     s.ID,
		Name:          s.Name,
		Attribute:     s.Attribute,
		Base:          s.BaseStats,
		BaseHP:        s.BaseHP,
		CurrentHP:     s.BaseHP,
		Caps:          s.Caps.withDefaults(),
		Optimal:       s.Optimal.Sample(),
		BestAreaID:    s.BestArea,
		WeakAttribute: s.Weak,
		Moves:         append([]string(nil), s.Moves...),
	}
	c.Repair()
	return c
}

// SpeciesCatalog holds all known species keyed by ID.
type SpeciesCatalog struct {
	species map[string]*Species
}

// NewSpeciesCatalog returns an empty SpeciesCatalog.
func NewSpeciesCatalog() *SpeciesCatalog {
	return &SpeciesCatalog{species: make(map[string]*Species)}
}

// Register validates s and adds it to the catalog.
//
// Postcondition: Get(s.ID) returns s; returns error if s is invalid or s.ID already registered.
func (c *SpeciesCatalog) Register(s *Species) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, exists := c.species[s.ID]; exists {
		return fmt.Errorf("species: ID %q already registered", s.ID)
	}
	c.species[s.ID] = s
	return nil
}

// Get returns the species for id and whether it was found.
func (c *SpeciesCatalog) Get(id string) (*Species, bool) {
	s, ok := c.species[id]
	return s, ok
}

// All returns every species sorted by id.
func (c *SpeciesCatalog) All() []*Species {
	out := make([]*Species, 0, len(c.species))
	for _, s := range c.species {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type yamlSpeciesFile struct {
	Species []*Species `yaml:"species"`
}

// LoadSpeciesFromBytes parses a species catalog from YAML bytes.
//
// Postcondition: Returns a validated SpeciesCatalog or a non-nil error.
func LoadSpeciesFromBytes(data []byte) (*SpeciesCatalog, error) {
	var f yamlSpeciesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing species YAML: %w", err)
	}
	cat := NewSpeciesCatalog()
	for _, s := range f.Species {
		if err := cat.Register(s); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// LoadSpeciesFromFile reads a species catalog YAML file.
func LoadSpeciesFromFile(path string) (*SpeciesCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading species catalog %s: %w", path, err)
	}
	return LoadSpeciesFromBytes(data)
}
