// Package skill provides the static catalog of battle moves.
package skill

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/biome/internal/game/element"
)

// Category distinguishes damaging moves from healing moves.
type Category string

const (
	CategoryAttack Category = "attack"
	CategoryHeal   Category = "heal"
)

// Skill is a single battle move.
type Skill struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	Attribute element.Attribute `yaml:"attribute"`
	Category  Category          `yaml:"category"`
	// Power is a percentage applied to the actor's stat, e.g. 90 = 0.9×.
	Power int `yaml:"power"`
}

// IsHeal reports whether the skill restores HP instead of dealing damage.
func (s *Skill) IsHeal() bool { return s.Category == CategoryHeal }

// IsCounter reports whether the skill braces the user against direct
// elemental attacks.
func (s *Skill) IsCounter() bool {
	return s.Category == CategoryAttack && s.Attribute == element.Tornado
}

// IsDirectElemental reports whether the skill can be reflected by a counter.
func (s *Skill) IsDirectElemental() bool {
	return s.Category == CategoryAttack && s.Attribute == element.Volcano
}

// Validate checks that the skill satisfies its invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Attribute is
// known, Category is attack or heal, and Power >= 0.
func (s *Skill) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("skill: id must not be empty")
	}
	if s.Name == "" {
		return fmt.Errorf("skill %q: name must not be empty", s.ID)
	}
	if s.Attribute == "" {
		s.Attribute = element.Neutral
	}
	if !s.Attribute.IsValid() {
		return fmt.Errorf("skill %q: unknown attribute %q", s.ID, s.Attribute)
	}
	if s.Category != CategoryAttack && s.Category != CategoryHeal {
		return fmt.Errorf("skill %q: category must be attack or heal, got %q", s.ID, s.Category)
	}
	if s.Power < 0 {
		return fmt.Errorf("skill %q: power must be >= 0, got %d", s.ID, s.Power)
	}
	return nil
}

// Catalog holds all known skills keyed by ID plus the default basic move.
type Catalog struct {
	defaultID string
	skills    map[string]*Skill
}

// NewCatalog builds a Catalog from skills with defaultID as the fallback move.
//
// Precondition: defaultID must name one of skills.
// Postcondition: Returns a Catalog or an error on invalid or duplicate skills.
func NewCatalog(defaultID string, skills []*Skill) (*Catalog, error) {
	c := &Catalog{defaultID: defaultID, skills: make(map[string]*Skill, len(skills))}
	for _, s := range skills {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.skills[s.ID]; exists {
			return nil, fmt.Errorf("skill: ID %q already registered", s.ID)
		}
		c.skills[s.ID] = s
	}
	if _, ok := c.skills[defaultID]; !ok {
		return nil, fmt.Errorf("skill: default move %q not defined", defaultID)
	}
	return c, nil
}

// Get returns the skill for id and whether it was found.
func (c *Catalog) Get(id string) (*Skill, bool) {
	s, ok := c.skills[id]
	return s, ok
}

// Default returns the designated default basic move.
//
// Postcondition: Returns a non-nil Skill.
func (c *Catalog) Default() *Skill { return c.skills[c.defaultID] }

// Resolve returns the skill for id, falling back to the default basic move
// for empty or unknown ids.
//
// Postcondition: Returns a non-nil Skill.
func (c *Catalog) Resolve(id string) *Skill {
	if s, ok := c.skills[id]; ok {
		return s
	}
	return c.Default()
}

// All returns every skill sorted by id.
func (c *Catalog) All() []*Skill {
	out := make([]*Skill, 0, len(c.skills))
	for _, s := range c.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type yamlSkillFile struct {
	Default string   `yaml:"default"`
	Skills  []*Skill `yaml:"skills"`
}

// LoadCatalogFromBytes parses a skill catalog from YAML bytes.
//
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFromBytes(data []byte) (*Catalog, error) {
	var f yamlSkillFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing skill YAML: %w", err)
	}
	return NewCatalog(f.Default, f.Skills)
}

// LoadCatalogFromFile reads a skill catalog YAML file.
//
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading skill catalog %s: %w", path, err)
	}
	return LoadCatalogFromBytes(data)
}
