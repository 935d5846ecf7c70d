// Package content bundles the default static catalogs and loads them, or an
// override directory with the same file names, into ready-to-use catalogs.
package content

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cory-johannsen/biome/internal/game/area"
	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/enemy"
	"github.com/cory-johannsen/biome/internal/game/skill"
)

// File names expected in an override directory.
const (
	AreasFile   = "areas.yaml"
	SkillsFile  = "skills.yaml"
	SpeciesFile = "species.yaml"
	EnemiesFile = "enemies.yaml"
)

//go:embed *.yaml
var embedded embed.FS

// Catalogs holds every static lookup table the engines read.
type Catalogs struct {
	Areas   *area.Catalog
	Skills  *skill.Catalog
	Species *creature.SpeciesCatalog
	Enemies *enemy.Catalog
}

// Validate cross-checks references between catalogs.
//
// Postcondition: Returns nil iff every species best_area names a known area.
// Unknown move ids are permitted; they resolve to the default basic move.
func (c *Catalogs) Validate() error {
	for _, sp := range c.Species.All() {
		if sp.BestArea == "" {
			continue
		}
		if _, ok := c.Areas.Get(sp.BestArea); !ok {
			return fmt.Errorf("species %q: best_area %q not in area catalog", sp.ID, sp.BestArea)
		}
	}
	return nil
}

// Default loads the embedded catalogs.
//
// Postcondition: Returns validated Catalogs or a non-nil error.
func Default() (*Catalogs, error) {
	return load(embedded.ReadFile)
}

// MustDefault is Default that panics on error. The embedded content is
// validated by this package's tests.
func MustDefault() *Catalogs {
	c, err := Default()
	if err != nil {
		panic("content: embedded catalogs invalid: " + err.Error())
	}
	return c
}

// LoadDir loads the four catalog files from dir.
//
// Precondition: dir must contain areas.yaml, skills.yaml, species.yaml and enemies.yaml.
// Postcondition: Returns validated Catalogs or a non-nil error.
func LoadDir(dir string) (*Catalogs, error) {
	return load(func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name))
	})
}

func load(read func(name string) ([]byte, error)) (*Catalogs, error) {
	data := make(map[string][]byte, 4)
	for _, name := range []string{AreasFile, SkillsFile, SpeciesFile, EnemiesFile} {
		b, err := read(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		data[name] = b
	}

	areas, err := area.LoadCatalogFromBytes(data[AreasFile])
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", AreasFile, err)
	}
	skills, err := skill.LoadCatalogFromBytes(data[SkillsFile])
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", SkillsFile, err)
	}
	species, err := creature.LoadSpeciesFromBytes(data[SpeciesFile])
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", SpeciesFile, err)
	}
	enemies, err := enemy.LoadCatalogFromBytes(data[EnemiesFile])
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", EnemiesFile, err)
	}

	c := &Catalogs{Areas: areas, Skills: skills, Species: species, Enemies: enemies}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
