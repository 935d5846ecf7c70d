package area

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/biome/internal/game/element"
)

// yamlCatalogFile is the top-level YAML structure for the area catalog.
type yamlCatalogFile struct {
	Neutral          string     `yaml:"neutral"`
	Areas            []yamlArea `yaml:"areas"`
	TemperatureBands []yamlBand `yaml:"temperature_bands"`
	HumidityBands    []yamlBand `yaml:"humidity_bands"`
	Grid             [][]string `yaml:"grid"`
	Sea              yamlSea    `yaml:"sea"`
}

type yamlArea struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Attribute string `yaml:"attribute"`
}

type yamlBand struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type yamlSea struct {
	North yamlSeaSide `yaml:"north"`
	South yamlSeaSide `yaml:"south"`
}

type yamlSeaSide struct {
	Shallow string `yaml:"shallow"`
	Mid     string `yaml:"mid"`
	Deep    string `yaml:"deep"`
}

// LoadCatalogFromFile reads and validates an area catalog YAML file.
//
// Precondition: path must point to a valid YAML catalog file.
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading area catalog %s: %w", path, err)
	}
	return LoadCatalogFromBytes(data)
}

// LoadCatalogFromBytes parses and validates an area catalog from YAML bytes.
//
// Postcondition: Returns a validated Catalog or a non-nil error.
func LoadCatalogFromBytes(data []byte) (*Catalog, error) {
	var file yamlCatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing area catalog YAML: %w", err)
	}
	cat, err := convertYAMLCatalog(file)
	if err != nil {
		return nil, err
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("validating area catalog: %w", err)
	}
	return cat, nil
}

func convertYAMLCatalog(f yamlCatalogFile) (*Catalog, error) {
	cat := &Catalog{
		neutralID: f.Neutral,
		areas:     make(map[string]*Area, len(f.Areas)),
		sea: seaTable{
			north: [3]string{f.Sea.North.Shallow, f.Sea.North.Mid, f.Sea.North.Deep},
			south: [3]string{f.Sea.South.Shallow, f.Sea.South.Mid, f.Sea.South.Deep},
		},
	}
	for i, ya := range f.Areas {
		if ya.ID == "" {
			return nil, fmt.Errorf("area[%d]: id must not be empty", i)
		}
		if _, dup := cat.areas[ya.ID]; dup {
			return nil, fmt.Errorf("area %q: duplicate id", ya.ID)
		}
		attr, err := element.Parse(ya.Attribute)
		if err != nil {
			return nil, fmt.Errorf("area %q: %w", ya.ID, err)
		}
		name := strings.TrimSpace(ya.Name)
		if name == "" {
			return nil, fmt.Errorf("area %q: name must not be empty", ya.ID)
		}
		cat.areas[ya.ID] = &Area{ID: ya.ID, Name: name, Attribute: attr}
	}
	for _, id := range cat.SeaIDs() {
		if a, ok := cat.areas[id]; ok {
			a.Sea = true
		}
	}
	for _, b := range f.TemperatureBands {
		cat.temperature = append(cat.temperature, Band{Min: b.Min, Max: b.Max})
	}
	for _, b := range f.HumidityBands {
		cat.humidity = append(cat.humidity, Band{Min: b.Min, Max: b.Max})
	}
	for _, row := range f.Grid {
		cat.grid = append(cat.grid, append([]string(nil), row...))
	}
	return cat, nil
}
