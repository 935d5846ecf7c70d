// Package area provides the area catalog and the resolver that maps
// environment coordinates to an area id.
package area

import (
	"fmt"
	"math"
	"sort"

	"github.com/cory-johannsen/biome/internal/game/element"
)

// GridSize is the number of temperature and humidity bands on land.
const GridSize = 9

// SeaHumidity is the humidity value that selects the sea branch.
const SeaHumidity = 100

// Depth buckets for sea areas.
const (
	DepthShallow = 0
	DepthMid     = 50
	DepthDeep    = 100
)

// Area is a named biome bucket with an elemental attribute.
type Area struct {
	ID        string
	Name      string
	Attribute element.Attribute
	// Sea is true for the six sea areas, which have no light gating.
	Sea bool
}

// Sample is one reading of the ambient environment.
type Sample struct {
	Temperature float64
	Humidity    float64
	// LightOrDepth is light level on land and depth at sea.
	LightOrDepth float64
}

// NeutralSample is the environment the creature is returned to after a defeat.
var NeutralSample = Sample{Temperature: 0, Humidity: 50, LightOrDepth: 0}

// IsSea reports whether s selects the sea branch.
func (s Sample) IsSea() bool { return s.Humidity == SeaHumidity }

// Band is the half-open range [Min, Max). A band table is contiguous, each
// band's Max being the next band's Min, and its last band also holds Max.
type Band struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within [Min, Max).
func (b Band) Contains(v float64) bool {
	return v >= b.Min && v < b.Max
}

// NormalizeDepth buckets a sea depth into 0, 50, or 100.
//
// Postcondition: Returns d when d is exactly 0, 50, or 100; otherwise 50.
func NormalizeDepth(d float64) float64 {
	switch d {
	case DepthShallow, DepthMid, DepthDeep:
		return d
	default:
		return DepthMid
	}
}

// seaTable holds the six sea ids, indexed by side then depth bucket.
type seaTable struct {
	north [3]string
	south [3]string
}

func depthIndex(d float64) int {
	switch NormalizeDepth(d) {
	case DepthShallow:
		return 0
	case DepthDeep:
		return 2
	default:
		return 1
	}
}

// Catalog is the immutable set of areas plus the resolution tables.
type Catalog struct {
	neutralID   string
	areas       map[string]*Area
	temperature []Band
	humidity    []Band
	grid        [][]string
	sea         seaTable
}

// NeutralID returns the id of the neutral area.
func (c *Catalog) NeutralID() string { return c.neutralID }

// Get returns the area for id, or (nil, false) if not found.
func (c *Catalog) Get(id string) (*Area, bool) {
	a, ok := c.areas[id]
	return a, ok
}

// Neutral returns the neutral area.
//
// Postcondition: Returns a non-nil Area with Attribute == element.Neutral.
func (c *Catalog) Neutral() *Area {
	return c.areas[c.neutralID]
}

// IsNeutral reports whether id is the neutral area.
func (c *Catalog) IsNeutral(id string) bool { return id == c.neutralID }

// IsSea reports whether id is one of the sea areas.
func (c *Catalog) IsSea(id string) bool {
	a, ok := c.areas[id]
	return ok && a.Sea
}

// SeaIDs returns the six sea ids: north shallow/mid/deep then south shallow/mid/deep.
func (c *Catalog) SeaIDs() []string {
	out := make([]string, 0, 6)
	out = append(out, c.sea.north[:]...)
	return append(out, c.sea.south[:]...)
}

// Cell returns the grid id at (temperature band, humidity band).
//
// Precondition: 0 <= ti, hi < GridSize.
func (c *Catalog) Cell(ti, hi int) string { return c.grid[ti][hi] }

// TemperatureBands returns a copy of the temperature band table.
func (c *Catalog) TemperatureBands() []Band { return append([]Band(nil), c.temperature...) }

// HumidityBands returns a copy of the land humidity band table.
func (c *Catalog) HumidityBands() []Band { return append([]Band(nil), c.humidity...) }

// All returns every area sorted by id.
func (c *Catalog) All() []*Area {
	out := make([]*Area, 0, len(c.areas))
	for _, a := range c.areas {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Validate checks the catalog invariants.
//
// Postcondition: Returns nil iff the neutral area exists with a neutral
// attribute, there are GridSize bands on each axis, the grid is
// GridSize×GridSize with exactly one neutral cell, and all six sea ids exist.
// Bands on each axis must be contiguous.
func (c *Catalog) Validate() error {
	n, ok := c.areas[c.neutralID]
	if c.neutralID == "" || !ok {
		return fmt.Errorf("area catalog: neutral area %q not defined", c.neutralID)
	}
	if n.Attribute != element.Neutral {
		return fmt.Errorf("area catalog: neutral area %q must have attribute neutral, got %q", n.ID, n.Attribute)
	}
	if err := validateBands("temperature", c.temperature); err != nil {
		return err
	}
	if err := validateBands("humidity", c.humidity); err != nil {
		return err
	}
	if len(c.grid) != GridSize {
		return fmt.Errorf("area catalog: grid must have %d rows, got %d", GridSize, len(c.grid))
	}
	neutralCells := 0
	for i, row := range c.grid {
		if len(row) != GridSize {
			return fmt.Errorf("area catalog: grid row %d must have %d cells, got %d", i, GridSize, len(row))
		}
		for _, id := range row {
			if id == c.neutralID {
				neutralCells++
			}
		}
	}
	if neutralCells != 1 {
		return fmt.Errorf("area catalog: grid must contain exactly one neutral cell, got %d", neutralCells)
	}
	for _, id := range c.SeaIDs() {
		if _, ok := c.areas[id]; !ok {
			return fmt.Errorf("area catalog: sea area %q not defined", id)
		}
	}
	return nil
}

func validateBands(axis string, bands []Band) error {
	if len(bands) != GridSize {
		return fmt.Errorf("area catalog: %s must have %d bands, got %d", axis, GridSize, len(bands))
	}
	for i, b := range bands {
		if math.IsNaN(b.Min) || math.IsNaN(b.Max) || b.Min >= b.Max {
			return fmt.Errorf("area catalog: %s band %d has invalid range [%v, %v)", axis, i, b.Min, b.Max)
		}
		if i > 0 && bands[i-1].Max != b.Min {
			return fmt.Errorf("area catalog: %s band %d starts at %v, previous band ends at %v", axis, i, b.Min, bands[i-1].Max)
		}
	}
	return nil
}
