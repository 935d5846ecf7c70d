package area

import "math"

// Resolve maps an environment reading to an area id.
//
// Postcondition: Always returns an id present in the catalog. Non-finite
// input, unmatched bands, and grid cells without a catalog entry resolve to
// the neutral id.
func (c *Catalog) Resolve(temperature, humidity, lightOrDepth float64) string {
	if !finite(temperature) || !finite(humidity) || !finite(lightOrDepth) {
		return c.neutralID
	}
	if temperature == 0 && humidity == 50 {
		return c.neutralID
	}
	if humidity == SeaHumidity {
		side := c.sea.north
		if temperature >= 0 {
			side = c.sea.south
		}
		return c.known(side[depthIndex(lightOrDepth)])
	}
	ti := bandIndex(c.temperature, temperature)
	hi := bandIndex(c.humidity, humidity)
	if ti < 0 || hi < 0 {
		return c.neutralID
	}
	return c.known(c.grid[ti][hi])
}

// ResolveSample is Resolve applied to a Sample.
func (c *Catalog) ResolveSample(s Sample) string {
	return c.Resolve(s.Temperature, s.Humidity, s.LightOrDepth)
}

// Lookup resolves s and returns the area itself.
//
// Postcondition: Returns a non-nil Area.
func (c *Catalog) Lookup(s Sample) *Area {
	return c.areas[c.ResolveSample(s)]
}

func (c *Catalog) known(id string) string {
	if _, ok := c.areas[id]; !ok {
		return c.neutralID
	}
	return id
}

// bandIndex returns the band holding v, or -1 outside the table's range.
func bandIndex(bands []Band, v float64) int {
	for i, b := range bands {
		if b.Contains(v) {
			return i
		}
	}
	if n := len(bands); n > 0 && v == bands[n-1].Max {
		return n - 1
	}
	return -1
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
