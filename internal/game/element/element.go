// Package element defines the elemental attributes shared by areas, creatures,
// and skills, and the stat each attribute draws on.
package element

import "fmt"

// Attribute is an elemental affinity.
type Attribute string

const (
	Neutral    Attribute = "neutral"
	Volcano    Attribute = "volcano"
	Tornado    Attribute = "tornado"
	Earthquake Attribute = "earthquake"
	Storm      Attribute = "storm"
)

// Growable lists the attributes that carry a grown stat, in display order.
var Growable = []Attribute{Volcano, Tornado, Earthquake, Storm}

// IsValid reports whether a is one of the five known attributes.
func (a Attribute) IsValid() bool {
	switch a {
	case Neutral, Volcano, Tornado, Earthquake, Storm:
		return true
	default:
		return false
	}
}

// Grows reports whether a has a grown-stat axis. Neutral does not.
func (a Attribute) Grows() bool {
	return a.IsValid() && a != Neutral
}

// Parse converts s into an Attribute.
//
// Postcondition: Returns a valid Attribute, or an error naming s. The empty
// string parses as Neutral.
func Parse(s string) (Attribute, error) {
	if s == "" {
		return Neutral, nil
	}
	a := Attribute(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown attribute %q", s)
	}
	return a, nil
}

// StatKey names one of the four combat stats.
type StatKey string

const (
	Attack  StatKey = "attack"
	Magic   StatKey = "magic"
	Counter StatKey = "counter"
	Recover StatKey = "recover"
)

// StatKeyOf returns the stat a skill of attribute a draws on.
//
// Postcondition: volcano→magic, tornado→counter, earthquake→attack,
// storm→recover; neutral and unknown attributes map to attack.
func StatKeyOf(a Attribute) StatKey {
	switch a {
	case Volcano:
		return Magic
	case Tornado:
		return Counter
	case Storm:
		return Recover
	default:
		return Attack
	}
}

// AttributeOf is the inverse of StatKeyOf over the growable attributes.
func AttributeOf(k StatKey) Attribute {
	switch k {
	case Magic:
		return Volcano
	case Counter:
		return Tornado
	case Recover:
		return Storm
	default:
		return Earthquake
	}
}

// Stats holds one value per combat stat.
type Stats struct {
	Attack  int `yaml:"attack"`
	Magic   int `yaml:"magic"`
	Counter int `yaml:"counter"`
	Recover int `yaml:"recover"`
}

// Get returns the value for k.
func (s Stats) Get(k StatKey) int {
	switch k {
	case Magic:
		return s.Magic
	case Counter:
		return s.Counter
	case Recover:
		return s.Recover
	default:
		return s.Attack
	}
}

// Validate rejects negative stat values.
func (s Stats) Validate() error {
	if s.Attack < 0 || s.Magic < 0 || s.Counter < 0 || s.Recover < 0 {
		return fmt.Errorf("stats must be >= 0, got %+v", s)
	}
	return nil
}
