package rank

import "fmt"

// Period is a named phase of the day used for light gating.
type Period string

const (
	PeriodNight   Period = "Night"
	PeriodMorning Period = "Morning"
	PeriodMidday  Period = "Midday"
)

// Light levels expected by land areas.
const (
	LightDark   = 0
	LightDim    = 50
	LightBright = 100
)

// Hour is a clock hour in [0, 23].
type Hour int

// Period returns the named period for this hour.
//
// Postcondition: 6–9 → Morning, 10–15 → Midday, every other hour → Night.
func (h Hour) Period() Period {
	switch {
	case h >= 6 && h <= 9:
		return PeriodMorning
	case h >= 10 && h <= 15:
		return PeriodMidday
	default:
		return PeriodNight
	}
}

// ExpectedLight returns the light level a land area requires at this hour.
func (h Hour) ExpectedLight() float64 {
	switch h.Period() {
	case PeriodMorning:
		return LightDim
	case PeriodMidday:
		return LightBright
	default:
		return LightDark
	}
}

// String returns the hour in "HH:00" format.
func (h Hour) String() string {
	return fmt.Sprintf("%02d:00", int(h))
}
