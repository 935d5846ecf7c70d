// Package dice provides the randomness abstraction used by battle move draws
// and reward rolls, plus audit records for each draw.
package dice

import "fmt"

// Source is the randomness provider for all game draws.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// PercentRoll holds the audit trail for a single percent-chance check.
//
// Postcondition: Success() == (Value < Chance).
type PercentRoll struct {
	Label  string // what the roll was for, e.g. "reward:herb"
	Chance int    // percent chance in [0, 100]
	Value  int    // drawn value in [0, 100)
}

// Success reports whether the roll passed its chance.
//
// Postcondition: Chance <= 0 never succeeds; Chance >= 100 always succeeds.
func (r PercentRoll) Success() bool {
	return r.Value < r.Chance
}

// String returns a human-readable audit string in the format:
//
//	"reward:herb 37 < 50 → pass"
//
// Precondition: r.Label is non-empty.
func (r PercentRoll) String() string {
	if r.Label == "" {
		panic("dice: PercentRoll.String() precondition violated: Label must be non-empty")
	}
	verdict := "fail"
	if r.Success() {
		verdict = "pass"
	}
	return fmt.Sprintf("%s %d < %d → %s", r.Label, r.Value, r.Chance, verdict)
}

// RollPercent draws a value in [0, 100) from src and compares it to chance.
//
// Precondition: src must be non-nil.
func RollPercent(label string, chance int, src Source) PercentRoll {
	return PercentRoll{Label: label, Chance: chance, Value: src.Intn(100)}
}
