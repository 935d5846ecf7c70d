package battle

import (
	"github.com/cory-johannsen/biome/internal/game/element"
	"github.com/cory-johannsen/biome/internal/game/skill"
)

// Amount returns floor(stat × power/100 × bonus), where bonus is 1.5 when
// matched and 1.0 otherwise.
//
// Precondition: stat and power are non-negative.
func Amount(stat, power int, matched bool) int {
	if stat <= 0 || power <= 0 {
		return 0
	}
	if matched {
		return stat * power * 3 / 200
	}
	return stat * power / 100
}

// MoveAmount returns the damage (or heal) an actor with the given attribute
// and stats deals with sk.
func MoveAmount(attr element.Attribute, stats element.Stats, sk *skill.Skill) int {
	return Amount(stats.Get(element.StatKeyOf(sk.Attribute)), sk.Power, attr == sk.Attribute)
}

// ReflectAmount returns the damage a bracing defender using counterMove
// reflects back onto a direct elemental attacker. The defender is always
// treated as attribute matched.
func ReflectAmount(defender element.Stats, counterMove *skill.Skill) int {
	return Amount(defender.Counter, counterMove.Power, true)
}

// reflects reports whether attack aimed at a defender using defense is
// turned back on the attacker.
func reflects(attack, defense *skill.Skill) bool {
	return attack.IsDirectElemental() && defense.IsCounter()
}
