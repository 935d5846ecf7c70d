package enemy

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/biome/internal/game/dice"
)

// RewardEntry is one independently rolled drop.
type RewardEntry struct {
	ItemID string `yaml:"item"`
	// Chance is an integer percentage in [0, 100].
	Chance int `yaml:"chance"`
}

// RewardTable lists the drops an enemy can grant on defeat.
type RewardTable []RewardEntry

// Validate checks that every entry has an item id and a chance in [0, 100].
//
// Postcondition: An empty table is valid.
func (rt RewardTable) Validate() error {
	for i, e := range rt {
		if e.ItemID == "" {
			return fmt.Errorf("reward table: entry[%d] must have a non-empty item id", i)
		}
		if e.Chance < 0 || e.Chance > 100 {
			return fmt.Errorf("reward table: entry[%d] chance must be in [0, 100], got %d", i, e.Chance)
		}
	}
	return nil
}

// Grant is one reward awarded after a win.
type Grant struct {
	ItemID     string
	InstanceID string
}

// Roller is the subset of dice.Roller used for reward rolls.
type Roller interface {
	Percent(label string, chance int) dice.PercentRoll
}

// RollRewards rolls every entry independently.
//
// Precondition: rt must have passed Validate; r must be non-nil.
// Postcondition: Each granted item appears in table order. Entries with
// Chance 100 are always granted and entries with Chance 0 never are; any
// number of entries, including zero, may be granted.
func RollRewards(rt RewardTable, r Roller) []Grant {
	var grants []Grant
	for _, e := range rt {
		if r.Percent("reward:"+e.ItemID, e.Chance).Success() {
			grants = append(grants, Grant{
				ItemID:     e.ItemID,
				InstanceID: uuid.New().String(),
			})
		}
	}
	return grants
}
