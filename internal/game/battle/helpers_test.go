package battle_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/biome/internal/game/battle"
	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/dice"
	"github.com/cory-johannsen/biome/internal/game/element"
	"github.com/cory-johannsen/biome/internal/game/enemy"
	"github.com/cory-johannsen/biome/internal/game/skill"
)

// scriptRoller replays picks in order (cycling) and draws a fixed percent value.
type scriptRoller struct {
	picks   []int
	next    int
	percent int
}

func (r *scriptRoller) Pick(_ string, _ int) int {
	if len(r.picks) == 0 {
		return 0
	}
	v := r.picks[r.next%len(r.picks)]
	r.next++
	return v
}

func (r *scriptRoller) Percent(label string, chance int) dice.PercentRoll {
	return dice.PercentRoll{Label: label, Chance: chance, Value: r.percent}
}

func testSkills(t *testing.T) *skill.Catalog {
	t.Helper()
	cat, err := skill.NewCatalog("tackle", []*skill.Skill{
		{ID: "tackle", Name: "Tackle", Attribute: element.Neutral, Category: skill.CategoryAttack, Power: 50},
		{ID: "wait", Name: "Wait", Attribute: element.Neutral, Category: skill.CategoryAttack, Power: 0},
		{ID: "gust", Name: "Gust", Attribute: element.Tornado, Category: skill.CategoryAttack, Power: 90},
		{ID: "fire", Name: "Fire", Attribute: element.Volcano, Category: skill.CategoryAttack, Power: 100},
		{ID: "mend", Name: "Mend", Attribute: element.Storm, Category: skill.CategoryHeal, Power: 50},
	})
	require.NoError(t, err)
	return cat
}

func slots(id string) []string {
	out := make([]string, enemy.MoveSlots)
	for i := range out {
		out[i] = id
	}
	return out
}

type fixture struct {
	player  *creature.Creature
	foe     *enemy.Enemy
	roller  *scriptRoller
	timeout int
}

func newFixture() *fixture {
	return &fixture{
		player: &creature.Creature{
			SpeciesID: "hero",
			Name:      "Hero",
			Attribute: element.Tornado,
			Base:      element.Stats{Attack: 50, Magic: 50, Counter: 130, Recover: 40},
			BaseHP:    100,
			CurrentHP: 100,
			Moves:     slots("tackle"),
		},
		foe: &enemy.Enemy{
			ID:        "dummy",
			Name:      "Dummy",
			Attribute: element.Earthquake,
			BaseStats: element.Stats{Attack: 10, Magic: 10, Counter: 40, Recover: 10},
			MaxHP:     500,
			Moves:     slots("tackle"),
		},
		roller: &scriptRoller{},
	}
}

func (f *fixture) start(t *testing.T) *battle.Session {
	t.Helper()
	enemies := enemy.NewCatalog()
	require.NoError(t, enemies.Register(f.foe))
	ctl := battle.NewController(testSkills(t), enemies, f.roller, nil, f.timeout)
	s, err := ctl.Start(f.player, f.foe.ID)
	require.NoError(t, err)
	return s
}

// confirmRound opens selection if needed and confirms indices.
func confirmRound(t *testing.T, s *battle.Session, indices ...int) {
	t.Helper()
	if s.Phase() == battle.PhaseIntro {
		s.Step()
	}
	require.Equal(t, battle.PhaseSelection, s.Phase())
	require.Equal(t, len(indices), s.SelectMoves(indices))
	require.True(t, s.Confirm())
}

// runToResult drives s to its result, auto-confirming every selection.
func runToResult(t *testing.T, s *battle.Session) *battle.Result {
	t.Helper()
	for i := 0; i < 1000; i++ {
		switch s.Phase() {
		case battle.PhaseResult:
			return s.Result()
		case battle.PhaseSelection:
			s.Tick(battle.DefaultTimeout)
		default:
			s.Step()
		}
	}
	t.Fatal("session did not reach its result")
	return nil
}

func eventsOf(events []battle.Event, kind battle.EventKind) []battle.Event {
	var out []battle.Event
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
