package battle

import "fmt"

// Phase is the battle state machine's state.
type Phase int

const (
	PhaseIntro Phase = iota
	PhaseSelection
	PhaseExecution
	PhaseResult
)

// String returns a human-readable phase label.
func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhaseSelection:
		return "selection"
	case PhaseExecution:
		return "execution"
	case PhaseResult:
		return "result"
	default:
		return "unknown"
	}
}

// Actor identifies a side of the battle.
type Actor int

const (
	ActorPlayer Actor = iota
	ActorEnemy
)

// String returns "player" or "enemy".
func (a Actor) String() string {
	if a == ActorPlayer {
		return "player"
	}
	return "enemy"
}

func (a Actor) other() Actor { return 1 - a }

// EventKind classifies a battle Event.
type EventKind int

const (
	// EventSelectionStart opens move selection for a round.
	EventSelectionStart EventKind = iota
	// EventMovesConfirmed records both sides' selections for a round.
	EventMovesConfirmed
	// EventReveal reveals a move and its passive effect; Amount is HP healed.
	EventReveal
	// EventBrace marks the actor as bracing for the current pair.
	EventBrace
	// EventDamage records Amount damage dealt by Actor.
	EventDamage
	// EventReflect records Amount damage the bracing Actor turned back on the attacker.
	EventReflect
	// EventSkip records that Actor's active step was skipped.
	EventSkip
	// EventRoundEnd closes a round.
	EventRoundEnd
	// EventResult announces the battle outcome.
	EventResult
)

var eventKindNames = [...]string{
	EventSelectionStart: "selection_start",
	EventMovesConfirmed: "moves_confirmed",
	EventReveal:         "reveal",
	EventBrace:          "brace",
	EventDamage:         "damage",
	EventReflect:        "reflect",
	EventSkip:           "skip",
	EventRoundEnd:       "round_end",
	EventResult:         "result",
}

// String returns the event kind's name.
func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// Event is one observable step of a battle, in the order it happened.
type Event struct {
	Kind  EventKind
	Round int
	// Pair is the 0-based move pair within the round; -1 outside execution.
	Pair    int
	Actor   Actor
	SkillID string
	Amount  int
	// Auto is set on EventMovesConfirmed when the countdown confirmed.
	Auto     bool
	PlayerHP int
	EnemyHP  int
}

// String returns a short human-readable description of e.
func (e Event) String() string {
	switch e.Kind {
	case EventReveal, EventBrace, EventDamage, EventReflect, EventSkip:
		return fmt.Sprintf("r%d p%d %s %s %s %d (player %d, enemy %d)",
			e.Round, e.Pair+1, e.Actor, e.Kind, e.SkillID, e.Amount, e.PlayerHP, e.EnemyHP)
	default:
		return fmt.Sprintf("r%d %s (player %d, enemy %d)", e.Round, e.Kind, e.PlayerHP, e.EnemyHP)
	}
}
