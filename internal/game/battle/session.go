package battle

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/biome/internal/game/element"
	"github.com/cory-johannsen/biome/internal/game/enemy"
	"github.com/cory-johannsen/biome/internal/game/skill"
)

// Battle shape.
const (
	MaxRounds      = 5
	MovesPerRound  = 3
	MoveSlots      = enemy.MoveSlots
	DefaultTimeout = 30
)

// ErrSessionActive is returned by Close before the battle has reached its result.
var ErrSessionActive = errors.New("battle: session has not reached its result")

// Outcome is the battle result from the player's point of view.
type Outcome int

const (
	Lose Outcome = iota
	Win
)

// String returns "win" or "lose".
func (o Outcome) String() string {
	if o == Win {
		return "win"
	}
	return "lose"
}

// Result is the final state of a finished session.
type Result struct {
	Outcome     Outcome
	EnemyID     string
	Rounds      int
	PlayerHP    int
	PlayerMaxHP int
	EnemyHP     int
	Rewards     []enemy.Grant
}

// Roller is the randomness used by a session for opponent draws and rewards.
type Roller interface {
	enemy.Roller
	Pick(label string, n int) int
}

type side struct {
	name      string
	attribute element.Attribute
	stats     element.Stats
	hp        int
	maxHP     int
	moves     [MoveSlots]*skill.Skill
	bracing   bool
}

func (s *side) alive() bool { return s.hp > 0 }

func (s *side) damage(n int) {
	s.hp -= n
	if s.hp < 0 {
		s.hp = 0
	}
}

func (s *side) heal(n int) int {
	n = min(n, s.maxHP-s.hp)
	if n < 0 {
		n = 0
	}
	s.hp += n
	return n
}

// Session is one battle between the player's creature and a scripted enemy.
// It advances only through Step, Tick and Confirm; nothing in it depends on
// wall-clock time. All methods are safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	id      string
	logger  *zap.Logger
	roller  Roller
	enemyID string
	rewards enemy.RewardTable

	phase     Phase
	round     int
	pair      int
	substep   int
	timeout   int
	countdown int

	sides     [2]*side
	spent     [MoveSlots]bool
	selection []int
	enemySel  []int

	events []Event
	result *Result
	closed bool
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// stage returns the phase and execution substep under one lock.
func (s *Session) stage() (Phase, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase, s.substep
}

// Events returns every event emitted so far.
func (s *Session) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// SelectMove adds slot index i to the current selection.
//
// Postcondition: Returns false, leaving the selection unchanged, when the
// session is not in selection, i is out of range, spent or already
// selected, or three moves are already selected.
func (s *Session) SelectMove(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(i)
}

// SelectMoves replaces the current selection with indices, accepting them in
// order under the same rules as SelectMove.
//
// Postcondition: Returns the number of indices accepted.
func (s *Session) SelectMoves(indices []int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseSelection {
		return 0
	}
	s.selection = s.selection[:0]
	n := 0
	for _, i := range indices {
		if s.selectLocked(i) {
			n++
		}
	}
	return n
}

// Deselect removes slot index i from the current selection.
func (s *Session) Deselect(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseSelection {
		return false
	}
	for k, v := range s.selection {
		if v == i {
			s.selection = append(s.selection[:k], s.selection[k+1:]...)
			return true
		}
	}
	return false
}

func (s *Session) selectLocked(i int) bool {
	if s.phase != PhaseSelection || i < 0 || i >= MoveSlots || s.spent[i] {
		return false
	}
	if len(s.selection) >= MovesPerRound {
		return false
	}
	for _, v := range s.selection {
		if v == i {
			return false
		}
	}
	s.selection = append(s.selection, i)
	return true
}

// Confirm commits the player's selection and draws the enemy's.
//
// Postcondition: Returns false and does nothing unless the session is in
// selection with exactly three moves selected.
func (s *Session) Confirm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseSelection || len(s.selection) != MovesPerRound {
		return false
	}
	s.confirmLocked(false)
	return true
}

// Tick counts the selection countdown down by units. When it reaches zero the
// selection is replaced by the first three unspent slots and confirmed.
//
// Postcondition: Returns true if this call confirmed the selection.
func (s *Session) Tick(units int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseSelection || units <= 0 {
		return false
	}
	s.countdown -= units
	if s.countdown > 0 {
		return false
	}
	s.countdown = 0
	s.selection = s.selection[:0]
	for i := 0; i < MoveSlots && len(s.selection) < MovesPerRound; i++ {
		if !s.spent[i] {
			s.selection = append(s.selection, i)
		}
	}
	s.confirmLocked(true)
	return true
}

func (s *Session) confirmLocked(auto bool) {
	for _, i := range s.selection {
		s.spent[i] = true
	}
	s.enemySel = s.enemySel[:0]
	for k := 0; k < MovesPerRound; k++ {
		s.enemySel = append(s.enemySel, s.roller.Pick("enemy_move", MoveSlots))
	}
	s.phase = PhaseExecution
	s.pair = 0
	s.substep = 0
	s.emit(Event{Kind: EventMovesConfirmed, Pair: -1, Auto: auto})
}

// Step advances the intro and execution phases by one unit of work and
// returns the events it produced. Selection waits for Confirm or Tick, and
// result is terminal; in both Step returns nil.
//
// Each execution step resolves one of four substeps of the current pair:
// player reveal, enemy reveal, player active, enemy active. Execution stops
// early once either side reaches zero HP.
func (s *Session) Step() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := len(s.events)
	switch s.phase {
	case PhaseIntro:
		s.openSelection()
	case PhaseExecution:
		s.stepExecution()
	default:
		return nil
	}
	return append([]Event(nil), s.events[start:]...)
}

func (s *Session) openSelection() {
	s.phase = PhaseSelection
	s.countdown = s.timeout
	s.selection = s.selection[:0]
	s.enemySel = s.enemySel[:0]
	s.emit(Event{Kind: EventSelectionStart, Pair: -1})
}

func (s *Session) moveOf(a Actor) *skill.Skill {
	if a == ActorPlayer {
		return s.sides[a].moves[s.selection[s.pair]]
	}
	return s.sides[a].moves[s.enemySel[s.pair]]
}

func (s *Session) stepExecution() {
	switch s.substep {
	case 0:
		s.sides[ActorPlayer].bracing = false
		s.sides[ActorEnemy].bracing = false
		s.passive(ActorPlayer)
	case 1:
		s.passive(ActorEnemy)
	case 2:
		s.active(ActorPlayer)
	case 3:
		s.active(ActorEnemy)
	}
	s.substep++

	if !s.sides[ActorPlayer].alive() || !s.sides[ActorEnemy].alive() {
		s.endRound()
		return
	}
	if s.substep == 4 {
		s.substep = 0
		s.pair++
		if s.pair == MovesPerRound {
			s.endRound()
		}
	}
}

func (s *Session) passive(a Actor) {
	self := s.sides[a]
	m := s.moveOf(a)
	ev := Event{Kind: EventReveal, Actor: a, SkillID: m.ID}
	switch {
	case m.IsHeal():
		ev.Amount = self.heal(MoveAmount(self.attribute, self.stats, m))
		s.emit(ev)
	case m.IsCounter():
		self.bracing = true
		s.emit(ev)
		s.emit(Event{Kind: EventBrace, Actor: a, SkillID: m.ID})
	default:
		s.emit(ev)
	}
}

func (s *Session) active(a Actor) {
	self, foe := s.sides[a], s.sides[a.other()]
	m, fm := s.moveOf(a), s.moveOf(a.other())
	switch {
	case m.IsHeal():
	case reflects(m, fm):
		n := ReflectAmount(foe.stats, fm)
		self.damage(n)
		s.emit(Event{Kind: EventReflect, Actor: a.other(), SkillID: fm.ID, Amount: n})
	case reflects(fm, m):
		s.emit(Event{Kind: EventSkip, Actor: a, SkillID: m.ID})
	default:
		n := MoveAmount(self.attribute, self.stats, m)
		foe.damage(n)
		s.emit(Event{Kind: EventDamage, Actor: a, SkillID: m.ID, Amount: n})
	}
}

func (s *Session) endRound() {
	s.emit(Event{Kind: EventRoundEnd, Pair: -1})
	p, e := s.sides[ActorPlayer], s.sides[ActorEnemy]
	if p.alive() && e.alive() && s.round < MaxRounds {
		s.round++
		s.openSelection()
		return
	}

	res := &Result{
		EnemyID:     s.enemyID,
		Rounds:      s.round,
		PlayerHP:    p.hp,
		PlayerMaxHP: p.maxHP,
		EnemyHP:     e.hp,
	}
	switch {
	case !p.alive():
		res.Outcome = Lose
	case !e.alive():
		res.Outcome = Win
	case p.hp >= e.hp:
		res.Outcome = Win
	default:
		res.Outcome = Lose
	}
	if res.Outcome == Win {
		res.Rewards = enemy.RollRewards(s.rewards, s.roller)
	}
	s.result = res
	s.phase = PhaseResult
	s.emit(Event{Kind: EventResult, Pair: -1})
	s.logger.Info("battle finished",
		zap.String("session", s.id),
		zap.String("enemy", s.enemyID),
		zap.String("outcome", res.Outcome.String()),
		zap.Int("rounds", res.Rounds),
		zap.Int("player_hp", res.PlayerHP),
		zap.Int("enemy_hp", res.EnemyHP),
		zap.Int("rewards", len(res.Rewards)),
	)
}

func (s *Session) emit(ev Event) {
	ev.Round = s.round
	if ev.Kind == EventReveal || ev.Kind == EventBrace || ev.Kind == EventDamage ||
		ev.Kind == EventReflect || ev.Kind == EventSkip {
		ev.Pair = s.pair
	}
	ev.PlayerHP = s.sides[ActorPlayer].hp
	ev.EnemyHP = s.sides[ActorEnemy].hp
	s.events = append(s.events, ev)
	s.logger.Debug("battle event",
		zap.String("session", s.id),
		zap.String("kind", ev.Kind.String()),
		zap.Int("round", ev.Round),
		zap.Int("pair", ev.Pair),
		zap.String("actor", ev.Actor.String()),
		zap.String("skill", ev.SkillID),
		zap.Int("amount", ev.Amount),
	)
}

// Result returns the battle result, or nil before the result phase.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	cp := *s.result
	cp.Rewards = append([]enemy.Grant(nil), s.result.Rewards...)
	return &cp
}

// Close tears the session down and returns its result.
//
// Postcondition: Returns ErrSessionActive, leaving the session untouched,
// before the result phase. Repeated calls return the same result.
func (s *Session) Close() (*Result, error) {
	s.mu.Lock()
	if s.phase != PhaseResult {
		s.mu.Unlock()
		return nil, ErrSessionActive
	}
	s.closed = true
	s.mu.Unlock()
	return s.Result(), nil
}

// Closed reports whether Close has succeeded.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// SideView is a read-only view of one side.
type SideView struct {
	Name      string
	Attribute element.Attribute
	Stats     element.Stats
	HP        int
	MaxHP     int
	Bracing   bool
	Moves     []string
}

// Snapshot is a deep copy of a session's observable state for rendering.
type Snapshot struct {
	ID             string
	Phase          Phase
	Round          int
	Pair           int
	Countdown      int
	Player         SideView
	Enemy          SideView
	Selection      []int
	Spent          []int
	EnemySelection []int
	Result         *Result
}

// Snapshot returns a deep copy of the session's state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		ID:             s.id,
		Phase:          s.phase,
		Round:          s.round,
		Pair:           s.pair,
		Countdown:      s.countdown,
		Player:         s.sides[ActorPlayer].view(),
		Enemy:          s.sides[ActorEnemy].view(),
		Selection:      append([]int(nil), s.selection...),
		EnemySelection: append([]int(nil), s.enemySel...),
	}
	for i, used := range s.spent {
		if used {
			snap.Spent = append(snap.Spent, i)
		}
	}
	s.mu.Unlock()
	snap.Result = s.Result()
	return snap
}

func (s *side) view() SideView {
	v := SideView{
		Name:      s.name,
		Attribute: s.attribute,
		Stats:     s.stats,
		HP:        s.hp,
		MaxHP:     s.maxHP,
		Bracing:   s.bracing,
		Moves:     make([]string, 0, MoveSlots),
	}
	for _, m := range s.moves {
		v.Moves = append(v.Moves, m.ID)
	}
	return v
}
