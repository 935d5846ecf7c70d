package battle

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CommandKind is the type of a player Command.
type CommandKind int

const (
	// CommandSelect replaces the selection with Indices.
	CommandSelect CommandKind = iota
	// CommandDeselect removes Indices from the selection.
	CommandDeselect
	// CommandConfirm confirms the selection.
	CommandConfirm
)

// Command is player input delivered to a Runner.
type Command struct {
	Kind    CommandKind
	Indices []int
}

// Pacing holds the presentation delays a Runner waits before each step.
// Zero values mean no delay; a zero CountdownUnit disables the automatic
// selection countdown.
type Pacing struct {
	Intro   time.Duration
	Reveal  time.Duration
	Resolve time.Duration
	// CountdownUnit is the wall-clock length of one countdown unit.
	CountdownUnit time.Duration
}

// Runner drives a Session from a command channel and publishes its events.
type Runner struct {
	session *Session
	pacing  Pacing
	logger  *zap.Logger
	cursor  int
}

// NewRunner creates a Runner for s. A nil logger is replaced by a no-op logger.
//
// Precondition: s must be non-nil.
func NewRunner(s *Session, pacing Pacing, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{session: s, pacing: pacing, logger: logger}
}

// Run advances the session until it reaches its result or ctx is cancelled.
// Every event the session emits is sent on out in order; out may be nil.
//
// Postcondition: Returns the result on completion, or ctx.Err() on
// cancellation with the session left at its last committed step.
func (r *Runner) Run(ctx context.Context, cmds <-chan Command, out chan<- Event) (*Result, error) {
	var countdown <-chan time.Time
	if r.pacing.CountdownUnit > 0 {
		t := time.NewTicker(r.pacing.CountdownUnit)
		defer t.Stop()
		countdown = t.C
	}

	for {
		if err := r.publish(ctx, out); err != nil {
			return nil, err
		}
		switch r.session.Phase() {
		case PhaseResult:
			return r.session.Result(), nil
		case PhaseSelection:
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case cmd, ok := <-cmds:
				if !ok {
					cmds = nil
					continue
				}
				r.apply(cmd)
			case <-countdown:
				r.session.Tick(1)
			}
		default:
			if err := wait(ctx, r.delay()); err != nil {
				return nil, err
			}
			r.session.Step()
		}
	}
}

func (r *Runner) apply(cmd Command) {
	switch cmd.Kind {
	case CommandSelect:
		r.session.SelectMoves(cmd.Indices)
	case CommandDeselect:
		for _, i := range cmd.Indices {
			r.session.Deselect(i)
		}
	case CommandConfirm:
		if !r.session.Confirm() {
			r.logger.Debug("confirm refused", zap.String("session", r.session.ID()))
		}
	}
}

// delay returns the pacing before the session's next step.
func (r *Runner) delay() time.Duration {
	phase, substep := r.session.stage()
	switch {
	case phase == PhaseIntro:
		return r.pacing.Intro
	case substep < 2:
		return r.pacing.Reveal
	default:
		return r.pacing.Resolve
	}
}

func (r *Runner) publish(ctx context.Context, out chan<- Event) error {
	events := r.session.Events()
	pending := events[r.cursor:]
	r.cursor = len(events)
	if out == nil {
		return nil
	}
	for _, ev := range pending {
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
