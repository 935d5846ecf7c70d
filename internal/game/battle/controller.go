// Package battle runs round-based combat between a player's creature and a
// scripted enemy.
package battle

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/enemy"
	"github.com/cory-johannsen/biome/internal/game/skill"
)

// ErrUnknownEnemy is returned by Start when the enemy id is not in the catalog.
var ErrUnknownEnemy = errors.New("battle: unknown enemy")

// Controller creates battle sessions from the static catalogs.
type Controller struct {
	skills  *skill.Catalog
	enemies *enemy.Catalog
	roller  Roller
	logger  *zap.Logger
	timeout int
}

// NewController creates a Controller.
//
// Precondition: skills, enemies and roller must be non-nil. A nil logger is
// replaced by a no-op logger; a non-positive selectionTimeout by
// DefaultTimeout.
func NewController(skills *skill.Catalog, enemies *enemy.Catalog, roller Roller, logger *zap.Logger, selectionTimeout int) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if selectionTimeout <= 0 {
		selectionTimeout = DefaultTimeout
	}
	return &Controller{
		skills:  skills,
		enemies: enemies,
		roller:  roller,
		logger:  logger,
		timeout: selectionTimeout,
	}
}

// Start opens a session between c and the enemy enemyID. The session copies
// c's effective stats and HP; c is not modified.
//
// Precondition: c must be non-nil.
// Postcondition: Returns ErrUnknownEnemy and no session when enemyID is not
// in the catalog. Otherwise the session is in PhaseIntro.
func (ctl *Controller) Start(c *creature.Creature, enemyID string) (*Session, error) {
	e, ok := ctl.enemies.Get(enemyID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEnemy, enemyID)
	}
	snap := c.Clone()
	snap.Repair()

	player := &side{
		name:      snap.Name,
		attribute: snap.Attribute,
		stats:     snap.Effective(),
		hp:        snap.CurrentHP,
		maxHP:     snap.MaxHP(),
	}
	if player.name == "" {
		player.name = snap.SpeciesID
	}
	ctl.fillMoves(player, snap.Moves)

	foe := &side{
		name:      e.Name,
		attribute: e.Attribute,
		stats:     e.BaseStats,
		hp:        e.MaxHP,
		maxHP:     e.MaxHP,
	}
	ctl.fillMoves(foe, e.Moves)

	s := &Session{
		id:        uuid.New().String(),
		logger:    ctl.logger,
		roller:    ctl.roller,
		enemyID:   e.ID,
		rewards:   e.Rewards,
		phase:     PhaseIntro,
		round:     1,
		timeout:   ctl.timeout,
		countdown: ctl.timeout,
		sides:     [2]*side{ActorPlayer: player, ActorEnemy: foe},
	}
	ctl.logger.Info("battle started",
		zap.String("session", s.id),
		zap.String("species", snap.SpeciesID),
		zap.String("enemy", e.ID),
		zap.Int("player_hp", player.hp),
		zap.Int("enemy_hp", foe.hp),
	)
	return s, nil
}

// fillMoves resolves ids into all MoveSlots slots; missing or unknown ids
// become the default move.
func (ctl *Controller) fillMoves(sd *side, ids []string) {
	for i := range sd.moves {
		id := ""
		if i < len(ids) {
			id = ids[i]
		}
		sd.moves[i] = ctl.skills.Resolve(id)
	}
}
