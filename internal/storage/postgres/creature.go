package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/element"
	"github.com/cory-johannsen/biome/internal/game/enemy"
	"github.com/cory-johannsen/biome/internal/game/slot"
)

// ErrCreatureNotFound is returned when no slot row exists. It wraps
// slot.ErrRecordNotFound.
var ErrCreatureNotFound = fmt.Errorf("postgres: creature %w", slot.ErrRecordNotFound)

// CreatureRepository stores slot records in the slots and slot_items tables.
// It implements slot.Store.
type CreatureRepository struct {
	pool *Pool
}

// NewCreatureRepository creates a CreatureRepository backed by pool.
//
// Precondition: pool must be open and migrated.
func NewCreatureRepository(pool *Pool) *CreatureRepository {
	return &CreatureRepository{pool: pool}
}

const selectSlot = `
	SELECT slot_id, species_id, name, attribute, weak_attribute, best_area_id,
	       base_attack, base_magic, base_counter, base_recover, base_hp,
	       grown, counters, grown_hp, current_hp, cap_element, cap_hp,
	       optimal_temperature, optimal_humidity, optimal_light_or_depth, moves,
	       env_temperature, env_humidity, env_light_or_depth, updated_at
	FROM slots WHERE slot_id = $1`

// Load implements slot.Store.
//
// Postcondition: Returns ErrCreatureNotFound when slotID has no row.
func (r *CreatureRepository) Load(ctx context.Context, slotID string) (*slot.Record, error) {
	c := &creature.Creature{}
	rec := &slot.Record{Creature: c}
	var attr, weak string
	err := r.pool.DB().QueryRow(ctx, selectSlot, slotID).Scan(
		&rec.SlotID, &c.SpeciesID, &c.Name, &attr, &weak, &c.BestAreaID,
		&c.Base.Attack, &c.Base.Magic, &c.Base.Counter, &c.Base.Recover, &c.BaseHP,
		&c.Grown, &c.Counters, &c.GrownHP, &c.CurrentHP, &c.Caps.Element, &c.Caps.HP,
		&c.Optimal.Temperature, &c.Optimal.Humidity, &c.Optimal.LightOrDepth, &c.Moves,
		&rec.Environment.Temperature, &rec.Environment.Humidity, &rec.Environment.LightOrDepth,
		&rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCreatureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading slot %q: %w", slotID, err)
	}
	c.Attribute = element.Attribute(attr)
	c.WeakAttribute = element.Attribute(weak)
	c.Repair()

	rows, err := r.pool.DB().Query(ctx,
		`SELECT item_id, instance_id FROM slot_items WHERE slot_id = $1 ORDER BY seq ASC`, slotID)
	if err != nil {
		return nil, fmt.Errorf("loading items for slot %q: %w", slotID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var g enemy.Grant
		if err := rows.Scan(&g.ItemID, &g.InstanceID); err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		rec.Items = append(rec.Items, g)
	}
	return rec, rows.Err()
}

// Save implements slot.Store. The slot row is upserted and new items are
// appended in one transaction.
//
// Precondition: rec.Creature must be non-nil.
func (r *CreatureRepository) Save(ctx context.Context, rec *slot.Record) error {
	c := rec.Creature
	grown, counters := c.Grown, c.Counters
	if grown == nil {
		grown = map[element.Attribute]int{}
	}
	if counters == nil {
		counters = map[element.Attribute]int{}
	}
	moves := c.Moves
	if moves == nil {
		moves = []string{}
	}

	return r.pool.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO slots
				(slot_id, species_id, name, attribute, weak_attribute, best_area_id,
				 base_attack, base_magic, base_counter, base_recover, base_hp,
				 grown, counters, grown_hp, current_hp, cap_element, cap_hp,
				 optimal_temperature, optimal_humidity, optimal_light_or_depth, moves,
				 env_temperature, env_humidity, env_light_or_depth, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
			ON CONFLICT (slot_id) DO UPDATE SET
				species_id = EXCLUDED.species_id, name = EXCLUDED.name,
				attribute = EXCLUDED.attribute, weak_attribute = EXCLUDED.weak_attribute,
				best_area_id = EXCLUDED.best_area_id,
				base_attack = EXCLUDED.base_attack, base_magic = EXCLUDED.base_magic,
				base_counter = EXCLUDED.base_counter, base_recover = EXCLUDED.base_recover,
				base_hp = EXCLUDED.base_hp, grown = EXCLUDED.grown, counters = EXCLUDED.counters,
				grown_hp = EXCLUDED.grown_hp, current_hp = EXCLUDED.current_hp,
				cap_element = EXCLUDED.cap_element, cap_hp = EXCLUDED.cap_hp,
				optimal_temperature = EXCLUDED.optimal_temperature,
				optimal_humidity = EXCLUDED.optimal_humidity,
				optimal_light_or_depth = EXCLUDED.optimal_light_or_depth,
				moves = EXCLUDED.moves,
				env_temperature = EXCLUDED.env_temperature,
				env_humidity = EXCLUDED.env_humidity,
				env_light_or_depth = EXCLUDED.env_light_or_depth,
				updated_at = EXCLUDED.updated_at`,
			rec.SlotID, c.SpeciesID, c.Name, string(c.Attribute), string(c.WeakAttribute), c.BestAreaID,
			c.Base.Attack, c.Base.Magic, c.Base.Counter, c.Base.Recover, c.BaseHP,
			grown, counters, c.GrownHP, c.CurrentHP, c.Caps.Element, c.Caps.HP,
			c.Optimal.Temperature, c.Optimal.Humidity, c.Optimal.LightOrDepth, moves,
			rec.Environment.Temperature, rec.Environment.Humidity, rec.Environment.LightOrDepth,
			rec.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("upserting slot %q: %w", rec.SlotID, err)
		}
		if len(rec.Items) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for i, g := range rec.Items {
			batch.Queue(`
				INSERT INTO slot_items (instance_id, slot_id, item_id, seq)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (instance_id) DO NOTHING`,
				g.InstanceID, rec.SlotID, g.ItemID, i)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting items for slot %q: %w", rec.SlotID, err)
		}
		return nil
	})
}

// Delete removes the slot and its items.
//
// Postcondition: Returns ErrCreatureNotFound when slotID has no row.
func (r *CreatureRepository) Delete(ctx context.Context, slotID string) error {
	tag, err := r.pool.DB().Exec(ctx, `DELETE FROM slots WHERE slot_id = $1`, slotID)
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", slotID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCreatureNotFound
	}
	return nil
}

// List returns every stored slot id in ascending order.
func (r *CreatureRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.pool.DB().Query(ctx, `SELECT slot_id FROM slots ORDER BY slot_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
