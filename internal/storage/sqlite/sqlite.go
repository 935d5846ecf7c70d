// Package sqlite stores slot records in a single-file SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/biome/internal/game/creature"
	"github.com/cory-johannsen/biome/internal/game/element"
	"github.com/cory-johannsen/biome/internal/game/enemy"
	"github.com/cory-johannsen/biome/internal/game/slot"
)

// ErrCreatureNotFound is returned when no slot row exists. It wraps
// slot.ErrRecordNotFound.
var ErrCreatureNotFound = fmt.Errorf("sqlite: creature %w", slot.ErrRecordNotFound)

const schema = `
CREATE TABLE IF NOT EXISTS slots (
	slot_id                TEXT PRIMARY KEY,
	species_id             TEXT NOT NULL,
	name                   TEXT NOT NULL,
	attribute              TEXT NOT NULL,
	weak_attribute         TEXT NOT NULL DEFAULT '',
	best_area_id           TEXT NOT NULL DEFAULT '',
	base_attack            INTEGER NOT NULL,
	base_magic             INTEGER NOT NULL,
	base_counter           INTEGER NOT NULL,
	base_recover           INTEGER NOT NULL,
	base_hp                INTEGER NOT NULL,
	grown                  TEXT NOT NULL DEFAULT '{}',
	counters               TEXT NOT NULL DEFAULT '{}',
	grown_hp               INTEGER NOT NULL DEFAULT 0,
	current_hp             INTEGER NOT NULL,
	cap_element            INTEGER NOT NULL,
	cap_hp                 INTEGER NOT NULL,
	optimal_temperature    REAL NOT NULL,
	optimal_humidity       REAL NOT NULL,
	optimal_light_or_depth REAL NOT NULL,
	moves                  TEXT NOT NULL DEFAULT '[]',
	env_temperature        REAL NOT NULL,
	env_humidity           REAL NOT NULL,
	env_light_or_depth     REAL NOT NULL,
	updated_at             TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS slot_items (
	instance_id TEXT PRIMARY KEY,
	slot_id     TEXT NOT NULL REFERENCES slots(slot_id) ON DELETE CASCADE,
	item_id     TEXT NOT NULL,
	seq         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS slot_items_slot_seq ON slot_items (slot_id, seq);
`

// CreatureRepository implements slot.Store on SQLite.
type CreatureRepository struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
//
// Postcondition: Returns a ready repository or a non-nil error.
func Open(ctx context.Context, path string) (*CreatureRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %q: %w", path, err)
	}
	// A single connection keeps PRAGMA foreign_keys in effect for every query.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &CreatureRepository{db: db}, nil
}

// Close releases the database handle.
func (r *CreatureRepository) Close() error { return r.db.Close() }

// Load implements slot.Store.
func (r *CreatureRepository) Load(ctx context.Context, slotID string) (*slot.Record, error) {
	c := &creature.Creature{}
	rec := &slot.Record{Creature: c}
	var attr, weak, grown, counters, moves, updated string
	err := r.db.QueryRowContext(ctx, `
		SELECT slot_id, species_id, name, attribute, weak_attribute, best_area_id,
		       base_attack, base_magic, base_counter, base_recover, base_hp,
		       grown, counters, grown_hp, current_hp, cap_element, cap_hp,
		       optimal_temperature, optimal_humidity, optimal_light_or_depth, moves,
		       env_temperature, env_humidity, env_light_or_depth, updated_at
		FROM slots WHERE slot_id = ?`, slotID).Scan(
		&rec.SlotID, &c.SpeciesID, &c.Name, &attr, &weak, &c.BestAreaID,
		&c.Base.Attack, &c.Base.Magic, &c.Base.Counter, &c.Base.Recover, &c.BaseHP,
		&grown, &counters, &c.GrownHP, &c.CurrentHP, &c.Caps.Element, &c.Caps.HP,
		&c.Optimal.Temperature, &c.Optimal.Humidity, &c.Optimal.LightOrDepth, &moves,
		&rec.Environment.Temperature, &rec.Environment.Humidity, &rec.Environment.LightOrDepth,
		&updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCreatureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading slot %q: %w", slotID, err)
	}
	c.Attribute = element.Attribute(attr)
	c.WeakAttribute = element.Attribute(weak)
	if err := json.Unmarshal([]byte(grown), &c.Grown); err != nil {
		return nil, fmt.Errorf("decoding grown for slot %q: %w", slotID, err)
	}
	if err := json.Unmarshal([]byte(counters), &c.Counters); err != nil {
		return nil, fmt.Errorf("decoding counters for slot %q: %w", slotID, err)
	}
	if err := json.Unmarshal([]byte(moves), &c.Moves); err != nil {
		return nil, fmt.Errorf("decoding moves for slot %q: %w", slotID, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("decoding updated_at for slot %q: %w", slotID, err)
	}
	c.Repair()

	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id, instance_id FROM slot_items WHERE slot_id = ? ORDER BY seq ASC`, slotID)
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

// Save implements slot.Store.
//
// Precondition: rec.Creature must be non-nil.
func (r *CreatureRepository) Save(ctx context.Context, rec *slot.Record) error {
	c := rec.Creature
	grown, err := json.Marshal(nonNil(c.Grown))
	if err != nil {
		return fmt.Errorf("encoding grown: %w", err)
	}
	counters, err := json.Marshal(nonNil(c.Counters))
	if err != nil {
		return fmt.Errorf("encoding counters: %w", err)
	}
	moves := c.Moves
	if moves == nil {
		moves = []string{}
	}
	movesJSON, err := json.Marshal(moves)
	if err != nil {
		return fmt.Errorf("encoding moves: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO slots
			(slot_id, species_id, name, attribute, weak_attribute, best_area_id,
			 base_attack, base_magic, base_counter, base_recover, base_hp,
			 grown, counters, grown_hp, current_hp, cap_element, cap_hp,
			 optimal_temperature, optimal_humidity, optimal_light_or_depth, moves,
			 env_temperature, env_humidity, env_light_or_depth, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (slot_id) DO UPDATE SET
			species_id = excluded.species_id, name = excluded.name,
			attribute = excluded.attribute, weak_attribute = excluded.weak_attribute,
			best_area_id = excluded.best_area_id,
			base_attack = excluded.base_attack, base_magic = excluded.base_magic,
			base_counter = excluded.base_counter, base_recover = excluded.base_recover,
			base_hp = excluded.base_hp, grown = excluded.grown, counters = excluded.counters,
			grown_hp = excluded.grown_hp, current_hp = excluded.current_hp,
			cap_element = excluded.cap_element, cap_hp = excluded.cap_hp,
			optimal_temperature = excluded.optimal_temperature,
			optimal_humidity = excluded.optimal_humidity,
			optimal_light_or_depth = excluded.optimal_light_or_depth,
			moves = excluded.moves,
			env_temperature = excluded.env_temperature,
			env_humidity = excluded.env_humidity,
			env_light_or_depth = excluded.env_light_or_depth,
			updated_at = excluded.updated_at`,
		rec.SlotID, c.SpeciesID, c.Name, string(c.Attribute), string(c.WeakAttribute), c.BestAreaID,
		c.Base.Attack, c.Base.Magic, c.Base.Counter, c.Base.Recover, c.BaseHP,
		string(grown), string(counters), c.GrownHP, c.CurrentHP, c.Caps.Element, c.Caps.HP,
		c.Optimal.Temperature, c.Optimal.Humidity, c.Optimal.LightOrDepth, string(movesJSON),
		rec.Environment.Temperature, rec.Environment.Humidity, rec.Environment.LightOrDepth,
		rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting slot %q: %w", rec.SlotID, err)
	}
	for i, g := range rec.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO slot_items (instance_id, slot_id, item_id, seq)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (instance_id) DO NOTHING`,
			g.InstanceID, rec.SlotID, g.ItemID, i); err != nil {
			return fmt.Errorf("inserting item %q: %w", g.InstanceID, err)
		}
	}
	return tx.Commit()
}

// Delete removes the slot and its items.
//
// Postcondition: Returns ErrCreatureNotFound when slotID has no row.
func (r *CreatureRepository) Delete(ctx context.Context, slotID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE slot_id = ?`, slotID)
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", slotID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting slot %q: %w", slotID, err)
	}
	if n == 0 {
		return ErrCreatureNotFound
	}
	return nil
}

// List returns every stored slot id in ascending order.
func (r *CreatureRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slot_id FROM slots ORDER BY slot_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning slot id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nonNil(m map[element.Attribute]int) map[element.Attribute]int {
	if m == nil {
		return map[element.Attribute]int{}
	}
	return m
}
