package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"petsim/internal/pet"
	"petsim/internal/roster"
)

// Keys in petsim_kv
const (
	KeyRoster   = "pets"
	KeySelected = "selected_pet"
	KeyLegacy   = "pet"
)

// Port keeps the same three keys as the file port, one row each.
type Port struct {
	db *sql.DB
}

func NewPort(db *sql.DB) *Port {
	return &Port{db: db}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q querier, key string, v any) error {
	var raw []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM petsim_kv WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("select %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func put(ctx context.Context, tx *sql.Tx, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO petsim_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, raw)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (p *Port) Load(ctx context.Context) (roster.Roster, error) {
	var r roster.Roster
	if err := get(ctx, p.db, KeyRoster, &r.Pets); err != nil {
		return roster.Roster{}, err
	}
	if err := get(ctx, p.db, KeySelected, &r.SelectedID); err != nil && !errors.Is(err, roster.ErrNotFound) {
		return roster.Roster{}, err
	}
	return r, nil
}

func (p *Port) LoadLegacy(ctx context.Context) (pet.State, error) {
	var s pet.State
	if err := get(ctx, p.db, KeyLegacy, &s); err != nil {
		return pet.State{}, err
	}
	return s, nil
}

// Save writes the roster and the selection in one transaction.
func (p *Port) Save(ctx context.Context, r roster.Roster) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	pets := r.Pets
	if pets == nil {
		pets = []pet.State{}
	}
	if err := put(ctx, tx, KeyRoster, pets); err != nil {
		return err
	}
	if err := put(ctx, tx, KeySelected, r.SelectedID); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *Port) Clear(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM petsim_kv WHERE key IN ($1, $2)`, KeyRoster, KeySelected)
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}
