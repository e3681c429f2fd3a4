package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// GetMinistries retrieves all ministry records ordered by name
func (d *DB) GetMinistries(ctx context.Context) ([]model.Ministry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, kind, description, created_at
		FROM ministry
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ministries: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[db.Ministry])
	if err != nil {
		return nil, fmt.Errorf("failed to scan ministries: %w", err)
	}

	ministries := make([]model.Ministry, len(records))
	for i, r := range records {
		ministries[i] = db.MinistryToModel(r)
	}
	return ministries, nil
}

// GetMinistry retrieves a ministry by ID
func (d *DB) GetMinistry(ctx context.Context, id string) (*model.Ministry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, kind, description, created_at
		FROM ministry
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query ministry: %w", err)
	}

	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[db.Ministry])
	if err != nil {
		return nil, fmt.Errorf("failed to get ministry %s: %w", id, mapError(err))
	}

	m := db.MinistryToModel(record)
	return &m, nil
}

// InsertMinistry inserts a new ministry record and sets CreatedAt
func (d *DB) InsertMinistry(ctx context.Context, ministry *model.Ministry) error {
	r := db.MinistryFromModel(*ministry)
	err := d.pool.QueryRow(ctx, `
		INSERT INTO ministry (id, name, kind, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, r.ID, r.Name, r.Kind, r.Description).Scan(&ministry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ministry: %w", mapError(err))
	}
	return nil
}
