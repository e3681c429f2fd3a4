package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

const eventColumns = `id, date, title, description, required_count, ministry_id, created_at`

// GetEvents retrieves the events of a ministry with from <= date < to
func (d *DB) GetEvents(ctx context.Context, ministryID string, from, to time.Time) ([]model.Event, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM event
		WHERE ministry_id = $1 AND date >= $2 AND date < $3
		ORDER BY date, title
	`, ministryID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[db.Event])
	if err != nil {
		return nil, fmt.Errorf("failed to scan events: %w", err)
	}

	return db.EventsToModel(records)
}

// GetEvent retrieves an event by ID
func (d *DB) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+eventColumns+` FROM event WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}

	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[db.Event])
	if err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", id, mapError(err))
	}

	e, err := db.EventToModel(record)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// InsertEvents inserts event records in a single transaction
func (d *DB) InsertEvents(ctx context.Context, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	return d.withTx(ctx, func(tx pgx.Tx) error {
		for i := range events {
			r := db.EventFromModel(events[i])
			err := tx.QueryRow(ctx, `
				INSERT INTO event (id, date, title, description, required_count, ministry_id)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING created_at
			`, r.ID, r.Date, r.Title, r.Description, r.RequiredCount, r.MinistryID).Scan(&events[i].CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert event: %w", mapError(err))
			}
		}
		return nil
	})
}

// DeleteEvent deletes an event; its assignments cascade
func (d *DB) DeleteEvent(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM event WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return expectOne(tag, "event", id)
}
