package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

const volunteerColumns = `id, name, cpf, status, ministry_id, created_at`

// GetVolunteers retrieves the volunteers of a ministry ordered by name
func (d *DB) GetVolunteers(ctx context.Context, ministryID string) ([]model.Volunteer, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+volunteerColumns+`
		FROM volunteer
		WHERE ministry_id = $1
		ORDER BY name
	`, ministryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteers: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[db.Volunteer])
	if err != nil {
		return nil, fmt.Errorf("failed to scan volunteers: %w", err)
	}

	return db.VolunteersToModel(records)
}

// GetVolunteer retrieves a volunteer by ID
func (d *DB) GetVolunteer(ctx context.Context, id string) (*model.Volunteer, error) {
	return d.getVolunteer(ctx, `WHERE id = $1`, id)
}

// GetVolunteerByCPF retrieves a volunteer of a ministry by normalized CPF
func (d *DB) GetVolunteerByCPF(ctx context.Context, ministryID, cpf string) (*model.Volunteer, error) {
	return d.getVolunteer(ctx, `WHERE ministry_id = $1 AND cpf = $2`, ministryID, cpf)
}

func (d *DB) getVolunteer(ctx context.Context, where string, args ...any) (*model.Volunteer, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+volunteerColumns+` FROM volunteer `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteer: %w", err)
	}

	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[db.Volunteer])
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", mapError(err))
	}

	v, err := db.VolunteerToModel(record)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// InsertVolunteer inserts a new volunteer record and sets CreatedAt.
// A CPF already registered in the ministry yields db.ErrDuplicate.
func (d *DB) InsertVolunteer(ctx context.Context, volunteer *model.Volunteer) error {
	r := db.VolunteerFromModel(*volunteer)
	err := d.pool.QueryRow(ctx, `
		INSERT INTO volunteer (id, name, cpf, status, ministry_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, r.ID, r.Name, r.CPF, r.Status, r.MinistryID).Scan(&volunteer.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert volunteer: %w", mapError(err))
	}
	return nil
}

// UpdateVolunteer updates name, cpf and status of a volunteer
func (d *DB) UpdateVolunteer(ctx context.Context, volunteer *model.Volunteer) error {
	r := db.VolunteerFromModel(*volunteer)
	tag, err := d.pool.Exec(ctx, `
		UPDATE volunteer SET name = $2, cpf = $3, status = $4
		WHERE id = $1
	`, r.ID, r.Name, r.CPF, r.Status)
	if err != nil {
		return fmt.Errorf("failed to update volunteer: %w", mapError(err))
	}
	return expectOne(tag, "volunteer", r.ID)
}

// DeleteVolunteer deletes a volunteer; its assignments cascade
func (d *DB) DeleteVolunteer(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM volunteer WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete volunteer: %w", err)
	}
	return expectOne(tag, "volunteer", id)
}
