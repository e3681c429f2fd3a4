package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// GetAssignment retrieves an assignment by ID
func (d *DB) GetAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, event_id, volunteer_id, created_at
		FROM assignment
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignment: %w", err)
	}

	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[db.Assignment])
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment %s: %w", id, mapError(err))
	}

	a := db.AssignmentToModel(record)
	return &a, nil
}

// GetAssignmentsForEvents retrieves the assignments of the given events
func (d *DB) GetAssignmentsForEvents(ctx context.Context, eventIDs []string) ([]model.Assignment, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}

	rows, err := d.pool.Query(ctx, `
		SELECT id, event_id, volunteer_id, created_at
		FROM assignment
		WHERE event_id = ANY($1::uuid[])
		ORDER BY created_at
	`, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.EventID, &a.VolunteerID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// GetAssignmentsForVolunteer retrieves the assignments of a volunteer
func (d *DB) GetAssignmentsForVolunteer(ctx context.Context, volunteerID string) ([]model.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT a.id, a.event_id, a.volunteer_id, a.created_at
		FROM assignment a
		JOIN event e ON e.id = a.event_id
		WHERE a.volunteer_id = $1
		ORDER BY e.date
	`, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[db.Assignment])
	if err != nil {
		return nil, fmt.Errorf("failed to scan assignments: %w", err)
	}

	assignments := make([]model.Assignment, len(records))
	for i, r := range records {
		assignments[i] = db.AssignmentToModel(r)
	}
	return assignments, nil
}

// InsertAssignment inserts an assignment after locking its event row and
// re-counting, so concurrent self-assignments cannot overfill an event.
// Returns db.ErrCapacityReached when full and db.ErrDuplicate when the
// volunteer is already assigned.
func (d *DB) InsertAssignment(ctx context.Context, assignment *model.Assignment) error {
	r := db.AssignmentFromModel(*assignment)

	return d.withTx(ctx, func(tx pgx.Tx) error {
		var required int
		err := tx.QueryRow(ctx, `
			SELECT required_count FROM event WHERE id = $1 FOR UPDATE
		`, r.EventID).Scan(&required)
		if err != nil {
			return fmt.Errorf("failed to lock event %s: %w", r.EventID, mapError(err))
		}

		// Count the event's assignments and whether the volunteer already holds one
		var count, own int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*), COUNT(*) FILTER (WHERE volunteer_id = $2)
			FROM assignment WHERE event_id = $1
		`, r.EventID, r.VolunteerID).Scan(&count, &own)
		if err != nil {
			return fmt.Errorf("failed to count assignments: %w", err)
		}
		if own > 0 {
			return fmt.Errorf("volunteer %s on event %s: %w", r.VolunteerID, r.EventID, db.ErrDuplicate)
		}
		if count >= required {
			return fmt.Errorf("event %s has %d of %d: %w", r.EventID, count, required, db.ErrCapacityReached)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO assignment (id, event_id, volunteer_id)
			VALUES ($1, $2, $3)
			RETURNING created_at
		`, r.ID, r.EventID, r.VolunteerID).Scan(&assignment.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", mapError(err))
		}
		return nil
	})
}

// ReplaceAssignments replaces the full set of assignments of an event
func (d *DB) ReplaceAssignments(ctx context.Context, eventID string, assignments []model.Assignment) error {
	return d.withTx(ctx, func(tx pgx.Tx) error {
		var required int
		err := tx.QueryRow(ctx, `
			SELECT required_count FROM event WHERE id = $1 FOR UPDATE
		`, eventID).Scan(&required)
		if err != nil {
			return fmt.Errorf("failed to lock event %s: %w", eventID, mapError(err))
		}
		if len(assignments) > required {
			return fmt.Errorf("event %s takes %d, got %d: %w", eventID, required, len(assignments), db.ErrCapacityReached)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM assignment WHERE event_id = $1`, eventID); err != nil {
			return fmt.Errorf("failed to clear assignments: %w", err)
		}

		for i := range assignments {
			r := db.AssignmentFromModel(assignments[i])
			err := tx.QueryRow(ctx, `
				INSERT INTO assignment (id, event_id, volunteer_id)
				VALUES ($1, $2, $3)
				RETURNING created_at
			`, r.ID, eventID, r.VolunteerID).Scan(&assignments[i].CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert assignment: %w", mapError(err))
			}
		}
		return nil
	})
}

// DeleteAssignment deletes an assignment
func (d *DB) DeleteAssignment(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM assignment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return expectOne(tag, "assignment", id)
}
