package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// GetAnnouncements retrieves the announcements of a ministry, newest first
func (d *DB) GetAnnouncements(ctx context.Context, ministryID string) ([]model.Announcement, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, title, content, active, ministry_id, created_at
		FROM announcement
		WHERE ministry_id = $1
		ORDER BY created_at DESC
	`, ministryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query announcements: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[db.Announcement])
	if err != nil {
		return nil, fmt.Errorf("failed to scan announcements: %w", err)
	}

	announcements := make([]model.Announcement, len(records))
	for i, r := range records {
		announcements[i] = db.AnnouncementToModel(r)
	}
	return announcements, nil
}

// InsertAnnouncement inserts a new announcement record and sets CreatedAt
func (d *DB) InsertAnnouncement(ctx context.Context, announcement *model.Announcement) error {
	r := db.AnnouncementFromModel(*announcement)
	err := d.pool.QueryRow(ctx, `
		INSERT INTO announcement (id, title, content, active, ministry_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, r.ID, r.Title, r.Content, r.Active, r.MinistryID).Scan(&announcement.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert announcement: %w", mapError(err))
	}
	return nil
}

// SetAnnouncementActive shows or hides an announcement
func (d *DB) SetAnnouncementActive(ctx context.Context, id string, active bool) error {
	tag, err := d.pool.Exec(ctx, `UPDATE announcement SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	return expectOne(tag, "announcement", id)
}

// DeleteAnnouncement deletes an announcement
func (d *DB) DeleteAnnouncement(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM announcement WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	return expectOne(tag, "announcement", id)
}
