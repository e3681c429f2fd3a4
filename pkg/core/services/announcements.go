package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// CreateAnnouncement publishes a notice to a ministry's volunteers
func CreateAnnouncement(ctx context.Context, store db.AnnouncementStore, logger *zap.Logger, ministryID, title, content string) (*model.Announcement, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: announcement title and content are required", ErrInvalidInput)
	}

	announcement := &model.Announcement{
		ID:         uuid.New().String(),
		Title:      title,
		Content:    content,
		Active:     true,
		MinistryID: ministryID,
	}
	if err := store.InsertAnnouncement(ctx, announcement); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	logger.Info("Announcement created", zap.String("announcement_id", announcement.ID), zap.String("title", title))
	return announcement, nil
}

// ListAnnouncements returns a ministry's announcements, newest first
func ListAnnouncements(ctx context.Context, store db.AnnouncementStore, logger *zap.Logger, ministryID string, activeOnly bool) ([]model.Announcement, error) {
	announcements, err := store.GetAnnouncements(ctx, ministryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}

	if activeOnly {
		active := announcements[:0:0]
		for _, a := range announcements {
			if a.Active {
				active = append(active, a)
			}
		}
		announcements = active
	}

	logger.Debug("Listed announcements", zap.String("ministry_id", ministryID), zap.Int("count", len(announcements)))
	return announcements, nil
}

// SetAnnouncementActive shows or hides an announcement
func SetAnnouncementActive(ctx context.Context, store db.AnnouncementStore, logger *zap.Logger, announcementID string, active bool) error {
	if err := store.SetAnnouncementActive(ctx, announcementID, active); err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}
	logger.Info("Announcement updated", zap.String("announcement_id", announcementID), zap.Bool("active", active))
	return nil
}

// DeleteAnnouncement removes an announcement
func DeleteAnnouncement(ctx context.Context, store db.AnnouncementStore, logger *zap.Logger, announcementID string) error {
	if err := store.DeleteAnnouncement(ctx, announcementID); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	logger.Info("Announcement deleted", zap.String("announcement_id", announcementID))
	return nil
}
