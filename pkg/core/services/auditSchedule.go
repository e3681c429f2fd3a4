package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/rules"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// AuditSchedule checks the stored events and assignments of a month for
// over-filled events, duplicate assignments and dangling references
func AuditSchedule(ctx context.Context, store ListEventsStore, logger *zap.Logger, ministryID string, year int, month time.Month) ([]rules.Violation, error) {
	from, to := db.MonthRange(year, month)
	events, err := store.GetEvents(ctx, ministryID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	assignments, err := store.GetAssignmentsForEvents(ctx, eventIDs(events))
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	violations := rules.ValidateSchedule(events, assignments)
	if len(violations) > 0 {
		logger.Warn("Schedule audit found violations",
			zap.String("month", from.Format("2006-01")),
			zap.Int("violations", len(violations)))
	} else {
		logger.Info("Schedule audit passed",
			zap.String("month", from.Format("2006-01")),
			zap.Int("events", len(events)),
			zap.Int("assignments", len(assignments)))
	}
	return violations, nil
}
