package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// EventInput holds the fields of a single event created by an administrator
type EventInput struct {
	Date          time.Time
	Title         string
	Description   string
	RequiredCount int
}

// CreateEvent creates one event. Unlike bulk creation it does not refuse
// dates that already hold events, so extra services can be added by hand.
func CreateEvent(ctx context.Context, store db.EventStore, logger *zap.Logger, ministryID string, in EventInput) (*model.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: event title is required", ErrInvalidInput)
	}
	if in.RequiredCount < 1 {
		return nil, fmt.Errorf("%w: required count must be positive, got %d", ErrInvalidInput, in.RequiredCount)
	}

	events := []model.Event{{
		ID:            uuid.New().String(),
		Date:          model.CivilDate(in.Date),
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		RequiredCount: in.RequiredCount,
		MinistryID:    ministryID,
	}}

	if err := store.InsertEvents(ctx, events); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	logger.Info("Event created",
		zap.String("event_id", events[0].ID),
		zap.String("date", events[0].DateString()),
		zap.String("title", title))
	return &events[0], nil
}

// DeleteEvent removes an event together with its assignments
func DeleteEvent(ctx context.Context, store db.EventStore, logger *zap.Logger, eventID string) error {
	if err := store.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	logger.Info("Event deleted", zap.String("event_id", eventID))
	return nil
}

// EventSummary is an event with its current fill count
type EventSummary struct {
	Event    model.Event
	Assigned int
}

// OpenSlots is how many volunteers the event can still take
func (s EventSummary) OpenSlots() int {
	return max(s.Event.RequiredCount-s.Assigned, 0)
}

// ListEventsStore is the subset of the store ListEvents needs
type ListEventsStore interface {
	db.EventStore
	db.AssignmentStore
}

// ListEvents returns the events of a ministry in a calendar month, ordered
// by date, with their fill counts
func ListEvents(ctx context.Context, store ListEventsStore, logger *zap.Logger, ministryID string, year int, month time.Month) ([]EventSummary, error) {
	from, to := db.MonthRange(year, month)
	events, err := store.GetEvents(ctx, ministryID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	assignments, err := store.GetAssignmentsForEvents(ctx, eventIDs(events))
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	counts := countByEvent(assignments)
	summaries := make([]EventSummary, len(events))
	for i, e := range events {
		summaries[i] = EventSummary{Event: e, Assigned: counts[e.ID]}
	}

	logger.Debug("Listed events",
		zap.String("ministry_id", ministryID),
		zap.String("month", from.Format("2006-01")),
		zap.Int("count", len(summaries)))
	return summaries, nil
}

func eventIDs(events []model.Event) []string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}

func countByEvent(assignments []model.Assignment) map[string]int {
	counts := make(map[string]int)
	for _, a := range assignments {
		counts[a.EventID]++
	}
	return counts
}
