package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/core/rules"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// BatchResult reports a bulk creation: Created holds the stored events and
// Conflicts the dates skipped because they already had events
type BatchResult struct {
	Created   []model.Event
	Conflicts []rules.DateConflict
}

// ConflictDates returns the skipped dates as YYYY-MM-DD strings
func (r BatchResult) ConflictDates() []string {
	return rules.BatchPlan{Conflicts: r.Conflicts}.ConflictDates()
}

// CreateEventsForDates creates the services for each candidate date. Every
// date is checked on its own: dates that already hold events for the ministry
// are reported in Conflicts while the others are still created. Sundays get a
// morning and an evening service.
func CreateEventsForDates(ctx context.Context, store db.EventStore, logger *zap.Logger, ministryID string, dates []time.Time, requiredCount int) (*BatchResult, error) {
	if requiredCount < 1 {
		return nil, fmt.Errorf("%w: required count must be positive, got %d", ErrInvalidInput, requiredCount)
	}
	if len(dates) == 0 {
		return &BatchResult{}, nil
	}

	from, to := dateSpan(dates)
	logger.Debug("Fetching existing events",
		zap.String("ministry_id", ministryID),
		zap.String("from", from.Format(model.DateLayout)),
		zap.String("to", to.Format(model.DateLayout)))

	existing, err := store.GetEvents(ctx, ministryID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch existing events: %w", err)
	}

	plan := rules.PlanEvents(ministryID, dates, existing, requiredCount)
	for i := range plan.Events {
		plan.Events[i].ID = uuid.New().String()
	}

	if len(plan.Conflicts) > 0 {
		logger.Info("Skipping dates that already have events", zap.Strings("dates", plan.ConflictDates()))
	}

	if err := store.InsertEvents(ctx, plan.Events); err != nil {
		return nil, fmt.Errorf("failed to insert events: %w", err)
	}

	logger.Info("Events created",
		zap.String("ministry_id", ministryID),
		zap.Int("created", len(plan.Events)),
		zap.Int("conflicts", len(plan.Conflicts)))

	return &BatchResult{Created: plan.Events, Conflicts: plan.Conflicts}, nil
}

// CreateMonthEvents creates the services of a calendar month on the days
// selected by serviceDaysRRule (for example "FREQ=WEEKLY;BYDAY=WE,SU")
func CreateMonthEvents(ctx context.Context, store db.EventStore, logger *zap.Logger, ministryID string, year int, month time.Month, serviceDaysRRule string, requiredCount int) (*BatchResult, error) {
	dates, err := MonthServiceDates(year, month, serviceDaysRRule)
	if err != nil {
		return nil, err
	}

	logger.Debug("Service days for month",
		zap.Int("year", year),
		zap.String("month", month.String()),
		zap.Int("dates", len(dates)))

	return CreateEventsForDates(ctx, store, logger, ministryID, dates, requiredCount)
}

// MonthServiceDates expands an RRULE over one calendar month
func MonthServiceDates(year int, month time.Month, serviceDaysRRule string) ([]time.Time, error) {
	opt, err := rrule.StrToROption(serviceDaysRRule)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse service days rrule: %w", ErrInvalidInput, err)
	}

	first, next := db.MonthRange(year, month)
	last := next.AddDate(0, 0, -1)
	opt.Dtstart = first

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build service days rrule: %w", ErrInvalidInput, err)
	}

	var dates []time.Time
	for _, occurrence := range rule.Between(first, last, true) {
		if occurrence.Month() == month {
			dates = append(dates, model.CivilDate(occurrence))
		}
	}
	return dates, nil
}

// dateSpan returns [earliest, latest+1 day) over dates
func dateSpan(dates []time.Time) (time.Time, time.Time) {
	days := make([]time.Time, len(dates))
	for i, d := range dates {
		days[i] = model.CivilDate(d)
	}
	from := slices.MinFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	to := slices.MaxFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	return from, to.AddDate(0, 0, 1)
}
