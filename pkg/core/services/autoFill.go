package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/allocator"
	"github.com/agendaccp/agenda-ccp/pkg/core/allocator/criteria"
	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// AutoFillResult describes the proposals for a month and what was stored
type AutoFillResult struct {
	Proposals []allocator.Proposal

	// Written holds the assignments the store accepted
	Written []model.Assignment

	// Rejected holds the proposals the store refused at write time
	Rejected []RejectedProposal

	Unfilled         []*allocator.Slot
	ValidationErrors []allocator.ValidationError

	// Load maps volunteer ID to events served in the month once the
	// proposals are in, for every active volunteer
	Load map[string]int
}

// RejectedProposal is a proposal the store refused, with its reason
type RejectedProposal struct {
	Proposal allocator.Proposal
	Err      error
}

// AutoFillMonth proposes active volunteers for the open slots of a ministry's
// month, preferring those who served least last month. Unless dryRun is set
// the proposals are written one by one; the store stays authoritative, so
// capacity or duplicate rejections are collected rather than fatal.
func AutoFillMonth(ctx context.Context, store PublishScheduleStore, logger *zap.Logger, ministryID string, year int, month time.Month, maxPerVolunteer int, dryRun bool) (*AutoFillResult, error) {
	from, to := db.MonthRange(year, month)
	events, err := store.GetEvents(ctx, ministryID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	assignments, err := store.GetAssignmentsForEvents(ctx, eventIDs(events))
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	volunteers, err := store.GetVolunteers(ctx, ministryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteers: %w", err)
	}

	history, err := previousMonthCounts(ctx, store, ministryID, year, month)
	if err != nil {
		return nil, err
	}

	assignedByEvent := make(map[string][]string)
	for _, a := range assignments {
		assignedByEvent[a.EventID] = append(assignedByEvent[a.EventID], a.VolunteerID)
	}

	config := allocator.Config{
		Criteria:        criteria.Defaults(),
		MaxPerVolunteer: maxPerVolunteer,
		WeightFairness:  allocator.DefaultWeightFairness,
	}
	for _, e := range events {
		config.Events = append(config.Events, allocator.EventInput{
			ID:                   e.ID,
			Date:                 e.Date,
			Title:                e.Title,
			Size:                 e.RequiredCount,
			AssignedVolunteerIDs: assignedByEvent[e.ID],
		})
	}
	for _, v := range volunteers {
		if !v.IsActive() {
			continue
		}
		config.Volunteers = append(config.Volunteers, allocator.VolunteerInput{
			ID:              v.ID,
			Name:            v.Name,
			HistoricalCount: history[v.ID],
		})
	}

	logger.Debug("Allocating month",
		zap.String("ministry_id", ministryID),
		zap.Int("year", year),
		zap.String("month", month.String()),
		zap.Int("events", len(config.Events)),
		zap.Int("candidates", len(config.Volunteers)))

	outcome, err := allocator.Allocate(config)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate: %w", err)
	}

	result := &AutoFillResult{
		Proposals:        outcome.Proposals,
		Written:          []model.Assignment{},
		Rejected:         []RejectedProposal{},
		Unfilled:         outcome.Unfilled,
		ValidationErrors: outcome.ValidationErrors,
		Load:             outcome.Load,
	}

	if dryRun {
		logger.Info("Auto fill dry run",
			zap.Int("proposals", len(result.Proposals)),
			zap.Int("unfilled", len(result.Unfilled)))
		return result, nil
	}

	for _, p := range outcome.Proposals {
		assignment := model.Assignment{
			ID:          uuid.New().String(),
			EventID:     p.EventID,
			VolunteerID: p.VolunteerID,
		}
		if err := store.InsertAssignment(ctx, &assignment); err != nil {
			if errors.Is(err, db.ErrCapacityReached) || errors.Is(err, db.ErrDuplicate) {
				logger.Warn("Proposal rejected by store",
					zap.String("event_id", p.EventID),
					zap.String("volunteer_id", p.VolunteerID),
					zap.Error(err))
				result.Rejected = append(result.Rejected, RejectedProposal{Proposal: p, Err: assignmentWriteError(err)})
				continue
			}
			return nil, fmt.Errorf("failed to insert assignment: %w", err)
		}
		result.Written = append(result.Written, assignment)
	}

	logger.Info("Auto fill complete",
		zap.String("ministry_id", ministryID),
		zap.Int("written", len(result.Written)),
		zap.Int("rejected", len(result.Rejected)),
		zap.Int("unfilled", len(result.Unfilled)))
	return result, nil
}

// previousMonthCounts counts each volunteer's assignments in the month before
func previousMonthCounts(ctx context.Context, store PublishScheduleStore, ministryID string, year int, month time.Month) (map[string]int, error) {
	prev := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	from, to := db.MonthRange(prev.Year(), prev.Month())

	events, err := store.GetEvents(ctx, ministryID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get previous month events: %w", err)
	}
	if len(events) == 0 {
		return map[string]int{}, nil
	}

	assignments, err := store.GetAssignmentsForEvents(ctx, eventIDs(events))
	if err != nil {
		return nil, fmt.Errorf("failed to get previous month assignments: %w", err)
	}
	return countByVolunteer(assignments), nil
}

func countByVolunteer(assignments []model.Assignment) map[string]int {
	counts := make(map[string]int)
	for _, a := range assignments {
		counts[a.VolunteerID]++
	}
	return counts
}
