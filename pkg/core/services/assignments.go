package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/core/rules"
	"github.com/agendaccp/agenda-ccp/pkg/cpf"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// AssignmentStore is the subset of the store the assignment use cases need
type AssignmentStore interface {
	db.EventStore
	db.VolunteerStore
	db.AssignmentStore
}

// SetAssignments replaces the volunteers of an event with volunteerIDs.
// Every volunteer must be active, belong to the event's ministry and appear
// once; the set may not exceed the event's required count.
func SetAssignments(ctx context.Context, store AssignmentStore, logger *zap.Logger, eventID string, volunteerIDs []string) ([]model.Assignment, error) {
	event, err := store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	assignments := make([]model.Assignment, 0, len(volunteerIDs))
	for _, volunteerID := range volunteerIDs {
		if err := rules.CanAssign(eventID, volunteerID, assignments, event.RequiredCount); err != nil {
			return nil, fmt.Errorf("cannot assign volunteer %s: %w", volunteerID, err)
		}

		volunteer, err := store.GetVolunteer(ctx, volunteerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get volunteer: %w", err)
		}
		if volunteer.MinistryID != event.MinistryID {
			return nil, fmt.Errorf("%w: volunteer %s belongs to another ministry", ErrInvalidInput, volunteerID)
		}
		if !volunteer.IsActive() {
			return nil, fmt.Errorf("%w: %s", ErrInactiveVolunteer, volunteer.Name)
		}

		assignments = append(assignments, model.Assignment{
			ID:          uuid.New().String(),
			EventID:     eventID,
			VolunteerID: volunteerID,
		})
	}

	logger.Debug("Replacing assignments", zap.String("event_id", eventID), zap.Int("count", len(assignments)))
	if err := store.ReplaceAssignments(ctx, eventID, assignments); err != nil {
		return nil, fmt.Errorf("failed to replace assignments: %w", assignmentWriteError(err))
	}

	logger.Info("Assignments set",
		zap.String("event_id", eventID),
		zap.String("date", event.DateString()),
		zap.Int("assigned", len(assignments)),
		zap.Int("required", event.RequiredCount))
	return assignments, nil
}

// SelfAssign schedules the volunteer identified by rawCPF for an event of
// their ministry. Events dated before now are closed.
func SelfAssign(ctx context.Context, store AssignmentStore, logger *zap.Logger, eventID, rawCPF string, now time.Time) (*model.Assignment, error) {
	digits, err := parseCPF(rawCPF)
	if err != nil {
		return nil, err
	}

	event, err := store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if err := rules.IsUpcoming(*event, now); err != nil {
		logger.Debug("Self assignment rejected", zap.String("event_id", eventID), zap.String("date", event.DateString()))
		return nil, err
	}

	volunteer, err := store.GetVolunteerByCPF(ctx, event.MinistryID, digits)
	if err != nil {
		return nil, fmt.Errorf("failed to find volunteer: %w", err)
	}
	if !volunteer.IsActive() {
		return nil, fmt.Errorf("%w: %s", ErrInactiveVolunteer, volunteer.Name)
	}

	existing, err := store.GetAssignmentsForEvents(ctx, []string{eventID})
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	if err := rules.CanAssign(eventID, volunteer.ID, existing, event.RequiredCount); err != nil {
		logger.Debug("Self assignment rejected",
			zap.String("event_id", eventID),
			zap.String("volunteer_id", volunteer.ID),
			zap.Error(err))
		return nil, err
	}

	assignment := &model.Assignment{
		ID:          uuid.New().String(),
		EventID:     eventID,
		VolunteerID: volunteer.ID,
	}
	if err := store.InsertAssignment(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to insert assignment: %w", assignmentWriteError(err))
	}

	logger.Info("Volunteer self assigned",
		zap.String("event_id", eventID),
		zap.String("volunteer_id", volunteer.ID),
		zap.String("cpf", cpf.Mask(digits)))
	return assignment, nil
}

// CancelAssignment removes an assignment when rawCPF matches its volunteer
// and its event is not dated before now
func CancelAssignment(ctx context.Context, store AssignmentStore, logger *zap.Logger, assignmentID, rawCPF string, now time.Time) error {
	assignment, err := store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to get assignment: %w", err)
	}

	var known []model.Volunteer
	volunteer, err := store.GetVolunteer(ctx, assignment.VolunteerID)
	switch {
	case err == nil:
		known = append(known, *volunteer)
	case !errors.Is(err, db.ErrNotFound):
		return fmt.Errorf("failed to get volunteer: %w", err)
	}

	if err := rules.CanCancel(*assignment, rawCPF, rules.LookupFromSlice(known)); err != nil {
		logger.Debug("Cancellation rejected", zap.String("assignment_id", assignmentID), zap.Error(err))
		return err
	}

	event, err := store.GetEvent(ctx, assignment.EventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if err := rules.IsUpcoming(*event, now); err != nil {
		logger.Debug("Cancellation rejected", zap.String("assignment_id", assignmentID), zap.String("date", event.DateString()))
		return err
	}

	if err := store.DeleteAssignment(ctx, assignmentID); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	logger.Info("Assignment cancelled",
		zap.String("assignment_id", assignmentID),
		zap.String("event_id", assignment.EventID))
	return nil
}

// RosterEntry pairs an assignment with its volunteer
type RosterEntry struct {
	Assignment model.Assignment
	Volunteer  model.Volunteer
}

// Roster is the staffing of one event
type Roster struct {
	Event     model.Event
	Entries   []RosterEntry
	OpenSlots int
}

// EventRoster returns the volunteers assigned to an event
func EventRoster(ctx context.Context, store AssignmentStore, logger *zap.Logger, eventID string) (*Roster, error) {
	event, err := store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	assignments, err := store.GetAssignmentsForEvents(ctx, []string{eventID})
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	volunteers, err := store.GetVolunteers(ctx, event.MinistryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteers: %w", err)
	}
	lookup := rules.LookupFromSlice(volunteers)

	roster := &Roster{
		Event:     *event,
		OpenSlots: rules.OpenSlots(eventID, assignments, event.RequiredCount),
	}
	for _, a := range assignments {
		v, ok := lookup(a.VolunteerID)
		if !ok {
			logger.Warn("Assignment references unknown volunteer",
				zap.String("assignment_id", a.ID),
				zap.String("volunteer_id", a.VolunteerID))
			continue
		}
		roster.Entries = append(roster.Entries, RosterEntry{Assignment: a, Volunteer: v})
	}

	return roster, nil
}
