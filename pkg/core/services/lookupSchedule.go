package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/cpf"
)

// ScheduleEntry is one event a volunteer is assigned to
type ScheduleEntry struct {
	Assignment model.Assignment
	Event      model.Event
	Assigned   int
}

// Schedule lists a volunteer's assignments from a given date on
type Schedule struct {
	Volunteer model.Volunteer
	Entries   []ScheduleEntry
}

// LookupSchedule returns the events on or after from that the volunteer
// identified by rawCPF is assigned to, with each event's fill count
func LookupSchedule(ctx context.Context, store AssignmentStore, logger *zap.Logger, ministryID, rawCPF string, from time.Time) (*Schedule, error) {
	volunteer, err := FindVolunteerByCPF(ctx, store, logger, ministryID, rawCPF)
	if err != nil {
		return nil, err
	}

	assignments, err := store.GetAssignmentsForVolunteer(ctx, volunteer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	from = model.CivilDate(from)
	schedule := &Schedule{Volunteer: *volunteer}
	var ids []string
	for _, a := range assignments {
		event, err := store.GetEvent(ctx, a.EventID)
		if err != nil {
			return nil, fmt.Errorf("failed to get event %s: %w", a.EventID, err)
		}
		if event.Date.Before(from) {
			continue
		}
		schedule.Entries = append(schedule.Entries, ScheduleEntry{Assignment: a, Event: *event})
		ids = append(ids, event.ID)
	}

	all, err := store.GetAssignmentsForEvents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get event assignments: %w", err)
	}
	counts := countByEvent(all)
	for i := range schedule.Entries {
		schedule.Entries[i].Assigned = counts[schedule.Entries[i].Event.ID]
	}

	sort.SliceStable(schedule.Entries, func(i, j int) bool {
		return schedule.Entries[i].Event.Date.Before(schedule.Entries[j].Event.Date)
	})

	logger.Debug("Schedule looked up",
		zap.String("cpf", cpf.Mask(volunteer.CPF)),
		zap.Int("entries", len(schedule.Entries)))
	return schedule, nil
}
