package rules

import (
	"fmt"
	"sort"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
)

// Violation describes a stored assignment state that breaks an invariant.
// The pre-write checks are not atomic, so concurrent writes can leave these behind.
type Violation struct {
	EventID     string
	EventDate   string
	Rule        string
	Description string
}

const (
	RuleCapacity  = "Capacity"
	RuleUnique    = "UniqueAssignment"
	RuleReference = "Reference"
)

// ValidateSchedule checks stored assignments against their events.
// Returns an empty slice when every event is within capacity, every
// (event, volunteer) pair is unique and every assignment points at a known event.
func ValidateSchedule(events []model.Event, assignments []model.Assignment) []Violation {
	var violations []Violation

	eventsByID := make(map[string]model.Event, len(events))
	for _, e := range events {
		eventsByID[e.ID] = e
	}

	byEvent := make(map[string][]model.Assignment)
	for _, a := range assignments {
		if _, ok := eventsByID[a.EventID]; !ok {
			violations = append(violations, Violation{
				EventID:     a.EventID,
				Rule:        RuleReference,
				Description: fmt.Sprintf("assignment %s points at unknown event %s", a.ID, a.EventID),
			})
			continue
		}
		byEvent[a.EventID] = append(byEvent[a.EventID], a)
	}

	for _, e := range events {
		eventAssignments := byEvent[e.ID]

		if len(eventAssignments) > e.RequiredCount {
			violations = append(violations, Violation{
				EventID:   e.ID,
				EventDate: e.DateString(),
				Rule:      RuleCapacity,
				Description: fmt.Sprintf("event %q has %d assignments but requires %d",
					e.Title, len(eventAssignments), e.RequiredCount),
			})
		}

		seen := make(map[string]int)
		for _, a := range eventAssignments {
			seen[a.VolunteerID]++
		}
		for volunteerID, n := range seen {
			if n > 1 {
				violations = append(violations, Violation{
					EventID:     e.ID,
					EventDate:   e.DateString(),
					Rule:        RuleUnique,
					Description: fmt.Sprintf("volunteer %s assigned %d times to event %q", volunteerID, n, e.Title),
				})
			}
		}
	}

	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].EventDate != violations[j].EventDate {
			return violations[i].EventDate < violations[j].EventDate
		}
		return violations[i].Rule < violations[j].Rule
	})

	return violations
}
