package rules

import (
	"fmt"
	"time"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
)

var weekdayNames = [...]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda",
	time.Tuesday:   "Terça",
	time.Wednesday: "Quarta",
	time.Thursday:  "Quinta",
	time.Friday:    "Sexta",
	time.Saturday:  "Sábado",
}

// WeekdayName returns the Portuguese name of d ("Domingo", "Segunda", ...)
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

const (
	celebrationTitle   = "Culto de Celebração"
	regularDescription = "Culto regular"
)

// EventDraft is an event that has not been persisted yet
type EventDraft struct {
	Date        time.Time
	Title       string
	Description string
}

// EventsForDate returns the services held on date: a morning and an evening
// celebration on Sundays, one regular service named after the weekday otherwise.
func EventsForDate(date time.Time) []EventDraft {
	day := model.CivilDate(date)

	if day.Weekday() == time.Sunday {
		return []EventDraft{
			{Date: day, Title: celebrationTitle + " - Manhã", Description: celebrationTitle + " - Manhã"},
			{Date: day, Title: celebrationTitle + " - Noite", Description: celebrationTitle + " - Noite"},
		}
	}

	return []EventDraft{{
		Date:        day,
		Title:       fmt.Sprintf("Culto Regular de %s", WeekdayName(day.Weekday())),
		Description: regularDescription,
	}}
}

// DateConflict reports a candidate date that already has an event for the owner
type DateConflict struct {
	Date     time.Time
	Existing []model.Event
}

func (c DateConflict) Error() string {
	return fmt.Sprintf("%s: %v", c.Date.Format(model.DateLayout), ErrDateConflict)
}

func (c DateConflict) Unwrap() error {
	return ErrDateConflict
}

// BatchPlan is the outcome of checking a batch of candidate dates.
// Dates are independent: conflicts never block the remaining dates.
type BatchPlan struct {
	Events    []model.Event
	Conflicts []DateConflict
}

// PlanEvents builds the events to create for dates on behalf of ownerID.
// A date conflicts when existing holds any event of the same owner on that
// calendar date. Repeated candidate dates are planned once.
func PlanEvents(ownerID string, dates []time.Time, existing []model.Event, requiredCount int) BatchPlan {
	byDate := make(map[time.Time][]model.Event)
	for _, e := range existing {
		if e.MinistryID != ownerID {
			continue
		}
		day := model.CivilDate(e.Date)
		byDate[day] = append(byDate[day], e)
	}

	var plan BatchPlan
	seen := make(map[time.Time]bool, len(dates))
	for _, date := range dates {
		day := model.CivilDate(date)
		if seen[day] {
			continue
		}
		seen[day] = true

		if conflicting := byDate[day]; len(conflicting) > 0 {
			plan.Conflicts = append(plan.Conflicts, DateConflict{Date: day, Existing: conflicting})
			continue
		}

		for _, draft := range EventsForDate(day) {
			plan.Events = append(plan.Events, model.Event{
				Date:          draft.Date,
				Title:         draft.Title,
				Description:   draft.Description,
				RequiredCount: requiredCount,
				MinistryID:    ownerID,
			})
		}
	}

	return plan
}

// ConflictDates returns the conflicting dates as YYYY-MM-DD strings
func (p BatchPlan) ConflictDates() []string {
	dates := make([]string, len(p.Conflicts))
	for i, c := range p.Conflicts {
		dates[i] = c.Date.Format(model.DateLayout)
	}
	return dates
}
