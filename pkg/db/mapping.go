package db

import (
	"fmt"
	"time"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/cpf"
)

// Records are converted here so that nothing above the store depends on
// column names, and malformed rows are rejected before reaching the rules.

func MinistryToModel(r Ministry) model.Ministry {
	return model.Ministry{
		ID:          r.ID,
		Name:        r.Name,
		Kind:        r.Kind,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

func MinistryFromModel(m model.Ministry) Ministry {
	return Ministry{
		ID:          m.ID,
		Name:        m.Name,
		Kind:        m.Kind,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

// VolunteerToModel validates the stored CPF and status
func VolunteerToModel(r Volunteer) (model.Volunteer, error) {
	digits := cpf.Normalize(r.CPF)
	if len(digits) != cpf.Length {
		return model.Volunteer{}, fmt.Errorf("volunteer %s: stored cpf has %d digits", r.ID, len(digits))
	}

	status, ok := model.ParseStatus(r.Status)
	if !ok {
		return model.Volunteer{}, fmt.Errorf("volunteer %s: unknown status %q", r.ID, r.Status)
	}

	return model.Volunteer{
		ID:         r.ID,
		Name:       r.Name,
		CPF:        digits,
		Status:     status,
		MinistryID: r.MinistryID,
		CreatedAt:  r.CreatedAt,
	}, nil
}

func VolunteerFromModel(v model.Volunteer) Volunteer {
	return Volunteer{
		ID:         v.ID,
		Name:       v.Name,
		CPF:        cpf.Normalize(v.CPF),
		Status:     string(v.Status),
		MinistryID: v.MinistryID,
		CreatedAt:  v.CreatedAt,
	}
}

// EventToModel rejects events that could never accept an assignment
func EventToModel(r Event) (model.Event, error) {
	if r.RequiredCount < 1 {
		return model.Event{}, fmt.Errorf("event %s: required count must be positive, got %d", r.ID, r.RequiredCount)
	}

	return model.Event{
		ID:            r.ID,
		Date:          model.CivilDate(r.Date),
		Title:         r.Title,
		Description:   r.Description,
		RequiredCount: r.RequiredCount,
		MinistryID:    r.MinistryID,
		CreatedAt:     r.CreatedAt,
	}, nil
}

func EventFromModel(e model.Event) Event {
	return Event{
		ID:            e.ID,
		Date:          model.CivilDate(e.Date),
		Title:         e.Title,
		Description:   e.Description,
		RequiredCount: e.RequiredCount,
		MinistryID:    e.MinistryID,
		CreatedAt:     e.CreatedAt,
	}
}

func AssignmentToModel(r Assignment) model.Assignment {
	return model.Assignment{
		ID:          r.ID,
		EventID:     r.EventID,
		VolunteerID: r.VolunteerID,
		CreatedAt:   r.CreatedAt,
	}
}

func AssignmentFromModel(a model.Assignment) Assignment {
	return Assignment{
		ID:          a.ID,
		EventID:     a.EventID,
		VolunteerID: a.VolunteerID,
		CreatedAt:   a.CreatedAt,
	}
}

func AnnouncementToModel(r Announcement) model.Announcement {
	return model.Announcement{
		ID:         r.ID,
		Title:      r.Title,
		Content:    r.Content,
		Active:     r.Active,
		MinistryID: r.MinistryID,
		CreatedAt:  r.CreatedAt,
	}
}

func AnnouncementFromModel(a model.Announcement) Announcement {
	return Announcement{
		ID:         a.ID,
		Title:      a.Title,
		Content:    a.Content,
		Active:     a.Active,
		MinistryID: a.MinistryID,
		CreatedAt:  a.CreatedAt,
	}
}

// VolunteersToModel converts a batch, failing on the first malformed record
func VolunteersToModel(records []Volunteer) ([]model.Volunteer, error) {
	volunteers := make([]model.Volunteer, 0, len(records))
	for _, r := range records {
		v, err := VolunteerToModel(r)
		if err != nil {
			return nil, err
		}
		volunteers = append(volunteers, v)
	}
	return volunteers, nil
}

// EventsToModel converts a batch, failing on the first malformed record
func EventsToModel(records []Event) ([]model.Event, error) {
	events := make([]model.Event, 0, len(records))
	for _, r := range records {
		e, err := EventToModel(r)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// MonthRange returns [first day of month, first day of next month) in UTC
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
