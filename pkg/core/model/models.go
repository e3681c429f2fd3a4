package model

import (
	"strings"
	"time"
)

// DateLayout is the civil-date layout used for event dates
const DateLayout = "2006-01-02"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// ParseStatus accepts any casing ("Active", "ACTIVE")
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.IsValid()
}

// Ministry is the owning scope of volunteers, events and announcements
type Ministry struct {
	ID          string
	Name        string
	Kind        string
	Description string
	CreatedAt   time.Time
}

// Volunteer (brigadista) is a person who can be assigned to events.
// CPF is always held normalized (11 digits).
type Volunteer struct {
	ID         string
	Name       string
	CPF        string
	Status     Status
	MinistryID string
	CreatedAt  time.Time
}

func (v Volunteer) IsActive() bool {
	return v.Status == StatusActive
}

// Event (dia de culto) is a dated service needing RequiredCount volunteers
type Event struct {
	ID            string
	Date          time.Time // midnight UTC of the civil date
	Title         string
	Description   string
	RequiredCount int
	MinistryID    string
	CreatedAt     time.Time
}

// DateString returns the event date as YYYY-MM-DD
func (e Event) DateString() string {
	return e.Date.Format(DateLayout)
}

// Assignment links one volunteer to one event
type Assignment struct {
	ID          string
	EventID     string
	VolunteerID string
	CreatedAt   time.Time
}

// Announcement is a notice shown to the volunteers of a ministry
type Announcement struct {
	ID         string
	Title      string
	Content    string
	Active     bool
	MinistryID string
	CreatedAt  time.Time
}

// CivilDate returns midnight UTC of t's calendar date (in t's own location)
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
