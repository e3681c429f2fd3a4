// Package dbtest provides an in-memory db.Database for tests.
package dbtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// Store is an in-memory db.Database enforcing the same uniqueness and
// capacity constraints as the postgres store. The *Err fields make the
// matching method fail.
type Store struct {
	Ministries    map[string]model.Ministry
	Volunteers    map[string]model.Volunteer
	Events        map[string]model.Event
	Assignments   []model.Assignment
	Announcements []model.Announcement

	GetEventsErr        error
	InsertEventsErr     error
	InsertAssignmentErr error
	GetVolunteerErr     error

	InsertEventsCalls int
	clock             time.Time

	// DefaultMinistryID is used by the Add* fixture helpers
	DefaultMinistryID string
}

var _ db.Database = (*Store)(nil)

// NewStore returns an empty store whose clock starts at 2024-01-01 12:00 UTC
func NewStore() *Store {
	return &Store{
		Ministries: make(map[string]model.Ministry),
		Volunteers: make(map[string]model.Volunteer),
		Events:     make(map[string]model.Event),
		clock:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *Store) now() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, db.ErrNotFound)
}

func (m *Store) GetMinistries(ctx context.Context) ([]model.Ministry, error) {
	var out []model.Ministry
	for _, v := range m.Ministries {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Store) GetMinistry(ctx context.Context, id string) (*model.Ministry, error) {
	v, ok := m.Ministries[id]
	if !ok {
		return nil, notFound("ministry", id)
	}
	return &v, nil
}

func (m *Store) InsertMinistry(ctx context.Context, ministry *model.Ministry) error {
	ministry.CreatedAt = m.now()
	m.Ministries[ministry.ID] = *ministry
	return nil
}

func (m *Store) GetVolunteers(ctx context.Context, ministryID string) ([]model.Volunteer, error) {
	var out []model.Volunteer
	for _, v := range m.Volunteers {
		if v.MinistryID == ministryID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Store) GetVolunteer(ctx context.Context, id string) (*model.Volunteer, error) {
	if m.GetVolunteerErr != nil {
		return nil, m.GetVolunteerErr
	}
	v, ok := m.Volunteers[id]
	if !ok {
		return nil, notFound("volunteer", id)
	}
	return &v, nil
}

func (m *Store) GetVolunteerByCPF(ctx context.Context, ministryID, cpf string) (*model.Volunteer, error) {
	for _, v := range m.Volunteers {
		if v.MinistryID == ministryID && v.CPF == cpf {
			return &v, nil
		}
	}
	return nil, notFound("volunteer with cpf", cpf)
}

func (m *Store) cpfTaken(v model.Volunteer) bool {
	for _, other := range m.Volunteers {
		if other.ID != v.ID && other.MinistryID == v.MinistryID && other.CPF == v.CPF {
			return true
		}
	}
	return false
}

func (m *Store) InsertVolunteer(ctx context.Context, volunteer *model.Volunteer) error {
	if m.cpfTaken(*volunteer) {
		return fmt.Errorf("volunteer_ministry_cpf_key: %w", db.ErrDuplicate)
	}
	volunteer.CreatedAt = m.now()
	m.Volunteers[volunteer.ID] = *volunteer
	return nil
}

func (m *Store) UpdateVolunteer(ctx context.Context, volunteer *model.Volunteer) error {
	if _, ok := m.Volunteers[volunteer.ID]; !ok {
		return notFound("volunteer", volunteer.ID)
	}
	if m.cpfTaken(*volunteer) {
		return fmt.Errorf("volunteer_ministry_cpf_key: %w", db.ErrDuplicate)
	}
	m.Volunteers[volunteer.ID] = *volunteer
	return nil
}

func (m *Store) DeleteVolunteer(ctx context.Context, id string) error {
	if _, ok := m.Volunteers[id]; !ok {
		return notFound("volunteer", id)
	}
	delete(m.Volunteers, id)
	m.removeAssignments(func(a model.Assignment) bool { return a.VolunteerID == id })
	return nil
}

func (m *Store) GetEvents(ctx context.Context, ministryID string, from, to time.Time) ([]model.Event, error) {
	if m.GetEventsErr != nil {
		return nil, m.GetEventsErr
	}
	var out []model.Event
	for _, e := range m.Events {
		if e.MinistryID == ministryID && !e.Date.Before(from) && e.Date.Before(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (m *Store) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	e, ok := m.Events[id]
	if !ok {
		return nil, notFound("event", id)
	}
	return &e, nil
}

func (m *Store) InsertEvents(ctx context.Context, events []model.Event) error {
	m.InsertEventsCalls++
	if m.InsertEventsErr != nil {
		return m.InsertEventsErr
	}
	for i := range events {
		events[i].CreatedAt = m.now()
		m.Events[events[i].ID] = events[i]
	}
	return nil
}

func (m *Store) DeleteEvent(ctx context.Context, id string) error {
	if _, ok := m.Events[id]; !ok {
		return notFound("event", id)
	}
	delete(m.Events, id)
	m.removeAssignments(func(a model.Assignment) bool { return a.EventID == id })
	return nil
}

func (m *Store) GetAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	for _, a := range m.Assignments {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, notFound("assignment", id)
}

func (m *Store) GetAssignmentsForEvents(ctx context.Context, eventIDs []string) ([]model.Assignment, error) {
	want := make(map[string]bool, len(eventIDs))
	for _, id := range eventIDs {
		want[id] = true
	}
	var out []model.Assignment
	for _, a := range m.Assignments {
		if want[a.EventID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Store) GetAssignmentsForVolunteer(ctx context.Context, volunteerID string) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range m.Assignments {
		if a.VolunteerID == volunteerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Store) InsertAssignment(ctx context.Context, assignment *model.Assignment) error {
	if m.InsertAssignmentErr != nil {
		return m.InsertAssignmentErr
	}
	event, ok := m.Events[assignment.EventID]
	if !ok {
		return notFound("event", assignment.EventID)
	}
	count := 0
	for _, a := range m.Assignments {
		if a.EventID != assignment.EventID {
			continue
		}
		if a.VolunteerID == assignment.VolunteerID {
			return fmt.Errorf("assignment_event_volunteer_key: %w", db.ErrDuplicate)
		}
		count++
	}
	if count >= event.RequiredCount {
		return db.ErrCapacityReached
	}
	assignment.CreatedAt = m.now()
	m.Assignments = append(m.Assignments, *assignment)
	return nil
}

func (m *Store) ReplaceAssignments(ctx context.Context, eventID string, assignments []model.Assignment) error {
	event, ok := m.Events[eventID]
	if !ok {
		return notFound("event", eventID)
	}
	if len(assignments) > event.RequiredCount {
		return db.ErrCapacityReached
	}
	m.removeAssignments(func(a model.Assignment) bool { return a.EventID == eventID })
	for i := range assignments {
		assignments[i].EventID = eventID
		assignments[i].CreatedAt = m.now()
		m.Assignments = append(m.Assignments, assignments[i])
	}
	return nil
}

func (m *Store) DeleteAssignment(ctx context.Context, id string) error {
	before := len(m.Assignments)
	m.removeAssignments(func(a model.Assignment) bool { return a.ID == id })
	if len(m.Assignments) == before {
		return notFound("assignment", id)
	}
	return nil
}

func (m *Store) removeAssignments(match func(model.Assignment) bool) {
	kept := m.Assignments[:0]
	for _, a := range m.Assignments {
		if !match(a) {
			kept = append(kept, a)
		}
	}
	m.Assignments = kept
}

func (m *Store) GetAnnouncements(ctx context.Context, ministryID string) ([]model.Announcement, error) {
	var out []model.Announcement
	for i := len(m.Announcements) - 1; i >= 0; i-- {
		if m.Announcements[i].MinistryID == ministryID {
			out = append(out, m.Announcements[i])
		}
	}
	return out, nil
}

func (m *Store) InsertAnnouncement(ctx context.Context, announcement *model.Announcement) error {
	announcement.CreatedAt = m.now()
	m.Announcements = append(m.Announcements, *announcement)
	return nil
}

func (m *Store) SetAnnouncementActive(ctx context.Context, id string, active bool) error {
	for i := range m.Announcements {
		if m.Announcements[i].ID == id {
			m.Announcements[i].Active = active
			return nil
		}
	}
	return notFound("announcement", id)
}

func (m *Store) DeleteAnnouncement(ctx context.Context, id string) error {
	for i := range m.Announcements {
		if m.Announcements[i].ID == id {
			m.Announcements = append(m.Announcements[:i], m.Announcements[i+1:]...)
			return nil
		}
	}
	return notFound("announcement", id)
}

// Date parses a YYYY-MM-DD civil date, panicking on malformed input
func Date(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// AddMinistry stores a ministry
func (m *Store) AddMinistry(id, name string) model.Ministry {
	ministry := model.Ministry{ID: id, Name: name}
	m.Ministries[id] = ministry
	return ministry
}

// AddVolunteer stores a volunteer of DefaultMinistryID
func (m *Store) AddVolunteer(id, name, cpf string, status model.Status) model.Volunteer {
	v := model.Volunteer{ID: id, Name: name, CPF: cpf, Status: status, MinistryID: m.DefaultMinistryID}
	m.Volunteers[id] = v
	return v
}

// AddEvent stores an event of DefaultMinistryID on day (YYYY-MM-DD)
func (m *Store) AddEvent(id, day, title string, required int) model.Event {
	e := model.Event{ID: id, Date: Date(day), Title: title, RequiredCount: required, MinistryID: m.DefaultMinistryID}
	m.Events[id] = e
	return e
}

// AddAssignment stores an assignment without checking constraints
func (m *Store) AddAssignment(id, eventID, volunteerID string) model.Assignment {
	a := model.Assignment{ID: id, EventID: eventID, VolunteerID: volunteerID}
	m.Assignments = append(m.Assignments, a)
	return a
}
