package db

import (
	"context"
	"time"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
)

// MinistryStore defines the interface for ministry database operations
type MinistryStore interface {
	GetMinistries(ctx context.Context) ([]model.Ministry, error)
	GetMinistry(ctx context.Context, id string) (*model.Ministry, error)
	InsertMinistry(ctx context.Context, ministry *model.Ministry) error
}

// VolunteerStore defines the interface for volunteer database operations
type VolunteerStore interface {
	GetVolunteers(ctx context.Context, ministryID string) ([]model.Volunteer, error)
	GetVolunteer(ctx context.Context, id string) (*model.Volunteer, error)
	GetVolunteerByCPF(ctx context.Context, ministryID, cpf string) (*model.Volunteer, error)
	InsertVolunteer(ctx context.Context, volunteer *model.Volunteer) error
	UpdateVolunteer(ctx context.Context, volunteer *model.Volunteer) error
	DeleteVolunteer(ctx context.Context, id string) error
}

// EventStore defines the interface for event database operations.
// GetEvents returns events with from <= date < to.
type EventStore interface {
	GetEvents(ctx context.Context, ministryID string, from, to time.Time) ([]model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	InsertEvents(ctx context.Context, events []model.Event) error
	DeleteEvent(ctx context.Context, id string) error
}

// AssignmentStore defines the interface for assignment database operations.
// InsertAssignment enforces uniqueness (ErrDuplicate) and capacity
// (ErrCapacityReached) atomically; callers treat both as authoritative.
type AssignmentStore interface {
	GetAssignment(ctx context.Context, id string) (*model.Assignment, error)
	GetAssignmentsForEvents(ctx context.Context, eventIDs []string) ([]model.Assignment, error)
	GetAssignmentsForVolunteer(ctx context.Context, volunteerID string) ([]model.Assignment, error)
	InsertAssignment(ctx context.Context, assignment *model.Assignment) error
	ReplaceAssignments(ctx context.Context, eventID string, assignments []model.Assignment) error
	DeleteAssignment(ctx context.Context, id string) error
}

// AnnouncementStore defines the interface for announcement database operations
type AnnouncementStore interface {
	GetAnnouncements(ctx context.Context, ministryID string) ([]model.Announcement, error)
	InsertAnnouncement(ctx context.Context, announcement *model.Announcement) error
	SetAnnouncementActive(ctx context.Context, id string, active bool) error
	DeleteAnnouncement(ctx context.Context, id string) error
}

// Database defines the interface for all database operations.
// postgres.DB implements this interface.
type Database interface {
	MinistryStore
	VolunteerStore
	EventStore
	AssignmentStore
	AnnouncementStore
}
