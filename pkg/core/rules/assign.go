package rules

import (
	"fmt"
	"time"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/cpf"
)

// VolunteerLookup resolves a volunteer by ID; ok is false when it does not exist
type VolunteerLookup func(volunteerID string) (v model.Volunteer, ok bool)

// IsUpcoming returns ErrEventPast when event falls before the calendar date
// of now. Events happening today are still open.
func IsUpcoming(event model.Event, now time.Time) error {
	if event.Date.Before(model.CivilDate(now)) {
		return ErrEventPast
	}
	return nil
}

// CanAssign decides whether volunteerID may be added to eventID.
//
// The decision is advisory: it is taken on a snapshot of existing, and the
// store's uniqueness and capacity checks on write remain authoritative.
func CanAssign(eventID, volunteerID string, existing []model.Assignment, requiredCount int) error {
	count := 0
	for _, a := range existing {
		if a.EventID != eventID {
			continue
		}
		if a.VolunteerID == volunteerID {
			return ErrAlreadyAssigned
		}
		count++
	}

	if count >= requiredCount {
		return ErrCapacityExceeded
	}
	return nil
}

// CanCancel decides whether the holder of requestingCPF may cancel a.
// Ownership is proven by CPF alone; a volunteer that cannot be resolved is
// treated as a mismatch.
func CanCancel(a model.Assignment, requestingCPF string, lookup VolunteerLookup) error {
	digits := cpf.Normalize(requestingCPF)
	if len(digits) != cpf.Length {
		return fmt.Errorf("%w: expected %d digits, got %d", ErrInvalidFormat, cpf.Length, len(digits))
	}

	if lookup == nil {
		return ErrNotOwner
	}

	volunteer, ok := lookup(a.VolunteerID)
	if !ok || volunteer.CPF != digits {
		return ErrNotOwner
	}
	return nil
}

// OpenSlots returns how many more volunteers eventID can take
func OpenSlots(eventID string, existing []model.Assignment, requiredCount int) int {
	count := 0
	for _, a := range existing {
		if a.EventID == eventID {
			count++
		}
	}
	return max(requiredCount-count, 0)
}

// LookupFromSlice builds a VolunteerLookup over an in-memory list
func LookupFromSlice(volunteers []model.Volunteer) VolunteerLookup {
	byID := make(map[string]model.Volunteer, len(volunteers))
	for _, v := range volunteers {
		byID[v.ID] = v
	}
	return func(id string) (model.Volunteer, bool) {
		v, ok := byID[id]
		return v, ok
	}
}
