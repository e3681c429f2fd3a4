package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/cpf"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// VolunteerInput holds the editable fields of a volunteer.
// An empty Status means active.
type VolunteerInput struct {
	Name   string
	CPF    string
	Status model.Status
}

func (in VolunteerInput) normalize() (VolunteerInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, fmt.Errorf("%w: volunteer name is required", ErrInvalidInput)
	}

	digits, err := parseCPF(in.CPF)
	if err != nil {
		return in, err
	}
	in.CPF = digits

	if in.Status == "" {
		in.Status = model.StatusActive
	}
	if !in.Status.IsValid() {
		return in, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
	}
	return in, nil
}

// CreateVolunteer registers a volunteer in a ministry. The CPF must be valid
// and not yet registered in that ministry.
func CreateVolunteer(ctx context.Context, store db.VolunteerStore, logger *zap.Logger, ministryID string, in VolunteerInput) (*model.Volunteer, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	if err := ensureCPFFree(ctx, store, ministryID, in.CPF, ""); err != nil {
		return nil, err
	}

	volunteer := &model.Volunteer{
		ID:         uuid.New().String(),
		Name:       in.Name,
		CPF:        in.CPF,
		Status:     in.Status,
		MinistryID: ministryID,
	}

	logger.Debug("Inserting volunteer",
		zap.String("volunteer_id", volunteer.ID),
		zap.String("ministry_id", ministryID),
		zap.String("cpf", cpf.Mask(volunteer.CPF)))

	if err := store.InsertVolunteer(ctx, volunteer); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %w", ErrCPFTaken, err)
		}
		return nil, fmt.Errorf("failed to create volunteer: %w", err)
	}

	logger.Info("Volunteer created", zap.String("volunteer_id", volunteer.ID), zap.String("name", volunteer.Name))
	return volunteer, nil
}

// UpdateVolunteer replaces the name, CPF and status of a volunteer
func UpdateVolunteer(ctx context.Context, store db.VolunteerStore, logger *zap.Logger, volunteerID string, in VolunteerInput) (*model.Volunteer, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	volunteer, err := store.GetVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}

	if in.CPF != volunteer.CPF {
		if err := ensureCPFFree(ctx, store, volunteer.MinistryID, in.CPF, volunteer.ID); err != nil {
			return nil, err
		}
	}

	volunteer.Name = in.Name
	volunteer.CPF = in.CPF
	volunteer.Status = in.Status

	if err := store.UpdateVolunteer(ctx, volunteer); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %w", ErrCPFTaken, err)
		}
		return nil, fmt.Errorf("failed to update volunteer: %w", err)
	}

	logger.Info("Volunteer updated",
		zap.String("volunteer_id", volunteer.ID),
		zap.String("status", string(volunteer.Status)))
	return volunteer, nil
}

// DeleteVolunteer removes a volunteer together with their assignments
func DeleteVolunteer(ctx context.Context, store db.VolunteerStore, logger *zap.Logger, volunteerID string) error {
	if err := store.DeleteVolunteer(ctx, volunteerID); err != nil {
		return fmt.Errorf("failed to delete volunteer: %w", err)
	}
	logger.Info("Volunteer deleted", zap.String("volunteer_id", volunteerID))
	return nil
}

// ListVolunteers returns the volunteers of a ministry ordered by name,
// optionally only the active ones
func ListVolunteers(ctx context.Context, store db.VolunteerStore, logger *zap.Logger, ministryID string, activeOnly bool) ([]model.Volunteer, error) {
	volunteers, err := store.GetVolunteers(ctx, ministryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}

	if activeOnly {
		volunteers = filterActiveVolunteers(volunteers)
	}

	logger.Debug("Listed volunteers",
		zap.String("ministry_id", ministryID),
		zap.Bool("active_only", activeOnly),
		zap.Int("count", len(volunteers)))
	return volunteers, nil
}

// FindVolunteerByCPF resolves a volunteer of a ministry from a raw CPF
func FindVolunteerByCPF(ctx context.Context, store db.VolunteerStore, logger *zap.Logger, ministryID, rawCPF string) (*model.Volunteer, error) {
	digits, err := parseCPF(rawCPF)
	if err != nil {
		return nil, err
	}

	volunteer, err := store.GetVolunteerByCPF(ctx, ministryID, digits)
	if err != nil {
		return nil, fmt.Errorf("failed to find volunteer: %w", err)
	}

	logger.Debug("Found volunteer by CPF", zap.String("volunteer_id", volunteer.ID), zap.String("cpf", cpf.Mask(digits)))
	return volunteer, nil
}

// ensureCPFFree fails with ErrCPFTaken when digits belongs to a volunteer other than exceptID
func ensureCPFFree(ctx context.Context, store db.VolunteerStore, ministryID, digits, exceptID string) error {
	existing, err := store.GetVolunteerByCPF(ctx, ministryID, digits)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check cpf: %w", err)
	case existing.ID != exceptID:
		return ErrCPFTaken
	default:
		return nil
	}
}

func filterActiveVolunteers(volunteers []model.Volunteer) []model.Volunteer {
	active := make([]model.Volunteer, 0, len(volunteers))
	for _, v := range volunteers {
		if v.IsActive() {
			active = append(active, v)
		}
	}
	return active
}
