package services

import (
	"errors"
	"fmt"

	"github.com/agendaccp/agenda-ccp/pkg/core/rules"
	"github.com/agendaccp/agenda-ccp/pkg/cpf"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

var (
	// ErrInvalidInput is returned when a required field is missing or out of range
	ErrInvalidInput = errors.New("invalid input")

	// ErrCPFTaken is returned when a CPF is already registered in the ministry
	ErrCPFTaken = errors.New("CPF já cadastrado")

	// ErrInactiveVolunteer is returned when an inactive volunteer would be scheduled
	ErrInactiveVolunteer = errors.New("volunteer is inactive")
)

// parseCPF validates raw and returns its digits, wrapping rules.ErrInvalidFormat
func parseCPF(raw string) (string, error) {
	digits, err := cpf.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", rules.ErrInvalidFormat, err)
	}
	return digits, nil
}

// assignmentWriteError turns the store's authoritative rejections into rule errors
func assignmentWriteError(err error) error {
	switch {
	case errors.Is(err, db.ErrCapacityReached):
		return fmt.Errorf("%w: %w", rules.ErrCapacityExceeded, err)
	case errors.Is(err, db.ErrDuplicate):
		return fmt.Errorf("%w: %w", rules.ErrAlreadyAssigned, err)
	default:
		return err
	}
}
