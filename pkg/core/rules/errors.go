package rules

import (
	"errors"
	"fmt"

	"github.com/agendaccp/agenda-ccp/pkg/cpf"
)

// Rejection kinds. All of them are recoverable and are reported to the user
// as a message; callers compare with errors.Is.
var (
	ErrInvalidFormat    = fmt.Errorf("invalid format: %w", cpf.ErrInvalid)
	ErrAlreadyAssigned  = errors.New("volunteer already assigned to this event")
	ErrCapacityExceeded = errors.New("event has no open slots")
	ErrNotOwner         = errors.New("CPF does not match the assignment owner")
	ErrDateConflict     = errors.New("an event already exists on this date")
	ErrEventPast        = errors.New("event date has already passed")
)

// Kind names a rejection for metrics and API payloads
type Kind string

const (
	KindNone             Kind = ""
	KindInvalidFormat    Kind = "invalid_format"
	KindAlreadyAssigned  Kind = "already_assigned"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindNotOwner         Kind = "not_owner"
	KindDateConflict     Kind = "date_conflict"
	KindEventPast        Kind = "event_past"
	KindOther            Kind = "other"
)

// KindOf classifies err into one of the rejection kinds
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, cpf.ErrInvalid):
		return KindInvalidFormat
	case errors.Is(err, ErrAlreadyAssigned):
		return KindAlreadyAssigned
	case errors.Is(err, ErrCapacityExceeded):
		return KindCapacityExceeded
	case errors.Is(err, ErrNotOwner):
		return KindNotOwner
	case errors.Is(err, ErrDateConflict):
		return KindDateConflict
	case errors.Is(err, ErrEventPast):
		return KindEventPast
	default:
		return KindOther
	}
}

// Message returns the text shown to volunteers and administrators for err
func Message(err error) string {
	switch KindOf(err) {
	case KindNone:
		return ""
	case KindInvalidFormat:
		return "CPF inválido"
	case KindAlreadyAssigned:
		return "Você já está escalado para este culto"
	case KindCapacityExceeded:
		return "Este culto já atingiu o número máximo de brigadistas"
	case KindNotOwner:
		return "CPF não corresponde ao agendamento"
	case KindDateConflict:
		return "Já existem eventos agendados para esta data"
	case KindEventPast:
		return "Este culto já aconteceu"
	default:
		return "Erro ao processar a solicitação"
	}
}
