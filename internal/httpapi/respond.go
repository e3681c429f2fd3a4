package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/agendaccp/agenda-ccp/pkg/core/rules"
	"github.com/agendaccp/agenda-ccp/pkg/core/services"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

const maxBodyBytes = 1 << 16

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor maps an error to its HTTP status and response body
func statusFor(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Requisição inválida"}
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Dados inválidos"}
	case errors.Is(err, services.ErrCPFTaken):
		return http.StatusConflict, ErrorResponse{Error: "cpf_taken", Message: services.ErrCPFTaken.Error()}
	case errors.Is(err, services.ErrInactiveVolunteer):
		return http.StatusForbidden, ErrorResponse{Error: "inactive_volunteer", Message: "Brigadista inativo"}
	}

	kind := rules.KindOf(err)
	switch kind {
	case rules.KindInvalidFormat:
		return http.StatusBadRequest, ErrorResponse{Error: string(kind), Message: rules.Message(err)}
	case rules.KindNotOwner:
		return http.StatusForbidden, ErrorResponse{Error: string(kind), Message: rules.Message(err)}
	case rules.KindAlreadyAssigned, rules.KindCapacityExceeded, rules.KindDateConflict, rules.KindEventPast:
		return http.StatusConflict, ErrorResponse{Error: string(kind), Message: rules.Message(err)}
	}

	if errors.Is(err, db.ErrNotFound) {
		return http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "Registro não encontrado"}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: string(rules.KindOther), Message: rules.Message(err)}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", requestFields(r, err)...)
	} else {
		h.logger.Debug("Request rejected", requestFields(r, err)...)
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a JSON body into dst and validates it
func (h *Handler) decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", errBadRequest, verrs)
		}
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}
