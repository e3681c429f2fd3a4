package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/core/services"
	"github.com/agendaccp/agenda-ccp/pkg/cpf"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

type cpfRequest struct {
	CPF string `json:"cpf" validate:"required"`
}

type lookupRequest struct {
	MinistryID string `json:"ministryId" validate:"required,uuid"`
	CPF        string `json:"cpf" validate:"required"`
}

// EventResponse is an event with its fill state
type EventResponse struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	RequiredCount int    `json:"requiredCount"`
	Assigned      int    `json:"assigned"`
	OpenSlots     int    `json:"openSlots"`
}

// AnnouncementResponse is a visible announcement
type AnnouncementResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// AssignmentResponse is a created assignment
type AssignmentResponse struct {
	ID          string `json:"id"`
	EventID     string `json:"eventId"`
	VolunteerID string `json:"volunteerId"`
}

// ScheduleEntryResponse is one event of a volunteer's schedule
type ScheduleEntryResponse struct {
	AssignmentID string        `json:"assignmentId"`
	Event        EventResponse `json:"event"`
}

// ScheduleResponse is a volunteer's upcoming schedule
type ScheduleResponse struct {
	Name    string                  `json:"name"`
	CPF     string                  `json:"cpf"`
	Entries []ScheduleEntryResponse `json:"entries"`
}

// CPFFormatResponse is the keystroke formatting result
type CPFFormatResponse struct {
	Formatted string `json:"formatted"`
	Valid     bool   `json:"valid"`
}

func eventResponse(e model.Event, assigned int) EventResponse {
	return EventResponse{
		ID:            e.ID,
		Date:          e.DateString(),
		Title:         e.Title,
		Description:   e.Description,
		RequiredCount: e.RequiredCount,
		Assigned:      assigned,
		OpenSlots:     max(e.RequiredCount-assigned, 0),
	}
}

// parseMonth reads "YYYY-MM", defaulting to the current month
func (h *Handler) parseMonth(raw string) (int, time.Month, error) {
	if raw == "" {
		now := h.now().In(h.location)
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month must be YYYY-MM: %w", errBadRequest, err)
	}
	return t.Year(), t.Month(), nil
}

// pathID reads a UUID path parameter. Anything else cannot name a stored
// record and is reported as not found.
func (h *Handler) pathID(r *http.Request, name string) (string, error) {
	id := chi.URLParam(r, name)
	if err := h.validate.Var(id, "required,uuid"); err != nil {
		return "", fmt.Errorf("%s %q: %w", name, id, db.ErrNotFound)
	}
	return id, nil
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ministryID, err := h.pathID(r, "ministryID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	year, month, err := h.parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summaries, err := services.ListEvents(r.Context(), h.store, h.logger, ministryID, year, month)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]EventResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = eventResponse(s.Event, s.Assigned)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	ministryID, err := h.pathID(r, "ministryID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	announcements, err := services.ListAnnouncements(r.Context(), h.store, h.logger, ministryID, true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]AnnouncementResponse, len(announcements))
	for i, a := range announcements {
		resp[i] = AnnouncementResponse{ID: a.ID, Title: a.Title, Content: a.Content, CreatedAt: a.CreatedAt}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSelfAssign(w http.ResponseWriter, r *http.Request) {
	eventID, err := h.pathID(r, "eventID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req cpfRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	assignment, err := services.SelfAssign(r.Context(), h.store, h.logger, eventID, req.CPF, h.now().In(h.location))
	h.metrics.RecordDecision("self_assign", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, AssignmentResponse{
		ID:          assignment.ID,
		EventID:     assignment.EventID,
		VolunteerID: assignment.VolunteerID,
	})
}

func (h *Handler) handleCancelAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := h.pathID(r, "assignmentID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req cpfRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	err = services.CancelAssignment(r.Context(), h.store, h.logger, assignmentID, req.CPF, h.now().In(h.location))
	h.metrics.RecordDecision("cancel", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLookupSchedule(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	schedule, err := services.LookupSchedule(r.Context(), h.store, h.logger, req.MinistryID, req.CPF, h.now().In(h.location))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := ScheduleResponse{
		Name:    schedule.Volunteer.Name,
		CPF:     cpf.Format(schedule.Volunteer.CPF),
		Entries: make([]ScheduleEntryResponse, len(schedule.Entries)),
	}
	for i, e := range schedule.Entries {
		resp.Entries[i] = ScheduleEntryResponse{
			AssignmentID: e.Assignment.ID,
			Event:        eventResponse(e.Event, e.Assigned),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleFormatCPF(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	writeJSON(w, http.StatusOK, CPFFormatResponse{
		Formatted: cpf.Format(value),
		Valid:     cpf.IsValid(value),
	})
}
