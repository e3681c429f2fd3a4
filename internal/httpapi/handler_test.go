package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/core/rules"
	"github.com/agendaccp/agenda-ccp/pkg/core/services"
	"github.com/agendaccp/agenda-ccp/pkg/db"
	"github.com/agendaccp/agenda-ccp/pkg/db/dbtest"
)

const (
	testMinistryID = "6f1c2d9e-3b4a-4c5d-8e7f-0a1b2c3d4e5f"
	anaCPF         = "11144477735"
	biaCPF         = "52998224725"

	evMar31      = "1d0b7c8e-0d1f-4a56-9c21-5e8f0a3b7d01"
	evApr3       = "2a4c6e80-1b3d-4f57-8a9c-0e2f4a6c8e02"
	evApr7       = "3b5d7f91-2c4e-4068-9bad-1f3a5b7d9f03"
	evMay1       = "4c6e80a2-3d5f-4179-8cbe-2a4b6c8eaf04"
	assignmentID = "5d7f91b3-4e60-428a-9dcf-3b5c7d9fb005"
	unknownID    = "6e80a2c4-5f71-439b-8ed0-4c6d8ea0c106"
)

type testServer struct {
	store    *dbtest.Store
	registry *prometheus.Registry
	router   http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := dbtest.NewStore()
	store.DefaultMinistryID = testMinistryID
	store.AddMinistry(testMinistryID, "Brigada")
	store.AddVolunteer("vol-ana", "Ana", anaCPF, model.StatusActive)
	store.AddVolunteer("vol-bia", "Bia", biaCPF, model.StatusInactive)
	store.AddEvent(evApr3, "2024-04-03", "Culto de Quarta", 2)
	store.AddEvent(evApr7, "2024-04-07", "Culto de Domingo", 1)
	store.AddEvent(evMay1, "2024-05-01", "Culto de Quarta", 2)
	store.AddEvent(evMar31, "2024-03-31", "Culto de Domingo", 2)

	registry := prometheus.NewRegistry()
	h := New(store, zap.NewNop(), NewMetrics(registry), time.UTC)
	h.now = func() time.Time { return time.Date(2024, 4, 1, 15, 0, 0, 0, time.UTC) }

	return &testServer{store: store, registry: registry, router: NewRouter(h, registry)}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListEvents(t *testing.T) {
	s := newTestServer(t)
	s.store.AddAssignment(assignmentID, evApr3, "vol-ana")

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantIDs    []string
	}{
		{name: "explicit month", query: "?month=2024-04", wantStatus: http.StatusOK, wantIDs: []string{evApr3, evApr7}},
		{name: "defaults to current month", query: "", wantStatus: http.StatusOK, wantIDs: []string{evApr3, evApr7}},
		{name: "other month", query: "?month=2024-05", wantStatus: http.StatusOK, wantIDs: []string{evMay1}},
		{name: "malformed month", query: "?month=abril", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/ministries/"+testMinistryID+"/events"+tt.query, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			events := decode[[]EventResponse](t, rec)
			ids := make([]string, len(events))
			for i, e := range events {
				ids[i] = e.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestListEvents_FillState(t *testing.T) {
	s := newTestServer(t)
	s.store.AddAssignment(assignmentID, evApr3, "vol-ana")

	rec := s.do(t, http.MethodGet, "/ministries/"+testMinistryID+"/events?month=2024-04", "")
	require.Equal(t, http.StatusOK, rec.Code)

	events := decode[[]EventResponse](t, rec)
	require.Len(t, events, 2)
	assert.Equal(t, EventResponse{
		ID:            evApr3,
		Date:          "2024-04-03",
		Title:         "Culto de Quarta",
		RequiredCount: 2,
		Assigned:      1,
		OpenSlots:     1,
	}, events[0])
	assert.Equal(t, 1, events[1].OpenSlots)
}

func TestListAnnouncements_OnlyActive(t *testing.T) {
	s := newTestServer(t)
	s.store.Announcements = []model.Announcement{
		{ID: "an-1", MinistryID: testMinistryID, Title: "Treinamento", Content: "Sábado", Active: true},
		{ID: "an-2", MinistryID: testMinistryID, Title: "Antigo", Content: "Oculto", Active: false},
		{ID: "an-3", MinistryID: "other", Title: "Outro ministério", Active: true},
	}

	rec := s.do(t, http.MethodGet, "/ministries/"+testMinistryID+"/announcements", "")
	require.Equal(t, http.StatusOK, rec.Code)

	announcements := decode[[]AnnouncementResponse](t, rec)
	require.Len(t, announcements, 1)
	assert.Equal(t, "an-1", announcements[0].ID)
	assert.Equal(t, "Treinamento", announcements[0].Title)
}

func TestSelfAssign(t *testing.T) {
	tests := []struct {
		name       string
		eventID    string
		body       string
		setup      func(*dbtest.Store)
		wantStatus int
		wantError  string
	}{
		{
			name:       "formatted CPF is accepted",
			eventID:    evApr3,
			body:       `{"cpf":"111.444.777-35"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "already assigned",
			eventID:    evApr3,
			body:       `{"cpf":"` + anaCPF + `"}`,
			setup:      func(m *dbtest.Store) { m.AddAssignment(assignmentID, evApr3, "vol-ana") },
			wantStatus: http.StatusConflict,
			wantError:  string(rules.KindAlreadyAssigned),
		},
		{
			name:    "event full",
			eventID: evApr7,
			body:    `{"cpf":"` + anaCPF + `"}`,
			setup: func(m *dbtest.Store) {
				m.AddVolunteer("vol-caio", "Caio", "39053344705", model.StatusActive)
				m.AddAssignment(assignmentID, evApr7, "vol-caio")
			},
			wantStatus: http.StatusConflict,
			wantError:  string(rules.KindCapacityExceeded),
		},
		{
			name:       "invalid CPF",
			eventID:    evApr3,
			body:       `{"cpf":"12345678900"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  string(rules.KindInvalidFormat),
		},
		{
			name:       "inactive volunteer",
			eventID:    evApr3,
			body:       `{"cpf":"` + biaCPF + `"}`,
			wantStatus: http.StatusForbidden,
			wantError:  "inactive_volunteer",
		},
		{
			name:       "unknown volunteer",
			eventID:    evApr3,
			body:       `{"cpf":"39053344705"}`,
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:       "unknown event",
			eventID:    unknownID,
			body:       `{"cpf":"` + anaCPF + `"}`,
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name:       "event already happened",
			eventID:    evMar31,
			body:       `{"cpf":"` + anaCPF + `"}`,
			wantStatus: http.StatusConflict,
			wantError:  string(rules.KindEventPast),
		},
		{
			name:       "missing CPF",
			eventID:    evApr3,
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_request",
		},
		{
			name:       "unknown field",
			eventID:    evApr3,
			body:       `{"cpf":"` + anaCPF + `","role":"admin"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			if tt.setup != nil {
				tt.setup(s.store)
			}

			rec := s.do(t, http.MethodPost, "/events/"+tt.eventID+"/assignments", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus == http.StatusCreated {
				created := decode[AssignmentResponse](t, rec)
				assert.Equal(t, tt.eventID, created.EventID)
				assert.Equal(t, "vol-ana", created.VolunteerID)
				assert.NotEmpty(t, created.ID)
				return
			}
			body := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.wantError, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestCancelAssignment(t *testing.T) {
	tests := []struct {
		name         string
		assignmentID string
		body         string
		wantStatus   int
		wantError    string
		wantKept     bool
	}{
		{name: "owner cancels", assignmentID: assignmentID, body: `{"cpf":"111.444.777-35"}`, wantStatus: http.StatusNoContent},
		{name: "other CPF is rejected", assignmentID: assignmentID, body: `{"cpf":"` + biaCPF + `"}`, wantStatus: http.StatusForbidden, wantError: string(rules.KindNotOwner), wantKept: true},
		{name: "invalid CPF", assignmentID: assignmentID, body: `{"cpf":"123"}`, wantStatus: http.StatusBadRequest, wantError: string(rules.KindInvalidFormat), wantKept: true},
		{name: "unknown assignment", assignmentID: unknownID, body: `{"cpf":"` + anaCPF + `"}`, wantStatus: http.StatusNotFound, wantError: "not_found", wantKept: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.store.AddAssignment(assignmentID, evApr3, "vol-ana")

			rec := s.do(t, http.MethodDelete, "/assignments/"+tt.assignmentID, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decode[ErrorResponse](t, rec).Error)
			}
			if tt.wantKept {
				assert.Len(t, s.store.Assignments, 1)
			} else {
				assert.Empty(t, s.store.Assignments)
			}
		})
	}
}

func TestCancelAssignment_PastEvent(t *testing.T) {
	s := newTestServer(t)
	s.store.AddAssignment(assignmentID, evMar31, "vol-ana")

	rec := s.do(t, http.MethodDelete, "/assignments/"+assignmentID, `{"cpf":"`+anaCPF+`"}`)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, string(rules.KindEventPast), decode[ErrorResponse](t, rec).Error)
	assert.Len(t, s.store.Assignments, 1)
}

func TestMalformedPathIDs(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"events of ministry", http.MethodGet, "/ministries/brigada/events", ""},
		{"announcements of ministry", http.MethodGet, "/ministries/brigada/announcements", ""},
		{"self assign", http.MethodPost, "/events/not-a-uuid/assignments", `{"cpf":"` + anaCPF + `"}`},
		{"cancel", http.MethodDelete, "/assignments/as-1", `{"cpf":"` + anaCPF + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := s.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
			assert.Equal(t, "not_found", decode[ErrorResponse](t, rec).Error)
			assert.Empty(t, s.store.Assignments)
		})
	}
}

func TestLookupSchedule(t *testing.T) {
	s := newTestServer(t)
	s.store.AddAssignment("as-old", evMar31, "vol-ana")
	s.store.AddAssignment("as-may", evMay1, "vol-ana")
	s.store.AddAssignment("as-apr", evApr3, "vol-ana")

	rec := s.do(t, http.MethodPost, "/schedule/lookup",
		fmt.Sprintf(`{"ministryId":%q,"cpf":"111.444.777-35"}`, testMinistryID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	schedule := decode[ScheduleResponse](t, rec)
	assert.Equal(t, "Ana", schedule.Name)
	assert.Equal(t, "111.444.777-35", schedule.CPF)
	require.Len(t, schedule.Entries, 2)
	assert.Equal(t, "as-apr", schedule.Entries[0].AssignmentID)
	assert.Equal(t, "2024-04-03", schedule.Entries[0].Event.Date)
	assert.Equal(t, 1, schedule.Entries[0].Event.Assigned)
	assert.Equal(t, "as-may", schedule.Entries[1].AssignmentID)
}

func TestLookupSchedule_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "ministry must be a uuid", body: `{"ministryId":"brigada","cpf":"` + anaCPF + `"}`, wantStatus: http.StatusBadRequest, wantError: "invalid_request"},
		{name: "malformed json", body: `{"ministryId":`, wantStatus: http.StatusBadRequest, wantError: "invalid_request"},
		{name: "invalid CPF", body: `{"ministryId":"` + testMinistryID + `","cpf":"12345678900"}`, wantStatus: http.StatusBadRequest, wantError: string(rules.KindInvalidFormat)},
		{name: "unknown CPF", body: `{"ministryId":"` + testMinistryID + `","cpf":"39053344705"}`, wantStatus: http.StatusNotFound, wantError: "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := s.do(t, http.MethodPost, "/schedule/lookup", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantError, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestFormatCPF(t *testing.T) {
	tests := []struct {
		value string
		want  CPFFormatResponse
	}{
		{value: "111", want: CPFFormatResponse{Formatted: "111", Valid: false}},
		{value: "1114447", want: CPFFormatResponse{Formatted: "111.444.7", Valid: false}},
		{value: "11144477735", want: CPFFormatResponse{Formatted: "111.444.777-35", Valid: true}},
		{value: "12345678900", want: CPFFormatResponse{Formatted: "123.456.789-00", Valid: false}},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/cpf/format?value="+tt.value, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, decode[CPFFormatResponse](t, rec))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodPost, "/events/"+evApr7+"/assignments", `{"cpf":"`+anaCPF+`"}`)
	s.do(t, http.MethodPost, "/events/"+evApr7+"/assignments", `{"cpf":"`+anaCPF+`"}`)

	rec := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `agenda_assignment_decisions_total{kind="ok",operation="self_assign"} 1`)
	assert.Contains(t, body, `agenda_assignment_decisions_total{kind="already_assigned",operation="self_assign"} 1`)
	assert.Contains(t, body, `agenda_http_request_duration_seconds_count{method="POST",route="/events/{eventID}/assignments",status="201"} 1`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"bad request", fmt.Errorf("%w: eof", errBadRequest), http.StatusBadRequest, "invalid_request"},
		{"invalid input", fmt.Errorf("%w: empty name", services.ErrInvalidInput), http.StatusBadRequest, "invalid_request"},
		{"cpf taken", services.ErrCPFTaken, http.StatusConflict, "cpf_taken"},
		{"inactive", fmt.Errorf("%w: Bia", services.ErrInactiveVolunteer), http.StatusForbidden, "inactive_volunteer"},
		{"invalid format", rules.ErrInvalidFormat, http.StatusBadRequest, string(rules.KindInvalidFormat)},
		{"not owner", rules.ErrNotOwner, http.StatusForbidden, string(rules.KindNotOwner)},
		{"already assigned", fmt.Errorf("wrapped: %w", rules.ErrAlreadyAssigned), http.StatusConflict, string(rules.KindAlreadyAssigned)},
		{"capacity", rules.ErrCapacityExceeded, http.StatusConflict, string(rules.KindCapacityExceeded)},
		{"date conflict", rules.ErrDateConflict, http.StatusConflict, string(rules.KindDateConflict)},
		{"event past", rules.ErrEventPast, http.StatusConflict, string(rules.KindEventPast)},
		{"not found", fmt.Errorf("failed to get event: %w", db.ErrNotFound), http.StatusNotFound, "not_found"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, string(rules.KindOther)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := statusFor(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantError, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("/healthz", http.MethodGet, http.StatusOK, time.Millisecond)
		m.RecordDecision("cancel", rules.ErrNotOwner)
	})
}
