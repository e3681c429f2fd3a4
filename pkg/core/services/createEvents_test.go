package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/core/rules"
)

func titles(events []model.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.DateString() + " " + e.Title
	}
	return out
}

func TestCreateEventsForDates_SaturdayAndSunday(t *testing.T) {
	store := newMockStore()

	result, err := CreateEventsForDates(context.Background(), store, zap.NewNop(), ministryID,
		[]time.Time{date("2024-04-06"), date("2024-04-07")}, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2024-04-06 Culto Regular de Sábado",
		"2024-04-07 Culto de Celebração - Manhã",
		"2024-04-07 Culto de Celebração - Noite",
	}, titles(result.Created))
	assert.Empty(t, result.Conflicts)
	assert.Len(t, store.Events, 3)

	for _, e := range result.Created {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, 2, e.RequiredCount)
		assert.Equal(t, ministryID, e.MinistryID)
	}
}

func TestCreateEventsForDates_PartialSuccess(t *testing.T) {
	store := newMockStore()
	store.AddEvent("ev-1", "2024-04-10", "Culto Regular de Quarta", 2)

	result, err := CreateEventsForDates(context.Background(), store, zap.NewNop(), ministryID,
		[]time.Time{date("2024-04-10"), date("2024-04-17")}, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-04-17 Culto Regular de Quarta"}, titles(result.Created))
	assert.Equal(t, []string{"2024-04-10"}, result.ConflictDates())
	assert.ErrorIs(t, result.Conflicts[0], rules.ErrDateConflict)
	assert.Len(t, store.Events, 2)
}

func TestCreateEventsForDates_OtherMinistryDoesNotConflict(t *testing.T) {
	store := newMockStore()
	store.Events["other"] = model.Event{ID: "other", Date: date("2024-04-10"), Title: "Culto", RequiredCount: 1, MinistryID: "ministry-2"}

	result, err := CreateEventsForDates(context.Background(), store, zap.NewNop(), ministryID,
		[]time.Time{date("2024-04-10")}, 1)
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
	assert.Empty(t, result.Conflicts)
}

func TestCreateEventsForDates_Errors(t *testing.T) {
	_, err := CreateEventsForDates(context.Background(), newMockStore(), zap.NewNop(), ministryID, []time.Time{date("2024-04-10")}, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	store := newMockStore()
	storeErr := errors.New("connection reset")
	store.GetEventsErr = storeErr
	_, err = CreateEventsForDates(context.Background(), store, zap.NewNop(), ministryID, []time.Time{date("2024-04-10")}, 1)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, 0, store.InsertEventsCalls, "nothing written when conflicts cannot be checked")

	result, err := CreateEventsForDates(context.Background(), newMockStore(), zap.NewNop(), ministryID, nil, 1)
	require.NoError(t, err)
	assert.Empty(t, result.Created)
}

func TestMonthServiceDates(t *testing.T) {
	dates, err := MonthServiceDates(2024, time.April, "FREQ=WEEKLY;BYDAY=WE,SU")
	require.NoError(t, err)

	got := make([]string, len(dates))
	for i, d := range dates {
		got[i] = d.Format(model.DateLayout)
	}
	assert.Equal(t, []string{
		"2024-04-03", "2024-04-07", "2024-04-10", "2024-04-14",
		"2024-04-17", "2024-04-21", "2024-04-24", "2024-04-28",
	}, got)

	_, err = MonthServiceDates(2024, time.April, "NOT_A_RULE")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateMonthEvents(t *testing.T) {
	store := newMockStore()
	store.AddEvent("ev-1", "2024-04-07", "Culto especial", 3)

	result, err := CreateMonthEvents(context.Background(), store, zap.NewNop(), ministryID, 2024, time.April, "FREQ=WEEKLY;BYDAY=SU", 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-04-07"}, result.ConflictDates())
	assert.Len(t, result.Created, 6, "three remaining Sundays with two services each")
}

func TestCreateEvent(t *testing.T) {
	store := newMockStore()
	store.AddEvent("ev-1", "2024-04-07", "Culto de Celebração - Manhã", 2)

	e, err := CreateEvent(context.Background(), store, zap.NewNop(), ministryID, EventInput{
		Date:          time.Date(2024, 4, 7, 19, 30, 0, 0, time.UTC),
		Title:         "Culto de Santa Ceia",
		RequiredCount: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-04-07", e.DateString())
	assert.True(t, e.Date.Equal(date("2024-04-07")), "stored as a civil date")
	assert.Len(t, store.Events, 2)

	_, err = CreateEvent(context.Background(), store, zap.NewNop(), ministryID, EventInput{Date: date("2024-04-08"), Title: "X", RequiredCount: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = CreateEvent(context.Background(), store, zap.NewNop(), ministryID, EventInput{Date: date("2024-04-08"), RequiredCount: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListEventsAndDelete(t *testing.T) {
	store := newMockStore()
	store.AddEvent("ev-mar", "2024-03-31", "Culto", 2)
	store.AddEvent("ev-2", "2024-04-10", "Culto Regular de Quarta", 2)
	store.AddEvent("ev-1", "2024-04-03", "Culto Regular de Quarta", 2)
	store.AddVolunteer("vol-1", "Ana", anaCPF, model.StatusActive)
	store.AddAssignment("as-1", "ev-1", "vol-1")

	summaries, err := ListEvents(context.Background(), store, zap.NewNop(), ministryID, 2024, time.April)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "ev-1", summaries[0].Event.ID)
	assert.Equal(t, 1, summaries[0].Assigned)
	assert.Equal(t, 1, summaries[0].OpenSlots())
	assert.Equal(t, 2, summaries[1].OpenSlots())

	require.NoError(t, DeleteEvent(context.Background(), store, zap.NewNop(), "ev-1"))
	assert.Empty(t, store.Assignments, "assignments cascade")
}
