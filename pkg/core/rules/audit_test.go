package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
)

func TestValidateSchedule_Clean(t *testing.T) {
	events := []model.Event{
		{ID: "e-1", Date: date("2025-05-04"), Title: "Culto de Celebração - Manhã", RequiredCount: 2},
	}
	assignments := []model.Assignment{
		{ID: "a-1", EventID: "e-1", VolunteerID: "alice"},
		{ID: "a-2", EventID: "e-1", VolunteerID: "bob"},
	}

	assert.Empty(t, ValidateSchedule(events, assignments))
}

func TestValidateSchedule_OverCapacity(t *testing.T) {
	events := []model.Event{
		{ID: "e-1", Date: date("2025-05-04"), Title: "Culto de Celebração - Manhã", RequiredCount: 1},
	}
	assignments := []model.Assignment{
		{ID: "a-1", EventID: "e-1", VolunteerID: "alice"},
		{ID: "a-2", EventID: "e-1", VolunteerID: "bob"},
	}

	violations := ValidateSchedule(events, assignments)
	require.Len(t, violations, 1)
	assert.Equal(t, RuleCapacity, violations[0].Rule)
	assert.Equal(t, "2025-05-04", violations[0].EventDate)
	assert.Contains(t, violations[0].Description, "has 2 assignments but requires 1")
}

func TestValidateSchedule_DuplicatePair(t *testing.T) {
	events := []model.Event{
		{ID: "e-1", Date: date("2025-05-07"), Title: "Culto Regular de Quarta", RequiredCount: 5},
	}
	assignments := []model.Assignment{
		{ID: "a-1", EventID: "e-1", VolunteerID: "alice"},
		{ID: "a-2", EventID: "e-1", VolunteerID: "alice"},
	}

	violations := ValidateSchedule(events, assignments)
	require.Len(t, violations, 1)
	assert.Equal(t, RuleUnique, violations[0].Rule)
	assert.Contains(t, violations[0].Description, "alice")
	assert.Contains(t, violations[0].Description, "assigned 2 times")
}

func TestValidateSchedule_UnknownEvent(t *testing.T) {
	assignments := []model.Assignment{
		{ID: "a-1", EventID: "missing", VolunteerID: "alice"},
	}

	violations := ValidateSchedule(nil, assignments)
	require.Len(t, violations, 1)
	assert.Equal(t, RuleReference, violations[0].Rule)
	assert.Contains(t, violations[0].Description, "unknown event missing")
}

func TestValidateSchedule_SortedByDate(t *testing.T) {
	events := []model.Event{
		{ID: "e-2", Date: date("2025-05-11"), Title: "B", RequiredCount: 0},
		{ID: "e-1", Date: date("2025-05-04"), Title: "A", RequiredCount: 0},
	}
	assignments := []model.Assignment{
		{ID: "a-1", EventID: "e-2", VolunteerID: "x"},
		{ID: "a-2", EventID: "e-1", VolunteerID: "y"},
	}

	violations := ValidateSchedule(events, assignments)
	require.Len(t, violations, 2)
	assert.Equal(t, "e-1", violations[0].EventID)
	assert.Equal(t, "e-2", violations[1].EventID)
}
