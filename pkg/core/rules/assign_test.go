package rules

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/cpf"
)

func TestCanAssign(t *testing.T) {
	existing := []model.Assignment{
		{ID: "a-1", EventID: "event-1", VolunteerID: "alice"},
		{ID: "a-2", EventID: "event-2", VolunteerID: "bob"},
		{ID: "a-3", EventID: "event-2", VolunteerID: "carol"},
	}

	tests := []struct {
		name          string
		eventID       string
		volunteerID   string
		requiredCount int
		expected      error
	}{
		{"open slot", "event-1", "bob", 2, nil},
		{"duplicate pair with capacity left", "event-1", "alice", 5, ErrAlreadyAssigned},
		{"full event", "event-2", "alice", 2, ErrCapacityExceeded},
		{"duplicate wins over full", "event-2", "bob", 2, ErrAlreadyAssigned},
		{"other events ignored", "event-3", "alice", 1, nil},
		{"zero capacity", "event-3", "alice", 0, ErrCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanAssign(tt.eventID, tt.volunteerID, existing, tt.requiredCount)
			if tt.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestCanAssign_CapacityBoundary(t *testing.T) {
	var existing []model.Assignment
	for i, v := range []string{"a", "b"} {
		require.NoError(t, CanAssign("event-1", v, existing, 3), "assignment %d", i)
		existing = append(existing, model.Assignment{EventID: "event-1", VolunteerID: v})
	}

	// count (2) < requiredCount (3)
	assert.NoError(t, CanAssign("event-1", "c", existing, 3))

	existing = append(existing, model.Assignment{EventID: "event-1", VolunteerID: "c"})
	// count == requiredCount
	assert.ErrorIs(t, CanAssign("event-1", "d", existing, 3), ErrCapacityExceeded)
}

func TestCanAssign_FreedSlotScenario(t *testing.T) {
	existing := []model.Assignment{
		{ID: "as-a", EventID: "event-1", VolunteerID: "A"},
		{ID: "as-b", EventID: "event-1", VolunteerID: "B"},
	}

	assert.ErrorIs(t, CanAssign("event-1", "C", existing, 2), ErrCapacityExceeded)

	// A cancels
	remaining := existing[1:]
	assert.NoError(t, CanAssign("event-1", "C", remaining, 2))
}

func TestCanCancel(t *testing.T) {
	volunteers := []model.Volunteer{
		{ID: "alice", CPF: "11144477735"},
		{ID: "bob", CPF: "52998224725"},
	}
	lookup := LookupFromSlice(volunteers)
	assignment := model.Assignment{ID: "as-1", EventID: "event-1", VolunteerID: "alice"}

	t.Run("owner with punctuation", func(t *testing.T) {
		assert.NoError(t, CanCancel(assignment, "111.444.777-35", lookup))
	})

	t.Run("owner raw digits", func(t *testing.T) {
		assert.NoError(t, CanCancel(assignment, "11144477735", lookup))
	})

	t.Run("well formed but someone else", func(t *testing.T) {
		assert.ErrorIs(t, CanCancel(assignment, "529.982.247-25", lookup), ErrNotOwner)
	})

	t.Run("short input", func(t *testing.T) {
		err := CanCancel(assignment, "111.444", lookup)
		assert.ErrorIs(t, err, ErrInvalidFormat)
		assert.ErrorIs(t, err, cpf.ErrInvalid)
	})

	t.Run("volunteer missing", func(t *testing.T) {
		orphan := model.Assignment{ID: "as-2", EventID: "event-1", VolunteerID: "ghost"}
		assert.ErrorIs(t, CanCancel(orphan, "11144477735", lookup), ErrNotOwner)
	})

	t.Run("nil lookup", func(t *testing.T) {
		assert.ErrorIs(t, CanCancel(assignment, "11144477735", nil), ErrNotOwner)
	})
}

func TestOpenSlots(t *testing.T) {
	existing := []model.Assignment{
		{EventID: "event-1", VolunteerID: "a"},
		{EventID: "event-1", VolunteerID: "b"},
		{EventID: "event-2", VolunteerID: "c"},
	}

	assert.Equal(t, 1, OpenSlots("event-1", existing, 3))
	assert.Equal(t, 0, OpenSlots("event-1", existing, 2))
	assert.Equal(t, 0, OpenSlots("event-1", existing, 1))
	assert.Equal(t, 4, OpenSlots("event-3", existing, 4))
}

func TestKindOfAndMessage(t *testing.T) {
	tests := []struct {
		err     error
		kind    Kind
		message string
	}{
		{nil, KindNone, ""},
		{ErrInvalidFormat, KindInvalidFormat, "CPF inválido"},
		{cpf.ErrInvalid, KindInvalidFormat, "CPF inválido"},
		{ErrAlreadyAssigned, KindAlreadyAssigned, "Você já está escalado para este culto"},
		{ErrCapacityExceeded, KindCapacityExceeded, "Este culto já atingiu o número máximo de brigadistas"},
		{ErrNotOwner, KindNotOwner, "CPF não corresponde ao agendamento"},
		{ErrDateConflict, KindDateConflict, "Já existem eventos agendados para esta data"},
		{ErrEventPast, KindEventPast, "Este culto já aconteceu"},
		{errors.New("connection refused"), KindOther, "Erro ao processar a solicitação"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.kind, KindOf(tt.err))
		assert.Equal(t, tt.message, Message(tt.err))
	}
}

func TestIsUpcoming(t *testing.T) {
	event := model.Event{ID: "event-1", Date: time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC)}
	saoPaulo := time.FixedZone("BRT", -3*60*60)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"day before", time.Date(2024, 4, 6, 23, 0, 0, 0, time.UTC), nil},
		{"same day evening", time.Date(2024, 4, 7, 21, 0, 0, 0, time.UTC), nil},
		{"local date still the day of the event", time.Date(2024, 4, 7, 23, 30, 0, 0, saoPaulo), nil},
		{"day after", time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC), ErrEventPast},
		{"long past", time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), ErrEventPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IsUpcoming(event, tt.now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
