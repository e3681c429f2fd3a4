package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/core/rules"
	"github.com/agendaccp/agenda-ccp/pkg/cpf"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

func TestCreateMinistry(t *testing.T) {
	store := newMockStore()

	m, err := CreateMinistry(context.Background(), store, zap.NewNop(), "  Brigada  ", "brigade", "Brigadistas do culto")
	require.NoError(t, err)
	assert.Equal(t, "Brigada", m.Name)
	assert.NotEmpty(t, m.ID)

	ministries, err := ListMinistries(context.Background(), store, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, ministries, 1)
	assert.Equal(t, m.ID, ministries[0].ID)

	_, err = CreateMinistry(context.Background(), store, zap.NewNop(), " ", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateVolunteer_Success(t *testing.T) {
	store := newMockStore()

	v, err := CreateVolunteer(context.Background(), store, zap.NewNop(), ministryID, VolunteerInput{
		Name: " Ana Souza ",
		CPF:  "111.444.777-35",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", v.Name)
	assert.Equal(t, anaCPF, v.CPF, "stored normalized")
	assert.Equal(t, model.StatusActive, v.Status, "defaults to active")
	assert.Equal(t, ministryID, v.MinistryID)
	assert.False(t, v.CreatedAt.IsZero())
}

func TestCreateVolunteer_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		input   VolunteerInput
		wantErr error
	}{
		{"empty name", VolunteerInput{Name: " ", CPF: anaCPF}, ErrInvalidInput},
		{"short cpf", VolunteerInput{Name: "Ana", CPF: "1114447773"}, rules.ErrInvalidFormat},
		{"bad checksum", VolunteerInput{Name: "Ana", CPF: "11144477736"}, rules.ErrInvalidFormat},
		{"repeated digits", VolunteerInput{Name: "Ana", CPF: "111.111.111-11"}, cpf.ErrInvalid},
		{"unknown status", VolunteerInput{Name: "Ana", CPF: anaCPF, Status: "paused"}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			_, err := CreateVolunteer(context.Background(), store, zap.NewNop(), ministryID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.Volunteers)
		})
	}
}

func TestCreateVolunteer_DuplicateCPF(t *testing.T) {
	store := newMockStore()
	store.AddVolunteer("vol-1", "Ana", anaCPF, model.StatusActive)

	_, err := CreateVolunteer(context.Background(), store, zap.NewNop(), ministryID, VolunteerInput{Name: "Outra", CPF: "111.444.777-35"})
	require.ErrorIs(t, err, ErrCPFTaken)
	assert.Equal(t, "CPF já cadastrado", ErrCPFTaken.Error())
	assert.Len(t, store.Volunteers, 1)
}

func TestCreateVolunteer_SameCPFOtherMinistry(t *testing.T) {
	store := newMockStore()
	store.AddVolunteer("vol-1", "Ana", anaCPF, model.StatusActive)

	v, err := CreateVolunteer(context.Background(), store, zap.NewNop(), "ministry-2", VolunteerInput{Name: "Ana", CPF: anaCPF})
	require.NoError(t, err)
	assert.Equal(t, "ministry-2", v.MinistryID)
}

func TestUpdateVolunteer(t *testing.T) {
	store := newMockStore()
	store.AddVolunteer("vol-1", "Ana", anaCPF, model.StatusActive)
	store.AddVolunteer("vol-2", "Bia", biaCPF, model.StatusActive)

	v, err := UpdateVolunteer(context.Background(), store, zap.NewNop(), "vol-1", VolunteerInput{
		Name: "Ana Souza", CPF: anaCPF, Status: model.StatusInactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", v.Name)
	assert.Equal(t, model.StatusInactive, store.Volunteers["vol-1"].Status)

	_, err = UpdateVolunteer(context.Background(), store, zap.NewNop(), "vol-1", VolunteerInput{Name: "Ana", CPF: biaCPF})
	assert.ErrorIs(t, err, ErrCPFTaken)

	_, err = UpdateVolunteer(context.Background(), store, zap.NewNop(), "missing", VolunteerInput{Name: "X", CPF: anaCPF})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestDeleteVolunteer_CascadesAssignments(t *testing.T) {
	store := newMockStore()
	store.AddVolunteer("vol-1", "Ana", anaCPF, model.StatusActive)
	store.AddEvent("ev-1", "2024-04-03", "Culto", 2)
	store.AddAssignment("as-1", "ev-1", "vol-1")

	require.NoError(t, DeleteVolunteer(context.Background(), store, zap.NewNop(), "vol-1"))
	assert.Empty(t, store.Volunteers)
	assert.Empty(t, store.Assignments)

	assert.ErrorIs(t, DeleteVolunteer(context.Background(), store, zap.NewNop(), "vol-1"), db.ErrNotFound)
}

func TestListVolunteers_ActiveOnly(t *testing.T) {
	store := newMockStore()
	store.AddVolunteer("vol-2", "Bia", biaCPF, model.StatusInactive)
	store.AddVolunteer("vol-1", "Ana", anaCPF, model.StatusActive)

	all, err := ListVolunteers(context.Background(), store, zap.NewNop(), ministryID, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ana", all[0].Name)

	active, err := ListVolunteers(context.Background(), store, zap.NewNop(), ministryID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "vol-1", active[0].ID)
}

func TestFindVolunteerByCPF(t *testing.T) {
	store := newMockStore()
	store.AddVolunteer("vol-1", "Ana", anaCPF, model.StatusActive)

	v, err := FindVolunteerByCPF(context.Background(), store, zap.NewNop(), ministryID, "111.444.777-35")
	require.NoError(t, err)
	assert.Equal(t, "vol-1", v.ID)

	_, err = FindVolunteerByCPF(context.Background(), store, zap.NewNop(), ministryID, biaCPF)
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = FindVolunteerByCPF(context.Background(), store, zap.NewNop(), ministryID, "123")
	assert.ErrorIs(t, err, rules.ErrInvalidFormat)
	assert.Equal(t, rules.KindInvalidFormat, rules.KindOf(err))
}

func TestUpdateVolunteer_StoreFailure(t *testing.T) {
	store := newMockStore()
	store.AddVolunteer("vol-1", "Ana", anaCPF, model.StatusActive)

	storeErr := errors.New("connection refused")
	store.GetVolunteerErr = storeErr

	_, err := UpdateVolunteer(context.Background(), store, zap.NewNop(), "vol-1", VolunteerInput{Name: "Ana", CPF: anaCPF})
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, rules.KindOther, rules.KindOf(err))
}
