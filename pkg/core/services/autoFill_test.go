package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/allocator"
	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/core/rules"
	"github.com/agendaccp/agenda-ccp/pkg/db"
	"github.com/agendaccp/agenda-ccp/pkg/db/dbtest"
)

// newAutoFillFixture has two open April events. Ana served once in March,
// Caio is inactive.
func newAutoFillFixture() *dbtest.Store {
	store := newMockStore()
	store.AddMinistry(ministryID, "Brigada")
	store.AddVolunteer("vol-ana", "Ana", anaCPF, model.StatusActive)
	store.AddVolunteer("vol-bia", "Bia", biaCPF, model.StatusActive)
	store.AddVolunteer("vol-caio", "Caio", "39053344705", model.StatusInactive)
	store.AddEvent("ev-mar", "2024-03-31", "Culto de Páscoa", 1)
	store.AddAssignment("as-mar", "ev-mar", "vol-ana")
	store.AddEvent("ev-a", "2024-04-03", "Culto de Quarta", 1)
	store.AddEvent("ev-b", "2024-04-07", "Culto de Celebração", 1)
	return store
}

func TestAutoFillMonth(t *testing.T) {
	store := newAutoFillFixture()

	result, err := AutoFillMonth(context.Background(), store, zap.NewNop(), ministryID, 2024, time.April, 0, false)
	require.NoError(t, err)

	// Bia has no history so she takes the first slot
	assert.Equal(t, []allocator.Proposal{
		{EventID: "ev-a", VolunteerID: "vol-bia"},
		{EventID: "ev-b", VolunteerID: "vol-ana"},
	}, result.Proposals)
	assert.Len(t, result.Written, 2)
	assert.Empty(t, result.Rejected)
	assert.Empty(t, result.Unfilled)
	assert.Empty(t, result.ValidationErrors)
	assert.Equal(t, map[string]int{"vol-ana": 1, "vol-bia": 1}, result.Load)

	assert.Len(t, store.Assignments, 3)
	for _, a := range store.Assignments {
		assert.NotEqual(t, "vol-caio", a.VolunteerID)
	}
}

func TestAutoFillMonth_DryRun(t *testing.T) {
	store := newAutoFillFixture()

	result, err := AutoFillMonth(context.Background(), store, zap.NewNop(), ministryID, 2024, time.April, 0, true)
	require.NoError(t, err)

	assert.Len(t, result.Proposals, 2)
	assert.Empty(t, result.Written)
	assert.Len(t, store.Assignments, 1)
}

func TestAutoFillMonth_KeepsStoredAssignments(t *testing.T) {
	store := newAutoFillFixture()
	store.AddAssignment("as-a", "ev-a", "vol-bia")

	result, err := AutoFillMonth(context.Background(), store, zap.NewNop(), ministryID, 2024, time.April, 0, false)
	require.NoError(t, err)

	assert.Equal(t, []allocator.Proposal{{EventID: "ev-b", VolunteerID: "vol-ana"}}, result.Proposals)
	assert.Len(t, store.Assignments, 3)
}

func TestAutoFillMonth_MaxPerVolunteer(t *testing.T) {
	store := newAutoFillFixture()
	delete(store.Volunteers, "vol-bia")

	result, err := AutoFillMonth(context.Background(), store, zap.NewNop(), ministryID, 2024, time.April, 1, false)
	require.NoError(t, err)

	assert.Len(t, result.Proposals, 1)
	require.Len(t, result.Unfilled, 1)
	assert.NotEmpty(t, result.ValidationErrors)
}

func TestAutoFillMonth_StoreRejections(t *testing.T) {
	store := newAutoFillFixture()
	store.InsertAssignmentErr = db.ErrCapacityReached

	result, err := AutoFillMonth(context.Background(), store, zap.NewNop(), ministryID, 2024, time.April, 0, false)
	require.NoError(t, err)

	assert.Empty(t, result.Written)
	require.Len(t, result.Rejected, 2)
	assert.Equal(t, rules.KindCapacityExceeded, rules.KindOf(result.Rejected[0].Err))
}

func TestAutoFillMonth_Errors(t *testing.T) {
	t.Run("insert failure", func(t *testing.T) {
		store := newAutoFillFixture()
		store.InsertAssignmentErr = errors.New("connection reset")

		_, err := AutoFillMonth(context.Background(), store, zap.NewNop(), ministryID, 2024, time.April, 0, false)
		assert.ErrorContains(t, err, "failed to insert assignment")
	})

	t.Run("events failure", func(t *testing.T) {
		store := newAutoFillFixture()
		store.GetEventsErr = errors.New("connection reset")

		_, err := AutoFillMonth(context.Background(), store, zap.NewNop(), ministryID, 2024, time.April, 0, false)
		assert.ErrorContains(t, err, "failed to get events")
	})
}
