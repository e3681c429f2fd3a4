package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/db"
)

func TestAnnouncements(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()

	first, err := CreateAnnouncement(ctx, store, zap.NewNop(), ministryID, "Treinamento", "Sábado às 9h")
	require.NoError(t, err)
	assert.True(t, first.Active)

	second, err := CreateAnnouncement(ctx, store, zap.NewNop(), ministryID, "Uniforme", "Usar camiseta da brigada")
	require.NoError(t, err)

	require.NoError(t, SetAnnouncementActive(ctx, store, zap.NewNop(), first.ID, false))

	all, err := ListAnnouncements(ctx, store, zap.NewNop(), ministryID, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	active, err := ListAnnouncements(ctx, store, zap.NewNop(), ministryID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	require.NoError(t, DeleteAnnouncement(ctx, store, zap.NewNop(), second.ID))
	assert.ErrorIs(t, DeleteAnnouncement(ctx, store, zap.NewNop(), second.ID), db.ErrNotFound)
	assert.ErrorIs(t, SetAnnouncementActive(ctx, store, zap.NewNop(), "missing", true), db.ErrNotFound)
}

func TestCreateAnnouncement_RequiresTitleAndContent(t *testing.T) {
	store := newMockStore()

	_, err := CreateAnnouncement(context.Background(), store, zap.NewNop(), ministryID, "Aviso", "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = CreateAnnouncement(context.Background(), store, zap.NewNop(), ministryID, "", "texto")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, store.Announcements)
}
