package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/core/model"
	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// CreateMinistry registers a new ministry
func CreateMinistry(ctx context.Context, store db.MinistryStore, logger *zap.Logger, name, kind, description string) (*model.Ministry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: ministry name is required", ErrInvalidInput)
	}

	ministry := &model.Ministry{
		ID:          uuid.New().String(),
		Name:        name,
		Kind:        strings.TrimSpace(kind),
		Description: strings.TrimSpace(description),
	}

	logger.Debug("Inserting ministry", zap.String("ministry_id", ministry.ID), zap.String("name", name))
	if err := store.InsertMinistry(ctx, ministry); err != nil {
		return nil, fmt.Errorf("failed to create ministry: %w", err)
	}

	logger.Info("Ministry created", zap.String("ministry_id", ministry.ID), zap.String("name", name))
	return ministry, nil
}

// ListMinistries returns all ministries ordered by name
func ListMinistries(ctx context.Context, store db.MinistryStore, logger *zap.Logger) ([]model.Ministry, error) {
	ministries, err := store.GetMinistries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ministries: %w", err)
	}
	logger.Debug("Listed ministries", zap.Int("count", len(ministries)))
	return ministries, nil
}
