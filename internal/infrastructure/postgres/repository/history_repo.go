package repository

import (
	"context"

	"github.com/tradelink/settlement-service/internal/domain"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultHistoryRepository struct {
	DB *gorm.DB
}

func NewDefaultHistoryRepository(db *gorm.DB) *DefaultHistoryRepository {
	return &DefaultHistoryRepository{DB: db}
}

func (r *DefaultHistoryRepository) ListHistory(ctx context.Context, transactionID string) ([]domain.StatusHistoryEntry, error) {
	var historyModels []models.StatusHistoryModel
	err := r.DB.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC, id ASC").
		Find(&historyModels).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domain.StatusHistoryEntry, len(historyModels))
	for i := range historyModels {
		entries[i] = mappers.ToDomainHistory(&historyModels[i])
	}
	return entries, nil
}

func (r *DefaultHistoryRepository) ListMilestones(ctx context.Context, transactionID string) ([]domain.Milestone, error) {
	var milestoneModels []models.MilestoneModel
	err := r.DB.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC, id ASC").
		Find(&milestoneModels).Error
	if err != nil {
		return nil, err
	}

	milestones := make([]domain.Milestone, len(milestoneModels))
	for i := range milestoneModels {
		milestones[i] = mappers.ToDomainMilestone(&milestoneModels[i])
	}
	return milestones, nil
}
