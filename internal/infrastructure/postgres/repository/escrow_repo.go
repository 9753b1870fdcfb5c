package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tradelink/settlement-service/internal/domain"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultEscrowRepository struct {
	DB *gorm.DB
}

func NewDefaultEscrowRepository(db *gorm.DB) *DefaultEscrowRepository {
	return &DefaultEscrowRepository{DB: db}
}

func (r *DefaultEscrowRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.EscrowTransaction, error) {
	var model models.EscrowModel
	err := r.DB.WithContext(ctx).
		Preload("Conditions").
		First(&model, "transaction_id = ?", transactionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEscrowNotFound
		}
		return nil, err
	}
	return mappers.ToDomainEscrow(&model), nil
}

// FindDueForAutoRelease returns escrows still holding funds past their
// auto-release deadline. The sweep releases each one through the normal
// transition path, so a row picked up here twice is harmless.
func (r *DefaultEscrowRepository) FindDueForAutoRelease(ctx context.Context, now time.Time, limit int) ([]*domain.EscrowTransaction, error) {
	var escrowModels []models.EscrowModel
	err := r.DB.WithContext(ctx).
		Where("status = ?", string(domain.EscrowHeld)).
		Where("auto_release_date <= ?", now).
		Order("auto_release_date ASC").
		Limit(limit).
		Find(&escrowModels).Error
	if err != nil {
		return nil, err
	}

	escrows := make([]*domain.EscrowTransaction, len(escrowModels))
	for i := range escrowModels {
		escrows[i] = mappers.ToDomainEscrow(&escrowModels[i])
	}
	return escrows, nil
}
