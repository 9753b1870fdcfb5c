package repository

import (
	"context"

	"github.com/tradelink/settlement-service/internal/domain"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultDisputeRepository struct {
	DB *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{DB: db}
}

// CreateNoticePair inserts both sides of a dispute atomically so neither
// party ever sees a half-opened dispute.
func (r *DefaultDisputeRepository) CreateNoticePair(ctx context.Context, supplierNotice, buyerNotice *domain.DisputeNotice) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(mappers.ToGORMDisputeNotice(supplierNotice)).Error; err != nil {
			return err
		}
		return tx.Create(mappers.ToGORMDisputeNotice(buyerNotice)).Error
	})
}

func (r *DefaultDisputeRepository) GetNoticesByTransactionID(ctx context.Context, transactionID string) ([]*domain.DisputeNotice, error) {
	var noticeModels []models.DisputeNoticeModel
	err := r.DB.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").
		Find(&noticeModels).Error
	if err != nil {
		return nil, err
	}

	notices := make([]*domain.DisputeNotice, len(noticeModels))
	for i := range noticeModels {
		notices[i] = mappers.ToDomainDisputeNotice(&noticeModels[i])
	}
	return notices, nil
}
