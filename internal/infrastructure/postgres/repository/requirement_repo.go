package repository

import (
	"context"
	"errors"

	"github.com/tradelink/settlement-service/internal/domain"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultRequirementRepository struct {
	DB *gorm.DB
}

func NewDefaultRequirementRepository(db *gorm.DB) *DefaultRequirementRepository {
	return &DefaultRequirementRepository{DB: db}
}

func (r *DefaultRequirementRepository) GetRequirementByID(ctx context.Context, id string) (*domain.Requirement, error) {
	var model models.RequirementModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequirementNotFound
		}
		return nil, err
	}
	return mappers.ToDomainRequirement(&model), nil
}

func (r *DefaultRequirementRepository) GetQuotationByID(ctx context.Context, id string) (*domain.Quotation, error) {
	var model models.QuotationModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuotationNotFound
		}
		return nil, err
	}
	return mappers.ToDomainQuotation(&model), nil
}
