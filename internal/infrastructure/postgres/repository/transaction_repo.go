package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tradelink/settlement-service/internal/domain"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultTransactionRepository struct {
	DB *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{DB: db}
}

// CreateSettlement writes the transaction, escrow, conditions, initial
// history row and milestone, and flips the quotation and requirement to
// ACCEPTED in one database transaction. The partial unique index on
// (quotation_id) over non-terminal rows serializes concurrent creates; the
// loser surfaces ErrActiveTransactionExists.
func (r *DefaultTransactionRepository) CreateSettlement(
	ctx context.Context,
	t *domain.Transaction,
	e *domain.EscrowTransaction,
	h domain.StatusHistoryEntry,
	m domain.Milestone,
) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.TransactionModel{}).
			Where("quotation_id = ?", t.QuotationID).
			Where("status NOT IN ?", terminalStatuses()).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return domain.ErrActiveTransactionExists
		}

		if err := tx.Create(mappers.ToGORMTransaction(t)).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrActiveTransactionExists
			}
			return err
		}

		for i := range e.Conditions {
			if e.Conditions[i].ID == "" {
				e.Conditions[i].ID = uuid.New().String()
			}
		}
		if err := tx.Create(mappers.ToGORMEscrow(e)).Error; err != nil {
			return err
		}

		if err := tx.Create(mappers.ToGORMHistory(&h)).Error; err != nil {
			return err
		}
		if err := tx.Create(mappers.ToGORMMilestone(&m)).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.QuotationModel{}).
			Where("id = ?", t.QuotationID).
			Update("status", string(domain.QuotationAccepted)).Error; err != nil {
			return err
		}
		return tx.Model(&models.RequirementModel{}).
			Where("id = ?", t.RequirementID).
			Update("status", string(domain.RequirementAccepted)).Error
	})
}

func (r *DefaultTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var model models.TransactionModel
	err := r.DB.WithContext(ctx).
		Preload("Escrow").
		Preload("Escrow.Conditions").
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

// ProcessTransition is the single atomic read-modify-write path for every
// state-machine step after create. The transaction row is locked FOR UPDATE,
// the status is re-checked against op.From under that lock, Apply mutates the
// domain entities, and exactly one history row plus one milestone land in the
// same database transaction.
func (r *DefaultTransactionRepository) ProcessTransition(ctx context.Context, op *domain.TransitionOp) (*domain.Transaction, error) {
	var result *domain.Transaction

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.TransactionModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&model, "id = ?", op.TransactionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTransactionNotFound
			}
			return err
		}

		if !statusAllowed(domain.TransactionStatus(model.Status), op.From) {
			return domain.ErrIllegalTransition
		}

		var escrowModel models.EscrowModel
		err = tx.Preload("Conditions").
			First(&escrowModel, "transaction_id = ?", op.TransactionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrEscrowNotFound
			}
			return err
		}

		t := mappers.ToDomainTransaction(&model)
		e := mappers.ToDomainEscrow(&escrowModel)
		oldStatus := t.Status
		t.Status = op.To

		if op.Apply != nil {
			if err := op.Apply(t, e); err != nil {
				return err
			}
		}

		updated := mappers.ToGORMTransaction(t)
		updated.CreatedAt = model.CreatedAt
		if err := tx.Save(updated).Error; err != nil {
			return err
		}

		updatedEscrow := mappers.ToGORMEscrow(e)
		updatedEscrow.CreatedAt = escrowModel.CreatedAt
		if err := tx.Omit("Conditions").Save(updatedEscrow).Error; err != nil {
			return err
		}
		// Only the satisfaction flags change after create; a full Save would
		// write the mapper's zero created_at over the stored one.
		for _, c := range updatedEscrow.Conditions {
			err := tx.Model(&models.ReleaseConditionModel{}).
				Where("id = ?", c.ID).
				Updates(map[string]interface{}{
					"satisfied":    c.Satisfied,
					"satisfied_at": c.SatisfiedAt,
				}).Error
			if err != nil {
				return err
			}
		}

		history := domain.StatusHistoryEntry{
			TransactionID: t.ID,
			OldStatus:     oldStatus,
			NewStatus:     op.To,
			ChangedByID:   op.ChangedByID,
			Reason:        op.Reason,
			Metadata:      op.Metadata,
		}
		if err := tx.Create(mappers.ToGORMHistory(&history)).Error; err != nil {
			return err
		}

		milestone := domain.Milestone{
			TransactionID: t.ID,
			Status:        op.To,
			Description:   op.MilestoneDescription,
			Actor:         op.Actor,
		}
		if err := tx.Create(mappers.ToGORMMilestone(&milestone)).Error; err != nil {
			return err
		}

		t.Escrow = e
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *DefaultTransactionRepository) SetPaymentIntentID(ctx context.Context, transactionID, paymentIntentID string) error {
	return r.DB.WithContext(ctx).Model(&models.TransactionModel{}).
		Where("id = ?", transactionID).
		Update("payment_intent_id", paymentIntentID).Error
}

func (r *DefaultTransactionRepository) FindMissingPaymentIntents(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	var transactionModels []models.TransactionModel
	err := r.DB.WithContext(ctx).
		Where("status = ?", string(domain.StatusPaymentPending)).
		Where("payment_intent_id = ''").
		Order("created_at ASC").
		Limit(limit).
		Find(&transactionModels).Error
	if err != nil {
		return nil, err
	}

	transactions := make([]*domain.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = mappers.ToDomainTransaction(&transactionModels[i])
	}
	return transactions, nil
}

func terminalStatuses() []string {
	return []string{
		string(domain.StatusCancelled),
		string(domain.StatusRefunded),
	}
}

func statusAllowed(current domain.TransactionStatus, allowed []domain.TransactionStatus) bool {
	for _, s := range allowed {
		if s == current {
			return true
		}
	}
	return false
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}
