package usecase

import (
	"context"

	"github.com/tradelink/settlement-service/internal/domain"
	settlementdto "github.com/tradelink/settlement-service/internal/usecase/dto/settlement"
)

func (uc *DefaultSettlementUsecase) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	t, err := uc.TxRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return t, nil
}

// GetQualityState projects the assessment fields together with the escrow
// side of the gate: which release conditions the verdict has satisfied so far.
func (uc *DefaultSettlementUsecase) GetQualityState(ctx context.Context, transactionID string) (*settlementdto.QualityStateOutput, error) {
	t, err := uc.TxRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	escrow, err := uc.EscrowRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return &settlementdto.QualityStateOutput{
		Status:           t.Status,
		AssessedAt:       t.AssessedAt,
		AssessedBy:       t.AssessedByID,
		Rating:           t.QualityRating,
		Notes:            t.QualityNotes,
		Issues:           t.QualityIssues,
		Photos:           t.QualityPhotos,
		AcceptanceReason: t.AcceptanceReason,
		RejectionReason:  t.RejectionReason,
		EscrowStatus:     escrow.Status,
		Conditions:       escrow.Conditions,
	}, nil
}

func (uc *DefaultSettlementUsecase) ListHistory(ctx context.Context, transactionID string) ([]domain.StatusHistoryEntry, error) {
	entries, err := uc.HistoryRepo.ListHistory(ctx, transactionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return entries, nil
}

func (uc *DefaultSettlementUsecase) ListMilestones(ctx context.Context, transactionID string) ([]domain.Milestone, error) {
	milestones, err := uc.HistoryRepo.ListMilestones(ctx, transactionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return milestones, nil
}

func (uc *DefaultSettlementUsecase) ListDisputeNotices(ctx context.Context, transactionID string) ([]*domain.DisputeNotice, error) {
	notices, err := uc.DisputeRepo.GetNoticesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return notices, nil
}
