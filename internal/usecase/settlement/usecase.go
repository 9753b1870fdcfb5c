package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tradelink/settlement-service/internal/config"
	"github.com/tradelink/settlement-service/internal/domain"
	"github.com/tradelink/settlement-service/internal/infrastructure/metrics"
	settlementdto "github.com/tradelink/settlement-service/internal/usecase/dto/settlement"
)

type SettlementUsecase interface {
	CreateTransaction(ctx context.Context, input *settlementdto.CreateTransactionInput) (*settlementdto.CreateTransactionOutput, error)

	ConfirmPayment(ctx context.Context, transactionID, changedByID string) (*domain.Transaction, error)
	MarkShipped(ctx context.Context, transactionID, supplierID string) (*domain.Transaction, error)
	ConfirmDelivery(ctx context.Context, transactionID, buyerID string) (*domain.Transaction, error)
	VerifyDocuments(ctx context.Context, transactionID, verifiedByID string) (*domain.Transaction, error)
	Cancel(ctx context.Context, transactionID, cancelledByID, reason string) (*domain.Transaction, error)
	Refund(ctx context.Context, transactionID, refundedByID, reason string) (*domain.Transaction, error)

	SubmitQualityAssessment(ctx context.Context, input *settlementdto.QualityAssessmentInput) (*settlementdto.QualityAssessmentOutput, error)
	Release(ctx context.Context, transactionID, releasedByID, reason string) (*settlementdto.ReleaseOutput, error)
	CompletePayout(ctx context.Context, transactionID, changedByID string) (*domain.Transaction, error)

	ReleaseDueEscrows(ctx context.Context) error
	RetryPaymentIntents(ctx context.Context) error

	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	GetQualityState(ctx context.Context, transactionID string) (*settlementdto.QualityStateOutput, error)
	ListHistory(ctx context.Context, transactionID string) ([]domain.StatusHistoryEntry, error)
	ListMilestones(ctx context.Context, transactionID string) ([]domain.Milestone, error)
	ListDisputeNotices(ctx context.Context, transactionID string) ([]*domain.DisputeNotice, error)
}

type DefaultSettlementUsecase struct {
	TxRepo          domain.TransactionRepository
	EscrowRepo      domain.EscrowRepository
	HistoryRepo     domain.HistoryRepository
	RequirementRepo domain.RequirementRepository
	DisputeRepo     domain.DisputeRepository

	Notifier  domain.NotifierPort
	Payments  domain.PaymentPort
	Publisher domain.EventPublisherPort
	Activity  domain.ActivityLogPort
	Metrics   *metrics.SettlementMetrics

	feeRate         decimal.Decimal
	advanceRate     decimal.Decimal
	autoReleaseDays int
}

func NewDefaultSettlementUsecase(
	txRepo domain.TransactionRepository,
	escrowRepo domain.EscrowRepository,
	historyRepo domain.HistoryRepository,
	requirementRepo domain.RequirementRepository,
	disputeRepo domain.DisputeRepository,
	notifier domain.NotifierPort,
	payments domain.PaymentPort,
	publisher domain.EventPublisherPort,
	activity domain.ActivityLogPort,
	settlementMetrics *metrics.SettlementMetrics,
	policy config.Policy,
) *DefaultSettlementUsecase {
	return &DefaultSettlementUsecase{
		TxRepo:          txRepo,
		EscrowRepo:      escrowRepo,
		HistoryRepo:     historyRepo,
		RequirementRepo: requirementRepo,
		DisputeRepo:     disputeRepo,
		Notifier:        notifier,
		Payments:        payments,
		Publisher:       publisher,
		Activity:        activity,
		Metrics:         settlementMetrics,
		feeRate:         policy.FeeRate(),
		advanceRate:     policy.AdvanceRate(),
		autoReleaseDays: policy.AutoReleaseDays,
	}
}
