package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tradelink/settlement-service/internal/domain"
	settlementdto "github.com/tradelink/settlement-service/internal/usecase/dto/settlement"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CreateTransaction opens a settlement for an accepted quotation. The
// transaction, escrow, release conditions, initial milestone and history row,
// and the quotation/requirement status flips are committed as one unit; the
// payment-intent request runs after commit and its failure degrades the
// response instead of rolling anything back.
func (uc *DefaultSettlementUsecase) CreateTransaction(ctx context.Context, input *settlementdto.CreateTransactionInput) (*settlementdto.CreateTransactionOutput, error) {
	if !input.PaymentMethod.Valid() {
		return nil, status.Errorf(codes.InvalidArgument, "unknown payment method: %s", input.PaymentMethod)
	}

	requirement, err := uc.RequirementRepo.GetRequirementByID(ctx, input.RequirementID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if requirement.BuyerID != input.BuyerID {
		return nil, status.Error(codes.PermissionDenied, "requirement does not belong to caller")
	}

	quotation, err := uc.RequirementRepo.GetQuotationByID(ctx, input.QuotationID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if quotation.RequirementID != requirement.ID {
		return nil, status.Error(codes.InvalidArgument, "quotation does not belong to requirement")
	}
	if quotation.SupplierID != input.SupplierID {
		return nil, status.Error(codes.InvalidArgument, "quotation does not belong to supplier")
	}
	if quotation.Status == domain.QuotationExpired {
		return nil, status.Error(codes.InvalidArgument, "quotation is expired")
	}
	if quotation.Status == domain.QuotationAccepted {
		return nil, status.Error(codes.AlreadyExists, "quotation already accepted")
	}

	now := time.Now()
	transaction := &domain.Transaction{
		ID:                uuid.New().String(),
		BuyerID:           input.BuyerID,
		SupplierID:        input.SupplierID,
		RequirementID:     requirement.ID,
		QuotationID:       quotation.ID,
		Status:            domain.StatusPaymentPending,
		Amount:            quotation.TotalAmount,
		Currency:          quotation.Currency,
		PaymentMethod:     input.PaymentMethod,
		EstimatedDelivery: now.AddDate(0, 0, quotation.LeadTimeDays),
	}

	escrow := &domain.EscrowTransaction{
		ID:              uuid.New().String(),
		TransactionID:   transaction.ID,
		TotalAmount:     quotation.TotalAmount,
		Status:          domain.EscrowPending,
		AutoReleaseDate: now.AddDate(0, 0, uc.autoReleaseDays),
	}
	escrow.Conditions = domain.NewReleaseConditions(escrow.ID)
	transaction.Escrow = escrow

	history := domain.StatusHistoryEntry{
		TransactionID: transaction.ID,
		OldStatus:     domain.StatusInitiated,
		NewStatus:     domain.StatusPaymentPending,
		ChangedByID:   input.BuyerID,
		Reason:        "transaction created from accepted quotation",
		Metadata: map[string]string{
			"quotation_id":   quotation.ID,
			"requirement_id": requirement.ID,
			"amount":         quotation.TotalAmount.String(),
			"currency":       quotation.Currency,
		},
	}
	milestone := domain.Milestone{
		TransactionID: transaction.ID,
		Status:        domain.StatusPaymentPending,
		Description:   "Transaction created, awaiting buyer payment",
		Actor:         input.BuyerID,
	}

	if err := uc.TxRepo.CreateSettlement(ctx, transaction, escrow, history, milestone); err != nil {
		return nil, mapRepoError(err)
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordCreated(transaction)
	}

	// Best effort from here on: the settlement is committed.
	intent := uc.requestPaymentIntent(ctx, transaction)

	uc.notifyParties(transaction, &transition{
		notifyType:      "transaction_created",
		notifyTitle:     "Transaction created",
		buyerMessage:    fmt.Sprintf("Your transaction for %s %s is awaiting payment", transaction.Amount.String(), transaction.Currency),
		supplierMessage: "Your quotation was accepted and a transaction was opened",
	})
	if uc.Notifier != nil {
		uc.Notifier.NotifyRole("ADMIN", domain.Notification{
			Type:         "transaction_review",
			Title:        "New transaction requires review",
			Message:      fmt.Sprintf("Transaction %s created for %s %s", transaction.ID, transaction.Amount.String(), transaction.Currency),
			ResourceType: "transaction",
			ResourceID:   transaction.ID,
		})
	}

	if uc.Activity != nil {
		uc.Activity.Record(ctx, domain.ActivityEvent{
			ActorID:       input.BuyerID,
			Action:        "transaction_created",
			TransactionID: transaction.ID,
			Detail:        fmt.Sprintf("quotation %s accepted", quotation.ID),
		})
	}

	return &settlementdto.CreateTransactionOutput{
		Transaction:   transaction,
		Escrow:        escrow,
		PaymentIntent: intent,
	}, nil
}

// requestPaymentIntent asks the gateway for an intent. Failure is logged and
// surfaced as a nil intent; the background retry worker picks it up later.
func (uc *DefaultSettlementUsecase) requestPaymentIntent(ctx context.Context, t *domain.Transaction) *domain.PaymentIntent {
	if uc.Payments == nil {
		return nil
	}
	intent, err := uc.Payments.CreatePaymentIntent(ctx, domain.PaymentIntentRequest{
		Amount:        t.Amount,
		AdvanceAmount: t.Amount.Mul(uc.advanceRate).Round(2),
		Currency:      t.Currency,
		TransactionID: t.ID,
		BuyerID:       t.BuyerID,
		PaymentMethod: t.PaymentMethod,
		Metadata: map[string]string{
			"quotation_id": t.QuotationID,
		},
	})
	if err != nil || intent == nil || !intent.Success {
		slog.Error("payment intent creation failed, will retry",
			"transaction_id", t.ID, "error", errString(err))
		return nil
	}
	t.PaymentIntentID = intent.PaymentIntentID
	if err := uc.TxRepo.SetPaymentIntentID(ctx, t.ID, intent.PaymentIntentID); err != nil {
		slog.Error("failed to persist payment intent id", "transaction_id", t.ID, "error", err.Error())
	}
	return intent
}

// RetryPaymentIntents re-requests intents for payment-pending transactions
// whose original request failed.
func (uc *DefaultSettlementUsecase) RetryPaymentIntents(ctx context.Context) error {
	transactions, err := uc.TxRepo.FindMissingPaymentIntents(ctx, 100)
	if err != nil {
		return err
	}
	for _, t := range transactions {
		if intent := uc.requestPaymentIntent(ctx, t); intent != nil {
			slog.Info("payment intent created on retry", "transaction_id", t.ID, "payment_intent_id", intent.PaymentIntentID)
		}
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return "gateway declined"
	}
	return err.Error()
}
