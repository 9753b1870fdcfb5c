package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tradelink/settlement-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// transition bundles one state-machine step with its shared side effects:
// exactly one history row and milestone (appended by the repository inside
// the same database transaction as the mutation), a notification to each
// party, an optional realtime event, and an activity record. Every operation
// after create goes through processTransition.
type transition struct {
	op *domain.TransitionOp

	event           string
	notifyType      string
	notifyTitle     string
	buyerMessage    string
	supplierMessage string
}

func (uc *DefaultSettlementUsecase) processTransition(ctx context.Context, tr *transition) (*domain.Transaction, error) {
	t, err := uc.TxRepo.ProcessTransition(ctx, tr.op)
	if err != nil {
		return nil, mapRepoError(err)
	}

	uc.notifyParties(t, tr)
	uc.publishToParties(t, tr)

	if uc.Activity != nil {
		uc.Activity.Record(ctx, domain.ActivityEvent{
			ActorID:       tr.op.ChangedByID,
			Action:        string(tr.op.To),
			TransactionID: t.ID,
			Detail:        tr.op.Reason,
		})
	}

	return t, nil
}

func (uc *DefaultSettlementUsecase) notifyParties(t *domain.Transaction, tr *transition) {
	if uc.Notifier == nil || tr.notifyType == "" {
		return
	}
	uc.Notifier.Notify(domain.Notification{
		UserID:       t.BuyerID,
		Type:         tr.notifyType,
		Title:        tr.notifyTitle,
		Message:      tr.buyerMessage,
		ResourceType: "transaction",
		ResourceID:   t.ID,
	})
	uc.Notifier.Notify(domain.Notification{
		UserID:       t.SupplierID,
		Type:         tr.notifyType,
		Title:        tr.notifyTitle,
		Message:      tr.supplierMessage,
		ResourceType: "transaction",
		ResourceID:   t.ID,
	})
}

func (uc *DefaultSettlementUsecase) publishToParties(t *domain.Transaction, tr *transition) {
	if uc.Publisher == nil || tr.event == "" {
		return
	}
	for _, recipient := range []string{t.BuyerID, t.SupplierID} {
		go func(event domain.SettlementEvent) {
			if err := uc.Publisher.PublishSettlement(event); err != nil {
				slog.Error("failed to publish settlement event",
					"event", event.Event, "transaction_id", event.TransactionID, "error", err.Error())
			}
		}(domain.SettlementEvent{
			Event:         tr.event,
			TransactionID: t.ID,
			RecipientID:   recipient,
			Status:        string(t.Status),
			Amount:        t.Amount.String(),
			Currency:      t.Currency,
		})
	}
}

// mapRepoError translates repository sentinels into the transport error
// taxonomy. Errors already carrying a grpc status pass through untouched.
func mapRepoError(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return status.Error(codes.NotFound, "transaction not found")
	case errors.Is(err, domain.ErrRequirementNotFound):
		return status.Error(codes.NotFound, "requirement not found")
	case errors.Is(err, domain.ErrQuotationNotFound):
		return status.Error(codes.NotFound, "quotation not found")
	case errors.Is(err, domain.ErrEscrowNotFound):
		return status.Error(codes.NotFound, "escrow not found for transaction")
	case errors.Is(err, domain.ErrIllegalTransition):
		return status.Error(codes.FailedPrecondition, "operation illegal for current transaction status")
	case errors.Is(err, domain.ErrActiveTransactionExists):
		return status.Error(codes.AlreadyExists, "active transaction already exists for quotation")
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
