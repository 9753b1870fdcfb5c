package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/tradelink/settlement-service/internal/domain"
	settlementdto "github.com/tradelink/settlement-service/internal/usecase/dto/settlement"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// releasableStatuses are the legal sources for a fund release: the quality
// approval path and, for the auto-release sweep, any custody status where the
// buyer simply went silent. Never PAYMENT_PENDING (no funds in custody yet)
// and never QUALITY_REJECTED or DISPUTED (the dispute decides where the
// funds go).
var releasableStatuses = []domain.TransactionStatus{
	domain.StatusEscrowHeld,
	domain.StatusInTransit,
	domain.StatusDeliveryConfirmed,
	domain.StatusQualityPending,
	domain.StatusQualityCheck,
	domain.StatusQualityApproved,
}

// Release computes the platform fee and payout and moves both the
// transaction and its escrow to released. Amount arithmetic is decimal
// throughout. A release on an already-released or otherwise illegal status is
// rejected, not tolerated; the status re-check runs inside the repository's
// locked transaction so concurrent duplicates lose deterministically.
func (uc *DefaultSettlementUsecase) Release(ctx context.Context, transactionID, releasedByID, reason string) (*settlementdto.ReleaseOutput, error) {
	newReleaseToken, err := nanoid.Standard(15)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	releaseTransactionID := fmt.Sprintf("rel_%s", newReleaseToken())

	// Apply fills the fee/payout metadata in; the repository snapshots
	// Metadata after Apply ran, so the history row carries the split.
	metadata := map[string]string{
		"release_transaction_id": releaseTransactionID,
	}

	t, err := uc.processTransition(ctx, &transition{
		op: &domain.TransitionOp{
			TransactionID:        transactionID,
			From:                 releasableStatuses,
			To:                   domain.StatusFundsReleased,
			ChangedByID:          releasedByID,
			Reason:               reason,
			Metadata:             metadata,
			MilestoneDescription: "Escrowed funds released to supplier",
			Actor:                releasedByID,
			Apply: func(t *domain.Transaction, e *domain.EscrowTransaction) error {
				now := time.Now()
				platformFee := t.Amount.Mul(uc.feeRate).Round(2)
				payoutAmount := t.Amount.Sub(platformFee)

				t.PlatformFee = platformFee
				t.PayoutAmount = payoutAmount
				t.FundsReleasedAt = &now
				t.FundsReleasedByID = releasedByID
				t.ReleaseReason = reason
				t.ReleaseTransactionID = releaseTransactionID

				e.Status = domain.EscrowReleased
				e.ReleaseDate = &now

				metadata["platform_fee"] = platformFee.String()
				metadata["payout_amount"] = payoutAmount.String()
				return nil
			},
		},
	})
	if err != nil {
		if uc.Metrics != nil {
			uc.Metrics.RecordReleaseError()
		}
		return nil, err
	}

	uc.notifyParties(t, &transition{
		notifyType:      "funds_released",
		notifyTitle:     "Funds released",
		buyerMessage:    "Escrowed funds were released to the supplier",
		supplierMessage: fmt.Sprintf("A payout of %s %s is on its way to you", t.PayoutAmount.String(), t.Currency),
	})
	uc.publishFundsReleased(t)

	if uc.Activity != nil {
		uc.Activity.Record(ctx, domain.ActivityEvent{
			ActorID:       releasedByID,
			Action:        "funds_released",
			TransactionID: t.ID,
			Detail:        fmt.Sprintf("payout %s, fee %s (%s)", t.PayoutAmount.String(), t.PlatformFee.String(), reason),
		})
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordRelease(t)
	}

	return &settlementdto.ReleaseOutput{
		Transaction:          t,
		PlatformFee:          t.PlatformFee,
		PayoutAmount:         t.PayoutAmount,
		ReleaseTransactionID: t.ReleaseTransactionID,
	}, nil
}

func slogReleaseError(transactionID string, err error) {
	slog.Error("fund release failed", "transaction_id", transactionID, "error", err.Error())
}

func (uc *DefaultSettlementUsecase) publishFundsReleased(t *domain.Transaction) {
	if uc.Publisher == nil {
		return
	}
	go func(event domain.SettlementEvent) {
		if err := uc.Publisher.PublishSettlement(event); err != nil {
			slogReleaseError(t.ID, err)
		}
	}(domain.SettlementEvent{
		Event:         "fundsReleased",
		TransactionID: t.ID,
		RecipientID:   t.SupplierID,
		Status:        string(domain.StatusFundsReleased),
		Amount:        t.PayoutAmount.String(),
		Currency:      t.Currency,
	})
}

// ReleaseDueEscrows is the scheduled sweep: every held escrow past its
// auto-release deadline goes through the same Release entry point.
func (uc *DefaultSettlementUsecase) ReleaseDueEscrows(ctx context.Context) error {
	escrows, err := uc.EscrowRepo.FindDueForAutoRelease(ctx, time.Now(), 100)
	if err != nil {
		return err
	}
	for _, e := range escrows {
		if _, err := uc.Release(ctx, e.TransactionID, "system", "auto-release"); err != nil {
			slogReleaseError(e.TransactionID, err)
		}
	}
	return nil
}

// CompletePayout closes the transaction once the external payout is
// confirmed settled.
func (uc *DefaultSettlementUsecase) CompletePayout(ctx context.Context, transactionID, changedByID string) (*domain.Transaction, error) {
	t, err := uc.processTransition(ctx, &transition{
		op: &domain.TransitionOp{
			TransactionID:        transactionID,
			From:                 []domain.TransactionStatus{domain.StatusFundsReleased},
			To:                   domain.StatusCompleted,
			ChangedByID:          changedByID,
			Reason:               "payout settled, transaction complete",
			MilestoneDescription: "Transaction completed",
			Actor:                changedByID,
		},
		event:           "completed",
		notifyType:      "transaction_completed",
		notifyTitle:     "Transaction completed",
		buyerMessage:    "Your transaction is complete",
		supplierMessage: "Your transaction is complete",
	})
	if err != nil {
		return nil, err
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordCompleted(t)
	}
	return t, nil
}
