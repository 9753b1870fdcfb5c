package usecase

import (
	"context"
	"time"

	"github.com/tradelink/settlement-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ConfirmPayment records that the buyer's payment reached custody:
// PAYMENT_PENDING -> ESCROW_HELD, escrow PENDING -> HELD.
func (uc *DefaultSettlementUsecase) ConfirmPayment(ctx context.Context, transactionID, changedByID string) (*domain.Transaction, error) {
	return uc.processTransition(ctx, &transition{
		op: &domain.TransitionOp{
			TransactionID:        transactionID,
			From:                 []domain.TransactionStatus{domain.StatusPaymentPending},
			To:                   domain.StatusEscrowHeld,
			ChangedByID:          changedByID,
			Reason:               "payment received, funds held in escrow",
			MilestoneDescription: "Payment received, funds held in escrow",
			Actor:                changedByID,
			Apply: func(t *domain.Transaction, e *domain.EscrowTransaction) error {
				e.Status = domain.EscrowHeld
				return nil
			},
		},
		event:           "escrowHeld",
		notifyType:      "payment_received",
		notifyTitle:     "Payment received",
		buyerMessage:    "Your payment is held in escrow until delivery and quality approval",
		supplierMessage: "Buyer payment is secured in escrow, you can ship the goods",
	})
}

// MarkShipped moves the goods in transit. Supplier only.
func (uc *DefaultSettlementUsecase) MarkShipped(ctx context.Context, transactionID, supplierID string) (*domain.Transaction, error) {
	return uc.processTransition(ctx, &transition{
		op: &domain.TransitionOp{
			TransactionID:        transactionID,
			From:                 []domain.TransactionStatus{domain.StatusEscrowHeld},
			To:                   domain.StatusInTransit,
			ChangedByID:          supplierID,
			Reason:               "supplier marked goods as shipped",
			MilestoneDescription: "Goods shipped by supplier",
			Actor:                supplierID,
			Apply: func(t *domain.Transaction, e *domain.EscrowTransaction) error {
				if t.SupplierID != supplierID {
					return status.Error(codes.PermissionDenied, "only the supplier can mark goods shipped")
				}
				return nil
			},
		},
		event:           "shipped",
		notifyType:      "goods_shipped",
		notifyTitle:     "Goods shipped",
		buyerMessage:    "The supplier shipped your goods",
		supplierMessage: "Shipment recorded, awaiting delivery confirmation",
	})
}

// ConfirmDelivery is the buyer acknowledging arrival of the goods:
// IN_TRANSIT -> QUALITY_PENDING, DELIVERY_CONFIRMED condition satisfied.
func (uc *DefaultSettlementUsecase) ConfirmDelivery(ctx context.Context, transactionID, buyerID string) (*domain.Transaction, error) {
	return uc.processTransition(ctx, &transition{
		op: &domain.TransitionOp{
			TransactionID:        transactionID,
			From:                 []domain.TransactionStatus{domain.StatusInTransit},
			To:                   domain.StatusQualityPending,
			ChangedByID:          buyerID,
			Reason:               "buyer confirmed delivery",
			MilestoneDescription: "Delivery confirmed, quality assessment pending",
			Actor:                buyerID,
			Apply: func(t *domain.Transaction, e *domain.EscrowTransaction) error {
				if t.BuyerID != buyerID {
					return status.Error(codes.PermissionDenied, "only the buyer can confirm delivery")
				}
				e.SatisfyCondition(domain.ConditionDeliveryConfirmed, time.Now())
				return nil
			},
		},
		event:           "deliveryConfirmed",
		notifyType:      "delivery_confirmed",
		notifyTitle:     "Delivery confirmed",
		buyerMessage:    "Please assess the quality of the delivered goods",
		supplierMessage: "Buyer confirmed delivery, quality assessment is pending",
	})
}

// VerifyDocuments satisfies the DOCUMENTS_VERIFIED release condition. Legal
// at any point while funds are in custody; it does not move the top-level
// status.
func (uc *DefaultSettlementUsecase) VerifyDocuments(ctx context.Context, transactionID, verifiedByID string) (*domain.Transaction, error) {
	t, err := uc.TxRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if t.Status.Terminal() {
		return nil, status.Error(codes.FailedPrecondition, "transaction already settled")
	}
	return uc.processTransition(ctx, &transition{
		op: &domain.TransitionOp{
			TransactionID:        transactionID,
			From:                 []domain.TransactionStatus{t.Status},
			To:                   t.Status,
			ChangedByID:          verifiedByID,
			Reason:               "trade documents verified",
			Metadata:             map[string]string{"condition": string(domain.ConditionDocumentsVerified)},
			MilestoneDescription: "Trade documents verified",
			Actor:                verifiedByID,
			Apply: func(t *domain.Transaction, e *domain.EscrowTransaction) error {
				e.SatisfyCondition(domain.ConditionDocumentsVerified, time.Now())
				return nil
			},
		},
		notifyType:      "documents_verified",
		notifyTitle:     "Documents verified",
		buyerMessage:    "Trade documents for your transaction were verified",
		supplierMessage: "Trade documents for your transaction were verified",
	})
}

// Cancel terminates a transaction before any funds reach custody.
func (uc *DefaultSettlementUsecase) Cancel(ctx context.Context, transactionID, cancelledByID, reason string) (*domain.Transaction, error) {
	t, err := uc.processTransition(ctx, &transition{
		op: &domain.TransitionOp{
			TransactionID:        transactionID,
			From:                 []domain.TransactionStatus{domain.StatusPaymentPending},
			To:                   domain.StatusCancelled,
			ChangedByID:          cancelledByID,
			Reason:               reason,
			MilestoneDescription: "Transaction cancelled",
			Actor:                cancelledByID,
		},
		event:           "cancelled",
		notifyType:      "transaction_cancelled",
		notifyTitle:     "Transaction cancelled",
		buyerMessage:    "The transaction was cancelled before payment",
		supplierMessage: "The transaction was cancelled before payment",
	})
	if err != nil {
		return nil, err
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordCancelled(t)
	}
	return t, nil
}

// Refund returns custody to the buyer: escrow and transaction both end
// REFUNDED. Legal while funds are held, in transit, or after a quality
// rejection put them under dispute. The dispute resolution itself happens
// externally, this is its custody side.
func (uc *DefaultSettlementUsecase) Refund(ctx context.Context, transactionID, refundedByID, reason string) (*domain.Transaction, error) {
	t, err := uc.processTransition(ctx, &transition{
		op: &domain.TransitionOp{
			TransactionID: transactionID,
			From: []domain.TransactionStatus{
				domain.StatusEscrowHeld,
				domain.StatusInTransit,
				domain.StatusQualityRejected,
				domain.StatusDisputed,
			},
			To:                   domain.StatusRefunded,
			ChangedByID:          refundedByID,
			Reason:               reason,
			MilestoneDescription: "Escrowed funds refunded to buyer",
			Actor:                refundedByID,
			Apply: func(t *domain.Transaction, e *domain.EscrowTransaction) error {
				e.Status = domain.EscrowRefunded
				return nil
			},
		},
		event:           "refunded",
		notifyType:      "transaction_refunded",
		notifyTitle:     "Funds refunded",
		buyerMessage:    "Escrowed funds were returned to you",
		supplierMessage: "The transaction was refunded to the buyer",
	})
	if err != nil {
		return nil, err
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordRefunded(t)
	}
	return t, nil
}
