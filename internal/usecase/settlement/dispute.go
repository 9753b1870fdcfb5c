package usecase

import (
	"context"
	"fmt"

	"github.com/jaevor/go-nanoid"
	"github.com/tradelink/settlement-service/internal/domain"
)

// openDispute creates the paired notification records on a quality
// rejection: one to the supplier (dispute opened) and one back to the buyer
// (dispute filed confirmation). The supplier-facing record id is the dispute
// id handed to the arbitration service. Only the opening trigger lives here.
func (uc *DefaultSettlementUsecase) openDispute(ctx context.Context, t *domain.Transaction, reason string) (string, error) {
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return "", err
	}

	supplierNotice := &domain.DisputeNotice{
		ID:            idGenerator(),
		TransactionID: t.ID,
		RecipientID:   t.SupplierID,
		Kind:          domain.DisputeNoticeOpened,
		Title:         "Quality dispute opened",
		Message:       fmt.Sprintf("The buyer rejected the quality of transaction %s and opened a dispute", t.ID),
		Reason:        reason,
	}
	buyerNotice := &domain.DisputeNotice{
		ID:            idGenerator(),
		TransactionID: t.ID,
		RecipientID:   t.BuyerID,
		Kind:          domain.DisputeNoticeFiled,
		PairedWithID:  supplierNotice.ID,
		Title:         "Dispute filed",
		Message:       fmt.Sprintf("Your quality dispute for transaction %s was filed", t.ID),
		Reason:        reason,
	}
	supplierNotice.PairedWithID = buyerNotice.ID

	if err := uc.DisputeRepo.CreateNoticePair(ctx, supplierNotice, buyerNotice); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOpenDisputeFailed, err)
	}

	if uc.Notifier != nil {
		uc.Notifier.Notify(domain.Notification{
			UserID:       supplierNotice.RecipientID,
			Type:         "dispute_opened",
			Title:        supplierNotice.Title,
			Message:      supplierNotice.Message,
			ResourceType: "transaction",
			ResourceID:   t.ID,
		})
		uc.Notifier.Notify(domain.Notification{
			UserID:       buyerNotice.RecipientID,
			Type:         "dispute_filed",
			Title:        buyerNotice.Title,
			Message:      buyerNotice.Message,
			ResourceType: "transaction",
			ResourceID:   t.ID,
		})
	}

	return supplierNotice.ID, nil
}
