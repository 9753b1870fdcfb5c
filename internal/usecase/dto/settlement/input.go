package settlementdto

import "github.com/tradelink/settlement-service/internal/domain"

type CreateTransactionInput struct {
	RequirementID string
	QuotationID   string
	SupplierID    string
	BuyerID       string
	PaymentMethod domain.PaymentMethod
}

type QualityAssessmentInput struct {
	TransactionID  string
	CallerID       string
	Rating         int32
	Notes          string
	ApprovalStatus domain.ApprovalStatus
	Issues         []string
	Photos         []string
}
