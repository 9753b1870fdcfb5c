package settlementdto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradelink/settlement-service/internal/domain"
)

type CreateTransactionOutput struct {
	Transaction *domain.Transaction
	Escrow      *domain.EscrowTransaction
	// PaymentIntent is nil when the gateway request failed; creation itself
	// is already committed and the intent is retried in the background.
	PaymentIntent *domain.PaymentIntent
}

type QualityAssessmentOutput struct {
	Transaction    *domain.Transaction
	ApprovalStatus domain.ApprovalStatus
	FundReleased   bool
	DisputeCreated bool
	DisputeID      string
}

type QualityStateOutput struct {
	Status           domain.TransactionStatus
	AssessedAt       *time.Time
	AssessedBy       string
	Rating           *int32
	Notes            string
	Issues           []string
	Photos           []string
	AcceptanceReason string
	RejectionReason  string

	EscrowStatus domain.EscrowStatus
	Conditions   []domain.ReleaseCondition
}

type ReleaseOutput struct {
	Transaction          *domain.Transaction
	PlatformFee          decimal.Decimal
	PayoutAmount         decimal.Decimal
	ReleaseTransactionID string
}
