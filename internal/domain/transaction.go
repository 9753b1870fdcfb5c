package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusInitiated         TransactionStatus = "INITIATED"
	StatusPaymentPending    TransactionStatus = "PAYMENT_PENDING"
	StatusEscrowHeld        TransactionStatus = "ESCROW_HELD"
	StatusInTransit         TransactionStatus = "IN_TRANSIT"
	StatusDeliveryConfirmed TransactionStatus = "DELIVERY_CONFIRMED"
	StatusQualityPending    TransactionStatus = "QUALITY_PENDING"
	StatusQualityCheck      TransactionStatus = "QUALITY_CHECK"
	StatusQualityApproved   TransactionStatus = "QUALITY_APPROVED"
	StatusQualityRejected   TransactionStatus = "QUALITY_REJECTED"
	StatusDisputed          TransactionStatus = "DISPUTED"
	StatusFundsReleased     TransactionStatus = "FUNDS_RELEASED"
	StatusCompleted         TransactionStatus = "COMPLETED"
	StatusCancelled         TransactionStatus = "CANCELLED"
	StatusRefunded          TransactionStatus = "REFUNDED"
)

// Terminal reports whether no further transition may leave the status.
func (s TransactionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRefunded
}

// QualityAssessable lists the statuses a quality assessment may be submitted from.
var QualityAssessable = []TransactionStatus{
	StatusQualityPending,
	StatusDeliveryConfirmed,
	StatusQualityCheck,
}

type PaymentMethod string

const (
	PaymentMethodStripe       PaymentMethod = "STRIPE"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodWire         PaymentMethod = "WIRE"
	PaymentMethodEscrow       PaymentMethod = "ESCROW"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodStripe, PaymentMethodBankTransfer, PaymentMethodWire, PaymentMethodEscrow:
		return true
	}
	return false
}

type ApprovalStatus string

const (
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

type Transaction struct {
	ID            string
	BuyerID       string
	SupplierID    string
	RequirementID string
	QuotationID   string
	Status        TransactionStatus

	Amount        decimal.Decimal
	Currency      string
	PaymentMethod PaymentMethod

	EstimatedDelivery time.Time
	PaymentIntentID   string

	// Quality assessment outcome, set once by the buyer.
	QualityRating    *int32
	QualityNotes     string
	QualityIssues    []string
	QualityPhotos    []string
	AssessedByID     string
	AssessedAt       *time.Time
	AcceptanceReason string
	RejectionReason  string

	// Fund release outcome.
	FundsReleasedAt      *time.Time
	FundsReleasedByID    string
	ReleaseReason        string
	PlatformFee          decimal.Decimal
	PayoutAmount         decimal.Decimal
	ReleaseTransactionID string

	CreatedAt time.Time
	UpdatedAt time.Time

	Escrow *EscrowTransaction
}
