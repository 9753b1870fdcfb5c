package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	BuyerID       string `gorm:"type:uuid;index"`
	SupplierID    string `gorm:"type:uuid;index"`
	RequirementID string `gorm:"type:uuid"`
	QuotationID   string `gorm:"type:uuid;index:idx_quotation"`
	Status        string `gorm:"index:idx_tx_status"`

	Amount        decimal.Decimal `gorm:"type:decimal(18,2)"`
	Currency      string
	PaymentMethod string

	EstimatedDelivery time.Time
	PaymentIntentID   string

	QualityRating    *int32
	QualityNotes     string `gorm:"type:text"`
	QualityIssues    string `gorm:"type:jsonb"`
	QualityPhotos    string `gorm:"type:jsonb"`
	AssessedByID     string
	AssessedAt       *time.Time
	AcceptanceReason string `gorm:"type:text"`
	RejectionReason  string `gorm:"type:text"`

	FundsReleasedAt      *time.Time
	FundsReleasedByID    string
	ReleaseReason        string
	PlatformFee          decimal.Decimal `gorm:"type:decimal(18,2)"`
	PayoutAmount         decimal.Decimal `gorm:"type:decimal(18,2)"`
	ReleaseTransactionID string

	CreatedAt time.Time `gorm:"index:idx_tx_created_at"`
	UpdatedAt time.Time

	Escrow EscrowModel `gorm:"foreignKey:TransactionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

func (TransactionModel) TableName() string {
	return "transactions"
}
