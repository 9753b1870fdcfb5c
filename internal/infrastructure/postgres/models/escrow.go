package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EscrowModel struct {
	ID            string          `gorm:"primaryKey;type:uuid"`
	TransactionID string          `gorm:"type:uuid;uniqueIndex"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2)"`
	Status        string          `gorm:"index:idx_escrow_status_release"`

	DeliveryConfirmed bool
	QualityApproved   bool
	DocumentsVerified bool

	AutoReleaseDate time.Time `gorm:"index:idx_escrow_status_release"`
	ReleaseDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Conditions []ReleaseConditionModel `gorm:"foreignKey:EscrowID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (EscrowModel) TableName() string {
	return "escrow_transactions"
}

type ReleaseConditionModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	EscrowID    string `gorm:"type:uuid;index"`
	Type        string
	Description string
	Satisfied   bool
	SatisfiedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ReleaseConditionModel) TableName() string {
	return "release_conditions"
}
