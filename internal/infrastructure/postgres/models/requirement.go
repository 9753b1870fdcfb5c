package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Requirement and quotation rows are owned by the listing subsystem; this
// service only reads them and flips their status inside the create
// transaction.

type RequirementModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	BuyerID   string `gorm:"type:uuid;index"`
	Title     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RequirementModel) TableName() string {
	return "requirements"
}

type QuotationModel struct {
	ID            string          `gorm:"primaryKey;type:uuid"`
	RequirementID string          `gorm:"type:uuid;index"`
	SupplierID    string          `gorm:"type:uuid;index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2)"`
	Currency      string
	LeadTimeDays  int
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (QuotationModel) TableName() string {
	return "quotations"
}
