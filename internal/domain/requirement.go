package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Requirement and Quotation are owned by the listing subsystem. The
// settlement core only reads them and flips their status inside the create
// transaction, so the shapes here are deliberately thin.

type RequirementStatus string

const (
	RequirementOpen     RequirementStatus = "OPEN"
	RequirementAccepted RequirementStatus = "ACCEPTED"
	RequirementClosed   RequirementStatus = "CLOSED"
)

type Requirement struct {
	ID        string
	BuyerID   string
	Title     string
	Status    RequirementStatus
	CreatedAt time.Time
}

type QuotationStatus string

const (
	QuotationPending  QuotationStatus = "PENDING"
	QuotationAccepted QuotationStatus = "ACCEPTED"
	QuotationRejected QuotationStatus = "REJECTED"
	QuotationExpired  QuotationStatus = "EXPIRED"
)

type Quotation struct {
	ID            string
	RequirementID string
	SupplierID    string
	TotalAmount   decimal.Decimal
	Currency      string
	LeadTimeDays  int
	Status        QuotationStatus
	CreatedAt     time.Time
}
