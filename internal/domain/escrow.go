package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EscrowStatus string

const (
	EscrowPending  EscrowStatus = "PENDING"
	EscrowHeld     EscrowStatus = "HELD"
	EscrowReleased EscrowStatus = "RELEASED"
	EscrowRefunded EscrowStatus = "REFUNDED"
	EscrowDisputed EscrowStatus = "DISPUTED"
)

type ConditionType string

const (
	ConditionDeliveryConfirmed ConditionType = "DELIVERY_CONFIRMED"
	ConditionQualityApproved   ConditionType = "QUALITY_APPROVED"
	ConditionDocumentsVerified ConditionType = "DOCUMENTS_VERIFIED"
)

// EscrowTransaction tracks custody of the buyer's funds independently of the
// top-level transaction status, so partial condition satisfaction stays
// visible before release.
type EscrowTransaction struct {
	ID            string
	TransactionID string
	TotalAmount   decimal.Decimal
	Status        EscrowStatus

	DeliveryConfirmed bool
	QualityApproved   bool
	DocumentsVerified bool

	AutoReleaseDate time.Time
	ReleaseDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Conditions []ReleaseCondition
}

type ReleaseCondition struct {
	ID          string
	EscrowID    string
	Type        ConditionType
	Description string
	Satisfied   bool
	SatisfiedAt *time.Time
}

// AllConditionsSatisfied reports whether every release condition is met.
// Full release requires this or the auto-release deadline.
func (e *EscrowTransaction) AllConditionsSatisfied() bool {
	if len(e.Conditions) == 0 {
		return false
	}
	for _, c := range e.Conditions {
		if !c.Satisfied {
			return false
		}
	}
	return true
}

// SatisfyCondition flips the named condition and the matching escrow flag.
func (e *EscrowTransaction) SatisfyCondition(t ConditionType, at time.Time) {
	for i := range e.Conditions {
		if e.Conditions[i].Type == t && !e.Conditions[i].Satisfied {
			e.Conditions[i].Satisfied = true
			ts := at
			e.Conditions[i].SatisfiedAt = &ts
		}
	}
	switch t {
	case ConditionDeliveryConfirmed:
		e.DeliveryConfirmed = true
	case ConditionQualityApproved:
		e.QualityApproved = true
	case ConditionDocumentsVerified:
		e.DocumentsVerified = true
	}
}

// NewReleaseConditions builds the three unsatisfied conditions attached to a
// fresh escrow.
func NewReleaseConditions(escrowID string) []ReleaseCondition {
	return []ReleaseCondition{
		{EscrowID: escrowID, Type: ConditionDeliveryConfirmed, Description: "Buyer confirmed delivery of goods"},
		{EscrowID: escrowID, Type: ConditionQualityApproved, Description: "Buyer approved quality of delivered goods"},
		{EscrowID: escrowID, Type: ConditionDocumentsVerified, Description: "Trade documents verified by platform"},
	}
}
