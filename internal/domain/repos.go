package domain

import (
	"context"
	"time"
)

// TransitionOp describes one state-machine step. The repository executes it
// atomically: the transaction row is locked, the current status is re-checked
// against From inside the same database transaction, the status flips to To,
// Apply mutates the row set, and exactly one history row plus one milestone
// are appended. A status outside From fails the whole operation with
// ErrIllegalTransition and leaves every field unchanged.
type TransitionOp struct {
	TransactionID string
	From          []TransactionStatus
	To            TransactionStatus
	ChangedByID   string
	Reason        string
	Metadata      map[string]string

	MilestoneDescription string
	Actor                string

	// Apply performs the domain mutation beyond the status flip. Both the
	// transaction and its escrow are loaded and persisted by the repository.
	// Apply may add entries to Metadata; the repository snapshots it for the
	// history row only after Apply returned.
	Apply func(t *Transaction, e *EscrowTransaction) error
}

type TransactionRepository interface {
	// CreateSettlement persists the transaction, its escrow with conditions,
	// the initial history row and milestone, and flips the source quotation
	// and requirement to ACCEPTED, all in one database transaction. A second
	// active transaction for the same quotation fails with
	// ErrActiveTransactionExists.
	CreateSettlement(ctx context.Context, t *Transaction, e *EscrowTransaction, h StatusHistoryEntry, m Milestone) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	ProcessTransition(ctx context.Context, op *TransitionOp) (*Transaction, error)
	SetPaymentIntentID(ctx context.Context, transactionID, paymentIntentID string) error
	// FindMissingPaymentIntents lists payment-pending transactions whose
	// intent request previously failed, for background retry.
	FindMissingPaymentIntents(ctx context.Context, limit int) ([]*Transaction, error)
}

type EscrowRepository interface {
	GetByTransactionID(ctx context.Context, transactionID string) (*EscrowTransaction, error)
	// FindDueForAutoRelease lists held escrows whose auto-release deadline
	// has passed, for the scheduled sweep.
	FindDueForAutoRelease(ctx context.Context, now time.Time, limit int) ([]*EscrowTransaction, error)
}

type HistoryRepository interface {
	ListHistory(ctx context.Context, transactionID string) ([]StatusHistoryEntry, error)
	ListMilestones(ctx context.Context, transactionID string) ([]Milestone, error)
}

type RequirementRepository interface {
	GetRequirementByID(ctx context.Context, id string) (*Requirement, error)
	GetQuotationByID(ctx context.Context, id string) (*Quotation, error)
}

type DisputeRepository interface {
	// CreateNoticePair persists both linked notices atomically.
	CreateNoticePair(ctx context.Context, supplier, buyer *DisputeNotice) error
	GetNoticesByTransactionID(ctx context.Context, transactionID string) ([]*DisputeNotice, error)
}
