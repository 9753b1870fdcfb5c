package domain

import "errors"

var (
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrRequirementNotFound     = errors.New("requirement not found")
	ErrQuotationNotFound       = errors.New("quotation not found")
	ErrActiveTransactionExists = errors.New("active transaction already exists for quotation")
	ErrIllegalTransition       = errors.New("operation illegal for current transaction status")
	ErrEscrowNotFound          = errors.New("escrow not found for transaction")
	ErrOpenDisputeFailed       = errors.New("failed to open dispute")
)
