package domain

import "time"

// StatusHistoryEntry is one immutable row of the audit trail. Replaying all
// rows of a transaction in creation order reconstructs its current status.
type StatusHistoryEntry struct {
	ID            uint
	TransactionID string
	OldStatus     TransactionStatus
	NewStatus     TransactionStatus
	ChangedByID   string
	Reason        string
	Metadata      map[string]string
	CreatedAt     time.Time
}

// Milestone is a human-readable progress marker. It is a UI projection, not
// authoritative; the history rows are.
type Milestone struct {
	ID            uint
	TransactionID string
	Status        TransactionStatus
	Description   string
	Actor         string
	CreatedAt     time.Time
}

// ReplayStatus folds an ordered audit trail into the resulting status.
func ReplayStatus(entries []StatusHistoryEntry) (TransactionStatus, bool) {
	if len(entries) == 0 {
		return "", false
	}
	return entries[len(entries)-1].NewStatus, true
}
