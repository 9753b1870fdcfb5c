package domain

import "time"

type DisputeNoticeKind string

const (
	DisputeNoticeOpened DisputeNoticeKind = "DISPUTE_OPENED"
	DisputeNoticeFiled  DisputeNoticeKind = "DISPUTE_FILED"
)

// DisputeNotice is one half of the paired records created on a quality
// rejection: the supplier-facing "dispute opened" record and the buyer-facing
// "dispute filed" confirmation. The supplier record's id doubles as the
// dispute id. Arbitration and resolution live in an external service.
type DisputeNotice struct {
	ID            string
	TransactionID string
	RecipientID   string
	Kind          DisputeNoticeKind
	PairedWithID  string
	Title         string
	Message       string
	Reason        string
	CreatedAt     time.Time
}
