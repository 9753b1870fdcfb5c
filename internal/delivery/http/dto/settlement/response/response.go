package response

import (
	"time"

	"github.com/tradelink/settlement-service/internal/domain"
	settlementdto "github.com/tradelink/settlement-service/internal/usecase/dto/settlement"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ReleaseConditionResponse struct {
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Satisfied   bool       `json:"satisfied"`
	SatisfiedAt *time.Time `json:"satisfied_at,omitempty"`
}

type EscrowResponse struct {
	ID                string                     `json:"id"`
	Status            string                     `json:"status"`
	TotalAmount       string                     `json:"total_amount"`
	DeliveryConfirmed bool                       `json:"delivery_confirmed"`
	QualityApproved   bool                       `json:"quality_approved"`
	DocumentsVerified bool                       `json:"documents_verified"`
	AutoReleaseDate   time.Time                  `json:"auto_release_date"`
	ReleaseDate       *time.Time                 `json:"release_date,omitempty"`
	Conditions        []ReleaseConditionResponse `json:"conditions"`
}

type TransactionResponse struct {
	ID            string `json:"id"`
	BuyerID       string `json:"buyer_id"`
	SupplierID    string `json:"supplier_id"`
	RequirementID string `json:"requirement_id"`
	QuotationID   string `json:"quotation_id"`
	Status        string `json:"status"`

	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	PaymentMethod string `json:"payment_method"`

	EstimatedDelivery time.Time `json:"estimated_delivery"`
	PaymentIntentID   string    `json:"payment_intent_id,omitempty"`

	QualityRating *int32     `json:"quality_rating,omitempty"`
	AssessedAt    *time.Time `json:"assessed_at,omitempty"`

	FundsReleasedAt      *time.Time `json:"funds_released_at,omitempty"`
	PlatformFee          string     `json:"platform_fee,omitempty"`
	PayoutAmount         string     `json:"payout_amount,omitempty"`
	ReleaseTransactionID string     `json:"release_transaction_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Escrow *EscrowResponse `json:"escrow,omitempty"`
}

type CreateTransactionResponse struct {
	Transaction   TransactionResponse   `json:"transaction"`
	PaymentIntent *domain.PaymentIntent `json:"payment_intent,omitempty"`
}

type QualityAssessmentResponse struct {
	Transaction    TransactionResponse `json:"transaction"`
	ApprovalStatus string              `json:"approval_status"`
	FundReleased   bool                `json:"fund_released"`
	DisputeCreated bool                `json:"dispute_created"`
	DisputeID      string              `json:"dispute_id,omitempty"`
}

type QualityStateResponse struct {
	Status           string     `json:"status"`
	AssessedAt       *time.Time `json:"assessed_at,omitempty"`
	AssessedBy       string     `json:"assessed_by,omitempty"`
	Rating           *int32     `json:"rating,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Issues           []string   `json:"issues,omitempty"`
	Photos           []string   `json:"photos,omitempty"`
	AcceptanceReason string     `json:"acceptance_reason,omitempty"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`

	EscrowStatus string                     `json:"escrow_status"`
	Conditions   []ReleaseConditionResponse `json:"conditions"`
}

type ReleaseResponse struct {
	Transaction          TransactionResponse `json:"transaction"`
	PlatformFee          string              `json:"platform_fee"`
	PayoutAmount         string              `json:"payout_amount"`
	ReleaseTransactionID string              `json:"release_transaction_id"`
}

type HistoryEntryResponse struct {
	OldStatus   string            `json:"old_status"`
	NewStatus   string            `json:"new_status"`
	ChangedByID string            `json:"changed_by_id,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type DisputeNoticeResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	RecipientID   string    `json:"recipient_id"`
	Kind          string    `json:"kind"`
	PairedWithID  string    `json:"paired_with_id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

type MilestoneResponse struct {
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Actor       string    `json:"actor"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                t.ID,
		BuyerID:           t.BuyerID,
		SupplierID:        t.SupplierID,
		RequirementID:     t.RequirementID,
		QuotationID:       t.QuotationID,
		Status:            string(t.Status),
		Amount:            t.Amount.StringFixed(2),
		Currency:          t.Currency,
		PaymentMethod:     string(t.PaymentMethod),
		EstimatedDelivery: t.EstimatedDelivery,
		PaymentIntentID:   t.PaymentIntentID,
		QualityRating:     t.QualityRating,
		AssessedAt:        t.AssessedAt,
		FundsReleasedAt:   t.FundsReleasedAt,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
	if t.FundsReleasedAt != nil {
		resp.PlatformFee = t.PlatformFee.StringFixed(2)
		resp.PayoutAmount = t.PayoutAmount.StringFixed(2)
		resp.ReleaseTransactionID = t.ReleaseTransactionID
	}
	if t.Escrow != nil {
		resp.Escrow = toEscrowResponse(t.Escrow)
	}
	return resp
}

func toConditionResponses(conditions []domain.ReleaseCondition) []ReleaseConditionResponse {
	out := make([]ReleaseConditionResponse, len(conditions))
	for i, c := range conditions {
		out[i] = ReleaseConditionResponse{
			Type:        string(c.Type),
			Description: c.Description,
			Satisfied:   c.Satisfied,
			SatisfiedAt: c.SatisfiedAt,
		}
	}
	return out
}

func toEscrowResponse(e *domain.EscrowTransaction) *EscrowResponse {
	conditions := toConditionResponses(e.Conditions)
	return &EscrowResponse{
		ID:                e.ID,
		Status:            string(e.Status),
		TotalAmount:       e.TotalAmount.StringFixed(2),
		DeliveryConfirmed: e.DeliveryConfirmed,
		QualityApproved:   e.QualityApproved,
		DocumentsVerified: e.DocumentsVerified,
		AutoReleaseDate:   e.AutoReleaseDate,
		ReleaseDate:       e.ReleaseDate,
		Conditions:        conditions,
	}
}

func ToQualityStateResponse(q *settlementdto.QualityStateOutput) QualityStateResponse {
	return QualityStateResponse{
		Status:           string(q.Status),
		AssessedAt:       q.AssessedAt,
		AssessedBy:       q.AssessedBy,
		Rating:           q.Rating,
		Notes:            q.Notes,
		Issues:           q.Issues,
		Photos:           q.Photos,
		AcceptanceReason: q.AcceptanceReason,
		RejectionReason:  q.RejectionReason,
		EscrowStatus:     string(q.EscrowStatus),
		Conditions:       toConditionResponses(q.Conditions),
	}
}

func ToHistoryResponse(entries []domain.StatusHistoryEntry) []HistoryEntryResponse {
	out := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntryResponse{
			OldStatus:   string(e.OldStatus),
			NewStatus:   string(e.NewStatus),
			ChangedByID: e.ChangedByID,
			Reason:      e.Reason,
			Metadata:    e.Metadata,
			CreatedAt:   e.CreatedAt,
		}
	}
	return out
}

func ToDisputeNoticesResponse(notices []*domain.DisputeNotice) []DisputeNoticeResponse {
	out := make([]DisputeNoticeResponse, len(notices))
	for i, n := range notices {
		out[i] = DisputeNoticeResponse{
			ID:            n.ID,
			TransactionID: n.TransactionID,
			RecipientID:   n.RecipientID,
			Kind:          string(n.Kind),
			PairedWithID:  n.PairedWithID,
			Title:         n.Title,
			Message:       n.Message,
			Reason:        n.Reason,
			CreatedAt:     n.CreatedAt,
		}
	}
	return out
}

func ToMilestonesResponse(milestones []domain.Milestone) []MilestoneResponse {
	out := make([]MilestoneResponse, len(milestones))
	for i, m := range milestones {
		out[i] = MilestoneResponse{
			Status:      string(m.Status),
			Description: m.Description,
			Actor:       m.Actor,
			CreatedAt:   m.CreatedAt,
		}
	}
	return out
}
