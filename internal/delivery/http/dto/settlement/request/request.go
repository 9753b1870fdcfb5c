package request

type CreateTransactionRequest struct {
	RequirementID string `json:"requirement_id"`
	QuotationID   string `json:"quotation_id"`
	SupplierID    string `json:"supplier_id"`
	BuyerID       string `json:"buyer_id"`
	PaymentMethod string `json:"payment_method"`
}

// ActorRequest identifies who triggers a plain transition.
type ActorRequest struct {
	ActorID string `json:"actor_id"`
}

type ReasonedActorRequest struct {
	ActorID string `json:"actor_id"`
	Reason  string `json:"reason"`
}

type QualityAssessmentRequest struct {
	CallerID       string   `json:"caller_id"`
	Rating         int32    `json:"rating"`
	Notes          string   `json:"notes"`
	ApprovalStatus string   `json:"approval_status"`
	Issues         []string `json:"issues,omitempty"`
	Photos         []string `json:"photos,omitempty"`
}
