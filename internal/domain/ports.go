package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Notification is the payload accepted by the notification collaborator.
type Notification struct {
	UserID       string
	Type         string
	Title        string
	Message      string
	ResourceType string
	ResourceID   string
}

// NotifierPort delivers notifications fire-and-forget: implementations must
// never block the caller on delivery and must swallow transport failures.
type NotifierPort interface {
	Notify(n Notification)
	// NotifyRole fans a notification out to every user holding the role,
	// resolved by the collaborator rather than queried per operation here.
	NotifyRole(role string, n Notification)
}

// SettlementEvent is a realtime push event addressed to one user.
type SettlementEvent struct {
	Event         string `json:"event"`
	TransactionID string `json:"transaction_id"`
	RecipientID   string `json:"recipient_id"`
	Status        string `json:"status"`
	Amount        string `json:"amount,omitempty"`
	Currency      string `json:"currency,omitempty"`
}

type EventPublisherPort interface {
	PublishSettlement(event SettlementEvent) error
}

type PaymentIntentRequest struct {
	Amount        decimal.Decimal
	AdvanceAmount decimal.Decimal
	Currency      string
	TransactionID string
	BuyerID       string
	PaymentMethod PaymentMethod
	Metadata      map[string]string
}

type PaymentIntent struct {
	Success         bool   `json:"success"`
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
}

// PaymentPort talks to the payment gateway collaborator. A failed intent
// request is non-fatal to transaction creation and retryable later.
type PaymentPort interface {
	CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error)
}

type ActivityEvent struct {
	ActorID       string
	Action        string
	TransactionID string
	Detail        string
}

// ActivityLogPort is a best-effort append-only log; failures are swallowed.
type ActivityLogPort interface {
	Record(ctx context.Context, event ActivityEvent)
}
