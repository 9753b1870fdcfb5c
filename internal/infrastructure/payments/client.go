package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tradelink/settlement-service/internal/domain"
)

// HTTPPaymentClient requests payment intents from the payment gateway
// service. Unlike notifications this call is synchronous: the caller decides
// whether a failure degrades or aborts the operation.
type HTTPPaymentClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPPaymentClient(baseURL string) *HTTPPaymentClient {
	return &HTTPPaymentClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type intentRequest struct {
	Amount        string            `json:"amount"`
	AdvanceAmount string            `json:"advance_amount"`
	Currency      string            `json:"currency"`
	TransactionID string            `json:"transaction_id"`
	BuyerID       string            `json:"buyer_id"`
	PaymentMethod string            `json:"payment_method"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

func (c *HTTPPaymentClient) CreatePaymentIntent(ctx context.Context, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error) {
	body, err := json.Marshal(intentRequest{
		Amount:        req.Amount.StringFixed(2),
		AdvanceAmount: req.AdvanceAmount.StringFixed(2),
		Currency:      req.Currency,
		TransactionID: req.TransactionID,
		BuyerID:       req.BuyerID,
		PaymentMethod: string(req.PaymentMethod),
		Metadata:      req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/payment-intents", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment service returned status %d", resp.StatusCode)
	}

	var intent domain.PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, err
	}
	if !intent.Success || intent.PaymentIntentID == "" {
		return nil, fmt.Errorf("payment service rejected intent for transaction %s", req.TransactionID)
	}
	return &intent, nil
}
