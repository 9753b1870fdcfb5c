package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradelink/settlement-service/internal/domain"
	usecase "github.com/tradelink/settlement-service/internal/usecase/settlement"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fakeUsecase overrides only what each test needs.
type fakeUsecase struct {
	usecase.SettlementUsecase
	getTransaction func(ctx context.Context, id string) (*domain.Transaction, error)
	confirmPayment func(ctx context.Context, id, actorID string) (*domain.Transaction, error)
}

func (f *fakeUsecase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return f.getTransaction(ctx, id)
}

func (f *fakeUsecase) ConfirmPayment(ctx context.Context, id, actorID string) (*domain.Transaction, error) {
	return f.confirmPayment(ctx, id, actorID)
}

func newTestRouter(uc usecase.SettlementUsecase) http.Handler {
	h := NewSettlementHandler(uc)
	r := chi.NewRouter()
	r.Get("/transactions/{id}", h.GetTransaction)
	r.Post("/transactions/{id}/payment-confirmed", h.ConfirmPayment)
	return r
}

func TestGetTransactionOK(t *testing.T) {
	now := time.Now()
	fake := &fakeUsecase{
		getTransaction: func(ctx context.Context, id string) (*domain.Transaction, error) {
			return &domain.Transaction{
				ID:            id,
				BuyerID:       "buyer-1",
				SupplierID:    "supplier-1",
				Status:        domain.StatusEscrowHeld,
				Amount:        decimal.RequireFromString("100000.00"),
				Currency:      "USD",
				PaymentMethod: domain.PaymentMethodStripe,
				CreatedAt:     now,
				UpdatedAt:     now,
				Escrow: &domain.EscrowTransaction{
					ID:          "esc-1",
					Status:      domain.EscrowHeld,
					TotalAmount: decimal.RequireFromString("100000.00"),
					Conditions:  domain.NewReleaseConditions("esc-1"),
				},
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	newTestRouter(fake).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/tx-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "tx-1", body["id"])
	assert.Equal(t, "ESCROW_HELD", body["status"])
	assert.Equal(t, "100000.00", body["amount"])
	escrow, ok := body["escrow"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, escrow["conditions"], 3)
}

func TestErrorCodeMapping(t *testing.T) {
	tests := []struct {
		code codes.Code
		want int
	}{
		{codes.InvalidArgument, http.StatusBadRequest},
		{codes.FailedPrecondition, http.StatusBadRequest},
		{codes.PermissionDenied, http.StatusForbidden},
		{codes.NotFound, http.StatusNotFound},
		{codes.AlreadyExists, http.StatusConflict},
		{codes.Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			fake := &fakeUsecase{
				getTransaction: func(ctx context.Context, id string) (*domain.Transaction, error) {
					return nil, status.Error(tt.code, "boom")
				},
			}

			rec := httptest.NewRecorder()
			newTestRouter(fake).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/tx-1", nil))

			assert.Equal(t, tt.want, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "boom", body["error"])
		})
	}
}

func TestTransitionBadBody(t *testing.T) {
	fake := &fakeUsecase{
		confirmPayment: func(ctx context.Context, id, actorID string) (*domain.Transaction, error) {
			t.Fatal("usecase must not be reached on a malformed body")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions/tx-1/payment-confirmed", strings.NewReader("{not json"))
	newTestRouter(fake).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransitionPassesActor(t *testing.T) {
	var gotID, gotActor string
	fake := &fakeUsecase{
		confirmPayment: func(ctx context.Context, id, actorID string) (*domain.Transaction, error) {
			gotID, gotActor = id, actorID
			return &domain.Transaction{
				ID:     id,
				Status: domain.StatusEscrowHeld,
				Amount: decimal.RequireFromString("1.00"),
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/transactions/tx-9/payment-confirmed",
		strings.NewReader(`{"actor_id":"payment-webhook"}`))
	newTestRouter(fake).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tx-9", gotID)
	assert.Equal(t, "payment-webhook", gotActor)
}
