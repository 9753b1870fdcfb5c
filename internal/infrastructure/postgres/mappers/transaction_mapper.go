package mappers

import (
	"encoding/json"

	"github.com/tradelink/settlement-service/internal/domain"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMTransaction(t *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:            t.ID,
		BuyerID:       t.BuyerID,
		SupplierID:    t.SupplierID,
		RequirementID: t.RequirementID,
		QuotationID:   t.QuotationID,
		Status:        string(t.Status),

		Amount:        t.Amount,
		Currency:      t.Currency,
		PaymentMethod: string(t.PaymentMethod),

		EstimatedDelivery: t.EstimatedDelivery,
		PaymentIntentID:   t.PaymentIntentID,

		QualityRating:    t.QualityRating,
		QualityNotes:     t.QualityNotes,
		QualityIssues:    marshalStrings(t.QualityIssues),
		QualityPhotos:    marshalStrings(t.QualityPhotos),
		AssessedByID:     t.AssessedByID,
		AssessedAt:       t.AssessedAt,
		AcceptanceReason: t.AcceptanceReason,
		RejectionReason:  t.RejectionReason,

		FundsReleasedAt:      t.FundsReleasedAt,
		FundsReleasedByID:    t.FundsReleasedByID,
		ReleaseReason:        t.ReleaseReason,
		PlatformFee:          t.PlatformFee,
		PayoutAmount:         t.PayoutAmount,
		ReleaseTransactionID: t.ReleaseTransactionID,

		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func ToDomainTransaction(m *models.TransactionModel) *domain.Transaction {
	t := &domain.Transaction{
		ID:            m.ID,
		BuyerID:       m.BuyerID,
		SupplierID:    m.SupplierID,
		RequirementID: m.RequirementID,
		QuotationID:   m.QuotationID,
		Status:        domain.TransactionStatus(m.Status),

		Amount:        m.Amount,
		Currency:      m.Currency,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),

		EstimatedDelivery: m.EstimatedDelivery,
		PaymentIntentID:   m.PaymentIntentID,

		QualityRating:    m.QualityRating,
		QualityNotes:     m.QualityNotes,
		QualityIssues:    unmarshalStrings(m.QualityIssues),
		QualityPhotos:    unmarshalStrings(m.QualityPhotos),
		AssessedByID:     m.AssessedByID,
		AssessedAt:       m.AssessedAt,
		AcceptanceReason: m.AcceptanceReason,
		RejectionReason:  m.RejectionReason,

		FundsReleasedAt:      m.FundsReleasedAt,
		FundsReleasedByID:    m.FundsReleasedByID,
		ReleaseReason:        m.ReleaseReason,
		PlatformFee:          m.PlatformFee,
		PayoutAmount:         m.PayoutAmount,
		ReleaseTransactionID: m.ReleaseTransactionID,

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Escrow.ID != "" {
		t.Escrow = ToDomainEscrow(&m.Escrow)
	}
	return t
}

func marshalStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func unmarshalStrings(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}
