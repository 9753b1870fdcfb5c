package mappers

import (
	"github.com/tradelink/settlement-service/internal/domain"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMEscrow(e *domain.EscrowTransaction) *models.EscrowModel {
	m := &models.EscrowModel{
		ID:                e.ID,
		TransactionID:     e.TransactionID,
		TotalAmount:       e.TotalAmount,
		Status:            string(e.Status),
		DeliveryConfirmed: e.DeliveryConfirmed,
		QualityApproved:   e.QualityApproved,
		DocumentsVerified: e.DocumentsVerified,
		AutoReleaseDate:   e.AutoReleaseDate,
		ReleaseDate:       e.ReleaseDate,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
	for _, c := range e.Conditions {
		m.Conditions = append(m.Conditions, models.ReleaseConditionModel{
			ID:          c.ID,
			EscrowID:    c.EscrowID,
			Type:        string(c.Type),
			Description: c.Description,
			Satisfied:   c.Satisfied,
			SatisfiedAt: c.SatisfiedAt,
		})
	}
	return m
}

func ToDomainEscrow(m *models.EscrowModel) *domain.EscrowTransaction {
	e := &domain.EscrowTransaction{
		ID:                m.ID,
		TransactionID:     m.TransactionID,
		TotalAmount:       m.TotalAmount,
		Status:            domain.EscrowStatus(m.Status),
		DeliveryConfirmed: m.DeliveryConfirmed,
		QualityApproved:   m.QualityApproved,
		DocumentsVerified: m.DocumentsVerified,
		AutoReleaseDate:   m.AutoReleaseDate,
		ReleaseDate:       m.ReleaseDate,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	for _, c := range m.Conditions {
		e.Conditions = append(e.Conditions, domain.ReleaseCondition{
			ID:          c.ID,
			EscrowID:    c.EscrowID,
			Type:        domain.ConditionType(c.Type),
			Description: c.Description,
			Satisfied:   c.Satisfied,
			SatisfiedAt: c.SatisfiedAt,
		})
	}
	return e
}
