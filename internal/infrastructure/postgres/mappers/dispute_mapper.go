package mappers

import (
	"github.com/tradelink/settlement-service/internal/domain"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMDisputeNotice(n *domain.DisputeNotice) *models.DisputeNoticeModel {
	return &models.DisputeNoticeModel{
		ID:            n.ID,
		TransactionID: n.TransactionID,
		RecipientID:   n.RecipientID,
		Kind:          string(n.Kind),
		PairedWithID:  n.PairedWithID,
		Title:         n.Title,
		Message:       n.Message,
		Reason:        n.Reason,
	}
}

func ToDomainDisputeNotice(m *models.DisputeNoticeModel) *domain.DisputeNotice {
	return &domain.DisputeNotice{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		RecipientID:   m.RecipientID,
		Kind:          domain.DisputeNoticeKind(m.Kind),
		PairedWithID:  m.PairedWithID,
		Title:         m.Title,
		Message:       m.Message,
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt,
	}
}

func ToDomainRequirement(m *models.RequirementModel) *domain.Requirement {
	return &domain.Requirement{
		ID:        m.ID,
		BuyerID:   m.BuyerID,
		Title:     m.Title,
		Status:    domain.RequirementStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
}

func ToDomainQuotation(m *models.QuotationModel) *domain.Quotation {
	return &domain.Quotation{
		ID:            m.ID,
		RequirementID: m.RequirementID,
		SupplierID:    m.SupplierID,
		TotalAmount:   m.TotalAmount,
		Currency:      m.Currency,
		LeadTimeDays:  m.LeadTimeDays,
		Status:        domain.QuotationStatus(m.Status),
		CreatedAt:     m.CreatedAt,
	}
}
