package mappers

import (
	"encoding/json"

	"github.com/tradelink/settlement-service/internal/domain"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMHistory(h *domain.StatusHistoryEntry) *models.StatusHistoryModel {
	return &models.StatusHistoryModel{
		TransactionID: h.TransactionID,
		OldStatus:     string(h.OldStatus),
		NewStatus:     string(h.NewStatus),
		ChangedByID:   h.ChangedByID,
		Reason:        h.Reason,
		Metadata:      marshalMetadata(h.Metadata),
	}
}

func ToDomainHistory(m *models.StatusHistoryModel) domain.StatusHistoryEntry {
	return domain.StatusHistoryEntry{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		OldStatus:     domain.TransactionStatus(m.OldStatus),
		NewStatus:     domain.TransactionStatus(m.NewStatus),
		ChangedByID:   m.ChangedByID,
		Reason:        m.Reason,
		Metadata:      unmarshalMetadata(m.Metadata),
		CreatedAt:     m.CreatedAt,
	}
}

func ToGORMMilestone(ms *domain.Milestone) *models.MilestoneModel {
	return &models.MilestoneModel{
		TransactionID: ms.TransactionID,
		Status:        string(ms.Status),
		Description:   ms.Description,
		Actor:         ms.Actor,
	}
}

func ToDomainMilestone(m *models.MilestoneModel) domain.Milestone {
	return domain.Milestone{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		Status:        domain.TransactionStatus(m.Status),
		Description:   m.Description,
		Actor:         m.Actor,
		CreatedAt:     m.CreatedAt,
	}
}

func marshalMetadata(metadata map[string]string) string {
	if len(metadata) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func unmarshalMetadata(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	var metadata map[string]string
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil
	}
	return metadata
}
