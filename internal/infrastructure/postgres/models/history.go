package models

import "time"

// StatusHistoryModel rows are append-only; nothing updates or deletes them.
type StatusHistoryModel struct {
	ID            uint   `gorm:"primaryKey"`
	TransactionID string `gorm:"type:uuid;index;not null"`
	OldStatus     string `gorm:"not null"`
	NewStatus     string `gorm:"not null"`
	ChangedByID   string
	Reason        string
	Metadata      string    `gorm:"type:jsonb"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

func (StatusHistoryModel) TableName() string {
	return "transaction_status_history"
}

type MilestoneModel struct {
	ID            uint   `gorm:"primaryKey"`
	TransactionID string `gorm:"type:uuid;index;not null"`
	Status        string
	Description   string
	Actor         string
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (MilestoneModel) TableName() string {
	return "transaction_milestones"
}
