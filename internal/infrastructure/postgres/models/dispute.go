package models

import "time"

type DisputeNoticeModel struct {
	ID            string `gorm:"primaryKey"`
	TransactionID string `gorm:"type:uuid;index"`
	RecipientID   string `gorm:"type:uuid;index"`
	Kind          string
	PairedWithID  string
	Title         string
	Message       string `gorm:"type:text"`
	Reason        string `gorm:"type:text"`
	CreatedAt     time.Time
}

func (DisputeNoticeModel) TableName() string {
	return "dispute_notices"
}
