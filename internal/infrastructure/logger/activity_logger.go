package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/tradelink/settlement-service/internal/domain"
	"gorm.io/gorm"
)

type ActivityRecord struct {
	ID            uint `gorm:"primaryKey"`
	ActorID       string
	Action        string
	TransactionID string `gorm:"index"`
	Detail        string
	Timestamp     time.Time
}

func (ActivityRecord) TableName() string {
	return "activity_log"
}

// PGActivityLogger appends settlement activity to postgres. It is
// best-effort: a failed insert is logged and dropped so audit writes never
// fail a settlement operation.
type PGActivityLogger struct {
	db *gorm.DB
}

func NewPGActivityLogger(db *gorm.DB) *PGActivityLogger {
	db.AutoMigrate(&ActivityRecord{})
	return &PGActivityLogger{db: db}
}

func (l *PGActivityLogger) Record(ctx context.Context, event domain.ActivityEvent) {
	record := ActivityRecord{
		ActorID:       event.ActorID,
		Action:        event.Action,
		TransactionID: event.TransactionID,
		Detail:        event.Detail,
		Timestamp:     time.Now(),
	}
	if err := l.db.WithContext(ctx).Create(&record).Error; err != nil {
		slog.Error("failed to record activity",
			"action", event.Action,
			"transaction_id", event.TransactionID,
			"error", err.Error())
	}
}
