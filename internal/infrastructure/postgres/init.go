package postgres

import (
	"log"

	"github.com/tradelink/settlement-service/internal/config"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.SettlementConfig) *gorm.DB {
	dsn := cfg.SettlementDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.RequirementModel{},
		&models.QuotationModel{},
		&models.TransactionModel{},
		&models.EscrowModel{},
		&models.ReleaseConditionModel{},
		&models.StatusHistoryModel{},
		&models.MilestoneModel{},
		&models.DisputeNoticeModel{},
	)

	// AutoMigrate cannot express a partial index. One non-terminal
	// transaction per quotation is enforced here.
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_transaction_per_quotation
		ON transactions (quotation_id)
		WHERE status NOT IN ('CANCELLED', 'REFUNDED')`)

	return db
}
