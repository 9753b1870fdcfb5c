package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

type SettlementConfig struct {
	Env                 string `yaml:"env" env-default:"local"`
	HTTPServer          `yaml:"http_server"`
	SettlementDB        `yaml:"settlement_db"`
	KafkaService        `yaml:"kafka-service"`
	NotificationService `yaml:"notification-service"`
	PaymentService      `yaml:"payment-service"`
	Policy              `yaml:"policy"`
}

type HTTPServer struct {
	Host string `yaml:"host" env-default:"0.0.0.0"`
	Port string `yaml:"port" env-default:"8080"`
}

type SettlementDB struct {
	Dsn            string `yaml:"dsn" env:"SETTLEMENT_DB_DSN"`
	MigrationsPath string `yaml:"migrations_path"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"settlement-events"`
}

type NotificationService struct {
	BaseURL string `yaml:"base_url"`
}

type PaymentService struct {
	BaseURL string `yaml:"base_url"`
}

// Policy carries the business constants that used to be hardcoded per
// operation. It is injected into the settlement usecase so fee changes and
// tests never touch the release logic.
type Policy struct {
	PlatformFeeRate     string        `yaml:"platform_fee_rate" env-default:"0.02"`
	AdvancePaymentRate  string        `yaml:"advance_payment_rate" env-default:"0.30"`
	AutoReleaseDays     int           `yaml:"auto_release_days" env-default:"30"`
	SweepInterval       time.Duration `yaml:"sweep_interval" env-default:"1m"`
	IntentRetryInterval time.Duration `yaml:"intent_retry_interval" env-default:"5m"`
}

// FeeRate parses the configured platform fee rate into exact decimal form.
func (p Policy) FeeRate() decimal.Decimal {
	return decimal.RequireFromString(p.PlatformFeeRate)
}

// AdvanceRate parses the configured advance payment rate.
func (p Policy) AdvanceRate() decimal.Decimal {
	return decimal.RequireFromString(p.AdvancePaymentRate)
}

func MustLoad() *SettlementConfig {
	configPath := os.Getenv("SETTLEMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("SETTLEMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg SettlementConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
