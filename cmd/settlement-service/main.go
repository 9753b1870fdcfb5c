package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tradelink/settlement-service/internal/app/background"
	"github.com/tradelink/settlement-service/internal/config"
	httpdelivery "github.com/tradelink/settlement-service/internal/delivery/http"
	publisher "github.com/tradelink/settlement-service/internal/infrastructure/kafka"
	"github.com/tradelink/settlement-service/internal/infrastructure/logger"
	"github.com/tradelink/settlement-service/internal/infrastructure/metrics"
	"github.com/tradelink/settlement-service/internal/infrastructure/migrate"
	"github.com/tradelink/settlement-service/internal/infrastructure/notifier"
	"github.com/tradelink/settlement-service/internal/infrastructure/payments"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres"
	"github.com/tradelink/settlement-service/internal/infrastructure/postgres/repository"
	usecase "github.com/tradelink/settlement-service/internal/usecase/settlement"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if cfg.SettlementDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.SettlementDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Kafka publisher for realtime settlement events
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	pub := publisher.NewDefaultKafkaPublisher(brokers, cfg.KafkaService.Topic)
	defer pub.Close()

	// Collaborator clients
	notificationClient := notifier.NewHTTPNotifier(cfg.NotificationService.BaseURL)
	paymentClient := payments.NewHTTPPaymentClient(cfg.PaymentService.BaseURL)
	activityLogger := logger.NewPGActivityLogger(db)

	// Repositories
	txRepo := repository.NewDefaultTransactionRepository(db)
	escrowRepo := repository.NewDefaultEscrowRepository(db)
	historyRepo := repository.NewDefaultHistoryRepository(db)
	requirementRepo := repository.NewDefaultRequirementRepository(db)
	disputeRepo := repository.NewDefaultDisputeRepository(db)

	// Metrics
	settlementMetrics := metrics.NewSettlementMetrics(prometheus.DefaultRegisterer)

	// Settlement usecase
	uc := usecase.NewDefaultSettlementUsecase(
		txRepo,
		escrowRepo,
		historyRepo,
		requirementRepo,
		disputeRepo,
		notificationClient,
		paymentClient,
		pub,
		activityLogger,
		settlementMetrics,
		cfg.Policy,
	)

	// Background workers
	tasks := background.NewBackgroundTasks(uc, cfg.Policy.SweepInterval, cfg.Policy.IntentRetryInterval)
	tasks.StartAll(context.Background())

	// HTTP server
	router := httpdelivery.NewRouter(uc)
	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	log.Printf("settlement service listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("http server stopped: %v", err)
	}
}
