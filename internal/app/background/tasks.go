package background

import (
	"context"
	"log"
	"time"

	usecase "github.com/tradelink/settlement-service/internal/usecase/settlement"
)

type BackgroundTasks struct {
	SettlementUsecase usecase.SettlementUsecase

	SweepInterval       time.Duration
	IntentRetryInterval time.Duration
}

func NewBackgroundTasks(settlementUC usecase.SettlementUsecase, sweepInterval, intentRetryInterval time.Duration) *BackgroundTasks {
	return &BackgroundTasks{
		SettlementUsecase:   settlementUC,
		SweepInterval:       sweepInterval,
		IntentRetryInterval: intentRetryInterval,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startEscrowAutoRelease(ctx)
	go bt.startPaymentIntentRetry(ctx)
}

func (bt *BackgroundTasks) startEscrowAutoRelease(ctx context.Context) {
	ticker := time.NewTicker(bt.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.SettlementUsecase.ReleaseDueEscrows(ctx); err != nil {
				log.Printf("Escrow auto-release error: %v\n", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startPaymentIntentRetry(ctx context.Context) {
	ticker := time.NewTicker(bt.IntentRetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.SettlementUsecase.RetryPaymentIntents(ctx); err != nil {
				log.Printf("Payment intent retry error: %v\n", err)
			}
		}
	}
}
