package background

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	usecase "github.com/tradelink/settlement-service/internal/usecase/settlement"
)

// fakeUsecase overrides only the worker entry points.
type fakeUsecase struct {
	usecase.SettlementUsecase
	sweeps  atomic.Int32
	retries atomic.Int32
}

func (f *fakeUsecase) ReleaseDueEscrows(ctx context.Context) error {
	f.sweeps.Add(1)
	return nil
}

func (f *fakeUsecase) RetryPaymentIntents(ctx context.Context) error {
	f.retries.Add(1)
	return nil
}

func TestBackgroundTasksTick(t *testing.T) {
	fake := &fakeUsecase{}
	tasks := NewBackgroundTasks(fake, 10*time.Millisecond, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	tasks.StartAll(ctx)

	deadline := time.After(2 * time.Second)
	for fake.sweeps.Load() == 0 || fake.retries.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("workers did not tick in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	// After cancellation the tickers stop.
	time.Sleep(30 * time.Millisecond)
	sweeps := fake.sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, sweeps, fake.sweeps.Load())
}
