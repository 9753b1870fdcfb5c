package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tradelink/settlement-service/internal/domain"
)

// SettlementMetrics bundles every settlement-related collector. Created once
// at startup and injected into the usecase.
type SettlementMetrics struct {
	TransactionsCreatedTotal   *prometheus.CounterVec
	TransactionsCompletedTotal *prometheus.CounterVec
	TransactionsCancelledTotal *prometheus.CounterVec
	TransactionsRefundedTotal  *prometheus.CounterVec

	AmountCreatedTotal *prometheus.CounterVec

	AssessmentsTotal *prometheus.CounterVec
	AssessmentRating *prometheus.HistogramVec

	FundsReleasedTotal  *prometheus.CounterVec
	PlatformFeeTotal    *prometheus.CounterVec
	PayoutAmountTotal   *prometheus.CounterVec
	ReleaseErrorsTotal  prometheus.Counter
	DisputesOpenedTotal prometheus.Counter
}

func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	factory := promauto.With(reg)

	return &SettlementMetrics{
		TransactionsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_transactions_created_total",
				Help: "Transactions created from accepted quotations",
			},
			[]string{"currency", "payment_method"},
		),
		TransactionsCompletedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_transactions_completed_total",
				Help: "Transactions that reached COMPLETED",
			},
			[]string{"currency"},
		),
		TransactionsCancelledTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_transactions_cancelled_total",
				Help: "Transactions cancelled before custody",
			},
			[]string{"currency"},
		),
		TransactionsRefundedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_transactions_refunded_total",
				Help: "Transactions refunded to the buyer",
			},
			[]string{"currency"},
		),
		AmountCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_amount_created_total",
				Help: "Total transaction amount placed under settlement",
			},
			[]string{"currency"},
		),
		AssessmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_quality_assessments_total",
				Help: "Quality assessments by outcome",
			},
			[]string{"outcome"},
		),
		AssessmentRating: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "settlement_quality_rating",
				Help:    "Distribution of buyer quality ratings",
				Buckets: []float64{1, 2, 3, 4, 5},
			},
			[]string{"outcome"},
		),
		FundsReleasedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_funds_released_total",
				Help: "Fund releases by reason",
			},
			[]string{"currency", "reason"},
		),
		PlatformFeeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_platform_fee_total",
				Help: "Accumulated platform fees",
			},
			[]string{"currency"},
		),
		PayoutAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_payout_amount_total",
				Help: "Accumulated supplier payouts",
			},
			[]string{"currency"},
		),
		ReleaseErrorsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "settlement_release_errors_total",
				Help: "Failed fund release attempts",
			},
		),
		DisputesOpenedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "settlement_disputes_opened_total",
				Help: "Disputes opened from quality rejections",
			},
		),
	}
}

func (m *SettlementMetrics) RecordCreated(t *domain.Transaction) {
	m.TransactionsCreatedTotal.WithLabelValues(t.Currency, string(t.PaymentMethod)).Inc()
	amount, _ := t.Amount.Float64()
	m.AmountCreatedTotal.WithLabelValues(t.Currency).Add(amount)
}

func (m *SettlementMetrics) RecordCompleted(t *domain.Transaction) {
	m.TransactionsCompletedTotal.WithLabelValues(t.Currency).Inc()
}

func (m *SettlementMetrics) RecordCancelled(t *domain.Transaction) {
	m.TransactionsCancelledTotal.WithLabelValues(t.Currency).Inc()
}

func (m *SettlementMetrics) RecordRefunded(t *domain.Transaction) {
	m.TransactionsRefundedTotal.WithLabelValues(t.Currency).Inc()
}

func (m *SettlementMetrics) RecordAssessment(outcome string, rating int32) {
	m.AssessmentsTotal.WithLabelValues(outcome).Inc()
	m.AssessmentRating.WithLabelValues(outcome).Observe(float64(rating))
}

func (m *SettlementMetrics) RecordRelease(t *domain.Transaction) {
	m.FundsReleasedTotal.WithLabelValues(t.Currency, t.ReleaseReason).Inc()
	fee, _ := t.PlatformFee.Float64()
	payout, _ := t.PayoutAmount.Float64()
	m.PlatformFeeTotal.WithLabelValues(t.Currency).Add(fee)
	m.PayoutAmountTotal.WithLabelValues(t.Currency).Add(payout)
}

func (m *SettlementMetrics) RecordReleaseError() {
	m.ReleaseErrorsTotal.Inc()
}

func (m *SettlementMetrics) RecordDisputeOpened() {
	m.DisputesOpenedTotal.Inc()
}
