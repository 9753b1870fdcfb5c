package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradelink/settlement-service/internal/delivery/http/handlers"
	usecase "github.com/tradelink/settlement-service/internal/usecase/settlement"
)

// NewRouter mounts the settlement API plus the prometheus scrape endpoint.
func NewRouter(settlementUC usecase.SettlementUsecase) http.Handler {
	h := handlers.NewSettlementHandler(settlementUC)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Post("/transactions", h.CreateTransaction)

		r.Route("/transactions/{id}", func(r chi.Router) {
			r.Get("/", h.GetTransaction)
			r.Get("/quality-assessment", h.GetQualityState)
			r.Get("/history", h.ListHistory)
			r.Get("/milestones", h.ListMilestones)
			r.Get("/dispute-notices", h.ListDisputeNotices)

			r.Post("/payment-confirmed", h.ConfirmPayment)
			r.Post("/shipped", h.MarkShipped)
			r.Post("/delivery-confirmed", h.ConfirmDelivery)
			r.Post("/documents-verified", h.VerifyDocuments)
			r.Post("/quality-assessment", h.SubmitQualityAssessment)
			r.Post("/release", h.Release)
			r.Post("/payout-completed", h.CompletePayout)
			r.Post("/cancel", h.Cancel)
			r.Post("/refund", h.Refund)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
