package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tradelink/settlement-service/internal/delivery/http/dto/settlement/request"
	"github.com/tradelink/settlement-service/internal/delivery/http/dto/settlement/response"
	"github.com/tradelink/settlement-service/internal/domain"
	settlementdto "github.com/tradelink/settlement-service/internal/usecase/dto/settlement"
	usecase "github.com/tradelink/settlement-service/internal/usecase/settlement"
)

type SettlementHandler struct {
	uc usecase.SettlementUsecase
}

func NewSettlementHandler(uc usecase.SettlementUsecase) *SettlementHandler {
	return &SettlementHandler{uc: uc}
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	st, ok := status.FromError(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, response.ErrorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, httpStatusFromCode(st.Code()), response.ErrorResponse{Error: st.Message()})
}

func httpStatusFromCode(code codes.Code) int {
	switch code {
	case codes.InvalidArgument, codes.FailedPrecondition:
		return http.StatusBadRequest
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, response.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// --- create ---

func (h *SettlementHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := h.uc.CreateTransaction(r.Context(), &settlementdto.CreateTransactionInput{
		RequirementID: req.RequirementID,
		QuotationID:   req.QuotationID,
		SupplierID:    req.SupplierID,
		BuyerID:       req.BuyerID,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	out.Transaction.Escrow = out.Escrow
	writeJSON(w, http.StatusCreated, response.CreateTransactionResponse{
		Transaction:   response.ToTransactionResponse(out.Transaction),
		PaymentIntent: out.PaymentIntent,
	})
}

// --- plain transitions ---

func (h *SettlementHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.ConfirmPayment)
}

func (h *SettlementHandler) MarkShipped(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.MarkShipped)
}

func (h *SettlementHandler) ConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.ConfirmDelivery)
}

func (h *SettlementHandler) VerifyDocuments(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.VerifyDocuments)
}

func (h *SettlementHandler) CompletePayout(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.uc.CompletePayout)
}

func (h *SettlementHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, transactionID, actorID string) (*domain.Transaction, error),
) {
	var req request.ActorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t, err := op(r.Context(), chi.URLParam(r, "id"), req.ActorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.ToTransactionResponse(t))
}

func (h *SettlementHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.reasonedTransition(w, r, h.uc.Cancel)
}

func (h *SettlementHandler) Refund(w http.ResponseWriter, r *http.Request) {
	h.reasonedTransition(w, r, h.uc.Refund)
}

func (h *SettlementHandler) reasonedTransition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, transactionID, actorID, reason string) (*domain.Transaction, error),
) {
	var req request.ReasonedActorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	t, err := op(r.Context(), chi.URLParam(r, "id"), req.ActorID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.ToTransactionResponse(t))
}

// --- quality assessment ---

func (h *SettlementHandler) SubmitQualityAssessment(w http.ResponseWriter, r *http.Request) {
	var req request.QualityAssessmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := h.uc.SubmitQualityAssessment(r.Context(), &settlementdto.QualityAssessmentInput{
		TransactionID:  chi.URLParam(r, "id"),
		CallerID:       req.CallerID,
		Rating:         req.Rating,
		Notes:          req.Notes,
		ApprovalStatus: domain.ApprovalStatus(req.ApprovalStatus),
		Issues:         req.Issues,
		Photos:         req.Photos,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response.QualityAssessmentResponse{
		Transaction:    response.ToTransactionResponse(out.Transaction),
		ApprovalStatus: string(out.ApprovalStatus),
		FundReleased:   out.FundReleased,
		DisputeCreated: out.DisputeCreated,
		DisputeID:      out.DisputeID,
	})
}

// --- release ---

func (h *SettlementHandler) Release(w http.ResponseWriter, r *http.Request) {
	var req request.ReasonedActorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	out, err := h.uc.Release(r.Context(), chi.URLParam(r, "id"), req.ActorID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response.ReleaseResponse{
		Transaction:          response.ToTransactionResponse(out.Transaction),
		PlatformFee:          out.PlatformFee.StringFixed(2),
		PayoutAmount:         out.PayoutAmount.StringFixed(2),
		ReleaseTransactionID: out.ReleaseTransactionID,
	})
}

// --- queries ---

func (h *SettlementHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := h.uc.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.ToTransactionResponse(t))
}

func (h *SettlementHandler) GetQualityState(w http.ResponseWriter, r *http.Request) {
	q, err := h.uc.GetQualityState(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.ToQualityStateResponse(q))
}

func (h *SettlementHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.uc.ListHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.ToHistoryResponse(entries))
}

func (h *SettlementHandler) ListDisputeNotices(w http.ResponseWriter, r *http.Request) {
	notices, err := h.uc.ListDisputeNotices(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.ToDisputeNoticesResponse(notices))
}

func (h *SettlementHandler) ListMilestones(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.uc.ListMilestones(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response.ToMilestonesResponse(milestones))
}
