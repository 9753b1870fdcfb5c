package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/tradelink/settlement-service/internal/domain"
	settlementdto "github.com/tradelink/settlement-service/internal/usecase/dto/settlement"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const minQualityNotesLen = 10

// SubmitQualityAssessment records the buyer's post-delivery verdict.
// Approval triggers an automatic fund release; a release failure does not
// undo the approval and is surfaced as FundReleased=false. Rejection opens a
// dispute and never releases funds.
//
// The rating/approval cross-validation is strict and intentionally leaves a
// dead zone at the boundary: APPROVED needs rating >= 3, REJECTED needs
// rating <= 2. A rating of 3 cannot be rejected, a rating of 2 cannot be
// approved. Mismatches are rejected, never corrected.
func (uc *DefaultSettlementUsecase) SubmitQualityAssessment(ctx context.Context, input *settlementdto.QualityAssessmentInput) (*settlementdto.QualityAssessmentOutput, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, status.Error(codes.InvalidArgument, "rating must be between 1 and 5")
	}
	if len(strings.TrimSpace(input.Notes)) < minQualityNotesLen {
		return nil, status.Errorf(codes.InvalidArgument, "notes must be at least %d characters", minQualityNotesLen)
	}
	switch input.ApprovalStatus {
	case domain.ApprovalApproved:
		if input.Rating < 3 {
			return nil, status.Error(codes.InvalidArgument, "approval requires a rating of 3 or higher")
		}
	case domain.ApprovalRejected:
		if input.Rating > 2 {
			return nil, status.Error(codes.InvalidArgument, "rejection requires a rating of 2 or lower")
		}
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown approval status: %s", input.ApprovalStatus)
	}

	current, err := uc.TxRepo.GetByID(ctx, input.TransactionID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if current.BuyerID != input.CallerID {
		return nil, status.Error(codes.PermissionDenied, "only the buyer can assess quality")
	}

	if input.ApprovalStatus == domain.ApprovalApproved {
		return uc.assessApproved(ctx, input)
	}
	return uc.assessRejected(ctx, input)
}

func (uc *DefaultSettlementUsecase) assessApproved(ctx context.Context, input *settlementdto.QualityAssessmentInput) (*settlementdto.QualityAssessmentOutput, error) {
	rating := input.Rating
	t, err := uc.processTransition(ctx, &transition{
		op: &domain.TransitionOp{
			TransactionID:        input.TransactionID,
			From:                 domain.QualityAssessable,
			To:                   domain.StatusQualityApproved,
			ChangedByID:          input.CallerID,
			Reason:               "buyer approved quality",
			Metadata:             map[string]string{"rating": ratingString(rating)},
			MilestoneDescription: "Quality approved by buyer",
			Actor:                input.CallerID,
			Apply: func(t *domain.Transaction, e *domain.EscrowTransaction) error {
				now := time.Now()
				t.QualityRating = &rating
				t.QualityNotes = input.Notes
				t.QualityIssues = input.Issues
				t.QualityPhotos = input.Photos
				t.AssessedByID = input.CallerID
				t.AssessedAt = &now
				t.AcceptanceReason = input.Notes
				e.SatisfyCondition(domain.ConditionQualityApproved, now)
				return nil
			},
		},
		event:           "qualityApproved",
		notifyType:      "quality_approved",
		notifyTitle:     "Quality approved",
		buyerMessage:    "Your quality approval was recorded, funds will be released to the supplier",
		supplierMessage: "The buyer approved the quality of your goods",
	})
	if err != nil {
		return nil, err
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordAssessment(string(domain.ApprovalApproved), rating)
	}

	out := &settlementdto.QualityAssessmentOutput{
		Transaction:    t,
		ApprovalStatus: domain.ApprovalApproved,
	}

	// Auto-release. The approval is committed; a release failure here is
	// non-fatal and retried by the scheduled sweep.
	release, err := uc.Release(ctx, t.ID, input.CallerID, "auto-release")
	if err != nil {
		slog.Error("automatic fund release failed after quality approval",
			"transaction_id", t.ID, "error", err.Error())
		return out, nil
	}
	out.Transaction = release.Transaction
	out.FundReleased = true
	return out, nil
}

func (uc *DefaultSettlementUsecase) assessRejected(ctx context.Context, input *settlementdto.QualityAssessmentInput) (*settlementdto.QualityAssessmentOutput, error) {
	rating := input.Rating
	t, err := uc.processTransition(ctx, &transition{
		op: &domain.TransitionOp{
			TransactionID:        input.TransactionID,
			From:                 domain.QualityAssessable,
			To:                   domain.StatusQualityRejected,
			ChangedByID:          input.CallerID,
			Reason:               "buyer rejected quality",
			Metadata:             map[string]string{"rating": ratingString(rating)},
			MilestoneDescription: "Quality rejected by buyer, dispute opened",
			Actor:                input.CallerID,
			Apply: func(t *domain.Transaction, e *domain.EscrowTransaction) error {
				now := time.Now()
				t.QualityRating = &rating
				t.QualityNotes = input.Notes
				t.QualityIssues = input.Issues
				t.QualityPhotos = input.Photos
				t.AssessedByID = input.CallerID
				t.AssessedAt = &now
				t.RejectionReason = input.Notes
				e.Status = domain.EscrowDisputed
				return nil
			},
		},
		event:           "qualityRejected",
		notifyType:      "quality_rejected",
		notifyTitle:     "Quality rejected",
		buyerMessage:    "Your quality rejection was recorded",
		supplierMessage: "The buyer rejected the quality of your goods",
	})
	if err != nil {
		return nil, err
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordAssessment(string(domain.ApprovalRejected), rating)
	}

	out := &settlementdto.QualityAssessmentOutput{
		Transaction:    t,
		ApprovalStatus: domain.ApprovalRejected,
	}

	disputeID, err := uc.openDispute(ctx, t, input.Notes)
	if err != nil {
		slog.Error("failed to open dispute after quality rejection",
			"transaction_id", t.ID, "error", err.Error())
		return out, nil
	}
	out.DisputeCreated = true
	out.DisputeID = disputeID
	if uc.Metrics != nil {
		uc.Metrics.RecordDisputeOpened()
	}

	// With the notice pair on record the transaction moves under dispute,
	// which is where Refund picks it up once the dispute is resolved.
	disputed, err := uc.processTransition(ctx, &transition{
		op: &domain.TransitionOp{
			TransactionID:        t.ID,
			From:                 []domain.TransactionStatus{domain.StatusQualityRejected},
			To:                   domain.StatusDisputed,
			ChangedByID:          input.CallerID,
			Reason:               "dispute opened after quality rejection",
			Metadata:             map[string]string{"dispute_id": disputeID},
			MilestoneDescription: "Transaction under dispute",
			Actor:                input.CallerID,
		},
		event:           "disputed",
		notifyType:      "dispute_opened",
		notifyTitle:     "Dispute opened",
		buyerMessage:    "Your dispute was opened, our team will review it",
		supplierMessage: "The buyer opened a dispute over this transaction",
	})
	if err != nil {
		slog.Error("failed to move rejected transaction under dispute",
			"transaction_id", t.ID, "error", err.Error())
		return out, nil
	}
	out.Transaction = disputed
	return out, nil
}

func ratingString(r int32) string {
	return strconv.Itoa(int(r))
}
