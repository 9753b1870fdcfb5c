package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradelink/settlement-service/internal/domain"
	settlementdto "github.com/tradelink/settlement-service/internal/usecase/dto/settlement"
	"google.golang.org/grpc/codes"
)

func assessmentInput(transactionID string, rating int32, approval domain.ApprovalStatus) *settlementdto.QualityAssessmentInput {
	return &settlementdto.QualityAssessmentInput{
		TransactionID:  transactionID,
		CallerID:       buyerID,
		Rating:         rating,
		Notes:          "detailed inspection notes covering the delivered goods",
		ApprovalStatus: approval,
	}
}

func TestQualityAssessmentValidation(t *testing.T) {
	tests := []struct {
		name     string
		rating   int32
		approval domain.ApprovalStatus
		ok       bool
	}{
		{"approve rating 5", 5, domain.ApprovalApproved, true},
		{"approve rating 4", 4, domain.ApprovalApproved, true},
		{"approve rating 3", 3, domain.ApprovalApproved, true},
		{"approve rating 2 rejected", 2, domain.ApprovalApproved, false},
		{"approve rating 1 rejected", 1, domain.ApprovalApproved, false},
		{"reject rating 1", 1, domain.ApprovalRejected, true},
		{"reject rating 2", 2, domain.ApprovalRejected, true},
		{"reject rating 3 rejected", 3, domain.ApprovalRejected, false},
		{"reject rating 5 rejected", 5, domain.ApprovalRejected, false},
		{"rating 0 out of range", 0, domain.ApprovalApproved, false},
		{"rating 6 out of range", 6, domain.ApprovalApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			tx := createTransaction(t, env, "5000.00")
			advanceToQualityPending(t, env, tx.ID)

			_, err := env.uc.SubmitQualityAssessment(context.Background(), assessmentInput(tx.ID, tt.rating, tt.approval))
			if tt.ok {
				require.NoError(t, err)
			} else {
				requireStatusCode(t, err, codes.InvalidArgument)
			}
		})
	}
}

func TestQualityAssessmentRejectsMismatchWithoutCorrecting(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tx := createTransaction(t, env, "5000.00")
	advanceToQualityPending(t, env, tx.ID)

	_, err := env.uc.SubmitQualityAssessment(ctx, assessmentInput(tx.ID, 2, domain.ApprovalApproved))
	requireStatusCode(t, err, codes.InvalidArgument)

	// The transaction is untouched and still assessable.
	stored, err := env.uc.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQualityPending, stored.Status)
	assert.Nil(t, stored.QualityRating)
}

func TestQualityAssessmentShortNotes(t *testing.T) {
	env := newTestEnv()
	tx := createTransaction(t, env, "5000.00")
	advanceToQualityPending(t, env, tx.ID)

	input := assessmentInput(tx.ID, 5, domain.ApprovalApproved)
	input.Notes = "   ok    "
	_, err := env.uc.SubmitQualityAssessment(context.Background(), input)
	requireStatusCode(t, err, codes.InvalidArgument)
}

func TestQualityAssessmentBuyerOnly(t *testing.T) {
	env := newTestEnv()
	tx := createTransaction(t, env, "5000.00")
	advanceToQualityPending(t, env, tx.ID)

	input := assessmentInput(tx.ID, 5, domain.ApprovalApproved)
	input.CallerID = supplierID
	_, err := env.uc.SubmitQualityAssessment(context.Background(), input)
	requireStatusCode(t, err, codes.PermissionDenied)
}

func TestQualityApprovalReleasesFunds(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tx := createTransaction(t, env, "100000.00")
	advanceToQualityPending(t, env, tx.ID)

	out, err := env.uc.SubmitQualityAssessment(ctx, assessmentInput(tx.ID, 4, domain.ApprovalApproved))
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, out.ApprovalStatus)
	assert.True(t, out.FundReleased)
	assert.False(t, out.DisputeCreated)

	stored, err := env.uc.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFundsReleased, stored.Status)
	require.NotNil(t, stored.QualityRating)
	assert.Equal(t, int32(4), *stored.QualityRating)
	assert.Equal(t, buyerID, stored.AssessedByID)
	assert.Equal(t, domain.EscrowReleased, stored.Escrow.Status)
	assert.True(t, stored.Escrow.QualityApproved)
	assert.Equal(t, "2000", stored.PlatformFee.String())
	assert.Equal(t, "98000", stored.PayoutAmount.String())

	// Two transitions landed: QUALITY_APPROVED then FUNDS_RELEASED.
	history, err := env.uc.ListHistory(ctx, tx.ID)
	require.NoError(t, err)
	replayed, ok := domain.ReplayStatus(history)
	require.True(t, ok)
	assert.Equal(t, domain.StatusFundsReleased, replayed)
	assert.Equal(t, "4", history[len(history)-2].Metadata["rating"])
}

func TestQualityApprovalSurvivesReleaseFailure(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tx := createTransaction(t, env, "5000.00")
	advanceToQualityPending(t, env, tx.ID)

	// The release step fails; the approval itself is already committed and
	// must stand, with FundReleased reporting the degradation.
	env.store.failTransitionTo = domain.StatusFundsReleased
	env.store.transitionErr = errors.New("storage failure")

	out, err := env.uc.SubmitQualityAssessment(ctx, assessmentInput(tx.ID, 5, domain.ApprovalApproved))
	require.NoError(t, err)
	assert.False(t, out.FundReleased)
	assert.Equal(t, domain.StatusQualityApproved, out.Transaction.Status)

	stored, err := env.uc.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQualityApproved, stored.Status)
	assert.True(t, stored.Escrow.QualityApproved)

	// The sweep can pick it up once storage recovers.
	env.store.failTransitionTo = ""
	release, err := env.uc.Release(ctx, tx.ID, "system", "auto-release")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFundsReleased, release.Transaction.Status)
}

func TestQualityRejectionOpensDispute(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tx := createTransaction(t, env, "5000.00")
	advanceToQualityPending(t, env, tx.ID)

	input := assessmentInput(tx.ID, 1, domain.ApprovalRejected)
	input.Issues = []string{"cracked casings", "wrong color"}
	out, err := env.uc.SubmitQualityAssessment(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalRejected, out.ApprovalStatus)
	assert.False(t, out.FundReleased)
	assert.True(t, out.DisputeCreated)
	assert.NotEmpty(t, out.DisputeID)

	assert.Equal(t, domain.StatusDisputed, out.Transaction.Status)

	stored, err := env.uc.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDisputed, stored.Status)
	assert.Equal(t, domain.EscrowDisputed, stored.Escrow.Status)
	assert.Equal(t, input.Notes, stored.RejectionReason)
	assert.Equal(t, []string{"cracked casings", "wrong color"}, stored.QualityIssues)

	history, err := env.uc.ListHistory(ctx, tx.ID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	last := history[len(history)-1]
	assert.Equal(t, domain.StatusQualityRejected, last.OldStatus)
	assert.Equal(t, domain.StatusDisputed, last.NewStatus)
	assert.Equal(t, out.DisputeID, last.Metadata["dispute_id"])

	notices, err := env.store.GetNoticesByTransactionID(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, notices, 2)
	assert.Equal(t, domain.DisputeNoticeOpened, notices[0].Kind)
	assert.Equal(t, supplierID, notices[0].RecipientID)
	assert.Equal(t, domain.DisputeNoticeFiled, notices[1].Kind)
	assert.Equal(t, buyerID, notices[1].RecipientID)
	assert.Equal(t, notices[1].ID, notices[0].PairedWithID)
	assert.Equal(t, notices[0].ID, notices[1].PairedWithID)
	assert.Equal(t, notices[0].ID, out.DisputeID)
}

func TestQualityRejectionSurvivesDisputeFailure(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tx := createTransaction(t, env, "5000.00")
	advanceToQualityPending(t, env, tx.ID)

	env.store.noticeErr = errors.New("notice store down")

	out, err := env.uc.SubmitQualityAssessment(ctx, assessmentInput(tx.ID, 1, domain.ApprovalRejected))
	require.NoError(t, err, "dispute failure must not undo the rejection")
	assert.False(t, out.DisputeCreated)
	assert.Equal(t, domain.StatusQualityRejected, out.Transaction.Status)

	// Even without the notice pair the funds are not stranded.
	env.store.noticeErr = nil
	refunded, err := env.uc.Refund(ctx, tx.ID, "admin-1", "dispute resolved for the buyer")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, refunded.Status)
	assert.Equal(t, domain.EscrowRefunded, refunded.Escrow.Status)
}

func TestDisputeResolvedByRefund(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tx := createTransaction(t, env, "5000.00")
	advanceToQualityPending(t, env, tx.ID)

	out, err := env.uc.SubmitQualityAssessment(ctx, assessmentInput(tx.ID, 1, domain.ApprovalRejected))
	require.NoError(t, err)
	require.Equal(t, domain.StatusDisputed, out.Transaction.Status)

	// Funds under dispute can never leave through a release.
	_, err = env.uc.Release(ctx, tx.ID, "system", "auto-release")
	requireStatusCode(t, err, codes.FailedPrecondition)

	refunded, err := env.uc.Refund(ctx, tx.ID, "admin-1", "dispute resolved for the buyer")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, refunded.Status)
	assert.Equal(t, domain.EscrowRefunded, refunded.Escrow.Status)

	// REFUNDED is terminal.
	_, err = env.uc.Refund(ctx, tx.ID, "admin-1", "again")
	requireStatusCode(t, err, codes.FailedPrecondition)
}

func TestQualityAssessmentOnlyOnce(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tx := createTransaction(t, env, "5000.00")
	advanceToQualityPending(t, env, tx.ID)

	_, err := env.uc.SubmitQualityAssessment(ctx, assessmentInput(tx.ID, 4, domain.ApprovalApproved))
	require.NoError(t, err)

	// Second verdict of either kind is rejected, not absorbed.
	_, err = env.uc.SubmitQualityAssessment(ctx, assessmentInput(tx.ID, 5, domain.ApprovalApproved))
	requireStatusCode(t, err, codes.FailedPrecondition)
	_, err = env.uc.SubmitQualityAssessment(ctx, assessmentInput(tx.ID, 1, domain.ApprovalRejected))
	requireStatusCode(t, err, codes.FailedPrecondition)
}

func TestQualityAssessmentBeforeDelivery(t *testing.T) {
	env := newTestEnv()
	tx := createTransaction(t, env, "5000.00")

	_, err := env.uc.SubmitQualityAssessment(context.Background(), assessmentInput(tx.ID, 5, domain.ApprovalApproved))
	requireStatusCode(t, err, codes.FailedPrecondition)
}

func TestGetQualityState(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tx := createTransaction(t, env, "5000.00")
	advanceToQualityPending(t, env, tx.ID)

	_, err := env.uc.SubmitQualityAssessment(ctx, assessmentInput(tx.ID, 4, domain.ApprovalApproved))
	require.NoError(t, err)

	state, err := env.uc.GetQualityState(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, state.Rating)
	assert.Equal(t, int32(4), *state.Rating)
	assert.Equal(t, buyerID, state.AssessedBy)
	assert.NotNil(t, state.AssessedAt)
	assert.NotEmpty(t, state.AcceptanceReason)
	assert.Empty(t, state.RejectionReason)

	// The escrow side of the gate comes along with the verdict.
	assert.Equal(t, domain.EscrowReleased, state.EscrowStatus)
	require.Len(t, state.Conditions, 3)
	var qualityCondition *domain.ReleaseCondition
	for i := range state.Conditions {
		if state.Conditions[i].Type == domain.ConditionQualityApproved {
			qualityCondition = &state.Conditions[i]
		}
	}
	require.NotNil(t, qualityCondition)
	assert.True(t, qualityCondition.Satisfied)
}
