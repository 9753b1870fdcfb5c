package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tradelink/settlement-service/internal/config"
	"github.com/tradelink/settlement-service/internal/domain"
	"github.com/tradelink/settlement-service/internal/infrastructure/metrics"
)

// fakeStore is an in-memory stand-in for every repository. Its
// ProcessTransition honors the same contract as the postgres implementation:
// status re-check against From, Apply on copies, one history row and one
// milestone per successful step, Metadata snapshotted after Apply.
type fakeStore struct {
	mu sync.Mutex

	requirements map[string]*domain.Requirement
	quotations   map[string]*domain.Quotation

	transactions map[string]*domain.Transaction
	escrows      map[string]*domain.EscrowTransaction
	history      map[string][]domain.StatusHistoryEntry
	milestones   map[string][]domain.Milestone
	notices      map[string][]*domain.DisputeNotice

	listingErr error
	createErr  error
	noticeErr  error
	// failTransitionTo makes ProcessTransition fail for one target status,
	// simulating a storage failure on that step only.
	failTransitionTo domain.TransactionStatus
	transitionErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requirements: make(map[string]*domain.Requirement),
		quotations:   make(map[string]*domain.Quotation),
		transactions: make(map[string]*domain.Transaction),
		escrows:      make(map[string]*domain.EscrowTransaction),
		history:      make(map[string][]domain.StatusHistoryEntry),
		milestones:   make(map[string][]domain.Milestone),
		notices:      make(map[string][]*domain.DisputeNotice),
	}
}

func copyTransaction(t *domain.Transaction) *domain.Transaction {
	c := *t
	c.Escrow = nil
	return &c
}

func copyEscrow(e *domain.EscrowTransaction) *domain.EscrowTransaction {
	c := *e
	c.Conditions = make([]domain.ReleaseCondition, len(e.Conditions))
	copy(c.Conditions, e.Conditions)
	return &c
}

func copyMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// --- TransactionRepository ---

func (s *fakeStore) CreateSettlement(ctx context.Context, t *domain.Transaction, e *domain.EscrowTransaction, h domain.StatusHistoryEntry, m domain.Milestone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.transactions {
		if existing.QuotationID == t.QuotationID && !existing.Status.Terminal() {
			return domain.ErrActiveTransactionExists
		}
	}

	s.transactions[t.ID] = copyTransaction(t)
	s.escrows[t.ID] = copyEscrow(e)
	s.history[t.ID] = append(s.history[t.ID], h)
	s.milestones[t.ID] = append(s.milestones[t.ID], m)

	if q, ok := s.quotations[t.QuotationID]; ok {
		q.Status = domain.QuotationAccepted
	}
	if r, ok := s.requirements[t.RequirementID]; ok {
		r.Status = domain.RequirementAccepted
	}
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	out := copyTransaction(t)
	if e, ok := s.escrows[id]; ok {
		out.Escrow = copyEscrow(e)
	}
	return out, nil
}

func (s *fakeStore) ProcessTransition(ctx context.Context, op *domain.TransitionOp) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failTransitionTo != "" && op.To == s.failTransitionTo {
		return nil, s.transitionErr
	}
	current, ok := s.transactions[op.TransactionID]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	allowed := false
	for _, from := range op.From {
		if current.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, domain.ErrIllegalTransition
	}
	escrow, ok := s.escrows[op.TransactionID]
	if !ok {
		return nil, domain.ErrEscrowNotFound
	}

	t := copyTransaction(current)
	e := copyEscrow(escrow)
	oldStatus := t.Status
	t.Status = op.To

	if op.Apply != nil {
		if err := op.Apply(t, e); err != nil {
			return nil, err
		}
	}

	s.transactions[op.TransactionID] = copyTransaction(t)
	s.escrows[op.TransactionID] = copyEscrow(e)
	s.history[op.TransactionID] = append(s.history[op.TransactionID], domain.StatusHistoryEntry{
		TransactionID: t.ID,
		OldStatus:     oldStatus,
		NewStatus:     op.To,
		ChangedByID:   op.ChangedByID,
		Reason:        op.Reason,
		Metadata:      copyMetadata(op.Metadata),
		CreatedAt:     time.Now(),
	})
	s.milestones[op.TransactionID] = append(s.milestones[op.TransactionID], domain.Milestone{
		TransactionID: t.ID,
		Status:        op.To,
		Description:   op.MilestoneDescription,
		Actor:         op.Actor,
		CreatedAt:     time.Now(),
	})

	t.Escrow = e
	return t, nil
}

func (s *fakeStore) SetPaymentIntentID(ctx context.Context, transactionID, paymentIntentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[transactionID]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	t.PaymentIntentID = paymentIntentID
	return nil
}

func (s *fakeStore) FindMissingPaymentIntents(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Transaction
	for _, t := range s.transactions {
		if t.Status == domain.StatusPaymentPending && t.PaymentIntentID == "" {
			out = append(out, copyTransaction(t))
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// --- EscrowRepository ---

func (s *fakeStore) GetByTransactionID(ctx context.Context, transactionID string) (*domain.EscrowTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.escrows[transactionID]
	if !ok {
		return nil, domain.ErrEscrowNotFound
	}
	return copyEscrow(e), nil
}

func (s *fakeStore) FindDueForAutoRelease(ctx context.Context, now time.Time, limit int) ([]*domain.EscrowTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.EscrowTransaction
	for _, e := range s.escrows {
		if e.Status == domain.EscrowHeld && !e.AutoReleaseDate.After(now) {
			out = append(out, copyEscrow(e))
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// --- HistoryRepository ---

func (s *fakeStore) ListHistory(ctx context.Context, transactionID string) ([]domain.StatusHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.StatusHistoryEntry(nil), s.history[transactionID]...), nil
}

func (s *fakeStore) ListMilestones(ctx context.Context, transactionID string) ([]domain.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Milestone(nil), s.milestones[transactionID]...), nil
}

// --- RequirementRepository ---

func (s *fakeStore) GetRequirementByID(ctx context.Context, id string) (*domain.Requirement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listingErr != nil {
		return nil, s.listingErr
	}
	r, ok := s.requirements[id]
	if !ok {
		return nil, domain.ErrRequirementNotFound
	}
	c := *r
	return &c, nil
}

func (s *fakeStore) GetQuotationByID(ctx context.Context, id string) (*domain.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listingErr != nil {
		return nil, s.listingErr
	}
	q, ok := s.quotations[id]
	if !ok {
		return nil, domain.ErrQuotationNotFound
	}
	c := *q
	return &c, nil
}

// --- DisputeRepository ---

func (s *fakeStore) CreateNoticePair(ctx context.Context, supplier, buyer *domain.DisputeNotice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.noticeErr != nil {
		return s.noticeErr
	}
	s.notices[supplier.TransactionID] = append(s.notices[supplier.TransactionID], supplier, buyer)
	return nil
}

func (s *fakeStore) GetNoticesByTransactionID(ctx context.Context, transactionID string) ([]*domain.DisputeNotice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.DisputeNotice(nil), s.notices[transactionID]...), nil
}

// --- ports ---

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []domain.Notification
	roles []string
}

func (n *fakeNotifier) Notify(notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *fakeNotifier) NotifyRole(role string, notification domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.roles = append(n.roles, role)
	n.sent = append(n.sent, notification)
}

type fakePayments struct {
	mu      sync.Mutex
	err     error
	calls   int
	lastReq domain.PaymentIntentRequest
}

func (p *fakePayments) CreatePaymentIntent(ctx context.Context, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &domain.PaymentIntent{
		Success:         true,
		PaymentIntentID: "pi_" + req.TransactionID,
		ClientSecret:    "secret_" + req.TransactionID,
	}, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.SettlementEvent
}

func (p *fakePublisher) PublishSettlement(event domain.SettlementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type fakeActivity struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (a *fakeActivity) Record(ctx context.Context, event domain.ActivityEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

// --- wiring ---

type testEnv struct {
	uc        *DefaultSettlementUsecase
	store     *fakeStore
	notifier  *fakeNotifier
	payments  *fakePayments
	publisher *fakePublisher
	activity  *fakeActivity
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	paymentsClient := &fakePayments{}
	pub := &fakePublisher{}
	activity := &fakeActivity{}

	uc := NewDefaultSettlementUsecase(
		store, store, store, store, store,
		notifier,
		paymentsClient,
		pub,
		activity,
		metrics.NewSettlementMetrics(prometheus.NewRegistry()),
		config.Policy{
			PlatformFeeRate:    "0.02",
			AdvancePaymentRate: "0.30",
			AutoReleaseDays:    30,
		},
	)
	return &testEnv{
		uc:        uc,
		store:     store,
		notifier:  notifier,
		payments:  paymentsClient,
		publisher: pub,
		activity:  activity,
	}
}
