package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/promptpix/promptpix/internal/domain"
)

// ReconcileResult is the outcome of one reconciliation attempt.
type ReconcileResult int

const (
	// ResultCredited means this call performed the settlement transition and
	// credited the user's balance.
	ResultCredited ReconcileResult = iota
	// ResultAlreadyCredited means the transaction was settled by an earlier
	// confirmation; nothing was mutated.
	ResultAlreadyCredited
	// ResultNotSettled means the gateway has not confirmed the payment;
	// nothing was mutated.
	ResultNotSettled
	// ResultTransactionNotFound means no transaction matches the reference.
	ResultTransactionNotFound
)

// BillingService initiates credit purchases and reconciles gateway payment
// confirmations into the ledger exactly once.
type BillingService struct {
	users        domain.UserRepository
	transactions domain.TransactionRepository
	receipts     *ReceiptNotifier
}

// NewBillingService creates a new BillingService. The receipt notifier may
// be nil when receipts are not configured.
func NewBillingService(users domain.UserRepository, transactions domain.TransactionRepository, receipts *ReceiptNotifier) *BillingService {
	return &BillingService{
		users:        users,
		transactions: transactions,
		receipts:     receipts,
	}
}

// Purchase opens a payment session for a plan and records the pending
// transaction. The gateway session is opened before anything is persisted,
// so a failed or disabled gateway leaves no transaction behind.
func (s *BillingService) Purchase(ctx context.Context, gw domain.PaymentGateway, userID int64, planID string) (*domain.Transaction, *domain.CheckoutSession, error) {
	plan, err := domain.ResolvePlan(planID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, nil, err
	}

	txn := &domain.Transaction{
		ID:      uuid.NewString(),
		UserID:  userID,
		Plan:    plan.ID,
		Amount:  plan.Amount,
		Credits: plan.Credits,
		Gateway: gw.Name(),
	}

	session, err := gw.CreateSession(ctx, txn, plan)
	if err != nil {
		return nil, nil, err
	}
	txn.GatewayRef = session.Ref

	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, nil, fmt.Errorf("create transaction: %w", err)
	}

	return txn, session, nil
}

// Reconcile applies a payment confirmation to the ledger. It credits the
// user's balance at most once per transaction no matter how many times the
// same confirmation is delivered.
func (s *BillingService) Reconcile(ctx context.Context, txnID string, confirmedSettled bool) (ReconcileResult, error) {
	txn, err := s.transactions.GetByID(ctx, txnID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ResultTransactionNotFound, nil
		}
		return 0, fmt.Errorf("get transaction: %w", err)
	}

	if !confirmedSettled {
		return ResultNotSettled, nil
	}

	credited, err := s.transactions.SettleAndCredit(ctx, txn.ID)
	if err != nil {
		return 0, fmt.Errorf("settle and credit: %w", err)
	}
	if !credited {
		return ResultAlreadyCredited, nil
	}

	slog.Info("credits applied", "transaction", txn.ID, "user", txn.UserID, "credits", txn.Credits)

	if s.receipts != nil {
		// Receipt is best effort; the ledger write above is the source of truth.
		if user, err := s.users.GetByID(ctx, txn.UserID); err == nil {
			go s.receipts.Send(user, txn)
		}
	}

	return ResultCredited, nil
}

// TransactionByGatewayRef resolves a transaction from a gateway-side
// reference such as a Razorpay order id.
func (s *BillingService) TransactionByGatewayRef(ctx context.Context, ref string) (*domain.Transaction, error) {
	return s.transactions.GetByGatewayRef(ctx, ref)
}

// TransactionByID resolves a transaction by its own id.
func (s *BillingService) TransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.transactions.GetByID(ctx, id)
}

// Balance returns the user's current credit balance.
func (s *BillingService) Balance(ctx context.Context, userID int64) (int, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.CreditBalance, nil
}
