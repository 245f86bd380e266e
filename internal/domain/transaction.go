package domain

import (
	"context"
	"time"
)

// Transaction records one credit purchase attempt and its settlement state.
// Payment transitions false->true at most once, and the user's balance is
// credited if and only if that transition happens.
type Transaction struct {
	ID         string
	UserID     int64
	Plan       string
	Amount     int
	Credits    int
	Payment    bool
	Gateway    string
	GatewayRef string
	CreatedAt  time.Time
}

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *Transaction) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	GetByGatewayRef(ctx context.Context, ref string) (*Transaction, error)

	// SettleAndCredit marks the transaction paid and credits the user's
	// balance in a single database transaction. It returns true when this
	// call performed the false->true transition, false when the transaction
	// was already settled. The balance is incremented only on a true return.
	SettleAndCredit(ctx context.Context, id string) (bool, error)
}
