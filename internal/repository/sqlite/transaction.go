package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/promptpix/promptpix/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using SQLite.
type TransactionRepository struct {
	db *sql.DB
}

func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, plan, amount, credits, payment, gateway, gateway_ref, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.UserID, txn.Plan, txn.Amount, txn.Credits, txn.Payment,
		txn.Gateway, txn.GatewayRef, now,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	txn.CreatedAt = now
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return r.scanTransaction(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, plan, amount, credits, payment, gateway, gateway_ref, created_at
		 FROM transactions WHERE id = ?`, id,
	))
}

func (r *TransactionRepository) GetByGatewayRef(ctx context.Context, ref string) (*domain.Transaction, error) {
	return r.scanTransaction(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, plan, amount, credits, payment, gateway, gateway_ref, created_at
		 FROM transactions WHERE gateway_ref = ?`, ref,
	))
}

// SettleAndCredit flips payment false->true and credits the user's balance in
// one SQL transaction. The conditional UPDATE is the idempotency guard: only
// the call that observes payment=0 performs the transition, so a duplicate
// confirmation can never credit twice, and the balance increment commits
// atomically with the flag so a confirmed credit is never lost.
func (r *TransactionRepository) SettleAndCredit(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE transactions SET payment = 1 WHERE id = ? AND payment = 0`, id,
	)
	if err != nil {
		return false, fmt.Errorf("mark settled: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		// Either already settled or missing; let the caller tell them apart
		// via the read it already performed.
		return false, nil
	}

	result, err = tx.ExecContext(ctx, `
		UPDATE users
		SET credit_balance = credit_balance + (SELECT credits FROM transactions WHERE id = ?),
		    updated_at = ?
		WHERE id = (SELECT user_id FROM transactions WHERE id = ?)`,
		id, time.Now().UTC(), id,
	)
	if err != nil {
		return false, fmt.Errorf("credit balance: %w", err)
	}
	rows, err = result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return false, fmt.Errorf("credit balance: user for transaction %s: %w", id, domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

func (r *TransactionRepository) scanTransaction(row *sql.Row) (*domain.Transaction, error) {
	txn := &domain.Transaction{}
	err := row.Scan(&txn.ID, &txn.UserID, &txn.Plan, &txn.Amount, &txn.Credits,
		&txn.Payment, &txn.Gateway, &txn.GatewayRef, &txn.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query transaction: %w", err)
	}
	return txn, nil
}
