package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/promptpix/promptpix/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, credit_balance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash, user.CreditBalance, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, credit_balance, created_at, updated_at
		 FROM users WHERE id = ?`, id,
	), "id")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, credit_balance, created_at, updated_at
		 FROM users WHERE email = ?`, email,
	), "email")
}

func (r *UserRepository) AddCredits(ctx context.Context, id int64, credits int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET credit_balance = credit_balance + ?, updated_at = ? WHERE id = ?`,
		credits, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("add credits: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) DebitCredits(ctx context.Context, id int64, cost int) error {
	// Conditional decrement: the WHERE clause makes the balance check and
	// the debit one atomic statement, so concurrent debits cannot drive the
	// balance negative.
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET credit_balance = credit_balance - ?, updated_at = ?
		 WHERE id = ? AND credit_balance >= ?`,
		cost, time.Now().UTC(), id, cost,
	)
	if err != nil {
		return fmt.Errorf("debit credits: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish a missing user from an insufficient balance.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInsufficientCredits
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row, by string) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.CreditBalance, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by %s: %w", by, err)
	}
	return user, nil
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
