package domain

import (
	"context"
	"time"
)

// User represents a registered account and its credit balance.
type User struct {
	ID            int64
	Name          string
	Email         string
	PasswordHash  string
	CreditBalance int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// AddCredits unconditionally increments the user's balance.
	AddCredits(ctx context.Context, id int64, credits int) error

	// DebitCredits decrements the balance only if it covers the cost.
	// Returns ErrInsufficientCredits when it does not.
	DebitCredits(ctx context.Context, id int64, cost int) error
}
