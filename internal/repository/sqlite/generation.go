package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/promptpix/promptpix/internal/domain"
)

// GenerationRepository implements domain.GenerationRepository using SQLite.
type GenerationRepository struct {
	db *sql.DB
}

func (r *GenerationRepository) Create(ctx context.Context, gen *domain.Generation) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO generations (id, user_id, prompt, credits_spent, image_key, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		gen.ID, gen.UserID, gen.Prompt, gen.CreditsSpent, gen.ImageKey, now,
	)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	gen.CreatedAt = now
	return nil
}

func (r *GenerationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Generation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, prompt, credits_spent, image_key, created_at
		 FROM generations WHERE user_id = ?
		 ORDER BY created_at DESC LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var gens []domain.Generation
	for rows.Next() {
		var g domain.Generation
		if err := rows.Scan(&g.ID, &g.UserID, &g.Prompt, &g.CreditsSpent, &g.ImageKey, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		gens = append(gens, g)
	}
	return gens, rows.Err()
}
