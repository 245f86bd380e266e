package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/promptpix/promptpix/internal/domain"
)

// GenerationService debits credits, calls the external image provider, and
// persists the result. A provider failure refunds the debit.
type GenerationService struct {
	users       domain.UserRepository
	generations domain.GenerationRepository
	files       domain.FileStore
	provider    domain.ImageProvider
	cost        int
}

// NewGenerationService creates a new GenerationService. cost is the credit
// price of one image.
func NewGenerationService(users domain.UserRepository, generations domain.GenerationRepository, files domain.FileStore, provider domain.ImageProvider, cost int) *GenerationService {
	return &GenerationService{
		users:       users,
		generations: generations,
		files:       files,
		provider:    provider,
		cost:        cost,
	}
}

// Generate produces an image for the prompt. The debit happens before the
// provider call; if the provider fails the debit is refunded. Returns the
// generation record and the user's balance after the operation.
func (s *GenerationService) Generate(ctx context.Context, userID int64, prompt string) (*domain.Generation, int, error) {
	if prompt == "" {
		return nil, 0, fmt.Errorf("%w: prompt is required", domain.ErrInvalidInput)
	}

	if err := s.users.DebitCredits(ctx, userID, s.cost); err != nil {
		return nil, 0, err
	}

	image, err := s.provider.TextToImage(ctx, prompt)
	if err != nil {
		if refundErr := s.users.AddCredits(ctx, userID, s.cost); refundErr != nil {
			slog.Error("refund after provider failure", "error", refundErr, "user", userID)
		}
		return nil, 0, err
	}

	gen := &domain.Generation{
		ID:           uuid.NewString(),
		UserID:       userID,
		Prompt:       prompt,
		CreditsSpent: s.cost,
		ImageKey:     uuid.NewString() + ".png",
	}

	if err := s.files.Save(ctx, gen.ImageKey, image); err != nil {
		return nil, 0, fmt.Errorf("save image: %w", err)
	}
	if err := s.generations.Create(ctx, gen); err != nil {
		return nil, 0, fmt.Errorf("create generation: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return gen, user.CreditBalance, nil
}

// Image returns the stored image bytes for a storage key.
func (s *GenerationService) Image(ctx context.Context, key string) ([]byte, error) {
	return s.files.Get(ctx, key)
}

// History lists the user's most recent generations.
func (s *GenerationService) History(ctx context.Context, userID int64, limit int) ([]domain.Generation, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.generations.ListByUser(ctx, userID, limit)
}
