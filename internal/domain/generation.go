package domain

import (
	"context"
	"time"
)

// Generation records one image generated for a user.
type Generation struct {
	ID           string
	UserID       int64
	Prompt       string
	CreditsSpent int
	ImageKey     string
	CreatedAt    time.Time
}

// GenerationRepository defines persistence operations for generations.
type GenerationRepository interface {
	Create(ctx context.Context, gen *Generation) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]Generation, error)
}

// ImageProvider turns a text prompt into image bytes. Implementations call
// an external service and must bound the call with a timeout.
type ImageProvider interface {
	TextToImage(ctx context.Context, prompt string) ([]byte, error)
}

// FileStore persists opaque blobs by storage key.
type FileStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
