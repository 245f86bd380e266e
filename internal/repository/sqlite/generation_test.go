package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/promptpix/promptpix/internal/domain"
)

func TestGenerationRepository_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "gen@example.com")
	other := createTestUser(t, db, "other@example.com")

	for i := 0; i < 3; i++ {
		gen := &domain.Generation{
			ID:           uuid.NewString(),
			UserID:       user.ID,
			Prompt:       fmt.Sprintf("a cat, take %d", i),
			CreditsSpent: 1,
			ImageKey:     uuid.NewString() + ".png",
		}
		if err := db.Generations().Create(ctx, gen); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	gens, err := db.Generations().ListByUser(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(gens) != 3 {
		t.Fatalf("expected 3 generations, got %d", len(gens))
	}

	gens, err = db.Generations().ListByUser(ctx, other.ID, 10)
	if err != nil {
		t.Fatalf("ListByUser other: %v", err)
	}
	if len(gens) != 0 {
		t.Fatalf("expected no generations for other user, got %d", len(gens))
	}
}
