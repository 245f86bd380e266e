package handler

import (
	"time"

	"github.com/promptpix/promptpix/internal/domain"
)

// GenerationDTO is the JSON representation of a generation record.
type GenerationDTO struct {
	ID           string `json:"id"`
	Prompt       string `json:"prompt"`
	CreditsSpent int    `json:"creditsSpent"`
	ImageURL     string `json:"imageUrl"`
	CreatedAt    string `json:"createdAt"`
}

func toGenerationDTO(g domain.Generation) GenerationDTO {
	return GenerationDTO{
		ID:           g.ID,
		Prompt:       g.Prompt,
		CreditsSpent: g.CreditsSpent,
		ImageURL:     "/images/" + g.ImageKey,
		CreatedAt:    g.CreatedAt.Format(time.RFC3339),
	}
}

func toGenerationDTOs(gens []domain.Generation) []GenerationDTO {
	dtos := make([]GenerationDTO, len(gens))
	for i, g := range gens {
		dtos[i] = toGenerationDTO(g)
	}
	return dtos
}
