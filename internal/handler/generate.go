package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/promptpix/promptpix/internal/domain"
	"github.com/promptpix/promptpix/internal/service"
)

// GenerateHandler handles image generation and serves stored images.
type GenerateHandler struct {
	generation *service.GenerationService
	limiter    *service.TokenBucket
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(generation *service.GenerationService, limiter *service.TokenBucket) *GenerateHandler {
	return &GenerateHandler{generation: generation, limiter: limiter}
}

// HandleGenerate debits the user and generates an image for the prompt.
// POST /generate
// Request:  {"prompt":"..."}
// Response: {"success":true,"imageUrl":"/images/...","creditBalance":N}
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if !h.limiter.AllowUser(user.ID) {
		writeError(w, http.StatusTooManyRequests, "Too many requests, slow down")
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	gen, balance, err := h.generation.Generate(r.Context(), user.ID, req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Prompt is required")
		case errors.Is(err, domain.ErrInsufficientCredits):
			writeError(w, http.StatusPaymentRequired, "No credit balance")
		case errors.Is(err, domain.ErrProviderUnavailable):
			writeError(w, http.StatusBadGateway, "Image provider unavailable")
		default:
			slog.Error("generate image", "error", err, "user", user.ID)
			writeError(w, http.StatusInternalServerError, "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"imageUrl":      "/images/" + gen.ImageKey,
		"creditBalance": balance,
	})
}

// HandleImage serves a stored generated image.
// GET /images/{key}
func (h *GenerateHandler) HandleImage(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	data, err := h.generation.Image(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Image not found")
			return
		}
		slog.Error("load image", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := w.Write(data); err != nil {
		slog.Error("write image response", "error", err)
	}
}

// HandleHistory lists the user's recent generations.
// GET /generations
// Response: {"success":true,"generations":[...]}
func (h *GenerateHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	gens, err := h.generation.History(r.Context(), user.ID, 50)
	if err != nil {
		slog.Error("list generations", "error", err, "user", user.ID)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"generations": toGenerationDTOs(gens),
	})
}
