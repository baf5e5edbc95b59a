package handlers

import (
	"context"
	"math"
	"net/http"
	"strings"

	"github.com/civicpulse/backend/internal/application/services"
	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
)

// PublicAssistant answers citizen questions.
type PublicAssistant interface {
	Answer(ctx context.Context, query services.PublicQuery) (*entities.PublicAnswer, error)
}

// PublicChatHandler serves the citizen assistant endpoint.
type PublicChatHandler struct {
	service PublicAssistant
}

// NewPublicChatHandler creates a new public chat handler
func NewPublicChatHandler(service PublicAssistant) *PublicChatHandler {
	return &PublicChatHandler{service: service}
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type publicChatRequest struct {
	Message  string           `json:"message" validate:"required,min=3,max=800"`
	Limit    *float64         `json:"limit"`
	Location *locationRequest `json:"location"`
}

func parsePublicChatRequest(r *http.Request) (services.PublicQuery, error) {
	var req publicChatRequest
	if err := decodeBody(r, &req); err != nil {
		return services.PublicQuery{}, err
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := validateStruct(req); err != nil {
		return services.PublicQuery{}, err
	}

	query := services.PublicQuery{
		Message: req.Message,
		Limit:   services.DefaultSuggestionLimit,
	}
	if req.Limit != nil && !math.IsNaN(*req.Limit) {
		limit := math.Round(*req.Limit)
		switch {
		case limit > services.MaxSuggestionLimit:
			limit = services.MaxSuggestionLimit
		case limit < 0:
			limit = services.MinSuggestionLimit
		}
		query.Limit = services.ClampSuggestionLimit(int(limit))
	}
	if req.Location != nil {
		query.Location = &services.GeoPoint{
			Latitude:  *req.Location.Latitude,
			Longitude: *req.Location.Longitude,
		}
	}
	return query, nil
}

// Chat handles POST /api/ai-public-chat
func (h *PublicChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	query, err := parsePublicChatRequest(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	answer, err := h.service.Answer(r.Context(), query)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("public assistant failed")
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, answer)
}
