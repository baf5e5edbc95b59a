package handlers

import (
	"context"
	"math"
	"net/http"

	"github.com/civicpulse/backend/internal/application/services"
	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
)

// InsightsGenerator builds the admin insights report.
type InsightsGenerator interface {
	Generate(ctx context.Context, periodDays int) (*entities.InsightsReport, error)
}

// InsightsHandler serves the admin analytics endpoint.
type InsightsHandler struct {
	service InsightsGenerator
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(service InsightsGenerator) *InsightsHandler {
	return &InsightsHandler{service: service}
}

type insightsRequest struct {
	PeriodDays *float64 `json:"periodDays"`
}

// parseInsightsRequest returns the clamped period for the request body.
// An empty body selects the default period.
func parseInsightsRequest(r *http.Request) (int, error) {
	var req insightsRequest
	if err := decodeBody(r, &req); err != nil {
		return 0, err
	}
	if req.PeriodDays == nil || math.IsNaN(*req.PeriodDays) {
		return services.ClampPeriodDays(0), nil
	}
	days := math.Round(*req.PeriodDays)
	switch {
	case days > float64(services.MaxPeriodDays):
		days = float64(services.MaxPeriodDays)
	case days < 0:
		days = float64(services.MinPeriodDays)
	}
	return services.ClampPeriodDays(int(days)), nil
}

// GenerateInsights handles POST /api/ai-admin-insights
func (h *InsightsHandler) GenerateInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	periodDays, err := parseInsightsRequest(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	report, err := h.service.Generate(r.Context(), periodDays)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).
			Int("period_days", periodDays).
			Msg("insights generation failed")
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}
