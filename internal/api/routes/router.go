package routes

import (
	"net/http"

	"github.com/civicpulse/backend/internal/api/handlers"
	"github.com/civicpulse/backend/internal/api/middleware"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	insightsHandler   *handlers.InsightsHandler
	publicChatHandler *handlers.PublicChatHandler
	healthHandler     *handlers.HealthHandler

	authenticator  *middleware.Authenticator
	rateLimiter    *middleware.RateLimiter
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	insightsHandler *handlers.InsightsHandler,
	publicChatHandler *handlers.PublicChatHandler,
	healthHandler *handlers.HealthHandler,
	authenticator *middleware.Authenticator,
	rateLimiter *middleware.RateLimiter,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		insightsHandler:   insightsHandler,
		publicChatHandler: publicChatHandler,
		healthHandler:     healthHandler,
		authenticator:     authenticator,
		rateLimiter:       rateLimiter,
		allowedOrigins:    allowedOrigins,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Paths are registered without a method so wrong methods get a JSON 405
	// ahead of auth and throttling.
	postOnly := middleware.RequireMethod(http.MethodPost)

	var insights http.Handler = http.HandlerFunc(r.insightsHandler.GenerateInsights)
	insights = r.authenticator.Require(insights)
	r.mux.Handle("/api/ai-admin-insights", postOnly(insights))

	var chat http.Handler = http.HandlerFunc(r.publicChatHandler.Chat)
	if r.rateLimiter != nil {
		chat = r.rateLimiter.Limit(chat)
	}
	r.mux.Handle("/api/ai-public-chat", postOnly(chat))

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.RecoveryMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)

	// CORS wraps everything so preflights never reach auth or the rate limiter
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
