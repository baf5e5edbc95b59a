package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/civicpulse/backend/internal/adapters/cache"
	"github.com/civicpulse/backend/internal/adapters/database"
	"github.com/civicpulse/backend/internal/adapters/providers/auth"
	"github.com/civicpulse/backend/internal/adapters/providers/narrative"
	"github.com/civicpulse/backend/internal/api/handlers"
	"github.com/civicpulse/backend/internal/api/middleware"
	"github.com/civicpulse/backend/internal/api/routes"
	"github.com/civicpulse/backend/internal/application/services"
	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/civicpulse/backend/internal/infrastructure/clients/gemini"
	"github.com/civicpulse/backend/internal/infrastructure/clients/openai"
	"github.com/civicpulse/backend/internal/infrastructure/clients/postgres"
	"github.com/civicpulse/backend/internal/infrastructure/clients/redis"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
	"github.com/civicpulse/backend/pkg/config"
)

// In-process rate limit counters tracked when Redis is unavailable.
const fallbackCounterKeys = 10000

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.Log.Level)

	// Set up context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	healthChecks := map[string]handlers.Pinger{"postgres": pgClient}

	// Redis is optional; counters fall back to process memory.
	fallbackCounters := cache.NewMemoryAdapter(fallbackCounterKeys, cfg.RateLimit.Window)
	var counters providers.CounterStore = fallbackCounters
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, rate limiting per instance")
	} else {
		defer redisClient.Close()
		counters = cache.NewRedisAdapter(redisClient)
		healthChecks["redis"] = redisClient
	}

	// Initialize adapters
	reportAdapter := database.NewReportAdapter(pgClient, metrics)
	poiAdapter := database.NewPOIAdapter(pgClient, metrics)
	profileAdapter := database.NewProfileAdapter(pgClient)

	verifier, err := auth.NewJWTVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("AUTH_JWT_SECRET must be set")
	}

	// Narrative providers degrade to rule-based text when unconfigured.
	var insightsNarrator providers.NarrativeGenerator = narrative.NewNoop()
	if geminiClient, err := gemini.NewClient(&cfg.Gemini); err != nil {
		log.Info().Msg("Gemini not configured, insights use rule-based summaries")
	} else {
		insightsNarrator = geminiClient
	}

	var publicNarrator providers.NarrativeGenerator = narrative.NewNoop()
	if openaiClient, err := openai.NewClient(&cfg.OpenAI); err != nil {
		log.Info().Msg("OpenAI not configured, public assistant uses fallback answers")
	} else {
		publicNarrator = openaiClient
	}

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid RATE_LIMIT_TRUSTED_PROXIES")
	}
	rateLimiter := middleware.NewRateLimiter(counters, fallbackCounters, cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Salt, metrics)
	rateLimiter.SetTrustedProxies(trustedProxies)

	// Initialize services
	insightsService := services.NewInsightsService(reportAdapter, poiAdapter, insightsNarrator)
	publicAssistant := services.NewPublicAssistantService(poiAdapter, reportAdapter, publicNarrator)

	// Initialize handlers and middleware
	router := routes.NewRouter(
		handlers.NewInsightsHandler(insightsService),
		handlers.NewPublicChatHandler(publicAssistant),
		handlers.NewHealthHandler(healthChecks),
		middleware.NewAuthenticator(verifier, profileAdapter, cfg.Auth.AllowedRoles),
		rateLimiter,
		cfg.CORS.AllowedOrigins,
		metrics,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// LLM calls dominate response time.
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("server failed")
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	log.Info().Msg("server stopped")
}
