package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/civicpulse/backend/internal/adapters/cache"
	"github.com/civicpulse/backend/internal/api/handlers"
	"github.com/civicpulse/backend/internal/api/middleware"
	"github.com/civicpulse/backend/internal/api/routes"
	"github.com/civicpulse/backend/internal/application/services"
	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/domain/providers"
)

type fakeInsights struct{ calls int }

func (f *fakeInsights) Generate(ctx context.Context, periodDays int) (*entities.InsightsReport, error) {
	f.calls++
	return &entities.InsightsReport{OK: true, PeriodDays: periodDays}, nil
}

type fakeAssistant struct{}

func (fakeAssistant) Answer(ctx context.Context, query services.PublicQuery) (*entities.PublicAnswer, error) {
	return &entities.PublicAnswer{OK: true}, nil
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(ctx context.Context, token string) (*providers.TokenClaims, error) {
	return &providers.TokenClaims{Subject: token}, nil
}

type fakeProfiles struct{}

func (fakeProfiles) GetByID(ctx context.Context, id string) (*entities.Profile, error) {
	return &entities.Profile{ID: id, Role: id, IsActive: true}, nil
}

func newTestRouter(insights *fakeInsights, limit int) http.Handler {
	router := routes.NewRouter(
		handlers.NewInsightsHandler(insights),
		handlers.NewPublicChatHandler(fakeAssistant{}),
		handlers.NewHealthHandler(nil),
		middleware.NewAuthenticator(fakeVerifier{}, fakeProfiles{}, []string{"admin", "agent"}),
		middleware.NewRateLimiter(nil, cache.NewMemoryAdapter(100, time.Minute), limit, time.Minute, "salt", nil),
		[]string{"*"},
		nil,
	)
	return router.SetupRoutes()
}

func TestRouter_InsightsRequiresAuth(t *testing.T) {
	insights := &fakeInsights{}
	handler := newTestRouter(insights, 5)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/ai-admin-insights", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodPost, "/api/ai-admin-insights", nil)
	req.Header.Set("Authorization", "Bearer citizen")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/ai-admin-insights", strings.NewReader(`{"periodDays":14}`))
	req.Header.Set("Authorization", "Bearer agent")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, insights.calls)
}

func TestRouter_PublicChatRateLimited(t *testing.T) {
	handler := newTestRouter(&fakeInsights{}, 1)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/ai-public-chat", strings.NewReader(`{"message":"pharmacie"}`))
		req.RemoteAddr = "10.1.1.1:999"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestRouter_WrongMethodIsJSON(t *testing.T) {
	handler := newTestRouter(&fakeInsights{}, 5)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ai-public-chat", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	// Checked before authentication.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/ai-admin-insights", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_Health(t *testing.T) {
	handler := newTestRouter(&fakeInsights{}, 5)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
