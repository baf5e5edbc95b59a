package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/civicpulse/backend/internal/domain/repositories"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
	apperrors "github.com/civicpulse/backend/pkg/errors"
)

type profileKey struct{}

// ProfileFromContext returns the profile attached by Authenticator.
func ProfileFromContext(ctx context.Context) (*entities.Profile, bool) {
	p, ok := ctx.Value(profileKey{}).(*entities.Profile)
	return p, ok && p != nil
}

// Authenticator resolves bearer tokens to active profiles with an allowed role.
type Authenticator struct {
	verifier providers.TokenVerifier
	profiles repositories.ProfileRepository
	allowed  map[string]struct{}
}

// NewAuthenticator creates an authenticator accepting the given roles.
func NewAuthenticator(verifier providers.TokenVerifier, profiles repositories.ProfileRepository, allowedRoles []string) *Authenticator {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return &Authenticator{verifier: verifier, profiles: profiles, allowed: allowed}
}

// Require rejects requests without a valid token for an allowed, active profile.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := observability.LoggerFromContext(ctx)

		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Missing bearer token", "")
			return
		}

		claims, err := a.verifier.Verify(ctx, token)
		if err != nil {
			log.Debug().Err(err).Msg("bearer token rejected")
			writeError(w, http.StatusUnauthorized, "Invalid token", "")
			return
		}

		profile, err := a.profiles.GetByID(ctx, claims.Subject)
		if err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
				writeError(w, http.StatusForbidden, "Forbidden", "profile not found")
				return
			}
			log.Error().Err(err).Str("user_id", claims.Subject).Msg("profile lookup failed")
			writeError(w, http.StatusInternalServerError, "Failed to load profile", err.Error())
			return
		}
		if !profile.IsActive {
			writeError(w, http.StatusForbidden, "Forbidden", "profile is inactive")
			return
		}
		if _, ok := a.allowed[strings.ToLower(profile.Role)]; !ok {
			writeError(w, http.StatusForbidden, "Forbidden", "role not allowed")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, profileKey{}, profile)))
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
