package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/dgrijalva/jwt-go"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// sessionClaims matches the access tokens issued by the identity provider.
type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// JWTVerifier validates HS256 access tokens signed with a shared secret.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for the given signing secret.
func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

// Verify implements providers.TokenVerifier.
func (v *JWTVerifier) Verify(_ context.Context, token string) (*providers.TokenClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	// StandardClaims.Valid skips exp when it is absent.
	if claims.ExpiresAt == 0 {
		return nil, fmt.Errorf("%w: missing exp claim", ErrInvalidToken)
	}

	return &providers.TokenClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}

var _ providers.TokenVerifier = (*JWTVerifier)(nil)
