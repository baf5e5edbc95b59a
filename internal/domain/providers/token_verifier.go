package providers

import "context"

// TokenClaims are the identity facts extracted from a verified bearer token.
type TokenClaims struct {
	Subject string
	Email   string
	Role    string
}

// TokenVerifier validates bearer tokens issued by the identity provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*TokenClaims, error)
}
