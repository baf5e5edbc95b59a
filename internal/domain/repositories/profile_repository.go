package repositories

import (
	"context"

	"github.com/civicpulse/backend/internal/domain/entities"
)

// ProfileRepository defines read access to user profiles
type ProfileRepository interface {
	// GetByID retrieves a profile by user ID
	GetByID(ctx context.Context, id string) (*entities.Profile, error)
}
