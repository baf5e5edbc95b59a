package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/domain/repositories"
	"github.com/civicpulse/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/civicpulse/backend/pkg/errors"
	"github.com/doug-martin/goqu/v9"
)

// ProfileAdapter implements the ProfileRepository interface
type ProfileAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProfileAdapter creates a new profile adapter
func NewProfileAdapter(client *postgres.Client) repositories.ProfileRepository {
	return &ProfileAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a profile by user ID
func (a *ProfileAdapter) GetByID(ctx context.Context, id string) (*entities.Profile, error) {
	query, args, err := a.db.Select("id", "role", "is_active", "full_name").
		From("profiles").
		Where(goqu.C("id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build profile query", err)
	}

	var (
		profile  entities.Profile
		role     sql.NullString
		active   sql.NullBool
		fullName sql.NullString
	)
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&profile.ID, &role, &active, &fullName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("profile with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get profile", err)
	}

	profile.Role = role.String
	profile.IsActive = active.Bool
	profile.FullName = fullName.String
	return &profile, nil
}
