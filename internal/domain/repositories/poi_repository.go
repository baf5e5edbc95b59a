package repositories

import (
	"context"

	"github.com/civicpulse/backend/internal/domain/entities"
)

// POIRepository defines access to points of interest
type POIRepository interface {
	// ListActive returns every published POI
	ListActive(ctx context.Context) ([]*entities.PointOfInterest, error)

	// CountActive returns the number of published POIs
	CountActive(ctx context.Context) (int, error)

	// Upsert inserts or refreshes POIs keyed by (source, external_id)
	Upsert(ctx context.Context, pois []*entities.PointOfInterest) (int, error)
}
