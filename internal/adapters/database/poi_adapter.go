package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/domain/repositories"
	"github.com/civicpulse/backend/internal/infrastructure/clients/postgres"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
	apperrors "github.com/civicpulse/backend/pkg/errors"
	"github.com/doug-martin/goqu/v9"
)

var poiColumns = []interface{}{
	"id", "name", "category", "address", "phone", "description",
	"latitude", "longitude", "status", "source", "external_id",
}

// POIAdapter implements the POIRepository interface
type POIAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
	now     func() time.Time
}

// NewPOIAdapter creates a new POI adapter. metrics may be nil.
func NewPOIAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.POIRepository {
	return &POIAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
		now:     time.Now,
	}
}

// ListActive returns every published POI ordered by name
func (a *POIAdapter) ListActive(ctx context.Context) ([]*entities.PointOfInterest, error) {
	query, args, err := a.db.Select(poiColumns...).
		From("pois").
		Where(goqu.C("status").Eq(entities.POIStatusActive)).
		Order(goqu.C("name").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build pois query", err)
	}

	start := time.Now()
	defer func() { observability.RecordDBMetric(ctx, a.metrics, "pois.list_active", time.Since(start)) }()

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list points of interest", err)
	}
	defer rows.Close()

	pois := []*entities.PointOfInterest{}
	for rows.Next() {
		var (
			poi                                        entities.PointOfInterest
			address, phone, description, source, extID sql.NullString
			lat, lon                                   sql.NullFloat64
		)
		if err := rows.Scan(
			&poi.ID,
			&poi.Name,
			&poi.Category,
			&address,
			&phone,
			&description,
			&lat,
			&lon,
			&poi.Status,
			&source,
			&extID,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan point of interest", err)
		}
		poi.Address = address.String
		poi.Phone = phone.String
		poi.Description = description.String
		poi.Source = source.String
		poi.ExternalID = extID.String
		if lat.Valid {
			v := lat.Float64
			poi.Latitude = &v
		}
		if lon.Valid {
			v := lon.Float64
			poi.Longitude = &v
		}
		pois = append(pois, &poi)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating points of interest", err)
	}

	return pois, nil
}

// CountActive returns the number of published POIs
func (a *POIAdapter) CountActive(ctx context.Context) (int, error) {
	query, args, err := a.db.Select(goqu.COUNT("*")).
		From("pois").
		Where(goqu.C("status").Eq(entities.POIStatusActive)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build pois count query", err)
	}

	start := time.Now()
	defer func() { observability.RecordDBMetric(ctx, a.metrics, "pois.count_active", time.Since(start)) }()

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count points of interest", err)
	}
	return count, nil
}

// Upsert inserts or refreshes POIs keyed by (source, external_id). The status
// of an existing row is left untouched so manual deactivations survive imports.
func (a *POIAdapter) Upsert(ctx context.Context, pois []*entities.PointOfInterest) (int, error) {
	if len(pois) == 0 {
		return 0, nil
	}

	now := a.now().UTC()
	rows := make([]interface{}, 0, len(pois))
	for _, poi := range pois {
		rows = append(rows, goqu.Record{
			"id":          poi.ID,
			"name":        poi.Name,
			"category":    poi.Category,
			"address":     nullString(poi.Address),
			"phone":       nullString(poi.Phone),
			"description": nullString(poi.Description),
			"latitude":    nullFloat(poi.Latitude),
			"longitude":   nullFloat(poi.Longitude),
			"status":      poi.Status,
			"source":      poi.Source,
			"external_id": poi.ExternalID,
			"updated_at":  now,
		})
	}

	query, args, err := a.db.Insert("pois").
		Rows(rows...).
		OnConflict(goqu.DoUpdate("source, external_id", goqu.Record{
			"name":        goqu.L("EXCLUDED.name"),
			"category":    goqu.L("EXCLUDED.category"),
			"address":     goqu.L("EXCLUDED.address"),
			"phone":       goqu.L("EXCLUDED.phone"),
			"description": goqu.L("EXCLUDED.description"),
			"latitude":    goqu.L("EXCLUDED.latitude"),
			"longitude":   goqu.L("EXCLUDED.longitude"),
			"updated_at":  goqu.L("EXCLUDED.updated_at"),
		})).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build pois upsert query", err)
	}

	start := time.Now()
	defer func() { observability.RecordDBMetric(ctx, a.metrics, "pois.upsert", time.Since(start)) }()

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to upsert points of interest", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return len(pois), nil
	}
	return int(affected), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
