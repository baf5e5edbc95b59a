package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/civicpulse/backend/internal/domain/repositories"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
	apperrors "github.com/civicpulse/backend/pkg/errors"
)

const defaultImportBatchSize = 200

type POIImportSummary struct {
	Fetched    int            `json:"fetched"`
	Skipped    int            `json:"skipped"`
	Upserted   int            `json:"upserted"`
	ByCategory map[string]int `json:"by_category"`
	DryRun     bool           `json:"dry_run"`
}

// POIImportService copies map-dataset POIs into the directory table.
type POIImportService struct {
	source        providers.POISource
	repo          repositories.POIRepository
	defaultStatus string
	batchSize     int
}

func NewPOIImportService(
	source providers.POISource,
	repo repositories.POIRepository,
	defaultStatus string,
	batchSize int,
) *POIImportService {
	if batchSize <= 0 {
		batchSize = defaultImportBatchSize
	}
	if strings.TrimSpace(defaultStatus) == "" {
		defaultStatus = entities.POIStatusActive
	}
	return &POIImportService{
		source:        source,
		repo:          repo,
		defaultStatus: strings.ToUpper(defaultStatus),
		batchSize:     batchSize,
	}
}

// Import fetches POIs inside bbox and upserts them in batches. With dryRun
// nothing is written and the prepared rows are returned for inspection.
func (s *POIImportService) Import(ctx context.Context, bbox providers.BoundingBox, dryRun bool) (*POIImportSummary, []*entities.PointOfInterest, error) {
	if s.source == nil {
		return nil, nil, fmt.Errorf("poi source not configured")
	}
	if bbox.South >= bbox.North || bbox.West >= bbox.East {
		return nil, nil, apperrors.NewValidationError("bounding box must be south,west,north,east with south<north and west<east")
	}

	logger := observability.LoggerFromContext(ctx)

	fetched, err := s.source.FetchPOIs(ctx, bbox)
	if err != nil {
		return nil, nil, apperrors.NewExternalError("failed to fetch points of interest", err)
	}

	summary := &POIImportSummary{
		Fetched:    len(fetched),
		ByCategory: map[string]int{},
		DryRun:     dryRun,
	}

	seen := make(map[string]struct{}, len(fetched))
	prepared := make([]*entities.PointOfInterest, 0, len(fetched))
	for _, poi := range fetched {
		if !importable(poi) {
			summary.Skipped++
			continue
		}
		key := poi.Source + "/" + poi.ExternalID
		if _, dup := seen[key]; dup {
			summary.Skipped++
			continue
		}
		seen[key] = struct{}{}

		poi.Category = bucketCategory(poi.Category)
		if poi.Status == "" {
			poi.Status = s.defaultStatus
		}
		summary.ByCategory[poi.Category]++
		prepared = append(prepared, poi)
	}

	sort.SliceStable(prepared, func(i, j int) bool {
		return prepared[i].Name < prepared[j].Name
	})

	if dryRun {
		logger.Info().Int("prepared", len(prepared)).Int("skipped", summary.Skipped).Msg("poi import dry run")
		return summary, prepared, nil
	}
	if s.repo == nil {
		return summary, nil, fmt.Errorf("poi repository not configured")
	}

	for start := 0; start < len(prepared); start += s.batchSize {
		end := start + s.batchSize
		if end > len(prepared) {
			end = len(prepared)
		}
		n, err := s.repo.Upsert(ctx, prepared[start:end])
		if err != nil {
			return summary, nil, apperrors.NewInternalError("failed to upsert points of interest", err)
		}
		summary.Upserted += n
		logger.Debug().Int("batch_start", start).Int("batch_size", end-start).Msg("poi batch upserted")
	}

	logger.Info().
		Int("fetched", summary.Fetched).
		Int("upserted", summary.Upserted).
		Int("skipped", summary.Skipped).
		Msg("poi import completed")
	return summary, prepared, nil
}

func importable(poi *entities.PointOfInterest) bool {
	if poi == nil || strings.TrimSpace(poi.Name) == "" || poi.ExternalID == "" {
		return false
	}
	if poi.Latitude == nil || poi.Longitude == nil {
		return false
	}
	return isFinite(*poi.Latitude) && isFinite(*poi.Longitude)
}

func bucketCategory(category string) string {
	c := strings.ToUpper(strings.TrimSpace(category))
	if _, ok := categoryHints[c]; ok {
		return c
	}
	return entities.CategoryAutre
}
