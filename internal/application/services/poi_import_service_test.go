package services_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/civicpulse/backend/internal/application/services"
	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/domain/providers"
	apperrors "github.com/civicpulse/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var conakry = providers.BoundingBox{South: 9.45, West: -13.75, North: 9.70, East: -13.55}

func osmPOI(id, name, category string) *entities.PointOfInterest {
	return &entities.PointOfInterest{
		Name:       name,
		Category:   category,
		Latitude:   floatPtr(9.5),
		Longitude:  floatPtr(-13.7),
		Source:     "osm",
		ExternalID: id,
	}
}

func TestPOIImportService_Import_UpsertsInBatches(t *testing.T) {
	source := new(MockPOISource)
	repo := new(MockPOIRepository)

	fetched := []*entities.PointOfInterest{
		osmPOI("node/1", "Pharmacie B", "pharmacie"),
		osmPOI("node/2", "Hôpital Donka", entities.CategoryHopital),
		osmPOI("node/1", "Pharmacie B", "pharmacie"),
		osmPOI("node/3", "", entities.CategoryBanque),
		osmPOI("node/4", "Kiosque", "kiosk"),
		{Name: "Sans coordonnées", Source: "osm", ExternalID: "node/5"},
		{Name: "NaN", Source: "osm", ExternalID: "node/6", Latitude: floatPtr(math.NaN()), Longitude: floatPtr(1)},
	}
	source.On("FetchPOIs", mock.Anything, conakry).Return(fetched, nil)
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("[]*entities.PointOfInterest")).Return(2, nil).Once()
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("[]*entities.PointOfInterest")).Return(1, nil).Once()

	svc := services.NewPOIImportService(source, repo, "", 2)
	summary, prepared, err := svc.Import(context.Background(), conakry, false)
	require.NoError(t, err)

	assert.Equal(t, 7, summary.Fetched)
	assert.Equal(t, 4, summary.Skipped)
	assert.Equal(t, 3, summary.Upserted)
	assert.Equal(t, map[string]int{
		entities.CategoryPharmacie: 1,
		entities.CategoryHopital:   1,
		entities.CategoryAutre:     1,
	}, summary.ByCategory)

	require.Len(t, prepared, 3)
	for _, poi := range prepared {
		assert.Equal(t, entities.POIStatusActive, poi.Status)
	}
	repo.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestPOIImportService_Import_DryRunWritesNothing(t *testing.T) {
	source := new(MockPOISource)
	repo := new(MockPOIRepository)
	source.On("FetchPOIs", mock.Anything, conakry).Return([]*entities.PointOfInterest{osmPOI("node/1", "Mairie", "MAIRIE")}, nil)

	svc := services.NewPOIImportService(source, repo, "inactif", 0)
	summary, prepared, err := svc.Import(context.Background(), conakry, true)
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	require.Len(t, prepared, 1)
	assert.Equal(t, entities.POIStatusInactive, prepared[0].Status)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestPOIImportService_Import_Errors(t *testing.T) {
	source := new(MockPOISource)
	repo := new(MockPOIRepository)
	svc := services.NewPOIImportService(source, repo, "", 0)

	_, _, err := svc.Import(context.Background(), providers.BoundingBox{South: 10, North: 9, West: 0, East: 1}, false)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	source.On("FetchPOIs", mock.Anything, conakry).Return(nil, errors.New("overpass busy"))
	_, _, err = svc.Import(context.Background(), conakry, false)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}
