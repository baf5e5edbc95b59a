package services_test

import (
	"math"
	"testing"

	"github.com/civicpulse/backend/internal/application/services"
	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func located(lat, lon float64) *entities.Report {
	return &entities.Report{Latitude: floatPtr(lat), Longitude: floatPtr(lon)}
}

func TestDetectHotspots_MergesNearbyPoints(t *testing.T) {
	reports := []*entities.Report{
		located(9.5321, -13.6881),
		located(9.5324, -13.6884),
		located(9.6000, -13.6000),
	}

	hotspots := services.DetectHotspots(reports)

	require.Len(t, hotspots, 2)
	assert.Equal(t, entities.HotspotBucket{Lat: 9.532, Lon: -13.688, Count: 2}, hotspots[0])
	assert.Equal(t, 1, hotspots[1].Count)
}

func TestDetectHotspots_SeparatesCellsAcrossRoundingBoundary(t *testing.T) {
	hotspots := services.DetectHotspots([]*entities.Report{
		located(9.5321, -13.6886),
		located(9.5324, -13.6883),
	})

	assert.Len(t, hotspots, 2)
}

func TestDetectHotspots_SkipsMissingAndNonFinite(t *testing.T) {
	reports := []*entities.Report{
		{},
		{Latitude: floatPtr(9.5)},
		located(math.NaN(), -13.6),
		located(9.5, math.Inf(1)),
	}

	assert.Empty(t, services.DetectHotspots(reports))
}

func TestDetectHotspots_TopSixFirstSeenOnTies(t *testing.T) {
	var reports []*entities.Report
	for i := 0; i < 8; i++ {
		reports = append(reports, located(9.0+float64(i)*0.01, -13.0))
	}
	reports = append(reports, located(9.07, -13.0), located(9.07, -13.0))

	hotspots := services.DetectHotspots(reports)

	require.Len(t, hotspots, 6)
	assert.Equal(t, 3, hotspots[0].Count)
	assert.InDelta(t, 9.07, hotspots[0].Lat, 1e-9)
	assert.InDelta(t, 9.0, hotspots[1].Lat, 1e-9)
	assert.InDelta(t, 9.01, hotspots[2].Lat, 1e-9)
}
