package services_test

import (
	"testing"

	"github.com/civicpulse/backend/internal/application/services"
	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRecommendations_StableFallback(t *testing.T) {
	recs := services.BuildRecommendations(services.RecommendationInput{
		ByStatus: map[string]int{entities.ReportStatusNew: 1, entities.ReportStatusInProgress: 2},
	})

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "Situation stable")
}

func TestBuildRecommendations_OrderFollowsRuleTable(t *testing.T) {
	recs := services.BuildRecommendations(services.RecommendationInput{
		ByStatus:   map[string]int{entities.ReportStatusNew: 4, entities.ReportStatusInProgress: 1},
		Unassigned: 6,
		Forecast:   entities.ForecastResult{TrendPct: 25},
	})

	require.Len(t, recs, 3)
	assert.Contains(t, recs[0], "nouveaux signalements")
	assert.Contains(t, recs[1], "6 signalements ne sont affectés")
	assert.Contains(t, recs[2], "25 %")
}

func TestBuildRecommendations_TruncatedToFive(t *testing.T) {
	recs := services.BuildRecommendations(services.RecommendationInput{
		ByStatus:     map[string]int{entities.ReportStatusNew: 10},
		ByType:       map[string]int{"VOIRIE": 5},
		ByService:    map[string]int{"TRAVAUX": 6},
		Unassigned:   10,
		Overdue:      4,
		HighPriority: 4,
		Forecast:     entities.ForecastResult{TrendPct: 50},
		Hotspots:     []entities.HotspotBucket{{Lat: 9.5, Lon: -13.7, Count: 4}},
	})

	require.Len(t, recs, 5)
	assert.Contains(t, recs[4], "50 %")
}

func TestBuildRecommendations_TopServiceIgnoresUndefined(t *testing.T) {
	recs := services.BuildRecommendations(services.RecommendationInput{
		ByService: map[string]int{services.UndefinedBucket: 10, "TRAVAUX": 2},
	})

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "Situation stable")

	recs = services.BuildRecommendations(services.RecommendationInput{
		ByService: map[string]int{services.UndefinedBucket: 10, "TRAVAUX": 4},
	})
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "TRAVAUX")
}
