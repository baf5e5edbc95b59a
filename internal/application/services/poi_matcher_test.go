package services_test

import (
	"math"
	"testing"

	"github.com/civicpulse/backend/internal/application/services"
	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// northOf returns the latitude reached by walking meters due north.
func northOf(lat, meters float64) float64 {
	return lat + meters/(6371000.0*math.Pi/180)
}

func TestDetectCategories(t *testing.T) {
	assert.Equal(t, []string{entities.CategoryPharmacie}, services.DetectCategories("Je cherche une pharmacie"))
	assert.Equal(t,
		[]string{entities.CategoryHopital, entities.CategoryPharmacie},
		services.DetectCategories("Où acheter un MÉDICAMENT près de l'hôpital ?"),
	)
	assert.Empty(t, services.DetectCategories("bonjour"))
}

func TestTokenize(t *testing.T) {
	tokens := services.Tokenize("Où trouver l'Hôpital, près du marché ?!")
	assert.Equal(t, []string{"trouver", "hôpital", "près", "marché"}, tokens)

	assert.Empty(t, services.Tokenize("a b c !!"))
}

func TestScorePOI_CategoryAndNameMatch(t *testing.T) {
	poi := &entities.PointOfInterest{
		ID:       "p1",
		Name:     "Pharmacie Centrale",
		Category: entities.CategoryPharmacie,
	}
	message := "Je cherche une pharmacie"

	score, distance := services.ScorePOI(poi, services.Tokenize(message), services.DetectCategories(message), nil)

	assert.GreaterOrEqual(t, score, 17)
	assert.Nil(t, distance)
}

func TestScorePOI_DistanceBonus(t *testing.T) {
	origin := &services.GeoPoint{Latitude: 9.5, Longitude: -13.7}

	tests := []struct {
		meters float64
		bonus  int
	}{
		{300, 8},
		{800, 5},
		// bands are strict: under 1000 m earns 5, under 2500 m earns 3
		{1500, 3},
		{5000, 0},
	}
	for _, tt := range tests {
		poi := &entities.PointOfInterest{
			Name:      "Lieu",
			Latitude:  floatPtr(northOf(origin.Latitude, tt.meters)),
			Longitude: floatPtr(origin.Longitude),
		}
		score, distance := services.ScorePOI(poi, nil, nil, origin)

		require.NotNil(t, distance)
		assert.InDelta(t, tt.meters, *distance, 1)
		assert.Equal(t, tt.bonus, score, "distance %v", tt.meters)
	}
}

func TestScorePOI_NoDistanceWithoutCoordinates(t *testing.T) {
	origin := &services.GeoPoint{Latitude: 9.5, Longitude: -13.7}
	score, distance := services.ScorePOI(&entities.PointOfInterest{Name: "Lieu"}, nil, nil, origin)

	assert.Zero(t, score)
	assert.Nil(t, distance)
}

func TestDistanceBonus_Boundaries(t *testing.T) {
	assert.Equal(t, 8, services.DistanceBonus(0))
	assert.Equal(t, 5, services.DistanceBonus(400))
	assert.Equal(t, 3, services.DistanceBonus(1000))
	assert.Equal(t, 0, services.DistanceBonus(2500))
}

func TestHaversineMeters(t *testing.T) {
	assert.InDelta(t, 0, services.HaversineMeters(9.5, -13.7, 9.5, -13.7), 1e-9)
	// One degree of latitude on a 6371 km sphere.
	assert.InDelta(t, 111195, services.HaversineMeters(0, 0, 1, 0), 1)
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "0 m", services.FormatDistance(0))
	assert.Equal(t, "999 m", services.FormatDistance(999.4))
	assert.Equal(t, "1.0 km", services.FormatDistance(1000))
	assert.Equal(t, "2.5 km", services.FormatDistance(2460))
}

func TestMatchPOIs_RanksAndDropsUnscored(t *testing.T) {
	pois := []*entities.PointOfInterest{
		{ID: "market", Name: "Grand Marché", Category: entities.CategoryMarche},
		{ID: "ph1", Name: "Pharmacie du Port", Category: entities.CategoryPharmacie},
		{ID: "ph2", Name: "Officine Kaloum", Category: entities.CategoryPharmacie},
		nil,
	}

	suggestions := services.MatchPOIs(pois, "Je cherche une pharmacie", nil, 0)

	require.Len(t, suggestions, 2)
	assert.Equal(t, "ph1", suggestions[0].ID)
	assert.Equal(t, "ph2", suggestions[1].ID)
	assert.Nil(t, suggestions[0].DistanceMeters)
}

func TestMatchPOIs_EmptyQueryKeepsAllUpToLimit(t *testing.T) {
	var pois []*entities.PointOfInterest
	for i := 0; i < 12; i++ {
		pois = append(pois, &entities.PointOfInterest{ID: string(rune('a' + i)), Name: "Lieu"})
	}

	assert.Len(t, services.MatchPOIs(pois, "?!", nil, 0), services.DefaultSuggestionLimit)
	assert.Len(t, services.MatchPOIs(pois, "?!", nil, 50), services.MaxSuggestionLimit)
	assert.Len(t, services.MatchPOIs(pois, "?!", nil, -3), services.MinSuggestionLimit)
}

func TestMatchPOIs_FillsDistance(t *testing.T) {
	origin := &services.GeoPoint{Latitude: 9.5, Longitude: -13.7}
	pois := []*entities.PointOfInterest{
		{ID: "far", Name: "Pharmacie A", Category: entities.CategoryPharmacie,
			Latitude: floatPtr(northOf(9.5, 3000)), Longitude: floatPtr(-13.7)},
		{ID: "near", Name: "Pharmacie B", Category: entities.CategoryPharmacie,
			Latitude: floatPtr(northOf(9.5, 250)), Longitude: floatPtr(-13.7)},
	}

	suggestions := services.MatchPOIs(pois, "pharmacie", origin, 5)

	require.Len(t, suggestions, 2)
	assert.Equal(t, "near", suggestions[0].ID)
	require.NotNil(t, suggestions[0].DistanceMeters)
	assert.Equal(t, 250, *suggestions[0].DistanceMeters)
	assert.Equal(t, "250 m", *suggestions[0].DistanceText)
	assert.Equal(t, "3.0 km", *suggestions[1].DistanceText)
}
