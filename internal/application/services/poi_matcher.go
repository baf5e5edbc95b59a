package services

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/civicpulse/backend/internal/domain/entities"
)

// Suggestion limits
const (
	MinSuggestionLimit     = 1
	MaxSuggestionLimit     = 8
	DefaultSuggestionLimit = 5

	minTokenRunes = 3
	earthRadiusM  = 6371000.0
)

// Per-token and per-POI score weights
const (
	scoreNameMatch     = 5
	scoreCategoryMatch = 4
	scoreAnyFieldMatch = 2
	scoreCategoryHint  = 8
)

// distanceBonuses is ordered from closest to farthest; the first band whose
// limit exceeds the distance applies.
var distanceBonuses = []struct {
	maxMeters float64
	bonus     int
}{
	{400, 8},
	{1000, 5},
	{2500, 3},
}

var nonTokenChars = regexp.MustCompile(`[^a-z0-9\x{00C0}-\x{024F}\s]+`)

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// ClampSuggestionLimit bounds the requested suggestion count to [1, 8]; 0 means the default.
func ClampSuggestionLimit(limit int) int {
	if limit == 0 {
		return DefaultSuggestionLimit
	}
	if limit < MinSuggestionLimit {
		return MinSuggestionLimit
	}
	if limit > MaxSuggestionLimit {
		return MaxSuggestionLimit
	}
	return limit
}

// DetectCategories returns every category whose hint phrases appear in the
// message, in sorted order.
func DetectCategories(message string) []string {
	text := strings.ToLower(message)
	var found []string
	for category, hints := range categoryHints {
		for _, hint := range hints {
			if strings.Contains(text, hint) {
				found = append(found, category)
				break
			}
		}
	}
	sort.Strings(found)
	return found
}

// Tokenize lowercases the message, strips punctuation while keeping accented
// Latin letters, and drops tokens shorter than three characters.
func Tokenize(message string) []string {
	cleaned := nonTokenChars.ReplaceAllString(strings.ToLower(message), " ")
	var tokens []string
	for _, field := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(field) >= minTokenRunes {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// ScorePOI rates a POI against the question tokens, the detected categories
// and, when known, the caller location. The second result is the distance in
// meters, or nil when it cannot be computed.
func ScorePOI(poi *entities.PointOfInterest, tokens []string, categories []string, origin *GeoPoint) (int, *float64) {
	name := strings.ToLower(poi.Name)
	category := strings.ToLower(poi.Category)
	haystack := strings.Join([]string{
		name,
		category,
		strings.ToLower(poi.Address),
		strings.ToLower(poi.Description),
	}, " ")

	score := 0
	for _, token := range tokens {
		if strings.Contains(name, token) {
			score += scoreNameMatch
		}
		if strings.Contains(category, token) {
			score += scoreCategoryMatch
		}
		if strings.Contains(haystack, token) {
			score += scoreAnyFieldMatch
		}
	}

	poiCategory := strings.ToUpper(strings.TrimSpace(poi.Category))
	for _, c := range categories {
		if c == poiCategory {
			score += scoreCategoryHint
			break
		}
	}

	if origin == nil || poi.Latitude == nil || poi.Longitude == nil {
		return score, nil
	}
	d := HaversineMeters(origin.Latitude, origin.Longitude, *poi.Latitude, *poi.Longitude)
	if !isFinite(d) {
		return score, nil
	}
	return score + DistanceBonus(d), &d
}

// DistanceBonus returns the proximity score for a distance in meters.
func DistanceBonus(meters float64) int {
	for _, band := range distanceBonuses {
		if meters < band.maxMeters {
			return band.bonus
		}
	}
	return 0
}

// MatchPOIs scores every POI, orders them by score (ties keep input order),
// drops unscored POIs when the question had usable tokens and keeps at most
// limit suggestions.
func MatchPOIs(pois []*entities.PointOfInterest, message string, origin *GeoPoint, limit int) []entities.Suggestion {
	limit = ClampSuggestionLimit(limit)
	tokens := Tokenize(message)
	categories := DetectCategories(message)

	scored := make([]entities.Suggestion, 0, len(pois))
	for _, poi := range pois {
		if poi == nil {
			continue
		}
		score, distance := ScorePOI(poi, tokens, categories, origin)
		if len(tokens) > 0 && score == 0 {
			continue
		}
		scored = append(scored, newSuggestion(poi, score, distance))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

func newSuggestion(poi *entities.PointOfInterest, score int, distance *float64) entities.Suggestion {
	s := entities.Suggestion{
		ID:        poi.ID,
		Name:      poi.Name,
		Category:  poi.Category,
		Address:   poi.Address,
		Phone:     poi.Phone,
		Latitude:  poi.Latitude,
		Longitude: poi.Longitude,
		Score:     score,
	}
	if distance != nil {
		meters := int(math.Round(*distance))
		text := FormatDistance(*distance)
		s.DistanceMeters = &meters
		s.DistanceText = &text
	}
	return s
}

// HaversineMeters returns the great-circle distance between two points.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// FormatDistance renders meters below 1 km and kilometers with one decimal above.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}
