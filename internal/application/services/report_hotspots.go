package services

import (
	"math"
	"sort"
	"strconv"

	"github.com/civicpulse/backend/internal/domain/entities"
)

const maxHotspots = 6

// DetectHotspots groups geolocated reports into cells of 3 decimal degrees
// and returns the 6 busiest cells. Equal counts keep first-seen order.
func DetectHotspots(reports []*entities.Report) []entities.HotspotBucket {
	var order []string
	cells := make(map[string]*entities.HotspotBucket)

	for _, r := range reports {
		if r == nil || r.Latitude == nil || r.Longitude == nil {
			continue
		}
		lat, lon := *r.Latitude, *r.Longitude
		if !isFinite(lat) || !isFinite(lon) {
			continue
		}

		latKey := strconv.FormatFloat(lat, 'f', 3, 64)
		lonKey := strconv.FormatFloat(lon, 'f', 3, 64)
		key := latKey + "," + lonKey

		cell, ok := cells[key]
		if !ok {
			cellLat, _ := strconv.ParseFloat(latKey, 64)
			cellLon, _ := strconv.ParseFloat(lonKey, 64)
			cell = &entities.HotspotBucket{Lat: cellLat, Lon: cellLon}
			cells[key] = cell
			order = append(order, key)
		}
		cell.Count++
	}

	out := make([]entities.HotspotBucket, 0, len(order))
	for _, key := range order {
		out = append(out, *cells[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > maxHotspots {
		out = out[:maxHotspots]
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
