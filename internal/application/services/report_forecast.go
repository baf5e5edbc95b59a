package services

import (
	"math"
	"sort"
	"time"

	"github.com/civicpulse/backend/internal/domain/entities"
)

const (
	forecastWindow   = 7 * 24 * time.Hour
	trendFloor       = -0.5
	trendCeiling     = 1.5
	maxTypeForecasts = 8
)

// ComputeForecast projects the next 7 and 30 days from the last two weeks.
// The trend ratio is clamped to [-0.5, 1.5] and projections never go below 0.
func ComputeForecast(reports []*entities.Report, now time.Time) entities.ForecastResult {
	last7 := CountWindow(reports, now.Add(-forecastWindow), now)
	prev7 := CountWindow(reports, now.Add(-2*forecastWindow), now.Add(-forecastWindow))
	return projectForecast(last7, prev7)
}

// ComputeTypeForecasts runs ComputeForecast per uppercased report type and
// keeps the 8 types with the highest next7, highest first.
func ComputeTypeForecasts(reports []*entities.Report, now time.Time) []entities.TypeForecast {
	var order []string
	groups := make(map[string][]*entities.Report)
	for _, r := range reports {
		if r == nil {
			continue
		}
		key := bucketKey(r.Type)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	out := make([]entities.TypeForecast, 0, len(order))
	for _, t := range order {
		f := ComputeForecast(groups[t], now)
		out = append(out, entities.TypeForecast{
			Type:     t,
			Last7:    f.Last7,
			Prev7:    f.Prev7,
			Next7:    f.Next7,
			TrendPct: f.TrendPct,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Next7 > out[j].Next7
	})
	if len(out) > maxTypeForecasts {
		out = out[:maxTypeForecasts]
	}
	return out
}

func projectForecast(last7, prev7 int) entities.ForecastResult {
	trend := trendRatio(last7, prev7)
	next7 := int(math.Round(math.Max(0, float64(last7)*(1+trend))))
	next30 := int(math.Round(math.Max(0, float64(next7)/7*30)))

	return entities.ForecastResult{
		Last7:    last7,
		Prev7:    prev7,
		TrendPct: int(math.Round(trend * 100)),
		Next7:    next7,
		Next30:   next30,
	}
}

func trendRatio(last7, prev7 int) float64 {
	var trend float64
	switch {
	case prev7 > 0:
		trend = float64(last7-prev7) / float64(prev7)
	case last7 > 0:
		trend = 1
	default:
		trend = 0
	}
	return math.Min(trendCeiling, math.Max(trendFloor, trend))
}
