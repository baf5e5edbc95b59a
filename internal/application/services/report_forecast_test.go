package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/civicpulse/backend/internal/application/services"
	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var forecastNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func reportsAt(n int, typ string, ageDays float64) []*entities.Report {
	out := make([]*entities.Report, 0, n)
	at := forecastNow.Add(-time.Duration(ageDays * float64(24*time.Hour)))
	for i := 0; i < n; i++ {
		out = append(out, &entities.Report{ID: fmt.Sprintf("%s-%v-%d", typ, ageDays, i), Type: typ, CreatedAt: at})
	}
	return out
}

func TestComputeForecast(t *testing.T) {
	tests := []struct {
		name     string
		last7    int
		prev7    int
		expected entities.ForecastResult
	}{
		{
			name:     "growth",
			last7:    12,
			prev7:    10,
			expected: entities.ForecastResult{Last7: 12, Prev7: 10, TrendPct: 20, Next7: 14, Next30: 60},
		},
		{
			// trend is 1 when last7 > 0 and prev7 == 0, so next7 is twice last7
			name:     "no previous week doubles",
			last7:    10,
			prev7:    0,
			expected: entities.ForecastResult{Last7: 10, Prev7: 0, TrendPct: 100, Next7: 20, Next30: 86},
		},
		{
			name:     "steep growth is clamped",
			last7:    30,
			prev7:    5,
			expected: entities.ForecastResult{Last7: 30, Prev7: 5, TrendPct: 150, Next7: 75, Next30: 321},
		},
		{
			name:     "steep decline is clamped",
			last7:    1,
			prev7:    10,
			expected: entities.ForecastResult{Last7: 1, Prev7: 10, TrendPct: -50, Next7: 1, Next30: 4},
		},
		{
			name:     "empty",
			expected: entities.ForecastResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reports []*entities.Report
			reports = append(reports, reportsAt(tt.last7, "VOIRIE", 2)...)
			reports = append(reports, reportsAt(tt.prev7, "VOIRIE", 10)...)

			assert.Equal(t, tt.expected, services.ComputeForecast(reports, forecastNow))
		})
	}
}

func TestComputeForecast_IgnoresOlderAndUndatedReports(t *testing.T) {
	reports := reportsAt(4, "VOIRIE", 20)
	reports = append(reports, &entities.Report{Type: "VOIRIE"})

	f := services.ComputeForecast(reports, forecastNow)
	assert.Zero(t, f.Last7)
	assert.Zero(t, f.Prev7)
	assert.Zero(t, f.Next30)
}

func TestComputeTypeForecasts_SortedAndTruncated(t *testing.T) {
	var reports []*entities.Report
	for i := 0; i < 10; i++ {
		reports = append(reports, reportsAt(i+1, fmt.Sprintf("type%02d", i), 1)...)
	}

	forecasts := services.ComputeTypeForecasts(reports, forecastNow)

	require.Len(t, forecasts, 8)
	assert.Equal(t, "TYPE09", forecasts[0].Type)
	for i := 1; i < len(forecasts); i++ {
		assert.GreaterOrEqual(t, forecasts[i-1].Next7, forecasts[i].Next7)
	}
}

func TestComputeTypeForecasts_StableOnTies(t *testing.T) {
	var reports []*entities.Report
	reports = append(reports, reportsAt(2, "eau", 1)...)
	reports = append(reports, reportsAt(2, "voirie", 1)...)
	reports = append(reports, reportsAt(2, "dechets", 1)...)

	forecasts := services.ComputeTypeForecasts(reports, forecastNow)

	require.Len(t, forecasts, 3)
	assert.Equal(t, []string{"EAU", "VOIRIE", "DECHETS"}, []string{forecasts[0].Type, forecasts[1].Type, forecasts[2].Type})
}
