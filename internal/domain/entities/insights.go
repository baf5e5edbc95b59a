package entities

import "time"

// ForecastResult is the week-over-week projection for one report population.
type ForecastResult struct {
	Last7    int `json:"last7"`
	Prev7    int `json:"prev7"`
	TrendPct int `json:"trendPct"`
	Next7    int `json:"next7"`
	Next30   int `json:"next30"`
}

// TypeForecast is a ForecastResult scoped to a single report type.
type TypeForecast struct {
	Type     string `json:"type"`
	Last7    int    `json:"last7"`
	Prev7    int    `json:"prev7"`
	Next7    int    `json:"next7"`
	TrendPct int    `json:"trendPct"`
}

// HotspotBucket is a ~111 m grid cell and the number of reports inside it.
type HotspotBucket struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Count int     `json:"count"`
}

// InsightsReport is the admin dashboard payload.
type InsightsReport struct {
	OK               bool            `json:"ok"`
	PeriodDays       int             `json:"periodDays"`
	Total            int             `json:"total"`
	ByStatus         map[string]int  `json:"byStatus"`
	ByType           map[string]int  `json:"byType"`
	ByService        map[string]int  `json:"byService"`
	Unassigned       int             `json:"unassigned"`
	Overdue          int             `json:"overdue"`
	HighPriority     int             `json:"highPriority"`
	POICount         int             `json:"poiCount"`
	Forecast         ForecastResult  `json:"forecast"`
	TopTypesForecast []TypeForecast  `json:"topTypesForecast"`
	Hotspots         []HotspotBucket `json:"hotspots"`
	DailyCounts      map[string]int  `json:"dailyCounts"`
	Recommendations  []string        `json:"recommendations"`
	Summary          string          `json:"summary"`
	LLMProvider      string          `json:"llmProvider"`
	GeneratedAt      time.Time       `json:"generatedAt"`
}
