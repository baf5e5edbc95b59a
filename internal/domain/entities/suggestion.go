package entities

// Suggestion is a POI ranked against a citizen question.
type Suggestion struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Address        string   `json:"address"`
	Phone          string   `json:"phone"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	DistanceMeters *int     `json:"distanceMeters"`
	DistanceText   *string  `json:"distanceText"`
	Score          int      `json:"-"`
}

// ReportSummary is the trailing activity counter returned to citizens.
type ReportSummary struct {
	Total  int            `json:"total"`
	ByType map[string]int `json:"byType"`
}

// PublicAnswer is the citizen assistant payload.
type PublicAnswer struct {
	OK            bool          `json:"ok"`
	Answer        string        `json:"answer"`
	Suggestions   []Suggestion  `json:"suggestions"`
	ReportSummary ReportSummary `json:"reportSummary"`
	UsedOpenAI    bool          `json:"usedOpenAI"`
}
