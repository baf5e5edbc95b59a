package services

import (
	"fmt"

	"github.com/civicpulse/backend/internal/domain/entities"
)

const maxRecommendations = 5

// RecommendationInput is the aggregate bundle the rule table reads from.
type RecommendationInput struct {
	ByStatus     map[string]int
	ByType       map[string]int
	ByService    map[string]int
	Unassigned   int
	Overdue      int
	HighPriority int
	Forecast     entities.ForecastResult
	Hotspots     []entities.HotspotBucket
}

// recommendationRule fires when metric(in) reaches threshold. The message
// receives the metric value and, when present, the subject it refers to.
type recommendationRule struct {
	name      string
	threshold int
	metric    func(in RecommendationInput) (value int, subject string)
	message   func(value int, subject string) string
}

// recommendationRules is evaluated top to bottom; the order is the output order.
var recommendationRules = []recommendationRule{
	{
		name:      "triage_backlog",
		threshold: 1,
		metric: func(in RecommendationInput) (int, string) {
			return in.ByStatus[entities.ReportStatusNew] - in.ByStatus[entities.ReportStatusInProgress], ""
		},
		message: func(int, string) string {
			return "Les nouveaux signalements dépassent ceux en cours : renforcez la capacité de tri et de prise en charge."
		},
	},
	{
		name:      "unassigned",
		threshold: 5,
		metric: func(in RecommendationInput) (int, string) {
			return in.Unassigned, ""
		},
		message: func(v int, _ string) string {
			return fmt.Sprintf("%d signalements ne sont affectés à aucun service : accélérez l'affectation.", v)
		},
	},
	{
		name:      "overdue",
		threshold: 3,
		metric: func(in RecommendationInput) (int, string) {
			return in.Overdue, ""
		},
		message: func(v int, _ string) string {
			return fmt.Sprintf("%d signalements ont dépassé leur échéance : priorisez les dossiers en retard.", v)
		},
	},
	{
		name:      "high_priority",
		threshold: 3,
		metric: func(in RecommendationInput) (int, string) {
			return in.HighPriority, ""
		},
		message: func(v int, _ string) string {
			return fmt.Sprintf("%d signalements sont de priorité HAUTE : organisez une revue quotidienne de ces dossiers.", v)
		},
	},
	{
		name:      "rising_trend",
		threshold: 20,
		metric: func(in RecommendationInput) (int, string) {
			return in.Forecast.TrendPct, ""
		},
		message: func(v int, _ string) string {
			return fmt.Sprintf("Le volume hebdomadaire progresse de %d %% : prévoyez un renfort temporaire des équipes.", v)
		},
	},
	{
		name:      "top_type",
		threshold: 3,
		metric: func(in RecommendationInput) (int, string) {
			key, n := TopBucket(in.ByType)
			return n, key
		},
		message: func(v int, subject string) string {
			return fmt.Sprintf("Le type « %s » concentre %d signalements : lancez une campagne ciblée sur ce problème.", subject, v)
		},
	},
	{
		name:      "top_hotspot",
		threshold: 3,
		metric: func(in RecommendationInput) (int, string) {
			if len(in.Hotspots) == 0 {
				return 0, ""
			}
			h := in.Hotspots[0]
			return h.Count, fmt.Sprintf("%.3f, %.3f", h.Lat, h.Lon)
		},
		message: func(v int, subject string) string {
			return fmt.Sprintf("La zone (%s) regroupe %d signalements : planifiez une intervention préventive sur le terrain.", subject, v)
		},
	},
	{
		name:      "top_service",
		threshold: 4,
		metric: func(in RecommendationInput) (int, string) {
			key, n := TopBucket(in.ByService, UndefinedBucket)
			return n, key
		},
		message: func(v int, subject string) string {
			return fmt.Sprintf("Le service %s porte %d signalements : envisagez de le renforcer.", subject, v)
		},
	},
}

// stableRecommendation is emitted when no rule fires.
const stableRecommendation = "Situation stable : maintenez le rythme actuel de traitement et de suivi."

// BuildRecommendations evaluates the rule table in order and returns at most
// five messages. It always returns at least one.
func BuildRecommendations(in RecommendationInput) []string {
	out := make([]string, 0, maxRecommendations)
	for _, rule := range recommendationRules {
		value, subject := rule.metric(in)
		if value < rule.threshold {
			continue
		}
		out = append(out, rule.message(value, subject))
		if len(out) == maxRecommendations {
			break
		}
	}
	if len(out) == 0 {
		out = append(out, stableRecommendation)
	}
	return out
}
