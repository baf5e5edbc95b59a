package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/civicpulse/backend/internal/domain/repositories"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
	apperrors "github.com/civicpulse/backend/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Insights period bounds, in days
const (
	MinPeriodDays     = 7
	MaxPeriodDays     = 180
	DefaultPeriodDays = 30

	// The forecast always needs two full weeks of history.
	forecastLookbackDays = 14

	maxInsightsSummaryRunes = 2000

	// LLMProviderRules marks a summary built without an external model.
	LLMProviderRules = "rules"
)

const insightsInstruction = `Tu es l'assistant d'analyse d'une mairie. Rédige en français un résumé exécutif de 4 à 6 phrases pour les agents municipaux à partir des données JSON fournies.
Utilise uniquement les chiffres présents dans les données, n'en invente aucun et n'extrapole pas au-delà des prévisions fournies.
Mentionne le volume, la tendance, les zones sensibles et les actions prioritaires. Pas de listes, pas de Markdown.`

// InsightsService builds the admin dashboard report from live report rows.
type InsightsService struct {
	reports  repositories.ReportRepository
	pois     repositories.POIRepository
	narrator providers.NarrativeGenerator
	now      func() time.Time
}

// NewInsightsService creates a new insights service.
func NewInsightsService(
	reports repositories.ReportRepository,
	pois repositories.POIRepository,
	narrator providers.NarrativeGenerator,
) *InsightsService {
	return &InsightsService{
		reports:  reports,
		pois:     pois,
		narrator: narrator,
		now:      time.Now,
	}
}

// SetClock replaces the wall clock, mainly for tests.
func (s *InsightsService) SetClock(now func() time.Time) {
	s.now = now
}

// ClampPeriodDays bounds a requested period to [7, 180]; 0 means the default.
func ClampPeriodDays(days int) int {
	if days == 0 {
		return DefaultPeriodDays
	}
	if days < MinPeriodDays {
		return MinPeriodDays
	}
	if days > MaxPeriodDays {
		return MaxPeriodDays
	}
	return days
}

// Generate computes the insights report for the trailing periodDays.
func (s *InsightsService) Generate(ctx context.Context, periodDays int) (*entities.InsightsReport, error) {
	ctx, span := observability.StartSpan(ctx, "InsightsService.Generate")
	defer span.End()

	periodDays = ClampPeriodDays(periodDays)
	now := s.now().UTC()
	lookback := periodDays
	if lookback < forecastLookbackDays {
		lookback = forecastLookbackDays
	}

	var (
		reports  []*entities.Report
		poiCount int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.reports.ListCreatedSince(gctx, now.AddDate(0, 0, -lookback))
		if err != nil {
			return err
		}
		reports = rows
		return nil
	})
	g.Go(func() error {
		n, err := s.pois.CountActive(gctx)
		if err != nil {
			return err
		}
		poiCount = n
		return nil
	})
	if err := g.Wait(); err != nil {
		observability.RecordError(span, err)
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.NewInternalError("failed to load insights data", err)
	}

	inPeriod := filterCreatedSince(reports, now.AddDate(0, 0, -periodDays))

	report := &entities.InsightsReport{
		OK:               true,
		PeriodDays:       periodDays,
		Total:            len(inPeriod),
		ByStatus:         CountBy(inPeriod, ByReportStatus),
		ByType:           CountBy(inPeriod, ByReportType),
		ByService:        CountBy(inPeriod, ByReportService),
		POICount:         poiCount,
		Forecast:         ComputeForecast(reports, now),
		TopTypesForecast: ComputeTypeForecasts(reports, now),
		Hotspots:         DetectHotspots(inPeriod),
		DailyCounts:      DailyCounts(inPeriod),
		GeneratedAt:      now,
	}
	for _, r := range inPeriod {
		if !r.IsAssigned() {
			report.Unassigned++
		}
		if r.IsOverdue(now) {
			report.Overdue++
		}
		if r.EffectivePriority() == entities.PriorityHigh {
			report.HighPriority++
		}
	}

	report.Recommendations = BuildRecommendations(RecommendationInput{
		ByStatus:     report.ByStatus,
		ByType:       report.ByType,
		ByService:    report.ByService,
		Unassigned:   report.Unassigned,
		Overdue:      report.Overdue,
		HighPriority: report.HighPriority,
		Forecast:     report.Forecast,
		Hotspots:     report.Hotspots,
	})

	report.Summary, report.LLMProvider = s.summarize(ctx, report)

	span.SetAttributes(
		attribute.Int("insights.period_days", periodDays),
		attribute.Int("insights.total", report.Total),
		attribute.String("insights.llm_provider", report.LLMProvider),
	)
	return report, nil
}

func (s *InsightsService) summarize(ctx context.Context, report *entities.InsightsReport) (string, string) {
	text, ok := s.narrator.Summarize(ctx, providers.NarrativeInput{
		Instruction: insightsInstruction,
		Question:    fmt.Sprintf("Synthèse des signalements des %d derniers jours.", report.PeriodDays),
		Context:     narrativeContext(report),
	})
	if ok {
		return truncateRunes(text, maxInsightsSummaryRunes), s.narrator.Name()
	}

	observability.LoggerFromContext(ctx).Debug().
		Int("period_days", report.PeriodDays).
		Msg("insights narrative unavailable, using rule-based summary")
	return RuleBasedSummary(report), LLMProviderRules
}

// narrativeContext is the subset of the report handed to the model.
func narrativeContext(report *entities.InsightsReport) map[string]interface{} {
	return map[string]interface{}{
		"periodDays":       report.PeriodDays,
		"total":            report.Total,
		"byStatus":         report.ByStatus,
		"byType":           report.ByType,
		"byService":        report.ByService,
		"unassigned":       report.Unassigned,
		"overdue":          report.Overdue,
		"highPriority":     report.HighPriority,
		"poiCount":         report.POICount,
		"forecast":         report.Forecast,
		"topTypesForecast": report.TopTypesForecast,
		"hotspots":         report.Hotspots,
		"recommendations":  report.Recommendations,
	}
}

// RuleBasedSummary renders the executive summary without an external model.
func RuleBasedSummary(report *entities.InsightsReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sur les %d derniers jours, %d signalements ont été reçus (%d nouveaux, %d en cours, %d résolus).",
		report.PeriodDays,
		report.Total,
		report.ByStatus[entities.ReportStatusNew],
		report.ByStatus[entities.ReportStatusInProgress],
		report.ByStatus[entities.ReportStatusResolved],
	)

	f := report.Forecast
	fmt.Fprintf(&b, " Cette semaine : %d signalements contre %d la semaine précédente (%+d %%).", f.Last7, f.Prev7, f.TrendPct)
	fmt.Fprintf(&b, " Prévision : environ %d signalements sur 7 jours et %d sur 30 jours.", f.Next7, f.Next30)

	if report.Unassigned > 0 || report.Overdue > 0 {
		fmt.Fprintf(&b, " %d sans affectation, %d en retard.", report.Unassigned, report.Overdue)
	}
	if len(report.Hotspots) > 0 {
		h := report.Hotspots[0]
		fmt.Fprintf(&b, " Zone la plus active : %.3f, %.3f (%d signalements).", h.Lat, h.Lon, h.Count)
	}
	return b.String()
}

func truncateRunes(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
