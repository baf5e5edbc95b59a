package services

import (
	"context"
	"time"

	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/civicpulse/backend/internal/domain/repositories"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
	apperrors "github.com/civicpulse/backend/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	publicReportLookbackDays = 30
	maxPublicAnswerRunes     = 1200
)

const publicInstruction = `Tu es l'assistant municipal destiné aux citoyens. Réponds en français, en 2 à 5 phrases, de manière claire et polie.
Appuie-toi uniquement sur les lieux et statistiques fournis dans les données JSON. N'invente ni adresse, ni numéro de téléphone, ni horaire.
Si aucun lieu ne convient, invite la personne à préciser sa demande ou à faire un signalement depuis la carte.`

// PublicQuery is a citizen question with an optional location.
type PublicQuery struct {
	Message  string
	Limit    int
	Location *GeoPoint
}

// PublicAssistantService answers citizen questions from the POI directory.
type PublicAssistantService struct {
	pois     repositories.POIRepository
	reports  repositories.ReportRepository
	narrator providers.NarrativeGenerator
	now      func() time.Time
}

// NewPublicAssistantService creates a new public assistant service.
func NewPublicAssistantService(
	pois repositories.POIRepository,
	reports repositories.ReportRepository,
	narrator providers.NarrativeGenerator,
) *PublicAssistantService {
	return &PublicAssistantService{
		pois:     pois,
		reports:  reports,
		narrator: narrator,
		now:      time.Now,
	}
}

// SetClock replaces the wall clock, mainly for tests.
func (s *PublicAssistantService) SetClock(now func() time.Time) {
	s.now = now
}

// Answer ranks POIs for the question and phrases a reply.
func (s *PublicAssistantService) Answer(ctx context.Context, query PublicQuery) (*entities.PublicAnswer, error) {
	ctx, span := observability.StartSpan(ctx, "PublicAssistantService.Answer")
	defer span.End()

	var (
		pois    []*entities.PointOfInterest
		reports []*entities.Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.pois.ListActive(gctx)
		if err != nil {
			return err
		}
		pois = rows
		return nil
	})
	g.Go(func() error {
		since := s.now().UTC().AddDate(0, 0, -publicReportLookbackDays)
		rows, err := s.reports.ListCreatedSince(gctx, since)
		if err != nil {
			return err
		}
		reports = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		observability.RecordError(span, err)
		if _, ok := apperrors.As(err); ok {
			return nil, err
		}
		return nil, apperrors.NewInternalError("failed to load assistant data", err)
	}

	suggestions := MatchPOIs(pois, query.Message, query.Location, query.Limit)
	summary := entities.ReportSummary{
		Total:  len(reports),
		ByType: CountBy(reports, ByReportType),
	}

	answer := &entities.PublicAnswer{
		OK:            true,
		Suggestions:   suggestions,
		ReportSummary: summary,
	}

	text, ok := s.narrator.Summarize(ctx, providers.NarrativeInput{
		Instruction: publicInstruction,
		Question:    query.Message,
		Context: map[string]interface{}{
			"suggestions":   suggestions,
			"reportSummary": summary,
			"hasLocation":   query.Location != nil,
		},
	})
	if ok {
		answer.Answer = truncateRunes(text, maxPublicAnswerRunes)
		answer.UsedOpenAI = true
	} else {
		answer.Answer = FallbackAnswer(query.Message, suggestions, summary)
	}

	span.SetAttributes(
		attribute.Int("assistant.candidates", len(pois)),
		attribute.Int("assistant.suggestions", len(suggestions)),
		attribute.Bool("assistant.used_model", answer.UsedOpenAI),
	)
	return answer, nil
}
