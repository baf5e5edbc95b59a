package main

import (
	"context"
	"math/rand"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/civicpulse/backend/internal/adapters/database"
	"github.com/civicpulse/backend/internal/domain/entities"
	"github.com/civicpulse/backend/internal/infrastructure/clients/postgres"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
	"github.com/civicpulse/backend/pkg/config"
)

const seedSource = "seed"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger("civicpulse-seed", cfg.Env, cfg.Log.Level)

	ctx := context.Background()
	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}
	defer pgClient.Close()

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE reports, pois`); err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	// 1. Points of interest around Kaloum
	pois := []*entities.PointOfInterest{
		seedPOI("pharmacie-centrale", "Pharmacie Centrale", entities.CategoryPharmacie, "Avenue de la République", "+224622000001", 9.5092, -13.7122),
		seedPOI("hopital-donka", "Hôpital National Donka", entities.CategoryHopital, "Corniche Nord", "+224622000002", 9.5364, -13.6830),
		seedPOI("mairie-kaloum", "Mairie de Kaloum", entities.CategoryMairie, "Boulevard du Commerce", "+224622000003", 9.5110, -13.7140),
		seedPOI("commissariat-central", "Commissariat Central", entities.CategoryPolice, "Rue KA-020", "", 9.5150, -13.7085),
		seedPOI("marche-niger", "Marché du Niger", entities.CategoryMarche, "Rue du Niger", "", 9.5198, -13.7045),
		seedPOI("gare-routiere", "Gare routière de Madina", entities.CategoryTransport, "Autoroute Fidel Castro", "", 9.5521, -13.6688),
		seedPOI("ecole-primaire", "École primaire de Boulbinet", entities.CategoryEcole, "Boulbinet", "", 9.5061, -13.7180),
		seedPOI("grande-mosquee", "Grande Mosquée Fayçal", entities.CategoryLieuCulte, "Camayenne", "", 9.5412, -13.6781),
	}

	poiRepo := database.NewPOIAdapter(pgClient, nil)
	n, err := poiRepo.Upsert(ctx, pois)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed points of interest")
	}
	log.Info().Int("rows", n).Msg("points of interest seeded")

	// 2. Reports spread over the last 30 days
	rng := rand.New(rand.NewSource(42))
	types := []string{"VOIRIE", "ECLAIRAGE", "DECHETS", "EAU", "ASSAINISSEMENT"}
	statuses := []string{entities.ReportStatusNew, entities.ReportStatusInProgress, entities.ReportStatusResolved}
	priorities := []string{entities.PriorityLow, entities.PriorityMedium, entities.PriorityHigh}
	services := []string{"", "VOIRIE", "PROPRETE", "ECLAIRAGE_PUBLIC"}

	now := time.Now().UTC()
	rows := make([]goqu.Record, 0, 120)
	for i := 0; i < 120; i++ {
		createdAt := now.Add(-time.Duration(rng.Intn(30*24)) * time.Hour)
		service := services[rng.Intn(len(services))]
		// Every row needs the same columns for a multi-row insert.
		record := goqu.Record{
			"id":               uuid.New().String(),
			"type":             types[rng.Intn(len(types))],
			"status":           statuses[rng.Intn(len(statuses))],
			"latitude":         9.50 + rng.Float64()*0.06,
			"longitude":        -13.72 + rng.Float64()*0.06,
			"created_at":       createdAt,
			"ai_priority":      priorities[rng.Intn(len(priorities))],
			"assigned_service": nil,
			"assigned_due_at":  nil,
		}
		if service != "" {
			record["assigned_service"] = service
			record["assigned_due_at"] = createdAt.Add(time.Duration(48+rng.Intn(240)) * time.Hour)
		}
		rows = append(rows, record)
	}

	db := goqu.New("postgres", pgClient.DB())
	query, args, err := db.Insert("reports").Rows(rows).Prepared(true).ToSQL()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build report insert")
	}
	if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
		log.Fatal().Err(err).Msg("failed to seed reports")
	}
	log.Info().Int("rows", len(rows)).Msg("reports seeded")
}

func seedPOI(slug, name, category, address, phone string, lat, lon float64) *entities.PointOfInterest {
	return &entities.PointOfInterest{
		ID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte("civicpulse:seed:"+slug)).String(),
		Name:       name,
		Category:   category,
		Address:    address,
		Phone:      phone,
		Latitude:   &lat,
		Longitude:  &lon,
		Status:     entities.POIStatusActive,
		Source:     seedSource,
		ExternalID: slug,
	}
}
