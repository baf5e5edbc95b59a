package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/civicpulse/backend/internal/adapters/database"
	"github.com/civicpulse/backend/internal/adapters/providers/osm"
	"github.com/civicpulse/backend/internal/application/services"
	"github.com/civicpulse/backend/internal/domain/providers"
	"github.com/civicpulse/backend/internal/domain/repositories"
	"github.com/civicpulse/backend/internal/infrastructure/clients/postgres"
	"github.com/civicpulse/backend/internal/infrastructure/observability"
	"github.com/civicpulse/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("civicpulse-poi-import", cfg.Env, cfg.Log.Level)

	var (
		bboxFlag  string
		dryRun    bool
		batchSize int
	)
	flag.StringVar(&bboxFlag, "bbox", cfg.Import.BBox, "bounding box as south,west,north,east")
	flag.BoolVar(&dryRun, "dry-run", false, "print the mapped points of interest without writing them")
	flag.IntVar(&batchSize, "batch-size", 200, "rows per upsert statement")
	flag.Parse()

	bbox, err := providers.ParseBoundingBox(bboxFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid bounding box")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo repositories.POIRepository
	if !dryRun {
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()
		repo = database.NewPOIAdapter(pgClient, nil)
	}

	source := osm.NewOverpassSource(cfg.Overpass.Endpoint, cfg.Overpass.Timeout, cfg.Import.PhoneRegion)
	importer := services.NewPOIImportService(source, repo, cfg.Import.DefaultStatus, batchSize)

	start := time.Now()
	summary, pois, err := importer.Import(ctx, bbox, dryRun)
	if err != nil {
		log.Error().Err(err).Msg("poi import failed")
		stop()
		os.Exit(1)
	}

	if dryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(pois); err != nil {
			log.Error().Err(err).Msg("failed to print points of interest")
		}
	}

	log.Info().
		Int("fetched", summary.Fetched).
		Int("skipped", summary.Skipped).
		Int("upserted", summary.Upserted).
		Interface("by_category", summary.ByCategory).
		Bool("dry_run", summary.DryRun).
		Dur("elapsed", time.Since(start)).
		Msg("poi import finished")
}
