package main

import (
	"log"

	"warehouse/adapters/postgres"
	"warehouse/adapters/stats"
	"warehouse/adapters/tabular"
	"warehouse/app"
	"warehouse/internal/api"
	"warehouse/internal/cache"
	"warehouse/internal/charts"
	"warehouse/internal/config"
	"warehouse/internal/quality"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// .env is optional; real deployments configure the environment
	if err := godotenv.Load(); err != nil {
		log.Printf("[Main] No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Main] Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("[Main] Failed to connect to metadata store: %v", err)
	}
	defer db.Close()

	repository := postgres.NewDatasetRepository(db)
	tables := app.NewTableStore()
	results := cache.New(cfg.Cache.TTL)
	parser := tabular.NewParser(tabular.Config{MaxSizeBytes: cfg.Data.MaxUploadBytes})
	analyzer := quality.NewAnalyzer(quality.Weights{
		Completeness: cfg.Quality.CompletenessWeight,
		Uniqueness:   cfg.Quality.UniquenessWeight,
	})

	ingestion := app.NewIngestionService(parser, repository, tables, results, cfg.Data.SampleRows)
	analytics := app.NewAnalyticsService(repository, tables, stats.NewEngine(), analyzer, charts.NewShaper(), results, cfg.Cache.TTL)

	server := api.NewServer(ingestion, analytics)
	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("[Main] Server exited: %v", err)
	}
}
