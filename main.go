package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)

	"github.com/readinesslab/readiness-engine/pkg/config"
	"github.com/readinesslab/readiness-engine/pkg/database"
	"github.com/readinesslab/readiness-engine/pkg/handlers"
	"github.com/readinesslab/readiness-engine/pkg/logging"
	"github.com/readinesslab/readiness-engine/pkg/middleware"
	"github.com/readinesslab/readiness-engine/pkg/repositories"
	"github.com/readinesslab/readiness-engine/pkg/retry"
	"github.com/readinesslab/readiness-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Log startup configuration
	log.Printf("Configuration loaded:")
	log.Printf("  Environment: %s", cfg.Env)
	log.Printf("  Database: %s", logging.SanitizeConnectionString(cfg.Database.URL()))
	log.Printf("  Migrations: %s", cfg.MigrationsPath)

	ctx := context.Background()

	// The database may still be starting when we are; retry transient
	// connection failures with backoff.
	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.URL(),
			MaxConnections: cfg.Database.MaxConnections,
		})
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %s", logging.SanitizeError(err))
	}
	defer db.Close()

	// Run migrations using database/sql (required by golang-migrate)
	sqlDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		log.Fatalf("Failed to open migration connection: %v", err)
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	_ = sqlDB.Close()

	// Repositories
	studentRepo := repositories.NewStudentRepository(db)
	taxonomyRepo := repositories.NewTaxonomyRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	logRepo := repositories.NewAssessmentLogRepository(db)
	importWriter := repositories.NewImportWriter(db)

	// Services
	scanOptions := services.ScanOptions{
		HeaderSearchRows: cfg.Import.HeaderSearchRows,
		MaxRows:          cfg.Import.MaxSheetRows,
	}
	importService := services.NewImportService(studentRepo, taxonomyRepo, projectRepo, logRepo, importWriter, scanOptions, logger)
	refService := services.NewReferenceService(studentRepo, taxonomyRepo, projectRepo, logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewImportHandler(importService, logger).RegisterRoutes(mux)
	handlers.NewStudentsHandler(refService, logger).RegisterRoutes(mux)
	handlers.NewReferenceHandler(refService, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	log.Printf("Starting readiness-engine on port %s (version: %s)", cfg.Port, cfg.Version)
	if err := http.ListenAndServe(cfg.BindAddr+":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
