package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/89lafa/awesomegardener-sub003/pkg/config"
	"github.com/89lafa/awesomegardener-sub003/pkg/database"
	"github.com/89lafa/awesomegardener-sub003/pkg/handlers"
	"github.com/89lafa/awesomegardener-sub003/pkg/logging"
	"github.com/89lafa/awesomegardener-sub003/pkg/middleware"
	"github.com/89lafa/awesomegardener-sub003/pkg/repositories"
	"github.com/89lafa/awesomegardener-sub003/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Database),
		zap.String("db_host", cfg.Database.Host),
		zap.Int("scan_limit", cfg.Catalog.ScanLimit))

	ctx := context.Background()

	// Migrations run over database/sql; the app itself talks pgx.
	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.Catalog.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	varietyRepo := repositories.NewVarietyRepository(db)
	subcategoryRepo := repositories.NewSubcategoryRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	repointers := repositories.DefaultRepointers(db)

	// Services
	auditService := services.NewAuditService(auditRepo, logger)
	subcategoryService := services.NewSubcategoryService(subcategoryRepo, logger)
	mergeService := services.NewMergeService(varietyRepo, repointers, auditService, db, cfg.Catalog.ScanLimit, logger)
	heatService := services.NewHeatService(varietyRepo, subcategoryService, auditService, cfg.Catalog.ScanLimit, logger)
	resolver := services.NewRedirectResolver(varietyRepo, logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	adminHandler := handlers.NewCatalogAdminHandler(mergeService, heatService, logger)
	adminHandler.RegisterRoutes(mux)

	varietiesHandler := handlers.NewVarietiesHandler(resolver, logger)
	varietiesHandler.RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting gardener-catalog",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
