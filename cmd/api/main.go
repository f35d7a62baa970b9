package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"posadmin/internal/auth"
	"posadmin/internal/config"
	"posadmin/internal/database"
	"posadmin/internal/database/migration"
	handlers "posadmin/internal/http/handler"
	"posadmin/internal/http/middleware"
	"posadmin/internal/otel"
	"posadmin/internal/repository/postgres"
	"posadmin/internal/service"
	"posadmin/internal/storage"
)

func main() {
	// Configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Asset store backend is swappable through configuration; both sides
	// satisfy the same capability set.
	var assets storage.AssetStore
	switch cfg.Storage.Backend {
	case "local":
		assets, err = storage.NewLocal(cfg.Storage)
	default:
		assets, err = storage.NewMinIO(cfg.MinIO)
	}
	if err != nil {
		log.Fatalf("failed to initialize asset storage: %v", err)
	}

	userRepo := postgres.NewUserPostgres(db)
	saleRepo := postgres.NewSalePostgres(db)
	hasher := auth.NewBcryptHasher()

	userSvc := service.NewUserService(userRepo, assets, hasher, cfg.Storage.UsersContainer)
	saleSvc := service.NewSaleService(saleRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, db, userSvc, saleSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
