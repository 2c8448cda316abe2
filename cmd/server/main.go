package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"calcar/server/config"
	"calcar/server/internal/api"
	"calcar/server/internal/curves"
	"calcar/server/internal/database"
	"calcar/server/internal/images"
	"calcar/server/internal/residual"
	"calcar/server/internal/tco"
	"calcar/server/internal/vehicle"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize database
	if err := os.MkdirAll(filepath.Dir(cfg.Paths.Database), 0755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", cfg.Paths.Database)

	db, err := database.NewDatabase(cfg.Paths.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Seed demo vehicle records on first run
	if count, err := db.CountVehicles(); err != nil {
		logger.WithError(err).Fatal("Failed to count vehicle records")
	} else if count == 0 {
		logger.Info("Seeding demo vehicle records")
		if err := db.UpsertVehicles(vehicle.SeedVehicles()); err != nil {
			logger.WithError(err).Fatal("Failed to seed vehicle records")
		}
	}

	// Load the curve table artifact; the estimator serves fallback defaults
	// until a builder run produces one
	store := curves.NewStore(cfg.Paths.CurveTable, logger)
	if err := store.Load(); err != nil {
		logger.WithError(err).Warn("No curve table loaded; estimator will use fallback defaults")
	}
	store.StartReload(time.Duration(cfg.CurveReload.IntervalMinutes) * time.Minute)
	defer store.Stop()

	estimator := residual.NewEstimator(store, logger)
	calculator := tco.NewCalculator(estimator, logger)

	// Initialize the image fetcher
	cacheDir := cfg.Paths.ImageCacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "calcar", "image_cache")
	}
	imageFetcher := images.NewFetcher(logger, cacheDir)

	// Initialize handler
	handler := api.NewHandler(vehicle.NewDatabaseSource(db), estimator, calculator, store, imageFetcher, logger)

	// Initialize router
	router := gin.Default()
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
