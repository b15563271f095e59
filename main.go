// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"movie-catalogue/cmd"
	"movie-catalogue/internal/data/repository"
	"movie-catalogue/internal/data/seed"
	"movie-catalogue/internal/wire"
	"movie-catalogue/pkg/database"
	"movie-catalogue/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("repository", config.App.Repository),
		zap.Bool("debug", config.App.Debug),
	)
	if config.Session.Ephemeral {
		logger.Warn("SESSION_SECRET not set, using a random key; sessions end on restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repos *repository.Repository
	switch config.App.Repository {
	case utils.RepositoryDatabase:
		db, err := database.InitDB(ctx, config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		logger.Info("Database connected successfully")

		if err := database.RunMigrations(config.Database.DSN(), logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}

		repos = repository.NewRepository(db, logger)
		if config.Database.Populate {
			if err := populate(ctx, repos, config.App.DataPath, logger); err != nil {
				logger.Fatal("Failed to populate database", zap.Error(err))
			}
		}
	default:
		repos = repository.NewMemoryRepository(logger)
		if err := populate(ctx, repos, config.App.DataPath, logger); err != nil {
			logger.Fatal("Failed to load data", zap.Error(err))
		}
	}

	// Wire all dependencies
	app, err := wire.Wiring(repos, config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// populate loads the CSV files into an empty repository.
func populate(ctx context.Context, repos *repository.Repository, dataPath string, logger *zap.Logger) error {
	empty, err := repos.Seeder.IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		logger.Info("Repository already populated, skipping data load")
		return nil
	}

	dataset, err := seed.Load(dataPath, utils.HashPassword)
	if err != nil {
		return err
	}
	return repos.Seeder.Populate(ctx, dataset)
}
