package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/resource-store/internal/config"
	"github.com/resource-store/internal/domain/repository"
	"github.com/resource-store/internal/infrastructure/places"
	"github.com/resource-store/internal/pkg/logger"
	"github.com/resource-store/internal/repository/cache"
	redisRepo "github.com/resource-store/internal/repository/redis"
	"github.com/resource-store/internal/repository/sqlstore"
	"github.com/resource-store/internal/usecase"
	"github.com/resource-store/internal/worker"
	"github.com/resource-store/internal/worker/ingestion"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, zap.String("service", "resource-store-worker"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Places Ingestion Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Int64("batch_size", cfg.Worker.BatchSize),
		zap.Bool("places_enabled", cfg.PlacesEnabled()))

	// 3. Open store
	db, err := sqlstore.Open(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open resource store", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close resource store", zap.Error(err))
		}
	}()

	// 4. Connect to Redis (стримы обязательны для воркера)
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	resourceRepo := sqlstore.NewResourceRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	var placesRepo repository.PlacesRepository
	if cfg.PlacesEnabled() {
		placesRepo = places.NewPlacesClient(&cfg.Places, log)
	}

	// 6. Initialize use cases
	resourceUC := usecase.NewResourceUseCase(resourceRepo, cacheRepo, log, cfg.Cache.SearchCacheTTL)
	ingestionUC := usecase.NewIngestionUseCase(resourceUC, placesRepo, log, cfg.Places.DefaultRadius)

	// 7. Initialize workers
	ingestionWorker := ingestion.NewIngestionWorker(
		streamRepo,
		ingestionUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		cfg.Worker.BatchSize,
		log,
	)

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(ingestionWorker)

	// 8. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info("Received shutdown signal")
	case err := <-workerManager.Errors():
		log.Error("Worker exited, shutting down", zap.Error(err))
	}

	// Cancel context to stop workers
	cancel()

	if err := workerManager.Stop(worker.DefaultShutdownTimeout); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
