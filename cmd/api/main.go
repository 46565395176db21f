package main

// @title Resource Store API
// @version 1.0.0
// @description Хранилище ресурсов социальной помощи: приюты, продуктовые банки, души, библиотеки, клиники.
// @description
// @description Основные возможности:
// @description - CRUD ресурсов с upsert по ID
// @description - Текстовый поиск и поиск в радиусе с расстоянием до центра
// @description - Импорт мест из внешнего провайдера с upsert по внешнему ID
// @description - Начальная загрузка из CSV

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/resource-store/docs"
	"github.com/resource-store/internal/config"
	httpDelivery "github.com/resource-store/internal/delivery/http"
	"github.com/resource-store/internal/delivery/http/handler"
	"github.com/resource-store/internal/domain/repository"
	"github.com/resource-store/internal/infrastructure/places"
	"github.com/resource-store/internal/pkg/logger"
	"github.com/resource-store/internal/repository/cache"
	redisRepo "github.com/resource-store/internal/repository/redis"
	"github.com/resource-store/internal/repository/sqlstore"
	"github.com/resource-store/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, zap.String("service", "resource-store-api"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Resource Store")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("places_enabled", cfg.PlacesEnabled()),
	)

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

	// 4. Connect to Redis (опционально: кеш поиска и очередь импорта)
	var (
		redisClient *cache.Redis
		cacheRepo   repository.CacheRepository
		streamRepo  repository.StreamRepository
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Warn("Redis unavailable, running without cache and async ingest", zap.Error(err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Error("Failed to close Redis connection", zap.Error(err))
				}
			}()
			cacheRepo = cache.NewCacheRepository(redisClient)
			streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), log)
		}
	}

	// 5. Initialize repositories
	resourceRepo := sqlstore.NewResourceRepository(db)

	var placesRepo repository.PlacesRepository
	if cfg.PlacesEnabled() {
		placesRepo = places.NewPlacesClient(&cfg.Places, log)
	}

	// 6. Initialize use cases
	resourceUC := usecase.NewResourceUseCase(resourceRepo, cacheRepo, log, cfg.Cache.SearchCacheTTL)
	ingestionUC := usecase.NewIngestionUseCase(resourceUC, placesRepo, log, cfg.Places.DefaultRadius)
	bootstrapUC := usecase.NewBootstrapUseCase(resourceRepo, resourceUC, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := bootstrapUC.LoadFileIfEmpty(ctx, cfg.Bootstrap.CSVPath); err != nil {
		log.Error("Bootstrap failed", zap.Error(err))
	}
	cancel()

	// 7. Initialize HTTP handlers
	checks := map[string]handler.HealthChecker{"database": db}
	if redisClient != nil {
		checks["redis"] = redisClient
	}

	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewResourceHandler(resourceUC, log),
		handler.NewIngestHandler(ingestionUC, streamRepo, log),
		handler.NewHealthHandler(log, checks),
	)

	// 8. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 9. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
