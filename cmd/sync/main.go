package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/resource-store/internal/config"
	"github.com/resource-store/internal/domain"
	"github.com/resource-store/internal/infrastructure/places"
	"github.com/resource-store/internal/pkg/logger"
	"github.com/resource-store/internal/repository/sqlstore"
	"github.com/resource-store/internal/usecase"
)

// sync - разовая загрузка: CSV в пустое хранилище или выборка мест у провайдера
func main() {
	fs := pflag.NewFlagSet("sync", pflag.ExitOnError)
	var (
		csvPath = fs.String("csv", "", "load this CSV when the store is empty, then exit")
		lat     = fs.Float64("lat", 0, "search center latitude")
		lon     = fs.Float64("lon", 0, "search center longitude")
		radius  = fs.Float64("radius", 0, "search radius in meters (default PLACES_DEFAULT_RADIUS)")
		types   = fs.StringSlice("types", nil, "resource types to fetch, e.g. shelter,food_bank")
		maxRes  = fs.Int("max", 0, "max results per request")
	)
	fs.String("db-driver", config.DriverSQLite, "sqlite or postgres")
	fs.String("db-path", "data/resources.db", "sqlite file")
	fs.String("places-api-key", "", "place-search API key")
	fs.String("log-level", "info", "log level")
	_ = fs.Parse(os.Args[1:])

	v := viper.New()
	for key, flag := range map[string]string{
		"DB_DRIVER":      "db-driver",
		"DB_PATH":        "db-path",
		"PLACES_API_KEY": "places-api-key",
		"LOG_LEVEL":      "log-level",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("Failed to bind flag %s: %v", flag, err))
		}
	}

	cfg, err := config.LoadFrom(v)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log.Level, zap.String("service", "resource-store-sync"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlstore.Open(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open resource store", zap.Error(err))
	}
	defer db.Close()

	resourceRepo := sqlstore.NewResourceRepository(db)

	var result interface{}
	switch {
	case *csvPath != "":
		bootstrapUC := usecase.NewBootstrapUseCase(resourceRepo, resourceRepo, log)
		result, err = bootstrapUC.LoadFileIfEmpty(ctx, *csvPath)

	case cfg.PlacesEnabled():
		ingestionUC := usecase.NewIngestionUseCase(
			resourceRepo,
			places.NewPlacesClient(&cfg.Places, log),
			log,
			cfg.Places.DefaultRadius,
		)
		result, err = ingestionUC.SyncNearby(ctx, domain.SyncRequest{
			Lat:          *lat,
			Lon:          *lon,
			RadiusMeters: *radius,
			Types:        *types,
			MaxResults:   *maxRes,
		})

	default:
		fmt.Fprintln(os.Stderr, "nothing to do: pass --csv or set PLACES_API_KEY / --places-api-key")
		fs.PrintDefaults()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal("Sync failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
}
