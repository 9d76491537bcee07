package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stockscan/stockscan-backend/api/controllers"
	"github.com/stockscan/stockscan-backend/api/routes"
	"github.com/stockscan/stockscan-backend/internal/catalog"
	"github.com/stockscan/stockscan-backend/internal/scan"
	"github.com/stockscan/stockscan-backend/internal/trade"
	"github.com/stockscan/stockscan-backend/pkg/config"
	"github.com/stockscan/stockscan-backend/pkg/db"
	"github.com/stockscan/stockscan-backend/pkg/localstore"
	"github.com/stockscan/stockscan-backend/pkg/logger"
	"github.com/stockscan/stockscan-backend/pkg/metrics"
	"github.com/stockscan/stockscan-backend/pkg/migrate"
	"github.com/stockscan/stockscan-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRun(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	store, err := localstore.Open(cfg.Worklist.StorePath)
	if err != nil {
		logg.Error(context.Background(), "failed to open worklist store", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(context.Background(), "error closing worklist store", err)
		}
	}()

	worklist, err := trade.NewWorklist(store)
	if err != nil {
		logg.Error(context.Background(), "failed to hydrate worklist", err)
		os.Exit(1)
	}
	aggregator := trade.NewAggregator(worklist)
	gate := &trade.Gate{}

	pingers := map[string]controllers.Pinger{"db": dbClient}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		pingers["redis"] = redisClient
	}

	cache := catalog.NewCache(redisClient, cfg.Redis.CacheTTL, logg)
	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), cache, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	scanManager := scan.NewManager(scan.NewZXingProvider(), scan.TickerScheduler{}, logg, scan.Options{
		TimeoutUnits: cfg.Scan.TimeoutUnits,
		UnitInterval: cfg.Scan.UnitInterval,
		OnOutcome:    httpMetrics.IncScanOutcome,
	})
	defer scanManager.Shutdown()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, pingers, catalogService, scanManager, aggregator, worklist, gate, httpMetrics, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
