package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/salespulse-backend/api"
	"github.com/angelmondragon/salespulse-backend/api/controllers"
	"github.com/angelmondragon/salespulse-backend/api/routes"
	"github.com/angelmondragon/salespulse-backend/internal/cache"
	"github.com/angelmondragon/salespulse-backend/internal/fetch"
	"github.com/angelmondragon/salespulse-backend/internal/insights"
	"github.com/angelmondragon/salespulse-backend/pkg/config"
	"github.com/angelmondragon/salespulse-backend/pkg/db"
	"github.com/angelmondragon/salespulse-backend/pkg/instance"
	"github.com/angelmondragon/salespulse-backend/pkg/logger"
	"github.com/angelmondragon/salespulse-backend/pkg/metrics"
	"github.com/angelmondragon/salespulse-backend/pkg/migrate"
	"github.com/angelmondragon/salespulse-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingers := map[string]controllers.Pinger{}
	backends := cache.Backends{}

	if cfg.Cache.Backend == config.CacheBackendRedis {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		backends.Redis = redisClient
		pingers["redis"] = redisClient
	}

	if cfg.Cache.Backend == config.CacheBackendSQL {
		dbClient, err := db.New(ctx, cfg.DB, logg)
		requireResource(ctx, logg, "database", err)
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()
		requireResource(ctx, logg, "migrations", migrate.MaybeRun(ctx, cfg, logg, dbClient))
		backends.DB = dbClient
		pingers["database"] = dbClient
	}

	store, err := cache.NewStore(ctx, cfg, backends, logg)
	requireResource(ctx, logg, "cache store", err)

	loaders, err := fetch.NewLoaders(cfg.Sheets, store, metrics.NewFetchMetrics(prometheus.DefaultRegisterer), logg)
	requireResource(ctx, logg, "sheet sources", err)

	router := routes.NewRouter(cfg, logg, routes.Deps{
		Insights:    insights.NewService(loaders.Products, loaders.Campaigns, logg),
		Pingers:     pingers,
		HTTPMetrics: metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		Gatherer:    prometheus.DefaultGatherer,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"cache":    cfg.Cache.Backend,
		"workbook": cfg.Sheets.UsesWorkbook(),
	})
	logg.Info(ctx, "starting api server")

	if err := api.Serve(ctx, api.NewServer(addr, router), logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
