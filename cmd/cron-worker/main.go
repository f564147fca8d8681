package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/salespulse-backend/internal/cache"
	"github.com/angelmondragon/salespulse-backend/internal/cron"
	"github.com/angelmondragon/salespulse-backend/internal/fetch"
	"github.com/angelmondragon/salespulse-backend/pkg/config"
	"github.com/angelmondragon/salespulse-backend/pkg/db"
	"github.com/angelmondragon/salespulse-backend/pkg/logger"
	"github.com/angelmondragon/salespulse-backend/pkg/metrics"
	"github.com/angelmondragon/salespulse-backend/pkg/migrate"
	"github.com/angelmondragon/salespulse-backend/pkg/redis"
)

const lockName = "cron-worker:%s"

func main() {
	once := flag.Bool("once", false, "run a single warm cycle and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})

	backends := cache.Backends{}
	var lock cron.Lock = cron.NewLocalLock()

	// Redis doubles as the cross-instance lock whenever it is configured.
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		backends.Redis = redisClient
		lock, err = cron.NewRedisLock(redisClient, redisClient.LockKey(lockKey(cfg.App.Env)), cfg.Cron.LockTTL)
		requireResource(ctx, logg, "cron lock", err)
	} else {
		logg.Warn(ctx, "redis not configured, using a process-local cron lock")
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
	}

	store, err := cache.NewStore(ctx, cfg, backends, logg)
	requireResource(ctx, logg, "cache store", err)

	loaders, err := fetch.NewLoaders(cfg.Sheets, store, metrics.NewFetchMetrics(prometheus.DefaultRegisterer), logg)
	requireResource(ctx, logg, "sheet sources", err)

	registry := cron.NewRegistry()
	for _, loader := range loaders.All() {
		job, err := cron.NewCacheWarmJob(cron.CacheWarmJobParams{Logger: logg, Loader: loader})
		requireResource(ctx, logg, "cache warm job", err)
		registry.Register(job)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	requireResource(ctx, logg, "cron service", err)

	if *once {
		report, err := service.RunOnce(ctx)
		ctx = logg.WithFields(ctx, map[string]any{"jobs": report.Jobs, "skipped": report.Skipped})
		if err != nil {
			logg.Error(ctx, "cron cycle failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "single cron cycle finished")
		return
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockName, env)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
