package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/salespulse-backend/internal/fetch"
	"github.com/angelmondragon/salespulse-backend/pkg/logger"
)

// warmLoader is the orchestrator surface the job needs.
type warmLoader interface {
	Dataset() string
	Load(ctx context.Context, force bool) (fetch.Result, error)
}

type CacheWarmJobParams struct {
	Logger *logger.Logger
	Loader warmLoader
}

// NewCacheWarmJob builds a job that force-refreshes one dataset so API reads
// keep hitting a fresh cache entry.
func NewCacheWarmJob(params CacheWarmJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Loader == nil {
		return nil, fmt.Errorf("dataset loader required")
	}
	return &cacheWarmJob{logg: params.Logger, loader: params.Loader}, nil
}

type cacheWarmJob struct {
	logg   *logger.Logger
	loader warmLoader
}

func (j *cacheWarmJob) Name() string { return "cache-warm-" + j.loader.Dataset() }

// Run fails when the fetch failed, even if a stale entry could still be served,
// so the failure counter reflects upstream health.
func (j *cacheWarmJob) Run(ctx context.Context) error {
	ctx = j.logg.WithDataset(ctx, j.loader.Dataset())
	res, err := j.loader.Load(ctx, true)
	if err != nil {
		return fmt.Errorf("warm %s: %w", j.loader.Dataset(), err)
	}
	if res.Degraded {
		return fmt.Errorf("warm %s: upstream unavailable, cache left as is: %s", j.loader.Dataset(), res.Warning)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"origin": res.Origin,
		"source": string(res.Snapshot.Source),
		"rows":   len(res.Snapshot.Records),
	})
	j.logg.Info(logCtx, "dataset cache warmed")
	return nil
}
