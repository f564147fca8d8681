package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/salespulse-backend/internal/cache"
	"github.com/angelmondragon/salespulse-backend/internal/columns"
	"github.com/angelmondragon/salespulse-backend/internal/dataset"
	pkgerrors "github.com/angelmondragon/salespulse-backend/pkg/errors"
	"github.com/angelmondragon/salespulse-backend/pkg/logger"
	"github.com/angelmondragon/salespulse-backend/pkg/metrics"
	"go.uber.org/multierr"
)

// Source yields the raw rows of one dataset.
type Source interface {
	Fetch(ctx context.Context) ([]dataset.RawRow, error)
}

type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StateSuccess  State = "success"
	StateFailed   State = "failed"
)

// OriginCache marks results served from the cache rather than a source.
const OriginCache = "cache"

const (
	endpointPrimary  = "primary"
	endpointFallback = "fallback"
)

// Status is the observable state of one dataset's orchestrator.
type Status struct {
	Dataset   string     `json:"dataset"`
	State     State      `json:"state"`
	Error     string     `json:"error,omitempty"`
	Degraded  bool       `json:"degraded"`
	Origin    string     `json:"origin,omitempty"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Sequence  uint64     `json:"sequence"`
}

// Result is what Load hands to consumers. Warning is set when the snapshot is
// a stale cache entry served because fetching failed.
type Result struct {
	Snapshot dataset.Snapshot `json:"snapshot"`
	Origin   string           `json:"origin"`
	Degraded bool             `json:"degraded"`
	Warning  string           `json:"warning,omitempty"`
}

// Config wires one orchestrator. Fallback is optional; PrimaryKind labels
// snapshots produced by Primary.
type Config struct {
	Dataset     string
	Primary     Source
	PrimaryKind dataset.Source
	Fallback    Source
	Store       cache.Store
	Window      time.Duration
	Metrics     *metrics.FetchMetrics
	Logger      *logger.Logger
	Now         func() time.Time
}

// Orchestrator loads one dataset family through cache, primary source and
// fallback source. Every fetch takes a sequence token; only the holder of the
// latest token may change state or write the cache.
type Orchestrator struct {
	dataset     string
	primary     Source
	primaryKind dataset.Source
	fallback    Source
	store       cache.Store
	window      time.Duration
	metrics     *metrics.FetchMetrics
	logg        *logger.Logger
	now         func() time.Time

	mu     sync.Mutex
	seq    uint64
	status Status

	// commitMu keeps the token check and the cache write of one fetch together.
	commitMu sync.Mutex
}

func New(cfg Config) (*Orchestrator, error) {
	if strings.TrimSpace(cfg.Dataset) == "" {
		return nil, fmt.Errorf("dataset name is required")
	}
	if cfg.Primary == nil {
		return nil, fmt.Errorf("primary source is required for %s", cfg.Dataset)
	}
	if cfg.Store == nil {
		cfg.Store = cache.NewMemoryStore()
	}
	if cfg.Window <= 0 {
		cfg.Window = cache.FreshnessWindow
	}
	if cfg.PrimaryKind == "" {
		cfg.PrimaryKind = dataset.SourcePrimary
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Orchestrator{
		dataset:     cfg.Dataset,
		primary:     cfg.Primary,
		primaryKind: cfg.PrimaryKind,
		fallback:    cfg.Fallback,
		store:       cfg.Store,
		window:      cfg.Window,
		metrics:     cfg.Metrics,
		logg:        cfg.Logger,
		now:         cfg.Now,
		status:      Status{Dataset: cfg.Dataset, State: StateIdle},
	}, nil
}

func (o *Orchestrator) Dataset() string {
	return o.dataset
}

// Status returns a copy of the current state.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	status := o.status
	if status.FetchedAt != nil {
		at := *status.FetchedAt
		status.FetchedAt = &at
	}
	return status
}

// Load returns the dataset. Unless force is set a fresh cache entry is served
// without fetching. When both sources fail, any cached entry, however old, is
// served as a degraded result; without one the fetch error is returned.
func (o *Orchestrator) Load(ctx context.Context, force bool) (Result, error) {
	ctx = o.logg.WithDataset(ctx, o.dataset)
	key := cache.Key(o.dataset)

	if !force {
		if env, ok := o.store.Read(ctx, key); ok {
			if env.IsFresh(o.now(), o.window) {
				o.metrics.ObserveCache(o.dataset, metrics.CacheHit)
				o.markCacheHit(env)
				return Result{Snapshot: env.Data, Origin: OriginCache}, nil
			}
			o.metrics.ObserveCache(o.dataset, metrics.CacheStale)
		} else {
			o.metrics.ObserveCache(o.dataset, metrics.CacheMiss)
		}
	}

	token := o.begin()
	ctx = o.logg.WithField(ctx, "sequence", token)
	o.logg.Debug(ctx, "fetch.start")

	snapshot, err := o.fetch(ctx)
	if err != nil {
		return o.fail(ctx, key, token, err)
	}
	o.commit(ctx, key, token, snapshot)
	return Result{Snapshot: snapshot, Origin: string(snapshot.Source)}, nil
}

func (o *Orchestrator) begin() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seq++
	o.status.State = StateFetching
	o.status.Sequence = o.seq
	return o.seq
}

func (o *Orchestrator) latest(token uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return token == o.seq
}

func (o *Orchestrator) markCacheHit(env cache.Envelope) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status.State == StateFetching {
		return
	}
	fetchedAt := env.Data.FetchedAt
	o.status.State = StateSuccess
	o.status.Error = ""
	o.status.Degraded = false
	o.status.Origin = OriginCache
	o.status.FetchedAt = &fetchedAt
}

// fetch tries the primary source and then, once, the fallback.
func (o *Orchestrator) fetch(ctx context.Context) (dataset.Snapshot, error) {
	rows, primaryErr := o.attempt(ctx, endpointPrimary, o.primary)
	if primaryErr == nil {
		return o.snapshot(rows, o.primaryKind), nil
	}
	o.logg.WarnErr(ctx, "fetch.primary_failed", primaryErr)

	if o.fallback == nil || ctx.Err() != nil {
		return dataset.Snapshot{}, o.wrap(primaryErr)
	}

	rows, fallbackErr := o.attempt(ctx, endpointFallback, o.fallback)
	if fallbackErr == nil {
		o.logg.Info(ctx, "fetch.fallback_succeeded")
		return o.snapshot(rows, dataset.SourceFallback), nil
	}
	return dataset.Snapshot{}, o.wrap(multierr.Combine(primaryErr, fallbackErr))
}

func (o *Orchestrator) attempt(ctx context.Context, endpoint string, src Source) ([]dataset.RawRow, error) {
	start := time.Now()
	rows, err := src.Fetch(ctx)
	o.metrics.ObserveAttempt(o.dataset, endpoint, time.Since(start), err)
	return rows, err
}

func (o *Orchestrator) snapshot(rows []dataset.RawRow, source dataset.Source) dataset.Snapshot {
	return dataset.Snapshot{
		Dataset:   o.dataset,
		Records:   dataset.BuildRecords(rows, columns.DateOf),
		FetchedAt: o.now().UTC(),
		Source:    source,
	}
}

// wrap keeps the code of the last attempt so a data-shape failure surfaces as
// such; anything untyped is a dependency failure.
func (o *Orchestrator) wrap(err error) error {
	errs := multierr.Errors(err)
	code := pkgerrors.CodeOf(errs[len(errs)-1], pkgerrors.CodeDependency)
	return pkgerrors.Wrap(code, err, fmt.Sprintf("fetch %s failed: %v", o.dataset, err))
}

func (o *Orchestrator) commit(ctx context.Context, key string, token uint64, snapshot dataset.Snapshot) {
	o.commitMu.Lock()
	defer o.commitMu.Unlock()

	if !o.latest(token) {
		o.logg.Info(ctx, "fetch.stale_discarded")
		return
	}

	if err := o.store.Write(ctx, key, cache.NewEnvelope(snapshot, o.now())); err != nil {
		o.logg.WarnErr(ctx, "cache.write_failed", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if token != o.seq {
		return
	}
	fetchedAt := snapshot.FetchedAt
	o.status.State = StateSuccess
	o.status.Error = ""
	o.status.Degraded = false
	o.status.Origin = string(snapshot.Source)
	o.status.FetchedAt = &fetchedAt
	o.logg.Info(ctx, "fetch.complete")
}

func (o *Orchestrator) fail(ctx context.Context, key string, token uint64, err error) (Result, error) {
	env, cached := o.store.Read(ctx, key)

	o.mu.Lock()
	if token == o.seq {
		o.status.State = StateFailed
		o.status.Error = err.Error()
		o.status.Degraded = cached
		if cached {
			fetchedAt := env.Data.FetchedAt
			o.status.Origin = OriginCache
			o.status.FetchedAt = &fetchedAt
		}
	}
	o.mu.Unlock()

	if !cached {
		o.logg.Error(ctx, "fetch.failed", err)
		return Result{}, err
	}
	o.logg.WarnErr(ctx, "fetch.failed_serving_cache", err)
	return Result{
		Snapshot: env.Data,
		Origin:   OriginCache,
		Degraded: true,
		Warning:  err.Error(),
	}, nil
}
