package fetch

import (
	"github.com/angelmondragon/salespulse-backend/internal/cache"
	"github.com/angelmondragon/salespulse-backend/internal/dataset"
	"github.com/angelmondragon/salespulse-backend/internal/sheets"
	"github.com/angelmondragon/salespulse-backend/pkg/config"
	"github.com/angelmondragon/salespulse-backend/pkg/logger"
	"github.com/angelmondragon/salespulse-backend/pkg/metrics"
)

// Loaders holds one orchestrator per dataset family.
type Loaders struct {
	Products  *Orchestrator
	Campaigns *Orchestrator
}

// All lists the orchestrators in dataset order.
func (l Loaders) All() []*Orchestrator {
	return []*Orchestrator{l.Products, l.Campaigns}
}

// NewLoaders builds the product and campaign orchestrators over the configured
// sheet sources, sharing one cache store.
func NewLoaders(cfg config.SheetsConfig, store cache.Store, m *metrics.FetchMetrics, logg *logger.Logger, opts ...sheets.Option) (Loaders, error) {
	build := func(name string) (*Orchestrator, error) {
		src, err := sheets.NewSources(cfg, name, opts...)
		if err != nil {
			return nil, err
		}
		return New(Config{
			Dataset:     name,
			Primary:     src.Primary,
			PrimaryKind: src.Kind,
			Fallback:    src.Fallback,
			Store:       store,
			Metrics:     m,
			Logger:      logg,
		})
	}

	productsLoader, err := build(dataset.Products)
	if err != nil {
		return Loaders{}, err
	}
	campaignsLoader, err := build(dataset.Campaigns)
	if err != nil {
		return Loaders{}, err
	}
	return Loaders{Products: productsLoader, Campaigns: campaignsLoader}, nil
}
