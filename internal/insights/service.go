package insights

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/salespulse-backend/internal/dataset"
	"github.com/angelmondragon/salespulse-backend/internal/fetch"
	"github.com/angelmondragon/salespulse-backend/internal/products"
	"github.com/angelmondragon/salespulse-backend/internal/recommendations"
	"github.com/angelmondragon/salespulse-backend/internal/roas"
	"github.com/angelmondragon/salespulse-backend/internal/shops"
	pkgerrors "github.com/angelmondragon/salespulse-backend/pkg/errors"
	"github.com/angelmondragon/salespulse-backend/pkg/logger"
	"github.com/angelmondragon/salespulse-backend/pkg/pagination"
)

// Loader is the orchestrator surface the service reads datasets through.
type Loader interface {
	Dataset() string
	Load(ctx context.Context, force bool) (fetch.Result, error)
	Status() fetch.Status
}

const (
	OrderAsc      = "asc"
	OrderDesc     = "desc"
	OrderPriority = "priority"
)

// Query narrows and orders a report. Every report recomputes from the raw
// records on each call.
type Query struct {
	From   *time.Time
	To     *time.Time
	Sort   string
	Order  string
	Limit  int
	Offset int
}

// Range applies the default end of now when only From is given.
func (q Query) Range(now time.Time) dataset.DateRange {
	return dataset.NewDateRange(q.From, q.To, now)
}

func (q Query) descending() bool {
	return !strings.EqualFold(q.Order, OrderAsc)
}

func (q Query) sortKey() string {
	if q.Sort == "" {
		return products.SortRevenue
	}
	return q.Sort
}

// Meta describes where the numbers came from.
type Meta struct {
	Dataset   string    `json:"dataset"`
	Origin    string    `json:"origin"`
	Degraded  bool      `json:"degraded"`
	Warning   string    `json:"warning,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
	Rows      int       `json:"rows"`
}

type Service struct {
	products  Loader
	campaigns Loader
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires the product loader and, optionally, a campaign loader.
func NewService(productLoader, campaignLoader Loader, logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{products: productLoader, campaigns: campaignLoader, logg: logg, now: time.Now}
}

func (s *Service) loader(name string) (Loader, error) {
	switch name {
	case dataset.Products:
		if s.products != nil {
			return s.products, nil
		}
	case dataset.Campaigns:
		if s.campaigns != nil {
			return s.campaigns, nil
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown dataset").
			WithDetails(map[string]any{"dataset": name, "allowed": dataset.Names()})
	}
	return nil, pkgerrors.New(pkgerrors.CodeDependency, name+" dataset is not configured")
}

func (s *Service) load(ctx context.Context, name string, q Query) ([]dataset.Record, Meta, error) {
	l, err := s.loader(name)
	if err != nil {
		return nil, Meta{}, err
	}
	res, err := l.Load(ctx, false)
	if err != nil {
		return nil, Meta{}, err
	}
	records := dataset.Filter(res.Snapshot.Records, q.Range(s.now()))
	return records, Meta{
		Dataset:   name,
		Origin:    res.Origin,
		Degraded:  res.Degraded,
		Warning:   res.Warning,
		FetchedAt: res.Snapshot.FetchedAt,
		Rows:      len(records),
	}, nil
}

func (s *Service) aggregate(ctx context.Context, q Query) ([]dataset.Record, []products.Product, Meta, error) {
	records, meta, err := s.load(ctx, dataset.Products, q)
	if err != nil {
		return nil, nil, Meta{}, err
	}
	return records, products.Aggregate(dataset.Rows(records)), meta, nil
}

// Dashboard is everything the overview screen renders.
type Dashboard struct {
	Products        []products.Product     `json:"products"`
	Recommendations recommendations.Result `json:"recommendations"`
	ROAS            roas.Summary           `json:"roas"`
	Shops           []shops.Summary        `json:"shops"`
	Status          []fetch.Status         `json:"status"`
	Meta            Meta                   `json:"meta"`
}

func (s *Service) Dashboard(ctx context.Context, q Query) (Dashboard, error) {
	records, list, meta, err := s.aggregate(ctx, q)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Products:        products.SortProducts(list, q.sortKey(), q.descending()),
		Recommendations: recommendations.Generate(list),
		ROAS:            roas.Compute(list),
		Shops:           shops.Summarize(records, dataset.DateRange{}),
		Status:          s.Status(ctx),
		Meta:            meta,
	}, nil
}

type ProductPage struct {
	Items []products.Product  `json:"items"`
	Page  pagination.PageInfo `json:"page"`
	Meta  Meta                `json:"meta"`
}

// Products lists base products sorted by q.Sort, revenue descending by default.
func (s *Service) Products(ctx context.Context, q Query) (ProductPage, error) {
	_, list, meta, err := s.aggregate(ctx, q)
	if err != nil {
		return ProductPage{}, err
	}
	sorted := products.SortProducts(list, q.sortKey(), q.descending())
	items, page := pagination.Slice(sorted, pagination.Params{Limit: q.Limit, Offset: q.Offset})
	return ProductPage{Items: items, Page: page, Meta: meta}, nil
}

// VariantReport shows a base product next to the rows it was folded from, so
// a sold-out variant hidden by the aggregate stays visible.
type VariantReport struct {
	Product  products.Product        `json:"product"`
	Variants []products.VariantStock `json:"variants"`
	Critical []products.VariantStock `json:"critical"`
	Meta     Meta                    `json:"meta"`
}

func (s *Service) Variants(ctx context.Context, q Query, baseID string) (VariantReport, error) {
	baseID = strings.TrimSpace(baseID)
	records, list, meta, err := s.aggregate(ctx, q)
	if err != nil {
		return VariantReport{}, err
	}
	product, ok := products.Find(list, baseID)
	if !ok {
		return VariantReport{}, pkgerrors.New(pkgerrors.CodeNotFound, "base product not found").
			WithDetails(map[string]any{"base_id": baseID})
	}
	variants := products.Variants(dataset.Rows(records), baseID)
	return VariantReport{
		Product:  product,
		Variants: variants,
		Critical: products.CriticalVariants(variants),
		Meta:     meta,
	}, nil
}

type RecommendationReport struct {
	recommendations.Result
	Averages recommendations.Averages `json:"averages"`
	Meta     Meta                     `json:"meta"`
}

// Recommendations keeps rule order unless q.Order asks for priority order.
func (s *Service) Recommendations(ctx context.Context, q Query) (RecommendationReport, error) {
	_, list, meta, err := s.aggregate(ctx, q)
	if err != nil {
		return RecommendationReport{}, err
	}
	result := recommendations.Generate(list)
	if strings.EqualFold(q.Order, OrderPriority) {
		result.Opportunities = recommendations.SortByPriority(result.Opportunities)
		result.Waste = recommendations.SortByPriority(result.Waste)
	}
	return RecommendationReport{Result: result, Averages: recommendations.AveragesOf(list), Meta: meta}, nil
}

type ROASReport struct {
	roas.Summary
	Meta Meta `json:"meta"`
}

func (s *Service) ROAS(ctx context.Context, q Query) (ROASReport, error) {
	_, list, meta, err := s.aggregate(ctx, q)
	if err != nil {
		return ROASReport{}, err
	}
	return ROASReport{Summary: roas.Compute(list), Meta: meta}, nil
}

type ShopReport struct {
	Shops []shops.Summary `json:"shops"`
	Meta  Meta            `json:"meta"`
}

// Shops summarizes raw rows per channel; variants are not collapsed first.
func (s *Service) Shops(ctx context.Context, q Query) (ShopReport, error) {
	records, meta, err := s.load(ctx, dataset.Products, q)
	if err != nil {
		return ShopReport{}, err
	}
	return ShopReport{Shops: shops.Summarize(records, dataset.DateRange{}), Meta: meta}, nil
}

// Refresh forces a fetch of one dataset, bypassing the cache.
func (s *Service) Refresh(ctx context.Context, name string) (Meta, error) {
	l, err := s.loader(strings.TrimSpace(name))
	if err != nil {
		return Meta{}, err
	}
	res, err := l.Load(ctx, true)
	if err != nil {
		return Meta{}, err
	}
	return Meta{
		Dataset:   l.Dataset(),
		Origin:    res.Origin,
		Degraded:  res.Degraded,
		Warning:   res.Warning,
		FetchedAt: res.Snapshot.FetchedAt,
		Rows:      len(res.Snapshot.Records),
	}, nil
}

// Status lists the orchestrator state of every configured dataset.
func (s *Service) Status(_ context.Context) []fetch.Status {
	out := make([]fetch.Status, 0, 2)
	for _, l := range []Loader{s.products, s.campaigns} {
		if l != nil {
			out = append(out, l.Status())
		}
	}
	return out
}
