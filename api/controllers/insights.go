package controllers

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/salespulse-backend/api/responses"
	"github.com/angelmondragon/salespulse-backend/api/validators"
	"github.com/angelmondragon/salespulse-backend/internal/dataset"
	"github.com/angelmondragon/salespulse-backend/internal/fetch"
	"github.com/angelmondragon/salespulse-backend/internal/insights"
	"github.com/angelmondragon/salespulse-backend/internal/products"
	pkgerrors "github.com/angelmondragon/salespulse-backend/pkg/errors"
	"github.com/angelmondragon/salespulse-backend/pkg/logger"
)

// InsightsService is the read side the dashboard endpoints call.
type InsightsService interface {
	Dashboard(ctx context.Context, q insights.Query) (insights.Dashboard, error)
	Products(ctx context.Context, q insights.Query) (insights.ProductPage, error)
	Variants(ctx context.Context, q insights.Query, baseID string) (insights.VariantReport, error)
	Recommendations(ctx context.Context, q insights.Query) (insights.RecommendationReport, error)
	ROAS(ctx context.Context, q insights.Query) (insights.ROASReport, error)
	Shops(ctx context.Context, q insights.Query) (insights.ShopReport, error)
	Campaigns(ctx context.Context, q insights.Query) (insights.CampaignReport, error)
	Refresh(ctx context.Context, name string) (insights.Meta, error)
	Status(ctx context.Context) []fetch.Status
	ExportCSV(ctx context.Context, q insights.Query, w io.Writer) error
	ExportXLSX(ctx context.Context, q insights.Query, w io.Writer) error
}

const maxBaseIDLen = 128

// report wraps the parse-query, call, write-envelope shape every read
// endpoint shares.
func report[T any](logg *logger.Logger, sortKeys []string, call func(context.Context, insights.Query) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := validators.ParseReportQuery(r, sortKeys)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out, err := call(r.Context(), q)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

func unavailable(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "insights service unavailable"))
	}
}

func Dashboard(svc InsightsService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable(logg)
	}
	return report(logg, products.SortKeys, svc.Dashboard)
}

func ProductList(svc InsightsService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable(logg)
	}
	return report(logg, products.SortKeys, svc.Products)
}

// ProductVariants exposes the per-SKU stock behind one base product.
func ProductVariants(svc InsightsService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable(logg)
	}
	return report(logg, nil, func(ctx context.Context, q insights.Query) (insights.VariantReport, error) {
		baseID := validators.SanitizeString(chi.URLParamFromCtx(ctx, "baseID"), maxBaseIDLen)
		if baseID == "" {
			return insights.VariantReport{}, pkgerrors.New(pkgerrors.CodeValidation, "base id is required")
		}
		return svc.Variants(ctx, q, baseID)
	})
}

func Recommendations(svc InsightsService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable(logg)
	}
	return report(logg, nil, svc.Recommendations)
}

func ROAS(svc InsightsService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable(logg)
	}
	return report(logg, nil, svc.ROAS)
}

func Shops(svc InsightsService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable(logg)
	}
	return report(logg, nil, svc.Shops)
}

func Campaigns(svc InsightsService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable(logg)
	}
	return report(logg, insights.CampaignSortKeys, svc.Campaigns)
}

func FetchStatus(svc InsightsService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable(logg)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Status(r.Context()))
	}
}

type refreshRequest struct {
	Dataset string `json:"dataset" validate:"required,dataset"`
}

// Refresh forces a fetch of ?dataset= (or a JSON body {"dataset": ...}).
// A degraded outcome still answers 200 with the warning in the payload.
func Refresh(svc InsightsService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable(logg)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.ToLower(validators.SanitizeString(r.URL.Query().Get("dataset"), 32))
		if name == "" && r.ContentLength > 0 {
			var body refreshRequest
			if err := validators.DecodeJSONBody(w, r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			name = strings.ToLower(validators.SanitizeString(body.Dataset, 32))
		}
		if name == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "dataset is required").
					WithDetails(map[string]any{"allowed": dataset.Names()}))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithDataset(ctx, name)
		}
		meta, err := svc.Refresh(ctx, name)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, meta)
	}
}
