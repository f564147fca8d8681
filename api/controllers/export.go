package controllers

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/angelmondragon/salespulse-backend/api/responses"
	"github.com/angelmondragon/salespulse-backend/api/validators"
	"github.com/angelmondragon/salespulse-backend/internal/insights"
	"github.com/angelmondragon/salespulse-backend/internal/products"
	"github.com/angelmondragon/salespulse-backend/pkg/logger"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type exportFunc func(ctx context.Context, q insights.Query, w io.Writer) error

// export renders into memory first so a failure still gets a JSON error
// instead of a truncated download.
func export(logg *logger.Logger, render exportFunc, contentType, filename string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := validators.ParseReportQuery(r, products.SortKeys)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var buf bytes.Buffer
		if err := render(r.Context(), q, &buf); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteAttachment(w, contentType, filename)
		if _, err := buf.WriteTo(w); err != nil && logg != nil {
			logg.WarnErr(r.Context(), "export write interrupted", err)
		}
	}
}

func ExportProductsCSV(svc InsightsService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable(logg)
	}
	return export(logg, svc.ExportCSV, csvContentType, "products.csv")
}

func ExportProductsXLSX(svc InsightsService, logg *logger.Logger) http.HandlerFunc {
	if svc == nil {
		return unavailable(logg)
	}
	return export(logg, svc.ExportXLSX, xlsxContentType, "products.xlsx")
}
