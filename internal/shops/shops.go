package shops

import (
	"sort"
	"strings"

	"github.com/angelmondragon/salespulse-backend/internal/columns"
	"github.com/angelmondragon/salespulse-backend/internal/dataset"
	"github.com/angelmondragon/salespulse-backend/internal/products"
	"github.com/shopspring/decimal"
)

// DefaultChannel collects rows without a channel label.
const DefaultChannel = "Other"

var hundred = decimal.NewFromInt(100)

// Summary is the revenue picture of one sales channel. Rows are counted as
// they come, so variants of one product are not collapsed.
type Summary struct {
	ShopName          string  `json:"shop_name"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalUnitsSold    float64 `json:"total_units_sold"`
	ProductCount      int     `json:"product_count"`
	PercentageOfTotal float64 `json:"percentage_of_total"`
}

type bucket struct {
	revenue decimal.Decimal
	units   float64
	baseIDs map[string]struct{}
}

// Summarize groups the records inside r by channel. Undated records always pass
// the filter.
func Summarize(records []dataset.Record, r dataset.DateRange) []Summary {
	buckets := make(map[string]*bucket)
	total := decimal.Zero

	for _, record := range dataset.Filter(records, r) {
		row := record.Fields
		channel := strings.TrimSpace(columns.TextOf(row, columns.Channel))
		if channel == "" {
			channel = DefaultChannel
		}

		b, ok := buckets[channel]
		if !ok {
			b = &bucket{revenue: decimal.Zero, baseIDs: make(map[string]struct{})}
			buckets[channel] = b
		}

		revenue := decimal.NewFromFloat(columns.NumberOf(row, columns.Revenue))
		b.revenue = b.revenue.Add(revenue)
		b.units += columns.NumberOf(row, columns.UnitsSold)
		total = total.Add(revenue)

		if baseID := products.ExtractBaseID(columns.TextOf(row, columns.SKU)); baseID != "" {
			b.baseIDs[baseID] = struct{}{}
		}
	}

	out := make([]Summary, 0, len(buckets))
	for name, b := range buckets {
		summary := Summary{
			ShopName:       name,
			TotalRevenue:   b.revenue.InexactFloat64(),
			TotalUnitsSold: b.units,
			ProductCount:   len(b.baseIDs),
		}
		if !total.IsZero() {
			summary.PercentageOfTotal = b.revenue.Div(total).Mul(hundred).Round(2).InexactFloat64()
		}
		out = append(out, summary)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		return out[i].ShopName < out[j].ShopName
	})
	return out
}

// Find returns the summary for a channel name, case-insensitively.
func Find(list []Summary, name string) (Summary, bool) {
	for _, s := range list {
		if strings.EqualFold(s.ShopName, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Summary{}, false
}
