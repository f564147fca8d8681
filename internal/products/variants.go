package products

import "github.com/angelmondragon/salespulse-backend/internal/dataset"

// VariantStock is the per-row stock picture of one base product. Aggregation
// can hide a sold-out variant behind a healthy sibling; this view does not.
type VariantStock struct {
	SKU          string      `json:"sku"`
	Name         string      `json:"name"`
	UnitsSold    float64     `json:"units_sold"`
	Available    float64     `json:"available"`
	StockStatus  StockStatus `json:"stock_status"`
	SalesChannel string      `json:"sales_channel"`
}

// Variants lists the rows that fold into baseID, in row order.
func Variants(rows []dataset.RawRow, baseID string) []VariantStock {
	out := make([]VariantStock, 0)
	for _, row := range rows {
		line := Resolve(row)
		if line.BaseID == "" || line.BaseName == "" || line.BaseID != baseID {
			continue
		}
		out = append(out, VariantStock{
			SKU:          line.SKU,
			Name:         line.Name,
			UnitsSold:    line.UnitsSold,
			Available:    line.Available,
			StockStatus:  ClassifyStock(line.Available),
			SalesChannel: line.SalesChannel,
		})
	}
	return out
}

// CriticalVariants filters variants whose own stock is critical.
func CriticalVariants(variants []VariantStock) []VariantStock {
	out := make([]VariantStock, 0)
	for _, v := range variants {
		if v.StockStatus == StockCritical {
			out = append(out, v)
		}
	}
	return out
}
