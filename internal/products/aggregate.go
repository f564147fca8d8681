package products

import (
	"github.com/angelmondragon/salespulse-backend/internal/columns"
	"github.com/angelmondragon/salespulse-backend/internal/dataset"
)

// Product is one base article with all of its variant rows folded in.
type Product struct {
	BaseID       string      `json:"base_id"`
	BaseName     string      `json:"base_name"`
	UnitsSold    float64     `json:"units_sold"`
	Revenue      float64     `json:"revenue"`
	StockOnHand  float64     `json:"stock_on_hand"`
	InOrders     float64     `json:"in_orders"`
	Available    float64     `json:"available"`
	VariantCount int         `json:"variant_count"`
	AvgPrice     float64     `json:"avg_price"`
	StockStatus  StockStatus `json:"stock_status"`
	SalesChannel string      `json:"sales_channel"`
}

// Line is a single raw row resolved into canonical fields.
type Line struct {
	SKU          string
	Name         string
	BaseID       string
	BaseName     string
	UnitsSold    float64
	Revenue      float64
	StockOnHand  float64
	InOrders     float64
	Available    float64
	SalesChannel string
}

// Resolve reads the canonical fields of one row. Rows without an available
// column get stock on hand minus what is already promised to open orders.
func Resolve(row dataset.RawRow) Line {
	sku := columns.TextOf(row, columns.SKU)
	name := columns.TextOf(row, columns.Name)
	line := Line{
		SKU:          sku,
		Name:         name,
		BaseID:       ExtractBaseID(sku),
		BaseName:     ExtractBaseName(name),
		UnitsSold:    columns.NumberOf(row, columns.UnitsSold),
		Revenue:      columns.NumberOf(row, columns.Revenue),
		StockOnHand:  columns.NumberOf(row, columns.Stock),
		InOrders:     columns.NumberOf(row, columns.InOrders),
		SalesChannel: columns.TextOf(row, columns.Channel),
	}
	if value, ok := columns.Resolve(row, columns.Available); ok {
		line.Available = columns.Number(value)
	} else {
		line.Available = line.StockOnHand - line.InOrders
	}
	return line
}

// Aggregate groups rows by base ID in first-seen order and sums their numbers.
// Rows missing a base ID or base name are skipped, and groups whose revenue,
// units and stock are all zero are dropped as noise. The channel of the last
// row with a non-empty label wins.
func Aggregate(rows []dataset.RawRow) []Product {
	index := make(map[string]int)
	grouped := make([]Product, 0)

	for _, row := range rows {
		line := Resolve(row)
		if line.BaseID == "" || line.BaseName == "" {
			continue
		}

		i, ok := index[line.BaseID]
		if !ok {
			i = len(grouped)
			index[line.BaseID] = i
			grouped = append(grouped, Product{
				BaseID:   line.BaseID,
				BaseName: line.BaseName,
			})
		}

		p := &grouped[i]
		p.UnitsSold += line.UnitsSold
		p.Revenue += line.Revenue
		p.StockOnHand += line.StockOnHand
		p.InOrders += line.InOrders
		p.Available += line.Available
		p.VariantCount++
		if line.SalesChannel != "" {
			p.SalesChannel = line.SalesChannel
		}
	}

	out := make([]Product, 0, len(grouped))
	for _, p := range grouped {
		if p.Revenue == 0 && p.UnitsSold == 0 && p.StockOnHand == 0 {
			continue
		}
		if p.UnitsSold != 0 {
			p.AvgPrice = p.Revenue / p.UnitsSold
		}
		p.StockStatus = ClassifyStock(p.Available)
		out = append(out, p)
	}
	return out
}

// Find returns the product with baseID.
func Find(list []Product, baseID string) (Product, bool) {
	for _, p := range list {
		if p.BaseID == baseID {
			return p, true
		}
	}
	return Product{}, false
}
