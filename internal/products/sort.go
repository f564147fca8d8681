package products

import (
	"sort"
	"strings"
)

// Sort keys accepted by SortProducts.
const (
	SortRevenue   = "revenue"
	SortUnits     = "units"
	SortStock     = "stock"
	SortAvailable = "available"
	SortName      = "name"
	SortAvgPrice  = "avg_price"
)

// SortKeys lists the accepted sort keys.
var SortKeys = []string{SortRevenue, SortUnits, SortStock, SortAvailable, SortName, SortAvgPrice}

// SortProducts returns a stably sorted copy. Unknown keys sort by revenue.
func SortProducts(list []Product, key string, desc bool) []Product {
	out := make([]Product, len(list))
	copy(out, list)

	less := func(a, b Product) bool { return a.Revenue < b.Revenue }
	switch key {
	case SortUnits:
		less = func(a, b Product) bool { return a.UnitsSold < b.UnitsSold }
	case SortStock:
		less = func(a, b Product) bool { return a.StockOnHand < b.StockOnHand }
	case SortAvailable:
		less = func(a, b Product) bool { return a.Available < b.Available }
	case SortName:
		less = func(a, b Product) bool { return strings.ToLower(a.BaseName) < strings.ToLower(b.BaseName) }
	case SortAvgPrice:
		less = func(a, b Product) bool { return a.AvgPrice < b.AvgPrice }
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}
