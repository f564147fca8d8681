package roas

import (
	"fmt"
	"sort"

	"github.com/angelmondragon/salespulse-backend/internal/products"
	"github.com/shopspring/decimal"
)

// AdSpendRatio is the assumed share of revenue spent on ads. Spend is not
// measured, so overall ROAS is 1/AdSpendRatio whenever there is revenue; the
// alert thresholds below were tuned against that output.
const AdSpendRatio = 0.15

const (
	profitableCap   = 10
	unprofitableCap = 10

	increaseBudgetCap = 3
	decreaseBudgetCap = 3
	restockCap        = 3
	bundleCap         = 2

	unprofitableShare = 0.3
	bundleUnitsShare  = 0.2

	lowROAS          = 3.0
	strongROAS       = 4.0
	unprofitableWarn = 0.3
)

var (
	increaseUpside  = decimal.NewFromFloat(0.20)
	decreaseSavings = decimal.NewFromFloat(0.15)
	restockLoss     = decimal.NewFromFloat(0.50)
)

type SuggestionType string

const (
	SuggestIncreaseBudget SuggestionType = "increase_budget"
	SuggestDecreaseBudget SuggestionType = "decrease_budget"
	SuggestRestock        SuggestionType = "restock"
	SuggestBundle         SuggestionType = "bundle"
)

type AlertLevel string

const (
	AlertInfo     AlertLevel = "info"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// Suggestion is a budget or inventory action with an estimated effect.
type Suggestion struct {
	Type         SuggestionType `json:"type"`
	BaseID       string         `json:"base_id"`
	BaseName     string         `json:"base_name"`
	Message      string         `json:"message"`
	Impact       string         `json:"impact"`
	ImpactAmount float64        `json:"impact_amount"`
}

type Alert struct {
	Level   AlertLevel `json:"level"`
	Message string     `json:"message"`
}

// Summary is the estimated return on ad spend for a product set.
type Summary struct {
	TotalAdSpend float64            `json:"total_ad_spend"`
	TotalRevenue float64            `json:"total_revenue"`
	OverallROAS  float64            `json:"overall_roas"`
	Profitable   []products.Product `json:"profitable"`
	Unprofitable []products.Product `json:"unprofitable"`
	Suggestions  []Suggestion       `json:"suggestions"`
	Alerts       []Alert            `json:"alerts"`
}

// Compute derives the ROAS summary. Every threshold is fixed.
func Compute(list []products.Product) Summary {
	var totalRevenue, totalUnits float64
	for _, p := range list {
		totalRevenue += p.Revenue
		totalUnits += p.UnitsSold
	}
	var avgRevenue, avgUnits float64
	if len(list) > 0 {
		avgRevenue = totalRevenue / float64(len(list))
		avgUnits = totalUnits / float64(len(list))
	}

	adSpend := totalRevenue * AdSpendRatio
	var overall float64
	if adSpend > 0 {
		overall = totalRevenue / adSpend
	}

	profitable := make([]products.Product, 0)
	unprofitable := make([]products.Product, 0)
	for _, p := range list {
		if p.Revenue > avgRevenue {
			profitable = append(profitable, p)
		}
		if p.Revenue > 0 && p.Revenue < avgRevenue*unprofitableShare {
			unprofitable = append(unprofitable, p)
		}
	}
	sort.SliceStable(profitable, func(i, j int) bool { return profitable[i].Revenue > profitable[j].Revenue })
	sort.SliceStable(unprofitable, func(i, j int) bool { return unprofitable[i].Revenue < unprofitable[j].Revenue })
	unprofitableCount := len(unprofitable)

	summary := Summary{
		TotalAdSpend: adSpend,
		TotalRevenue: totalRevenue,
		OverallROAS:  overall,
		Profitable:   capList(profitable, profitableCap),
		Unprofitable: capList(unprofitable, unprofitableCap),
	}
	summary.Suggestions = suggestions(list, summary.Profitable, summary.Unprofitable, avgUnits)
	summary.Alerts = alerts(list, overall, unprofitableCount)
	return summary
}

func suggestions(list, profitable, unprofitable []products.Product, avgUnits float64) []Suggestion {
	out := make([]Suggestion, 0)

	for _, p := range capList(profitable, increaseBudgetCap) {
		amount := share(p.Revenue, increaseUpside)
		out = append(out, Suggestion{
			Type:         SuggestIncreaseBudget,
			BaseID:       p.BaseID,
			BaseName:     p.BaseName,
			Message:      fmt.Sprintf("Raise the ad budget for %s", p.BaseName),
			Impact:       fmt.Sprintf("+%s estimated additional revenue (20%%)", amount.StringFixed(2)),
			ImpactAmount: amount.InexactFloat64(),
		})
	}

	for _, p := range capList(unprofitable, decreaseBudgetCap) {
		amount := share(p.Revenue, decreaseSavings)
		out = append(out, Suggestion{
			Type:         SuggestDecreaseBudget,
			BaseID:       p.BaseID,
			BaseName:     p.BaseName,
			Message:      fmt.Sprintf("Cut the ad budget for %s", p.BaseName),
			Impact:       fmt.Sprintf("%s estimated ad savings (15%%)", amount.StringFixed(2)),
			ImpactAmount: amount.InexactFloat64(),
		})
	}

	restocks := 0
	for _, p := range list {
		if restocks == restockCap {
			break
		}
		if p.StockStatus != products.StockCritical || p.UnitsSold <= avgUnits {
			continue
		}
		amount := share(p.Revenue, restockLoss)
		out = append(out, Suggestion{
			Type:         SuggestRestock,
			BaseID:       p.BaseID,
			BaseName:     p.BaseName,
			Message:      fmt.Sprintf("Restock %s before running more ads", p.BaseName),
			Impact:       fmt.Sprintf("-%s estimated monthly revenue at risk (50%%)", amount.StringFixed(2)),
			ImpactAmount: amount.InexactFloat64(),
		})
		restocks++
	}

	bundles := 0
	for _, p := range list {
		if bundles == bundleCap {
			break
		}
		if p.UnitsSold >= avgUnits*bundleUnitsShare || p.StockStatus != products.StockHealthy {
			continue
		}
		out = append(out, Suggestion{
			Type:     SuggestBundle,
			BaseID:   p.BaseID,
			BaseName: p.BaseName,
			Message:  fmt.Sprintf("Bundle %s with a bestseller", p.BaseName),
			Impact:   fmt.Sprintf("frees %.0f units of slow stock", p.Available),
		})
		bundles++
	}

	return out
}

func alerts(list []products.Product, overall float64, unprofitableCount int) []Alert {
	out := make([]Alert, 0)

	switch {
	case overall < lowROAS:
		out = append(out, Alert{
			Level:   AlertWarning,
			Message: fmt.Sprintf("Overall ROAS %.2f is below %.0f; ad spend is not paying back.", overall, lowROAS),
		})
	case overall >= strongROAS:
		out = append(out, Alert{
			Level:   AlertInfo,
			Message: fmt.Sprintf("Overall ROAS %.2f is strong; there is room to scale campaigns.", overall),
		})
	}

	critical := 0
	for _, p := range list {
		if p.StockStatus == products.StockCritical {
			critical++
		}
	}
	if critical > 0 {
		out = append(out, Alert{
			Level:   AlertCritical,
			Message: fmt.Sprintf("%d product(s) are out of stock or critically low.", critical),
		})
	}

	if len(list) > 0 && float64(unprofitableCount) > float64(len(list))*unprofitableWarn {
		out = append(out, Alert{
			Level:   AlertWarning,
			Message: fmt.Sprintf("%d of %d products earn less than 30%% of the average revenue.", unprofitableCount, len(list)),
		})
	}

	return out
}

func share(revenue float64, ratio decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(revenue).Mul(ratio).Round(2)
}

func capList(list []products.Product, limit int) []products.Product {
	if len(list) <= limit {
		return list
	}
	return list[:limit]
}
