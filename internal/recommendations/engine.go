package recommendations

import (
	"fmt"
	"sort"

	"github.com/angelmondragon/salespulse-backend/internal/products"
)

type Kind string

const (
	KindOpportunity Kind = "opportunity"
	KindWaste       Kind = "waste"
	KindOptimize    Kind = "optimize"
	KindAdsInvest   Kind = "ads_invest"
	KindAdsReduce   Kind = "ads_reduce"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is one heuristic hint about a base product.
type Recommendation struct {
	BaseID   string   `json:"base_id"`
	BaseName string   `json:"base_name"`
	Kind     Kind     `json:"kind"`
	Priority Priority `json:"priority"`
	Message  string   `json:"message"`
	Details  string   `json:"details"`
}

// Result splits recommendations into what to push and what to cut.
type Result struct {
	Opportunities []Recommendation `json:"opportunities"`
	Waste         []Recommendation `json:"waste"`
}

// Averages are the set-wide means the rules compare against.
type Averages struct {
	Revenue float64 `json:"revenue"`
	Units   float64 `json:"units"`
}

// AveragesOf computes mean revenue and units, zero for an empty set.
func AveragesOf(list []products.Product) Averages {
	if len(list) == 0 {
		return Averages{}
	}
	var revenue, units float64
	for _, p := range list {
		revenue += p.Revenue
		units += p.UnitsSold
	}
	n := float64(len(list))
	return Averages{Revenue: revenue / n, Units: units / n}
}

type rule struct {
	kind     Kind
	priority Priority
	match    func(p products.Product, avg Averages) bool
	message  func(p products.Product, avg Averages) (string, string)
}

// Rules are evaluated in this order for every product; a product may match
// several of them.
var rules = []rule{
	{
		kind:     KindAdsInvest,
		priority: PriorityHigh,
		match: func(p products.Product, avg Averages) bool {
			return p.Revenue > avg.Revenue*1.5 && p.StockStatus == products.StockHealthy
		},
		message: func(p products.Product, avg Averages) (string, string) {
			return fmt.Sprintf("Increase ad spend for %s", p.BaseName),
				fmt.Sprintf("Revenue %.2f is well above the average of %.2f and stock is healthy (%.0f available).", p.Revenue, avg.Revenue, p.Available)
		},
	},
	{
		kind:     KindOpportunity,
		priority: PriorityMedium,
		match: func(p products.Product, avg Averages) bool {
			return p.Revenue < avg.Revenue*0.3 && p.Available > 10
		},
		message: func(p products.Product, avg Averages) (string, string) {
			return fmt.Sprintf("Improve listing SEO for %s", p.BaseName),
				fmt.Sprintf("Revenue %.2f trails the average of %.2f while %.0f units sit in stock; titles, keywords and images are worth revisiting.", p.Revenue, avg.Revenue, p.Available)
		},
	},
	{
		kind:     KindOptimize,
		priority: PriorityLow,
		match: func(p products.Product, avg Averages) bool {
			return p.UnitsSold < avg.Units*0.2 && p.Available > 5
		},
		message: func(p products.Product, avg Averages) (string, string) {
			return fmt.Sprintf("Bundle %s with a bestseller", p.BaseName),
				fmt.Sprintf("Only %.0f units sold against an average of %.1f; %.0f units available could move in a bundle.", p.UnitsSold, avg.Units, p.Available)
		},
	},
	{
		kind:     KindWaste,
		priority: PriorityHigh,
		match: func(p products.Product, avg Averages) bool {
			return p.StockStatus == products.StockCritical && p.UnitsSold > avg.Units
		},
		message: func(p products.Product, avg Averages) (string, string) {
			return fmt.Sprintf("Restock %s now", p.BaseName),
				fmt.Sprintf("Sells above average (%.0f vs %.1f units) but only %.0f units are available; ads are driving traffic to an empty shelf.", p.UnitsSold, avg.Units, p.Available)
		},
	},
	{
		kind:     KindAdsReduce,
		priority: PriorityMedium,
		match: func(p products.Product, avg Averages) bool {
			return p.Revenue < avg.Revenue*0.1 && p.UnitsSold < avg.Units*0.1
		},
		message: func(p products.Product, avg Averages) (string, string) {
			return fmt.Sprintf("Reduce ad spend for %s", p.BaseName),
				fmt.Sprintf("Revenue %.2f and %.0f units sold are both under a tenth of the average.", p.Revenue, p.UnitsSold)
		},
	},
}

// Generate applies every rule to every product, in product order then rule
// order, and splits the matches by kind.
func Generate(list []products.Product) Result {
	avg := AveragesOf(list)
	result := Result{
		Opportunities: make([]Recommendation, 0),
		Waste:         make([]Recommendation, 0),
	}
	for _, p := range list {
		for _, r := range rules {
			if !r.match(p, avg) {
				continue
			}
			message, details := r.message(p, avg)
			rec := Recommendation{
				BaseID:   p.BaseID,
				BaseName: p.BaseName,
				Kind:     r.kind,
				Priority: r.priority,
				Message:  message,
				Details:  details,
			}
			if IsWaste(r.kind) {
				result.Waste = append(result.Waste, rec)
			} else {
				result.Opportunities = append(result.Opportunities, rec)
			}
		}
	}
	return result
}

// IsWaste reports whether kind belongs in the waste list.
func IsWaste(kind Kind) bool {
	return kind == KindWaste || kind == KindAdsReduce
}

var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// SortByPriority returns a copy ordered high, medium, low, keeping rule order
// within a priority.
func SortByPriority(recs []Recommendation) []Recommendation {
	out := make([]Recommendation, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
	})
	return out
}
