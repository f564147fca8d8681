package products

// StockStatus is the three-level health of available inventory.
type StockStatus string

const (
	StockHealthy  StockStatus = "healthy"
	StockWarning  StockStatus = "warning"
	StockCritical StockStatus = "critical"
)

const (
	healthyAbove = 10
	warningFrom  = 1
)

// ClassifyStock maps an available quantity to a status: above 10 is healthy,
// 1 through 10 is warning, anything below 1 (negative included) is critical.
func ClassifyStock(available float64) StockStatus {
	switch {
	case available > healthyAbove:
		return StockHealthy
	case available >= warningFrom:
		return StockWarning
	default:
		return StockCritical
	}
}
