package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/salespulse-backend/api/controllers"
	"github.com/angelmondragon/salespulse-backend/api/middleware"
	"github.com/angelmondragon/salespulse-backend/pkg/config"
	"github.com/angelmondragon/salespulse-backend/pkg/logger"
	"github.com/angelmondragon/salespulse-backend/pkg/metrics"
)

// Deps groups what the router wires into controllers. Readiness pings every
// non-nil entry of Pingers; Gatherer defaults to the global prometheus registry.
type Deps struct {
	Insights    controllers.InsightsService
	Pingers     map[string]controllers.Pinger
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	svc := deps.Insights
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard", controllers.Dashboard(svc, logg))
		r.Get("/products", controllers.ProductList(svc, logg))
		r.Get("/products/{baseID}/variants", controllers.ProductVariants(svc, logg))
		r.Get("/recommendations", controllers.Recommendations(svc, logg))
		r.Get("/roas", controllers.ROAS(svc, logg))
		r.Get("/shops", controllers.Shops(svc, logg))
		r.Get("/campaigns", controllers.Campaigns(svc, logg))
		r.Get("/status", controllers.FetchStatus(svc, logg))
		r.Post("/refresh", controllers.Refresh(svc, logg))

		r.Route("/export", func(r chi.Router) {
			r.Get("/products.csv", controllers.ExportProductsCSV(svc, logg))
			r.Get("/products.xlsx", controllers.ExportProductsXLSX(svc, logg))
		})
	})

	return r
}
