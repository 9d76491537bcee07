package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockscan/stockscan-backend/api/controllers"
	"github.com/stockscan/stockscan-backend/api/middleware"
	catalogsvc "github.com/stockscan/stockscan-backend/internal/catalog"
	"github.com/stockscan/stockscan-backend/internal/scan"
	"github.com/stockscan/stockscan-backend/internal/trade"
	"github.com/stockscan/stockscan-backend/pkg/config"
	"github.com/stockscan/stockscan-backend/pkg/logger"
	"github.com/stockscan/stockscan-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	deps map[string]controllers.Pinger,
	catalogService catalogsvc.Service,
	scanManager *scan.Manager,
	aggregator *trade.Aggregator,
	worklist *trade.Worklist,
	gate *trade.Gate,
	httpMetrics *metrics.HTTPMetrics,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(catalogService, logg))
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(catalogService, logg))
			r.Post("/delete", controllers.DeleteProducts(catalogService, logg))
		})

		r.Get("/catalog/lookup", controllers.LookupProduct(catalogService, logg))

		r.Route("/scan/sessions", func(r chi.Router) {
			r.Post("/", controllers.StartScanSession(scanManager, logg))
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", controllers.GetScanSession(scanManager, logg))
				r.Delete("/", controllers.CloseScanSession(scanManager, logg))
				r.Post("/frames", controllers.SubmitScanFrame(scanManager, logg))
				r.Post("/manual-mode", controllers.EnterManualMode(scanManager, logg))
				r.Post("/manual", controllers.SubmitManualCode(scanManager, logg))
				r.Post("/restart", controllers.RestartScanSession(scanManager, logg))
				r.Post("/result", controllers.TakeScanResult(scanManager, logg))
			})
		})

		r.Route("/worklist", func(r chi.Router) {
			r.Get("/", controllers.GetWorklist(worklist, logg))
			r.Post("/items", controllers.CommitTradeLine(catalogService, aggregator, logg))
			r.Delete("/items/{index}", controllers.RemoveWorklistItem(worklist, logg))
			r.Post("/clear", controllers.ClearWorklist(worklist, gate, logg))
			r.Post("/clear/confirm", controllers.ConfirmClearWorklist(worklist, gate, logg))
			r.Get("/filters", controllers.WorklistFilterOptions(worklist, logg))
			r.Get("/export", controllers.ExportWorklist(worklist, logg))
		})

		r.Get("/stats", controllers.Stats(catalogService, worklist, logg))
	})

	return r
}
