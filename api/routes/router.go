package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wisetee/orderline-backend/api/controllers"
	"github.com/wisetee/orderline-backend/api/middleware"
	"github.com/wisetee/orderline-backend/internal/agent"
	"github.com/wisetee/orderline-backend/internal/alerts"
	"github.com/wisetee/orderline-backend/internal/orders"
	"github.com/wisetee/orderline-backend/pkg/config"
	"github.com/wisetee/orderline-backend/pkg/db"
	"github.com/wisetee/orderline-backend/pkg/logger"
	pkgredis "github.com/wisetee/orderline-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP pkgredis.Pinger,
	idempotencyStore pkgredis.IdempotencyStore,
	agentSvc agent.Service,
	ledger orders.Service,
	dispatcher alerts.Dispatcher,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Post("/chat", controllers.ChatTurn(agentSvc, logg))
		r.Post("/chat/proof", controllers.ChatProof(agentSvc, cfg.Uploads, logg))

		r.Post("/orders", controllers.CreateOrder(ledger, dispatcher, logg))
		r.Get("/orders/{orderNumber}", controllers.GetOrder(ledger, logg))
	})

	// proof images are referenced back to the customer by these URLs
	uploadsFS := http.StripPrefix("/static/uploads/", http.FileServer(http.Dir(cfg.Uploads.Dir)))
	r.Method(http.MethodGet, "/static/uploads/*", uploadsFS)

	return r
}
