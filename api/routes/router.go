package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/pizzapos-backend/api/controllers"
	"github.com/angelmondragon/pizzapos-backend/api/middleware"
	"github.com/angelmondragon/pizzapos-backend/pkg/config"
	"github.com/angelmondragon/pizzapos-backend/pkg/logger"
)

// Terminal is everything the HTTP surface needs from the POS terminal.
type Terminal interface {
	controllers.MenuService
	controllers.CartService
	controllers.CheckoutService
	controllers.OrdersService
	controllers.DeliveryService
	controllers.RegisterService
	controllers.SmartOrderService
}

// Deps carries the optional collaborators of the router.
type Deps struct {
	// Ready lists the dependencies probed by /health/ready.
	Ready map[string]controllers.Pinger
	// Counters backs the smart-order rate limit; nil disables it.
	Counters middleware.CounterStore
	// Gatherer is exposed on the metrics path when metrics are enabled.
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, term Terminal, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	smartOrderPolicy := middleware.NewRateLimitPolicy(
		"smart_order",
		cfg.SmartOrder.RateWindow,
		cfg.SmartOrder.RateLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.Handle(metricsPath(cfg), promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(term, logg))
		r.Get("/delivery-fees", controllers.ListDeliveryFees(term, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(term, logg))
			r.Delete("/", controllers.ClearCart(term, logg))
			r.Post("/lines", controllers.AddCartLine(term, logg))
			r.Patch("/lines/{lineId}", controllers.UpdateCartLine(term, logg))
			r.Delete("/lines/{lineId}", controllers.RemoveCartLine(term, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.BeginCheckout(term, logg))
			r.Get("/", controllers.GetCheckout(term, logg))
			r.Put("/", controllers.UpdateCheckout(term, logg))
			r.Delete("/", controllers.CancelCheckout(term, logg))
			r.Post("/payments", controllers.AddPayment(term, logg))
			r.Delete("/payments/{index}", controllers.RemovePayment(term, logg))
			r.Post("/confirm", controllers.ConfirmCheckout(term, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(term, logg))
			r.Get("/{orderId}", controllers.GetOrder(term, logg))
			r.Get("/{orderId}/receipt", controllers.OrderReceipt(term, logg))
			r.Post("/{orderId}/fiscal", controllers.SubmitFiscal(term, logg))
		})
		r.Get("/fiscal/status", controllers.FiscalStatus(term, logg))

		r.Get("/deliveries", controllers.ListDeliveries(term, logg))
		r.Post("/deliveries/{orderId}/complete", controllers.CompleteDelivery(term, logg))

		r.Route("/couriers", func(r chi.Router) {
			r.Get("/", controllers.ListCouriers(term, logg))
			r.Post("/", controllers.CreateCourier(term, logg))
			r.Patch("/{courierId}", controllers.UpdateCourier(term, logg))
			r.Delete("/{courierId}", controllers.DeleteCourier(term, logg))
		})

		r.Get("/customers", controllers.ListCustomers(term, logg))

		r.Route("/register", func(r chi.Router) {
			r.Get("/", controllers.RegisterStatus(term, logg))
			r.Post("/open", controllers.OpenRegister(term, logg))
			r.Post("/close", controllers.CloseRegister(term, logg))
		})

		r.With(middleware.RateLimit(smartOrderPolicy, deps.Counters, logg)).
			Post("/smart-order", controllers.SmartOrder(term, logg))
	})

	return r
}

func metricsPath(cfg *config.Config) string {
	if cfg.Metrics.Path == "" {
		return "/metrics"
	}
	return cfg.Metrics.Path
}
