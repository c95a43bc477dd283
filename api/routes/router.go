package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/slobi-app/slobi-backend/api/controllers"
	"github.com/slobi-app/slobi-backend/api/middleware"
	callbacksvc "github.com/slobi-app/slobi-backend/internal/callback"
	checkoutsvc "github.com/slobi-app/slobi-backend/internal/checkout"
	"github.com/slobi-app/slobi-backend/internal/creators"
	"github.com/slobi-app/slobi-backend/internal/finance"
	products "github.com/slobi-app/slobi-backend/internal/products"
	"github.com/slobi-app/slobi-backend/internal/purchases"
	"github.com/slobi-app/slobi-backend/pkg/config"
	"github.com/slobi-app/slobi-backend/pkg/db"
	"github.com/slobi-app/slobi-backend/pkg/logger"
	"github.com/slobi-app/slobi-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry prometheus.Gatherer,
	creatorService creators.Service,
	productService products.Service,
	checkoutService checkoutsvc.Service,
	callbackService callbacksvc.Service,
	purchaseService purchases.Service,
	financeService finance.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/storefront/{slug}", controllers.GetStorefront(creatorService, logg))
		r.Post("/checkout", controllers.StartCheckout(checkoutService, logg))
		r.Get("/paystack/callback", controllers.PaystackCallback(callbackService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.CreateProduct(productService, logg))
				r.Get("/", controllers.ListProducts(productService, logg))
				r.Get("/{productID}", controllers.GetProduct(productService, logg))
				r.Patch("/{productID}", controllers.UpdateProduct(productService, logg))
				r.Post("/{productID}/end-discount", controllers.EndProductDiscount(productService, logg))
				r.Delete("/{productID}", controllers.DeleteProduct(productService, logg))
			})

			r.Route("/purchases", func(r chi.Router) {
				r.Get("/", controllers.ListPurchases(purchaseService, logg))
				r.Get("/{reference}", controllers.GetPurchase(purchaseService, logg))
			})

			r.Route("/finance", func(r chi.Router) {
				r.Get("/balance", controllers.GetBalance(financeService, logg))
				r.Get("/bank-account", controllers.GetBankAccount(financeService, logg))
				r.Post("/bank-account", controllers.SetupBankAccount(financeService, logg))
				r.Post("/withdrawals", controllers.RequestWithdrawal(financeService, logg))
				r.Get("/withdrawals", controllers.ListWithdrawals(financeService, logg))
				r.Get("/banks", controllers.ListBanks(financeService, logg))
				r.Post("/resolve-account", controllers.ResolveAccount(financeService, logg))
			})
		})
	})

	return r
}
