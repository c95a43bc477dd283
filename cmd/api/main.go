package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/slobi-app/slobi-backend/api/routes"
	"github.com/slobi-app/slobi-backend/internal/callback"
	"github.com/slobi-app/slobi-backend/internal/checkout"
	"github.com/slobi-app/slobi-backend/internal/creators"
	"github.com/slobi-app/slobi-backend/internal/finance"
	"github.com/slobi-app/slobi-backend/internal/notifications"
	product "github.com/slobi-app/slobi-backend/internal/products"
	"github.com/slobi-app/slobi-backend/internal/purchases"
	"github.com/slobi-app/slobi-backend/pkg/config"
	"github.com/slobi-app/slobi-backend/pkg/db"
	"github.com/slobi-app/slobi-backend/pkg/logger"
	"github.com/slobi-app/slobi-backend/pkg/metrics"
	"github.com/slobi-app/slobi-backend/pkg/migrate"
	"github.com/slobi-app/slobi-backend/pkg/paystack"
	"github.com/slobi-app/slobi-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	paystackClient, err := paystack.NewClient(context.Background(), cfg.Paystack, logg, paymentMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create paystack client", err)
		os.Exit(1)
	}

	creatorsRepo := creators.NewRepository(dbClient.DB())
	productsRepo := product.NewRepository(dbClient.DB())
	purchasesRepo := purchases.NewRepository(dbClient.DB())
	financeRepo := finance.NewRepository(dbClient.DB())

	productService, err := product.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	creatorService, err := creators.NewService(creatorsRepo, productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create creator service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Products: productsRepo,
		Gateway:  paystackClient,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	dispatcher, err := notifications.NewLogDispatcher(logg, cfg.Receipts.FromAddress)
	if err != nil {
		logg.Error(context.Background(), "failed to create receipt dispatcher", err)
		os.Exit(1)
	}

	callbackService, err := callback.NewService(callback.ServiceParams{
		Purchases:  purchasesRepo,
		Products:   productsRepo,
		Verifier:   paystackClient,
		Guard:      callback.NewGuard(redisClient, cfg.Paystack.CallbackDedupeTTL),
		Dispatcher: dispatcher,
		Logger:     logg,
		Metrics:    paymentMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create callback service", err)
		os.Exit(1)
	}

	purchaseService, err := purchases.NewService(purchasesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase service", err)
		os.Exit(1)
	}

	financeService, err := finance.NewService(finance.ServiceParams{
		Repo:    financeRepo,
		Gateway: paystackClient,
		Logger:  logg,
		Metrics: paymentMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create finance service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			creatorService,
			productService,
			checkoutService,
			callbackService,
			purchaseService,
			financeService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
