package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/haulstead/dispatch-backend/api/routes"
	authsvc "github.com/haulstead/dispatch-backend/internal/auth"
	customersvc "github.com/haulstead/dispatch-backend/internal/customers"
	jobsvc "github.com/haulstead/dispatch-backend/internal/jobs"
	"github.com/haulstead/dispatch-backend/internal/pricing"
	productsvc "github.com/haulstead/dispatch-backend/internal/products"
	usersrepo "github.com/haulstead/dispatch-backend/internal/users"
	"github.com/haulstead/dispatch-backend/pkg/config"
	"github.com/haulstead/dispatch-backend/pkg/db"
	"github.com/haulstead/dispatch-backend/pkg/logger"
	"github.com/haulstead/dispatch-backend/pkg/metrics"
	"github.com/haulstead/dispatch-backend/pkg/migrate"
	"github.com/haulstead/dispatch-backend/pkg/redis"
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

	// Bring the products table up to the dual-price shape. The app starts
	// even when reconciliation partially fails; price reads degrade per the
	// resolved capability.
	capability := pricing.ResolveCapability(dbClient.DB())
	if cfg.FeatureFlags.ReconcilePricing {
		capability = pricing.NewReconciler(dbClient.DB(), logg).Run(context.Background())
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, login rate limiting disabled")
	}

	usersRepo := usersrepo.NewRepository(dbClient.DB())
	customersRepo := customersvc.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(usersRepo, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	pricingService, err := pricing.NewService(pricing.NewRepository(dbClient.DB()), customersRepo, capability)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productsvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	customerService, err := customersvc.NewService(customersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	jobService, err := jobsvc.NewService(jobsvc.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create job service", err)
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
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			HTTPMetrics:     metrics.NewHTTPMetrics(),
			AuthService:     authService,
			PricingService:  pricingService,
			ProductService:  productService,
			CustomerService: customerService,
			JobService:      jobService,
			UsersRepo:       usersRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
