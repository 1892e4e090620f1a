package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haulstead/dispatch-backend/api/controllers"
	"github.com/haulstead/dispatch-backend/api/middleware"
	authsvc "github.com/haulstead/dispatch-backend/internal/auth"
	customersvc "github.com/haulstead/dispatch-backend/internal/customers"
	jobsvc "github.com/haulstead/dispatch-backend/internal/jobs"
	"github.com/haulstead/dispatch-backend/internal/pricing"
	productsvc "github.com/haulstead/dispatch-backend/internal/products"
	usersrepo "github.com/haulstead/dispatch-backend/internal/users"
	"github.com/haulstead/dispatch-backend/pkg/config"
	"github.com/haulstead/dispatch-backend/pkg/db"
	"github.com/haulstead/dispatch-backend/pkg/enums"
	"github.com/haulstead/dispatch-backend/pkg/logger"
	"github.com/haulstead/dispatch-backend/pkg/metrics"
	"github.com/haulstead/dispatch-backend/pkg/redis"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *db.Client
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics

	AuthService     *authsvc.Service
	PricingService  *pricing.Service
	ProductService  *productsvc.Service
	CustomerService *customersvc.Service
	JobService      jobsvc.Service
	UsersRepo       *usersrepo.Repository
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginLimiter := func(next http.Handler) http.Handler { return next }
	if deps.Redis != nil {
		policy := middleware.NewLoginRateLimitPolicy(
			cfg.AuthRateLimit.LoginWindow,
			cfg.AuthRateLimit.LoginIPLimit,
			cfg.AuthRateLimit.LoginEmailLimit,
		)
		loginLimiter = middleware.LoginRateLimit(policy, deps.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, logg))
	})

	if deps.HTTPMetrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.HTTPMetrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimiter).Post("/login", controllers.Login(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/products", controllers.ListProducts(deps.ProductService, logg))
		r.Get("/products/pricing/{customerID}", controllers.ProductPricing(deps.PricingService, logg))

		r.Route("/admin/products", func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(logg, enums.UserRoleAdmin))
			r.Post("/", controllers.CreateProduct(deps.ProductService, logg))
			r.Get("/{productID}", controllers.GetProduct(deps.ProductService, logg))
			r.Put("/{productID}", controllers.UpdateProduct(deps.ProductService, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(deps.ProductService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Use(middleware.RequireStaff(logg))
			r.Post("/", controllers.CreateCustomer(deps.CustomerService, logg))
			r.Get("/", controllers.ListCustomers(deps.CustomerService, logg))
			r.Get("/{customerID}", controllers.GetCustomer(deps.CustomerService, logg))
			r.Put("/{customerID}", controllers.UpdateCustomer(deps.CustomerService, logg))
			r.Delete("/{customerID}", controllers.DeleteCustomer(deps.CustomerService, logg))
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", controllers.ListJobs(deps.JobService, logg))
			r.Get("/{jobID}", controllers.GetJob(deps.JobService, logg))
			// Field-level gating for drivers happens in the job service.
			r.Put("/{jobID}", controllers.UpdateJob(deps.JobService, logg))

			r.With(middleware.RequireStaff(logg)).Post("/", controllers.CreateJob(deps.JobService, logg))
			r.With(middleware.RequireStaff(logg)).Delete("/{jobID}", controllers.DeleteJob(deps.JobService, logg))
		})

		r.With(middleware.RequireAnyRole(logg, enums.UserRoleDriver)).
			Get("/driver/jobs", controllers.DriverJobs(deps.JobService, logg))

		r.With(middleware.RequireStaff(logg)).
			Get("/drivers", controllers.ListDrivers(deps.UsersRepo, logg))
	})

	return r
}
