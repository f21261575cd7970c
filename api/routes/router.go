package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/controllers"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/middleware"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/accounts"
	authsvc "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/auth"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/cart"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/catalog"
	checkoutsvc "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/checkout"
	ordersvc "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/orders"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/auth/session"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/config"
	dbpkg "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/logger"
	pkgredis "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/redis"
)

// Deps bundles everything the router mounts. Redis and the metrics registry
// may be nil; the middleware that depends on them degrades to pass-through.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       dbpkg.Pinger
	Redis    *pkgredis.Client
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry

	Auth     authsvc.Service
	Register authsvc.RegisterService
	Catalog  catalog.Service
	Accounts accounts.Service
	Cart     cart.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginCredentialLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterCredentialLimit,
	)

	sessionChecker := deps.Sessions

	var cachePinger pkgredis.Pinger
	if deps.Redis != nil {
		cachePinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, cachePinger, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(authRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(
			authRateLimit(registerPolicy, deps.Redis, logg),
			idempotency(deps.Redis, logg),
		).Post("/register", controllers.AuthRegister(deps.Register, logg))
		if !cfg.App.IsProd() {
			r.With(authRateLimit(registerPolicy, deps.Redis, logg)).
				Post("/register-staff", controllers.AuthRegisterStaff(deps.Register, logg))
		}
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
	})

	// Public storefront surface. Checkout stays public so anonymous buyers can
	// use the direct purchase path; the auth middleware only decorates the
	// context when a token is present.
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/artists", func(r chi.Router) {
			r.Get("/", controllers.ListArtists(deps.Catalog, logg))
			r.Get("/{artistID}", controllers.GetArtist(deps.Catalog, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Get("/new-releases", controllers.ListNewReleases(deps.Catalog, logg))
			r.Get("/{productID}", controllers.GetProduct(deps.Catalog, logg))
		})

		r.With(
			middleware.OptionalAuth(cfg.JWT, sessionChecker, logg),
			idempotency(deps.Redis, logg),
		).Post("/checkout", controllers.Checkout(deps.Checkout, logg))
		r.Get("/checkout/confirmation/{orderID}", controllers.CheckoutConfirmation(deps.Orders, logg))
	})

	// Authenticated customer surface.
	r.Route("/api/v1/customers", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Get("/me", controllers.CustomerMe(deps.Accounts, logg))
		r.Put("/me", controllers.CustomerUpdateMe(deps.Accounts, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(idempotency(deps.Redis, logg))
		r.Get("/", controllers.CartView(deps.Cart, logg))
		r.Post("/lines", controllers.CartAddLine(deps.Cart, logg))
		r.Put("/lines/{lineID}", controllers.CartUpdateLine(deps.Cart, logg))
		r.Delete("/lines/{lineID}", controllers.CartRemoveLine(deps.Cart, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Get("/mine", controllers.MyOrders(deps.Orders, logg))
		r.Get("/{orderID}", controllers.MyOrderDetail(deps.Orders, logg))
	})

	// Staff surface.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RequireStaff(logg))

		r.Route("/artists", func(r chi.Router) {
			r.Post("/", controllers.CreateArtist(deps.Catalog, logg))
			r.Put("/{artistID}", controllers.UpdateArtist(deps.Catalog, logg))
			r.Delete("/{artistID}", controllers.DeleteArtist(deps.Catalog, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(deps.Catalog, logg))
			r.Put("/{productID}", controllers.UpdateProduct(deps.Catalog, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(deps.Catalog, logg))
		})
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminListCustomers(deps.Accounts, logg))
			r.Get("/{customerID}", controllers.AdminGetCustomer(deps.Accounts, logg))
			r.Put("/{customerID}", controllers.AdminUpdateCustomer(deps.Accounts, logg))
			r.Delete("/{customerID}", controllers.AdminDeleteCustomer(deps.Accounts, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
			r.Get("/{orderID}", controllers.AdminGetOrder(deps.Orders, logg))
			r.Put("/{orderID}", controllers.AdminUpdateOrder(deps.Orders, logg))
			r.Delete("/{orderID}", controllers.AdminDeleteOrder(deps.Orders, logg))
			r.Get("/{orderID}/lines", controllers.AdminListOrderLines(deps.Orders, logg))
			r.Put("/lines/{lineID}", controllers.AdminUpdateOrderLine(deps.Orders, logg))
			r.Delete("/lines/{lineID}", controllers.AdminDeleteOrderLine(deps.Orders, logg))
		})
	})

	return r
}

// A nil *redis.Client stored in an interface would dodge the middleware's own
// nil checks, so the pass-through decision happens here.
func authRateLimit(policy middleware.AuthRateLimitPolicy, client *pkgredis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if client == nil {
		return passthrough
	}
	return middleware.AuthRateLimit(policy, client, logg)
}

func idempotency(client *pkgredis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	if client == nil {
		return passthrough
	}
	return middleware.Idempotency(client, logg)
}

func passthrough(next http.Handler) http.Handler {
	return next
}
