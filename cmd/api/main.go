package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/api/routes"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/accounts"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/auth"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/cart"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/catalog"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/checkout"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/checkout/reservation"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/internal/orders"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/auth/session"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/config"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/db"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/logger"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/metrics"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/migrate"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/outbox"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	gormDB := dbClient.DB()
	catalogRepo := catalog.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	accountsService, err := accounts.NewService(accounts.NewRepository(gormDB), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create accounts service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	engine, err := reservation.NewEngine(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reservation engine", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	checkoutService, err := checkout.NewService(
		dbClient,
		engine,
		cartRepo,
		catalogRepo,
		ordersRepo,
		accountsService,
		outboxService,
		checkoutMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Identities:     auth.NewRepository(gormDB),
		Customers:      accountsService,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		Customers:      accountsService,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Sessions: sessionManager,
		Registry: registry,
		Auth:     authService,
		Register: registerService,
		Catalog:  catalogService,
		Accounts: accountsService,
		Cart:     cartService,
		Checkout: checkoutService,
		Orders:   ordersService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}
