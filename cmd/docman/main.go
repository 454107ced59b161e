package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/docmanhq/docman/pkg/api"
	"github.com/docmanhq/docman/pkg/auth"
	"github.com/docmanhq/docman/pkg/config"
	"github.com/docmanhq/docman/pkg/httputil"
	"github.com/docmanhq/docman/pkg/middleware"
	"github.com/docmanhq/docman/pkg/observability"
	"github.com/docmanhq/docman/pkg/storage"
	"github.com/docmanhq/docman/pkg/storage/postgres"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Info("Starting DocMan API")

	// Connect to PostgreSQL and prepare the schema
	db, err := postgres.Connect(postgres.ConnectionConfig{
		URL:         cfg.Storage.PostgresURL,
		MaxConns:    cfg.Storage.PostgresMaxConns,
		MinConns:    cfg.Storage.PostgresMinConns,
		Timeout:     cfg.Storage.PostgresTimeout,
		MaxLifetime: cfg.Storage.PostgresMaxLifetime,
		MaxIdleTime: 5 * time.Minute,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to connect to PostgreSQL")
		os.Exit(1)
	}

	ctx := context.Background()
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.WithError(err).Error("Failed to run migrations")
		os.Exit(1)
	}
	if err := postgres.Seed(ctx, db, cfg.Auth.AdminPassword); err != nil {
		logger.WithError(err).Error("Failed to seed bootstrap data")
		os.Exit(1)
	}

	// Redis backs the credential rate limiter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Storage.RedisAddr,
		Password: cfg.Storage.RedisPassword,
		DB:       cfg.Storage.RedisDB,
		PoolSize: cfg.Storage.RedisPoolSize,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// The limiter fails open, so a dead Redis degrades rather than stops us
		logger.WithError(err).Warn("Redis unreachable, credential rate limiting disabled until it recovers")
	}

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	store := storage.Instrument(postgres.NewStore(db), metrics)

	collectorCtx, stopCollector := context.WithCancel(ctx)
	metrics.StartDBStatsCollector(collectorCtx, db, 15*time.Second)

	issuer := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	limiter := middleware.NewRateLimiter(redisClient, &middleware.RateLimitConfig{
		RequestsPerWindow: cfg.Auth.RateLimitRequests,
		WindowDuration:    cfg.Auth.RateLimitWindow,
	}, "credential")
	limiter.ObserveRejections(metrics.RateLimitedTotal)

	server := api.NewServer(store, issuer, logger, metrics, limiter)
	// Attached through the router so the matched route template is visible
	// when the metrics label is recorded
	server.Router().Use(metrics.Middleware(routeTemplate))

	accessLog := logrus.New()
	accessLog.SetFormatter(&logrus.JSONFormatter{})

	var handler http.Handler = server
	handler = httputil.CORSMiddleware(cfg.Server.AllowedOrigins)(handler)
	handler = httputil.LoggingMiddleware(accessLog)(handler)
	handler = httputil.RecoveryMiddleware(accessLog)(handler)
	handler = httputil.RequestIDMiddleware(handler)

	apiServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics live on their own port so probes bypass the API
	// middleware chain
	health := observability.NewHealthChecker(db, redisClient)
	probes := mux.NewRouter()
	probes.HandleFunc("/healthz", health.Liveness).Methods("GET")
	probes.HandleFunc("/readyz", health.Readiness).Methods("GET")
	if cfg.Observability.MetricsEnabled {
		probes.Handle("/metrics", metrics.Handler()).Methods("GET")
	}
	healthServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler: probes,
	}

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, apiServer, healthServer)
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		stopCollector()
		return db.Close()
	})
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		return redisClient.Close()
	})

	var group errgroup.Group
	group.Go(func() error {
		logger.Infof("API server listening on %s", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		logger.Infof("Health server listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(shutdown.WaitForShutdown)

	if err := group.Wait(); err != nil {
		logger.WithError(err).Error("Server exited with error")
		os.Exit(1)
	}
	logger.Info("DocMan API stopped")
}

// routeTemplate labels request metrics with the matched route pattern so
// cardinality stays bounded
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template
		}
	}
	return "unmatched"
}
