// Package main is the entrypoint for the crmgate API server.
package main

import (
	"context"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/crmgate/crmgate/internal/auth"
	"github.com/crmgate/crmgate/internal/cache"
	"github.com/crmgate/crmgate/internal/config"
	"github.com/crmgate/crmgate/internal/handler"
	"github.com/crmgate/crmgate/internal/metrics"
	"github.com/crmgate/crmgate/internal/middleware"
	"github.com/crmgate/crmgate/internal/repository"
	"github.com/crmgate/crmgate/internal/secrets"
	"github.com/crmgate/crmgate/internal/server"
	"github.com/crmgate/crmgate/internal/tracker"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize AWS SDK config shared by the secret resolver and the store
	var awsOpts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		awsOpts = append(awsOpts, awsconfig.WithRegion(cfg.AWSRegion))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		logger.Error("failed to load AWS config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize secret resolver and authorization gate
	resolver := secrets.New(&awsCfg)
	gate := auth.NewGate(resolver, cfg.APIKeySecretName)

	// Initialize customer store
	repo := repository.New(&awsCfg, cfg.CustomerTable, cfg.InteractionTable)
	logger.Info("customer store configured",
		"customer_table", cfg.CustomerTable,
		"interaction_table", cfg.InteractionTable,
	)

	// Initialize issue tracker client. A misconfigured tracker must not take
	// the composite API down; fall back to a client that suppresses every
	// call.
	var issues handler.IssueTracker

	trackerClient, err := tracker.NewClient(ctx, resolver, logger, tracker.WithTimeout(cfg.TrackerTimeout))
	if err != nil {
		logger.Error("tracker unavailable, continuing without it", slog.String("error", err.Error()))
		issues = tracker.NewDisabled(logger)
	} else {
		issues = trackerClient
		logger.Info("tracker client configured")
	}

	// Initialize optional authorization decision cache
	var decisionCache *cache.Cache
	if cfg.CacheEnabled() {
		decisionCache, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer decisionCache.Close()
		logger.Info("decision cache connected", "ttl", cfg.AuthCacheTTL)
	}

	// Initialize metrics and handlers
	recorder := metrics.NewInMemory()
	dispatcher := handler.NewDispatcher(repo, issues, logger, recorder)
	healthHandler := handler.NewHealthHandler(repo, pingerOrNil(decisionCache))

	// Setup router
	r := setupRouter(dispatcher, healthHandler, gate, decisionCache, cfg, recorder, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// setupRouter configures the chi router with all routes and middleware.
// Health endpoints stay outside the authorization gate; every dispatch path
// sits behind it.
func setupRouter(
	dispatcher *handler.Dispatcher,
	healthHandler *handler.HealthHandler,
	gate *auth.Gate,
	decisionCache *cache.Cache,
	cfg *config.Config,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Dispatch paths behind the authorization gate
	r.Group(func(r chi.Router) {
		authCfg := middleware.AuthConfig{
			Logger:   logger,
			Gate:     gate,
			CacheTTL: cfg.AuthCacheTTL,
			Metrics:  recorder,
		}
		if decisionCache != nil {
			authCfg.Cache = decisionCache
		}

		r.Use(middleware.Auth(authCfg))
		dispatcher.Register(r)
	})

	return r
}

// pingerOrNil avoids handing the health handler a typed nil.
func pingerOrNil(c *cache.Cache) handler.HealthChecker {
	if c == nil {
		return nil
	}
	return c
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
