package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PatrikGranholm/nordiclaw/internal/config"
	"github.com/PatrikGranholm/nordiclaw/internal/db"
	dbMemory "github.com/PatrikGranholm/nordiclaw/internal/db/memory"
	dbRedis "github.com/PatrikGranholm/nordiclaw/internal/db/redis"
	logpkg "github.com/PatrikGranholm/nordiclaw/internal/logger"
	"github.com/PatrikGranholm/nordiclaw/internal/metrics"
	datasetrepo "github.com/PatrikGranholm/nordiclaw/internal/repository/dataset"
	lookuprepo "github.com/PatrikGranholm/nordiclaw/internal/repository/lookup"
	chiTransport "github.com/PatrikGranholm/nordiclaw/internal/transport/chi"
	cataloguc "github.com/PatrikGranholm/nordiclaw/internal/usecase/catalog"
	facetuc "github.com/PatrikGranholm/nordiclaw/internal/usecase/facet"
	healthuc "github.com/PatrikGranholm/nordiclaw/internal/usecase/health"
	mergeuc "github.com/PatrikGranholm/nordiclaw/internal/usecase/merge"
	"github.com/PatrikGranholm/nordiclaw/internal/version"
	"github.com/PatrikGranholm/nordiclaw/internal/watch"

	"github.com/PatrikGranholm/nordiclaw/internal/domain/facet"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting nordiclaw API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("dataset_source", cfg.Dataset.Source),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Lookup cache store based on driver
	var store db.Store
	switch cfg.Cache.Driver {
	case "redis":
		redisStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		if err := redisStore.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		store = redisStore
	case "memory":
		store = dbMemory.NewStore(cfg.Cache.MemoryCapacity)
	default:
		logger.Fatal("Unknown cache driver", zap.String("driver", cfg.Cache.Driver))
	}
	defer store.Close()
	logger.Info("Cache store ready", zap.String("driver", cfg.Cache.Driver))

	// Register catalog metrics explicitly (no init())
	metrics.RegisterCatalogMetrics()

	// Repositories — composition root
	lookups := lookuprepo.New(
		cfg.Dataset.LookupDir, store,
		time.Duration(cfg.Cache.LookupTTLHours)*time.Hour, logger,
	)
	datasets := datasetrepo.New(cfg.Dataset.Dir, lookups, logger)

	// Use case services
	mergeSvc := mergeuc.New(logger)
	engine := facetuc.New(facet.DefaultFields(), logger)
	catalogSvc := cataloguc.New(datasets, engine, mergeSvc, logger).
		WithPagination(cfg.Dataset.DefaultPageSize, cfg.Dataset.MaxPageSize)

	if _, err := catalogSvc.Load(ctx, cfg.Dataset.Source); err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}

	// Health service — memory stores have nothing worth reporting
	var pinger healthuc.CachePinger
	if cfg.Cache.Driver == "redis" {
		pinger = store
	}
	healthSvc := healthuc.New(catalogSvc, pinger)

	server := chiTransport.NewServer(catalogSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Watch the source file and reload on change
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if cfg.Dataset.Watch {
		path := filepath.Join(cfg.Dataset.Dir, cfg.Dataset.Source+".tsv")
		debounce := time.Duration(cfg.Dataset.WatchDebounceMS) * time.Millisecond
		go func() {
			err := watch.File(watchCtx, path, debounce, logger, func() {
				if _, err := catalogSvc.Load(watchCtx, cfg.Dataset.Source); err != nil {
					logger.Error("Automatic reload failed", zap.Error(err))
				}
			})
			if err != nil {
				logger.Error("Dataset watch stopped", zap.Error(err))
			}
		}()
		logger.Info("Watching dataset file", zap.String("path", path))
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	stopWatch()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
