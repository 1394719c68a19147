package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/browsekit/internal/config"
	"github.com/kailas-cloud/browsekit/internal/db"
	dbRedis "github.com/kailas-cloud/browsekit/internal/db/redis"
	domentity "github.com/kailas-cloud/browsekit/internal/domain/entity"
	logpkg "github.com/kailas-cloud/browsekit/internal/logger"
	"github.com/kailas-cloud/browsekit/internal/metrics"
	entityrepo "github.com/kailas-cloud/browsekit/internal/repository/entity"
	eventrepo "github.com/kailas-cloud/browsekit/internal/repository/event"
	orderrepo "github.com/kailas-cloud/browsekit/internal/repository/order"
	chiTransport "github.com/kailas-cloud/browsekit/internal/transport/chi"
	batchuc "github.com/kailas-cloud/browsekit/internal/usecase/batch"
	"github.com/kailas-cloud/browsekit/internal/usecase/browse"
	cataloguc "github.com/kailas-cloud/browsekit/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/browsekit/internal/usecase/health"
	reorderuc "github.com/kailas-cloud/browsekit/internal/usecase/reorder"
	"github.com/kailas-cloud/browsekit/internal/version"
)

// sweepInterval is how often idle sessions are evicted.
const sweepInterval = time.Minute

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting browsekit API server",
		zap.String("build", version.String()),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := newStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Metrics are registered explicitly, never from init()
	metrics.RegisterHTTPMetrics()
	metrics.RegisterBrowseMetrics()
	recorder := metrics.Recorder{}

	// Repositories
	entities := entityrepo.New(store, cfg.Storage.KeyPrefix)
	events := eventrepo.New(store, cfg.Storage.KeyPrefix)
	orders := orderrepo.New(store, cfg.Storage.KeyPrefix)

	// Use case services
	catalogSvc := cataloguc.New(entities, events).
		WithDefaults(cfg.Browse.Defaults()).
		WithLogger(logger.Named("session")).
		WithRecorder(recorder)
	batchSvc := batchuc.New(entities, entities, events).
		WithMaxBatchSize(cfg.Browse.MaxBatchSize)
	reorderSvc := reorderuc.New(orders).
		WithRecorder(recorder).
		WithLogger(logger.Named("reorder"))

	sessions := browse.NewRegistry[domentity.Entity](
		cfg.Browse.MaxSessions,
		time.Duration(cfg.Browse.SessionIdleSec)*time.Second,
		logger.Named("sessions"),
		browse.WithSizeObserver[domentity.Entity](recorder.SessionCount),
	)
	defer sessions.CloseAll()
	go sessions.Run(ctx, sweepInterval)

	healthSvc := healthuc.New(store).WithCheck("sessions", func(context.Context) error {
		if n := sessions.Len(); n >= cfg.Browse.MaxSessions {
			return fmt.Errorf("session registry full (%d)", n)
		}
		return nil
	})

	server := chiTransport.NewServer(catalogSvc, batchSvc, reorderSvc, sessions, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newStore opens the configured driver. Valkey and Redis share the rueidis client.
func newStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Addrs,
			Password:   cfg.Password,
			ClientName: "browsekit",
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.Driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", chi.RouteContext(r.Context()).RoutePattern()),
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
