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

	"github.com/foliodocs/folio/internal/config"
	"github.com/foliodocs/folio/internal/db/postgres"
	dbRedis "github.com/foliodocs/folio/internal/db/redis"
	"github.com/foliodocs/folio/internal/domain"
	logpkg "github.com/foliodocs/folio/internal/logger"
	"github.com/foliodocs/folio/internal/metrics"
	annotationrepo "github.com/foliodocs/folio/internal/repository/annotation"
	directoryrepo "github.com/foliodocs/folio/internal/repository/directory"
	documentrepo "github.com/foliodocs/folio/internal/repository/document"
	highlightrepo "github.com/foliodocs/folio/internal/repository/highlight"
	"github.com/foliodocs/folio/internal/repository/orgcache"
	projectrepo "github.com/foliodocs/folio/internal/repository/project"
	chiTransport "github.com/foliodocs/folio/internal/transport/chi"
	healthuc "github.com/foliodocs/folio/internal/usecase/health"
	searchuc "github.com/foliodocs/folio/internal/usecase/search"
	"github.com/foliodocs/folio/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting folio API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
	)

	ctx := context.Background()

	// Archive store — runs migrations on startup.
	archive, err := postgres.NewStore(ctx, postgres.Config{
		DSN:            cfg.Postgres.DSN,
		MaxConns:       cfg.Postgres.MaxConns,
		MigrationsPath: cfg.Postgres.MigrationsPath,
	})
	if err != nil {
		logger.Fatal("Failed to create archive store", zap.Error(err))
	}
	defer archive.Close()

	if err := archive.WaitForReady(ctx, time.Duration(cfg.Postgres.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Archive not ready", zap.Error(err))
	}
	logger.Info("Connected to archive")

	// Cache store for organization names.
	cache, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer cache.Close()

	if err := cache.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache not ready", zap.Error(err))
	}
	logger.Info("Connected to cache")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Create repositories (domain-native, no adapters)
	pool := archive.Pool()
	docRepo := documentrepo.New(pool)
	dirRepo := directoryrepo.New(pool)
	projRepo := projectrepo.New(pool)
	annRepo := annotationrepo.New(pool)
	hlRepo := highlightrepo.New(pool)

	// Organization names go through the cache; compiler resolution stays
	// on the relational directory so stale names never leak into scoping.
	orgDir := orgcache.New(
		dirRepo, cache,
		time.Duration(cfg.Search.OrgNameCacheTTLSec)*time.Second,
		metrics.OrgNameCacheTotal, logger,
	)

	// Create use case services
	compiler := searchuc.NewCompiler(dirRepo, projRepo)
	scope := searchuc.ScopeFunc(func(ctx context.Context, identity domain.Identity) (searchuc.Collection, error) {
		return docRepo.For(ctx, identity)
	})
	searchSvc := searchuc.New(compiler, scope, annRepo, hlRepo, orgDir).
		WithHighlighting(cfg.Search.Highlighting)
	logger.Info("Search service created", zap.Bool("highlighting", cfg.Search.Highlighting))

	// Health service
	healthSvc := healthuc.New(archive, cache)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
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

			// Set X-Request-ID in response header
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
