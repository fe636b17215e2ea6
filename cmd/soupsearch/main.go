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
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/stonesoup-hq/soupsearch/internal/config"
	"github.com/stonesoup-hq/soupsearch/internal/db"
	dbRedis "github.com/stonesoup-hq/soupsearch/internal/db/redis"
	"github.com/stonesoup-hq/soupsearch/internal/domain"
	logpkg "github.com/stonesoup-hq/soupsearch/internal/logger"
	"github.com/stonesoup-hq/soupsearch/internal/metrics"
	"github.com/stonesoup-hq/soupsearch/internal/repository/embcache"
	memberrepo "github.com/stonesoup-hq/soupsearch/internal/repository/member"
	storyrepo "github.com/stonesoup-hq/soupsearch/internal/repository/story"
	suggestrepo "github.com/stonesoup-hq/soupsearch/internal/repository/suggest"
	chiTransport "github.com/stonesoup-hq/soupsearch/internal/transport/chi"
	openaiTransport "github.com/stonesoup-hq/soupsearch/internal/transport/openai"
	embeddinguc "github.com/stonesoup-hq/soupsearch/internal/usecase/embedding"
	healthuc "github.com/stonesoup-hq/soupsearch/internal/usecase/health"
	searchuc "github.com/stonesoup-hq/soupsearch/internal/usecase/search"
	suggestuc "github.com/stonesoup-hq/soupsearch/internal/usecase/suggest"
	summaryuc "github.com/stonesoup-hq/soupsearch/internal/usecase/summary"
	"github.com/stonesoup-hq/soupsearch/internal/version"
)

func main() {
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

	logger.Info("Starting soupsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	embMetrics := metrics.RegisterEmbeddingMetrics(prometheus.DefaultRegisterer)
	searchMetrics := metrics.RegisterSearchMetrics(prometheus.DefaultRegisterer)

	embedder := buildEmbedder(&cfg, store, embMetrics, logger)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	storyRepo := storyrepo.New(store, cfg.Storage.KeyPrefix)
	memberRepo := memberrepo.New(store, cfg.Storage.KeyPrefix)
	suggestRepo := suggestrepo.New(store, cfg.Storage.KeyPrefix)

	if err := storyRepo.EnsureIndex(ctx,
		cfg.Embedding.Dimensions, cfg.Search.HNSWM, cfg.Search.HNSWEFConstruct); err != nil {
		logger.Fatal("Failed to ensure story index", zap.Error(err))
	}
	if err := memberRepo.EnsureIndex(ctx,
		cfg.Embedding.Dimensions, cfg.Search.HNSWM, cfg.Search.HNSWEFConstruct); err != nil {
		logger.Fatal("Failed to ensure member index", zap.Error(err))
	}
	logger.Info("Search indexes ready")

	suggestSvc := suggestuc.New(suggestRepo)

	var chatModel summaryuc.ChatModel
	if cfg.Summary.Enabled {
		chatModel = openaiTransport.NewChatModel(
			cfg.Embedding.APIKey, cfg.Embedding.BaseURL, cfg.Summary.Model,
		)
	}
	summarySvc := summaryuc.New(chatModel, cfg.Summary.Model)

	searchSvc := searchuc.New(
		storyRepo, memberRepo, embedder, suggestSvc, summarySvc,
		searchuc.Config{
			SemanticWeight: cfg.Search.SemanticWeight,
			TextWeight:     cfg.Search.TextWeight,
			CandidateLimit: cfg.Search.SemanticLimit,
		},
		searchMetrics,
	)

	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder))

	server := chiTransport.NewServer(searchSvc, suggestSvc, summarySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(chiTransport.CauldronMiddleware())
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

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

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Timeout.
func buildEmbedder(
	cfg *config.Config, store db.Store,
	embMetrics *metrics.EmbeddingMetrics, logger *zap.Logger,
) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Metrics:    embMetrics,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cfg.Embedding.Cache {
		embedder = embcache.New(
			base, store, cfg.Storage.KeyPrefix,
			embMetrics.CacheHits, embMetrics.CacheMiss, logger,
		)
	}

	return embeddinguc.NewTimeoutEmbedder(
		embedder, time.Duration(cfg.Embedding.TimeoutSec)*time.Second,
	)
}

// embeddingHealthChecker adapts domain.Embedder to health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

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
