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
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tripdex/tripdex/internal/config"
	logpkg "github.com/tripdex/tripdex/internal/logger"
	"github.com/tripdex/tripdex/internal/metrics"
	"github.com/tripdex/tripdex/internal/transport/httpapi"
	openaiTransport "github.com/tripdex/tripdex/internal/transport/openai"
	chatuc "github.com/tripdex/tripdex/internal/usecase/chat"
	healthuc "github.com/tripdex/tripdex/internal/usecase/health"
	ingestuc "github.com/tripdex/tripdex/internal/usecase/ingest"
	safetyuc "github.com/tripdex/tripdex/internal/usecase/safety"
	searchuc "github.com/tripdex/tripdex/internal/usecase/search"
	"github.com/tripdex/tripdex/internal/version"
)

func newServeCmd() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(seedPath)
		},
	}
	cmd.Flags().StringVar(&seedPath, "seed", "",
		"JSON file of locations to index at startup (useful with the memory driver)")
	return cmd
}

func runServe(seedPath string) error {
	// Load configuration based on ENV
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

	logger.Info("Starting tripdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Register non-HTTP metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	ctx := context.Background()
	b, err := buildBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.close()

	if seedPath != "" {
		if err := seedIndex(ctx, b, seedPath, logger); err != nil {
			return err
		}
	}

	// Use case services
	searchOpts := []searchuc.Option{
		searchuc.WithLimits(cfg.Search.DefaultLimit, cfg.Search.MaxLimit),
		searchuc.WithLocator(b.locator),
	}
	if b.keyword {
		searchOpts = append(searchOpts, searchuc.WithKeywordMode())
	}
	searchSvc := searchuc.New(b.index, b.embedder, searchOpts...)

	assistant := openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
		APIKey:      cfg.Assistant.APIKey,
		BaseURL:     cfg.Assistant.BaseURL,
		Model:       cfg.Assistant.Model,
		Temperature: cfg.Assistant.Temperature,
		Logger:      logger,
	})
	chatSvc := chatuc.New(assistant)
	safetySvc := safetyuc.New(assistant)
	healthSvc := healthuc.New(b.pinger, b.embeddingHealth)

	server := httpapi.NewServer(searchSvc, chatSvc, safetySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	if len(cfg.CORS.Origins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: cfg.CORS.Origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
		}).Handler)
	}
	r.Use(httpapi.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())

	r.Post("/api/search", server.Search)
	r.Get("/api/locations/{id}", server.GetLocation)
	r.Post("/api/chat", server.Chat)
	r.Post("/api/safety", server.SafetyCheck)
	r.Get("/health", server.HealthCheck)
	r.Get("/metrics", server.Metrics)

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
	return nil
}

// seedIndex loads a JSON locations file into the index before serving.
func seedIndex(ctx context.Context, b *backend, path string, logger *zap.Logger) error {
	locs, err := loadSeedFile(path)
	if err != nil {
		return err
	}

	svc := ingestuc.New(b.indexer, b.embedder)
	summary, err := svc.Run(logpkg.ContextWithLogger(ctx, logger), locs, nil)
	if err != nil {
		return fmt.Errorf("seed index: %w", err)
	}

	logger.Info("Seeded location index",
		zap.String("file", path),
		zap.Int("indexed", summary.Indexed),
		zap.Int("failed", summary.Failed),
	)
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
					_ = json.NewEncoder(w).Encode(map[string]any{
						"success": false,
						"error": map[string]string{
							"code":    "internal_error",
							"message": "internal error",
						},
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

			// Canonical log line, one per request
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
