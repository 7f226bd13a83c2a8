// CodeLeap - code review quiz server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/codeleap/internal/ai"
	"github.com/ashureev/codeleap/internal/api"
	"github.com/ashureev/codeleap/internal/config"
	"github.com/ashureev/codeleap/internal/identity"
	"github.com/ashureev/codeleap/internal/middleware"
	"github.com/ashureev/codeleap/internal/notify"
	"github.com/ashureev/codeleap/internal/quiz"
	"github.com/ashureev/codeleap/internal/ratelimit"
	"github.com/ashureev/codeleap/internal/retention"
	"github.com/ashureev/codeleap/internal/store"
	"github.com/ashureev/codeleap/internal/telemetry"
	"github.com/ashureev/codeleap/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server",
		"port", cfg.Port,
		"dev", cfg.IsDevelopment(),
		"ai_provider", cfg.AI.Provider,
		"ai_timeout", cfg.AI.Timeout,
		"operator_key", cfg.AI.APIKey != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	}); err != nil {
		slog.Warn("Tracing disabled", "error", err)
	}

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(ctx); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	provider, err := ai.New(ai.Config{
		Provider:    cfg.AI.Provider,
		GroqBaseURL: cfg.AI.GroqBaseURL,
		GroqModel:   cfg.AI.GroqModel,
		GeminiModel: cfg.AI.GeminiModel,
	})
	if err != nil {
		slog.Error("Failed to initialize AI provider", "error", err)
		os.Exit(1)
	}

	// Initialize services.
	hub := notify.NewHub()
	generator := quiz.NewGenerator(quiz.GeneratorConfig{
		Provider: provider,
		Timeout:  cfg.AI.Timeout,
	})
	quizMgr := quiz.NewManager(generator, repo, hub, cfg.AI.APIKey)

	healthChecks := map[string]api.Pinger{"database": repo}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		defer func() {
			if closeErr := rdb.Close(); closeErr != nil {
				slog.Error("Failed to close redis client", "error", closeErr)
			}
		}()
		redisLimiter := ratelimit.NewRedis(rdb, cfg.RateLimit.PerMinute, time.Minute)
		if err := redisLimiter.Ping(ctx); err != nil {
			slog.Warn("Redis unreachable, rate limiting will fail open", "addr", cfg.RateLimit.RedisAddr, "error", err)
		}
		healthChecks["redis"] = redisLimiter
		limiter = redisLimiter
		slog.Info("Rate limiter using redis", "addr", cfg.RateLimit.RedisAddr, "per_minute", cfg.RateLimit.PerMinute)
	} else {
		memLimiter := ratelimit.NewMemory(cfg.RateLimit.PerMinute, time.Minute)
		go memLimiter.Run(ctx)
		limiter = memLimiter
		slog.Info("Rate limiter using memory", "per_minute", cfg.RateLimit.PerMinute)
	}

	// Initialize handlers.
	limitByDevice := ratelimit.Middleware(limiter, func(r *http.Request) string {
		return identity.UserIDFromContext(r.Context())
	})
	quizHandler := api.NewHandler(quizMgr, provider.Name(), limitByDevice)
	healthHandler := api.NewHealthHandler(healthChecks)

	allowedOrigin := "*"
	if !cfg.IsDevelopment() {
		allowedOrigin = cfg.FrontendURL
	}
	wsHandler := notify.NewHandler(hub, allowedOrigin, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{allowedOrigin}))
	r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

	healthHandler.RegisterHealth(r)
	quizHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/events", wsHandler.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// WebSocket connections are long-lived, so there is no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	// Start retention worker.
	retention.NewWorker(repo, cfg.InactiveUserTTL, quizMgr.Drop, hub.CloseUser).Start(ctx)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Failed to flush traces", "error", err)
	}

	slog.Info("Server stopped successfully")
}
