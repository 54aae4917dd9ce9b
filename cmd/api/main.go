// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/autosalon/internal/admin"
	"github.com/carterperez-dev/autosalon/internal/auth"
	"github.com/carterperez-dev/autosalon/internal/cart"
	"github.com/carterperez-dev/autosalon/internal/catalog"
	"github.com/carterperez-dev/autosalon/internal/config"
	"github.com/carterperez-dev/autosalon/internal/core"
	"github.com/carterperez-dev/autosalon/internal/flash"
	"github.com/carterperez-dev/autosalon/internal/health"
	"github.com/carterperez-dev/autosalon/internal/middleware"
	"github.com/carterperez-dev/autosalon/internal/order"
	"github.com/carterperez-dev/autosalon/internal/server"
	"github.com/carterperez-dev/autosalon/internal/user"
	"github.com/carterperez-dev/autosalon/internal/web"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	sessions, err := auth.NewSessionManager(cfg.Session)
	if err != nil {
		return err
	}
	logger.Info("session manager initialized",
		"algorithm", "ES256",
		"key_id", sessions.GetKeyID(),
		"ttl", cfg.Session.TTL,
	)

	if err := os.MkdirAll(cfg.Media.Root, 0o755); err != nil {
		return fmt.Errorf("create media root: %w", err)
	}

	flashStore := flash.NewStore(redis.Client, cfg.IsProduction())
	renderer, err := web.NewRenderer(flashStore, logger, cfg.Media.URLPrefix)
	if err != nil {
		return err
	}

	photos := catalog.NewPhotoStore(cfg.Media.Root)

	userSvc := user.NewService(user.NewRepository(db.DB))
	catalogSvc := catalog.NewService(catalog.NewRepository(db.DB))
	cartSvc := cart.NewService(cart.NewRepository(db.DB), catalogSvc)
	orderSvc := order.NewService(order.NewRepository(db.DB), userSvc)
	authSvc := auth.NewService(sessions, userSvc, redis.Client)

	authHandler := auth.NewHandler(authSvc, renderer, auth.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.IsProduction(),
	})
	userHandler := user.NewHandler(userSvc, orderSvc, renderer)
	catalogHandler := catalog.NewHandler(
		catalogSvc,
		photos,
		renderer,
		cfg.Media.MaxUploadSize,
	)
	cartHandler := cart.NewHandler(cartSvc, renderer)
	orderHandler := order.NewHandler(orderSvc, userSvc, renderer)
	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Users:     userSvc.ListUsers,
		Cars:      catalogSvc.ListAll,
		Orders:    orderSvc.ListAll,
		DBStats:   db.Stats,
		DBPing:    db.Ping,
		RedisPing: redis.Ping,
		Renderer:  renderer,
	})

	healthHandler := health.NewHandler(
		health.Check{Name: "database", Checker: db},
		health.Check{Name: "redis", Checker: redis},
		health.Check{Name: "media", Checker: photos},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
		ServiceName:   cfg.Otel.ServiceName,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			Limited: http.HandlerFunc(renderer.TooManyRequests),
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.OptionalAuth(authSvc, cfg.Session.CookieName))

	router.NotFound(renderer.NotFound)

	healthHandler.RegisterRoutes(router)

	mediaPrefix := strings.TrimSuffix(cfg.Media.URLPrefix, "/")
	router.Handle(mediaPrefix+"/*", http.StripPrefix(
		mediaPrefix,
		noDirListing(http.FileServer(http.Dir(cfg.Media.Root))),
	))

	catalogHandler.RegisterRoutes(router)

	loginLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.LoginRequests,
			cfg.RateLimit.LoginBurst,
		),
		KeyFunc: middleware.KeyByIPAndEndpoint,
		Skip:    middleware.OnlyMethods(http.MethodPost),
		Limited: http.HandlerFunc(renderer.TooManyRequests),
	})

	router.Group(func(r chi.Router) {
		r.Use(loginLimiter.Handler)
		authHandler.RegisterRoutes(r)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		cartHandler.RegisterRoutes(r)
		orderHandler.RegisterRoutes(r)
		userHandler.RegisterRoutes(r)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(http.HandlerFunc(renderer.Forbidden)))
		adminHandler.RegisterRoutes(r)
		userHandler.RegisterAdminRoutes(r)
		catalogHandler.RegisterAdminRoutes(r)
		orderHandler.RegisterAdminRoutes(r)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// noDirListing hides directory indexes under the media root.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
