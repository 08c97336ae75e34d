package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hrpayroll/internal/domain/attendance"
	"hrpayroll/internal/domain/core"
	"hrpayroll/internal/domain/payroll"
	"hrpayroll/internal/domain/user"
	"hrpayroll/internal/platform/config"
	"hrpayroll/internal/platform/db"
	attendancehandler "hrpayroll/internal/transport/http/handlers/attendance"
	authhandler "hrpayroll/internal/transport/http/handlers/auth"
	corehandler "hrpayroll/internal/transport/http/handlers/core"
	payrollhandler "hrpayroll/internal/transport/http/handlers/payroll"
	usershandler "hrpayroll/internal/transport/http/handlers/users"
	"hrpayroll/internal/transport/http/middleware"
)

// App holds everything the process needs to serve requests.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Pool   *pgxpool.Pool
	Router chi.Router
}

// New connects to the database, applies migrations and seed data when
// configured, and assembles the HTTP router.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("database connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	return &App{
		Config: cfg,
		Logger: logger,
		Pool:   pool,
		Router: NewRouter(cfg, logger, pool),
	}, nil
}

// NewRouter builds the full route tree against an already-connected pool.
func NewRouter(cfg config.Config, logger *zap.Logger, pool *pgxpool.Pool) chi.Router {
	userStore := user.NewStore(pool)
	userService := user.NewService(userStore)
	coreService := core.NewService(core.NewStore(pool))
	payrollService := payroll.NewService(payroll.NewStore(pool))
	attendanceService := attendance.NewService(attendance.NewStore(pool))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.Auth(cfg.JWTSecret))

	healthz := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
	router.Get("/healthz", healthz)
	router.Get("/health", healthz)
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(userService, userStore, cfg.JWTSecret, cfg.TokenExpiry, logger).RegisterRoutes(r)
		usershandler.NewHandler(userService, userStore, cfg.MaxListLimit, logger).RegisterRoutes(r)
		corehandler.NewHandler(coreService, userStore, cfg.MaxListLimit, logger).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService, userStore, cfg.MaxListLimit, logger).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceService, userStore, cfg.MaxListLimit, logger).RegisterRoutes(r)
	})

	return router
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", zap.String("addr", a.Config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.Pool.Close()
	return nil
}
