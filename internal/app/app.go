// Package app wires configuration, storage, services and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/apptracker/internal/adapter/cache"
	"github.com/heartmarshall/apptracker/internal/adapter/eventbus"
	"github.com/heartmarshall/apptracker/internal/adapter/postgres"
	applicationrepo "github.com/heartmarshall/apptracker/internal/adapter/postgres/application"
	"github.com/heartmarshall/apptracker/internal/adapter/postgres/auditlog"
	handoverrepo "github.com/heartmarshall/apptracker/internal/adapter/postgres/handover"
	userstoryrepo "github.com/heartmarshall/apptracker/internal/adapter/postgres/userstory"
	"github.com/heartmarshall/apptracker/internal/adapter/postgres/worknote"
	"github.com/heartmarshall/apptracker/internal/auth"
	"github.com/heartmarshall/apptracker/internal/config"
	"github.com/heartmarshall/apptracker/internal/domain"
	"github.com/heartmarshall/apptracker/internal/observability"
	"github.com/heartmarshall/apptracker/internal/service/activity"
	"github.com/heartmarshall/apptracker/internal/service/application"
	"github.com/heartmarshall/apptracker/internal/service/handover"
	"github.com/heartmarshall/apptracker/internal/service/userstory"
	"github.com/heartmarshall/apptracker/internal/transport/dataloader"
	"github.com/heartmarshall/apptracker/internal/transport/middleware"
	"github.com/heartmarshall/apptracker/internal/transport/rest"
)

// nameStore and stepLocker are the Redis-backed dependencies. They stay nil
// interfaces when Redis is not configured.
type (
	nameStore interface {
		GetMany(ctx context.Context, ids []int64) (map[int64]string, error)
		SetMany(ctx context.Context, names map[int64]string) error
		Invalidate(ctx context.Context, id int64) error
	}
	stepLocker interface {
		Lock(ctx context.Context, key string) (release func(), err error)
	}
	eventPublisher interface {
		Publish(ctx context.Context, e domain.ActivityEvent) error
		Close() error
	}
)

// Run is the application entry point. It loads configuration from
// configPath (see config.Load), initializes the logger and serves HTTP until
// ctx is cancelled.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		buildAttrs(),
		slog.String("log_level", cfg.Log.Level),
	)

	return Serve(ctx, cfg, logger)
}

// Deps are the connected backing stores. Redis may be nil.
type Deps struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
}

// Serve connects to the backing stores, builds the handler tree and runs the
// HTTP server. It returns after a graceful shutdown once ctx is done.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := observability.RegisterPoolStats(prometheus.DefaultRegisterer, postgres.PoolStats(pool)); err != nil {
		logger.Warn("pool metrics disabled", slog.String("error", err.Error()))
	}

	deps := Deps{Pool: pool}
	if cfg.Redis.Enabled() {
		deps.Redis, err = cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer deps.Redis.Close()
		logger.Info("redis enabled", slog.String("addr", cfg.Redis.Addr))
	}

	handler, release := NewHandler(cfg, logger, deps)
	defer release()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// NewHandler builds repositories, services and the middleware-wrapped router
// over deps. release stops the background work the handler owns and must be
// called after the server has shut down.
func NewHandler(cfg *config.Config, logger *slog.Logger, deps Deps) (handler http.Handler, release func()) {
	var cleanups []func()
	release = func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var (
		names  nameStore
		locker stepLocker
	)
	if deps.Redis != nil {
		names = cache.NewNameCache(deps.Redis, cfg.Redis.NameCacheTTL)
		locker = cache.NewLocker(deps.Redis, cfg.Redis.LockTTL, cfg.Redis.LockWait, logger)
	}

	var events eventPublisher = eventbus.NoopPublisher{}
	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		events = eventbus.NewPublisher(brokers, cfg.Kafka.Topic, cfg.Kafka.WriteTimeout)
		logger.Info("activity events enabled", slog.String("topic", cfg.Kafka.Topic))
	}
	cleanups = append(cleanups, func() {
		if err := events.Close(); err != nil {
			logger.Warn("close event publisher", slog.String("error", err.Error()))
		}
	})

	pool := deps.Pool
	tx := postgres.NewTxManager(pool)
	appRepo := applicationrepo.New(pool)

	loaderRepos := &dataloader.Repos{Applications: appRepo}
	if names != nil {
		loaderRepos.Cache = names
	}

	activitySvc := activity.NewService(logger,
		worknote.New(pool),
		auditlog.New(pool),
		dataloader.NewNameResolver(loaderRepos),
		events,
		cfg.Activity.MaxAttachmentBytes,
	)

	var invalidator interface {
		Invalidate(ctx context.Context, id int64) error
	}
	if names != nil {
		invalidator = names
	}
	appSvc := application.NewService(logger, appRepo, activitySvc, invalidator, tx)
	handoverSvc := handover.NewService(logger, handoverrepo.New(pool), tx, locker)
	storySvc := userstory.NewService(logger, userstoryrepo.New(pool), activitySvc, tx)

	health := map[string]rest.Pinger{"database": pool}
	if rdb := deps.Redis; rdb != nil {
		health["redis"] = rest.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	router := rest.NewRouter(rest.Handlers{
		Health:       rest.NewHealthHandler(health, Version),
		Activity:     rest.NewActivityHandler(activitySvc, cfg.Activity, logger),
		Applications: rest.NewApplicationHandler(appSvc, logger),
		Handover:     rest.NewHandoverHandler(handoverSvc, logger),
		UserStories:  rest.NewUserStoryHandler(storySvc, logger),
	})

	var rateLimit middleware.Middleware
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.CleanupInterval)
		cleanups = append(cleanups, rl.Stop)
		rateLimit = rl.Middleware()
	}

	handler = middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		rateLimit,
		middleware.Auth(auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)),
		dataloader.Middleware(loaderRepos),
		middleware.Metrics(),
	)(router)

	return handler, release
}
