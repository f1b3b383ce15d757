// Package bootstrap wires configuration, infrastructure and application
// services into a running SignLearn Hub process.
package bootstrap

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/signlearn/signlearn-hub/config"
	"github.com/signlearn/signlearn-hub/internal/infrastructure/persistence/postgres"
	"github.com/signlearn/signlearn-hub/internal/infrastructure/persistence/redis"
	"github.com/signlearn/signlearn-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// App runs a process until a termination signal and then calls the
// registered shutdown hooks in reverse order.
type App struct {
	mu    sync.Mutex
	hooks []func(ctx context.Context) error
}

// New creates a new App.
func New() *App {
	return &App{}
}

// AddShutdownHook registers fn to run during graceful shutdown.
func (a *App) AddShutdownHook(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hooks = append(a.hooks, fn)
}

// Run executes run until it returns or a SIGINT/SIGTERM arrives. On a signal
// the hooks run with shutdownCtx as their deadline source.
func (a *App) Run(ctx context.Context, shutdownCtx func() (context.Context, context.CancelFunc), run func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
	}()

	select {
	case <-ctx.Done():
		sctx, cancel := shutdownCtx()
		defer cancel()
		return a.Shutdown(sctx)
	case err := <-errCh:
		sctx, cancel := shutdownCtx()
		defer cancel()
		return errors.Join(err, a.Shutdown(sctx))
	}
}

// Shutdown runs the hooks LIFO and joins their errors. Hooks run once.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	hooks := a.hooks
	a.hooks = nil
	a.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ══════════════════════════════════════════════════════════════════════════════
// INFRASTRUCTURE
// ══════════════════════════════════════════════════════════════════════════════

// NewLogger builds the process logger from the observability settings.
func NewLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	opts.Format = cfg.Observability.LogFormat

	if cfg.Observability.LogFile != "" {
		opts.File = &logger.FileOptions{
			Path:       cfg.Observability.LogFile,
			MaxSizeMB:  cfg.Observability.LogMaxSizeMB,
			MaxBackups: cfg.Observability.LogMaxBackups,
			MaxAgeDays: cfg.Observability.LogMaxAgeDays,
			Compress:   true,
		}
	}

	return logger.New(opts).With(
		logger.String("service", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)
}

// DatabaseConfig maps application settings to the pool configuration.
func DatabaseConfig(cfg *config.Config) postgres.Config {
	pc := postgres.DefaultConfig()
	pc.URL = cfg.Database.URL
	pc.MaxConns = cfg.Database.MaxConns
	pc.MinConns = cfg.Database.MinConns
	pc.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pc.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	pc.ConnectTimeout = cfg.Database.ConnectTimeout
	return pc
}

// OpenDatabase connects to PostgreSQL and, when enabled, applies pending
// migrations.
func OpenDatabase(ctx context.Context, cfg *config.Config, log *logger.Logger) (*postgres.Connection, error) {
	log.Info("connecting to database")
	conn, err := postgres.NewConnection(ctx, DatabaseConfig(cfg), log)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		applied, err := postgres.NewMigrator(conn).Migrate(ctx)
		if err != nil {
			conn.Close()
			return nil, err
		}
		log.Info("database schema is up to date", logger.Int("applied", applied))
	}
	return conn, nil
}

// CacheConfig maps application settings to the Redis configuration.
func CacheConfig(cfg *config.Config) redis.Config {
	rc := redis.DefaultConfig()
	rc.URL = cfg.Redis.URL
	rc.Addr = cfg.Redis.Addr()
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	if cfg.Redis.PoolSize > 0 {
		rc.PoolSize = cfg.Redis.PoolSize
	}
	if cfg.Redis.DialTimeout > 0 {
		rc.DialTimeout = cfg.Redis.DialTimeout
	}
	if cfg.Redis.ReadTimeout > 0 {
		rc.ReadTimeout = cfg.Redis.ReadTimeout
	}
	if cfg.Redis.WriteTimeout > 0 {
		rc.WriteTimeout = cfg.Redis.WriteTimeout
	}
	return rc
}

// OpenCache connects to Redis. It returns nil when the cache is disabled or
// unreachable; the service runs without it.
func OpenCache(ctx context.Context, cfg *config.Config, log *logger.Logger) *redis.Cache {
	if cfg.Redis.Disabled {
		log.Info("redis disabled, running without cache")
		return nil
	}

	cache, err := redis.NewCache(ctx, CacheConfig(cfg))
	if err != nil {
		log.Warn("failed to connect to redis, caching disabled", logger.Err(err))
		return nil
	}
	log.Info("redis connection established")
	return cache
}
