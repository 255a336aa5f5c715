package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/aretw0/frost"
	"github.com/aretw0/frost/internal/adapters/file"
	"github.com/aretw0/frost/internal/config"
	"github.com/aretw0/frost/internal/logging"
	"github.com/aretw0/frost/pkg/adapters/memory"
	"github.com/aretw0/frost/pkg/adapters/redis"
	"github.com/aretw0/frost/pkg/observability"
	"github.com/aretw0/frost/pkg/persistence/middleware"
	"github.com/aretw0/frost/pkg/ports"
	"github.com/aretw0/frost/pkg/session"
)

// app bundles everything a command needs.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	engine   *frost.Engine
	sessions *session.Manager
	lister   session.KeyLister
	view     middleware.Middleware
	metrics  *prometheus.Registry
	close    func() error
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Storage.Backend = v
	}
	if v, _ := cmd.Flags().GetString("dir"); v != "" {
		cfg.Storage.Dir = v
	}
	if v, _ := cmd.Flags().GetString("redis"); v != "" {
		cfg.Storage.Redis.Address = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	return cfg, cfg.Validate()
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return buildApp(cfg)
}

// buildApp wires storage, sessions, metrics and the engine from cfg.
func buildApp(cfg config.Config) (*app, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(os.Stderr, level, logging.Format(cfg.Log.Format))

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: prometheus.NewRegistry(),
		close:   func() error { return nil },
	}

	var (
		backend     ports.Storage
		sessionOpts = []session.Option{session.WithLogger(logger)}
	)
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		store := memory.NewStore()
		backend, a.lister = store, store
	case config.BackendFile:
		store := file.New(cfg.Storage.Dir)
		backend, a.lister = store, store
	case config.BackendRedis:
		opts := []redis.Option{redis.WithTTL(cfg.Storage.Redis.TTL)}
		if cfg.Storage.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Storage.Redis.Prefix))
		}
		store := redis.New(cfg.Storage.Redis.Address, cfg.Storage.Redis.Password, cfg.Storage.Redis.DB, opts...)
		backend, a.lister, a.close = store, store, store.Close
		if cfg.Storage.Redis.Lock {
			sessionOpts = append(sessionOpts, session.WithLocker(redis.NewLocker(store.Client(), cfg.Storage.Redis.Prefix)))
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if cfg.Storage.Encryption.Key != "" {
		active, fallbacks, err := cfg.Storage.Encryption.Keys()
		if err != nil {
			return nil, err
		}
		backend = middleware.Chain(backend, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallbacks,
		}))
	}
	if len(cfg.Redact) > 0 {
		view, err := middleware.ParseRedactMiddleware(cfg.Redact)
		if err != nil {
			return nil, err
		}
		a.view = view
	}

	metrics := observability.NewMetrics(a.metrics)
	a.engine = frost.New(
		frost.WithLogger(logger),
		frost.WithLifecycleHooks(observability.Combine(metrics.Hooks(), observability.LogHooks(logger))),
	)
	a.sessions = session.NewManager(backend, sessionOpts...)
	return a, nil
}
