package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/silverconnect"
	"github.com/aretw0/silverconnect/internal/config"
	"github.com/aretw0/silverconnect/internal/logging"
	"github.com/aretw0/silverconnect/pkg/adapters/file"
	"github.com/aretw0/silverconnect/pkg/adapters/memory"
	"github.com/aretw0/silverconnect/pkg/adapters/redis"
	"github.com/aretw0/silverconnect/pkg/adapters/sqlite"
	"github.com/aretw0/silverconnect/pkg/catalog"
	"github.com/aretw0/silverconnect/pkg/observability"
	"github.com/aretw0/silverconnect/pkg/persistence/middleware"
	"github.com/aretw0/silverconnect/pkg/ports"
	"github.com/spf13/cobra"
)

// app is the wiring shared by every command.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	platform *silverconnect.Platform
	// provider is set when the catalog comes from catalog_path.
	provider *catalog.FileProvider
	closers  []io.Closer
}

// setup loads the configuration, applies the persistent flags and builds the platform.
func setup(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lang, _ := cmd.Flags().GetString("lang"); lang != "" {
		cfg.Locale = lang
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(level, logging.WithWriter(cmd.ErrOrStderr()), logging.WithFormat(cfg.LogFormat))
	a := &app{cfg: cfg, logger: logger}

	opts := []silverconnect.Option{
		silverconnect.WithLogger(a.logger),
		silverconnect.WithLocale(cfg.Locale),
		silverconnect.WithMaxAttempts(cfg.MaxAttempts),
		silverconnect.WithChatTarget(cfg.ChatTarget),
	}
	if verbose {
		tp, err := observability.NewTracerProvider(cmd.ErrOrStderr(), version)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, shutdownCloser(tp.Shutdown))
		opts = append(opts,
			silverconnect.WithLifecycleHooks(observability.AuditHooks(a.logger)),
			silverconnect.WithTracer(tp.Tracer(observability.TracerName)),
		)
	}

	storeOpts, err := a.openStore(cfg.Store)
	if err != nil {
		a.Close()
		return nil, err
	}
	opts = append(opts, storeOpts...)

	if cfg.CatalogPath != "" {
		provider, err := catalog.NewFileProvider(cfg.CatalogPath, catalog.WithLogger(a.logger))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.provider = provider
		opts = append(opts, silverconnect.WithCatalog(provider.Snapshot()))
	}

	a.platform, err = silverconnect.New(opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// openStore returns the options for the configured session backend. The redis backend
// also shares the claim ledger and the session locks between processes.
func (a *app) openStore(sc config.StoreConfig) ([]silverconnect.Option, error) {
	var (
		store ports.SessionStore
		opts  []silverconnect.Option
	)
	switch sc.Backend {
	case config.BackendRedis:
		rs := redis.New(sc.RedisAddr, "", 0, redis.WithPrefix(sc.RedisPrefix), redis.WithTTL(sc.TTL))
		a.closers = append(a.closers, rs)
		client := rs.Client()
		store = rs
		opts = append(opts,
			silverconnect.WithLocker(redis.NewLocker(client, sc.RedisPrefix)),
			silverconnect.WithLedger(redis.NewLedger(client, sc.RedisPrefix)),
		)
		a.logger.Debug("using redis session store", "addr", sc.RedisAddr, "prefix", sc.RedisPrefix)
	case config.BackendSQLite:
		ss, err := sqlite.Open(sc.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, ss)
		store = ss
		a.logger.Debug("using sqlite session store", "path", sc.SQLitePath)
	case config.BackendFile:
		fs := file.New(sc.Dir)
		store = fs
		a.logger.Debug("using file session store", "dir", fs.Dir)
	default:
		store = memory.NewStore()
	}

	mws, err := storeMiddleware(sc)
	if err != nil {
		return nil, err
	}
	return append(opts, silverconnect.WithStore(middleware.Chain(store, mws...))), nil
}

// storeMiddleware masks before it seals, so redacted values never reach the cipher.
func storeMiddleware(sc config.StoreConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(sc.Redact) > 0 {
		pii, err := middleware.NewPIIMiddleware(sc.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}
	if sc.EncryptionKey == "" && len(sc.FallbackKeys) > 0 {
		return nil, fmt.Errorf("store.fallback_keys requires store.encryption_key")
	}
	if sc.EncryptionKey != "" {
		cfg := middleware.EncryptionConfig{}
		var err error
		if cfg.ActiveKey, err = middleware.ParseKey(sc.EncryptionKey); err != nil {
			return nil, fmt.Errorf("store.encryption_key: %w", err)
		}
		for i, k := range sc.FallbackKeys {
			key, err := middleware.ParseKey(k)
			if err != nil {
				return nil, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
			}
			cfg.FallbackKeys = append(cfg.FallbackKeys, key)
		}
		enc, err := middleware.NewEncryptionMiddleware(cfg)
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return mws, nil
}

// shutdownCloser adapts a Shutdown method to io.Closer.
type shutdownCloser func(context.Context) error

func (f shutdownCloser) Close() error {
	return f(context.Background())
}

// Close flushes the tracer and releases the store connections.
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("failed to close resource", "err", err)
		}
	}
}
