package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/routetrace/internal/server"
	"github.com/matzehuels/routetrace/pkg/cache"
	rterrors "github.com/matzehuels/routetrace/pkg/errors"
	"github.com/matzehuels/routetrace/pkg/pipeline"
	"github.com/matzehuels/routetrace/pkg/session"
)

// runCachePrefix namespaces run results when they share Redis with sessions.
const runCachePrefix = "routetrace:run:"

// cleanupInterval is how often expired sessions are purged.
const cleanupInterval = time.Hour

// serveOpts holds the flags of "serve".
type serveOpts struct {
	addr      string
	store     string
	redisAddr string
	noCache   bool
}

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session API over HTTP",
		Long: `Serve the session API over HTTP.

Sessions live in memory, in files or in Redis. With Redis the run cache uses
the same connection; otherwise runs are cached on disk.`,
		Example: `  routetrace serve
  routetrace serve --addr :9000 --store redis --redis-addr localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = opts.addr
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.Backend = opts.store
			}
			if cmd.Flags().Changed("redis-addr") {
				cfg.Store.RedisAddr = opts.redisAddr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg, opts.noCache)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.store, "store", backendFile, "session store: file, memory or redis")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "localhost:6379", "Redis address for --store redis")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the run cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg Config, noCache bool) error {
	logger := loggerFromContext(ctx)

	store, runCache, err := c.openBackend(ctx, cfg, noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	runner := pipeline.NewRunner(runCache, nil, logger)
	defer runner.Close()

	srv := server.New(server.Config{
		Store:          store,
		Runner:         runner,
		Logger:         logger,
		TTL:            cfg.sessionTTL(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	go cleanupLoop(ctx, store, logger)

	logger.Info("serving", "addr", cfg.Server.Addr, "store", cfg.Store.Backend)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// openBackend opens the session store and the run cache for the backend.
func (c *CLI) openBackend(ctx context.Context, cfg Config, noCache bool) (session.Store, cache.Cache, error) {
	switch cfg.Store.Backend {
	case backendRedis:
		store, err := session.NewRedisStore(ctx, session.RedisConfig{
			Addr: cfg.Store.RedisAddr,
			DB:   cfg.Store.RedisDB,
		})
		if err != nil {
			return nil, nil, rterrors.Wrap(rterrors.ErrCodeInternal, err, "connect to redis at %s", cfg.Store.RedisAddr)
		}
		if noCache || cfg.Cache.Disabled {
			return store, cache.NewNullCache(), nil
		}
		return store, cache.NewRedisCacheFromClient(store.Client(), runCachePrefix), nil
	case backendMemory:
		rc, err := c.newCache(noCache)
		if err != nil {
			return nil, nil, err
		}
		return session.NewMemoryStore(), rc, nil
	default:
		store, err := session.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		rc, err := c.newCache(noCache)
		if err != nil {
			return nil, nil, err
		}
		return store, rc, nil
	}
}

// cleanupLoop purges expired sessions until ctx is done.
func cleanupLoop(ctx context.Context, store session.Store, logger *log.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx); err != nil {
				logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}
