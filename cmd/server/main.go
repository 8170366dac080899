package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/joshdurbin/linkbio/internal/auth"
	"github.com/joshdurbin/linkbio/internal/cache"
	"github.com/joshdurbin/linkbio/internal/cache/memory"
	cacheRedis "github.com/joshdurbin/linkbio/internal/cache/redis"
	"github.com/joshdurbin/linkbio/internal/config"
	"github.com/joshdurbin/linkbio/internal/logger"
	"github.com/joshdurbin/linkbio/internal/metrics"
	"github.com/joshdurbin/linkbio/internal/ratelimit"
	"github.com/joshdurbin/linkbio/internal/repository"
	"github.com/joshdurbin/linkbio/internal/repository/sqlite"
	"github.com/joshdurbin/linkbio/internal/service"
	"github.com/joshdurbin/linkbio/internal/shortener"
	httpTransport "github.com/joshdurbin/linkbio/internal/transport/http"
)

// newRootCmd builds the command tree. Flag defaults read LINKBIO_* variables,
// so .env must be loaded first.
func newRootCmd() *cobra.Command {
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:           "linkbio",
		Short:         "A link-in-bio short link and deeplink redirection service",
		Long:          "Short links that send each visitor to the right app store, app or web page for their device, backed by SQLite with optional Redis for shared caching and rate limits",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Shared by server, purge and token
	pf := rootCmd.PersistentFlags()
	pf.String("db-path", config.EnvString("DB_PATH", defaults.Database.Path), "Database file path")
	pf.String("jwt-secret", config.EnvString("JWT_SECRET", ""), "HS256 secret for API tokens")
	pf.Duration("token-ttl", config.EnvDuration("TOKEN_TTL", defaults.Auth.TokenTTL), "Lifetime of issued API tokens")
	pf.String("log-level", config.EnvString("LOG_LEVEL", defaults.Logging.Level), "Log level (trace, debug, info, warn, error)")
	pf.String("log-format", config.EnvString("LOG_FORMAT", defaults.Logging.Format), "Log format (console or json)")
	pf.BoolP("verbose", "v", config.EnvBool("VERBOSE", false), "Enable verbose logging (debug level and request bodies)")

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Start the redirect and link API server",
		RunE:  runServer,
	}

	f := serverCmd.Flags()
	f.StringP("port", "p", config.EnvString("PORT", defaults.Server.Port), "Server port")
	f.String("base-url", config.EnvString("BASE_URL", defaults.Server.BaseURL), "Public URL prefix of generated short links")
	f.Duration("shutdown-timeout", config.EnvDuration("SHUTDOWN_TIMEOUT", defaults.Server.ShutdownTimeout), "Graceful shutdown timeout")
	f.String("cache-backend", config.EnvString("CACHE_BACKEND", defaults.Cache.Backend), "Deeplink config cache backend (memory or redis)")
	f.Duration("cache-ttl", config.EnvDuration("CACHE_TTL", defaults.Cache.ConfigTTL), "Deeplink config cache TTL")
	f.Duration("cache-cleanup-interval", config.EnvDuration("CACHE_CLEANUP_INTERVAL", defaults.Cache.CleanupInterval), "Memory cache eviction interval")
	f.Int("code-length", config.EnvInt("CODE_LENGTH", defaults.Shortener.Length), "Default short code length")
	f.Int("max-attempts", config.EnvInt("MAX_ATTEMPTS", defaults.Shortener.MaxAttempts), "Short code candidates tried before giving up")
	f.Bool("ratelimit-enabled", config.EnvBool("RATELIMIT_ENABLED", defaults.RateLimit.Enabled), "Enable per-IP rate limiting")
	f.String("ratelimit-backend", config.EnvString("RATELIMIT_BACKEND", defaults.RateLimit.Backend), "Rate limiter backend (memory or redis)")
	f.Int("ratelimit-requests", config.EnvInt("RATELIMIT_REQUESTS", defaults.RateLimit.Requests), "Requests allowed per window and client")
	f.Duration("ratelimit-window", config.EnvDuration("RATELIMIT_WINDOW", defaults.RateLimit.Window), "Rate limit window")
	f.String("redis-addr", config.EnvString("REDIS_ADDR", defaults.Redis.Addr), "Redis address")
	f.String("redis-password", config.EnvString("REDIS_PASSWORD", ""), "Redis password")
	f.Int("redis-db", config.EnvInt("REDIS_DB", defaults.Redis.DB), "Redis database number")

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Hard-delete links deactivated longer than the retention period",
		Args:  cobra.NoArgs,
		RunE:  runPurge,
	}
	purgeCmd.Flags().Duration("retention", config.EnvDuration("PURGE_RETENTION", 30*24*time.Hour), "Keep deactivated links for this long")

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token for an owner",
		Args:  cobra.NoArgs,
		RunE:  runToken,
	}
	tokenCmd.Flags().String("subject", "", "Owner ID to embed in the token")
	tokenCmd.MarkFlagRequired("subject")

	rootCmd.AddCommand(serverCmd, newClientCmd(), purgeCmd, tokenCmd)
	return rootCmd
}

// loadConfig reads every flag into a validated configuration
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	cfg := config.Default()

	cfg.Database.Path, _ = flags.GetString("db-path")
	cfg.Auth.JWTSecret, _ = flags.GetString("jwt-secret")
	cfg.Auth.TokenTTL, _ = flags.GetDuration("token-ttl")
	cfg.Logging.Level, _ = flags.GetString("log-level")
	cfg.Logging.Format, _ = flags.GetString("log-format")
	cfg.Logging.Verbose, _ = flags.GetBool("verbose")

	cfg.Server.Port, _ = flags.GetString("port")
	cfg.Server.BaseURL, _ = flags.GetString("base-url")
	cfg.Server.ShutdownTimeout, _ = flags.GetDuration("shutdown-timeout")
	cfg.Cache.Backend, _ = flags.GetString("cache-backend")
	cfg.Cache.ConfigTTL, _ = flags.GetDuration("cache-ttl")
	cfg.Cache.CleanupInterval, _ = flags.GetDuration("cache-cleanup-interval")
	cfg.Shortener.Length, _ = flags.GetInt("code-length")
	cfg.Shortener.MaxAttempts, _ = flags.GetInt("max-attempts")
	cfg.RateLimit.Enabled, _ = flags.GetBool("ratelimit-enabled")
	cfg.RateLimit.Backend, _ = flags.GetString("ratelimit-backend")
	cfg.RateLimit.Requests, _ = flags.GetInt("ratelimit-requests")
	cfg.RateLimit.Window, _ = flags.GetDuration("ratelimit-window")
	cfg.Redis.Addr, _ = flags.GetString("redis-addr")
	cfg.Redis.Password, _ = flags.GetString("redis-password")
	cfg.Redis.DB, _ = flags.GetInt("redis-db")

	return config.New(cfg)
}

func newLogger(cmd *cobra.Command) (zerolog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logger.New(logger.Config{Level: level, Format: format, Output: os.Stderr}, verbose)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("port", cfg.Server.Port).
		Str("db_path", cfg.Database.Path).
		Str("cache_backend", cfg.Cache.Backend).
		Bool("ratelimit", cfg.RateLimit.Enabled).
		Msg("starting linkbio server")

	// Initialize database
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error().Err(err).Msg("error closing repository")
		}
	}()

	var rdb *goredis.Client
	if cfg.UsesRedis() {
		rdb, err = cacheRedis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
	}

	// Deeplink config cache
	var configCache cache.ConfigCache
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		configCache = cacheRedis.New(rdb, cfg.Cache.ConfigTTL, log)
	default:
		memoryCache := memory.New(cfg.Cache.ConfigTTL, memory.WithLogger(log))
		if err := memoryCache.StartJanitor(ctx, cfg.Cache.CleanupInterval); err != nil {
			return fmt.Errorf("failed to start cache janitor: %w", err)
		}
		configCache = memoryCache
	}
	defer configCache.Close()
	log.Info().Str("backend", cfg.Cache.Backend).Dur("ttl", cfg.Cache.ConfigTTL).Msg("deeplink config cache ready")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	generator, err := shortener.NewGenerator(cfg.Shortener)
	if err != nil {
		return fmt.Errorf("failed to create shortener generator: %w", err)
	}
	log.Info().Str("type", generator.Type()).Int("length", generator.Length()).Msg("short code generator ready")

	configs := cache.NewConfigStore(repo, configCache, log)
	dispatcher := service.NewRedirector(
		[]repository.LinkStore{repo.ShortLinks(), repo.ProfileLinks()},
		configs, m, log)
	links := service.NewLinkService(repo, configCache, generator, cfg.Shortener.MaxAttempts, m, log)

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		switch cfg.RateLimit.Backend {
		case config.BackendRedis:
			limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Limiter(), "linkbio:ratelimit:")
		default:
			limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Limiter())
		}
	}

	// Create and start HTTP server
	server := httpTransport.NewServer(links, dispatcher, httpTransport.Options{
		Port:     cfg.Server.Port,
		BaseURL:  cfg.Server.BaseURL,
		Verbose:  cfg.Logging.Verbose,
		Tokens:   tokens,
		Limiter:  limiter,
		Metrics:  m,
		Gatherer: reg,
		Logger:   log,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during server shutdown")
		}
	}

	log.Info().Msg("server stopped")
	return nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}

	dbPath, _ := cmd.Flags().GetString("db-path")
	retention, _ := cmd.Flags().GetDuration("retention")

	repo, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer repo.Close()

	// purge never creates links or touches the config cache
	links := service.NewLinkService(repo, nil, shortener.NewRandomGenerator(shortener.DefaultLength), 0, nil, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	purged, err := links.PurgeInactive(ctx, retention)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Purged %d inactive links\n", purged)
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	secret, _ := cmd.Flags().GetString("jwt-secret")
	ttl, _ := cmd.Flags().GetDuration("token-ttl")
	subject, _ := cmd.Flags().GetString("subject")

	tokens, err := auth.NewTokens(secret, ttl)
	if err != nil {
		return err
	}

	token, expiresAt, err := tokens.Issue(subject)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
	return nil
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
