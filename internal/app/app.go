package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/smartmark/internal/auth"
	"github.com/MrSnakeDoc/smartmark/internal/cache"
	"github.com/MrSnakeDoc/smartmark/internal/config"
	"github.com/MrSnakeDoc/smartmark/internal/httpserver"
	"github.com/MrSnakeDoc/smartmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/smartmark/internal/logger"
	"github.com/MrSnakeDoc/smartmark/internal/redis"
	"github.com/MrSnakeDoc/smartmark/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/smartmark/internal/store/redis"
	"github.com/MrSnakeDoc/smartmark/internal/sync"
	"github.com/MrSnakeDoc/smartmark/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	collections *sync.Manager
	janitor     *scheduler.SnapshotJanitor
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Authoritative store + change feed
	store := redisstore.NewStore(redisClient, loggerClient)

	// Local snapshot cache for instant first paint
	snapshots, err := cache.New(cfg.CacheDir)
	if err != nil {
		loggerClient.Errorf("Failed to initialize snapshot cache: %v", err)
		os.Exit(1)
	}

	// Live per-user collection state
	collections := sync.NewManager(store, store, snapshots, loggerClient)

	// Janitor pruning stale snapshot files
	janitor := scheduler.NewSnapshotJanitor(snapshots, loggerClient, cfg.GCInterval, cfg.SnapshotTTL)

	oauthClient := auth.NewOAuth(auth.Options{
		ClientID:      cfg.GoogleClientID,
		ClientSecret:  cfg.GoogleClientSecret,
		RedirectURL:   cfg.GoogleRedirectURL,
		SecureCookies: cfg.SecureCookies,
	})
	sessions := auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL, cfg.SecureCookies)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		RedisClient:       redisClient,
		Store:             store,
		Snapshots:         snapshots,
		Collections:       collections,
		OAuth:             oauthClient,
		Sessions:          sessions,
		MutationBurst:     cfg.MutationBurst,
		MutationPerMinute: cfg.MutationPerMinute,
		TrustProxy:        cfg.TrustProxy,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		collections: collections,
		janitor:     janitor,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting SmartMark v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("SmartMark %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start snapshot janitor
	if err := a.janitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start snapshot janitor: %w", err)
	}
	a.logger.Info("snapshot janitor started",
		logger.Duration("interval", a.cfg.GCInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.janitor.Stop()

	// Tear down live collections (closes every feed subscription)
	a.collections.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("redis connection closed")
		}
	}

	// Sync can fail when stderr is a terminal; nothing to do about it.
	_ = a.logger.Sync()

	return nil
}
