package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/solvelog/internal/config"
	"github.com/MrSnakeDoc/solvelog/internal/extract"
	"github.com/MrSnakeDoc/solvelog/internal/httpserver"
	"github.com/MrSnakeDoc/solvelog/internal/httpserver/deps"
	"github.com/MrSnakeDoc/solvelog/internal/logger"
	"github.com/MrSnakeDoc/solvelog/internal/notes"
	"github.com/MrSnakeDoc/solvelog/internal/observability"
	"github.com/MrSnakeDoc/solvelog/internal/redis"
	"github.com/MrSnakeDoc/solvelog/internal/scheduler"
	boltstore "github.com/MrSnakeDoc/solvelog/internal/store/bolt"
	"github.com/MrSnakeDoc/solvelog/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/solvelog/internal/store/redis"
	sqlitestore "github.com/MrSnakeDoc/solvelog/internal/store/sqlite"
	"github.com/MrSnakeDoc/solvelog/internal/tracker"
	"github.com/MrSnakeDoc/solvelog/internal/utils"
	"github.com/MrSnakeDoc/solvelog/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	backend  tracker.Backend
	store    *tracker.Store
	reloader *scheduler.Reloader
	watcher  *scheduler.ImportWatcher // nil when no import file is configured
	backups  *scheduler.BackupRotator // nil when backups are disabled
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Open the backend early - fail fast if unavailable
	backend, err := openBackend(cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open %s backend: %v", cfg.Backend, err)
		os.Exit(1)
	}
	loggerClient.Info("backend initialized",
		logger.String("backend", cfg.Backend))

	metrics := observability.NewCollector("solvelog")

	store := tracker.New(backend,
		tracker.WithKey(cfg.StoreKey),
		tracker.WithLogger(loggerClient.With(logger.String("component", "store"))),
		tracker.WithObserver(metrics))

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewReloader(store, loggerClient, cfg.ReloadInterval, reloadTrigger)

	var watcher *scheduler.ImportWatcher
	if cfg.ImportFile != "" {
		loggerClient.Info("import file configured, initializing import watcher",
			logger.String("file", cfg.ImportFile))
		watcher = scheduler.NewImportWatcher(cfg.ImportFile, cfg.Location, store, loggerClient, cfg.ImportDebounce)
	}

	var backups *scheduler.BackupRotator
	if cfg.BackupDir != "" {
		backups = scheduler.NewBackupRotator(store, cfg.BackupDir, loggerClient, cfg.BackupInterval, cfg.BackupRetention)
	} else {
		loggerClient.Info("backup dir not configured, backups disabled")
	}

	var fetcher deps.PageFetcher
	if cfg.FetchEnabled {
		fetcher = extract.NewFetcher(extract.FetcherOptions{
			Timeout:     cfg.FetchTimeout,
			UserAgent:   cfg.FetchUserAgent,
			MaxFailures: uint32(max(cfg.FetchMaxFailures, 1)),
			OpenTimeout: cfg.FetchOpenTimeout,
		}, nil, loggerClient)
	}

	var readiness deps.Pinger
	if p, ok := backend.(deps.Pinger); ok {
		readiness = p
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Store:         store,
		Backend:       cfg.Backend,
		Readiness:     readiness,
		Fetcher:       fetcher,
		Notes:         notes.NewRenderer(),
		Metrics:       metrics,
		Validator:     validator.New(),
		Location:      cfg.Location,
		HeatmapDays:   cfg.HeatmapDays,
		ReloadTrigger: reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   server,
		backend:  backend,
		store:    store,
		reloader: reloader,
		watcher:  watcher,
		backups:  backups,
	}
}

// openBackend opens the persistence backend selected by cfg.Backend.
func openBackend(cfg *config.Config, log logger.Logger) (tracker.Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn("memory backend selected, problems are lost on restart")
		return memory.New(), nil

	case config.BackendRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		client, err := redis.Connect(ctx, redis.ConnectOptions{
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
		}, log)
		if err != nil {
			return nil, err
		}
		return redisstore.NewBackend(client), nil

	case config.BackendSQLite:
		b, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return b, nil

	case config.BackendBolt:
		b, err := boltstore.Open(boltstore.OpenOptions{Path: cfg.BoltPath})
		if err != nil {
			return nil, err
		}
		return b, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting solvelog v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("solvelog %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start store reloader (loads the log and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start store reloader: %w", err)
	}
	a.logger.Info("store reloader started",
		logger.Int("problems", a.store.Len()),
		logger.Duration("interval", a.cfg.ReloadInterval))

	// Start import watcher (if enabled)
	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			return fmt.Errorf("failed to start import watcher: %w", err)
		}
	}

	// Start backup rotator (if enabled)
	if a.backups != nil {
		if err := a.backups.Start(ctx); err != nil {
			return fmt.Errorf("failed to start backup rotator: %w", err)
		}
		a.logger.Info("backup rotator started",
			logger.String("dir", a.cfg.BackupDir),
			logger.Duration("interval", a.cfg.BackupInterval),
			logger.Duration("retention", a.cfg.BackupRetention))
	}

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

	a.reloader.Stop()
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.backups != nil {
		a.backups.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	utils.MustClose(a.backend, a.logger, a.cfg.Backend+" backend")

	a.logger.Info("✅ solvelog stopped cleanly")
	return nil
}
