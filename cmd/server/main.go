package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/fyyur-booking/internal/config"
	"github.com/iliyamo/fyyur-booking/internal/database"
	"github.com/iliyamo/fyyur-booking/internal/handler"
	"github.com/iliyamo/fyyur-booking/internal/logging"
	"github.com/iliyamo/fyyur-booking/internal/middleware"
	"github.com/iliyamo/fyyur-booking/internal/queue"
	"github.com/iliyamo/fyyur-booking/internal/repository"
	"github.com/iliyamo/fyyur-booking/internal/router"
	"github.com/iliyamo/fyyur-booking/internal/service"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logging.Fatal().Err(err).Msg("read .env")
	}
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, ping, closeStore := openStore(ctx, cfg)
	defer closeStore()

	var opts []service.Option
	var wg sync.WaitGroup
	if cfg.Events.Enabled {
		opts = append(opts, service.WithPublisher(queue.NewPublisher(cfg.Events.URL, cfg.Events.Queue)))
		logging.Info().Str("url", cfg.Events.SafeURL()).Str("queue", cfg.Events.Queue).Msg("activity events enabled")
		if cfg.Events.Consumer {
			c := &queue.Consumer{URL: cfg.Events.URL, Queue: cfg.Events.Queue, LogDir: cfg.Events.LogDir}
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logging.Error().Err(err).Msg("activity consumer stopped")
				}
			}()
		}
	}
	dir := service.NewDirectory(store, opts...)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover(), middleware.RequestID(), middleware.RequestLogger())

	var mws []echo.MiddlewareFunc
	if rdb := config.NewRedisClient(cfg.Redis); rdb != nil {
		defer func() { _ = rdb.Close() }()
		mws = append(mws,
			middleware.NewTokenBucket(cfg.RateLimit, rdb),
			middleware.NewRedisCache(cfg.Cache, rdb),
		)
	}
	router.RegisterRoutes(e, ping)
	router.RegisterDirectory(e, handler.New(dir), mws...)

	go func() {
		logging.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Str("store", cfg.Driver).Msg("listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown")
	}
	wg.Wait()
	logging.Info().Msg("stopped")
}

// openStore selects the store backend.  The returned ping feeds the health
// check and is nil for the in-memory store.
func openStore(ctx context.Context, cfg config.Config) (service.Store, func(context.Context) error, func()) {
	if cfg.Driver == config.DriverMemory {
		logging.Warn().Msg("using in-memory store, data is lost on exit")
		return repository.NewMemoryStore(), nil, func() {}
	}

	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logging.Fatal().Err(err).Msg("database connection failed")
	}
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logging.Fatal().Err(err).Msg("database migration failed")
		}
	}
	return repository.NewStore(db), db.PingContext, func() { _ = db.Close() }
}
